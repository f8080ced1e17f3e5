package main

import (
	"context"
	"os"
	osignal "os/signal"

	"github.com/gruntwork-io/terradeps/cli"
	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/gruntwork-io/terradeps/internal/os/signal"
	"github.com/gruntwork-io/terradeps/options"
	"github.com/gruntwork-io/terradeps/pkg/log"
)

// The main entrypoint for terradeps.
func main() {
	opts := options.NewTerradepsOptions()

	defer errors.Recover(checkForErrorsAndExit(opts.Logger))

	app := cli.NewApp(opts)

	err := app.RunContext(setupContext(opts.Logger), os.Args)

	checkForErrorsAndExit(opts.Logger)(err)
}

// If there is an error, display it in the console and exit with a non-zero exit code. Otherwise, exit 0.
func checkForErrorsAndExit(logger log.Logger) func(error) {
	return func(err error) {
		if err == nil {
			os.Exit(0)
		}

		logger.Error(err.Error())

		if errStack := errors.ErrorStack(err); errStack != "" {
			logger.Trace(errStack)
		}

		var exitCodeErr errors.ErrorWithExitCode
		if errors.As(err, &exitCodeErr) {
			os.Exit(exitCodeErr.ExitCode)
		}

		os.Exit(1)
	}
}

// setupContext returns a context that is canceled when the process receives an
// interrupt signal.
func setupContext(logger log.Logger) context.Context {
	ctx, cancel := context.WithCancelCause(context.Background())

	sigCh := make(chan os.Signal, 1)
	osignal.Notify(sigCh, signal.InterruptSignals...)

	go func() {
		sig := <-sigCh
		logger.Infof("%s signal received. Stopping.", sig)
		cancel(signal.NewContextCanceledCause(sig))
	}()

	return ctx
}
