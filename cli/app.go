// Package cli assembles the terradeps command line application.
package cli

import (
	"github.com/gruntwork-io/go-commons/version"
	"github.com/gruntwork-io/terradeps/cli/commands/affected"
	"github.com/gruntwork-io/terradeps/cli/commands/graph"
	"github.com/gruntwork-io/terradeps/cli/commands/roots"
	"github.com/gruntwork-io/terradeps/options"
	"github.com/gruntwork-io/terradeps/pkg/env"
	"github.com/gruntwork-io/terradeps/pkg/log"
	hashicorpversion "github.com/hashicorp/go-version"
	"github.com/urfave/cli/v2"
)

const (
	WorkingDirFlagName  = "working-dir"
	LogLevelFlagName    = "log-level"
	NoColorFlagName     = "no-color"
	FormatFlagName      = "format"
	ParallelismFlagName = "parallelism"
	HiddenFlagName      = "hidden"
	ExcludeDirFlagName  = "exclude-dir"
)

// NewApp creates the terradeps CLI app.
func NewApp(opts *options.TerradepsOptions) *cli.App {
	app := cli.NewApp()
	app.Name = "terradeps"
	app.Usage = "Terradeps maps the blast radius of Terraform module changes: it builds a reverse\ndependency map of a configuration tree and reports which deployable roots a change\nto a module affects."
	app.UsageText = "terradeps [global options] <roots-search-path> [<module-path>...]"
	app.Version = version.GetVersion()
	app.Writer = opts.Writer
	app.ErrWriter = opts.ErrWriter
	app.Flags = NewGlobalFlags(opts)
	app.Commands = []*cli.Command{
		affected.NewCommand(opts),
		roots.NewCommand(opts),
		graph.NewCommand(opts),
	}
	app.Before = beforeRunningCommand(opts)
	// The bare form, `terradeps <path> [<module>...]`, runs the affected command.
	app.Action = affected.Action(opts)

	return app
}

// NewGlobalFlags returns the flags shared by every terradeps command. Each flag
// can also be set through a TERRADEPS_-prefixed environment variable.
func NewGlobalFlags(opts *options.TerradepsOptions) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        WorkingDirFlagName,
			EnvVars:     []string{"TERRADEPS_WORKING_DIR"},
			Usage:       "The start directory every module identity is relative to.",
			DefaultText: "current directory",
			Destination: &opts.WorkingDir,
		},
		&cli.StringFlag{
			Name:    LogLevelFlagName,
			EnvVars: []string{"TERRADEPS_LOG_LEVEL"},
			Usage:   "Log level. Supported levels: " + log.AllLevels.String() + ".",
			Value:   opts.LogLevel.String(),
		},
		&cli.BoolFlag{
			Name:        NoColorFlagName,
			EnvVars:     []string{"TERRADEPS_NO_COLOR"},
			Usage:       "Disable ANSI colors in logs and reports.",
			Destination: &opts.NoColor,
		},
		&cli.StringFlag{
			Name:        FormatFlagName,
			EnvVars:     []string{"TERRADEPS_FORMAT"},
			Usage:       "Report format. Valid values: text, json (roots also accepts tree).",
			Value:       opts.Format,
			Destination: &opts.Format,
		},
		&cli.IntFlag{
			Name:        ParallelismFlagName,
			EnvVars:     []string{"TERRADEPS_PARALLELISM"},
			Usage:       "How many directories to expand or classify concurrently.",
			Value:       opts.Parallelism,
			Destination: &opts.Parallelism,
		},
		&cli.BoolFlag{
			Name:        HiddenFlagName,
			EnvVars:     []string{"TERRADEPS_HIDDEN"},
			Usage:       "Include hidden directories when scanning for roots.",
			Destination: &opts.Hidden,
		},
		&cli.StringSliceFlag{
			Name:    ExcludeDirFlagName,
			EnvVars: []string{"TERRADEPS_EXCLUDE_DIR"},
			Usage:   "Glob of directories to skip when scanning for roots. Can be given multiple times.",
		},
	}
}

func beforeRunningCommand(opts *options.TerradepsOptions) cli.BeforeFunc {
	return func(ctx *cli.Context) error {
		level, err := log.ParseLevel(ctx.String(LogLevelFlagName))
		if err != nil {
			return err
		}

		opts.LogLevel = level
		opts.Logger.SetOptions(log.WithLevel(level))

		opts.ExcludeDirs = ctx.StringSlice(ExcludeDirFlagName)

		configureColors(opts)

		if err := opts.Normalize(); err != nil {
			return err
		}

		terradepsVersion, err := hashicorpversion.NewVersion(ctx.App.Version)
		if err != nil {
			// Malformed build version; fall back to 0.0.
			if terradepsVersion, err = hashicorpversion.NewVersion("0.0"); err != nil {
				return err
			}
		}

		opts.TerradepsVersion = terradepsVersion
		opts.Logger.Debugf("terradeps version: %s", opts.TerradepsVersion)

		return nil
	}
}

// configureColors disables colors in log output when asked to by the no-color
// flag or by the NO_COLOR convention, https://no-color.org.
func configureColors(opts *options.TerradepsOptions) {
	if _, ok := env.LookupEnv("NO_COLOR"); ok {
		opts.NoColor = true
	}

	if opts.NoColor {
		opts.LogFormatter.DisableColors = true
	}
}
