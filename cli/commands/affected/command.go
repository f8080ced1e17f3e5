// Package affected provides the terradeps affected command, which builds the
// dependency map for a configuration tree and reports the units affected by a
// change to each given module.
package affected

import (
	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/gruntwork-io/terradeps/options"
	"github.com/urfave/cli/v2"
)

const CommandName = "affected"

func NewCommand(opts *options.TerradepsOptions) *cli.Command {
	return &cli.Command{
		Name:      CommandName,
		Usage:     "Build the dependency map and report the units affected by a change to each given module.",
		UsageText: "terradeps [global options] affected <roots-search-path> [<module-path>...]",
		Action:    Action(opts),
	}
}

// Action returns the action of the affected command. It also backs the bare
// form of the app, so that `terradeps <path> <module>` works without naming a
// command.
func Action(opts *options.TerradepsOptions) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		cmdOpts := NewOptions(opts)

		if err := cmdOpts.Validate(); err != nil {
			return err
		}

		if !ctx.Args().Present() {
			return errors.New("missing roots search path argument")
		}

		cmdOpts.SearchPath = ctx.Args().First()
		cmdOpts.Subjects = ctx.Args().Tail()

		return Run(ctx.Context, opts.Logger, cmdOpts)
	}
}
