// Package roots provides the terradeps roots command, which lists the
// deployable roots discovered under a search path.
package roots

import (
	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/gruntwork-io/terradeps/options"
	"github.com/urfave/cli/v2"
)

const CommandName = "roots"

func NewCommand(opts *options.TerradepsOptions) *cli.Command {
	return &cli.Command{
		Name:      CommandName,
		Usage:     "List the deployable roots under the search path.",
		UsageText: "terradeps [global options] roots <roots-search-path>",
		Action: func(ctx *cli.Context) error {
			cmdOpts := NewOptions(opts)

			if err := cmdOpts.Validate(); err != nil {
				return err
			}

			if !ctx.Args().Present() {
				return errors.New("missing roots search path argument")
			}

			cmdOpts.SearchPath = ctx.Args().First()

			return Run(ctx.Context, opts.Logger, cmdOpts)
		},
	}
}
