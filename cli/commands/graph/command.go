// Package graph provides the terradeps graph command, which renders the full
// dependency map, either as GraphViz DOT or as JSON.
package graph

import (
	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/gruntwork-io/terradeps/options"
	"github.com/urfave/cli/v2"
)

const CommandName = "graph"

func NewCommand(opts *options.TerradepsOptions) *cli.Command {
	return &cli.Command{
		Name:      CommandName,
		Usage:     "Render the full dependency map. The text format is GraphViz DOT.",
		UsageText: "terradeps [global options] graph <roots-search-path>",
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
