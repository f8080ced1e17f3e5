package graph

import (
	"context"
	"encoding/json"

	"github.com/gruntwork-io/terradeps/internal/depgraph"
	"github.com/gruntwork-io/terradeps/internal/discovery"
	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/gruntwork-io/terradeps/options"
	"github.com/gruntwork-io/terradeps/pkg/log"
)

// Run runs the graph command: discover the deployable roots under the search
// path, build the dependency map from them, and render the whole map.
func Run(ctx context.Context, l log.Logger, opts *Options) error {
	d := discovery.NewDiscovery(opts.SearchPath).
		WithExcludeDirs(opts.ExcludeDirs...).
		WithWorkers(opts.Parallelism)

	if opts.Hidden {
		d = d.WithHidden()
	}

	rootList, err := d.Discover(ctx, l, opts.TerradepsOptions)
	if err != nil {
		return err
	}

	deps, err := depgraph.NewBuilder(l, opts.WorkingDir).
		WithRoots(rootList.Paths()...).
		WithParallelism(opts.Parallelism).
		Build(ctx)
	if err != nil {
		if deps == nil || errors.IsContextCanceled(err) {
			return err
		}

		l.Warnf("Errors encountered while building the dependency map:\n%s", err)
	}

	switch opts.Format {
	case options.FormatText:
		return depgraph.WriteDot(opts.Writer, deps)
	case options.FormatJSON:
		return outputJSON(opts, deps)
	default:
		// This should never happen, because of validation in the command.
		// If it happens, we want to throw so we can fix the validation.
		return errors.New("invalid format: " + opts.Format)
	}
}

// outputJSON writes the dependency map as one JSON object keyed by dependency,
// sorted both ways.
func outputJSON(opts *Options, deps depgraph.DependencyMap) error {
	jsonBytes, err := json.MarshalIndent(deps.Sorted(), "", "  ")
	if err != nil {
		return errors.New(err)
	}

	_, err = opts.Writer.Write(append(jsonBytes, '\n'))
	if err != nil {
		return errors.New(err)
	}

	return nil
}
