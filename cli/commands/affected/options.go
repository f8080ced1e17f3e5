package affected

import (
	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/gruntwork-io/terradeps/options"
)

type Options struct {
	*options.TerradepsOptions

	// SearchPath is the directory scanned recursively for deployable roots.
	SearchPath string

	// Subjects are the module identities to query, relative to the working
	// directory.
	Subjects []string
}

func NewOptions(opts *options.TerradepsOptions) *Options {
	return &Options{
		TerradepsOptions: opts,
	}
}

func (o *Options) Validate() error {
	switch o.Format {
	case options.FormatText, options.FormatJSON:
		return nil
	default:
		return errors.New("invalid format: " + o.Format)
	}
}
