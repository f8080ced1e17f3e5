package affected

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gruntwork-io/terradeps/internal/depgraph"
	"github.com/gruntwork-io/terradeps/internal/discovery"
	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/gruntwork-io/terradeps/options"
	"github.com/gruntwork-io/terradeps/pkg/log"
)

// Run runs the affected command: discover the deployable roots under the
// search path, build the dependency map from them, and report the dependents
// of each subject module.
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

	l.Infof("Scanning %d roots", len(rootList))

	start := time.Now()

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

	report := NewReport(len(rootList), time.Since(start))

	for _, subject := range opts.Subjects {
		report.Add(subject, deps.AffectedBy(subject).Sorted())
	}

	switch opts.Format {
	case options.FormatText:
		return outputText(opts, report)
	case options.FormatJSON:
		return outputJSON(opts, report)
	default:
		// This should never happen, because of validation in the command.
		// If it happens, we want to throw so we can fix the validation.
		return errors.New("invalid format: " + opts.Format)
	}
}

// Report is the result of one affected run: how the dependency map was built
// and, per queried subject, the units a change to it affects.
type Report struct {
	RootCount int                 `json:"rootCount"`
	Duration  string              `json:"duration"`
	Results   map[string][]string `json:"results"`

	// subjects preserves query order for the text output.
	subjects []string
}

func NewReport(rootCount int, duration time.Duration) *Report {
	return &Report{
		RootCount: rootCount,
		Duration:  duration.Round(time.Millisecond).String(),
		Results:   map[string][]string{},
	}
}

// Add records the units affected by a change to subject.
func (r *Report) Add(subject string, affected []string) {
	if _, ok := r.Results[subject]; !ok {
		r.subjects = append(r.subjects, subject)
	}

	r.Results[subject] = affected
}

// outputText writes the summary line followed by one block per subject.
func outputText(opts *Options, report *Report) error {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Built dependency map for %d roots in %s\n", report.RootCount, report.Duration)

	for _, subject := range report.subjects {
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "Units affected by a change to %s:\n", subject)

		for _, affected := range report.Results[subject] {
			buf.WriteString("  " + affected + "\n")
		}
	}

	_, err := opts.Writer.Write([]byte(buf.String()))

	return errors.New(err)
}

// outputJSON writes the report as a single JSON object.
func outputJSON(opts *Options, report *Report) error {
	jsonBytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.New(err)
	}

	_, err = opts.Writer.Write(append(jsonBytes, '\n'))
	if err != nil {
		return errors.New(err)
	}

	return nil
}
