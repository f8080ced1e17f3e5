// Package options provides the set of options that configure the behavior of the
// terradeps program.
package options

import (
	"io"
	"os"

	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/gruntwork-io/terradeps/pkg/log"
	"github.com/gruntwork-io/terradeps/pkg/log/format"
	"github.com/gruntwork-io/terradeps/util"
	"github.com/hashicorp/go-version"
)

const (
	// DefaultParallelism keeps the graph build sequential unless asked otherwise.
	DefaultParallelism = 1

	defaultLogLevel = log.InfoLevel
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatTree = "tree"
)

// TerradepsOptions represents options that configure the behavior of the terradeps program.
type TerradepsOptions struct {
	// Logger is where commands write diagnostics. Reports go to Writer instead.
	Logger log.Logger

	// LogFormatter is the formatter behind Logger, kept so flags can toggle colors
	// after the logger exists.
	LogFormatter *format.PrettyFormatter

	// TerradepsVersion is the version of terradeps.
	TerradepsVersion *version.Version

	// WorkingDir is the start directory. Every module identity is a path relative
	// to it.
	WorkingDir string

	// Format selects the report format: text, json, or tree for the roots command.
	Format string

	// ExcludeDirs are glob patterns of directories discovery skips.
	ExcludeDirs []string

	// LogLevel is the verbosity of the stderr log.
	LogLevel log.Level

	// Parallelism bounds how many directories expand or classify concurrently.
	Parallelism int

	// Hidden determines whether discovery scans hidden directories.
	Hidden bool

	// NoColor disables ANSI colors in logs and reports.
	NoColor bool

	// Writer is where reports are written.
	Writer io.Writer

	// ErrWriter is where logs are written.
	ErrWriter io.Writer
}

// NewTerradepsOptions creates a TerradepsOptions with default values, writing
// reports to stdout and logs to stderr.
func NewTerradepsOptions() *TerradepsOptions {
	return NewTerradepsOptionsWithWriters(os.Stdout, os.Stderr)
}

// NewTerradepsOptionsWithWriters creates a TerradepsOptions with default values
// and the given writers.
func NewTerradepsOptionsWithWriters(stdout, stderr io.Writer) *TerradepsOptions {
	logFormatter := format.NewPrettyFormatter()

	return &TerradepsOptions{
		Logger: log.New(
			log.WithOutput(stderr),
			log.WithLevel(defaultLogLevel),
			log.WithFormatter(logFormatter),
		),
		LogFormatter: logFormatter,
		WorkingDir:   "",
		Format:       FormatText,
		ExcludeDirs:  []string{},
		LogLevel:     defaultLogLevel,
		Parallelism:  DefaultParallelism,
		Writer:       stdout,
		ErrWriter:    stderr,
	}
}

// Normalize canonicalizes path fields once flags and environment variables have
// been applied. The working directory defaults to the process working directory
// and becomes an absolute path, so identity computation never depends on where
// the process happens to run afterwards.
func (opts *TerradepsOptions) Normalize() error {
	workingDir := opts.WorkingDir
	if workingDir == "" {
		workingDir = "."
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return errors.WithStackTrace(err)
	}

	canonicalWorkingDir, err := util.CanonicalPath(workingDir, currentDir)
	if err != nil {
		return err
	}

	opts.WorkingDir = canonicalWorkingDir

	return nil
}
