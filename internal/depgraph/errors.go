package depgraph

import (
	"fmt"

	"github.com/gruntwork-io/terradeps/internal/errors"
)

// MissingRootError represents a root directory that does not exist on disk. Roots
// seed the whole build, so this aborts before any graph work.
type MissingRootError struct {
	Path string
}

func (e MissingRootError) Error() string {
	return fmt.Sprintf("root directory %s does not exist or is not a directory", e.Path)
}

// NewMissingRootError creates a new MissingRootError for the given path.
func NewMissingRootError(path string) error {
	return errors.New(MissingRootError{Path: path})
}

// UnresolvableSourceError represents a declared module source that could not be
// normalized into an identity. The edge is skipped, the build continues.
type UnresolvableSourceError struct {
	Dir    string
	Source string
	Err    error
}

func (e UnresolvableSourceError) Error() string {
	return fmt.Sprintf("cannot resolve module source %q declared in %s: %v", e.Source, e.Dir, e.Err)
}

func (e UnresolvableSourceError) Unwrap() error {
	return e.Err
}

// NewUnresolvableSourceError creates a new UnresolvableSourceError for the given
// declaration site.
func NewUnresolvableSourceError(dir, source string, err error) error {
	return errors.New(UnresolvableSourceError{
		Dir:    dir,
		Source: source,
		Err:    err,
	})
}

// MissingModuleDirectoryError represents a module source that resolves to a
// directory absent on disk. The edge pointing at it is kept, so the phantom module
// stays queryable, but the directory expands to nothing.
type MissingModuleDirectoryError struct {
	Path string
}

func (e MissingModuleDirectoryError) Error() string {
	return fmt.Sprintf("module directory %s does not exist", e.Path)
}

// NewMissingModuleDirectoryError creates a new MissingModuleDirectoryError for the
// given path.
func NewMissingModuleDirectoryError(path string) error {
	return errors.New(MissingModuleDirectoryError{Path: path})
}
