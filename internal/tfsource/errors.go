package tfsource

import (
	"fmt"

	"github.com/gruntwork-io/terradeps/internal/errors"
)

// UnreadableFileError represents a configuration file that could not be read. The file
// contributes no sources, the rest of the scan continues.
type UnreadableFileError struct {
	Path string
	Err  error
}

func (e UnreadableFileError) Error() string {
	return fmt.Sprintf("cannot read configuration file %s: %v", e.Path, e.Err)
}

func (e UnreadableFileError) Unwrap() error {
	return e.Err
}

// NewUnreadableFileError creates a new UnreadableFileError for the given file.
func NewUnreadableFileError(path string, err error) error {
	return errors.New(UnreadableFileError{
		Path: path,
		Err:  err,
	})
}

// MalformedDeclarationError represents a configuration file whose module blocks could not
// be interpreted. The file contributes no sources, the rest of the scan continues.
type MalformedDeclarationError struct {
	Path string
	Err  error
}

func (e MalformedDeclarationError) Error() string {
	return fmt.Sprintf("cannot interpret module declarations in %s: %v", e.Path, e.Err)
}

func (e MalformedDeclarationError) Unwrap() error {
	return e.Err
}

// NewMalformedDeclarationError creates a new MalformedDeclarationError for the given file.
func NewMalformedDeclarationError(path string, err error) error {
	return errors.New(MalformedDeclarationError{
		Path: path,
		Err:  err,
	})
}
