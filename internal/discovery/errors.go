package discovery

import (
	"fmt"

	"github.com/gruntwork-io/terradeps/internal/errors"
)

// InvalidInputPathError represents a search path that does not exist or is not a
// directory. Nothing gets scanned.
type InvalidInputPathError struct {
	Path string
}

func (e InvalidInputPathError) Error() string {
	return fmt.Sprintf("invalid search path %s: it does not exist or is not a directory", e.Path)
}

// NewInvalidInputPathError creates a new InvalidInputPathError for the given path.
func NewInvalidInputPathError(path string) error {
	return errors.New(InvalidInputPathError{Path: path})
}
