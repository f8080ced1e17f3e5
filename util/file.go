package util

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/mattn/go-zglob"
	homedir "github.com/mitchellh/go-homedir"
)

// FileExists returns true if the given file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FileNotExists returns true if the given file does not exist.
func FileNotExists(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}

// IsDir returns true if the path points to a directory.
func IsDir(path string) bool {
	fileInfo, err := os.Stat(path)
	return err == nil && fileInfo.IsDir()
}

// IsFile returns true if the path points to a file.
func IsFile(path string) bool {
	fileInfo, err := os.Stat(path)
	return err == nil && !fileInfo.IsDir()
}

// CanonicalPath returns the canonical version of the given path, relative to the given base path. That is, if the given
// path is a relative path, assume it is relative to the given base path. A canonical path is an absolute path with all
// relative components (e.g. "../") fully resolved, which makes it safe to compare paths as strings. A leading "~" is
// expanded to the current user's home directory.
func CanonicalPath(path string, basePath string) (string, error) {
	expandedPath, err := homedir.Expand(path)
	if err != nil {
		return "", errors.WithStackTrace(err)
	}

	if !filepath.IsAbs(expandedPath) {
		expandedPath = JoinPath(basePath, expandedPath)
	}

	absPath, err := filepath.Abs(expandedPath)
	if err != nil {
		return "", errors.WithStackTrace(err)
	}

	return CleanPath(absPath), nil
}

// CanonicalPaths returns the canonical version of the given paths, relative to the given base path.
func CanonicalPaths(paths []string, basePath string) ([]string, error) {
	canonicalPaths := []string{}

	for _, path := range paths {
		canonicalPath, err := CanonicalPath(path, basePath)
		if err != nil {
			return canonicalPaths, err
		}

		canonicalPaths = append(canonicalPaths, canonicalPath)
	}

	return canonicalPaths, nil
}

// ResolveModuleSource resolves a module source declared by a configuration file in
// referencingDir to the canonical identity used throughout the dependency map: the
// path of the module directory relative to startDir, with all "."/".." components
// resolved and "/" as the separator. The source always resolves against the
// referencing directory, never the process working directory, so every referencing
// site yields the same identity for the same on-disk module.
func ResolveModuleSource(referencingDir, rawSource, startDir string) (string, error) {
	modulePath, err := CanonicalPath(rawSource, referencingDir)
	if err != nil {
		return "", err
	}

	return GetPathRelativeTo(modulePath, startDir)
}

// GetPathRelativeTo returns the relative path you would have to take to get from basePath to path.
func GetPathRelativeTo(path string, basePath string) (string, error) {
	if path == "" {
		path = "."
	}

	if basePath == "" {
		basePath = "."
	}

	inputFolderAbs, err := filepath.Abs(basePath)
	if err != nil {
		return "", errors.WithStackTrace(err)
	}

	fileAbs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.WithStackTrace(err)
	}

	relPath, err := filepath.Rel(inputFolderAbs, fileAbs)
	if err != nil {
		return "", errors.WithStackTrace(err)
	}

	return filepath.ToSlash(relPath), nil
}

// Grep returns true if the given regex can be found in any of the files matched by the given glob.
func Grep(regex *regexp.Regexp, glob string) (bool, error) {
	// Ideally, we'd use a builtin Go library like filepath.Glob here, but per https://github.com/golang/go/issues/11862,
	// the current go implementation doesn't support treating ** as zero or more directories, just zero or one.
	// So we use a third-party library.
	matches, err := zglob.Glob(glob)
	if err != nil {
		return false, errors.WithStackTrace(err)
	}

	for _, match := range matches {
		if IsDir(match) {
			continue
		}

		bytes, err := os.ReadFile(match)
		if err != nil {
			return false, errors.WithStackTrace(err)
		}

		if regex.Match(bytes) {
			return true, nil
		}
	}

	return false, nil
}

// ReadFileAsString returns the contents of the file at the given path as a string.
func ReadFileAsString(path string) (string, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return "", errors.WithStackTraceAndPrefix(err, "Error reading file at path %s", path)
	}

	return string(bytes), nil
}

// JoinPath always use / as the path separator to improve cross-platform compatibility.
func JoinPath(elem ...string) string {
	return filepath.ToSlash(filepath.Join(elem...))
}

// CleanPath is used when cleaning paths to ensure the returned path uses / as the path separator.
func CleanPath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}
