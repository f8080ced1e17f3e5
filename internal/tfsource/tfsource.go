// Package tfsource extracts the module source declarations from the Terraform
// configuration files of a directory.
package tfsource

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/gruntwork-io/terradeps/internal/hclparse"
	"github.com/gruntwork-io/terradeps/pkg/log"
	"github.com/gruntwork-io/terradeps/util"
	"github.com/zclconf/go-cty/cty"
)

const (
	// TfFileExtension is the file extension of Terraform configuration files.
	TfFileExtension = ".tf"

	moduleBlockName     = "module"
	sourceAttributeName = "source"
)

// sourceToken is the fast-path marker: a file whose raw bytes do not contain it cannot
// declare a module source, so the HCL parse is skipped entirely.
var sourceToken = []byte(sourceAttributeName)

var localSourcePrefixes = []string{
	"./",
	"../",
	".\\",
	"..\\",
}

// A directory is a deployable root rather than a reusable module when one of its
// configuration files declares where state lives: a backend block or a Terraform
// Cloud block.
var (
	backendRegexp    = regexp.MustCompile(`backend[[:blank:]]+"`)
	cloudBlockRegexp = regexp.MustCompile(`cloud[[:blank:]]+\{`)
)

// HasBackendConfig returns true if any Terraform configuration file directly in the
// given directory declares a backend or a Terraform Cloud block.
func HasBackendConfig(dir string) (bool, error) {
	tfGlob := util.JoinPath(dir, "*"+TfFileExtension)

	found, err := util.Grep(backendRegexp, tfGlob)
	if err != nil || found {
		return found, err
	}

	return util.Grep(cloudBlockRegexp, tfGlob)
}

// IsLocalSource returns true if the given module source refers to a path on the local
// filesystem rather than a registry module or a VCS URL. Terraform treats a source as a
// local path only when it begins with "./" or "../".
func IsLocalSource(source string) bool {
	for _, prefix := range localSourcePrefixes {
		if strings.HasPrefix(source, prefix) {
			return true
		}
	}

	return false
}

// ListTfFiles returns the absolute paths of the non-hidden Terraform configuration files
// directly in the given directory, in lexical order.
func ListTfFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(util.JoinPath(dir, "*"+TfFileExtension))
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	var files []string //nolint:prealloc

	for _, match := range matches {
		if strings.HasPrefix(filepath.Base(match), ".") || !util.IsFile(match) {
			continue
		}

		files = append(files, match)
	}

	sort.Strings(files)

	return files, nil
}

// ExtractSources returns the literal `source` values of every `module` block in every
// Terraform configuration file of the given directory, in file order then declaration
// order.
//
// Unreadable and malformed files are skipped so one bad file cannot hide the sources
// declared by the others. The skipped files are reported through the returned error,
// joined, alongside the sources that were extracted.
func ExtractSources(l log.Logger, dir string) ([]string, error) {
	files, err := ListTfFiles(dir)
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()

	var (
		sources []string
		errs    []error
	)

	for _, file := range files {
		fileSources, err := extractFileSources(l, parser, file)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		sources = append(sources, fileSources...)
	}

	return sources, errors.Join(errs...)
}

func extractFileSources(l log.Logger, parser *hclparse.Parser, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		l.Warnf("Error reading file %s: %v", path, err)

		return nil, NewUnreadableFileError(path, err)
	}

	if !bytes.Contains(data, sourceToken) {
		return nil, nil
	}

	file, err := parser.ParseFromBytes(data, path)
	if err != nil {
		l.Warnf("Failed to parse HCL in file %s: %v", path, err)

		return nil, NewMalformedDeclarationError(path, err)
	}

	blocks, err := file.Blocks(moduleBlockName, "name")
	if err != nil {
		l.Warnf("Failed to read module blocks from file %s: %v", path, err)

		return nil, NewMalformedDeclarationError(path, err)
	}

	var sources []string //nolint:prealloc

	for _, block := range blocks {
		attr, err := hclparse.Attribute(block.Body, sourceAttributeName)
		if err != nil {
			l.Warnf("Failed to read module source from file %s: %v", path, err)

			return nil, NewMalformedDeclarationError(path, err)
		}

		if attr == nil {
			l.Debugf("Module block without a source in %s, skipping", path)
			continue
		}

		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() || val.IsNull() || !val.Type().Equals(cty.String) {
			l.Debugf("Module source in %s is not a string literal, skipping", path)
			continue
		}

		sources = append(sources, val.AsString())
	}

	return sources, nil
}
