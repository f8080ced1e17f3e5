// Package hclparse provides a wrapper around the HCL2 parser to handle diagnostics and
// panics from one place.
//
// The HCL2 parser and especially cty conversions panic in many types of errors, so the
// wrapper recovers from those panics and converts them to normal errors.
package hclparse

import (
	"path/filepath"

	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
)

type Parser struct {
	*hclparse.Parser
}

func NewParser() *Parser {
	return &Parser{
		Parser: hclparse.NewParser(),
	}
}

// ParseFromBytes uses the HCL2 parser to parse the given bytes into an HCL file body.
func (parser *Parser) ParseFromBytes(content []byte, configPath string) (file *File, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = errors.New(PanicWhileParsingError{RecoveredValue: recovered, ConfigFile: configPath})
		}
	}()

	var (
		diags   hcl.Diagnostics
		hclFile *hcl.File
	)

	switch filepath.Ext(configPath) {
	case ".json":
		hclFile, diags = parser.ParseJSON(content, configPath)
	default:
		hclFile, diags = parser.ParseHCL(content, configPath)
	}

	if diags.HasErrors() {
		return nil, errors.New(diags)
	}

	return &File{
		File:       hclFile,
		ConfigPath: configPath,
	}, nil
}
