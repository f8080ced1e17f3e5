package hclparse

import (
	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/hashicorp/hcl/v2"
)

// File is a parsed HCL file together with the path it was parsed from.
type File struct {
	*hcl.File
	ConfigPath string
}

// Blocks returns all blocks of the given type, in declaration order. Constructs the file
// does not declare are ignored, so extraction never fails on unrelated content.
func (file *File) Blocks(blockType string, labelNames ...string) ([]*hcl.Block, error) {
	schema := &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: blockType, LabelNames: labelNames},
		},
	}

	parsedBlocks, _, diags := file.Body.PartialContent(schema)
	if diags.HasErrors() {
		return nil, errors.New(diags)
	}

	var blocks []*hcl.Block //nolint:prealloc

	for _, block := range parsedBlocks.Blocks {
		if block.Type != blockType {
			continue
		}

		blocks = append(blocks, block)
	}

	return blocks, nil
}

// Attribute returns the named attribute of the given body, or nil if the body does not
// declare it.
func Attribute(body hcl.Body, name string) (*hcl.Attribute, error) {
	schema := &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: name},
		},
	}

	content, _, diags := body.PartialContent(schema)
	if diags.HasErrors() {
		return nil, errors.New(diags)
	}

	return content.Attributes[name], nil
}
