package graph_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gruntwork-io/terradeps/cli/commands/graph"
	"github.com/gruntwork-io/terradeps/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prodConfig = `
terraform {
  backend "s3" {
    bucket = "state"
  }
}

module "vpc" {
  source = "../../modules/vpc"
}
`

func testOptions(workingDir string) (*options.TerradepsOptions, *bytes.Buffer) {
	var stdout bytes.Buffer

	opts := options.NewTerradepsOptionsWithWriters(&stdout, io.Discard)
	opts.WorkingDir = workingDir

	return opts, &stdout
}

func writeTf(t *testing.T, baseDir, relDir, content string) {
	t.Helper()

	dir := filepath.Join(baseDir, relDir)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.tf"), []byte(content), 0644))
}

func setupTree(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	writeTf(t, tmpDir, "env/prod", prodConfig)
	writeTf(t, tmpDir, "modules/vpc", `resource "aws_vpc" "main" {}`)

	return tmpDir
}

func TestRunWritesDot(t *testing.T) {
	t.Parallel()

	tmpDir := setupTree(t)

	opts, stdout := testOptions(tmpDir)
	cmdOpts := graph.NewOptions(opts)
	cmdOpts.SearchPath = tmpDir

	require.NoError(t, graph.Run(context.Background(), opts.Logger, cmdOpts))

	expected := `digraph {
	"modules/vpc";
	"modules/vpc" -> "env/prod";
}
`
	assert.Equal(t, expected, stdout.String())
}

func TestRunWritesJSON(t *testing.T) {
	t.Parallel()

	tmpDir := setupTree(t)

	opts, stdout := testOptions(tmpDir)
	opts.Format = options.FormatJSON

	cmdOpts := graph.NewOptions(opts)
	cmdOpts.SearchPath = tmpDir

	require.NoError(t, graph.Run(context.Background(), opts.Logger, cmdOpts))

	var deps map[string][]string

	require.NoError(t, json.Unmarshal(stdout.Bytes(), &deps))
	assert.Equal(t, map[string][]string{
		"modules/vpc": {"env/prod"},
	}, deps)
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  string
		wantErr bool
	}{
		{format: options.FormatText},
		{format: options.FormatJSON},
		{format: options.FormatTree, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			opts, _ := testOptions(t.TempDir())
			opts.Format = tt.format

			err := graph.NewOptions(opts).Validate()
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid format: "+tt.format)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
