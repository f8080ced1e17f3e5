package roots_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gruntwork-io/terradeps/cli/commands/roots"
	"github.com/gruntwork-io/terradeps/internal/discovery"
	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/gruntwork-io/terradeps/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backendConfig = `
terraform {
  backend "s3" {
    bucket = "state"
  }
}
`

const cloudConfig = `
terraform {
  cloud {
    organization = "acme"
  }
}
`

func testOptions(workingDir string) (*options.TerradepsOptions, *bytes.Buffer) {
	var stdout bytes.Buffer

	opts := options.NewTerradepsOptionsWithWriters(&stdout, io.Discard)
	opts.WorkingDir = workingDir
	opts.NoColor = true

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

	writeTf(t, tmpDir, "env/prod", backendConfig)
	writeTf(t, tmpDir, "env/staging", cloudConfig)
	writeTf(t, tmpDir, "modules/vpc", `resource "aws_vpc" "main" {}`)

	return tmpDir
}

func TestRunTextListsRoots(t *testing.T) {
	t.Parallel()

	tmpDir := setupTree(t)

	opts, stdout := testOptions(tmpDir)
	cmdOpts := roots.NewOptions(opts)
	cmdOpts.SearchPath = tmpDir

	require.NoError(t, roots.Run(context.Background(), opts.Logger, cmdOpts))

	assert.Equal(t, []string{"env/prod", "env/staging"}, strings.Fields(stdout.String()))
}

func TestRunJSONListsRoots(t *testing.T) {
	t.Parallel()

	tmpDir := setupTree(t)

	opts, stdout := testOptions(tmpDir)
	opts.Format = options.FormatJSON

	cmdOpts := roots.NewOptions(opts)
	cmdOpts.SearchPath = tmpDir

	require.NoError(t, roots.Run(context.Background(), opts.Logger, cmdOpts))

	var identities []string

	require.NoError(t, json.Unmarshal(stdout.Bytes(), &identities))
	assert.Equal(t, []string{"env/prod", "env/staging"}, identities)
}

func TestRunTreeListsRoots(t *testing.T) {
	t.Parallel()

	tmpDir := setupTree(t)

	opts, stdout := testOptions(tmpDir)
	opts.Format = options.FormatTree

	cmdOpts := roots.NewOptions(opts)
	cmdOpts.SearchPath = tmpDir

	require.NoError(t, roots.Run(context.Background(), opts.Logger, cmdOpts))

	output := stdout.String()
	lines := strings.Split(output, "\n")

	require.NotEmpty(t, lines)
	assert.Equal(t, ".", lines[0])
	assert.Contains(t, output, "env")
	assert.Contains(t, output, "prod")
	assert.Contains(t, output, "staging")
	assert.NotContains(t, output, "vpc")
}

func TestRunInvalidSearchPath(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	opts, _ := testOptions(tmpDir)
	cmdOpts := roots.NewOptions(opts)
	cmdOpts.SearchPath = filepath.Join(tmpDir, "ghost")

	err := roots.Run(context.Background(), opts.Logger, cmdOpts)
	require.Error(t, err)

	var invalidPathErr discovery.InvalidInputPathError
	assert.True(t, errors.As(err, &invalidPathErr))
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  string
		wantErr bool
	}{
		{format: options.FormatText},
		{format: options.FormatJSON},
		{format: options.FormatTree},
		{format: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			opts, _ := testOptions(t.TempDir())
			opts.Format = tt.format

			err := roots.NewOptions(opts).Validate()
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid format: "+tt.format)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestColorizerPassesThroughWhenDisabled(t *testing.T) {
	t.Parallel()

	colorizer := roots.NewColorizer(false)

	assert.Equal(t, "env/prod", colorizer.Colorize("env/prod"))
	assert.Equal(t, "vpc", colorizer.Colorize("vpc"))
}

func TestColorizerAddsEscapeCodes(t *testing.T) {
	t.Parallel()

	colorizer := roots.NewColorizer(true)

	colorized := colorizer.Colorize("env/prod")
	assert.Contains(t, colorized, "\x1b[")
	assert.Contains(t, colorized, "prod")
	assert.NotEqual(t, "env/prod", colorized)
}
