package affected_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gruntwork-io/terradeps/cli/commands/affected"
	"github.com/gruntwork-io/terradeps/internal/discovery"
	"github.com/gruntwork-io/terradeps/internal/errors"
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

const stagingConfig = `
terraform {
  cloud {
    organization = "acme"
  }
}

module "vpc" {
  source = "../../modules/vpc"
}
`

const vpcConfig = `
module "net" {
  source = "../net"
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
	writeTf(t, tmpDir, "env/staging", stagingConfig)
	writeTf(t, tmpDir, "modules/vpc", vpcConfig)
	writeTf(t, tmpDir, "modules/net", `resource "aws_vpc" "main" {}`)

	return tmpDir
}

func TestRunReportsAffectedUnits(t *testing.T) {
	t.Parallel()

	tmpDir := setupTree(t)

	opts, stdout := testOptions(tmpDir)
	cmdOpts := affected.NewOptions(opts)
	cmdOpts.SearchPath = tmpDir
	cmdOpts.Subjects = []string{"modules/vpc", "modules/ghost"}

	require.NoError(t, affected.Run(context.Background(), opts.Logger, cmdOpts))

	output := stdout.String()
	lines := strings.Split(output, "\n")

	assert.Regexp(t, `^Built dependency map for 2 roots in \S+$`, lines[0])
	assert.Contains(t, output, "Units affected by a change to modules/vpc:\n  env/prod\n  env/staging\n")
	assert.True(t, strings.HasSuffix(output, "Units affected by a change to modules/ghost:\n"))
}

func TestRunFollowsModuleChains(t *testing.T) {
	t.Parallel()

	tmpDir := setupTree(t)

	opts, stdout := testOptions(tmpDir)
	cmdOpts := affected.NewOptions(opts)
	cmdOpts.SearchPath = tmpDir
	cmdOpts.Subjects = []string{"modules/net"}

	require.NoError(t, affected.Run(context.Background(), opts.Logger, cmdOpts))

	assert.Contains(t, stdout.String(), "Units affected by a change to modules/net:\n  env/prod\n  env/staging\n  modules/vpc\n")
}

func TestRunJSONReport(t *testing.T) {
	t.Parallel()

	tmpDir := setupTree(t)

	opts, stdout := testOptions(tmpDir)
	opts.Format = options.FormatJSON

	cmdOpts := affected.NewOptions(opts)
	cmdOpts.SearchPath = tmpDir
	cmdOpts.Subjects = []string{"modules/vpc", "modules/ghost"}

	require.NoError(t, affected.Run(context.Background(), opts.Logger, cmdOpts))

	var report struct {
		RootCount int                 `json:"rootCount"`
		Duration  string              `json:"duration"`
		Results   map[string][]string `json:"results"`
	}

	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))

	assert.Equal(t, 2, report.RootCount)
	assert.NotEmpty(t, report.Duration)
	assert.Equal(t, map[string][]string{
		"modules/vpc":   {"env/prod", "env/staging"},
		"modules/ghost": {},
	}, report.Results)
}

func TestRunWithoutSubjectsPrintsSummaryOnly(t *testing.T) {
	t.Parallel()

	tmpDir := setupTree(t)

	opts, stdout := testOptions(tmpDir)
	cmdOpts := affected.NewOptions(opts)
	cmdOpts.SearchPath = tmpDir

	require.NoError(t, affected.Run(context.Background(), opts.Logger, cmdOpts))

	assert.Regexp(t, `^Built dependency map for 2 roots in \S+\n$`, stdout.String())
}

func TestRunInvalidSearchPath(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	opts, _ := testOptions(tmpDir)
	cmdOpts := affected.NewOptions(opts)
	cmdOpts.SearchPath = filepath.Join(tmpDir, "ghost")

	err := affected.Run(context.Background(), opts.Logger, cmdOpts)
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
		{format: options.FormatTree, wantErr: true},
		{format: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			opts, _ := testOptions(t.TempDir())
			opts.Format = tt.format

			err := affected.NewOptions(opts).Validate()
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid format: "+tt.format)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
