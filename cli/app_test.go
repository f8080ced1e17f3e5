package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gruntwork-io/terradeps/cli"
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

func testApp() (*options.TerradepsOptions, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer

	opts := options.NewTerradepsOptionsWithWriters(&stdout, &stderr)

	return opts, &stdout, &stderr
}

func TestNewAppHasCommands(t *testing.T) {
	t.Parallel()

	opts, _, _ := testApp()
	app := cli.NewApp(opts)

	assert.Equal(t, "terradeps", app.Name)

	var names []string
	for _, command := range app.Commands {
		names = append(names, command.Name)
	}

	assert.Equal(t, []string{"affected", "roots", "graph"}, names)
	assert.NotNil(t, app.Action)
}

func TestAppBareFormRunsAffected(t *testing.T) {
	t.Parallel()

	tmpDir := setupTree(t)

	opts, stdout, stderr := testApp()
	app := cli.NewApp(opts)

	err := app.RunContext(context.Background(), []string{"terradeps", "--working-dir", tmpDir, "--no-color", tmpDir, "modules/vpc"})
	require.NoError(t, err)

	output := stdout.String()

	assert.Contains(t, output, "Built dependency map for 1 roots in")
	assert.Contains(t, output, "Units affected by a change to modules/vpc:\n  env/prod\n")
	assert.NotContains(t, output, "Scanning")
	assert.Contains(t, stderr.String(), "Scanning 1 roots")
}

func TestAppRunsRootsCommand(t *testing.T) {
	t.Parallel()

	tmpDir := setupTree(t)

	opts, stdout, _ := testApp()
	app := cli.NewApp(opts)

	err := app.RunContext(context.Background(), []string{"terradeps", "--working-dir", tmpDir, "--format", "json", "roots", tmpDir})
	require.NoError(t, err)

	var identities []string

	require.NoError(t, json.Unmarshal(stdout.Bytes(), &identities))
	assert.Equal(t, []string{"env/prod"}, identities)
}

func TestAppRunsGraphCommand(t *testing.T) {
	t.Parallel()

	tmpDir := setupTree(t)

	opts, stdout, _ := testApp()
	app := cli.NewApp(opts)

	err := app.RunContext(context.Background(), []string{"terradeps", "--working-dir", tmpDir, "graph", tmpDir})
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), `"modules/vpc" -> "env/prod";`)
}

func TestAppNormalizesVersion(t *testing.T) {
	t.Parallel()

	tmpDir := setupTree(t)

	opts, _, _ := testApp()
	app := cli.NewApp(opts)

	err := app.RunContext(context.Background(), []string{"terradeps", "--working-dir", tmpDir, "roots", tmpDir})
	require.NoError(t, err)

	require.NotNil(t, opts.TerradepsVersion)
	// go-version canonicalizes missing parts, so the 0.0 fallback renders as 0.0.0.
	assert.Equal(t, "0.0.0", opts.TerradepsVersion.String())
}

func TestAppRejectsInvalidLogLevel(t *testing.T) {
	t.Parallel()

	tmpDir := setupTree(t)

	opts, _, _ := testApp()
	app := cli.NewApp(opts)

	err := app.RunContext(context.Background(), []string{"terradeps", "--log-level", "loud", tmpDir})
	assert.ErrorContains(t, err, "invalid level")
}

func TestAppRejectsInvalidFormat(t *testing.T) {
	t.Parallel()

	tmpDir := setupTree(t)

	opts, _, _ := testApp()
	app := cli.NewApp(opts)

	err := app.RunContext(context.Background(), []string{"terradeps", "--working-dir", tmpDir, "--format", "yaml", tmpDir})
	assert.ErrorContains(t, err, "invalid format: yaml")
}

func TestAppMissingSearchPathArgument(t *testing.T) {
	t.Parallel()

	opts, _, _ := testApp()
	app := cli.NewApp(opts)

	err := app.RunContext(context.Background(), []string{"terradeps"})
	assert.ErrorContains(t, err, "missing roots search path argument")
}

func TestAppReadsEnvVars(t *testing.T) {
	tmpDir := setupTree(t)

	t.Setenv("TERRADEPS_FORMAT", "json")
	t.Setenv("TERRADEPS_WORKING_DIR", tmpDir)

	opts, stdout, _ := testApp()
	app := cli.NewApp(opts)

	err := app.RunContext(context.Background(), []string{"terradeps", "roots", tmpDir})
	require.NoError(t, err)

	var identities []string

	require.NoError(t, json.Unmarshal(stdout.Bytes(), &identities))
	assert.Equal(t, []string{"env/prod"}, identities)
}
