package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Point at an empty directory so no stray config.yaml interferes.
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "archgraph", cfg.Logger.ServiceName)
	assert.Equal(t, ".", cfg.Sources.Root)
	assert.Equal(t, []string{"graph/**/*.yaml", "graph/**/*.yml"}, cfg.Sources.Patterns)
	assert.Equal(t, 3, cfg.Traversal.MaxDepth)
	assert.Equal(t, 25, cfg.Traversal.MaxNodes)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logger:
  level: debug
  format: json
database:
  url: postgres://localhost/archgraph_test
sources:
  root: ./definitions
  patterns:
    - "**/*.graph.yaml"
traversal:
  max_depth: 5
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "postgres://localhost/archgraph_test", cfg.Database.URL)
	assert.Equal(t, "./definitions", cfg.Sources.Root)
	assert.Equal(t, []string{"**/*.graph.yaml"}, cfg.Sources.Patterns)
	assert.Equal(t, 5, cfg.Traversal.MaxDepth)
	assert.Equal(t, 25, cfg.Traversal.MaxNodes, "unset values keep defaults")
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("ARCHGRAPH_DATABASE_URL", "postgres://env-wins/archgraph")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  url: postgres://file-loses\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env-wins/archgraph", cfg.Database.URL)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logger: [broken"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
