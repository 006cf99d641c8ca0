package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.OutputDir = filepath.Join(dir, "dist")

	paths, err := cfg.GetPaths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dist", SQLFileName), paths.SQLFile)
	assert.Equal(t, filepath.Join(dir, "dist", XLSXFileName), paths.XLSXFile)
	assert.Equal(t, paths.OutputDir, paths.CSVDir)
	assert.Empty(t, paths.LogsDir, "console logging needs no directory")

	require.NoError(t, paths.EnsureDirectories())
	info, err := os.Stat(paths.OutputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestGetPaths_RelativeOutput(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "both"
	cfg.Logging.FilePath = filepath.Join("logs", "oilrisk.log")

	paths, err := cfg.GetPaths()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(paths.OutputDir))
	assert.Equal(t, "dist", filepath.Base(paths.OutputDir))
	assert.Equal(t, "logs", paths.LogsDir)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(file, []byte("date\n"), 0o644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing.csv")))
}
