package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths holds the resolved locations of every build output
type Paths struct {
	OutputDir string
	SQLFile   string
	XLSXFile  string
	CSVDir    string
	LogsDir   string
}

// GetPaths resolves the output locations against the working directory
func (c *Config) GetPaths() (*Paths, error) {
	out, err := filepath.Abs(c.Paths.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir: %w", err)
	}
	paths := &Paths{
		OutputDir: out,
		SQLFile:   filepath.Join(out, SQLFileName),
		XLSXFile:  filepath.Join(out, XLSXFileName),
		CSVDir:    out,
	}
	if c.Logging.Output != "console" {
		paths.LogsDir = filepath.Dir(c.Logging.FilePath)
	}
	return paths, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
