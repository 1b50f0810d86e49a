package app

import (
	"os"
	"path/filepath"
)

// DataDirEnv overrides the default data directory.
const DataDirEnv = "MOCKGEN_DATA_DIR"

// Config locates everything the app persists.
type Config struct {
	DataDir   string // root of all app state
	DBPath    string // SQLite file holding jobs, run logs and connections
	OutputDir string // default directory for generated files
}

// DefaultConfig returns the config rooted at $MOCKGEN_DATA_DIR, or
// ~/.local/share/mock-generator when unset.
func DefaultConfig() Config {
	dataDir := os.Getenv(DataDirEnv)
	if dataDir == "" {
		homeDir, _ := os.UserHomeDir()
		dataDir = filepath.Join(homeDir, ".local", "share", "mock-generator")
	}
	return ConfigAt(dataDir)
}

// ConfigAt returns the config rooted at dataDir.
func ConfigAt(dataDir string) Config {
	return Config{
		DataDir:   dataDir,
		DBPath:    filepath.Join(dataDir, "mockgen.db"),
		OutputDir: filepath.Join(dataDir, "output"),
	}
}
