// Package config manages rexyz configuration and filesystem paths.
//
// The default root is ~/.rexyz/ and can be moved with REXYZ_ROOT. It holds
// the local storage slots (storage/ or rexyz.db), rotating logs (logs/) and
// the optional config.yaml read by LoadSettings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the filesystem paths used by rexyz.
type Paths struct {
	// Root is the base directory for all rexyz data (default: ~/.rexyz)
	Root string

	// Storage is the directory of the file-backed storage slots
	Storage string

	// Database is the SQLite file of the sqlite storage backend
	Database string

	// Logs is the directory of the rotating log file
	Logs string

	// Config is the path to the settings file
	Config string
}

// DefaultPaths returns the default paths for rexyz.
// Paths can be overridden with environment variables:
// - REXYZ_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("REXYZ_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".rexyz")
	}

	return PathsAt(root), nil
}

// PathsAt returns the layout under an explicit root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:     root,
		Storage:  filepath.Join(root, "storage"),
		Database: filepath.Join(root, "rexyz.db"),
		Logs:     filepath.Join(root, "logs"),
		Config:   filepath.Join(root, "config.yaml"),
	}
}

// LogFile is the path of the active log file.
func (p *Paths) LogFile() string {
	return filepath.Join(p.Logs, "rexyz.log")
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.Storage,
		p.Logs,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
