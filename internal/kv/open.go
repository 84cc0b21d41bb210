package kv

import (
	"fmt"

	"github.com/danieljhkim/rexyz/internal/config"
	"github.com/danieljhkim/rexyz/internal/fsops"
)

// Open returns the storage backend named by backend, located under paths.
func Open(backend string, paths *config.Paths, fs fsops.FS) (Storage, error) {
	switch backend {
	case config.BackendFile, "":
		return NewFileStorage(fs, paths.Storage), nil
	case config.BackendSQLite:
		return OpenSQLite(paths.Database)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
