package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	t.Run("returns paths based on home directory", func(t *testing.T) {
		t.Setenv("REXYZ_ROOT", "")

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}

		if filepath.Base(paths.Root) != ".rexyz" {
			t.Errorf("Root should end with .rexyz, got: %s", paths.Root)
		}
		if paths.Storage != filepath.Join(paths.Root, "storage") {
			t.Errorf("Storage path incorrect: got %s", paths.Storage)
		}
		if paths.Database != filepath.Join(paths.Root, "rexyz.db") {
			t.Errorf("Database path incorrect: got %s", paths.Database)
		}
		if paths.Logs != filepath.Join(paths.Root, "logs") {
			t.Errorf("Logs path incorrect: got %s", paths.Logs)
		}
		if paths.Config != filepath.Join(paths.Root, "config.yaml") {
			t.Errorf("Config path incorrect: got %s", paths.Config)
		}
	})

	t.Run("respects REXYZ_ROOT environment variable", func(t *testing.T) {
		customRoot := "/custom/rexyz/path"
		t.Setenv("REXYZ_ROOT", customRoot)

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}

		if paths.Root != customRoot {
			t.Errorf("Expected root %s, got %s", customRoot, paths.Root)
		}
		if paths.Storage != filepath.Join(customRoot, "storage") {
			t.Errorf("Storage should be under custom root, got: %s", paths.Storage)
		}
		if paths.LogFile() != filepath.Join(customRoot, "logs", "rexyz.log") {
			t.Errorf("LogFile should be under custom root, got: %s", paths.LogFile())
		}
	})
}

func TestPaths_EnsureDirectories(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", ".rexyz")
	paths := PathsAt(root)

	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{paths.Root, paths.Storage, paths.Logs} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("directory %s not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}

	if err := paths.EnsureDirectories(); err != nil {
		t.Errorf("EnsureDirectories should be idempotent: %v", err)
	}
}
