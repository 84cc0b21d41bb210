package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/danieljhkim/rexyz/internal/catalog"
	"github.com/danieljhkim/rexyz/internal/clock"
	"github.com/danieljhkim/rexyz/internal/config"
	"github.com/danieljhkim/rexyz/internal/engine"
	"github.com/danieljhkim/rexyz/internal/export"
	"github.com/danieljhkim/rexyz/internal/fsops"
	"github.com/danieljhkim/rexyz/internal/gallery"
	"github.com/danieljhkim/rexyz/internal/hash"
	"github.com/danieljhkim/rexyz/internal/kv"
	"github.com/danieljhkim/rexyz/internal/logging"
	"github.com/danieljhkim/rexyz/internal/raster"
)

// newEngine creates an engine with real implementations of all dependencies
// and loads the saved session. The returned func releases storage, the
// image cache and the log file.
func newEngine(ctx context.Context) (*engine.Engine, func(), error) {
	// Get default paths
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	// Ensure directories exist
	if err := paths.EnsureDirectories(); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	settings, err := config.LoadSettings(paths)
	if err != nil {
		return nil, nil, err
	}

	logger, logCloser, err := logging.New(logging.Options{
		File:       paths.LogFile(),
		Level:      settings.Log.Level,
		MaxSizeMB:  settings.Log.MaxSizeMB,
		MaxBackups: settings.Log.MaxBackups,
		MaxAgeDays: settings.Log.MaxAgeDays,
		Verbose:    verbose,
		Mirror:     os.Stderr,
	})
	if err != nil {
		return nil, nil, err
	}

	cat := catalog.Default()
	if settings.Assets.Catalog != "" {
		cat, err = catalog.LoadFile(settings.Assets.Catalog)
		if err != nil {
			_ = logCloser.Close()
			return nil, nil, err
		}
	}

	// Create real implementations
	fs := fsops.NewRealFS()
	storage, err := kv.Open(settings.Storage.Backend, paths, fs)
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	var loader raster.Loader = raster.NewDirLoader(settings.Assets.Dir)
	var cached *raster.CachedLoader
	if settings.Assets.CacheMB > 0 {
		cached, err = raster.NewCachedLoader(loader, settings.Assets.CacheMB<<20)
		if err != nil {
			_ = storage.Close()
			_ = logCloser.Close()
			return nil, nil, err
		}
		loader = cached
	}

	cleanup := func() {
		_ = storage.Close()
		if cached != nil {
			cached.Close()
		}
		_ = logCloser.Close()
	}

	renderer, err := raster.NewRenderer(loader, settings.Canvas.Size, settings.Canvas.Color, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	exporter := export.New(renderer, &clock.RealClock{}, fs, export.Options{
		Dir:               settings.Export.Dir,
		PixelRatio:        settings.Export.PixelRatio,
		GalleryPixelRatio: settings.Gallery.PixelRatio,
	}, logger)
	gal := gallery.New(storage, hash.NewSHA256Hasher(), logger)

	// Create engine
	eng := engine.New(cat, storage, exporter, gal, logger)
	if err := eng.Open(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return eng, cleanup, nil
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseIndex parses an index argument. Range checks are left to the
// operation, which reports an out-of-range index as no change.
func parseIndex(name, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", engine.ErrValidation, name, arg)
	}
	return n, nil
}

// reportChange prints the outcome of an operation that may be a no-op.
func reportChange(changed bool, success string) error {
	if jsonOutput {
		return outputJSON(engine.ChangeResult{Changed: changed})
	}
	if changed {
		PrintSuccess(success)
	} else {
		PrintWarning("No change")
	}
	return nil
}
