// Package engine provides the core operations of rexyz.
//
// The engine is the orchestration layer between CLI commands and the
// lower-level packages. It owns the editor session for one invocation:
// loading it from storage, applying layer operations, persisting the result,
// and handing render lists to the exporter and gallery.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Layers: Base layer and accessory edits, persisted after every change
//   - Selection: Tab and accessory browsing
//   - Export/Gallery: Rendering the composition to files and saved images
package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/rexyz/internal/catalog"
	"github.com/danieljhkim/rexyz/internal/compose"
	"github.com/danieljhkim/rexyz/internal/export"
	"github.com/danieljhkim/rexyz/internal/gallery"
	"github.com/danieljhkim/rexyz/internal/kv"
	"github.com/danieljhkim/rexyz/internal/layers"
)

// Engine orchestrates all rexyz operations.
// It is the main API surface called by the CLI.
type Engine struct {
	catalog  *catalog.Catalog
	layers   *layers.Store
	storage  kv.Storage
	exporter *export.Exporter
	gallery  *gallery.Gallery
	logger   logrus.FieldLogger
}

// New creates a new Engine with the given dependencies. The session starts
// at defaults until Open loads the saved one.
func New(
	cat *catalog.Catalog,
	storage kv.Storage,
	exporter *export.Exporter,
	gal *gallery.Gallery,
	logger logrus.FieldLogger,
	opts ...layers.Option,
) *Engine {
	return &Engine{
		catalog:  cat,
		layers:   layers.NewStore(cat, opts...),
		storage:  storage,
		exporter: exporter,
		gallery:  gal,
		logger:   logger,
	}
}

// Catalog returns the asset catalog the engine was built with.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Open loads the saved session. A missing session leaves defaults; a
// malformed one is discarded with a warning.
func (e *Engine) Open(ctx context.Context) error {
	raw, ok, err := e.storage.Get(ctx, kv.SessionSlot)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return nil
	}

	var st layers.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		e.logger.WithError(err).WithField("slot", kv.SessionSlot).Warn("failed parsing saved session")
		e.layers.ResetAll()
		return nil
	}

	if repairs := e.layers.Restore(st); repairs > 0 {
		e.logger.WithFields(logrus.Fields{
			"slot":    kv.SessionSlot,
			"repairs": repairs,
		}).Warn("repaired saved session")
	}
	return nil
}

// Close releases the storage.
func (e *Engine) Close() error {
	return e.storage.Close()
}

// State returns a snapshot of the session.
func (e *Engine) State() layers.State {
	return e.layers.Snapshot()
}

// RenderList returns the current drawing order.
func (e *Engine) RenderList() []compose.Entry {
	return compose.Build(e.catalog, e.layers.Snapshot())
}

// Status summarizes the session.
func (e *Engine) Status() *StatusResult {
	st := e.layers.Snapshot()
	return &StatusResult{
		State:      st,
		RenderList: compose.Build(e.catalog, st),
	}
}

// save persists the session.
func (e *Engine) save(ctx context.Context) error {
	data, err := json.Marshal(e.layers.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := e.storage.Set(ctx, kv.SessionSlot, string(data)); err != nil {
		e.logger.WithError(err).Warn("failed saving session")
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// mutate runs change and persists the session when it reports a change.
func (e *Engine) mutate(ctx context.Context, op string, change func() bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !change() {
		e.logger.WithField("op", op).Debug("no change")
		return false, nil
	}
	e.logger.WithField("op", op).Debug("session changed")
	return true, e.save(ctx)
}
