package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/rexyz/internal/export"
	"github.com/danieljhkim/rexyz/internal/gallery"
)

// Export writes the composition as a PNG at the download pixel ratio.
// A failed export leaves the session untouched.
func (e *Engine) Export(ctx context.Context) (*export.Result, error) {
	return e.exporter.Download(ctx, e.RenderList())
}

// SaveToGallery captures the composition and prepends it to the gallery.
func (e *Engine) SaveToGallery(ctx context.Context) (*SaveResult, error) {
	dataURL, err := e.exporter.Capture(ctx, e.RenderList())
	if err != nil {
		return nil, err
	}
	n, err := e.gallery.Add(ctx, dataURL)
	if err != nil {
		return nil, err
	}
	return &SaveResult{Count: n}, nil
}

// ListGallery describes the saved images, newest first.
func (e *Engine) ListGallery(ctx context.Context) ([]gallery.Item, error) {
	return e.gallery.Items(ctx)
}

// DownloadFromGallery writes saved image idx to the export directory.
func (e *Engine) DownloadFromGallery(ctx context.Context, idx int) (*export.Result, error) {
	dataURL, ok, err := e.gallery.Get(ctx, idx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: gallery item %d", ErrNotFound, idx)
	}
	return e.exporter.DownloadGalleryItem(idx, dataURL)
}

// RemoveFromGallery deletes saved image idx.
func (e *Engine) RemoveFromGallery(ctx context.Context, idx int) (bool, error) {
	return e.gallery.Remove(ctx, idx)
}

// ClearGallery empties the gallery once confirm accepts gallery.ClearPrompt.
// A declined confirmation returns ErrCanceled and keeps every image.
func (e *Engine) ClearGallery(ctx context.Context, confirm func(prompt string) bool) error {
	if !confirm(gallery.ClearPrompt) {
		return ErrCanceled
	}
	return e.gallery.Clear(ctx)
}
