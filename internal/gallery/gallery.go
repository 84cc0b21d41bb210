// Package gallery keeps the list of images saved from the editor.
//
// The list lives in the kv.GallerySlot slot as a JSON array of data URLs,
// newest first. A slot that cannot be parsed is treated as empty; nothing
// is repaired until the next write replaces it.
package gallery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/rexyz/internal/hash"
	"github.com/danieljhkim/rexyz/internal/kv"
	"github.com/danieljhkim/rexyz/internal/raster"
)

// ClearPrompt is the question asked before the gallery is cleared.
const ClearPrompt = "Clear gallery? This will remove all saved images locally."

// Item describes one saved image.
type Item struct {
	Index       int    `json:"index"`
	Fingerprint string `json:"fingerprint"`
	Bytes       int    `json:"bytes"`
}

// Gallery reads and writes the saved image list.
type Gallery struct {
	store  kv.Storage
	hasher hash.Hasher
	logger logrus.FieldLogger
}

// New creates a Gallery over store.
func New(store kv.Storage, hasher hash.Hasher, logger logrus.FieldLogger) *Gallery {
	return &Gallery{
		store:  store,
		hasher: hasher,
		logger: logger.WithField("slot", kv.GallerySlot),
	}
}

// Load returns the saved images, newest first. A missing or malformed slot
// yields an empty list.
func (g *Gallery) Load(ctx context.Context) ([]string, error) {
	raw, ok, err := g.store.Get(ctx, kv.GallerySlot)
	if err != nil {
		return nil, fmt.Errorf("failed to read gallery: %w", err)
	}
	if !ok {
		return []string{}, nil
	}

	var images []string
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		g.logger.WithError(err).Warn("failed parsing saved gallery")
		return []string{}, nil
	}
	if images == nil {
		images = []string{}
	}
	return images, nil
}

func (g *Gallery) save(ctx context.Context, images []string) error {
	data, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("failed to encode gallery: %w", err)
	}
	if err := g.store.Set(ctx, kv.GallerySlot, string(data)); err != nil {
		g.logger.WithError(err).Warn("failed saving gallery")
		return fmt.Errorf("failed to save gallery: %w", err)
	}
	return nil
}

// Add prepends dataURL and returns the new length.
func (g *Gallery) Add(ctx context.Context, dataURL string) (int, error) {
	images, err := g.Load(ctx)
	if err != nil {
		return 0, err
	}
	images = append([]string{dataURL}, images...)
	if err := g.save(ctx, images); err != nil {
		return 0, err
	}
	g.logger.WithField("count", len(images)).Info("saved image to gallery")
	return len(images), nil
}

// Get returns the image at idx.
func (g *Gallery) Get(ctx context.Context, idx int) (string, bool, error) {
	images, err := g.Load(ctx)
	if err != nil {
		return "", false, err
	}
	if idx < 0 || idx >= len(images) {
		return "", false, nil
	}
	return images[idx], true, nil
}

// Remove deletes the image at idx, keeping the order of the rest. It
// reports false when idx is out of range.
func (g *Gallery) Remove(ctx context.Context, idx int) (bool, error) {
	images, err := g.Load(ctx)
	if err != nil {
		return false, err
	}
	if idx < 0 || idx >= len(images) {
		return false, nil
	}

	kept := make([]string, 0, len(images)-1)
	kept = append(kept, images[:idx]...)
	kept = append(kept, images[idx+1:]...)
	if err := g.save(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// Clear empties the gallery.
func (g *Gallery) Clear(ctx context.Context) error {
	if err := g.save(ctx, []string{}); err != nil {
		return err
	}
	g.logger.Info("cleared gallery")
	return nil
}

// Items describes every saved image. The fingerprint hashes the decoded
// image bytes, or the raw string when it is not a data URL.
func (g *Gallery) Items(ctx context.Context) ([]Item, error) {
	images, err := g.Load(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]Item, len(images))
	for i, img := range images {
		data, err := raster.DecodeDataURL(img)
		if err != nil {
			data = []byte(img)
		}
		items[i] = Item{
			Index:       i,
			Fingerprint: hash.Short(g.hasher.Sum(data)),
			Bytes:       len(data),
		}
	}
	return items, nil
}
