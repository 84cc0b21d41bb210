// Package export turns compositions into PNG files and gallery captures.
package export

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/rexyz/internal/clock"
	"github.com/danieljhkim/rexyz/internal/compose"
	"github.com/danieljhkim/rexyz/internal/fsops"
	"github.com/danieljhkim/rexyz/internal/raster"
)

// Renderer draws a render list at a pixel ratio.
type Renderer interface {
	Render(ctx context.Context, entries []compose.Entry, pixelRatio float64) (*image.RGBA, error)
}

// Options are the export settings.
type Options struct {
	// Dir receives downloaded files
	Dir string

	// PixelRatio is used for downloads, GalleryPixelRatio for captures
	PixelRatio        float64
	GalleryPixelRatio float64
}

// Result describes a written file.
type Result struct {
	Path   string `json:"path"`
	Bytes  int    `json:"bytes"`
	Pixels int    `json:"pixels,omitempty"`
}

// Exporter writes renders to disk and to data URLs.
type Exporter struct {
	renderer Renderer
	clock    clock.Clock
	fs       fsops.FS
	opts     Options
	logger   logrus.FieldLogger
}

// New creates an Exporter.
func New(renderer Renderer, clk clock.Clock, fs fsops.FS, opts Options, logger logrus.FieldLogger) *Exporter {
	return &Exporter{
		renderer: renderer,
		clock:    clk,
		fs:       fs,
		opts:     opts,
		logger:   logger,
	}
}

// PFPName is the file name of a download made at millis.
func PFPName(millis int64) string {
	return fmt.Sprintf("rexyz-pfp-%d.png", millis)
}

// GalleryName is the file name of gallery image idx downloaded at millis.
func GalleryName(idx int, millis int64) string {
	return fmt.Sprintf("rexyz-gallery-%d-%d.png", idx, millis)
}

func (e *Exporter) render(ctx context.Context, entries []compose.Entry, ratio float64) ([]byte, int, error) {
	img, err := e.renderer.Render(ctx, entries, ratio)
	if err != nil {
		return nil, 0, err
	}
	data, err := raster.EncodePNG(img)
	if err != nil {
		return nil, 0, err
	}
	return data, img.Bounds().Dx(), nil
}

// Download renders entries at the download pixel ratio and writes
// rexyz-pfp-<millis>.png into the export directory.
func (e *Exporter) Download(ctx context.Context, entries []compose.Entry) (*Result, error) {
	data, px, err := e.render(ctx, entries, e.opts.PixelRatio)
	if err != nil {
		e.logger.WithError(err).Error("export failed")
		return nil, fmt.Errorf("export failed: %w", err)
	}

	res, err := e.write(PFPName(clock.Millis(e.clock)), data)
	if err != nil {
		e.logger.WithError(err).Error("export failed")
		return nil, fmt.Errorf("export failed: %w", err)
	}
	res.Pixels = px

	e.logger.WithFields(logrus.Fields{
		"path":   res.Path,
		"layers": len(entries),
	}).Info("exported composition")
	return res, nil
}

// Capture renders entries at the gallery pixel ratio as a PNG data URL.
func (e *Exporter) Capture(ctx context.Context, entries []compose.Entry) (string, error) {
	data, _, err := e.render(ctx, entries, e.opts.GalleryPixelRatio)
	if err != nil {
		e.logger.WithError(err).Error("save to gallery failed")
		return "", fmt.Errorf("save to gallery failed: %w", err)
	}
	return raster.DataURL(data), nil
}

// DownloadGalleryItem writes the image of a gallery data URL as
// rexyz-gallery-<idx>-<millis>.png.
func (e *Exporter) DownloadGalleryItem(idx int, dataURL string) (*Result, error) {
	data, err := raster.DecodeDataURL(dataURL)
	if err != nil {
		e.logger.WithError(err).WithField("index", idx).Error("gallery download failed")
		return nil, fmt.Errorf("gallery item %d: %w", idx, err)
	}

	res, err := e.write(GalleryName(idx, clock.Millis(e.clock)), data)
	if err != nil {
		e.logger.WithError(err).WithField("index", idx).Error("gallery download failed")
		return nil, fmt.Errorf("gallery item %d: %w", idx, err)
	}

	e.logger.WithField("path", res.Path).Info("downloaded gallery image")
	return res, nil
}

func (e *Exporter) write(name string, data []byte) (*Result, error) {
	path := filepath.Join(e.opts.Dir, name)
	if err := e.fs.AtomicWrite(path, data, 0644); err != nil {
		return nil, err
	}
	return &Result{Path: path, Bytes: len(data)}, nil
}
