package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/rexyz/internal/clock"
	"github.com/danieljhkim/rexyz/internal/compose"
	"github.com/danieljhkim/rexyz/internal/fsops"
	"github.com/danieljhkim/rexyz/internal/raster"
)

// fakeRenderer returns a blank image sized by the pixel ratio and records
// the ratios it was asked for.
type fakeRenderer struct {
	size   int
	ratios []float64
	err    error
}

func (f *fakeRenderer) Render(_ context.Context, _ []compose.Entry, ratio float64) (*image.RGBA, error) {
	f.ratios = append(f.ratios, ratio)
	if f.err != nil {
		return nil, f.err
	}
	px := int(float64(f.size) * ratio)
	return image.NewRGBA(image.Rect(0, 0, px, px)), nil
}

var epoch = time.UnixMilli(1700000000123)

func setup(t *testing.T, r Renderer) (*Exporter, string, *test.Hook) {
	t.Helper()
	dir := t.TempDir()
	logger, hook := test.NewNullLogger()
	e := New(r, clock.NewFakeClock(epoch), fsops.NewRealFS(), Options{
		Dir:               dir,
		PixelRatio:        3,
		GalleryPixelRatio: 2,
	}, logger)
	return e, dir, hook
}

func decodeSize(t *testing.T, data []byte) int {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img.Bounds().Dx()
}

func TestNames(t *testing.T) {
	assert.Equal(t, "rexyz-pfp-1700000000123.png", PFPName(1700000000123))
	assert.Equal(t, "rexyz-gallery-4-1700000000123.png", GalleryName(4, 1700000000123))
}

func TestDownload(t *testing.T) {
	r := &fakeRenderer{size: 10}
	e, dir, _ := setup(t, r)

	res, err := e.Download(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "rexyz-pfp-1700000000123.png"), res.Path)
	assert.Equal(t, 30, res.Pixels)
	assert.Equal(t, []float64{3}, r.ratios)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, len(data), res.Bytes)
	assert.Equal(t, 30, decodeSize(t, data))
}

func TestDownload_RenderFailure(t *testing.T) {
	boom := errors.New("boom")
	e, dir, hook := setup(t, &fakeRenderer{size: 10, err: boom})

	_, err := e.Download(context.Background(), nil)
	require.ErrorIs(t, err, boom)

	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries, "nothing is written on failure")
}

func TestCapture(t *testing.T) {
	r := &fakeRenderer{size: 10}
	e, _, _ := setup(t, r)

	url, err := e.Capture(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, r.ratios)

	data, err := raster.DecodeDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, 20, decodeSize(t, data))
}

func TestDownloadGalleryItem(t *testing.T) {
	e, dir, _ := setup(t, &fakeRenderer{size: 10})
	payload := []byte("png bytes")

	res, err := e.DownloadGalleryItem(2, raster.DataURL(payload))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rexyz-gallery-2-1700000000123.png"), res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDownloadGalleryItem_BadDataURL(t *testing.T) {
	e, _, hook := setup(t, &fakeRenderer{size: 10})

	_, err := e.DownloadGalleryItem(0, "not a url")
	require.Error(t, err)
	assert.Equal(t, "gallery download failed", hook.LastEntry().Message)
}
