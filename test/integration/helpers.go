package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/danieljhkim/rexyz/internal/catalog"
	"github.com/danieljhkim/rexyz/internal/clock"
	"github.com/danieljhkim/rexyz/internal/engine"
	"github.com/danieljhkim/rexyz/internal/export"
	"github.com/danieljhkim/rexyz/internal/fsops"
	"github.com/danieljhkim/rexyz/internal/gallery"
	"github.com/danieljhkim/rexyz/internal/hash"
	"github.com/danieljhkim/rexyz/internal/kv"
	"github.com/danieljhkim/rexyz/internal/layers"
	"github.com/danieljhkim/rexyz/internal/raster"
)

// Canvas geometry of the test engine.
const (
	canvasSize   = 64
	exportRatio  = 2
	galleryRatio = 1
	exportDir    = "/out"
	storageDir   = "/test/storage"
)

// Solid colors of the generated assets.
var (
	colorBg    = color.RGBA{B: 0xff, A: 0xff}
	colorBody  = color.RGBA{G: 0xff, A: 0xff}
	colorEyes  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorMouth = color.RGBA{R: 0x80, B: 0x80, A: 0xff}
	colorBrows = color.RGBA{R: 0xff, G: 0xff, A: 0xff}
	colorHat   = color.RGBA{R: 0xff, A: 0xff}
)

// testFS is a filesystem implementation that tracks files in memory for testing
type testFS struct {
	files map[string][]byte
	dirs  map[string]bool
}

func newTestFS() *testFS {
	return &testFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (fs *testFS) Exists(path string) (bool, error) {
	_, hasFile := fs.files[path]
	return hasFile || fs.dirs[path], nil
}

func (fs *testFS) MkdirAll(path string, perm os.FileMode) error {
	for p := path; p != "." && p != string(filepath.Separator); p = filepath.Dir(p) {
		fs.dirs[p] = true
	}
	return nil
}

func (fs *testFS) Remove(path string) error {
	if _, ok := fs.files[path]; !ok && !fs.dirs[path] {
		return os.ErrNotExist
	}
	delete(fs.files, path)
	delete(fs.dirs, path)
	return nil
}

func (fs *testFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	fs.files[path] = append([]byte(nil), data...)
	return nil
}

func (fs *testFS) ReadFile(path string) ([]byte, error) {
	if content, ok := fs.files[path]; ok {
		return append([]byte(nil), content...), nil
	}
	return nil, os.ErrNotExist
}

func (fs *testFS) ValidateIdentifier(id string) error {
	return fsops.NewRealFS().ValidateIdentifier(id)
}

// filesIn lists the files directly inside dir, sorted.
func (fs *testFS) filesIn(dir string) []string {
	var out []string
	for p := range fs.files {
		if filepath.Dir(p) == dir {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// memLoader serves generated images by reference and counts loads.
type memLoader struct {
	images map[string]image.Image
	loads  map[string]int
}

func (l *memLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, ok := l.images[ref]
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref, raster.ErrAssetMissing)
	}
	l.loads[ref]++
	return img, nil
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// newMemLoader serves the first variant of every base category, the fifth
// eyes and the first two hats. The body is 32px, every other sprite 8px.
func newMemLoader() *memLoader {
	return &memLoader{
		images: map[string]image.Image{
			"/assets/bg1.png":    solid(8, 4, colorBg),
			"/assets/body1.png":  solid(32, 32, colorBody),
			"/assets/eyes1.png":  solid(8, 8, colorEyes),
			"/assets/eyes5.png":  solid(8, 8, colorEyes),
			"/assets/mouth1.png": solid(8, 8, colorMouth),
			"/assets/brows1.png": solid(8, 8, colorBrows),
			"/assets/hat1.png":   solid(8, 8, colorHat),
			"/assets/hat2.png":   solid(8, 8, colorHat),
		},
		loads: make(map[string]int),
	}
}

// testEnv wires a real engine over in-memory files and generated assets.
type testEnv struct {
	t       *testing.T
	fs      *testFS
	storage kv.Storage
	loader  *memLoader
	clock   *clock.FakeClock
	logger  *logrus.Logger
	hook    *test.Hook
	engine  *engine.Engine
}

// sequentialIDs names instances hats-1, hats-2, ... in creation order.
func sequentialIDs() layers.IDFunc {
	n := 0
	return func(category string) string {
		n++
		return fmt.Sprintf("%s-%d", category, n)
	}
}

func setupTestEngine(t *testing.T) *testEnv {
	t.Helper()
	fs := newTestFS()
	return setupTestEngineWith(t, fs, kv.NewFileStorage(fs, storageDir))
}

// setupTestEngineWith builds the engine on top of an existing storage and
// opens the session saved there.
func setupTestEngineWith(t *testing.T, fs *testFS, storage kv.Storage) *testEnv {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	env := &testEnv{
		t:       t,
		fs:      fs,
		storage: storage,
		loader:  newMemLoader(),
		clock:   clock.NewFakeClock(time.UnixMilli(1700000000000)),
		logger:  logger,
		hook:    hook,
	}
	env.engine = env.open()
	return env
}

// open builds a fresh engine over env's storage, as a new CLI invocation
// would, and loads the saved session.
func (env *testEnv) open() *engine.Engine {
	env.t.Helper()
	cached, err := raster.NewCachedLoader(env.loader, 1<<20)
	if err != nil {
		env.t.Fatalf("NewCachedLoader() error = %v", err)
	}
	env.t.Cleanup(cached.Close)

	renderer, err := raster.NewRenderer(cached, canvasSize, "#000000", env.logger)
	if err != nil {
		env.t.Fatalf("NewRenderer() error = %v", err)
	}
	exporter := export.New(renderer, env.clock, env.fs, export.Options{
		Dir:               exportDir,
		PixelRatio:        exportRatio,
		GalleryPixelRatio: galleryRatio,
	}, env.logger)
	gal := gallery.New(env.storage, hash.NewSHA256Hasher(), env.logger)

	eng := engine.New(catalog.Default(), env.storage, exporter, gal, env.logger, layers.WithIDFunc(sequentialIDs()))
	if err := eng.Open(context.Background()); err != nil {
		env.t.Fatalf("Open() error = %v", err)
	}
	return eng
}

// exportImage exports the composition and decodes the written PNG.
func (env *testEnv) exportImage() (string, image.Image) {
	env.t.Helper()
	res, err := env.engine.Export(context.Background())
	if err != nil {
		env.t.Fatalf("Export() error = %v", err)
	}
	data, err := env.fs.ReadFile(res.Path)
	if err != nil {
		env.t.Fatalf("export %s not written: %v", res.Path, err)
	}
	img, err := decodePNG(data)
	if err != nil {
		env.t.Fatalf("decode %s: %v", res.Path, err)
	}
	return res.Path, img
}

func (env *testEnv) warnings() []string {
	var out []string
	for _, e := range env.hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			out = append(out, e.Message)
		}
	}
	return out
}

func rgba(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

// assertPixel compares the pixel at canvas coordinates (x, y), given in CSS
// pixels, of an image exported at ratio.
func assertPixel(t *testing.T, img image.Image, ratio, x, y int, want color.RGBA) {
	t.Helper()
	got := rgba(img.At(x*ratio, y*ratio))
	if got != want {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func hasPrefixBase(path, prefix string) bool {
	return strings.HasPrefix(filepath.Base(path), prefix)
}

func decodePNG(data []byte) (image.Image, error) {
	return png.Decode(bytes.NewReader(data))
}

func decodeJSON(raw string, v any) error {
	return json.Unmarshal([]byte(raw), v)
}
