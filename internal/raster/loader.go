package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/ristretto/v2"
	_ "golang.org/x/image/webp"
)

// ErrAssetMissing is returned when an image reference resolves to nothing.
var ErrAssetMissing = errors.New("asset not found")

// Loader resolves an image reference to a decoded image.
type Loader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// DirLoader resolves references such as "/assets/hat1.png" against a
// directory on disk.
type DirLoader struct {
	dir string
}

// NewDirLoader creates a DirLoader rooted at dir.
func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{dir: dir}
}

// Resolve maps ref to a path under the loader's directory.
func (l *DirLoader) Resolve(ref string) (string, error) {
	rel := filepath.FromSlash(strings.TrimPrefix(ref, "/"))
	if rel == "" || rel == "." {
		return "", fmt.Errorf("empty image reference %q", ref)
	}
	path := filepath.Join(l.dir, rel)
	check, err := filepath.Rel(l.dir, path)
	if err != nil || check == ".." || strings.HasPrefix(check, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("image reference %q escapes %s", ref, l.dir)
	}
	return path, nil
}

// Load opens and decodes the file behind ref.
func (l *DirLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.Resolve(ref)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", ref, ErrAssetMissing)
		}
		return nil, fmt.Errorf("failed to open %s: %w", ref, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", ref, err)
	}
	return img, nil
}

// CachedLoader keeps decoded images in a cost-bounded cache.
type CachedLoader struct {
	next  Loader
	cache *ristretto.Cache[string, image.Image]
}

// NewCachedLoader wraps next with a cache holding up to maxBytes of pixels.
func NewCachedLoader(next Loader, maxBytes int64) (*CachedLoader, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", maxBytes)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, image.Image]{
		NumCounters: 1000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}
	return &CachedLoader{next: next, cache: cache}, nil
}

// Load returns the cached image for ref, decoding it on a miss.
func (l *CachedLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	if img, ok := l.cache.Get(ref); ok {
		return img, nil
	}

	img, err := l.next.Load(ctx, ref)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	l.cache.Set(ref, img, int64(b.Dx())*int64(b.Dy())*4)
	l.cache.Wait()
	return img, nil
}

// Close releases the cache.
func (l *CachedLoader) Close() {
	l.cache.Close()
}
