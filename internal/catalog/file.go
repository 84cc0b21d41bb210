package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileCatalog is the YAML shape of a catalog override file.
type fileCatalog struct {
	Categories []fileCategory `yaml:"categories"`
}

type fileCategory struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Kind     string   `yaml:"kind"`
	Tab      string   `yaml:"tab"`
	Depth    *int     `yaml:"depth"`
	Variants []string `yaml:"variants"`
}

// LoadFile reads a YAML catalog file. Base categories without an explicit
// depth get their position in LayerOrder; a missing label defaults to the id.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	categories := make([]Category, 0, len(fc.Categories))
	for _, c := range fc.Categories {
		kind, err := ParseKind(c.Kind)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", c.ID, err)
		}

		cat := Category{
			ID:       c.ID,
			Label:    c.Label,
			Kind:     kind,
			Tab:      c.Tab,
			Variants: c.Variants,
		}
		if cat.Label == "" {
			cat.Label = c.ID
		}
		if kind == KindBase {
			if c.Depth != nil {
				cat.Depth = *c.Depth
			} else {
				cat.Depth = depthOf(c.ID)
			}
		}
		categories = append(categories, cat)
	}

	return New(categories)
}
