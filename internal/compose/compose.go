// Package compose builds the depth-ordered render list of a composition.
//
// Build is a pure function of a catalog and a layer snapshot: the same
// inputs always produce the same list, which makes it the natural seam for
// testing stacking behavior without drawing anything.
package compose

import (
	"sort"

	"github.com/danieljhkim/rexyz/internal/catalog"
	"github.com/danieljhkim/rexyz/internal/layers"
)

// Source tells where an entry came from.
type Source string

const (
	SourceBase      Source = "base"
	SourceAccessory Source = "accessory"
)

// Transform places a sprite relative to the canvas center.
type Transform struct {
	Scale    float64 `json:"scale"`
	Rotation int     `json:"rotation"`
	OffsetX  int     `json:"x"`
	OffsetY  int     `json:"y"`
}

// Identity is the transform of an untouched layer.
var Identity = Transform{Scale: 1}

// Entry is one drawable item of the render list.
type Entry struct {
	Source Source `json:"source"`

	// ID is the category id for base layers and the instance id for accessories
	ID       string `json:"id"`
	Category string `json:"category"`
	Image    string `json:"image"`
	Depth    int    `json:"depth"`

	// FullBleed entries cover the whole canvas and ignore Transform
	FullBleed bool      `json:"fullBleed"`
	Transform Transform `json:"transform"`
}

// Build returns the visible layers of st in drawing order, bottom first.
// Entries are sorted by depth; equal depths keep base layers in catalog
// order followed by accessories in insertion order. Layers whose image
// cannot be resolved are skipped.
func Build(cat *catalog.Catalog, st layers.State) []Entry {
	entries := make([]Entry, 0, len(st.Base)+len(st.Accessories))

	for _, c := range cat.Base() {
		b, ok := st.BaseLayer(c.ID)
		if !ok || !b.Visible {
			continue
		}
		img, ok := cat.Variant(c.ID, b.Variant)
		if !ok {
			continue
		}
		e := Entry{
			Source:    SourceBase,
			ID:        c.ID,
			Category:  c.ID,
			Image:     img,
			Depth:     b.Depth,
			Transform: transformOf(b.Layer),
		}
		if c.ID == catalog.Background {
			e.FullBleed = true
			e.Transform = Identity
		}
		entries = append(entries, e)
	}

	for _, a := range st.Accessories {
		if !a.Visible {
			continue
		}
		img, ok := cat.Variant(a.Category, a.Variant)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Source:    SourceAccessory,
			ID:        a.ID,
			Category:  a.Category,
			Image:     img,
			Depth:     a.Depth,
			Transform: transformOf(a.Layer),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Depth < entries[j].Depth
	})
	return entries
}

func transformOf(l layers.Layer) Transform {
	return Transform{
		Scale:    l.Scale,
		Rotation: l.Rotation,
		OffsetX:  l.OffsetX,
		OffsetY:  l.OffsetY,
	}
}
