// Package catalog holds the static table of selectable image assets.
//
// A Catalog is an ordered list of categories. Each category belongs to one of
// the three editor tabs and is either a base layer (always present exactly
// once in a composition) or an accessory (instantiated on demand, any number
// of times). The catalog is read-only after construction.
package catalog

import (
	"fmt"
)

// Kind distinguishes base layer categories from accessory categories.
type Kind int

const (
	// KindBase categories have exactly one layer in every composition.
	KindBase Kind = iota

	// KindAccessory categories produce removable instances.
	KindAccessory
)

// String returns the YAML/JSON spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindAccessory:
		return "accessory"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses the spelling produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "base":
		return KindBase, nil
	case "accessory":
		return KindAccessory, nil
	default:
		return 0, fmt.Errorf("unknown category kind %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Tab names, in display order.
const (
	TabBody       = "Body"
	TabAttributes = "Attributes"
	TabBackground = "Background"
)

// Tabs lists the editor tabs in display order.
var Tabs = []string{TabBody, TabAttributes, TabBackground}

// Category identifiers of the built-in table.
const (
	Background = "bg"
	Body       = "body"
	Eyes       = "eyes"
	Mouth      = "mouth"
	Brows      = "brows"
	Hats       = "hats"
	Masks      = "masks"
	Other      = "other"
	Effects    = "effects"
)

// Category describes one group of interchangeable image variants.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`
	Tab   string `json:"tab"`

	// Depth is the initial depth of a base layer. Unused for accessories.
	Depth int `json:"depth"`

	// Variants are image references, in browsing order.
	Variants []string `json:"variants"`
}

// Catalog is an immutable, ordered set of categories.
type Catalog struct {
	categories []Category
	byID       map[string]int
}

// New builds a catalog from categories after validating them.
// Category order is preserved and determines the order of base layers
// in a render list when their depths tie.
func New(categories []Category) (*Catalog, error) {
	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		byID:       make(map[string]int, len(categories)),
	}

	for _, cat := range categories {
		if err := validateCategory(cat); err != nil {
			return nil, err
		}
		if _, dup := c.byID[cat.ID]; dup {
			return nil, fmt.Errorf("duplicate category %q", cat.ID)
		}
		cat.Variants = append([]string(nil), cat.Variants...)
		c.byID[cat.ID] = len(c.categories)
		c.categories = append(c.categories, cat)
	}

	if len(c.Base()) == 0 {
		return nil, fmt.Errorf("catalog has no base categories")
	}

	return c, nil
}

func validateCategory(cat Category) error {
	if cat.ID == "" {
		return fmt.Errorf("category with empty id")
	}
	if cat.Kind != KindBase && cat.Kind != KindAccessory {
		return fmt.Errorf("category %q: invalid kind %d", cat.ID, int(cat.Kind))
	}
	if !isTab(cat.Tab) {
		return fmt.Errorf("category %q: unknown tab %q", cat.ID, cat.Tab)
	}
	if len(cat.Variants) == 0 {
		return fmt.Errorf("category %q: no variants", cat.ID)
	}
	if cat.Depth < 0 {
		return fmt.Errorf("category %q: negative depth %d", cat.ID, cat.Depth)
	}
	for i, v := range cat.Variants {
		if v == "" {
			return fmt.Errorf("category %q: variant %d is empty", cat.ID, i)
		}
	}
	return nil
}

func isTab(tab string) bool {
	for _, t := range Tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// Category looks up a category by id.
func (c *Catalog) Category(id string) (Category, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// VariantsFor returns the variants of a category, or an empty slice when
// the category is unknown. The returned slice is a copy.
func (c *Catalog) VariantsFor(id string) []string {
	cat, ok := c.Category(id)
	if !ok {
		return []string{}
	}
	return append([]string(nil), cat.Variants...)
}

// Variant resolves a single image reference.
func (c *Catalog) Variant(id string, index int) (string, bool) {
	cat, ok := c.Category(id)
	if !ok || index < 0 || index >= len(cat.Variants) {
		return "", false
	}
	return cat.Variants[index], true
}

// IsBase reports whether id names a base category.
func (c *Catalog) IsBase(id string) bool {
	cat, ok := c.Category(id)
	return ok && cat.Kind == KindBase
}

// IsAccessory reports whether id names an accessory category.
func (c *Catalog) IsAccessory(id string) bool {
	cat, ok := c.Category(id)
	return ok && cat.Kind == KindAccessory
}

// All returns every category in catalog order.
func (c *Catalog) All() []Category {
	return append([]Category(nil), c.categories...)
}

// Base returns the base categories in catalog order.
func (c *Catalog) Base() []Category {
	return c.filter(func(cat Category) bool { return cat.Kind == KindBase })
}

// Accessories returns the accessory categories in catalog order.
func (c *Catalog) Accessories() []Category {
	return c.filter(func(cat Category) bool { return cat.Kind == KindAccessory })
}

// InTab returns the categories shown under the given tab.
func (c *Catalog) InTab(tab string) []Category {
	return c.filter(func(cat Category) bool { return cat.Tab == tab })
}

func (c *Catalog) filter(keep func(Category) bool) []Category {
	var out []Category
	for _, cat := range c.categories {
		if keep(cat) {
			out = append(out, cat)
		}
	}
	return out
}
