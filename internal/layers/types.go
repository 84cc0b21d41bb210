package layers

import "math"

// Editor limits. Scale and rotation mirror the slider ranges; offsets mirror
// the drag constraint of a 512px canvas.
const (
	MinScale    = 0.1
	MaxScale    = 1.5
	MinRotation = -180
	MaxRotation = 180
	MaxOffset   = 256

	// MinNudgedDepth is the floor applied when a depth is stepped down.
	MinNudgedDepth = 1

	// MaxDepth caps explicit and stepped depths. New accessories may still
	// be stacked above it.
	MaxDepth = 1 << 30

	// maxStoredDepth bounds depths read back from a saved session.
	maxStoredDepth = math.MaxInt32
)

// Layer is the transform and visibility state shared by base layers and
// accessory instances.
type Layer struct {
	// Variant indexes into the category's variants
	Variant int `json:"variant"`

	// Depth orders layers in the render list; higher draws on top
	Depth int `json:"depth"`

	Scale    float64 `json:"scale"`
	Rotation int     `json:"rotation"`
	OffsetX  int     `json:"x"`
	OffsetY  int     `json:"y"`
	Visible  bool    `json:"visible"`
}

// defaultLayer returns the initial state of a freshly created layer.
func defaultLayer(depth int) Layer {
	return Layer{
		Variant:  0,
		Depth:    depth,
		Scale:    1,
		Rotation: 0,
		Visible:  true,
	}
}

// BaseLayerState is the state of one base category.
type BaseLayerState struct {
	Category string `json:"category"`
	Layer
}

// AccessoryInstance is one user-added accessory.
type AccessoryInstance struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Layer
}

// Selection is the transient browsing state of the editor.
type Selection struct {
	// Tab is the active editor tab
	Tab string `json:"tab"`

	// Category is the accessory category being browsed, empty when none
	Category string `json:"category,omitempty"`

	// Index is the browsed variant within Category
	Index int `json:"index"`
}

// State is a complete, serializable copy of a Store.
type State struct {
	// Base holds one entry per base category, in catalog order
	Base []BaseLayerState `json:"base"`

	// Accessories holds instances in insertion order
	Accessories []AccessoryInstance `json:"accessories"`

	Selection Selection `json:"selection"`
}

// BaseLayer returns the state of a base category from the snapshot.
func (s State) BaseLayer(category string) (BaseLayerState, bool) {
	for _, b := range s.Base {
		if b.Category == category {
			return b, true
		}
	}
	return BaseLayerState{}, false
}

// Accessory returns an accessory instance from the snapshot.
func (s State) Accessory(id string) (AccessoryInstance, bool) {
	for _, a := range s.Accessories {
		if a.ID == id {
			return a, true
		}
	}
	return AccessoryInstance{}, false
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Variant  *int
	Scale    *float64
	Rotation *int
	OffsetX  *int
	OffsetY  *int
	Visible  *bool
	Depth    *int
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Variant == nil && p.Scale == nil && p.Rotation == nil &&
		p.OffsetX == nil && p.OffsetY == nil && p.Visible == nil && p.Depth == nil
}

// apply merges p into l. variants is the number of variants of the layer's
// category; an out-of-range Variant is ignored.
func (p Patch) apply(l *Layer, variants int) {
	if p.Variant != nil && *p.Variant >= 0 && *p.Variant < variants {
		l.Variant = *p.Variant
	}
	if p.Scale != nil && !math.IsNaN(*p.Scale) {
		l.Scale = clampFloat(*p.Scale, MinScale, MaxScale)
	}
	if p.Rotation != nil {
		l.Rotation = clampInt(*p.Rotation, MinRotation, MaxRotation)
	}
	if p.OffsetX != nil {
		l.OffsetX = clampInt(*p.OffsetX, -MaxOffset, MaxOffset)
	}
	if p.OffsetY != nil {
		l.OffsetY = clampInt(*p.OffsetY, -MaxOffset, MaxOffset)
	}
	if p.Visible != nil {
		l.Visible = *p.Visible
	}
	if p.Depth != nil {
		l.Depth = clampInt(*p.Depth, 0, MaxDepth)
	}
}

// nudge steps a depth by delta. Stepping down never goes below
// MinNudgedDepth; stepping up saturates at MaxDepth and never lowers a
// depth already above it.
func nudge(depth, delta int) int {
	switch {
	case delta < 0:
		if depth+delta < MinNudgedDepth {
			return MinNudgedDepth
		}
	case delta > 0:
		if depth > MaxDepth-delta {
			return max(depth, MaxDepth)
		}
	}
	return depth + delta
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
