package layers

import (
	"fmt"

	"github.com/danieljhkim/rexyz/internal/catalog"
	"github.com/google/uuid"
)

// IDFunc produces an instance id for a new accessory of the given category.
type IDFunc func(category string) string

// UUIDv7IDs names instances "<category>-<uuidv7>". UUIDv7 values are
// time-ordered, so ids sort in creation order.
func UUIDv7IDs(category string) string {
	return category + "-" + uuid.Must(uuid.NewV7()).String()
}

// Option configures a Store.
type Option func(*Store)

// WithIDFunc overrides the accessory id generator.
func WithIDFunc(fn IDFunc) Option {
	return func(s *Store) { s.newID = fn }
}

// Store holds the layer state of one editing session.
// It is not safe for concurrent use; the editor has a single writer.
type Store struct {
	cat         *catalog.Catalog
	base        map[string]*BaseLayerState
	accessories []AccessoryInstance
	selection   Selection
	newID       IDFunc
}

// NewStore creates a Store with every base layer at its defaults.
func NewStore(cat *catalog.Catalog, opts ...Option) *Store {
	s := &Store{
		cat:   cat,
		newID: UUIDv7IDs,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.init()
	return s
}

func (s *Store) init() {
	s.base = make(map[string]*BaseLayerState)
	for _, c := range s.cat.Base() {
		s.base[c.ID] = &BaseLayerState{Category: c.ID, Layer: defaultLayer(c.Depth)}
	}
	s.accessories = nil
	s.selection = Selection{Tab: catalog.TabBody}
}

// Catalog returns the catalog the store validates against.
func (s *Store) Catalog() *catalog.Catalog {
	return s.cat
}

// SetBaseVariant selects the variant of a base layer. It returns false and
// leaves the state unchanged when the category or index is invalid.
func (s *Store) SetBaseVariant(category string, index int) bool {
	b, ok := s.base[category]
	if !ok || !s.inRange(category, index) {
		return false
	}
	b.Variant = index
	return true
}

// UpdateBase merges a patch into a base layer.
func (s *Store) UpdateBase(category string, p Patch) bool {
	b, ok := s.base[category]
	if !ok {
		return false
	}
	p.apply(&b.Layer, len(s.cat.VariantsFor(category)))
	return true
}

// ResetBaseTransform puts a base layer back at the canvas center with
// scale 1 and no rotation. Variant, depth and visibility are kept.
func (s *Store) ResetBaseTransform(category string) bool {
	b, ok := s.base[category]
	if !ok {
		return false
	}
	b.OffsetX, b.OffsetY = 0, 0
	b.Scale = 1
	b.Rotation = 0
	return true
}

// NudgeBaseDepth moves a base layer delta steps up or down.
func (s *Store) NudgeBaseDepth(category string, delta int) bool {
	b, ok := s.base[category]
	if !ok {
		return false
	}
	b.Depth = nudge(b.Depth, delta)
	return true
}

// AddAccessory adds an instance of an accessory category above every
// existing layer. It returns false when the category is not an accessory
// category or the variant is out of range.
func (s *Store) AddAccessory(category string, variant int) (AccessoryInstance, bool) {
	if !s.cat.IsAccessory(category) || !s.inRange(category, variant) {
		return AccessoryInstance{}, false
	}

	a := AccessoryInstance{
		ID:       s.uniqueID(category),
		Category: category,
		Layer:    defaultLayer(s.maxDepth() + 1),
	}
	a.Variant = variant
	s.accessories = append(s.accessories, a)
	return a, true
}

// UpdateAccessory merges a patch into an accessory instance.
func (s *Store) UpdateAccessory(id string, p Patch) bool {
	a := s.accessory(id)
	if a == nil {
		return false
	}
	p.apply(&a.Layer, len(s.cat.VariantsFor(a.Category)))
	return true
}

// NudgeAccessoryDepth moves an accessory instance delta steps up or down.
func (s *Store) NudgeAccessoryDepth(id string, delta int) bool {
	a := s.accessory(id)
	if a == nil {
		return false
	}
	a.Depth = nudge(a.Depth, delta)
	return true
}

// RemoveAccessory deletes an accessory instance.
func (s *Store) RemoveAccessory(id string) bool {
	for i := range s.accessories {
		if s.accessories[i].ID == id {
			s.accessories = append(s.accessories[:i], s.accessories[i+1:]...)
			return true
		}
	}
	return false
}

// ResetAll discards accessories, restores every base layer to its defaults
// and clears the selection. The result equals a fresh store.
func (s *Store) ResetAll() {
	s.init()
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	st := State{
		Base:        make([]BaseLayerState, 0, len(s.base)),
		Accessories: make([]AccessoryInstance, len(s.accessories)),
		Selection:   s.selection,
	}
	for _, c := range s.cat.Base() {
		st.Base = append(st.Base, *s.base[c.ID])
	}
	copy(st.Accessories, s.accessories)
	return st
}

// Restore replaces the store's state with st. Entries that do not fit the
// catalog are repaired: unknown categories and duplicate instance ids are
// dropped, out-of-range variants fall back to 0, missing base layers get
// their defaults and transform values are clamped.
// It returns the number of repairs made.
func (s *Store) Restore(st State) int {
	s.init()
	repairs := 0

	seen := make(map[string]bool)
	for _, b := range st.Base {
		cur, ok := s.base[b.Category]
		if !ok || seen[b.Category] {
			repairs++
			continue
		}
		seen[b.Category] = true
		repairs += s.load(&cur.Layer, b.Layer, b.Category)
	}
	if len(seen) != len(s.base) {
		repairs += len(s.base) - len(seen)
	}

	ids := make(map[string]bool)
	for _, a := range st.Accessories {
		if !s.cat.IsAccessory(a.Category) || a.ID == "" || ids[a.ID] {
			repairs++
			continue
		}
		ids[a.ID] = true
		inst := AccessoryInstance{ID: a.ID, Category: a.Category, Layer: defaultLayer(0)}
		repairs += s.load(&inst.Layer, a.Layer, a.Category)
		s.accessories = append(s.accessories, inst)
	}

	sel := st.Selection
	if !s.SelectTab(sel.Tab) {
		repairs++
	}
	if sel.Category != "" {
		if s.SelectCategory(sel.Category) && s.inRange(sel.Category, sel.Index) {
			s.selection.Index = sel.Index
		} else {
			repairs++
		}
	}

	return repairs
}

// load copies src into dst through the same clamping a Patch applies.
// An invalid variant, a missing scale and any clamped value each count as
// one repair.
func (s *Store) load(dst *Layer, src Layer, category string) int {
	repairs := 0
	if !s.inRange(category, src.Variant) {
		repairs++
		src.Variant = 0
	}
	if src.Scale == 0 {
		repairs++
		src.Scale = 1
	}
	Patch{
		Variant:  &src.Variant,
		Scale:    &src.Scale,
		Rotation: &src.Rotation,
		OffsetX:  &src.OffsetX,
		OffsetY:  &src.OffsetY,
		Visible:  &src.Visible,
	}.apply(dst, len(s.cat.VariantsFor(category)))
	dst.Depth = clampInt(src.Depth, 0, maxStoredDepth)

	if dst.Scale != src.Scale || dst.Rotation != src.Rotation ||
		dst.OffsetX != src.OffsetX || dst.OffsetY != src.OffsetY || dst.Depth != src.Depth {
		repairs++
	}
	return repairs
}

func (s *Store) accessory(id string) *AccessoryInstance {
	for i := range s.accessories {
		if s.accessories[i].ID == id {
			return &s.accessories[i]
		}
	}
	return nil
}

func (s *Store) maxDepth() int {
	top := 0
	first := true
	for _, b := range s.base {
		if first || b.Depth > top {
			top = b.Depth
			first = false
		}
	}
	for _, a := range s.accessories {
		if first || a.Depth > top {
			top = a.Depth
			first = false
		}
	}
	return top
}

func (s *Store) uniqueID(category string) string {
	id := s.newID(category)
	candidate := id
	for n := 2; s.accessory(candidate) != nil; n++ {
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	return candidate
}

func (s *Store) inRange(category string, index int) bool {
	return index >= 0 && index < len(s.cat.VariantsFor(category))
}
