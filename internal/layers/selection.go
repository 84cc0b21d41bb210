package layers

import "github.com/danieljhkim/rexyz/internal/catalog"

// Selection returns the current browsing state.
func (s *Store) Selection() Selection {
	return s.selection
}

// SelectTab switches the active tab and drops any category selection.
func (s *Store) SelectTab(tab string) bool {
	for _, t := range catalog.Tabs {
		if t == tab {
			s.selection = Selection{Tab: tab}
			return true
		}
	}
	return false
}

// SelectCategory starts browsing an accessory category from its first
// variant. Only accessory categories can be browsed.
func (s *Store) SelectCategory(category string) bool {
	if !s.cat.IsAccessory(category) {
		return false
	}
	s.selection = Selection{Tab: catalog.TabAttributes, Category: category}
	return true
}

// ClearCategory stops browsing and returns to the category list.
func (s *Store) ClearCategory() {
	s.selection.Category = ""
	s.selection.Index = 0
}

// Browse moves the browsing index by delta, wrapping around the variant
// list in both directions.
func (s *Store) Browse(delta int) bool {
	n := len(s.cat.VariantsFor(s.selection.Category))
	if s.selection.Category == "" || n == 0 {
		return false
	}
	s.selection.Index = ((s.selection.Index+delta)%n + n) % n
	return true
}

// AddSelected adds an instance of the browsed variant.
func (s *Store) AddSelected() (AccessoryInstance, bool) {
	if s.selection.Category == "" {
		return AccessoryInstance{}, false
	}
	return s.AddAccessory(s.selection.Category, s.selection.Index)
}
