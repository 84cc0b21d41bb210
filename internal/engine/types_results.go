package engine

import (
	"github.com/danieljhkim/rexyz/internal/compose"
	"github.com/danieljhkim/rexyz/internal/layers"
)

// StatusResult represents the current session.
type StatusResult struct {
	// State is the full editor state
	State layers.State `json:"state"`

	// RenderList is the visible layers in drawing order
	RenderList []compose.Entry `json:"renderList"`
}

// AddResult represents the result of adding an accessory.
type AddResult struct {
	// Added is false when the category or variant was invalid
	Added bool `json:"added"`

	Instance layers.AccessoryInstance `json:"instance"`
}

// SaveResult represents the result of saving to the gallery.
type SaveResult struct {
	// Count is the gallery size after the save
	Count int `json:"count"`
}

// ChangeResult reports whether an operation changed anything.
type ChangeResult struct {
	Changed bool `json:"changed"`
}
