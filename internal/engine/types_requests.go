package engine

import "github.com/danieljhkim/rexyz/internal/layers"

// BaseUpdateRequest represents a partial update of a base layer.
type BaseUpdateRequest struct {
	// Category is the base category id (e.g. "eyes")
	Category string

	// Patch holds the fields to change
	Patch layers.Patch
}

// AccessoryUpdateRequest represents a partial update of an accessory.
type AccessoryUpdateRequest struct {
	// ID is the accessory instance id
	ID string

	// Patch holds the fields to change
	Patch layers.Patch
}

// DepthRequest represents a one-step depth change.
type DepthRequest struct {
	// Target is a base category id or an accessory instance id
	Target string

	// Up raises the layer; otherwise it is lowered
	Up bool
}

func (r *DepthRequest) delta() int {
	if r.Up {
		return 1
	}
	return -1
}
