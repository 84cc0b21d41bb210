package engine

import (
	"context"

	"github.com/danieljhkim/rexyz/internal/layers"
)

// Selection returns the browsing state.
func (e *Engine) Selection() layers.Selection {
	return e.layers.Selection()
}

// SelectTab switches the editor tab and clears the browsed category.
func (e *Engine) SelectTab(ctx context.Context, tab string) (bool, error) {
	return e.mutate(ctx, "select-tab", func() bool {
		return e.layers.SelectTab(tab)
	})
}

// SelectCategory starts browsing an accessory category at its first variant.
func (e *Engine) SelectCategory(ctx context.Context, category string) (bool, error) {
	return e.mutate(ctx, "select-category", func() bool {
		return e.layers.SelectCategory(category)
	})
}

// ClearCategory stops browsing.
func (e *Engine) ClearCategory(ctx context.Context) error {
	_, err := e.mutate(ctx, "clear-category", func() bool {
		before := e.layers.Selection()
		e.layers.ClearCategory()
		return before != e.layers.Selection()
	})
	return err
}

// Browse steps the browsed variant by delta, wrapping around.
func (e *Engine) Browse(ctx context.Context, delta int) (bool, error) {
	return e.mutate(ctx, "browse", func() bool {
		return e.layers.Browse(delta)
	})
}

// AddSelected adds the browsed variant as a new accessory.
func (e *Engine) AddSelected(ctx context.Context) (*AddResult, error) {
	var inst layers.AccessoryInstance
	added, err := e.mutate(ctx, "add-selected", func() bool {
		var ok bool
		inst, ok = e.layers.AddSelected()
		return ok
	})
	if err != nil {
		return nil, err
	}
	return &AddResult{Added: added, Instance: inst}, nil
}
