package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/rexyz/internal/kv"
	"github.com/danieljhkim/rexyz/internal/layers"
)

// SetBaseVariant selects the variant of a base category.
func (e *Engine) SetBaseVariant(ctx context.Context, category string, index int) (bool, error) {
	return e.mutate(ctx, "set-base-variant", func() bool {
		return e.layers.SetBaseVariant(category, index)
	})
}

// UpdateBase applies a partial update to a base layer.
func (e *Engine) UpdateBase(ctx context.Context, req *BaseUpdateRequest) (bool, error) {
	if req.Patch.IsEmpty() {
		return false, fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	return e.mutate(ctx, "update-base", func() bool {
		return e.layers.UpdateBase(req.Category, req.Patch)
	})
}

// ResetBaseTransform puts a base layer back at the canvas center at
// natural size and rotation.
func (e *Engine) ResetBaseTransform(ctx context.Context, category string) (bool, error) {
	return e.mutate(ctx, "reset-base", func() bool {
		return e.layers.ResetBaseTransform(category)
	})
}

// AddAccessory adds an instance of an accessory variant on top of
// everything else.
func (e *Engine) AddAccessory(ctx context.Context, category string, variant int) (*AddResult, error) {
	var inst layers.AccessoryInstance
	added, err := e.mutate(ctx, "add-accessory", func() bool {
		var ok bool
		inst, ok = e.layers.AddAccessory(category, variant)
		return ok
	})
	if err != nil {
		return nil, err
	}
	return &AddResult{Added: added, Instance: inst}, nil
}

// UpdateAccessory applies a partial update to an accessory instance.
func (e *Engine) UpdateAccessory(ctx context.Context, req *AccessoryUpdateRequest) (bool, error) {
	if req.Patch.IsEmpty() {
		return false, fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	return e.mutate(ctx, "update-accessory", func() bool {
		return e.layers.UpdateAccessory(req.ID, req.Patch)
	})
}

// RemoveAccessory deletes an accessory instance.
func (e *Engine) RemoveAccessory(ctx context.Context, id string) (bool, error) {
	return e.mutate(ctx, "remove-accessory", func() bool {
		return e.layers.RemoveAccessory(id)
	})
}

// NudgeDepth moves a base layer or accessory one step up or down. Base
// category ids take precedence over accessory ids.
func (e *Engine) NudgeDepth(ctx context.Context, req *DepthRequest) (bool, error) {
	if e.catalog.IsBase(req.Target) {
		return e.mutate(ctx, "nudge-base-depth", func() bool {
			return e.layers.NudgeBaseDepth(req.Target, req.delta())
		})
	}
	return e.mutate(ctx, "nudge-accessory-depth", func() bool {
		return e.layers.NudgeAccessoryDepth(req.Target, req.delta())
	})
}

// ResetAll restores the default composition and clears the selection by
// dropping the saved session, so the next Open starts from defaults. The
// gallery is untouched.
func (e *Engine) ResetAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.layers.ResetAll()
	if err := e.storage.Delete(ctx, kv.SessionSlot); err != nil {
		e.logger.WithError(err).Warn("failed clearing session")
		return fmt.Errorf("failed to clear session: %w", err)
	}
	e.logger.WithField("op", "reset-all").Debug("session cleared")
	return nil
}
