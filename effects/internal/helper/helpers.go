package helper

import (
	"context"
	"fmt"

	effectmodel "github.com/on-the-ground/collatz_ive_go/effects/internal/model"
)

// GetHandler checks whether a handler for the given EffectEnum is registered in the context.
// Returns an error if not found.
func GetHandler(ctx context.Context, enum effectmodel.EffectEnum) (any, error) {
	raw := ctx.Value(enum)
	if raw == nil {
		return nil, fmt.Errorf("%w: %v", effectmodel.ErrNoEffectHandler, enum)
	}
	return raw, nil
}

// GetTypedHandler is GetHandler plus a type assertion to the handler type H.
func GetTypedHandler[H any](ctx context.Context, enum effectmodel.EffectEnum) (H, error) {
	var zero H
	raw, err := GetHandler(ctx, enum)
	if err != nil {
		return zero, err
	}
	h, ok := raw.(H)
	if !ok {
		return zero, fmt.Errorf("unexpected handler type for %v: %T", enum, raw)
	}
	return h, nil
}
