package wazero

import (
	"context"

	"github.com/tetratelabs/wazero/api"
)

type contextKey struct {
	name string
}

var instanceIDKey = &contextKey{name: "instance_id"}

// WithInstanceID tags ctx with the ID of the guest instance it is used for.
func WithInstanceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, instanceIDKey, id)
}

// InstanceIDFromContext retrieves the instance ID set by WithInstanceID.
func InstanceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(instanceIDKey).(string)
	return id, ok
}

// InstanceID returns the instance ID from ctx, falling back to the module name.
func InstanceID(ctx context.Context, mod api.Module) string {
	if id, ok := InstanceIDFromContext(ctx); ok {
		return id
	}
	if mod == nil {
		return ""
	}
	return mod.Name()
}
