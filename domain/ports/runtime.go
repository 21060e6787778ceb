package ports

import (
	"context"

	"github.com/reglet-dev/facemesh/domain/entities"
)

// RuntimeChannel is the outbound side of the embedded script runtime.
// Implementations must not block on the runtime: Send hands the command to
// the runtime's own execution context and returns.
type RuntimeChannel interface {
	// Load begins loading the runtime's entry point. Loading completes
	// asynchronously; the runtime signals readiness through the ready callback.
	Load(ctx context.Context) error

	// Send issues a one-way command. No return value from the runtime is observed.
	Send(ctx context.Context, cmd entities.Command) error
}
