package host

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/reglet-dev/facemesh/hostfuncs"
	adapter "github.com/reglet-dev/facemesh/infrastructure/wazero"
	"github.com/reglet-dev/facemesh/internal/queue"
)

// Executor owns a wazero runtime with the host functions installed.
type Executor struct {
	runtime     wazero.Runtime
	registry    *hostfuncs.HandlerRegistry
	logger      *slog.Logger
	adapterOpts []adapter.AdapterOption
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	if e.registry == nil {
		reg, err := hostfuncs.NewRegistry()
		if err != nil {
			return nil, fmt.Errorf("failed to create default registry: %w", err)
		}
		e.registry = reg
	}

	rt := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	e.runtime = rt

	adapterOpts := append([]adapter.AdapterOption{adapter.WithLogger(e.logger)}, e.adapterOpts...)
	if err := adapter.RegisterWithRuntime(ctx, rt, e.registry, adapterOpts...); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}

	return e, nil
}

// Close releases the runtime and every module instantiated in it.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// NewInstance compiles a guest script. The returned Instance is not
// instantiated until Load is called.
func (e *Executor) NewInstance(ctx context.Context, wasmBytes []byte) (*Instance, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile guest module: %w", err)
	}

	id := uuid.NewString()
	logger := e.logger.With("instance", id)
	q := queue.New(queue.WithPanicHandler(func(recovered any) {
		logger.Error("guest call panicked", "panic", recovered)
	}))
	q.Start()

	return &Instance{
		id:       id,
		runtime:  e.runtime,
		compiled: compiled,
		queue:    q,
		logger:   logger,
	}, nil
}
