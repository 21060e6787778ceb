package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/reglet-dev/facemesh/domain/entities"
	adapter "github.com/reglet-dev/facemesh/infrastructure/wazero"
	"github.com/reglet-dev/facemesh/internal/queue"
)

// Guest exports called by the host.
const (
	ExportStart               = "start"
	ExportStartVideo          = "start_video"
	ExportStopVideo           = "stop_video"
	ExportSetCameraFacingMode = "set_camera_facing_mode"
	ExportTeardown            = "teardown"
)

var (
	// ErrNotLoaded is returned by Send before Load.
	ErrNotLoaded = errors.New("guest instance is not loaded")

	// ErrAlreadyLoaded is returned by a second Load.
	ErrAlreadyLoaded = errors.New("guest instance is already loaded")

	// ErrInstanceClosed is returned once Close has been called.
	ErrInstanceClosed = errors.New("guest instance is closed")
)

// Instance is one guest script bound to its own execution goroutine.
// It implements ports.RuntimeChannel.
type Instance struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	queue    *queue.Queue
	logger   *slog.Logger

	// module is only touched from the queue goroutine, and by Close after
	// the queue has drained.
	module api.Module

	id string

	mu     sync.Mutex
	loaded bool
	closed bool
}

// ID returns the instance's unique ID. It is also the guest module name.
func (i *Instance) ID() string {
	return i.id
}

// Load schedules instantiation of the guest followed by a call to its
// "start" export. It returns without waiting for either.
func (i *Instance) Load(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	switch {
	case i.closed:
		return ErrInstanceClosed
	case i.loaded:
		return ErrAlreadyLoaded
	}

	callCtx := i.callContext(ctx)
	if !i.queue.Push(func() { i.instantiate(callCtx) }) {
		return ErrInstanceClosed
	}
	i.loaded = true
	return nil
}

// Send schedules the guest export matching cmd.
func (i *Instance) Send(ctx context.Context, cmd entities.Command) error {
	export, params, err := commandCall(cmd)
	if err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	switch {
	case i.closed:
		return ErrInstanceClosed
	case !i.loaded:
		return ErrNotLoaded
	}

	callCtx := i.callContext(ctx)
	if !i.queue.Push(func() { i.call(callCtx, cmd, export, params...) }) {
		return ErrInstanceClosed
	}
	return nil
}

// Flush blocks until every call scheduled so far has run.
func (i *Instance) Flush() {
	i.queue.Flush()
}

// Close runs the calls already scheduled, then closes the guest module.
// Close is idempotent.
func (i *Instance) Close(ctx context.Context) error {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return nil
	}
	i.closed = true
	i.mu.Unlock()

	i.queue.Close()

	var errs []error
	if i.module != nil {
		errs = append(errs, i.module.Close(ctx))
	}
	errs = append(errs, i.compiled.Close(ctx))
	return errors.Join(errs...)
}

// callContext detaches ctx from its caller's cancellation, since the call
// runs after Send returns.
func (i *Instance) callContext(ctx context.Context) context.Context {
	return context.WithoutCancel(adapter.WithInstanceID(ctx, i.id))
}

func (i *Instance) instantiate(ctx context.Context) {
	cfg := wazero.NewModuleConfig().
		WithName(i.id).
		WithStartFunctions("_initialize")

	mod, err := i.runtime.InstantiateModule(ctx, i.compiled, cfg)
	if err != nil {
		i.logger.ErrorContext(ctx, "failed to instantiate guest", "error", err)
		return
	}
	i.module = mod
	i.logger.DebugContext(ctx, "guest instantiated")

	start := mod.ExportedFunction(ExportStart)
	if start == nil {
		return
	}
	if _, err := start.Call(ctx); err != nil {
		i.logger.ErrorContext(ctx, "guest start failed", "error", err)
	}
}

func (i *Instance) call(ctx context.Context, cmd entities.Command, export string, params ...uint64) {
	if i.module == nil {
		i.logger.WarnContext(ctx, "command dropped, guest not instantiated", "command", cmd.String())
		return
	}

	fn := i.module.ExportedFunction(export)
	if fn == nil {
		i.logger.WarnContext(ctx, "guest does not export command", "command", cmd.String(), "export", export)
		return
	}

	if _, err := fn.Call(ctx, params...); err != nil {
		i.logger.ErrorContext(ctx, "guest command failed", "command", cmd.String(), "error", err)
		return
	}
	i.logger.DebugContext(ctx, "guest command executed", "command", cmd.String())
}

func commandCall(cmd entities.Command) (string, []uint64, error) {
	switch cmd.Name {
	case entities.CommandStartVideo:
		return ExportStartVideo, nil, nil
	case entities.CommandStopVideo:
		return ExportStopVideo, nil, nil
	case entities.CommandSetCameraFacingMode:
		var front int32
		if cmd.FrontFacing {
			front = 1
		}
		return ExportSetCameraFacingMode, []uint64{api.EncodeI32(front)}, nil
	case entities.CommandTeardown:
		return ExportTeardown, nil, nil
	default:
		return "", nil, fmt.Errorf("unsupported command %q", cmd.Name)
	}
}
