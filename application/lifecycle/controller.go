// Package lifecycle reconciles host lifecycle transitions and configuration
// changes with the commands sent into the embedded script runtime.
package lifecycle

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/domain/errors"
	"github.com/reglet-dev/facemesh/domain/ports"
)

// ErrRuntimeAttached is returned when a second runtime is attached.
var ErrRuntimeAttached = stdErrors.New("a runtime is already attached")

// Notifier receives the notifications raised by lifecycle transitions.
type Notifier interface {
	ModelReady()
	Error(code int, message string)
}

type config struct {
	logger  *slog.Logger
	camera  entities.CameraMode
	enabled bool
}

// Option configures a Controller.
type Option func(*config)

// WithLogger sets the controller's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithEnabled sets the initial enabled flag. Defaults to true.
func WithEnabled(enabled bool) Option {
	return func(c *config) {
		c.enabled = enabled
	}
}

// WithCamera sets the initial camera mode. Defaults to Front.
func WithCamera(mode entities.CameraMode) Option {
	return func(c *config) {
		c.camera = mode
	}
}

// Controller is the bridge state machine.
//
// All transitions happen under one mutex. Commands are sent while holding it,
// which keeps them ordered; RuntimeChannel.Send must therefore hand off to
// the runtime's context instead of running the command inline.
type Controller struct {
	notifier Notifier
	runtime  ports.RuntimeChannel
	logger   *slog.Logger
	camera   entities.CameraMode
	state    entities.LifecycleState
	mu       sync.Mutex
	enabled  bool
	// modelReady records a ready signal that arrived before Initialize.
	modelReady bool
	// notifications raised under mu, delivered by unlock.
	pending []func()
}

// New creates a controller in the Uninitialized state.
func New(notifier Notifier, opts ...Option) *Controller {
	cfg := config{
		camera:  entities.CameraFront,
		enabled: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Controller{
		notifier: notifier,
		logger:   cfg.logger,
		camera:   cfg.camera,
		enabled:  cfg.enabled,
		state:    entities.StateUninitialized,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() entities.LifecycleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Accepting reports whether inbound runtime callbacks should still be processed.
func (c *Controller) Accepting() bool {
	return c.State() != entities.StateTornDown
}

// RuntimeAttached reports whether a live runtime reference is held.
func (c *Controller) RuntimeAttached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runtime != nil
}

// Enabled returns the host's enabled flag.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Camera returns the selected camera mode.
func (c *Controller) Camera() entities.CameraMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.camera
}

// AttachRuntime stores the runtime reference and asks it to start loading.
// No command is sent until the controller reaches Ready.
func (c *Controller) AttachRuntime(ctx context.Context, rt ports.RuntimeChannel) error {
	if rt == nil {
		return &errors.RuntimeNotAttachedError{Operation: "AttachRuntime"}
	}

	c.mu.Lock()
	switch {
	case c.state == entities.StateTornDown:
		c.mu.Unlock()
		return errors.ErrTornDown
	case c.runtime != nil:
		c.mu.Unlock()
		return ErrRuntimeAttached
	}
	c.runtime = rt
	c.mu.Unlock()

	// Load may call back into the controller synchronously.
	if err := rt.Load(ctx); err != nil {
		c.mu.Lock()
		if c.runtime == rt {
			c.runtime = nil
		}
		c.mu.Unlock()
		return fmt.Errorf("failed to load runtime: %w", err)
	}

	c.logger.DebugContext(ctx, "runtime attached")
	return nil
}

// Initialize marks the bridge usable. Without an attached runtime it does
// nothing and the controller stays Uninitialized.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case entities.StateTornDown:
		return &errors.RuntimeNotAttachedError{Operation: "Initialize"}
	case entities.StateUninitialized:
	default:
		return nil
	}

	if c.runtime == nil {
		c.logger.DebugContext(ctx, "initialize ignored, no runtime attached")
		return nil
	}

	c.setState(ctx, entities.StateReady)
	if c.modelReady {
		return c.activate(ctx)
	}
	return nil
}

// Ready handles the runtime's model-ready signal. ModelReady is delivered
// before any activation command is sent.
func (c *Controller) Ready(ctx context.Context) {
	c.mu.Lock()
	switch c.state {
	case entities.StateTornDown:
		c.mu.Unlock()
		return
	case entities.StateUninitialized:
		if !c.modelReady {
			c.modelReady = true
			c.pending = append(c.pending, c.notifier.ModelReady)
		}
		c.unlock()
		return
	}
	c.modelReady = true
	c.pending = append(c.pending, c.notifier.ModelReady)
	c.unlock()

	// The handler may have changed the flag or torn the bridge down.
	c.mu.Lock()
	defer c.unlock()
	if !c.state.Active() {
		return
	}
	if err := c.activate(ctx); err != nil {
		c.logger.ErrorContext(ctx, "failed to activate runtime", "error", err)
	}
}

// SetEnabled updates the enabled flag. Once the model is running the change
// starts or stops video. After teardown it fails with RuntimeNotAttachedError.
func (c *Controller) SetEnabled(ctx context.Context, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == entities.StateTornDown {
		return &errors.RuntimeNotAttachedError{Operation: "Enabled"}
	}
	c.enabled = enabled

	switch {
	case c.state == entities.StateEnabled && !enabled:
		c.setState(ctx, entities.StateDisabled)
		return c.send(ctx, entities.StopVideo())
	case c.state == entities.StateDisabled && enabled:
		c.setState(ctx, entities.StateEnabled)
		return c.send(ctx, entities.StartVideo())
	}
	return nil
}

// SetCamera selects the camera by name. An invalid name raises an Error
// notification and returns *errors.InvalidCameraModeError; the stored mode is
// left unchanged.
func (c *Controller) SetCamera(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.unlock()

	if c.state == entities.StateTornDown {
		return &errors.RuntimeNotAttachedError{Operation: "UseCamera"}
	}

	mode, ok := entities.ParseCameraMode(name)
	if !ok {
		err := &errors.InvalidCameraModeError{Value: name}
		c.pending = append(c.pending, func() { c.notifier.Error(err.Code(), err.Error()) })
		return err
	}
	c.camera = mode

	if c.state == entities.StateEnabled || c.state == entities.StateDisabled {
		return c.send(ctx, entities.SetCameraFacingMode(mode.FrontFacing()))
	}
	return nil
}

// Pause stops video without changing the enabled flag or releasing the runtime.
func (c *Controller) Pause(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Active() || c.runtime == nil {
		return nil
	}
	return c.send(ctx, entities.StopVideo())
}

// Resume restarts video if the model was running enabled before the pause.
func (c *Controller) Resume(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != entities.StateEnabled || c.runtime == nil {
		return nil
	}
	return c.send(ctx, entities.StartVideo())
}

// Teardown sends the teardown command if the runtime ever became usable,
// releases the runtime reference and enters TornDown. Calling it again is a
// no-op.
func (c *Controller) Teardown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == entities.StateTornDown {
		return nil
	}

	var err error
	if c.state.Active() && c.runtime != nil {
		err = c.send(ctx, entities.Teardown())
	}
	c.runtime = nil
	c.setState(ctx, entities.StateTornDown)
	return err
}

// unlock releases c.mu and then delivers pending notifications, so a
// notifier may call back into the controller.
func (c *Controller) unlock() {
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, notify := range pending {
		notify()
	}
}

// activate applies the enabled flag once the model is ready. The caller
// holds c.mu.
func (c *Controller) activate(ctx context.Context) error {
	if !c.enabled {
		c.setState(ctx, entities.StateDisabled)
		return nil
	}

	c.setState(ctx, entities.StateEnabled)
	if err := c.send(ctx, entities.StartVideo()); err != nil {
		return err
	}
	return c.send(ctx, entities.SetCameraFacingMode(c.camera.FrontFacing()))
}

func (c *Controller) setState(ctx context.Context, next entities.LifecycleState) {
	if c.state == next {
		return
	}
	c.logger.DebugContext(ctx, "lifecycle transition", "from", c.state.String(), "to", next.String())
	c.state = next
}

func (c *Controller) send(ctx context.Context, cmd entities.Command) error {
	if c.runtime == nil {
		return &errors.RuntimeNotAttachedError{Operation: string(cmd.Name)}
	}
	if err := c.runtime.Send(ctx, cmd); err != nil {
		c.logger.ErrorContext(ctx, "failed to send command", "command", cmd.String(), "error", err)
		return fmt.Errorf("failed to send %s: %w", cmd.Name, err)
	}
	return nil
}
