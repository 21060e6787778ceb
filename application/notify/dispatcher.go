// Package notify delivers bridge notifications on the host's callback context.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/domain/ports"
	"github.com/reglet-dev/facemesh/internal/queue"
)

// Handler receives notifications. It always runs on the host callback context.
type Handler func(entities.Notification)

type config struct {
	executor ports.Executor
	logger   *slog.Logger
	handler  Handler
}

// Option configures a Dispatcher.
type Option func(*config)

// WithExecutor delivers notifications through the host's executor, such as a
// UI thread dispatcher. Without one the dispatcher runs its own single
// consumer goroutine.
func WithExecutor(e ports.Executor) Option {
	return func(c *config) {
		c.executor = e
	}
}

// WithLogger sets the logger used for handler panics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHandler sets the initial handler.
func WithHandler(h Handler) Option {
	return func(c *config) {
		c.handler = h
	}
}

// Dispatcher converts bridge events into notifications and hands them to the
// host context. Dispatch never blocks and never observes the handler's result.
type Dispatcher struct {
	executor ports.Executor
	queue    *queue.Queue
	logger   *slog.Logger
	handler  atomic.Pointer[Handler]
}

// New creates a Dispatcher.
func New(opts ...Option) *Dispatcher {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	d := &Dispatcher{
		executor: cfg.executor,
		logger:   cfg.logger,
	}
	if cfg.handler != nil {
		d.SetHandler(cfg.handler)
	}
	if d.executor == nil {
		d.queue = queue.New()
		d.queue.Start()
	}
	return d
}

// SetHandler replaces the notification handler. A nil handler discards
// notifications.
func (d *Dispatcher) SetHandler(h Handler) {
	if h == nil {
		d.handler.Store(nil)
		return
	}
	d.handler.Store(&h)
}

// Dispatch schedules n for delivery.
func (d *Dispatcher) Dispatch(n entities.Notification) {
	task := func() { d.deliver(n) }
	if d.executor != nil {
		d.executor.Execute(task)
		return
	}
	if !d.queue.Push(task) {
		d.logger.Debug("dispatcher closed, dropping notification", "notification", n.String())
	}
}

// ModelReady dispatches a ModelReady notification.
func (d *Dispatcher) ModelReady() {
	d.Dispatch(entities.Notification{Kind: entities.ModelReady})
}

// FaceUpdated dispatches a FaceUpdated notification.
func (d *Dispatcher) FaceUpdated() {
	d.Dispatch(entities.Notification{Kind: entities.FaceUpdated})
}

// VideoUpdated dispatches a VideoUpdated notification.
func (d *Dispatcher) VideoUpdated() {
	d.Dispatch(entities.Notification{Kind: entities.VideoUpdated})
}

// Error dispatches an Error notification.
func (d *Dispatcher) Error(code int, message string) {
	d.Dispatch(entities.NewErrorNotification(code, message))
}

// Flush waits until notifications dispatched so far have been delivered.
// It only applies to the dispatcher's own goroutine; with a host executor it
// returns immediately. Notifier methods must not call Flush, since they run
// on that goroutine.
func (d *Dispatcher) Flush() {
	if d.queue != nil {
		d.queue.Flush()
	}
}

// Close delivers pending notifications and stops the dispatcher's goroutine.
// Later dispatches are dropped.
func (d *Dispatcher) Close() {
	if d.queue != nil {
		d.queue.Close()
	}
}

func (d *Dispatcher) deliver(n entities.Notification) {
	h := d.handler.Load()
	if h == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.ErrorContext(context.Background(), "notification handler panicked",
				"notification", n.String(),
				"panic", fmt.Sprint(r),
			)
		}
	}()
	(*h)(n)
}
