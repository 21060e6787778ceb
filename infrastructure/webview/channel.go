package webview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/domain/ports"
	"github.com/reglet-dev/facemesh/internal/queue"
	"github.com/reglet-dev/facemesh/wireformat"
)

// ScriptEvaluator is the part of a web view the channel drives.
type ScriptEvaluator interface {
	LoadURL(url string) error
	EvaluateJavascript(script string) error
}

// MessagePoster is implemented by web views that deliver commands to page
// script as JSON messages.
type MessagePoster interface {
	LoadURL(url string) error
	PostMessage(message string) error
}

type channelConfig struct {
	executor ports.Executor
	logger   *slog.Logger
}

// ChannelOption configures a Channel.
type ChannelOption func(*channelConfig)

// WithExecutor runs web view calls on the given executor, usually the view's
// UI thread. Without one the channel uses its own goroutine.
func WithExecutor(e ports.Executor) ChannelOption {
	return func(c *channelConfig) {
		c.executor = e
	}
}

// WithLogger sets the channel's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ChannelOption {
	return func(c *channelConfig) {
		c.logger = logger
	}
}

// Channel implements ports.RuntimeChannel on top of a web view. Calls into
// the view are posted to the view's executor and never run on the caller.
type Channel struct {
	load     func(url string) error
	deliver  func(cmd entities.Command) error
	executor ports.Executor
	queue    *queue.Queue
	logger   *slog.Logger
	entryURL string
}

// NewChannel returns a channel that loads entryURL and sends each command as
// a script statement such as "startVideo();".
func NewChannel(view ScriptEvaluator, entryURL string, opts ...ChannelOption) *Channel {
	return newChannel(view.LoadURL, func(cmd entities.Command) error {
		return view.EvaluateJavascript(cmd.Script())
	}, entryURL, opts)
}

// NewMessageChannel returns a channel that loads entryURL and posts each
// command as a wireformat.CommandWire JSON message.
func NewMessageChannel(view MessagePoster, entryURL string, opts ...ChannelOption) *Channel {
	return newChannel(view.LoadURL, func(cmd entities.Command) error {
		data, err := json.Marshal(wireformat.CommandToWire(cmd))
		if err != nil {
			return err
		}
		return view.PostMessage(string(data))
	}, entryURL, opts)
}

func newChannel(load func(string) error, deliver func(entities.Command) error, entryURL string, opts []ChannelOption) *Channel {
	cfg := channelConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	c := &Channel{
		load:     load,
		deliver:  deliver,
		executor: cfg.executor,
		logger:   cfg.logger,
		entryURL: entryURL,
	}
	if c.executor == nil {
		c.queue = queue.New(queue.WithPanicHandler(func(recovered any) {
			c.logger.Error("web view call panicked", "panic", recovered)
		}))
		c.queue.Start()
		c.executor = ports.ExecutorFunc(func(task func()) { c.queue.Push(task) })
	}
	return c
}

// EntryURL returns the page the channel loads.
func (c *Channel) EntryURL() string {
	return c.entryURL
}

// Load schedules loading of the entry page.
func (c *Channel) Load(ctx context.Context) error {
	if c.entryURL == "" {
		return fmt.Errorf("web view channel has no entry URL")
	}
	c.executor.Execute(func() {
		if err := c.load(c.entryURL); err != nil {
			c.logger.ErrorContext(ctx, "web view failed to load entry page", "url", c.entryURL, "error", err)
		}
	})
	return nil
}

// Send schedules delivery of cmd to page script.
func (c *Channel) Send(ctx context.Context, cmd entities.Command) error {
	c.executor.Execute(func() {
		if err := c.deliver(cmd); err != nil {
			c.logger.ErrorContext(ctx, "web view command failed", "command", cmd.String(), "error", err)
		}
	})
	return nil
}

// Flush waits for scheduled calls when the channel runs its own goroutine.
// With a host executor it returns immediately.
func (c *Channel) Flush() {
	if c.queue != nil {
		c.queue.Flush()
	}
}

// Close stops the channel's own goroutine after running scheduled calls.
func (c *Channel) Close() {
	if c.queue != nil {
		c.queue.Close()
	}
}
