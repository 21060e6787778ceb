package log

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/reglet-dev/facemesh/hostfuncs"
)

// Forwarder re-emits runtime log messages through a slog.Logger.
type Forwarder struct {
	logger *slog.Logger
	level  slog.Level
}

// ForwarderOption configures a Forwarder.
type ForwarderOption func(*forwarderConfig)

type forwarderConfig struct {
	logger *slog.Logger
	level  slog.Level
}

func defaultForwarderConfig() forwarderConfig {
	return forwarderConfig{level: slog.LevelDebug}
}

// WithLogger sets the destination logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ForwarderOption {
	return func(c *forwarderConfig) {
		c.logger = logger
	}
}

// WithLevel sets the minimum level forwarded. Runtime messages below it are
// dropped.
func WithLevel(level slog.Level) ForwarderOption {
	return func(c *forwarderConfig) {
		c.level = level
	}
}

// NewForwarder creates a Forwarder.
func NewForwarder(opts ...ForwarderOption) *Forwarder {
	cfg := defaultForwarderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Forwarder{logger: cfg.logger, level: cfg.level}
}

// Forward logs msg. The runtime's timestamp is preserved as the "runtime_time"
// attribute when set.
func (f *Forwarder) Forward(ctx context.Context, msg LogMessageWire) {
	level := ParseLevel(msg.Level)
	if level < f.level {
		return
	}

	attrs := make([]slog.Attr, 0, len(msg.Attrs)+2)
	attrs = append(attrs, slog.String("origin", "runtime"))
	if msg.Source != "" {
		attrs = append(attrs, slog.String("source", msg.Source))
	}
	if !msg.Timestamp.IsZero() {
		attrs = append(attrs, slog.Time("runtime_time", msg.Timestamp))
	}
	for _, a := range msg.Attrs {
		attrs = append(attrs, FromAttrWire(a))
	}
	f.logger.LogAttrs(ctx, level, msg.Message, attrs...)
}

// Handler returns the log_message host function. Malformed payloads are
// answered with a VALIDATION_ERROR response.
func (f *Forwarder) Handler() hostfuncs.ByteHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var msg LogMessageWire
		if err := json.Unmarshal(payload, &msg); err != nil {
			return hostfuncs.NewValidationError("invalid log message: " + err.Error()).ToJSON(), nil
		}
		f.Forward(ctx, msg)
		return nil, nil
	}
}

// Bundle returns a host function bundle containing log_message.
func (f *Forwarder) Bundle() hostfuncs.HostFuncBundle {
	return hostfuncs.NewBundle(map[string]hostfuncs.ByteHandler{
		hostfuncs.FuncLogMessage: f.Handler(),
	})
}

// ParseLevel maps slog level names and browser console method names onto a
// slog.Level. Unknown names map to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "log", "info", "":
		return slog.LevelInfo
	case "debug", "trace", "verbose", "tip":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err == nil {
		return level
	}
	return slog.LevelInfo
}
