package webview

import (
	"context"
	"log/slog"
	"time"

	"github.com/reglet-dev/facemesh/log"
)

// ConsoleMessage is a page console entry as reported by the web view.
type ConsoleMessage struct {
	Level    string
	Message  string
	SourceID string
	Line     int
}

// Console forwards page console output into the host's logger.
type Console struct {
	forwarder *log.Forwarder
	now       func() time.Time
}

// NewConsole creates a Console writing through forwarder.
func NewConsole(forwarder *log.Forwarder) *Console {
	return &Console{forwarder: forwarder, now: time.Now}
}

// OnConsoleMessage forwards msg. It always reports the message as handled.
func (c *Console) OnConsoleMessage(ctx context.Context, msg ConsoleMessage) bool {
	wire := log.LogMessageWire{
		Timestamp: c.now(),
		Level:     msg.Level,
		Message:   msg.Message,
		Source:    "console",
	}
	if msg.SourceID != "" {
		wire.Attrs = append(wire.Attrs,
			log.ToAttrWire(slog.String("source_id", msg.SourceID)),
			log.ToAttrWire(slog.Int("line", msg.Line)),
		)
	}
	c.forwarder.Forward(ctx, wire)
	return true
}
