package hostfuncs

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Middleware wraps a ByteHandler with cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
type Middleware func(next ByteHandler) ByteHandler

// RegistryOption is a functional option for configuring a HandlerRegistry.
type RegistryOption func(*registryBuilder)

// PanicRecoveryMiddleware converts handler panics into an INTERNAL_ERROR
// ErrorResponse so a misbehaving callback cannot crash the runtime's thread.
func PanicRecoveryMiddleware() Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) (resp []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp = NewPanicError(r).ToJSON()
					err = nil
				}
			}()
			return next(ctx, payload)
		}
	}
}

// LoggingMiddleware logs every invocation through logger at debug level, and
// failures at error level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			funcName := "unknown"
			if hc, ok := ctx.(HostContext); ok {
				funcName = hc.FunctionName()
			}

			start := time.Now()
			resp, err := next(ctx, payload)
			if err != nil {
				logger.ErrorContext(ctx, "host function failed", "function", funcName, "error", err)
				return resp, err
			}
			logger.DebugContext(ctx, "host function completed",
				"function", funcName,
				"payload_bytes", len(payload),
				"duration", time.Since(start),
			)
			return resp, nil
		}
	}
}

// SizeLimitMiddleware rejects payloads larger than limit with a
// VALIDATION_ERROR response. Adapters that read guest memory enforce their own
// limit; this one protects adapters that receive payloads as strings.
func SizeLimitMiddleware(limit int) Middleware {
	if limit <= 0 {
		limit = DefaultMaxRequestSize
	}
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			if len(payload) > limit {
				return NewValidationError(fmt.Sprintf("payload of %d bytes exceeds limit of %d", len(payload), limit)).ToJSON(), nil
			}
			return next(ctx, payload)
		}
	}
}
