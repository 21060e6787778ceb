package hostfuncs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/wireformat"
)

// Host function names called by the runtime script.
const (
	FuncReady        = "ready"
	FuncReportImage  = "report_image"
	FuncReportResult = "report_result"
	FuncError        = "error"
	FuncFetchAsset   = "fetch_asset"
	FuncLogMessage   = "log_message"
)

// HostFuncBundle is a pre-configured set of related host functions.
// Bundles allow registering multiple handlers at once for common use cases.
type HostFuncBundle interface {
	// Handlers returns a map of handler names to ByteHandler functions.
	Handlers() map[string]ByteHandler
}

// staticBundle implements HostFuncBundle with a fixed set of handlers.
type staticBundle struct {
	handlers map[string]ByteHandler
}

func (b *staticBundle) Handlers() map[string]ByteHandler {
	return b.handlers
}

// NewBundle creates a bundle from a fixed handler map.
func NewBundle(handlers map[string]ByteHandler) HostFuncBundle {
	return &staticBundle{handlers: handlers}
}

// Callbacks receives the runtime's inbound calls.
type Callbacks interface {
	Ready(ctx context.Context)
	ReportImage(ctx context.Context, dataURL string)
	ReportResult(ctx context.Context, payload []byte)
	ReportError(ctx context.Context, code int, message string)
}

// AssetResolver answers virtualized load requests.
type AssetResolver interface {
	Resolve(ctx context.Context, rawURL string) (*entities.AssetResponse, bool)
}

// CallbackBundle returns the inbound callback host functions:
// ready, report_image, report_result, error.
//
// ready ignores its payload. report_image takes the raw data URL and
// report_result the raw frame JSON. error takes a wireformat.ErrorWire.
// All of them return an empty response.
func CallbackBundle(cb Callbacks) HostFuncBundle {
	return &staticBundle{
		handlers: map[string]ByteHandler{
			FuncReady: func(ctx context.Context, _ []byte) ([]byte, error) {
				cb.Ready(ctx)
				return nil, nil
			},
			FuncReportImage: func(ctx context.Context, payload []byte) ([]byte, error) {
				cb.ReportImage(ctx, string(payload))
				return nil, nil
			},
			FuncReportResult: func(ctx context.Context, payload []byte) ([]byte, error) {
				cb.ReportResult(ctx, payload)
				return nil, nil
			},
			FuncError: func(ctx context.Context, payload []byte) ([]byte, error) {
				var req wireformat.ErrorWire
				if err := json.Unmarshal(payload, &req); err != nil {
					return NewValidationError(fmt.Sprintf("invalid error payload: %v", err)).ToJSON(), nil
				}
				cb.ReportError(ctx, req.Code, req.Message)
				return nil, nil
			},
		},
	}
}

// AssetBundle returns the fetch_asset host function. Bodies larger than
// maxSize are cut and flagged as truncated; maxSize <= 0 selects
// DefaultMaxAssetSize.
func AssetBundle(resolver AssetResolver, maxSize int) HostFuncBundle {
	if maxSize <= 0 {
		maxSize = DefaultMaxAssetSize
	}
	return &staticBundle{
		handlers: map[string]ByteHandler{
			FuncFetchAsset: NewJSONHandler(func(ctx context.Context, req wireformat.FetchAssetRequestWire) wireformat.FetchAssetResponseWire {
				return FetchAsset(ctx, resolver, req, maxSize)
			}),
		},
	}
}

// FetchAsset resolves req and reads the asset body into the response.
func FetchAsset(ctx context.Context, resolver AssetResolver, req wireformat.FetchAssetRequestWire, maxSize int) wireformat.FetchAssetResponseWire {
	asset, ok := resolver.Resolve(ctx, req.URL)
	if !ok {
		return wireformat.FetchAssetResponseWire{Found: false}
	}
	defer func() { _ = asset.Body.Close() }()

	body, truncated, err := readAssetBody(asset.Body, maxSize)
	if err != nil {
		return wireformat.FetchAssetResponseWire{
			Found: false,
			Error: wireformat.ErrorToWire(fmt.Errorf("failed to read asset %s: %w", asset.Name, err)),
		}
	}

	return wireformat.FetchAssetResponseWire{
		Found:       true,
		Name:        asset.Name,
		Headers:     asset.Headers,
		ContentType: asset.ContentType,
		Encoding:    asset.Encoding,
		StatusCode:  asset.StatusCode,
		Reason:      asset.Reason,
		Body:        body,
		Truncated:   truncated,
	}
}

// compositeBundle combines multiple bundles into one.
type compositeBundle struct {
	bundles []HostFuncBundle
}

func (b *compositeBundle) Handlers() map[string]ByteHandler {
	result := make(map[string]ByteHandler)
	for _, bundle := range b.bundles {
		for name, handler := range bundle.Handlers() {
			result[name] = handler
		}
	}
	return result
}

// Combine returns a bundle containing the handlers of every given bundle.
// Later bundles override earlier ones on name clashes.
func Combine(bundles ...HostFuncBundle) HostFuncBundle {
	return &compositeBundle{bundles: bundles}
}

// WithBundle registers all handlers from a bundle.
func WithBundle(bundle HostFuncBundle) RegistryOption {
	return func(b *registryBuilder) {
		for name, handler := range bundle.Handlers() {
			if err := b.addHandler(name, handler); err != nil {
				b.errors = append(b.errors, err)
			}
		}
	}
}

// WithHandler registers a typed host function with automatic JSON handling.
// The handler will be wrapped with NewJSONHandler for JSON serialization.
func WithHandler[Req any, Resp any](name string, fn HostFunc[Req, Resp]) RegistryOption {
	return func(b *registryBuilder) {
		handler := NewJSONHandler(fn)
		if err := b.addHandler(name, handler); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}
