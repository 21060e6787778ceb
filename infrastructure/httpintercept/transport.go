// Package httpintercept virtualizes outbound HTTP requests through an
// http.RoundTripper, for runtimes that load assets with a Go HTTP client.
package httpintercept

import (
	"context"
	"fmt"
	"net/http"

	"github.com/reglet-dev/facemesh/domain/entities"
)

// Resolver answers virtualized requests. *virtualizer.Virtualizer implements it.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (*entities.AssetResponse, bool)
}

// Transport serves GET and HEAD requests matched by the resolver locally and
// passes every other request to Base.
type Transport struct {
	// Base handles requests that are not virtualized.
	// http.DefaultTransport is used when nil.
	Base     http.RoundTripper
	Resolver Resolver
}

// NewTransport creates a Transport falling through to base.
func NewTransport(resolver Resolver, base http.RoundTripper) *Transport {
	return &Transport{Base: base, Resolver: resolver}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		if asset, ok := t.Resolver.Resolve(req.Context(), req.URL.String()); ok {
			return toResponse(req, asset), nil
		}
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

func toResponse(req *http.Request, asset *entities.AssetResponse) *http.Response {
	header := make(http.Header, len(asset.Headers)+1)
	for k, v := range asset.Headers {
		header.Set(k, v)
	}
	contentType := asset.ContentType
	if asset.Encoding == entities.EncodingUTF8 {
		contentType += "; charset=utf-8"
	}
	header.Set("Content-Type", contentType)

	body := asset.Body
	if req.Method == http.MethodHead {
		_ = body.Close()
		body = http.NoBody
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", asset.StatusCode, asset.Reason),
		StatusCode:    asset.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          body,
		ContentLength: -1,
		Request:       req,
	}
}
