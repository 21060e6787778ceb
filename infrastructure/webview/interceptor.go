package webview

import (
	"context"

	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/hostfuncs"
)

// Interceptor answers a web view's request interception callback from the
// bundled assets.
type Interceptor struct {
	ctx      context.Context
	resolver hostfuncs.AssetResolver
}

// NewInterceptor creates an Interceptor. ctx is used for every lookup.
func NewInterceptor(ctx context.Context, resolver hostfuncs.AssetResolver) *Interceptor {
	return &Interceptor{ctx: ctx, resolver: resolver}
}

// ShouldInterceptRequest returns the local response for url, or nil to let
// the view load it normally. The caller owns the returned body.
func (i *Interceptor) ShouldInterceptRequest(url string) *entities.AssetResponse {
	resp, ok := i.resolver.Resolve(i.ctx, url)
	if !ok {
		return nil
	}
	return resp
}
