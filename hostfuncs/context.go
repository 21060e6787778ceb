package hostfuncs

import (
	"context"
)

// HostContext is the context handed to handlers and middleware. It carries
// the name of the invoked host function.
type HostContext interface {
	context.Context

	// FunctionName returns the name of the host function being invoked.
	FunctionName() string
}

type hostContext struct {
	context.Context
	funcName string
}

func (c *hostContext) FunctionName() string {
	return c.funcName
}

// NewHostContext wraps ctx for an invocation of funcName.
func NewHostContext(ctx context.Context, funcName string) HostContext {
	return &hostContext{Context: ctx, funcName: funcName}
}

// HostContextFrom returns ctx unchanged if it already is a HostContext, and
// wraps it otherwise.
func HostContextFrom(ctx context.Context, funcName string) HostContext {
	if hc, ok := ctx.(HostContext); ok {
		return hc
	}
	return NewHostContext(ctx, funcName)
}
