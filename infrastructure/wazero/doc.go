// Package wazero exposes a hostfuncs.HandlerRegistry to guest scripts running
// in the wazero WebAssembly runtime.
//
// Every registry handler becomes an export of a host module (default
// "facemesh_host") with the signature (i64) -> i64. Both the argument and the
// result use the packed pointer+length format: the upper 32 bits hold the
// offset into guest memory, the lower 32 bits the length. Responses are
// written into memory obtained from the guest's "allocate" export; an empty
// response is returned as 0 without allocating.
//
// # Basic Usage
//
//	registry, err := hostfuncs.NewRegistry(
//	    hostfuncs.WithBundle(hostfuncs.CallbackBundle(bridge)),
//	)
//	if err != nil {
//	    return err
//	}
//
//	runtime := wazero.NewRuntime(ctx)
//	err = adapter.RegisterWithRuntime(ctx, runtime, registry,
//	    adapter.WithLogger(logger),
//	)
//
// # Custom Handlers
//
// Functions that do not follow the packed request/response pattern can be
// added with WithCustomHandler.
package wazero
