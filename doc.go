// Package facemesh embeds a browser-hosted facial landmark model in a native
// host and exposes its output as typed, concurrently readable data.
//
// A Bridge ties together the parts of the system:
//
//   - a resource virtualizer that answers the model's weight downloads from
//     bundled assets
//   - a landmark store fed by the runtime's JSON frames, with coordinates
//     scaled into the host's viewport
//   - a lifecycle state machine that turns host events into runtime commands
//   - a notification dispatcher that reports ModelReady, FaceUpdated,
//     VideoUpdated and Error on the host's callback context
//
// The script runtime is reached through ports.RuntimeChannel. The host
// package runs it as a wasm guest on wazero; infrastructure/webview drives a
// platform web view. Either way the runtime calls back into the bridge
// through the host functions in Registry.
//
// # Basic Usage
//
//	bridge, err := facemesh.New(
//	    facemesh.WithAssetStore(assets.NewDirStore("./assets")),
//	    facemesh.WithHandler(func(n entities.Notification) {
//	        if n.Kind == entities.FaceUpdated {
//	            fmt.Println(bridge.Forehead())
//	        }
//	    }),
//	)
//	if err != nil {
//	    return err
//	}
//	defer bridge.Close(ctx)
//
//	executor, err := host.NewExecutor(ctx, host.WithHostFunctions(bridge.Registry()))
//	...
//	instance, err := executor.NewInstance(ctx, guestWasm)
//	...
//	if err := bridge.AttachRuntime(ctx, instance); err != nil {
//	    return err
//	}
//	return bridge.Initialize(ctx)
package facemesh
