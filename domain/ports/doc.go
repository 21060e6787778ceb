// Package ports defines interfaces for the bridge's external collaborators.
// These ports enable dependency inversion - the application services depend on
// abstractions, and infrastructure adapters (web views, wasm runtimes, asset
// stores) implement these interfaces.
package ports
