// Package entities provides the core domain types of the facemesh bridge.
// These are plain values shared by the application services and adapters;
// they carry no behavior that depends on a particular runtime or host.
package entities
