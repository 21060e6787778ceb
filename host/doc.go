// Package host runs a compiled facemesh guest script on the wazero runtime.
//
// An Executor owns one wazero runtime with WASI and the host function registry
// installed. Each Instance it creates is a ports.RuntimeChannel: Load
// instantiates the guest and calls its "start" export, and Send invokes the
// command exports (start_video, stop_video, set_camera_facing_mode, teardown).
// All guest calls for an instance run in order on the instance's own
// goroutine, so host functions the guest calls back into may freely use the
// bridge without re-entering a call in progress.
package host
