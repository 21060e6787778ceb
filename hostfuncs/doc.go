// Package hostfuncs provides the named host functions a script runtime calls
// into the bridge: ready, report_image, report_result, error, fetch_asset and
// log_message. Handlers exchange raw bytes and have no dependency on a
// particular runtime, so the same registry serves wasm runtimes and web views.
package hostfuncs
