// Package webview connects the bridge to a platform web view running the
// bundled page and model script.
//
// The web view itself stays behind two small interfaces: ScriptEvaluator for
// loading the entry page and evaluating command scripts, and MessagePoster
// for views that take JSON messages instead. The package supplies the three
// hooks a web view host installs:
//
//   - Channel, the ports.RuntimeChannel used by the lifecycle controller
//   - Interface, the object exposed to page script (ready, reportImage,
//     reportResult, error) which routes calls through the hostfuncs registry
//   - Interceptor, for the view's request interception callback
//
// Console messages from the page can be fed to Console.
package webview
