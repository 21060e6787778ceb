package facemesh

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync/atomic"

	"github.com/reglet-dev/facemesh/application/landmarks"
	"github.com/reglet-dev/facemesh/application/lifecycle"
	"github.com/reglet-dev/facemesh/application/notify"
	"github.com/reglet-dev/facemesh/application/virtualizer"
	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/domain/errors"
	"github.com/reglet-dev/facemesh/domain/ports"
	"github.com/reglet-dev/facemesh/hostfuncs"
	"github.com/reglet-dev/facemesh/log"
)

var _ hostfuncs.Callbacks = (*Bridge)(nil)

// Bridge is the host-facing facade over one embedded model runtime.
//
// Read accessors never block on the runtime and may be called from any
// goroutine. Inbound callbacks (Ready, ReportImage, ReportResult,
// ReportError) are normally reached through the host functions in Registry.
type Bridge struct {
	store       *landmarks.Store
	controller  *lifecycle.Controller
	dispatcher  *notify.Dispatcher
	virtualizer *virtualizer.Virtualizer
	registry    *hostfuncs.HandlerRegistry
	logger      *slog.Logger
	background  atomic.Pointer[entities.BackgroundFrame]
}

// New creates a Bridge in the Uninitialized state.
func New(opts ...Option) (*Bridge, error) {
	cfg := defaultBridgeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	if err := ValidateProperties(cfg.properties); err != nil {
		return nil, err
	}
	camera := entities.CameraFront
	if cfg.properties.UseCamera != "" {
		camera, _ = entities.ParseCameraMode(cfg.properties.UseCamera)
	}

	b := &Bridge{logger: cfg.logger}

	notifyOpts := []notify.Option{notify.WithLogger(cfg.logger), notify.WithHandler(cfg.handler)}
	if cfg.executor != nil {
		notifyOpts = append(notifyOpts, notify.WithExecutor(cfg.executor))
	}
	b.dispatcher = notify.New(notifyOpts...)

	storeOpts := []landmarks.Option{
		landmarks.WithKeys(cfg.keys...),
		landmarks.WithViewport(cfg.properties.Viewport()),
	}
	if cfg.normalizer != nil {
		storeOpts = append(storeOpts, landmarks.WithNormalizer(*cfg.normalizer))
	}
	b.store = landmarks.NewStore(storeOpts...)

	b.controller = lifecycle.New(b.dispatcher,
		lifecycle.WithLogger(cfg.logger),
		lifecycle.WithEnabled(cfg.properties.IsEnabled()),
		lifecycle.WithCamera(camera),
	)

	assets := cfg.assets
	if assets == nil {
		assets = emptyAssetStore{}
	}
	virtOpts := []virtualizer.Option{
		virtualizer.WithLogger(cfg.logger),
		virtualizer.WithResponseHeaders(cfg.responseHeaders),
	}
	for _, m := range cfg.mounts {
		virtOpts = append(virtOpts, virtualizer.WithMount(m.prefix, m.dir))
	}
	b.virtualizer = virtualizer.New(assets, virtOpts...)

	forwarder := log.NewForwarder(log.WithLogger(cfg.logger))
	registryOpts := []hostfuncs.RegistryOption{
		hostfuncs.WithMiddleware(
			hostfuncs.PanicRecoveryMiddleware(),
			hostfuncs.LoggingMiddleware(cfg.logger),
			hostfuncs.SizeLimitMiddleware(hostfuncs.DefaultMaxRequestSize),
		),
		hostfuncs.WithBundle(hostfuncs.CallbackBundle(b)),
		hostfuncs.WithBundle(hostfuncs.AssetBundle(b.virtualizer, cfg.maxAssetSize)),
		hostfuncs.WithBundle(forwarder.Bundle()),
	}
	registry, err := hostfuncs.NewRegistry(append(registryOpts, cfg.registryOpts...)...)
	if err != nil {
		b.dispatcher.Close()
		return nil, fmt.Errorf("failed to build host function registry: %w", err)
	}
	b.registry = registry

	return b, nil
}

// Registry returns the host functions a runtime adapter must expose.
func (b *Bridge) Registry() *hostfuncs.HandlerRegistry {
	return b.registry
}

// Virtualizer returns the bridge's resource virtualizer.
func (b *Bridge) Virtualizer() *virtualizer.Virtualizer {
	return b.virtualizer
}

// Resolve answers a runtime load request from the bundled assets. It
// returns false when the request must go to the network.
func (b *Bridge) Resolve(ctx context.Context, rawURL string) (*entities.AssetResponse, bool) {
	return b.virtualizer.Resolve(ctx, rawURL)
}

// SetHandler replaces the notification handler. A nil handler discards
// notifications.
func (b *Bridge) SetHandler(h notify.Handler) {
	b.dispatcher.SetHandler(h)
}

// State returns the lifecycle state.
func (b *Bridge) State() entities.LifecycleState {
	return b.controller.State()
}

// Lifecycle hooks.

// AttachRuntime hands the bridge its runtime and starts loading it.
func (b *Bridge) AttachRuntime(ctx context.Context, rt ports.RuntimeChannel) error {
	return b.controller.AttachRuntime(ctx, rt)
}

// Initialize makes the bridge usable once a runtime is attached.
func (b *Bridge) Initialize(ctx context.Context) error {
	return b.controller.Initialize(ctx)
}

// Pause stops video while the host is in the background.
func (b *Bridge) Pause(ctx context.Context) error {
	return b.controller.Pause(ctx)
}

// Resume restarts video if it was running before Pause.
func (b *Bridge) Resume(ctx context.Context) error {
	return b.controller.Resume(ctx)
}

// Stop tears the bridge down. It is equivalent to Delete.
func (b *Bridge) Stop(ctx context.Context) error {
	return b.controller.Teardown(ctx)
}

// Delete tears the bridge down. Later calls are no-ops.
func (b *Bridge) Delete(ctx context.Context) error {
	return b.controller.Teardown(ctx)
}

// Close tears the bridge down and stops notification delivery after
// flushing the notifications already raised.
func (b *Bridge) Close(ctx context.Context) error {
	err := b.controller.Teardown(ctx)
	b.dispatcher.Close()
	return err
}

// Flush waits until every notification raised so far has been delivered.
// It must not be called from a notification handler; spawn a goroutine if a
// handler needs to wait.
func (b *Bridge) Flush() {
	b.dispatcher.Flush()
}

// Configuration.

// Enabled reports whether the model should run.
func (b *Bridge) Enabled() bool {
	return b.controller.Enabled()
}

// SetEnabled starts or stops the model.
func (b *Bridge) SetEnabled(ctx context.Context, enabled bool) error {
	return b.controller.SetEnabled(ctx, enabled)
}

// UseCamera returns the selected camera, "Front" or "Back".
func (b *Bridge) UseCamera() string {
	return b.controller.Camera().String()
}

// SetUseCamera selects the camera. Anything other than "Front" or "Back"
// raises an Error notification with code 102 and is returned as
// *errors.InvalidCameraModeError.
func (b *Bridge) SetUseCamera(ctx context.Context, camera string) error {
	return b.controller.SetCamera(ctx, camera)
}

// Width returns the output viewport width.
func (b *Bridge) Width() int {
	return b.store.Viewport().Width
}

// SetWidth sets the output viewport width. It applies from the next frame.
func (b *Bridge) SetWidth(width int) error {
	if width < 0 {
		return &errors.ConfigError{Field: "width", Err: fmt.Errorf("must be at least 0, got %d", width)}
	}
	b.store.UpdateViewport(func(vp entities.ViewportConfig) entities.ViewportConfig {
		vp.Width = width
		return vp
	})
	return nil
}

// Height returns the output viewport height.
func (b *Bridge) Height() int {
	return b.store.Viewport().Height
}

// SetHeight sets the output viewport height. It applies from the next frame.
func (b *Bridge) SetHeight(height int) error {
	if height < 0 {
		return &errors.ConfigError{Field: "height", Err: fmt.Errorf("must be at least 0, got %d", height)}
	}
	b.store.UpdateViewport(func(vp entities.ViewportConfig) entities.ViewportConfig {
		vp.Height = height
		return vp
	})
	return nil
}

// Properties returns the current configuration.
func (b *Bridge) Properties() entities.Properties {
	enabled := b.Enabled()
	vp := b.store.Viewport()
	return entities.Properties{
		Enabled:   &enabled,
		UseCamera: b.UseCamera(),
		Width:     &vp.Width,
		Height:    &vp.Height,
	}
}

// Read surface.

// Landmark returns the latest [x, y, z] for key, or an empty slice before
// the first frame or for a key the bridge does not track.
func (b *Bridge) Landmark(key entities.LandmarkKey) []float64 {
	p, _ := b.store.Get(key)
	return p.Slice()
}

// Landmarks returns every tracked landmark. Keys are read one at a time, so
// the result may mix two frames.
func (b *Bridge) Landmarks() map[entities.LandmarkKey][]float64 {
	snap := b.store.Snapshot()
	out := make(map[entities.LandmarkKey][]float64, len(snap))
	for k, p := range snap {
		out[k] = p.Slice()
	}
	return out
}

// Forehead returns the forehead landmark.
func (b *Bridge) Forehead() []float64 { return b.Landmark(entities.Forehead) }

// Chin returns the chin landmark.
func (b *Bridge) Chin() []float64 { return b.Landmark(entities.Chin) }

// LeftCheek returns the left cheek landmark.
func (b *Bridge) LeftCheek() []float64 { return b.Landmark(entities.LeftCheek) }

// RightCheek returns the right cheek landmark.
func (b *Bridge) RightCheek() []float64 { return b.Landmark(entities.RightCheek) }

// LeftEyeInnerCorner returns the inner corner of the left eye landmark.
func (b *Bridge) LeftEyeInnerCorner() []float64 { return b.Landmark(entities.LeftEyeInnerCorner) }

// RightEyeInnerCorner returns the inner corner of the right eye landmark.
func (b *Bridge) RightEyeInnerCorner() []float64 { return b.Landmark(entities.RightEyeInnerCorner) }

// LeftEyeTop returns the top of the left eye landmark.
func (b *Bridge) LeftEyeTop() []float64 { return b.Landmark(entities.LeftEyeTop) }

// LeftEyeBottom returns the bottom of the left eye landmark.
func (b *Bridge) LeftEyeBottom() []float64 { return b.Landmark(entities.LeftEyeBottom) }

// RightEyeTop returns the top of the right eye landmark.
func (b *Bridge) RightEyeTop() []float64 { return b.Landmark(entities.RightEyeTop) }

// RightEyeBottom returns the bottom of the right eye landmark.
func (b *Bridge) RightEyeBottom() []float64 { return b.Landmark(entities.RightEyeBottom) }

// MouthTop returns the top of the upper lip landmark.
func (b *Bridge) MouthTop() []float64 { return b.Landmark(entities.MouthTop) }

// MouthBottom returns the bottom of the lower lip landmark.
func (b *Bridge) MouthBottom() []float64 { return b.Landmark(entities.MouthBottom) }

// BackgroundImage returns the latest camera frame as base64 text, or "" if
// none has been reported.
func (b *Bridge) BackgroundImage() string {
	if f := b.background.Load(); f != nil {
		return string(*f)
	}
	return ""
}

// Inbound callbacks. After teardown they are dropped.

// Ready handles the runtime's model-ready signal.
func (b *Bridge) Ready(ctx context.Context) {
	if !b.accepting(ctx, hostfuncs.FuncReady) {
		return
	}
	b.controller.Ready(ctx)
}

// ReportImage stores the frame carried by dataURL and raises VideoUpdated.
func (b *Bridge) ReportImage(ctx context.Context, dataURL string) {
	if !b.accepting(ctx, hostfuncs.FuncReportImage) {
		return
	}
	frame := entities.FrameFromDataURL(dataURL)
	b.background.Store(&frame)
	b.dispatcher.VideoUpdated()
}

// ReportResult ingests a landmark frame and raises FaceUpdated. A frame that
// fails to parse changes nothing and raises Error with code 101.
func (b *Bridge) ReportResult(ctx context.Context, payload []byte) {
	if !b.accepting(ctx, hostfuncs.FuncReportResult) {
		return
	}
	if err := b.store.Ingest(payload); err != nil {
		code := errors.CodeOf(err)
		if code == 0 {
			code = entities.ErrorCodeJSONParseFailed
		}
		b.logger.WarnContext(ctx, "landmark frame rejected", "error", err)
		b.dispatcher.Error(code, err.Error())
		return
	}
	b.dispatcher.FaceUpdated()
}

// ReportError passes a runtime error through to the host unchanged.
func (b *Bridge) ReportError(ctx context.Context, code int, message string) {
	if !b.accepting(ctx, hostfuncs.FuncError) {
		return
	}
	b.dispatcher.Error(code, message)
}

func (b *Bridge) accepting(ctx context.Context, callback string) bool {
	if b.controller.Accepting() {
		return true
	}
	b.logger.DebugContext(ctx, "callback dropped after teardown", "callback", callback)
	return false
}

type emptyAssetStore struct{}

func (emptyAssetStore) Open(name string) (io.ReadCloser, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
