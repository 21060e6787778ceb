package facemesh

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/facemesh/application/virtualizer"
	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/domain/errors"
	"github.com/reglet-dev/facemesh/hostfuncs"
	"github.com/reglet-dev/facemesh/internal/testutil"
	"github.com/reglet-dev/facemesh/wireformat"
)

type fixture struct {
	bridge *Bridge
	rt     *testutil.RecordingRuntime
	rec    *testutil.NotificationRecorder
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	rec := &testutil.NotificationRecorder{}
	logger, _ := testutil.NewLogger()
	base := []Option{
		WithLogger(logger),
		WithExecutor(testutil.InlineExecutor{}),
		WithHandler(rec.Handle),
	}
	b, err := New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close(context.Background()) })
	return &fixture{bridge: b, rt: &testutil.RecordingRuntime{}, rec: rec}
}

// start drives the bridge through attach, initialize and ready.
func (f *fixture) start(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.bridge.AttachRuntime(ctx, f.rt))
	require.NoError(t, f.bridge.Initialize(ctx))
	f.bridge.Ready(ctx)
	f.rt.Reset()
	f.rec.Reset()
}

// frame builds a report_result payload giving every key the same point.
func frame(t *testing.T, keys []entities.LandmarkKey, x, y, z float64) []byte {
	t.Helper()
	m := make(map[string]map[string]float64, len(keys))
	for _, k := range keys {
		m[string(k)] = map[string]float64{"x": x, "y": y, "z": z}
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	return data
}

func TestBridge_StartupScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	assert.Equal(t, entities.StateUninitialized, f.bridge.State())

	require.NoError(t, f.bridge.AttachRuntime(ctx, f.rt))
	assert.Equal(t, 1, f.rt.Loads())
	testutil.AssertCommands(t, f.rt)

	require.NoError(t, f.bridge.Initialize(ctx))
	assert.Equal(t, entities.StateReady, f.bridge.State())
	testutil.AssertCommands(t, f.rt)

	f.bridge.Ready(ctx)
	assert.Equal(t, entities.StateEnabled, f.bridge.State())
	testutil.AssertCommands(t, f.rt, entities.StartVideo(), entities.SetCameraFacingMode(true))
	testutil.AssertNotifications(t, f.rec, entities.Notification{Kind: entities.ModelReady})
}

func TestBridge_ModelReadyBeforeStartupCommands(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sentAtReady := -1
	f.bridge.SetHandler(func(n entities.Notification) {
		if n.Kind == entities.ModelReady {
			sentAtReady = len(f.rt.Commands())
		}
	})

	require.NoError(t, f.bridge.AttachRuntime(ctx, f.rt))
	require.NoError(t, f.bridge.Initialize(ctx))
	f.bridge.Ready(ctx)

	assert.Equal(t, 0, sentAtReady)
	testutil.AssertCommands(t, f.rt, entities.StartVideo(), entities.SetCameraFacingMode(true))
}

func TestBridge_PartialPropertiesKeepDefaultViewport(t *testing.T) {
	f := newFixture(t, WithProperties(entities.Properties{UseCamera: "Back"}))
	f.start(t)

	assert.Equal(t, entities.DefaultViewportWidth, f.bridge.Width())
	assert.Equal(t, entities.DefaultViewportHeight, f.bridge.Height())

	f.bridge.ReportResult(context.Background(), frame(t, entities.AllLandmarkKeys(), 100, 120, -5))
	assert.Equal(t, []float64{100, 100, -5}, f.bridge.Forehead())
}

func TestBridge_InitializeWithoutRuntime(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.bridge.Initialize(context.Background()))
	assert.Equal(t, entities.StateUninitialized, f.bridge.State())
}

func TestBridge_DisabledStart(t *testing.T) {
	ctx := context.Background()
	disabled := false
	f := newFixture(t, WithProperties(entities.Properties{Enabled: &disabled, UseCamera: "Back"}))

	require.NoError(t, f.bridge.AttachRuntime(ctx, f.rt))
	require.NoError(t, f.bridge.Initialize(ctx))
	f.bridge.Ready(ctx)

	assert.Equal(t, entities.StateDisabled, f.bridge.State())
	testutil.AssertCommands(t, f.rt)

	require.NoError(t, f.bridge.SetEnabled(ctx, true))
	assert.Equal(t, entities.StateEnabled, f.bridge.State())
	testutil.AssertCommands(t, f.rt, entities.StartVideo())
	assert.Equal(t, "Back", f.bridge.UseCamera())
	assert.Equal(t, entities.DefaultViewport(), f.bridge.Properties().Viewport())

	f.bridge.ReportResult(ctx, frame(t, entities.AllLandmarkKeys(), 240, 320, 2))
	assert.Equal(t, []float64{240, 300, 2}, f.bridge.Chin())
}

func TestBridge_FrameIngestion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.start(t)

	for _, k := range entities.AllLandmarkKeys() {
		assert.Equal(t, []float64{}, f.bridge.Landmark(k), "key %s before first frame", k)
	}

	require.NoError(t, f.bridge.SetWidth(960))
	require.NoError(t, f.bridge.SetHeight(1240))

	f.bridge.ReportResult(ctx, frame(t, entities.AllLandmarkKeys(), 100, 120, -5))

	want := []float64{200, 200, -5}
	assert.Equal(t, want, f.bridge.Forehead())
	assert.Equal(t, want, f.bridge.Chin())
	assert.Equal(t, want, f.bridge.LeftCheek())
	assert.Equal(t, want, f.bridge.RightCheek())
	assert.Equal(t, want, f.bridge.LeftEyeInnerCorner())
	assert.Equal(t, want, f.bridge.RightEyeInnerCorner())
	assert.Equal(t, want, f.bridge.LeftEyeTop())
	assert.Equal(t, want, f.bridge.LeftEyeBottom())
	assert.Equal(t, want, f.bridge.RightEyeTop())
	assert.Equal(t, want, f.bridge.RightEyeBottom())
	assert.Equal(t, want, f.bridge.MouthTop())
	assert.Equal(t, want, f.bridge.MouthBottom())
	assert.Len(t, f.bridge.Landmarks(), 12)

	testutil.AssertNotifications(t, f.rec, entities.Notification{Kind: entities.FaceUpdated})
}

func TestBridge_DefaultViewportAppliesOnlyOffset(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	f.bridge.ReportResult(context.Background(), frame(t, entities.AllLandmarkKeys(), 240, 20, 1.5))
	assert.Equal(t, []float64{240, 0, 1.5}, f.bridge.Chin())
}

func TestBridge_MalformedFrame(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.start(t)

	f.bridge.ReportResult(ctx, frame(t, entities.AllLandmarkKeys(), 1, 21, 3))
	before := f.bridge.Landmarks()
	f.rec.Reset()

	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `{"forehead": {"x": 1`},
		{name: "missing key", payload: `{"forehead": {"x": 9, "y": 9, "z": 9}}`},
		{name: "non numeric", payload: `{"forehead": {"x": "a"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.rec.Reset()
			f.bridge.ReportResult(ctx, []byte(tt.payload))

			notes := f.rec.Notifications()
			require.Len(t, notes, 1)
			assert.Equal(t, entities.Error, notes[0].Kind)
			assert.Equal(t, entities.ErrorCodeJSONParseFailed, notes[0].Code)
			assert.NotEmpty(t, notes[0].Message)
			assert.Equal(t, before, f.bridge.Landmarks())
		})
	}
}

func TestBridge_ReducedKeySet(t *testing.T) {
	f := newFixture(t, WithKeys(entities.BasicLandmarkKeys()...))
	f.start(t)

	f.bridge.ReportResult(context.Background(), frame(t, entities.BasicLandmarkKeys(), 480, 640, 0))

	assert.Equal(t, []float64{480, 620, 0}, f.bridge.LeftEyeInnerCorner())
	assert.Equal(t, []float64{}, f.bridge.MouthTop())
	assert.Len(t, f.bridge.Landmarks(), 5)
	assert.Equal(t, 1, f.rec.Count(entities.FaceUpdated))
}

func TestBridge_InvalidCamera(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	err := f.bridge.SetUseCamera(context.Background(), "Sideways")

	var camErr *errors.InvalidCameraModeError
	require.True(t, stdErrors.As(err, &camErr))
	assert.Equal(t, "Sideways", camErr.Value)
	assert.Equal(t, "Front", f.bridge.UseCamera())
	testutil.AssertCommands(t, f.rt)
	testutil.AssertNotifications(t, f.rec, entities.NewErrorNotification(102, err.Error()))
}

func TestBridge_SwitchCamera(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	require.NoError(t, f.bridge.SetUseCamera(context.Background(), "Back"))
	assert.Equal(t, "Back", f.bridge.UseCamera())
	testutil.AssertCommands(t, f.rt, entities.SetCameraFacingMode(false))
}

func TestBridge_PauseResume(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.start(t)

	require.NoError(t, f.bridge.Pause(ctx))
	require.NoError(t, f.bridge.Resume(ctx))

	testutil.AssertCommands(t, f.rt, entities.StopVideo(), entities.StartVideo())
	assert.Equal(t, entities.StateEnabled, f.bridge.State())
}

func TestBridge_EnableToggle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.start(t)

	require.NoError(t, f.bridge.SetEnabled(ctx, false))
	assert.False(t, f.bridge.Enabled())
	assert.Equal(t, entities.StateDisabled, f.bridge.State())

	// Resume only restarts video for a bridge that was enabled.
	require.NoError(t, f.bridge.Resume(ctx))
	testutil.AssertCommands(t, f.rt, entities.StopVideo())
}

func TestBridge_Teardown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.start(t)

	require.NoError(t, f.bridge.Stop(ctx))
	require.NoError(t, f.bridge.Delete(ctx))

	assert.Equal(t, entities.StateTornDown, f.bridge.State())
	testutil.AssertCommands(t, f.rt, entities.Teardown())

	// Late callbacks are dropped.
	f.bridge.Ready(ctx)
	f.bridge.ReportResult(ctx, frame(t, entities.AllLandmarkKeys(), 1, 2, 3))
	f.bridge.ReportImage(ctx, "data:image/png;base64,AAAA")
	f.bridge.ReportError(ctx, 401, "late")
	testutil.AssertNotifications(t, f.rec)
	assert.Equal(t, []float64{}, f.bridge.Forehead())
	assert.Empty(t, f.bridge.BackgroundImage())

	var notAttached *errors.RuntimeNotAttachedError
	assert.True(t, stdErrors.As(f.bridge.SetEnabled(ctx, false), &notAttached))
	assert.True(t, stdErrors.As(f.bridge.SetUseCamera(ctx, "Back"), &notAttached))
	assert.ErrorIs(t, f.bridge.AttachRuntime(ctx, &testutil.RecordingRuntime{}), errors.ErrTornDown)
}

func TestBridge_TeardownBeforeReady(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.bridge.AttachRuntime(ctx, f.rt))

	require.NoError(t, f.bridge.Delete(ctx))

	assert.Equal(t, entities.StateTornDown, f.bridge.State())
	testutil.AssertCommands(t, f.rt)
}

func TestBridge_ReportImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.start(t)

	f.bridge.ReportImage(ctx, "data:image/jpeg;base64,QUJD")
	assert.Equal(t, "QUJD", f.bridge.BackgroundImage())

	f.bridge.ReportImage(ctx, "RAW")
	assert.Equal(t, "RAW", f.bridge.BackgroundImage())

	testutil.AssertNotifications(t, f.rec,
		entities.Notification{Kind: entities.VideoUpdated},
		entities.Notification{Kind: entities.VideoUpdated},
	)
}

func TestBridge_ReportError(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	f.bridge.ReportError(context.Background(), entities.ErrorCodeModelLoad, "model failed to load")

	testutil.AssertNotifications(t, f.rec, entities.NewErrorNotification(401, "model failed to load"))
}

func TestBridge_Viewport(t *testing.T) {
	f := newFixture(t, WithProperties(entities.Properties{Width: entities.Ptr(100), Height: entities.Ptr(200)}))

	assert.Equal(t, 100, f.bridge.Width())
	assert.Equal(t, 200, f.bridge.Height())

	var cfgErr *errors.ConfigError
	require.True(t, stdErrors.As(f.bridge.SetWidth(-1), &cfgErr))
	assert.Equal(t, "width", cfgErr.Field)
	require.True(t, stdErrors.As(f.bridge.SetHeight(-1), &cfgErr))
	assert.Equal(t, "height", cfgErr.Field)
	assert.Equal(t, 100, f.bridge.Width())

	require.NoError(t, f.bridge.SetWidth(0))
	props := f.bridge.Properties()
	assert.Equal(t, entities.ViewportConfig{Width: 0, Height: 200}, props.Viewport())
	assert.True(t, props.IsEnabled())
	assert.Equal(t, "Front", props.UseCamera)
}

func TestNew_InvalidProperties(t *testing.T) {
	tests := []struct {
		name  string
		props entities.Properties
		field string
	}{
		{name: "negative width", props: entities.Properties{Width: entities.Ptr(-1)}, field: "width"},
		{name: "negative height", props: entities.Properties{Height: entities.Ptr(-4)}, field: "height"},
		{name: "bad camera", props: entities.Properties{UseCamera: "Side"}, field: "use_camera"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(WithProperties(tt.props))

			var cfgErr *errors.ConfigError
			require.True(t, stdErrors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestNew_DuplicateHostFunction(t *testing.T) {
	_, err := New(WithHostFunctions(hostfuncs.WithByteHandler(hostfuncs.FuncReady, func(context.Context, []byte) ([]byte, error) {
		return nil, nil
	})))
	assert.ErrorContains(t, err, "duplicate handler name")
}

func TestBridge_Registry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithAssetStore(testutil.MapAssetStore{"model.json": `{"weights":[]}`}))
	f.start(t)
	reg := f.bridge.Registry()

	assert.Equal(t, []string{"error", "fetch_asset", "log_message", "ready", "report_image", "report_result"}, reg.Names())

	t.Run("report_result", func(t *testing.T) {
		f.rec.Reset()
		resp, err := reg.Invoke(ctx, hostfuncs.FuncReportResult, frame(t, entities.AllLandmarkKeys(), 0, 20, 0))
		require.NoError(t, err)
		assert.Empty(t, resp)
		assert.Equal(t, []float64{0, 0, 0}, f.bridge.Forehead())
		assert.Equal(t, 1, f.rec.Count(entities.FaceUpdated))
	})

	t.Run("error", func(t *testing.T) {
		f.rec.Reset()
		_, err := reg.Invoke(ctx, hostfuncs.FuncError, []byte(`{"code":400,"message":"no camera"}`))
		require.NoError(t, err)
		testutil.AssertNotifications(t, f.rec, entities.NewErrorNotification(400, "no camera"))
	})

	t.Run("fetch_asset", func(t *testing.T) {
		req, err := json.Marshal(wireformat.FetchAssetRequestWire{URL: virtualizer.ModelBaseURL + "model.json"})
		require.NoError(t, err)
		resp, err := reg.Invoke(ctx, hostfuncs.FuncFetchAsset, req)
		require.NoError(t, err)

		var got wireformat.FetchAssetResponseWire
		require.NoError(t, json.Unmarshal(resp, &got))
		assert.True(t, got.Found)
		assert.Equal(t, "model.json", got.Name)
		assert.Equal(t, entities.ContentTypeJSON, got.ContentType)
		assert.Equal(t, `{"weights":[]}`, string(got.Body))
		assert.Equal(t, "*", got.Headers["Access-Control-Allow-Origin"])
	})

	t.Run("fetch_asset pass-through", func(t *testing.T) {
		resp, err := reg.Invoke(ctx, hostfuncs.FuncFetchAsset, []byte(`{"url":"https://example.com/app.js"}`))
		require.NoError(t, err)
		testutil.AssertJSONEqual(t, `{"found":false}`, string(resp))
	})
}

func TestBridge_NoAssetStore(t *testing.T) {
	f := newFixture(t)

	_, ok := f.bridge.Resolve(context.Background(), virtualizer.ModelBaseURL+"model.json")
	assert.False(t, ok)
}

func TestBridge_ResponseHeadersDisabled(t *testing.T) {
	f := newFixture(t,
		WithAssetStore(testutil.MapAssetStore{"group1-shard1of1.bin": "\x00\x01"}),
		WithResponseHeaders(false),
	)

	resp, ok := f.bridge.Resolve(context.Background(), virtualizer.ModelBaseURL+"group1-shard1of1.bin")
	require.True(t, ok)
	defer func() { _ = resp.Body.Close() }()
	assert.Nil(t, resp.Headers)
	assert.Equal(t, entities.ContentTypeBinary, resp.ContentType)
	assert.Equal(t, entities.EncodingBinary, resp.Encoding)
	assert.Equal(t, 200, resp.StatusCode)
}
