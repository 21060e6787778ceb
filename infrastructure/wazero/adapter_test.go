package wazero

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/wippyai/wasm-runtime/wat"

	"github.com/reglet-dev/facemesh/hostfuncs"
	"github.com/reglet-dev/facemesh/internal/testutil"
)

// echoGuest forwards its argument to the host's echo/empty/fail functions.
// "hello" sits at offset 16; allocate is a bump allocator starting at 1024.
const echoGuest = `(module
  (import "facemesh_host" "echo" (func $echo (param i64) (result i64)))
  (import "facemesh_host" "empty" (func $empty (param i64) (result i64)))
  (import "facemesh_host" "fail" (func $fail (param i64) (result i64)))
  (memory (export "memory") 1)
  (global $heap (mut i32) (i32.const 1024))
  (data (i32.const 16) "hello")
  (func (export "allocate") (param $n i32) (result i32)
    (local $p i32)
    (local.set $p (global.get $heap))
    (global.set $heap (i32.add (global.get $heap) (local.get $n)))
    (local.get $p))
  (func (export "call_echo") (param $packed i64) (result i64)
    (call $echo (local.get $packed)))
  (func (export "call_empty") (param $packed i64) (result i64)
    (call $empty (local.get $packed)))
  (func (export "call_fail") (param $packed i64) (result i64)
    (call $fail (local.get $packed))))`

func newEchoRegistry(t *testing.T) *hostfuncs.HandlerRegistry {
	t.Helper()
	registry, err := hostfuncs.NewRegistry(
		hostfuncs.WithByteHandler("echo", func(_ context.Context, payload []byte) ([]byte, error) {
			return append([]byte("echo:"), payload...), nil
		}),
		hostfuncs.WithByteHandler("empty", func(context.Context, []byte) ([]byte, error) {
			return nil, nil
		}),
		hostfuncs.WithByteHandler("fail", func(context.Context, []byte) ([]byte, error) {
			return nil, errors.New("boom")
		}),
	)
	require.NoError(t, err)
	return registry
}

func instantiate(ctx context.Context, t *testing.T, rt wazero.Runtime, source string) api.Module {
	t.Helper()
	bin, err := wat.Compile(source)
	require.NoError(t, err)
	mod, err := rt.Instantiate(ctx, bin)
	require.NoError(t, err)
	return mod
}

func callPacked(ctx context.Context, t *testing.T, mod api.Module, export string, packed uint64) []byte {
	t.Helper()
	results, err := mod.ExportedFunction(export).Call(ctx, packed)
	require.NoError(t, err)
	require.Len(t, results, 1)
	data, ok := ReadPacked(mod, results[0])
	require.True(t, ok)
	return data
}

func setup(t *testing.T, opts ...AdapterOption) (context.Context, api.Module) {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { _ = rt.Close(ctx) })

	logger, _ := testutil.NewLogger()
	opts = append([]AdapterOption{WithLogger(logger)}, opts...)
	require.NoError(t, RegisterWithRuntime(ctx, rt, newEchoRegistry(t), opts...))
	return ctx, instantiate(ctx, t, rt, echoGuest)
}

func TestDefaultAdapterConfig(t *testing.T) {
	cfg := defaultAdapterConfig()

	assert.Equal(t, "facemesh_host", cfg.ModuleName)
	assert.Equal(t, uint32(hostfuncs.DefaultMaxRequestSize), cfg.MaxRequestSize)
	assert.Nil(t, cfg.Logger)
}

func TestAdapterOptions(t *testing.T) {
	cfg := defaultAdapterConfig()
	WithModuleName("custom_module")(&cfg)
	WithMaxRequestSize(2048)(&cfg)
	WithCustomHandler(CustomHandler{Name: "test_handler"})(&cfg)

	assert.Equal(t, "custom_module", cfg.ModuleName)
	assert.Equal(t, uint32(2048), cfg.MaxRequestSize)
	require.Len(t, cfg.CustomHandlers, 1)
	assert.Equal(t, "test_handler", cfg.CustomHandlers[0].Name)
}

func TestPackUnpackPtrLen(t *testing.T) {
	tests := []struct {
		ptr    uint32
		length uint32
	}{
		{0, 0},
		{1, 1},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{0x12345678, 0x9ABCDEF0},
		{100, 50},
	}

	for _, tt := range tests {
		gotPtr, gotLen := unpackPtrLen(packPtrLen(tt.ptr, tt.length))
		assert.Equal(t, tt.ptr, gotPtr)
		assert.Equal(t, tt.length, gotLen)
	}
}

func TestRegisterWithRuntime_RoundTrip(t *testing.T) {
	ctx, mod := setup(t)

	got := callPacked(ctx, t, mod, "call_echo", packPtrLen(16, 5))
	assert.Equal(t, "echo:hello", string(got))
}

func TestRegisterWithRuntime_EmptyResponseIsZero(t *testing.T) {
	ctx, mod := setup(t)

	results, err := mod.ExportedFunction("call_empty").Call(ctx, packPtrLen(16, 5))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), results[0])
}

func TestRegisterWithRuntime_HandlerError(t *testing.T) {
	ctx, mod := setup(t)

	var resp hostfuncs.ErrorResponse
	require.NoError(t, json.Unmarshal(callPacked(ctx, t, mod, "call_fail", packPtrLen(16, 5)), &resp))
	assert.Equal(t, "INTERNAL_ERROR", resp.Error)
	assert.Equal(t, "boom", resp.Message)
}

func TestRegisterWithRuntime_RequestTooLarge(t *testing.T) {
	ctx, mod := setup(t, WithMaxRequestSize(4))

	var resp hostfuncs.ErrorResponse
	require.NoError(t, json.Unmarshal(callPacked(ctx, t, mod, "call_echo", packPtrLen(16, 5)), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error)
	assert.Contains(t, resp.Message, "exceeds maximum 4 bytes")
}

func TestRegisterWithRuntime_OutOfBoundsRequest(t *testing.T) {
	ctx, mod := setup(t)

	var resp hostfuncs.ErrorResponse
	require.NoError(t, json.Unmarshal(callPacked(ctx, t, mod, "call_echo", packPtrLen(70000, 10)), &resp))
	assert.Equal(t, "INTERNAL_ERROR", resp.Error)
}

func TestRegisterWithRuntime_GuestWithoutAllocate(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer func() { _ = rt.Close(ctx) }()

	logger, logs := testutil.NewLogger()
	require.NoError(t, RegisterWithRuntime(ctx, rt, newEchoRegistry(t), WithLogger(logger)))
	mod := instantiate(ctx, t, rt, `(module
  (import "facemesh_host" "echo" (func $echo (param i64) (result i64)))
  (memory 1)
  (data (i32.const 16) "hello")
  (func (export "call_echo") (param $packed i64) (result i64)
    (call $echo (local.get $packed))))`)

	results, err := mod.ExportedFunction("call_echo").Call(WithInstanceID(ctx, "guest-1"), packPtrLen(16, 5))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), results[0])

	records := logs.Records(t)
	require.NotEmpty(t, records)
	assert.Equal(t, "wazero: guest module missing 'allocate' export", records[0]["msg"])
	assert.Equal(t, "guest-1", records[0]["instance"])
	assert.Equal(t, "echo", records[0]["function"])
}

func TestRegisterWithRuntime_CustomHandler(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer func() { _ = rt.Close(ctx) }()

	registry, err := hostfuncs.NewRegistry()
	require.NoError(t, err)
	require.NoError(t, RegisterWithRuntime(ctx, rt, registry,
		WithModuleName("custom"),
		WithCustomHandler(CustomHandler{
			Name: "add_one",
			Handler: api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = api.EncodeI32(api.DecodeI32(stack[0]) + 1)
			}),
			ParamTypes:  []api.ValueType{api.ValueTypeI32},
			ResultTypes: []api.ValueType{api.ValueTypeI32},
		}),
	))

	mod := instantiate(ctx, t, rt, `(module
  (import "custom" "add_one" (func $add (param i32) (result i32)))
  (func (export "run") (param i32) (result i32)
    (call $add (local.get 0))))`)

	results, err := mod.ExportedFunction("run").Call(ctx, 41)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), results[0])
}

func TestInstanceID(t *testing.T) {
	ctx := context.Background()
	_, ok := InstanceIDFromContext(ctx)
	assert.False(t, ok)
	assert.Equal(t, "", InstanceID(ctx, nil))

	ctx = WithInstanceID(ctx, "abc")
	id, ok := InstanceIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc", id)
	assert.Equal(t, "abc", InstanceID(ctx, nil))
}

func TestReadPacked(t *testing.T) {
	_, mod := setup(t)

	data, ok := ReadPacked(mod, 0)
	assert.True(t, ok)
	assert.Nil(t, data)

	data, ok = ReadPacked(mod, packPtrLen(16, 5))
	assert.True(t, ok)
	assert.Equal(t, "hello", string(data))

	_, ok = ReadPacked(mod, packPtrLen(70000, 1))
	assert.False(t, ok)
}
