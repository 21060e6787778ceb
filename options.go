package facemesh

import (
	"log/slog"

	"github.com/reglet-dev/facemesh/application/normalizer"
	"github.com/reglet-dev/facemesh/application/notify"
	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/domain/ports"
	"github.com/reglet-dev/facemesh/hostfuncs"
)

type mount struct {
	prefix string
	dir    string
}

type bridgeConfig struct {
	logger          *slog.Logger
	executor        ports.Executor
	assets          ports.AssetStore
	handler         notify.Handler
	normalizer      *normalizer.Normalizer
	keys            []entities.LandmarkKey
	mounts          []mount
	registryOpts    []hostfuncs.RegistryOption
	properties      entities.Properties
	maxAssetSize    int
	responseHeaders bool
}

func defaultBridgeConfig() bridgeConfig {
	return bridgeConfig{
		keys:            entities.AllLandmarkKeys(),
		properties:      entities.DefaultProperties(),
		maxAssetSize:    hostfuncs.DefaultMaxAssetSize,
		responseHeaders: true,
	}
}

// Option configures a Bridge.
type Option func(*bridgeConfig)

// WithLogger sets the logger used by every part of the bridge.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *bridgeConfig) {
		c.logger = logger
	}
}

// WithExecutor delivers notifications through the host's callback context,
// such as a UI thread dispatcher. Without one the bridge runs its own
// delivery goroutine.
func WithExecutor(e ports.Executor) Option {
	return func(c *bridgeConfig) {
		c.executor = e
	}
}

// WithHandler sets the notification handler. It can be replaced later with
// Bridge.SetHandler.
func WithHandler(h notify.Handler) Option {
	return func(c *bridgeConfig) {
		c.handler = h
	}
}

// WithKeys sets the landmark keys the runtime reports. Defaults to
// entities.AllLandmarkKeys().
func WithKeys(keys ...entities.LandmarkKey) Option {
	return func(c *bridgeConfig) {
		c.keys = keys
	}
}

// WithAssetStore sets the store of bundled model and page assets. Without
// one every request falls through to the network.
func WithAssetStore(store ports.AssetStore) Option {
	return func(c *bridgeConfig) {
		c.assets = store
	}
}

// WithProperties sets the initial properties. They are validated by New.
func WithProperties(props entities.Properties) Option {
	return func(c *bridgeConfig) {
		c.properties = props
	}
}

// WithResponseHeaders controls whether virtualized responses carry
// Access-Control-Allow-Origin. Disable it for web views that cannot set
// response headers.
func WithResponseHeaders(enabled bool) Option {
	return func(c *bridgeConfig) {
		c.responseHeaders = enabled
	}
}

// WithMount virtualizes URLs under prefix from dir in the asset store.
func WithMount(prefix, dir string) Option {
	return func(c *bridgeConfig) {
		c.mounts = append(c.mounts, mount{prefix: prefix, dir: dir})
	}
}

// WithMaxAssetSize caps asset bodies returned by the fetch_asset host function.
func WithMaxAssetSize(n int) Option {
	return func(c *bridgeConfig) {
		c.maxAssetSize = n
	}
}

// WithNormalizer replaces the default coordinate normalizer.
func WithNormalizer(n normalizer.Normalizer) Option {
	return func(c *bridgeConfig) {
		c.normalizer = &n
	}
}

// WithHostFunctions adds registry options, such as extra handlers or
// middleware, to the bridge's host function registry.
func WithHostFunctions(opts ...hostfuncs.RegistryOption) Option {
	return func(c *bridgeConfig) {
		c.registryOpts = append(c.registryOpts, opts...)
	}
}
