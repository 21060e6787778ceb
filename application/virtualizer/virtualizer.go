// Package virtualizer answers the runtime's asset load requests from the
// bundled asset store instead of the network.
package virtualizer

import (
	"context"
	stdErrors "errors"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/domain/errors"
	"github.com/reglet-dev/facemesh/domain/ports"
)

// ModelBaseURL is the canonical location the model driver loads weights from.
const ModelBaseURL = "https://tfhub.dev/mediapipe/tfjs-model/facemesh/1/default/1/"

type mount struct {
	prefix string
	dir    string
}

type config struct {
	logger  *slog.Logger
	mounts  []mount
	headers bool
}

func defaultConfig() config {
	return config{
		mounts:  []mount{{prefix: ModelBaseURL}},
		headers: true,
	}
}

// Option configures a Virtualizer.
type Option func(*config)

// WithMount serves requests under prefix from dir inside the asset store.
// An empty dir maps the remainder directly onto the asset name.
func WithMount(prefix, dir string) Option {
	return func(c *config) {
		c.mounts = append(c.mounts, mount{prefix: prefix, dir: strings.Trim(dir, "/")})
	}
}

// WithResponseHeaders controls whether responses carry custom headers.
// Disable it for platforms that cannot attach headers to intercepted responses.
func WithResponseHeaders(enabled bool) Option {
	return func(c *config) {
		c.headers = enabled
	}
}

// WithLogger sets the logger used to report unresolved assets.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Virtualizer maps request URLs onto bundled assets. It holds no mutable
// state and is safe for concurrent use.
type Virtualizer struct {
	store   ports.AssetStore
	logger  *slog.Logger
	mounts  []mount
	headers bool
}

// New creates a Virtualizer serving from store.
func New(store ports.AssetStore, opts ...Option) *Virtualizer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Virtualizer{
		store:   store,
		logger:  cfg.logger,
		mounts:  cfg.mounts,
		headers: cfg.headers,
	}
}

// Match reports whether rawURL is virtualized and returns the asset name it
// resolves to. The query string is ignored.
func (v *Virtualizer) Match(rawURL string) (string, bool) {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		rawURL = rawURL[:i]
	}

	for _, m := range v.mounts {
		if !strings.HasPrefix(rawURL, m.prefix) {
			continue
		}
		rest := strings.TrimPrefix(rawURL, m.prefix)
		if m.dir == "" {
			return rest, true
		}
		name := path.Join(m.dir, rest)
		if !strings.HasPrefix(name, m.dir+"/") {
			return "", false
		}
		return name, true
	}
	return "", false
}

// Resolve serves rawURL from the asset store. It returns false when the URL
// is not virtualized or the asset cannot be opened, in which case the caller
// must let the request continue to its default handling.
func (v *Virtualizer) Resolve(ctx context.Context, rawURL string) (*entities.AssetResponse, bool) {
	name, ok := v.Match(rawURL)
	if !ok {
		return nil, false
	}

	body, err := v.store.Open(name)
	if err != nil {
		v.logger.WarnContext(ctx, "virtualized request falls through",
			"asset", name,
			"not_found", stdErrors.Is(err, fs.ErrNotExist),
			"error", &errors.AssetNotFoundError{Name: name, URL: rawURL, Err: err},
		)
		return nil, false
	}

	contentType, encoding := ContentType(name)
	resp := &entities.AssetResponse{
		Name:        name,
		Body:        body,
		ContentType: contentType,
		Encoding:    encoding,
		StatusCode:  200,
		Reason:      "OK",
	}
	if v.headers {
		resp.Headers = map[string]string{"Access-Control-Allow-Origin": "*"}
	}
	return resp, true
}

// ContentType returns the content type and encoding served for an asset name.
func ContentType(name string) (contentType, encoding string) {
	if strings.HasSuffix(name, ".json") {
		return entities.ContentTypeJSON, entities.EncodingUTF8
	}
	return entities.ContentTypeBinary, entities.EncodingBinary
}

// AssetURL returns the virtualized model URL for an asset name.
func AssetURL(name string) string {
	return ModelBaseURL + strings.TrimPrefix(name, "/")
}
