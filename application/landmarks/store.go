// Package landmarks holds the most recent normalized landmark points and
// ingests raw frame payloads reported by the runtime.
package landmarks

import (
	"sync/atomic"

	"github.com/reglet-dev/facemesh/application/normalizer"
	"github.com/reglet-dev/facemesh/domain/entities"
)

// Store maps each configured LandmarkKey to its latest point.
//
// Every key is present from construction. Points are replaced whole through a
// per-key atomic pointer, so a read never observes a partially written point.
// Points from one frame are published key by key; readers may see a mix of
// two frames across different keys.
type Store struct {
	index      map[entities.LandmarkKey]int
	viewport   atomic.Pointer[entities.ViewportConfig]
	keys       []entities.LandmarkKey
	points     []atomic.Pointer[entities.Landmark3D]
	normalizer normalizer.Normalizer
}

type storeConfig struct {
	keys       []entities.LandmarkKey
	viewport   entities.ViewportConfig
	normalizer normalizer.Normalizer
}

func defaultStoreConfig() storeConfig {
	return storeConfig{
		keys:       entities.AllLandmarkKeys(),
		viewport:   entities.DefaultViewport(),
		normalizer: normalizer.New(),
	}
}

// Option configures a Store.
type Option func(*storeConfig)

// WithKeys sets the closed set of keys tracked by the store.
// Duplicate keys are collapsed.
func WithKeys(keys ...entities.LandmarkKey) Option {
	return func(c *storeConfig) {
		c.keys = keys
	}
}

// WithViewport sets the initial viewport.
func WithViewport(vp entities.ViewportConfig) Option {
	return func(c *storeConfig) {
		c.viewport = vp
	}
}

// WithNormalizer replaces the coordinate normalizer.
func WithNormalizer(n normalizer.Normalizer) Option {
	return func(c *storeConfig) {
		c.normalizer = n
	}
}

// NewStore creates a store with an empty entry for every configured key.
func NewStore(opts ...Option) *Store {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Store{
		index:      make(map[entities.LandmarkKey]int, len(cfg.keys)),
		keys:       make([]entities.LandmarkKey, 0, len(cfg.keys)),
		normalizer: cfg.normalizer,
	}
	for _, k := range cfg.keys {
		if _, dup := s.index[k]; dup {
			continue
		}
		s.index[k] = len(s.keys)
		s.keys = append(s.keys, k)
	}

	empty := entities.Landmark3D{}
	s.points = make([]atomic.Pointer[entities.Landmark3D], len(s.keys))
	for i := range s.points {
		s.points[i].Store(&empty)
	}

	vp := cfg.viewport
	s.viewport.Store(&vp)
	return s
}

// Keys returns the tracked keys in configuration order.
func (s *Store) Keys() []entities.LandmarkKey {
	out := make([]entities.LandmarkKey, len(s.keys))
	copy(out, s.keys)
	return out
}

// Has reports whether key is tracked by the store.
func (s *Store) Has(key entities.LandmarkKey) bool {
	_, ok := s.index[key]
	return ok
}

// Get returns the latest point for key. The second result is false when the
// key is not tracked. Before the first frame the point is not Valid.
func (s *Store) Get(key entities.LandmarkKey) (entities.Landmark3D, bool) {
	i, ok := s.index[key]
	if !ok {
		return entities.Landmark3D{}, false
	}
	return *s.points[i].Load(), true
}

// Snapshot copies every point. Entries are read independently.
func (s *Store) Snapshot() map[entities.LandmarkKey]entities.Landmark3D {
	out := make(map[entities.LandmarkKey]entities.Landmark3D, len(s.keys))
	for i, k := range s.keys {
		out[k] = *s.points[i].Load()
	}
	return out
}

// Viewport returns the viewport applied to the next frame.
func (s *Store) Viewport() entities.ViewportConfig {
	return *s.viewport.Load()
}

// SetViewport replaces the viewport. Already stored points are not rescaled.
func (s *Store) SetViewport(vp entities.ViewportConfig) {
	s.viewport.Store(&vp)
}

// UpdateViewport atomically applies fn to the current viewport.
func (s *Store) UpdateViewport(fn func(entities.ViewportConfig) entities.ViewportConfig) {
	for {
		cur := s.viewport.Load()
		next := fn(*cur)
		if s.viewport.CompareAndSwap(cur, &next) {
			return
		}
	}
}

func (s *Store) set(i int, p entities.Landmark3D) {
	s.points[i].Store(&p)
}
