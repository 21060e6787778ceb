// Package normalizer converts landmark points from the model's native camera
// preview space into the host's viewport space.
package normalizer

import (
	"github.com/reglet-dev/facemesh/domain/entities"
)

// Native preview space of the bundled model. The vertical offset corrects the
// letterboxing of the preview and is applied before scaling.
const (
	NativeWidth    = 480.0
	NativeHeight   = 620.0
	VerticalOffset = 20.0
)

// Normalizer is a pure, stateless point transform.
// The zero value is not usable; construct with New.
type Normalizer struct {
	nativeWidth  float64
	nativeHeight float64
	offsetY      float64
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithNativeSize overrides the native preview dimensions.
func WithNativeSize(width, height float64) Option {
	return func(n *Normalizer) {
		n.nativeWidth = width
		n.nativeHeight = height
	}
}

// WithVerticalOffset overrides the vertical letterbox offset.
func WithVerticalOffset(offset float64) Option {
	return func(n *Normalizer) {
		n.offsetY = offset
	}
}

// New returns a Normalizer using the bundled model's native space unless
// overridden.
func New(opts ...Option) Normalizer {
	n := Normalizer{
		nativeWidth:  NativeWidth,
		nativeHeight: NativeHeight,
		offsetY:      VerticalOffset,
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

// Normalize maps a raw point into viewport space:
//
//	x = x_raw * (width / nativeWidth)
//	y = (y_raw - offset) * (height / nativeHeight)
//	z = z_raw
//
// A zero width or height collapses that axis to 0.
func (n Normalizer) Normalize(x, y, z float64, vp entities.ViewportConfig) entities.Landmark3D {
	return entities.NewLandmark3D(
		x*(float64(vp.Width)/n.nativeWidth),
		(y-n.offsetY)*(float64(vp.Height)/n.nativeHeight),
		z,
	)
}
