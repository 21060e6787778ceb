package entities

// Default viewport dimensions. They match the model's native preview space so
// an unconfigured bridge only applies the vertical offset.
const (
	DefaultViewportWidth  = 480
	DefaultViewportHeight = 620
)

// ViewportConfig describes the host's output coordinate space.
type ViewportConfig struct {
	Width  int `json:"width" yaml:"width" validate:"min=0"`
	Height int `json:"height" yaml:"height" validate:"min=0"`
}

// DefaultViewport returns the viewport used when the host configures none.
func DefaultViewport() ViewportConfig {
	return ViewportConfig{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
}
