package entities

// Properties is the host-facing configuration of a bridge. The pointer
// fields fall back to their defaults when omitted, so an explicit zero
// viewport size has to be set on purpose.
type Properties struct {
	Enabled   *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty" jsonschema:"description=Enables or disables the model,default=true"`
	UseCamera string `json:"use_camera,omitempty" yaml:"use_camera,omitempty" validate:"omitempty,oneof=Front Back" jsonschema:"enum=Front,enum=Back,default=Front"`
	Width     *int   `json:"width,omitempty" yaml:"width,omitempty" validate:"omitempty,min=0" jsonschema:"minimum=0,default=480"`
	Height    *int   `json:"height,omitempty" yaml:"height,omitempty" validate:"omitempty,min=0" jsonschema:"minimum=0,default=620"`
}

// Ptr returns a pointer to v, for filling optional Properties fields.
func Ptr[T any](v T) *T {
	return &v
}

// DefaultProperties returns the configuration of a freshly created bridge.
func DefaultProperties() Properties {
	return Properties{
		Enabled:   Ptr(true),
		UseCamera: string(CameraFront),
		Width:     Ptr(DefaultViewportWidth),
		Height:    Ptr(DefaultViewportHeight),
	}
}

// Viewport returns the viewport part of the properties. An omitted axis
// takes its default.
func (p Properties) Viewport() ViewportConfig {
	vp := DefaultViewport()
	if p.Width != nil {
		vp.Width = *p.Width
	}
	if p.Height != nil {
		vp.Height = *p.Height
	}
	return vp
}

// IsEnabled returns the enabled flag, defaulting to true when unset.
func (p Properties) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}
