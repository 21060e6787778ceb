package config

import (
	"fmt"

	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/domain/errors"
)

// Property keys, matching the JSON and YAML names of entities.Properties.
const (
	KeyEnabled   = "enabled"
	KeyUseCamera = "use_camera"
	KeyWidth     = "width"
	KeyHeight    = "height"
)

// Properties builds bridge properties from a map. Absent keys keep their
// defaults; a present key of the wrong type is a *errors.ConfigError.
// Values are not range checked here.
func Properties(config Config) (*entities.Properties, error) {
	props := entities.DefaultProperties()

	if _, ok := config[KeyEnabled]; ok {
		b, ok := GetBool(config, KeyEnabled)
		if !ok {
			return nil, typeError(KeyEnabled, "boolean")
		}
		props.Enabled = &b
	}

	if _, ok := config[KeyUseCamera]; ok {
		s, ok := GetString(config, KeyUseCamera)
		if !ok {
			return nil, typeError(KeyUseCamera, "string")
		}
		props.UseCamera = s
	}

	for key, dst := range map[string]**int{KeyWidth: &props.Width, KeyHeight: &props.Height} {
		if _, ok := config[key]; !ok {
			continue
		}
		n, ok := GetInt(config, key)
		if !ok {
			return nil, typeError(key, "number")
		}
		*dst = &n
	}

	return &props, nil
}

// Map converts properties back into a map using the same keys.
func Map(props entities.Properties) Config {
	return Config{
		KeyEnabled:   props.IsEnabled(),
		KeyUseCamera: props.UseCamera,
		KeyWidth:     props.Viewport().Width,
		KeyHeight:    props.Viewport().Height,
	}
}

func typeError(key, want string) error {
	return &errors.ConfigError{
		Field: key,
		Err:   fmt.Errorf("field '%s' is not a %s", key, want),
	}
}
