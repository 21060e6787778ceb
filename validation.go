package facemesh

import (
	stdErrors "errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/reglet-dev/facemesh/application/config"
	"github.com/reglet-dev/facemesh/application/schema"
	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/domain/errors"
	"github.com/reglet-dev/facemesh/infrastructure/parser"
)

// validate is a package-level singleton; building a validator is expensive.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names, which are also the property names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateProperties checks props against their validation tags. A failure
// is a *errors.ConfigError naming the first offending property.
func ValidateProperties(props entities.Properties) error {
	if err := validate.Struct(props); err != nil {
		var verrs validator.ValidationErrors
		if stdErrors.As(err, &verrs) && len(verrs) > 0 {
			return &errors.ConfigError{Field: verrs[0].Field(), Err: err}
		}
		return &errors.ConfigError{Err: err}
	}
	return nil
}

// PropertiesFromMap builds and validates properties from an untyped map, as
// supplied by a designer or a JSON document.
func PropertiesFromMap(m map[string]any) (*entities.Properties, error) {
	props, err := config.Properties(m)
	if err != nil {
		return nil, err
	}
	if err := ValidateProperties(*props); err != nil {
		return nil, err
	}
	return props, nil
}

// ParseProperties decodes and validates YAML properties.
func ParseProperties(data []byte) (*entities.Properties, error) {
	props, err := parser.NewYamlPropertiesParser().Parse(data)
	if err != nil {
		return nil, err
	}
	if err := ValidateProperties(*props); err != nil {
		return nil, err
	}
	return props, nil
}

// PropertiesSchema returns the JSON schema of the bridge properties, for
// designers and tooling that edit them.
func PropertiesSchema() ([]byte, error) {
	return schema.PropertiesSchema()
}

// FrameSchema returns the JSON schema of a landmark frame reporting keys.
func FrameSchema(keys ...entities.LandmarkKey) ([]byte, error) {
	if len(keys) == 0 {
		keys = entities.AllLandmarkKeys()
	}
	return schema.FrameSchema(keys)
}
