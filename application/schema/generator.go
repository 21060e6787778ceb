// Package schema provides JSON schema generation for bridge properties and
// the frame payload reported by the runtime.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/reglet-dev/facemesh/domain/entities"
)

// GenerateSchema creates a JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v interface{}) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
	}
	return marshal(reflector.Reflect(v))
}

// PropertiesSchema returns the schema of entities.Properties.
func PropertiesSchema() ([]byte, error) {
	return GenerateSchema(&entities.Properties{})
}

// FrameSchema returns the schema of one reportResult payload: an object with
// a required {x, y, z} entry per key. Additional keys are allowed.
func FrameSchema(keys []entities.LandmarkKey) ([]byte, error) {
	props := jsonschema.NewProperties()
	required := make([]string, 0, len(keys))
	for _, k := range keys {
		props.Set(string(k), pointSchema())
		required = append(required, string(k))
	}

	return marshal(&jsonschema.Schema{
		Version:    jsonschema.Version,
		Title:      "facemesh frame",
		Type:       "object",
		Properties: props,
		Required:   required,
	})
}

func pointSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	for _, axis := range []string{"x", "y", "z"} {
		props.Set(axis, &jsonschema.Schema{Type: "number"})
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   []string{"x", "y", "z"},
	}
}

func marshal(s *jsonschema.Schema) ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return jsonBytes, nil
}
