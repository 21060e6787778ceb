// Package parser decodes serialized bridge properties.
package parser

import (
	"bytes"
	stdErrors "errors"
	"io"

	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/domain/errors"
	"github.com/reglet-dev/facemesh/domain/ports"
	"gopkg.in/yaml.v3"
)

var _ ports.PropertiesParser = (*YamlPropertiesParser)(nil)

// YamlPropertiesParser implements PropertiesParser for YAML.
type YamlPropertiesParser struct{}

// NewYamlPropertiesParser creates a new YamlPropertiesParser.
func NewYamlPropertiesParser() *YamlPropertiesParser {
	return &YamlPropertiesParser{}
}

// Parse unmarshals YAML bytes over the default properties. Unknown keys are
// rejected; empty input yields the defaults.
func (p *YamlPropertiesParser) Parse(data []byte) (*entities.Properties, error) {
	props := entities.DefaultProperties()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&props); err != nil && !stdErrors.Is(err, io.EOF) {
		return nil, &errors.ConfigError{Err: err}
	}
	return &props, nil
}
