package ports

import "github.com/reglet-dev/facemesh/domain/entities"

// PropertiesParser decodes serialized bridge properties.
type PropertiesParser interface {
	Parse(data []byte) (*entities.Properties, error)
}
