package parser

import (
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/domain/errors"
)

func TestYamlPropertiesParser_Parse(t *testing.T) {
	p := NewYamlPropertiesParser()

	t.Run("full document", func(t *testing.T) {
		props, err := p.Parse([]byte(`
enabled: false
use_camera: Back
width: 1080
height: 1920
`))
		require.NoError(t, err)
		assert.False(t, props.IsEnabled())
		assert.Equal(t, "Back", props.UseCamera)
		assert.Equal(t, entities.ViewportConfig{Width: 1080, Height: 1920}, props.Viewport())
	})

	t.Run("partial document keeps defaults", func(t *testing.T) {
		props, err := p.Parse([]byte("width: 240\n"))
		require.NoError(t, err)
		assert.True(t, props.IsEnabled())
		assert.Equal(t, "Front", props.UseCamera)
		assert.Equal(t, entities.ViewportConfig{Width: 240, Height: 620}, props.Viewport())
	})

	t.Run("empty document", func(t *testing.T) {
		props, err := p.Parse(nil)
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultProperties(), *props)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := p.Parse([]byte("zoom: 2\n"))
		var cfgErr *errors.ConfigError
		assert.True(t, stdErrors.As(err, &cfgErr))
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := p.Parse([]byte("width: wide\n"))
		var cfgErr *errors.ConfigError
		assert.True(t, stdErrors.As(err, &cfgErr))
	})
}
