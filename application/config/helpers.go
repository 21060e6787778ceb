// Package config provides typed access to untyped property maps, such as the
// designer properties a host passes when it creates a bridge.
package config

import (
	"encoding/json"
	"math"
)

// Config holds bridge properties as a key-value map, typically decoded from
// JSON or supplied by a UI designer.
type Config = map[string]any

func lookup[T any](config Config, key string) (T, bool) {
	v, ok := config[key].(T)
	return v, ok
}

// GetString returns config[key] if it is a string.
func GetString(config Config, key string) (string, bool) {
	return lookup[string](config, key)
}

// GetBool returns config[key] if it is a bool.
func GetBool(config Config, key string) (bool, bool) {
	return lookup[bool](config, key)
}

// GetInt returns config[key] as an int. Decoded JSON numbers (float64 or
// json.Number) are accepted only when integral; pixel sizes have no fractions.
func GetInt(config Config, key string) (int, bool) {
	switch n := config[key].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}
