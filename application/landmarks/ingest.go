package landmarks

import (
	"encoding/json"
	stdErrors "errors"

	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/domain/errors"
)

// Frame entry failures reported inside a JSONParseError.
var (
	ErrMissingLandmark   = stdErrors.New("missing from frame")
	ErrMalformedLandmark = stdErrors.New("expected an object with numeric x, y and z")
)

type rawPoint struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
}

// Ingest parses one frame payload, normalizes every tracked key against a
// single viewport snapshot and publishes the points.
//
// The frame is all-or-nothing: if the payload is not a JSON object, or any
// tracked key is missing or malformed, a *errors.JSONParseError is returned
// and no point is written. Keys outside the tracked set are ignored.
func (s *Store) Ingest(payload []byte) error {
	var frame map[string]json.RawMessage
	if err := json.Unmarshal(payload, &frame); err != nil {
		return &errors.JSONParseError{Err: err}
	}

	vp := s.Viewport()
	points := make([]entities.Landmark3D, len(s.keys))
	for i, k := range s.keys {
		raw, ok := frame[string(k)]
		if !ok {
			return &errors.JSONParseError{Key: string(k), Err: ErrMissingLandmark}
		}

		var p rawPoint
		if err := json.Unmarshal(raw, &p); err != nil {
			return &errors.JSONParseError{Key: string(k), Err: err}
		}
		if p.X == nil || p.Y == nil || p.Z == nil {
			return &errors.JSONParseError{Key: string(k), Err: ErrMalformedLandmark}
		}

		points[i] = s.normalizer.Normalize(*p.X, *p.Y, *p.Z, vp)
	}

	for i, p := range points {
		s.set(i, p)
	}
	return nil
}
