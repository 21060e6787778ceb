package entities

// LandmarkKey identifies a facial feature reported by the model.
// The string value is the JSON key used on the wire.
type LandmarkKey string

// Facial features reported by the model runtime.
const (
	Forehead            LandmarkKey = "forehead"
	Chin                LandmarkKey = "chin"
	LeftCheek           LandmarkKey = "leftCheek"
	RightCheek          LandmarkKey = "rightCheek"
	LeftEyeInnerCorner  LandmarkKey = "leftEyeInnerCorner"
	RightEyeInnerCorner LandmarkKey = "rightEyeInnerCorner"
	LeftEyeTop          LandmarkKey = "leftEyeTop"
	LeftEyeBottom       LandmarkKey = "leftEyeBottom"
	RightEyeTop         LandmarkKey = "rightEyeTop"
	RightEyeBottom      LandmarkKey = "rightEyeBottom"
	MouthTop            LandmarkKey = "mouthTop"
	MouthBottom         LandmarkKey = "mouthBottom"
)

// AllLandmarkKeys returns the full closed set of landmark keys in a stable order.
func AllLandmarkKeys() []LandmarkKey {
	return []LandmarkKey{
		Forehead,
		Chin,
		LeftCheek,
		RightCheek,
		LeftEyeInnerCorner,
		RightEyeInnerCorner,
		LeftEyeTop,
		LeftEyeBottom,
		RightEyeTop,
		RightEyeBottom,
		MouthTop,
		MouthBottom,
	}
}

// BasicLandmarkKeys returns the reduced five-key set reported by the first
// generation of the runtime script.
func BasicLandmarkKeys() []LandmarkKey {
	return []LandmarkKey{Forehead, Chin, LeftCheek, RightCheek, LeftEyeInnerCorner}
}

// String returns the wire name of the key.
func (k LandmarkKey) String() string {
	return string(k)
}

// Landmark3D is an immutable point in output coordinate space.
// Valid is false for the zero value stored before the first report.
type Landmark3D struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Valid bool    `json:"-"`
}

// NewLandmark3D creates a valid point.
func NewLandmark3D(x, y, z float64) Landmark3D {
	return Landmark3D{X: x, Y: y, Z: z, Valid: true}
}

// Slice returns the point as an ordered [x, y, z] sequence.
// An invalid point returns an empty, non-nil slice.
func (l Landmark3D) Slice() []float64 {
	if !l.Valid {
		return []float64{}
	}
	return []float64{l.X, l.Y, l.Z}
}
