package entities

// CameraMode selects which device camera the runtime captures from.
type CameraMode string

// Supported camera modes.
const (
	CameraFront CameraMode = "Front"
	CameraBack  CameraMode = "Back"
)

// ParseCameraMode converts a host-supplied string into a CameraMode.
// Matching is exact; anything other than "Front" or "Back" is rejected.
func ParseCameraMode(s string) (CameraMode, bool) {
	switch CameraMode(s) {
	case CameraFront:
		return CameraFront, true
	case CameraBack:
		return CameraBack, true
	default:
		return "", false
	}
}

// FrontFacing reports whether the mode uses the user-facing camera.
func (m CameraMode) FrontFacing() bool {
	return m == CameraFront
}

// String returns the mode name.
func (m CameraMode) String() string {
	return string(m)
}
