package entities

import "fmt"

// NotificationKind enumerates the events delivered to the host.
type NotificationKind int

// Notification kinds.
const (
	ModelReady NotificationKind = iota + 1
	Error
	FaceUpdated
	VideoUpdated
)

func (k NotificationKind) String() string {
	switch k {
	case ModelReady:
		return "ModelReady"
	case Error:
		return "Error"
	case FaceUpdated:
		return "FaceUpdated"
	case VideoUpdated:
		return "VideoUpdated"
	default:
		return fmt.Sprintf("NotificationKind(%d)", int(k))
	}
}

// Error codes carried by Error notifications. Codes outside this set are
// reported by the runtime and passed through unchanged.
const (
	ErrorCodeJSONParseFailed   = 101
	ErrorCodeInvalidCameraMode = 102

	// Codes emitted by the bundled runtime script.
	ErrorCodeNoMediaDevices = 400
	ErrorCodeModelLoad      = 401
)

// Notification is a single event for the host. Code and Message are only
// meaningful for Error notifications.
type Notification struct {
	Message string
	Kind    NotificationKind
	Code    int
}

// NewErrorNotification creates an Error notification.
func NewErrorNotification(code int, message string) Notification {
	return Notification{Kind: Error, Code: code, Message: message}
}

func (n Notification) String() string {
	if n.Kind == Error {
		return fmt.Sprintf("Error(%d, %q)", n.Code, n.Message)
	}
	return n.Kind.String()
}
