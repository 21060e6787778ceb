package hostfuncs

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"

	"github.com/reglet-dev/facemesh/domain/errors"
)

// Error identifiers carried in ErrorResponse.Error.
const (
	ErrValidation  = "VALIDATION_ERROR"
	ErrNotFound    = "NOT_FOUND"
	ErrParse       = "PARSE_ERROR"
	ErrNotAttached = "NOT_ATTACHED"
	ErrInternal    = "INTERNAL_ERROR"
)

// ErrorResponse is the JSON reply for a failed host call. The runtime always
// gets a parseable reply instead of a trap.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	// Code is an HTTP-style status.
	Code int `json:"code"`
}

// ToJSON serializes the ErrorResponse.
func (e ErrorResponse) ToJSON() []byte {
	data, _ := json.Marshal(e)
	return data
}

// NewValidationError rejects a malformed payload.
func NewValidationError(message string) ErrorResponse {
	return ErrorResponse{Error: ErrValidation, Message: message, Code: 400}
}

// NewNotFoundError reports an unknown host function.
func NewNotFoundError(name string) ErrorResponse {
	return ErrorResponse{Error: ErrNotFound, Message: "unknown host function: " + name, Code: 404}
}

// NewInternalError reports an unexpected failure.
func NewInternalError(message string) ErrorResponse {
	return ErrorResponse{Error: ErrInternal, Message: message, Code: 500}
}

// NewPanicError reports a recovered panic.
func NewPanicError(recovered any) ErrorResponse {
	if err, ok := recovered.(error); ok {
		return NewInternalError("panic: " + err.Error())
	}
	return NewInternalError(fmt.Sprintf("panic: %v", recovered))
}

// ErrorResponseFor maps a handler error onto a reply. Bridge errors keep
// their category; anything else is internal.
func ErrorResponseFor(err error) ErrorResponse {
	var (
		parseErr    *errors.JSONParseError
		cameraErr   *errors.InvalidCameraModeError
		configErr   *errors.ConfigError
		assetErr    *errors.AssetNotFoundError
		detachedErr *errors.RuntimeNotAttachedError
	)
	switch {
	case stdErrors.As(err, &parseErr):
		return ErrorResponse{Error: ErrParse, Message: err.Error(), Code: 400}
	case stdErrors.As(err, &cameraErr), stdErrors.As(err, &configErr):
		return NewValidationError(err.Error())
	case stdErrors.As(err, &assetErr):
		return ErrorResponse{Error: ErrNotFound, Message: err.Error(), Code: 404}
	case stdErrors.As(err, &detachedErr), stdErrors.Is(err, errors.ErrTornDown):
		return ErrorResponse{Error: ErrNotAttached, Message: err.Error(), Code: 409}
	default:
		return NewInternalError(err.Error())
	}
}
