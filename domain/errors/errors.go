// Package errors provides domain-specific error types for the bridge.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/reglet-dev/facemesh/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// ErrTornDown is returned when an operation is attempted on a bridge that has
// already been torn down and cannot be revived.
var ErrTornDown = stdErrors.New("bridge is torn down")

// DetailedError is an interface for custom error types that can convert themselves
// to a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// RuntimeNotAttachedError is returned when an operation needs the embedded
// runtime but none is attached, either because it was never attached or
// because the bridge has been torn down.
type RuntimeNotAttachedError struct {
	Operation string
}

func (e *RuntimeNotAttachedError) Error() string {
	return fmt.Sprintf("you must attach a runtime before you can call %s", e.Operation)
}

// ToErrorDetail implements DetailedError.
func (e *RuntimeNotAttachedError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "runtime"}
}

// InvalidCameraModeError reports a camera selection other than Front or Back.
type InvalidCameraModeError struct {
	Value string
}

func (e *InvalidCameraModeError) Error() string {
	return fmt.Sprintf("invalid camera selection %q: must be either 'Front' or 'Back'", e.Value)
}

// Code returns the Error notification code.
func (e *InvalidCameraModeError) Code() int {
	return entities.ErrorCodeInvalidCameraMode
}

// ToErrorDetail implements DetailedError.
func (e *InvalidCameraModeError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Code()}
}

// JSONParseError reports a frame payload that could not be parsed.
// Key is set when the payload parsed but a landmark entry was missing or malformed.
type JSONParseError struct {
	Err error
	Key string
}

func (e *JSONParseError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("landmark %q: %v", e.Key, e.Err)
	}
	return e.Err.Error()
}

func (e *JSONParseError) Unwrap() error {
	return e.Err
}

// Code returns the Error notification code.
func (e *JSONParseError) Code() int {
	return entities.ErrorCodeJSONParseFailed
}

// ToErrorDetail implements DetailedError.
func (e *JSONParseError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "parse", Code: e.Code()}
}

// AssetNotFoundError reports a virtualized request whose bundled asset does not exist.
type AssetNotFoundError struct {
	Err  error
	Name string
	URL  string
}

func (e *AssetNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bundled asset %q for %s not found: %v", e.Name, e.URL, e.Err)
	}
	return fmt.Sprintf("bundled asset %q for %s not found", e.Name, e.URL)
}

func (e *AssetNotFoundError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *AssetNotFoundError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "asset", IsNotFound: true}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config"}
}

// Coded is implemented by errors that map onto an Error notification code.
type Coded interface {
	error
	Code() int
}

// CodeOf returns the notification code carried by err, or 0.
func CodeOf(err error) int {
	var c Coded
	if stdErrors.As(err, &c) {
		return c.Code()
	}
	return 0
}
