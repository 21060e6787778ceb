// Package wireformat defines the JSON wire format structures exchanged
// between the bridge and the embedded script runtime. These types must remain
// stable as they define the contract with the runtime script.
package wireformat

import (
	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/domain/errors"
)

// ErrorWire is the payload of the runtime's error(code, message) callback.
type ErrorWire struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// FetchAssetRequestWire asks the host to resolve a load request locally.
type FetchAssetRequestWire struct {
	URL string `json:"url"`
}

// FetchAssetResponseWire answers a FetchAssetRequestWire. When Found is false
// the runtime must perform its default handling for the URL.
type FetchAssetResponseWire struct {
	Headers     map[string]string `json:"headers,omitempty"`
	Error       *ErrorDetail      `json:"error,omitempty"`
	Name        string            `json:"name,omitempty"`
	ContentType string            `json:"content_type,omitempty"`
	Encoding    string            `json:"encoding,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	Body        []byte            `json:"body,omitempty"`
	StatusCode  int               `json:"status_code,omitempty"`
	Found       bool              `json:"found"`
	Truncated   bool              `json:"truncated,omitempty"`
}

// CommandWire is the JSON form of an outbound command, for runtimes that
// receive commands as messages instead of scripts.
type CommandWire struct {
	Name        string `json:"name"`
	FrontFacing *bool  `json:"front_facing,omitempty"`
}

// CommandToWire converts a command to its wire form.
func CommandToWire(cmd entities.Command) CommandWire {
	w := CommandWire{Name: string(cmd.Name)}
	if cmd.Name == entities.CommandSetCameraFacingMode {
		front := cmd.FrontFacing
		w.FrontFacing = &front
	}
	return w
}

// ErrorDetail is the wire form of a structured bridge error.
type ErrorDetail = entities.ErrorDetail

// ErrorToWire converts any error to its wire form.
func ErrorToWire(err error) *ErrorDetail {
	return errors.ToErrorDetail(err)
}
