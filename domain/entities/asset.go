package entities

import "io"

// Content types and encodings served by the resource virtualizer.
const (
	ContentTypeJSON   = "application/json"
	ContentTypeBinary = "application/octet-stream"
	EncodingUTF8      = "UTF-8"
	EncodingBinary    = "binary"
)

// AssetResponse is a locally served answer to a runtime load request.
type AssetResponse struct {
	// Headers is nil when the platform does not support custom response headers.
	Headers map[string]string

	// Body streams the bundled asset. Callers must close it.
	Body io.ReadCloser

	// Name is the bundled asset name the request resolved to.
	Name string

	ContentType string
	Encoding    string
	Reason      string
	StatusCode  int
}
