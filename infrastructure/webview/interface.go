package webview

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/reglet-dev/facemesh/hostfuncs"
	"github.com/reglet-dev/facemesh/wireformat"
)

// Invoker dispatches a named host function. *hostfuncs.HandlerRegistry
// implements it.
type Invoker interface {
	Invoke(ctx context.Context, name string, payload []byte) ([]byte, error)
}

// ScriptInterface is the object a web view exposes to page script. Each
// method forwards to the matching host function, so page script and wasm
// guests reach the bridge through the same registry and middleware.
type ScriptInterface struct {
	ctx     context.Context
	invoker Invoker
	logger  *slog.Logger
}

// NewScriptInterface creates the page-facing object. ctx is used for every
// call since page script cannot supply one.
func NewScriptInterface(ctx context.Context, invoker Invoker, logger *slog.Logger) *ScriptInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScriptInterface{ctx: ctx, invoker: invoker, logger: logger}
}

// Ready is called once the model has loaded.
func (s *ScriptInterface) Ready() {
	s.invoke(hostfuncs.FuncReady, nil)
}

// ReportImage receives the current camera frame as a data URL.
func (s *ScriptInterface) ReportImage(dataURL string) {
	s.invoke(hostfuncs.FuncReportImage, []byte(dataURL))
}

// ReportResult receives a landmark frame as JSON text.
func (s *ScriptInterface) ReportResult(result string) {
	s.invoke(hostfuncs.FuncReportResult, []byte(result))
}

// Error reports a runtime failure.
func (s *ScriptInterface) Error(code int, message string) {
	payload, err := json.Marshal(wireformat.ErrorWire{Code: code, Message: message})
	if err != nil {
		s.logger.ErrorContext(s.ctx, "failed to encode runtime error", "code", code, "error", err)
		return
	}
	s.invoke(hostfuncs.FuncError, payload)
}

func (s *ScriptInterface) invoke(name string, payload []byte) {
	resp, err := s.invoker.Invoke(s.ctx, name, payload)
	if err != nil {
		s.logger.ErrorContext(s.ctx, "page callback failed", "function", name, "error", err)
		return
	}
	if len(resp) == 0 {
		return
	}

	var errResp hostfuncs.ErrorResponse
	if json.Unmarshal(resp, &errResp) == nil && errResp.Error != "" {
		s.logger.WarnContext(s.ctx, "page callback rejected",
			"function", name,
			"error_type", errResp.Error,
			"message", errResp.Message,
		)
	}
}
