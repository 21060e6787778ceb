// Package testutil provides common test utilities, assertions and fakes for
// bridge tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/facemesh/domain/entities"
)

// AssertJSONEqual compares two JSON strings for equality, ignoring formatting
func AssertJSONEqual(t *testing.T, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedJSON, actualJSON interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &expectedJSON), "expected JSON is invalid")
	require.NoError(t, json.Unmarshal([]byte(actual), &actualJSON), "actual JSON is invalid")

	assert.Equal(t, expectedJSON, actualJSON, msgAndArgs...)
}

// AssertCommands asserts the exact sequence of commands recorded by a runtime.
func AssertCommands(t *testing.T, rt *RecordingRuntime, expected ...entities.Command) {
	t.Helper()
	if len(expected) == 0 {
		assert.Empty(t, rt.Commands(), "no command should have been sent")
		return
	}
	assert.Equal(t, expected, rt.Commands())
}

// AssertNotifications asserts the exact sequence of delivered notifications.
func AssertNotifications(t *testing.T, rec *NotificationRecorder, expected ...entities.Notification) {
	t.Helper()
	if len(expected) == 0 {
		assert.Empty(t, rec.Notifications(), "no notification should have been delivered")
		return
	}
	assert.Equal(t, expected, rec.Notifications())
}

// LogBuffer captures JSON log output for assertions.
type LogBuffer struct {
	bytes.Buffer
}

// NewLogger returns a debug-level JSON logger writing into a new LogBuffer.
func NewLogger() (*slog.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, buf
}

// Records decodes every captured log line.
func (b *LogBuffer) Records(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(bytes.NewReader(b.Bytes()))
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		out = append(out, rec)
	}
	return out
}
