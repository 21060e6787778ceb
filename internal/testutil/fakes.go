package testutil

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"sync"

	"github.com/reglet-dev/facemesh/domain/entities"
)

// RecordingRuntime is a RuntimeChannel that records every call.
type RecordingRuntime struct {
	LoadErr  error
	SendErr  error
	commands []entities.Command
	loads    int
	mu       sync.Mutex
}

// Load records a load request.
func (r *RecordingRuntime) Load(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	return r.LoadErr
}

// Send records cmd.
func (r *RecordingRuntime) Send(_ context.Context, cmd entities.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
	return r.SendErr
}

// Commands returns a copy of the recorded commands.
func (r *RecordingRuntime) Commands() []entities.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Loads returns how many times Load was called.
func (r *RecordingRuntime) Loads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads
}

// Reset forgets recorded commands.
func (r *RecordingRuntime) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = nil
}

// NotificationRecorder collects delivered notifications.
type NotificationRecorder struct {
	items []entities.Notification
	mu    sync.Mutex
}

// Handle records n. It has the signature of a notification handler.
func (r *NotificationRecorder) Handle(n entities.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// Notifications returns a copy of the recorded notifications.
func (r *NotificationRecorder) Notifications() []entities.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Reset forgets recorded notifications.
func (r *NotificationRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}

// Count returns how many notifications of kind were recorded.
func (r *NotificationRecorder) Count(kind entities.NotificationKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, it := range r.items {
		if it.Kind == kind {
			n++
		}
	}
	return n
}

// InlineExecutor runs tasks synchronously on the calling goroutine.
type InlineExecutor struct{}

// Execute runs task immediately.
func (InlineExecutor) Execute(task func()) { task() }

// MapAssetStore serves assets from memory.
type MapAssetStore map[string]string

// Open returns the named asset or fs.ErrNotExist.
func (m MapAssetStore) Open(name string) (io.ReadCloser, error) {
	data, ok := m[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader([]byte(data))), nil
}
