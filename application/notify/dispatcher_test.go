package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/facemesh/domain/entities"
	"github.com/reglet-dev/facemesh/domain/ports"
	"github.com/reglet-dev/facemesh/internal/testutil"
)

func TestDispatcher_OwnContextPreservesOrder(t *testing.T) {
	rec := &testutil.NotificationRecorder{}
	d := New(WithHandler(rec.Handle))
	defer d.Close()

	d.ModelReady()
	d.FaceUpdated()
	d.VideoUpdated()
	d.Error(400, "no media devices")
	d.Flush()

	testutil.AssertNotifications(t, rec,
		entities.Notification{Kind: entities.ModelReady},
		entities.Notification{Kind: entities.FaceUpdated},
		entities.Notification{Kind: entities.VideoUpdated},
		entities.NewErrorNotification(400, "no media devices"),
	)
}

func TestDispatcher_SingleDeliveryContext(t *testing.T) {
	// Handler is never entered concurrently, so it needs no locking.
	var active, maxActive int
	var mu sync.Mutex
	count := 0
	d := New(WithHandler(func(entities.Notification) {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()

		count++

		mu.Lock()
		active--
		mu.Unlock()
	}))
	defer d.Close()

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				d.FaceUpdated()
			}
		}()
	}
	wg.Wait()
	d.Flush()

	assert.Equal(t, 200, count)
	assert.Equal(t, 1, maxActive)
}

func TestDispatcher_HostExecutor(t *testing.T) {
	var tasks []func()
	exec := ports.ExecutorFunc(func(task func()) { tasks = append(tasks, task) })

	rec := &testutil.NotificationRecorder{}
	d := New(WithExecutor(exec), WithHandler(rec.Handle))

	d.FaceUpdated()
	d.VideoUpdated()

	// Nothing is delivered until the host drains its context.
	testutil.AssertNotifications(t, rec)
	require.Len(t, tasks, 2)

	for _, task := range tasks {
		task()
	}
	testutil.AssertNotifications(t, rec,
		entities.Notification{Kind: entities.FaceUpdated},
		entities.Notification{Kind: entities.VideoUpdated},
	)

	d.Flush()
	d.Close()
}

func TestDispatcher_HandlerPanicIsLogged(t *testing.T) {
	logger, logs := testutil.NewLogger()
	rec := &testutil.NotificationRecorder{}

	calls := 0
	d := New(WithLogger(logger), WithHandler(func(n entities.Notification) {
		calls++
		if calls == 1 {
			panic("handler failure")
		}
		rec.Handle(n)
	}))
	defer d.Close()

	d.ModelReady()
	d.FaceUpdated()
	d.Flush()

	testutil.AssertNotifications(t, rec, entities.Notification{Kind: entities.FaceUpdated})

	records := logs.Records(t)
	require.Len(t, records, 1)
	assert.Equal(t, "ERROR", records[0]["level"])
	assert.Equal(t, "handler failure", records[0]["panic"])
	assert.Equal(t, "ModelReady", records[0]["notification"])
}

func TestDispatcher_NoHandler(t *testing.T) {
	d := New()
	defer d.Close()

	assert.NotPanics(t, func() {
		d.ModelReady()
		d.Flush()
	})

	rec := &testutil.NotificationRecorder{}
	d.SetHandler(rec.Handle)
	d.VideoUpdated()
	d.Flush()
	assert.Equal(t, 1, rec.Count(entities.VideoUpdated))

	d.SetHandler(nil)
	d.VideoUpdated()
	d.Flush()
	assert.Equal(t, 1, rec.Count(entities.VideoUpdated))
}

func TestDispatcher_DropsAfterClose(t *testing.T) {
	rec := &testutil.NotificationRecorder{}
	d := New(WithHandler(rec.Handle))

	d.ModelReady()
	d.Close()
	d.FaceUpdated()
	d.Flush()

	testutil.AssertNotifications(t, rec, entities.Notification{Kind: entities.ModelReady})
}
