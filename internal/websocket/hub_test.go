package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"resume-turns-be/internal/dto"
	"resume-turns-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)
	return hub
}

func TestHub_DeliversToWatchersOfTheVersion(t *testing.T) {
	hub := startHub(t)
	watched, other := uuid.New(), uuid.New()

	a := newClient(hub, nil, watched)
	b := newClient(hub, nil, other)
	hub.register <- a
	hub.register <- b
	require.Eventually(t, func() bool { return hub.Watchers(watched) == 1 && hub.Watchers(other) == 1 }, time.Second, 5*time.Millisecond)

	err := hub.HandleVersionEvent(context.Background(), dto.VersionEvent{Type: dto.VersionSaved, VersionId: watched, Step: 3})
	require.NoError(t, err)

	select {
	case raw := <-a.Send:
		var msg struct {
			Type string           `json:"type"`
			Data dto.VersionEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "version_saved", msg.Type)
		assert.Equal(t, watched, msg.Data.VersionId)
		assert.Equal(t, 3, msg.Data.Step)
	case <-time.After(time.Second):
		t.Fatal("watcher did not receive the event")
	}

	assert.Empty(t, b.Send)
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t)
	id := uuid.New()
	c := newClient(hub, nil, id)

	hub.register <- c
	require.Eventually(t, func() bool { return hub.Watchers(id) == 1 }, time.Second, 5*time.Millisecond)

	hub.unregister <- c
	require.Eventually(t, func() bool { return hub.Watchers(id) == 0 }, time.Second, 5*time.Millisecond)

	select {
	case <-c.done:
	default:
		t.Fatal("client was not closed")
	}

	// delivering after close must not block or panic
	assert.NoError(t, hub.HandleVersionEvent(context.Background(), dto.VersionEvent{Type: dto.VersionSaved, VersionId: id}))
}

func TestHub_LeaveAndJoinAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, logger.NewNopLogger())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := newClient(hub, nil, uuid.New())
	require.True(t, hub.join(c))

	cancel()
	<-stopped

	left := make(chan struct{})
	go func() {
		hub.leave(c)
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("leave blocked on a stopped hub")
	}

	select {
	case <-c.done:
	default:
		t.Fatal("client was not closed")
	}

	assert.False(t, hub.join(newClient(hub, nil, uuid.New())))
}

type recordingHandler struct {
	mu     sync.Mutex
	events []dto.VersionEvent
}

func (r *recordingHandler) HandleVersionEvent(ctx context.Context, event dto.VersionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func TestHub_RelayedEvents(t *testing.T) {
	hub := startHub(t)
	rec := &recordingHandler{}
	hub.RelayTo(rec)

	id := uuid.New()
	watcher := newClient(hub, nil, id)
	require.True(t, hub.join(watcher))
	require.Eventually(t, func() bool { return hub.Watchers(id) == 1 }, time.Second, 5*time.Millisecond)

	event := dto.VersionEvent{Type: dto.VersionSaved, VersionId: id, Step: 7}
	data, err := json.Marshal(map[string]interface{}{"type": "version_saved", "data": event})
	require.NoError(t, err)

	relay := func(origin string) []byte {
		raw, err := json.Marshal(clusterMessage{Origin: origin, TargetVersionId: id.String(), Message: data})
		require.NoError(t, err)
		return raw
	}

	// our own messages come back from Redis too and are ignored
	hub.handleCluster(context.Background(), relay(hub.instanceId))
	assert.Empty(t, rec.events)
	assert.Empty(t, watcher.Send)

	hub.handleCluster(context.Background(), relay("other-instance"))

	require.Len(t, rec.events, 1)
	assert.Equal(t, dto.VersionSaved, rec.events[0].Type)
	assert.Equal(t, id, rec.events[0].VersionId)
	assert.Equal(t, 7, rec.events[0].Step)
	assert.JSONEq(t, string(data), string(<-watcher.Send))
}
