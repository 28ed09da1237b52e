package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"resume-turns-be/internal/dto"
	"resume-turns-be/internal/entity"
	"resume-turns-be/internal/pkg/logger"
	"resume-turns-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relayPublisher hands every event straight to the sinks, the way the
// cluster relay reaches the other instances.
type relayPublisher struct {
	sinks []VersionEventSink
}

func (p *relayPublisher) Publish(ctx context.Context, event dto.VersionEvent) error {
	for _, sink := range p.sinks {
		if err := sink.HandleVersionEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func stepOf(t *testing.T, payload json.RawMessage) int {
	t.Helper()
	var p struct {
		Step int `json:"step"`
	}
	require.NoError(t, json.Unmarshal(payload, &p))
	return p.Step
}

func TestCacheEventSink_InstancesSharingAStoreSeeEachOthersWrites(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewRepositoryFactory(memory.NewVersionStore())

	cacheA := memory.NewVersionCache(time.Minute)
	cacheB := memory.NewVersionCache(time.Minute)
	busA := &relayPublisher{}
	busB := &relayPublisher{}
	busA.sinks = []VersionEventSink{NewCacheEventSink(cacheA), NewCacheEventSink(cacheB)}
	busB.sinks = []VersionEventSink{NewCacheEventSink(cacheB), NewCacheEventSink(cacheA)}

	a := NewVersionService(factory, cacheA, busA, logger.NewNopLogger())
	b := NewVersionService(factory, cacheB, busB, logger.NewNopLogger())

	created, err := a.Create(ctx, nil, &dto.CreateVersionRequest{Name: "draft", Payload: json.RawMessage(validPayload)})
	require.NoError(t, err)

	seen, err := b.Show(ctx, nil, created.Id)
	require.NoError(t, err)
	require.Equal(t, 2, stepOf(t, seen.Payload))

	newer := strings.Replace(validPayload, `"step": 2`, `"step": 7`, 1)
	_, err = a.Replace(ctx, nil, &dto.ReplaceVersionRequest{Id: created.Id, Payload: json.RawMessage(newer)})
	require.NoError(t, err)

	seen, err = b.Show(ctx, nil, created.Id)
	require.NoError(t, err)
	assert.Equal(t, 7, stepOf(t, seen.Payload))

	_, err = a.Rename(ctx, nil, &dto.RenameVersionRequest{Id: created.Id, Name: "final"})
	require.NoError(t, err)

	seen, err = b.Show(ctx, nil, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "final", seen.Name)
}

func TestCacheEventSink_EvictsOnWritesOnly(t *testing.T) {
	tests := []struct {
		eventType string
		evicted   bool
	}{
		{dto.VersionSaved, true},
		{dto.VersionRenamed, true},
		{dto.VersionCreated, false},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			cache := memory.NewVersionCache(time.Minute)
			v := &entity.Version{Id: uuid.New(), Payload: json.RawMessage(`{}`)}
			cache.Save(v)

			err := NewCacheEventSink(cache).HandleVersionEvent(context.Background(), dto.VersionEvent{Type: tt.eventType, VersionId: v.Id})
			require.NoError(t, err)

			_, ok := cache.Get(v.Id)
			assert.Equal(t, !tt.evicted, ok)
		})
	}
}

func TestCacheEventSink_NilCache(t *testing.T) {
	svc := NewVersionService(
		memory.NewRepositoryFactory(memory.NewVersionStore()),
		nil,
		&relayPublisher{sinks: []VersionEventSink{NewCacheEventSink(nil)}},
		logger.NewNopLogger(),
	)

	created, err := svc.Create(context.Background(), nil, &dto.CreateVersionRequest{Payload: json.RawMessage(validPayload)})
	require.NoError(t, err)
	_, err = svc.Replace(context.Background(), nil, &dto.ReplaceVersionRequest{Id: created.Id, Payload: json.RawMessage(validPayload)})
	require.NoError(t, err)

	seen, err := svc.Show(context.Background(), nil, created.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, stepOf(t, seen.Payload))
}
