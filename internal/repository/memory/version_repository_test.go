package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"resume-turns-be/internal/entity"
	"resume-turns-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedStore() *VersionStore {
	s := NewVersionStore()
	tick := 0
	s.now = func() time.Time {
		tick++
		return time.Date(2024, 1, 1, 0, 0, tick, 0, time.UTC)
	}
	return s
}

func TestVersionStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := newClockedStore()
	owner := uuid.New()

	a := &entity.Version{Id: uuid.New(), Name: "a", Payload: json.RawMessage(`{"step":0}`)}
	b := &entity.Version{Id: uuid.New(), Name: "b", UserId: &owner, Payload: json.RawMessage(`{"step":1}`)}
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))
	assert.Error(t, s.Create(ctx, a))

	t.Run("by id", func(t *testing.T) {
		got, err := s.FindOne(ctx, specification.ByID{ID: b.Id})
		require.NoError(t, err)
		assert.Equal(t, "b", got.Name)
		assert.JSONEq(t, `{"step":1}`, string(got.Payload))
	})

	t.Run("missing", func(t *testing.T) {
		got, err := s.FindOne(ctx, specification.ByID{ID: uuid.New()})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("newest first without payload", func(t *testing.T) {
		got, err := s.FindAll(ctx, specification.WithoutPayload{}, specification.OrderBy{Field: "created_at", Desc: true})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "b", got[0].Name)
		assert.Nil(t, got[0].Payload)
	})

	t.Run("owned by", func(t *testing.T) {
		got, err := s.FindAll(ctx, specification.OwnedBy{UserId: &owner})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, b.Id, got[0].Id)

		all, err := s.FindAll(ctx, specification.OwnedBy{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("pagination", func(t *testing.T) {
		got, err := s.FindAll(ctx, specification.OrderBy{Field: "created_at"}, specification.Pagination{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "b", got[0].Name)

		count, err := s.Count(ctx, specification.Pagination{Limit: 5, Offset: 9})
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestVersionStore_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := newClockedStore()
	v := &entity.Version{Id: uuid.New(), Name: "draft"}
	require.NoError(t, s.Create(ctx, v))
	created := v.CreatedAt

	v.Name = "final"
	v.CreatedAt = time.Time{}
	require.NoError(t, s.Update(ctx, v))

	got, err := s.FindOne(ctx, specification.ByID{ID: v.Id})
	require.NoError(t, err)
	assert.Equal(t, "final", got.Name)
	assert.Equal(t, created, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(created))

	assert.Error(t, s.Update(ctx, &entity.Version{Id: uuid.New()}))
}

func TestVersionStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewVersionStore()
	v := &entity.Version{Id: uuid.New(), Name: "x", Payload: json.RawMessage(`{}`)}
	require.NoError(t, s.Create(ctx, v))

	got, err := s.FindOne(ctx, specification.ByID{ID: v.Id})
	require.NoError(t, err)
	got.Name = "mutated"
	got.Payload[0] = '['

	again, err := s.FindOne(ctx, specification.ByID{ID: v.Id})
	require.NoError(t, err)
	assert.Equal(t, "x", again.Name)
	assert.Equal(t, `{}`, string(again.Payload))
}

func TestVersionStore_UnsupportedSpecification(t *testing.T) {
	_, err := NewVersionStore().FindAll(context.Background(), specification.OrderBy{Field: "payload"})
	assert.Error(t, err)
}

func TestUnitOfWork_Transactions(t *testing.T) {
	ctx := context.Background()
	uow := NewRepositoryFactory(NewVersionStore()).NewUnitOfWork(ctx)

	assert.Error(t, uow.Commit())
	require.NoError(t, uow.Begin(ctx))
	assert.Error(t, uow.Begin(ctx))
	require.NoError(t, uow.Commit())
	assert.Error(t, uow.Rollback())
	assert.NotNil(t, uow.VersionRepository())
}
