package memory

import (
	"encoding/json"
	"testing"
	"time"

	"resume-turns-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCache(t *testing.T) {
	c := NewVersionCache(time.Minute)
	v := &entity.Version{Id: uuid.New(), Name: "draft", Payload: json.RawMessage(`{"step":1}`)}

	c.Save(v)
	v.Payload[0] = 'X'

	got, ok := c.Get(v.Id)
	require.True(t, ok)
	assert.Equal(t, "draft", got.Name)
	assert.JSONEq(t, `{"step":1}`, string(got.Payload))

	c.Delete(v.Id)
	_, ok = c.Get(v.Id)
	assert.False(t, ok)
}

func TestVersionCache_Expires(t *testing.T) {
	c := NewVersionCache(10 * time.Millisecond)
	v := &entity.Version{Id: uuid.New(), Payload: json.RawMessage(`{}`)}
	c.Save(v)

	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get(v.Id)
	assert.False(t, ok)
}
