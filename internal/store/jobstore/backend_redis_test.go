package jobstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestRedisBackendRoundTrip(t *testing.T) {
	_, client := setupRedis(t)
	backend := NewRedisBackend(client, "job_requisitions")
	ctx := context.Background()

	data, exists, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, data)

	payload := []byte(`[{"id":"1"}]`)
	require.NoError(t, backend.Save(ctx, payload))

	data, exists, err = backend.Load(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, payload, data)
}

func TestRedisBackendOverwrites(t *testing.T) {
	mr, client := setupRedis(t)
	backend := NewRedisBackend(client, "job_requisitions")
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, []byte(`[]`)))
	require.NoError(t, backend.Save(ctx, []byte(`[{"id":"1"}]`)))

	got, err := mr.Get("job_requisitions")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, got)
}

func TestRedisBackendLoadError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("job_requisitions").SetErr(errors.New("connection reset"))

	backend := NewRedisBackend(client, "job_requisitions")
	_, exists, err := backend.Load(context.Background())

	assert.Error(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBackendSaveError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectSet("job_requisitions", []byte(`[]`), 0).SetErr(errors.New("readonly replica"))

	backend := NewRedisBackend(client, "job_requisitions")
	err := backend.Save(context.Background(), []byte(`[]`))

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
