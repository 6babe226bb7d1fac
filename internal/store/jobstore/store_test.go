package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitdesk/internal/common/logger"
	"recruitdesk/internal/events"
	"recruitdesk/internal/latency"
	"recruitdesk/internal/models"
)

// failingSaveBackend reads from the wrapped backend but refuses every write.
type failingSaveBackend struct {
	inner Backend
}

func (f *failingSaveBackend) Load(ctx context.Context) ([]byte, bool, error) {
	return f.inner.Load(ctx)
}

func (f *failingSaveBackend) Save(ctx context.Context, data []byte) error {
	return errors.New("disk full")
}

// erroringLoadBackend fails every read.
type erroringLoadBackend struct{}

func (erroringLoadBackend) Load(ctx context.Context) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (erroringLoadBackend) Save(ctx context.Context, data []byte) error {
	return nil
}

func newTestStore(t *testing.T, backend Backend, bus *events.Bus) *Store {
	t.Helper()
	s := New(backend, latency.NewNoop(), logger.NewTestLogger(t), bus)

	// deterministic strictly increasing clock
	var tick int64
	s.now = func() time.Time {
		n := atomic.AddInt64(&tick, 1)
		return time.Unix(1700000000, n*1000).UTC()
	}
	return s
}

func preload(t *testing.T, backend Backend, jobs []models.JobRequisition) {
	t.Helper()
	data, err := json.Marshal(jobs)
	require.NoError(t, err)
	require.NoError(t, backend.Save(context.Background(), data))
}

func TestListSeedsOnFirstUse(t *testing.T) {
	backend := NewMemoryBackend()
	s := newTestStore(t, backend, nil)

	resp := s.List(context.Background())
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 4)
	assert.Equal(t, "1", resp.Data[0].ID)
	assert.Equal(t, "Senior Frontend Engineer", resp.Data[0].Title)

	// the seed was persisted, a fresh store over the same backend sees it
	data, exists, err := backend.Load(context.Background())
	require.NoError(t, err)
	require.True(t, exists)

	var persisted []models.JobRequisition
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Len(t, persisted, 4)
}

func TestCreateOnEmptyStore(t *testing.T) {
	backend := NewMemoryBackend()
	preload(t, backend, []models.JobRequisition{})
	s := newTestStore(t, backend, nil)

	resp := s.Create(context.Background(), models.CreateJobRequest{
		Title:      "First Hire",
		Department: "Engineering",
	})
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)

	job := resp.Data
	assert.Equal(t, "1", job.ID)
	assert.Equal(t, models.JobStatusActive, job.Status)
	assert.Equal(t, 0, job.CandidateCount)
	assert.Equal(t, job.CreatedAt, job.UpdatedAt)
	assert.NotNil(t, job.RequiredSkills)
	assert.NotNil(t, job.NiceToHaveSkills)
}

func TestCreateAssignsNextIDPastMax(t *testing.T) {
	backend := NewMemoryBackend()
	preload(t, backend, []models.JobRequisition{
		{ID: "2", Title: "A"},
		{ID: "5", Title: "B"},
		{ID: "3", Title: "C"},
	})
	s := newTestStore(t, backend, nil)

	resp := s.Create(context.Background(), models.CreateJobRequest{Title: "D"})
	require.True(t, resp.Success)
	assert.Equal(t, "6", resp.Data.ID)

	// ids keep climbing even after the max row is deleted
	s.Delete(context.Background(), "6")
	again := s.Create(context.Background(), models.CreateJobRequest{Title: "E"})
	require.True(t, again.Success)
	assert.Equal(t, "6", again.Data.ID)
}

func TestCreateOverSeededStore(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend(), nil)

	s.List(context.Background()) // trigger the seed
	resp := s.Create(context.Background(), models.CreateJobRequest{Title: "Next"})
	require.True(t, resp.Success)
	assert.Equal(t, "5", resp.Data.ID)
}

func TestUpdateStatusTouchesOnlyStatusAndUpdatedAt(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend(), nil)
	ctx := context.Background()

	created := s.Create(ctx, models.CreateJobRequest{Title: "X", Department: "Eng"})
	require.True(t, created.Success)
	before := *created.Data

	resp := s.UpdateStatus(ctx, before.ID, models.JobStatusPaused)
	require.True(t, resp.Success)
	after := resp.Data

	assert.Equal(t, models.JobStatusPaused, after.Status)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.Equal(t, before.Title, after.Title)
	assert.Greater(t, after.UpdatedAt, before.UpdatedAt)
}

func TestUpdateStatusUnknownJob(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend(), nil)

	resp := s.UpdateStatus(context.Background(), "999", models.JobStatusClosed)
	assert.False(t, resp.Success)
	assert.Equal(t, "Job not found", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend(), nil)
	ctx := context.Background()

	first := s.Delete(ctx, "1")
	assert.True(t, first.Success)
	assert.Nil(t, first.Data)

	second := s.Delete(ctx, "1")
	assert.True(t, second.Success)

	unknown := s.Delete(ctx, "does-not-exist")
	assert.True(t, unknown.Success)

	list := s.List(ctx)
	require.Len(t, list.Data, 3)
	for _, job := range list.Data {
		assert.NotEqual(t, "1", job.ID)
	}
}

func TestCorruptSnapshotServesSeedWithoutPersisting(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save(context.Background(), []byte("{not json")))
	s := newTestStore(t, backend, nil)

	resp := s.List(context.Background())
	require.True(t, resp.Success)
	assert.Len(t, resp.Data, 4)

	// the corrupt snapshot was not overwritten by the read path
	data, _, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("{not json"), data)
}

func TestReadFailureServesSeed(t *testing.T) {
	s := newTestStore(t, erroringLoadBackend{}, nil)

	resp := s.List(context.Background())
	require.True(t, resp.Success)
	assert.Len(t, resp.Data, 4)
}

func TestWriteFailureStillReportsSuccess(t *testing.T) {
	inner := NewMemoryBackend()
	preload(t, inner, []models.JobRequisition{})
	s := newTestStore(t, &failingSaveBackend{inner: inner}, nil)

	resp := s.Create(context.Background(), models.CreateJobRequest{Title: "Lost"})
	require.True(t, resp.Success)
	assert.Equal(t, "1", resp.Data.ID)

	// the write never landed
	list := s.List(context.Background())
	assert.Empty(t, list.Data)
}

func TestCancelledContext(t *testing.T) {
	s := New(NewMemoryBackend(), latency.NewDefault(), logger.NewTestLogger(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := s.List(ctx)
	assert.False(t, resp.Success)
	assert.Equal(t, "operation cancelled", resp.Message)
}

func TestMutationsPublishEvents(t *testing.T) {
	bus := events.NewBus(8, logger.NewTestLogger(t))
	defer bus.Close()

	createdCh, cancelCreated := bus.Subscribe(events.TopicJobCreated)
	defer cancelCreated()
	deletedCh, cancelDeleted := bus.Subscribe(events.TopicJobDeleted)
	defer cancelDeleted()

	s := newTestStore(t, NewMemoryBackend(), bus)
	ctx := context.Background()

	created := s.Create(ctx, models.CreateJobRequest{Title: "Evented"})
	require.True(t, created.Success)

	select {
	case evt := <-createdCh:
		payload, ok := evt.Payload.(events.JobEvent)
		require.True(t, ok)
		assert.Equal(t, created.Data.ID, payload.Job.ID)
	case <-time.After(time.Second):
		t.Fatal("no job.created event")
	}

	s.Delete(ctx, created.Data.ID)
	select {
	case evt := <-deletedCh:
		payload := evt.Payload.(events.JobEvent)
		assert.Equal(t, created.Data.ID, payload.Job.ID)
	case <-time.After(time.Second):
		t.Fatal("no job.deleted event")
	}

	// deleting an unknown id publishes nothing
	s.Delete(ctx, "nope")
	select {
	case <-deletedCh:
		t.Fatal("unexpected event for idempotent delete")
	default:
	}
}

func TestNextID(t *testing.T) {
	assert.Equal(t, "1", nextID(nil))
	assert.Equal(t, "1", nextID([]models.JobRequisition{{ID: "abc"}}))
	assert.Equal(t, "8", nextID([]models.JobRequisition{{ID: "7"}, {ID: "abc"}, {ID: "3"}}))
}
