// Package cvstore holds uploaded CVs per job, entirely in process memory.
// Uploads are assigned parsed profiles from a fixed pool in round-robin order;
// the assignment cursor and the cv id counter are store-wide, so ordering is
// observable across jobs.
package cvstore

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	stderrors "recruitdesk/internal/common/errors"
	"recruitdesk/internal/common/logger"
	"recruitdesk/internal/common/metrics"
	"recruitdesk/internal/events"
	"recruitdesk/internal/latency"
	"recruitdesk/internal/models"
)

const storeName = "cvs"

// Store is the in-memory CV store. Same envelope contract as the job store:
// operations never return Go errors, misses come back as failure envelopes.
type Store struct {
	sim    latency.Simulator
	logger logger.Logger
	bus    *events.Bus

	mu     sync.Mutex
	byJob  map[string][]models.CV
	cursor int // next pool index, global across jobs
	nextID int // next cv number, ids are "cv1", "cv2", ...

	now func() time.Time
	rng *rand.Rand
}

func New(sim latency.Simulator, log logger.Logger, bus *events.Bus) *Store {
	return &Store{
		sim:    sim,
		logger: log.WithFields(map[string]interface{}{"store": storeName}),
		bus:    bus,
		byJob:  make(map[string][]models.CV),
		nextID: 1,
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ListForJob returns the CVs uploaded against a job, oldest first. A job with
// no uploads yields an empty slice, never nil and never a failure; the store
// does not know which job ids exist.
func (s *Store) ListForJob(ctx context.Context, jobID string) models.Response[[]models.CV] {
	start := s.now()
	if err := s.sim.Wait(ctx); err != nil {
		return cancelled[[]models.CV](s, "ListForJob", err, start)
	}

	s.mu.Lock()
	cvs := append([]models.CV{}, s.byJob[jobID]...)
	s.mu.Unlock()

	s.observe("ListForJob", "success", start)
	return models.OK(cvs)
}

// Upload records a single CV against a job. The caller's file name and size
// are discarded; both are fabricated from the profile the pool cursor assigns,
// so the stored record is internally consistent.
func (s *Store) Upload(ctx context.Context, jobID string, file models.UploadedFile) models.Response[*models.CV] {
	start := s.now()
	if err := s.sim.Wait(ctx); err != nil {
		return cancelled[*models.CV](s, "Upload", err, start)
	}

	s.mu.Lock()
	cv := s.assign(jobID)
	s.mu.Unlock()

	s.logger.Info("cv uploaded", map[string]interface{}{
		"jobId":    jobID,
		"cvId":     cv.ID,
		"fileName": cv.FileName,
	})
	s.publish(ctx, events.TopicCVUploaded, events.CVEvent{JobID: jobID, CV: cv})
	s.observe("Upload", "success", start)
	return models.OK(&cv)
}

// UploadMany records a batch of CVs in one operation under a single latency
// wait. Profiles are assigned in batch order, continuing wherever the global
// cursor last stopped.
func (s *Store) UploadMany(ctx context.Context, jobID string, files []models.UploadedFile) models.Response[[]models.CV] {
	start := s.now()
	if err := s.sim.Wait(ctx); err != nil {
		return cancelled[[]models.CV](s, "UploadMany", err, start)
	}

	s.mu.Lock()
	created := make([]models.CV, 0, len(files))
	for range files {
		created = append(created, s.assign(jobID))
	}
	s.mu.Unlock()

	s.logger.Info("cv batch uploaded", map[string]interface{}{
		"jobId": jobID,
		"count": len(created),
	})
	for i := range created {
		s.publish(ctx, events.TopicCVUploaded, events.CVEvent{JobID: jobID, CV: created[i]})
	}
	s.observe("UploadMany", "success", start)
	return models.OK(created)
}

// UpdateStatus moves a CV to a new review state. Unknown job and unknown CV
// are distinct failures so callers can tell a stale job id from a stale cv id.
func (s *Store) UpdateStatus(ctx context.Context, jobID, cvID string, status models.CVStatus) models.Response[*models.CV] {
	start := s.now()
	if err := s.sim.Wait(ctx); err != nil {
		return cancelled[*models.CV](s, "UpdateStatus", err, start)
	}

	s.mu.Lock()
	cvs, ok := s.byJob[jobID]
	if !ok {
		s.mu.Unlock()
		s.logger.WithError(stderrors.NewJobNotFoundError(jobID)).Warn("status update for unknown job", nil)
		s.observe("UpdateStatus", "not_found", start)
		return models.Fail[*models.CV]("Job not found")
	}

	idx := -1
	for i := range cvs {
		if cvs[i].ID == cvID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		s.logger.WithError(stderrors.NewCVNotFoundError(jobID, cvID)).Warn("status update for unknown cv", nil)
		s.observe("UpdateStatus", "not_found", start)
		return models.Fail[*models.CV]("CV not found")
	}

	cvs[idx].Status = status
	updated := cvs[idx]
	s.mu.Unlock()

	s.publish(ctx, events.TopicCVStatusChanged, events.CVEvent{JobID: jobID, CV: updated})
	s.observe("UpdateStatus", "success", start)
	return models.OK(&updated)
}

// Delete removes a CV from a job's list. Unknown job or cv id is not an
// error; the envelope is success either way.
func (s *Store) Delete(ctx context.Context, jobID, cvID string) models.Response[*models.CV] {
	start := s.now()
	if err := s.sim.Wait(ctx); err != nil {
		return cancelled[*models.CV](s, "Delete", err, start)
	}

	s.mu.Lock()
	cvs := s.byJob[jobID]
	kept := cvs[:0]
	for i := range cvs {
		if cvs[i].ID != cvID {
			kept = append(kept, cvs[i])
		}
	}
	if len(cvs) > 0 {
		s.byJob[jobID] = kept
	}
	s.mu.Unlock()

	s.observe("Delete", "success", start)
	return models.OK[*models.CV](nil)
}

// DeleteForJob drops every CV belonging to a job. Called when the job itself
// is deleted so orphaned lists don't accumulate.
func (s *Store) DeleteForJob(ctx context.Context, jobID string) models.Response[*models.CV] {
	start := s.now()
	if err := s.sim.Wait(ctx); err != nil {
		return cancelled[*models.CV](s, "DeleteForJob", err, start)
	}

	s.mu.Lock()
	delete(s.byJob, jobID)
	s.mu.Unlock()

	s.observe("DeleteForJob", "success", start)
	return models.OK[*models.CV](nil)
}

// assign builds the next CV record and appends it to the job's list. Caller
// holds s.mu.
func (s *Store) assign(jobID string) models.CV {
	parsed := profileAt(s.cursor)
	s.cursor++

	cv := models.CV{
		ID:         fmt.Sprintf("cv%d", s.nextID),
		FileName:   fileNameFor(parsed.Name),
		FileSize:   s.fileSize(),
		UploadedAt: s.now().UTC().Format(time.RFC3339Nano),
		Status:     models.CVStatusPending,
		Parsed:     &parsed,
	}
	s.nextID++

	s.byJob[jobID] = append(s.byJob[jobID], cv)
	return cv
}

// fileNameFor derives a plausible resume file name from the profile name,
// e.g. "Elena Vasquez" -> "elena_vasquez_resume.pdf".
func fileNameFor(name string) string {
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	return slug + "_resume.pdf"
}

// fileSize fabricates a size between 100KB and 2MB. Caller holds s.mu.
func (s *Store) fileSize() int64 {
	const min, max = 100 << 10, 2 << 20
	return int64(min + s.rng.Intn(max-min))
}

func (s *Store) publish(ctx context.Context, topic events.Topic, payload interface{}) {
	if s.bus != nil {
		s.bus.Publish(ctx, topic, payload)
	}
}

func (s *Store) observe(operation, outcome string, start time.Time) {
	metrics.StoreOperationsTotal.WithLabelValues(storeName, operation, outcome).Inc()
	metrics.StoreOperationDuration.WithLabelValues(storeName, operation).Observe(s.now().Sub(start).Seconds())
}

func cancelled[T any](s *Store, operation string, err error, start time.Time) models.Response[T] {
	s.logger.WithError(stderrors.NewOperationCancelledError(err)).Warn("operation cancelled", map[string]interface{}{
		"operation": operation,
	})
	s.observe(operation, "cancelled", start)
	return models.Fail[T]("operation cancelled")
}
