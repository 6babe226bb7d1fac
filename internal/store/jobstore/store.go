// Package jobstore implements durable CRUD over the job requisition
// collection. The whole collection lives in one serialized snapshot behind an
// injectable Backend; every mutation is a read-modify-write of that snapshot.
package jobstore

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	stderrors "recruitdesk/internal/common/errors"
	"recruitdesk/internal/common/logger"
	"recruitdesk/internal/common/metrics"
	"recruitdesk/internal/events"
	"recruitdesk/internal/latency"
	"recruitdesk/internal/models"
)

const storeName = "jobs"

// Store is the job requisition store. Operations resolve to envelopes and
// never return Go errors; lookups that miss produce failure envelopes and
// storage write failures degrade to logged metrics while the caller still
// sees success, matching the original mock's contract.
type Store struct {
	backend Backend
	sim     latency.Simulator
	logger  logger.Logger
	bus     *events.Bus

	// serializes read-modify-write cycles within this process; cross-process
	// writers still race last-writer-wins, as documented.
	mu sync.Mutex

	now func() time.Time
}

func New(backend Backend, sim latency.Simulator, log logger.Logger, bus *events.Bus) *Store {
	return &Store{
		backend: backend,
		sim:     sim,
		logger:  log.WithFields(map[string]interface{}{"store": storeName}),
		bus:     bus,
		now:     time.Now,
	}
}

// List returns the full collection, lazily seeding the fixed example jobs
// when no snapshot exists yet. Never fails: a snapshot that cannot be read or
// parsed degrades to the seed set (without persisting it).
func (s *Store) List(ctx context.Context) models.Response[[]models.JobRequisition] {
	start := s.now()
	if err := s.sim.Wait(ctx); err != nil {
		return cancelled[[]models.JobRequisition](s, "List", err, start)
	}

	s.mu.Lock()
	jobs, _ := s.loadOrSeed(ctx)
	s.mu.Unlock()

	s.observe("List", "success", start)
	return models.OK(jobs)
}

// Create assigns the next monotonic id, stamps status/counters/timestamps and
// persists the appended collection. Request fields are taken as-is; the store
// validates nothing beyond shape.
func (s *Store) Create(ctx context.Context, req models.CreateJobRequest) models.Response[*models.JobRequisition] {
	start := s.now()
	if err := s.sim.Wait(ctx); err != nil {
		return cancelled[*models.JobRequisition](s, "Create", err, start)
	}

	s.mu.Lock()
	jobs, _ := s.loadOrSeed(ctx)

	now := s.timestamp()
	job := models.JobRequisition{
		ID:               nextID(jobs),
		Title:            req.Title,
		Department:       req.Department,
		Location:         req.Location,
		EmploymentType:   req.EmploymentType,
		HiringManager:    req.HiringManager,
		TargetYearsMin:   req.TargetYearsMin,
		TargetYearsMax:   req.TargetYearsMax,
		RequiredSkills:   req.RequiredSkills,
		NiceToHaveSkills: req.NiceToHaveSkills,
		Description:      req.Description,
		Status:           models.JobStatusActive,
		CandidateCount:   0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if job.RequiredSkills == nil {
		job.RequiredSkills = []string{}
	}
	if job.NiceToHaveSkills == nil {
		job.NiceToHaveSkills = []string{}
	}

	jobs = append(jobs, job)
	s.persist(ctx, "Create", jobs)
	s.mu.Unlock()

	s.logger.Info("requisition created", map[string]interface{}{
		"jobId": job.ID,
		"title": job.Title,
	})
	s.publish(ctx, events.TopicJobCreated, events.JobEvent{Job: job})
	s.observe("Create", "success", start)
	return models.OK(&job)
}

// UpdateStatus replaces the status of an existing requisition and refreshes
// updatedAt; createdAt and every other field are untouched.
func (s *Store) UpdateStatus(ctx context.Context, id string, status models.JobStatus) models.Response[*models.JobRequisition] {
	start := s.now()
	if err := s.sim.Wait(ctx); err != nil {
		return cancelled[*models.JobRequisition](s, "UpdateStatus", err, start)
	}

	s.mu.Lock()
	jobs, _ := s.loadOrSeed(ctx)

	idx := -1
	for i := range jobs {
		if jobs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		s.logger.WithError(stderrors.NewJobNotFoundError(id)).Warn("status update for unknown requisition", nil)
		s.observe("UpdateStatus", "not_found", start)
		return models.Fail[*models.JobRequisition]("Job not found")
	}

	jobs[idx].Status = status
	jobs[idx].UpdatedAt = s.timestamp()
	updated := jobs[idx]
	s.persist(ctx, "UpdateStatus", jobs)
	s.mu.Unlock()

	s.publish(ctx, events.TopicJobStatusChanged, events.JobEvent{Job: updated})
	s.observe("UpdateStatus", "success", start)
	return models.OK(&updated)
}

// Delete removes the requisition if present. Deleting an unknown id is not an
// error; the envelope is success either way and Data is always nil.
func (s *Store) Delete(ctx context.Context, id string) models.Response[*models.JobRequisition] {
	start := s.now()
	if err := s.sim.Wait(ctx); err != nil {
		return cancelled[*models.JobRequisition](s, "Delete", err, start)
	}

	s.mu.Lock()
	jobs, _ := s.loadOrSeed(ctx)

	var removed *models.JobRequisition
	kept := jobs[:0]
	for i := range jobs {
		if jobs[i].ID == id && removed == nil {
			j := jobs[i]
			removed = &j
			continue
		}
		kept = append(kept, jobs[i])
	}
	s.persist(ctx, "Delete", kept)
	s.mu.Unlock()

	if removed != nil {
		s.publish(ctx, events.TopicJobDeleted, events.JobEvent{Job: *removed})
	}
	s.observe("Delete", "success", start)
	return models.OK[*models.JobRequisition](nil)
}

// loadOrSeed reads the current collection. A missing snapshot seeds the fixed
// example jobs and persists them; a snapshot that cannot be read or parsed
// degrades to the seed set without persisting, so a later healthy read still
// sees whatever the backend holds.
func (s *Store) loadOrSeed(ctx context.Context) ([]models.JobRequisition, bool) {
	data, exists, err := s.backend.Load(ctx)
	if err != nil {
		s.logger.WithError(stderrors.NewStorageReadFailedError(err)).Error("snapshot read failed, serving seed set", nil)
		return seedJobs(), true
	}
	if !exists {
		jobs := seedJobs()
		s.persist(ctx, "seed", jobs)
		return jobs, true
	}

	var jobs []models.JobRequisition
	if err := json.Unmarshal(data, &jobs); err != nil {
		s.logger.WithError(stderrors.NewSnapshotCorruptedError(err)).Error("snapshot corrupted, serving seed set", nil)
		return seedJobs(), true
	}
	return jobs, false
}

// persist rewrites the whole snapshot. Write failures are logged and counted
// but deliberately not surfaced: the in-memory effect already happened and
// the caller is told success, preserving the original mock's contract.
func (s *Store) persist(ctx context.Context, operation string, jobs []models.JobRequisition) {
	data, err := json.Marshal(jobs)
	if err != nil {
		metrics.SnapshotWriteFailures.Inc()
		s.logger.WithError(stderrors.NewStorageWriteFailedError(err)).Error("snapshot marshal failed", map[string]interface{}{
			"operation": operation,
		})
		return
	}
	if err := s.backend.Save(ctx, data); err != nil {
		metrics.SnapshotWriteFailures.Inc()
		s.logger.WithError(stderrors.NewStorageWriteFailedError(err)).Error("snapshot write failed", map[string]interface{}{
			"operation": operation,
		})
	}
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

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// cancelled converts a simulator/context error into a failure envelope.
// Methods cannot be generic, hence the free function.
func cancelled[T any](s *Store, operation string, err error, start time.Time) models.Response[T] {
	s.logger.WithError(stderrors.NewOperationCancelledError(err)).Warn("operation cancelled", map[string]interface{}{
		"operation": operation,
	})
	s.observe(operation, "cancelled", start)
	return models.Fail[T]("operation cancelled")
}

// nextID is max(parseInt(existing ids) defaulting to 0) + 1, rendered as a
// decimal string.
func nextID(jobs []models.JobRequisition) string {
	max := 0
	for i := range jobs {
		if n, err := strconv.Atoi(jobs[i].ID); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}
