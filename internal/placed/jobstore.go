// Package placed is the placement daemon: it tracks optimisation jobs,
// executes them asynchronously and serves the HTTP API.
package placed

import (
	"fmt"
	"sync"
	"time"

	"github.com/urbansense/placement-core/pkg/models"
	"github.com/urbansense/placement-core/pkg/utils"
)

// JobRecord is a job plus its results once the optimiser has produced them
type JobRecord struct {
	Job        models.Job
	Network    *models.NetworkRecord
	Population *models.PopulationRecord
}

// JobStore is the in-memory registry of optimisation jobs
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*JobRecord
}

func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*JobRecord),
	}
}

func nowUnixMs() int64 {
	return time.Now().UTC().UnixMilli()
}

// Create registers a new pending job for the given parameters
func (s *JobStore) Create(params models.JobParams) (*JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobID := utils.GenerateJobID()
	if _, exists := s.jobs[jobID]; exists {
		return nil, fmt.Errorf("job already exists: %s", jobID)
	}

	rec := &JobRecord{
		Job: models.Job{
			ID:              jobID,
			Status:          models.JobStatusPending,
			Params:          params,
			CreatedAtUnixMs: nowUnixMs(),
		},
	}
	s.jobs[jobID] = rec
	return snapshot(rec), nil
}

// Get returns a snapshot of a job record
func (s *JobStore) Get(jobID string) (*JobRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.jobs[jobID]
	if !ok {
		return nil, false
	}
	return snapshot(rec), true
}

// List returns snapshots of up to limit job records
func (s *JobStore) List(limit int) []*JobRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	out := make([]*JobRecord, 0, utils.Min(limit, len(s.jobs)))
	for _, rec := range s.jobs {
		out = append(out, snapshot(rec))
		if len(out) >= limit {
			break
		}
	}
	return out
}

// SetStatus transitions a job and stamps the matching timestamps. A job
// already in a terminal status stays there.
func (s *JobStore) SetStatus(jobID string, status models.JobStatus, errMsg string) (*JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if rec.Job.Status.Terminal() {
		return snapshot(rec), nil
	}

	rec.Job.Status = status
	if errMsg != "" {
		rec.Job.Error = errMsg
	}

	switch status {
	case models.JobStatusRunning:
		if rec.Job.StartedAtUnixMs == 0 {
			rec.Job.StartedAtUnixMs = nowUnixMs()
		}
	case models.JobStatusCompleted, models.JobStatusFailed, models.JobStatusCancelled:
		rec.Job.EndedAtUnixMs = nowUnixMs()
	}

	return snapshot(rec), nil
}

// SetProgress updates the progress fraction and detail of a running job
func (s *JobStore) SetProgress(jobID string, progress float64, detail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.jobs[jobID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	rec.Job.Progress = utils.ClampFloat64(progress, 0, 1)
	rec.Job.StatusDetail = detail
	return nil
}

// SetNetworkResult attaches a single-network result to a job
func (s *JobStore) SetNetworkResult(jobID string, network *models.NetworkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.jobs[jobID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	rec.Network = network
	return nil
}

// SetPopulationResult attaches a population result to a job
func (s *JobStore) SetPopulationResult(jobID string, population *models.PopulationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.jobs[jobID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	rec.Population = population
	return nil
}

// snapshot copies the mutable job state. Result records are written once
// and shared.
func snapshot(rec *JobRecord) *JobRecord {
	out := *rec
	return &out
}
