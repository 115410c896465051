package placed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/urbansense/placement-core/internal/coverage"
	"github.com/urbansense/placement-core/internal/evolve"
	"github.com/urbansense/placement-core/internal/greedy"
	"github.com/urbansense/placement-core/internal/objective"
	"github.com/urbansense/placement-core/internal/optimise"
	"github.com/urbansense/placement-core/internal/sites"
	"github.com/urbansense/placement-core/pkg/logger"
	"github.com/urbansense/placement-core/pkg/models"
)

var (
	ErrJobNotFound  = errors.New("job not found")
	ErrJobTerminal  = errors.New("job is terminal")
	ErrJobIDMissing = errors.New("job_id is required")
)

const (
	// Generations evolved between cancellation checks.
	generationBatch = 10
	// Candidate count for random search when the request leaves it unset.
	defaultRandomIterations = 1000
	defaultPopulationSize   = 100
	defaultGenerations      = 100
)

// ResultRepository persists finished results outside the in-memory store.
// Implementations must be safe for concurrent use.
type ResultRepository interface {
	SaveNetwork(ctx context.Context, jobID string, rec *models.NetworkRecord) error
	SavePopulation(ctx context.Context, jobID string, rec *models.PopulationRecord) error
	GetNetwork(ctx context.Context, jobID string) (*models.NetworkRecord, error)
	GetPopulation(ctx context.Context, jobID string) (*models.PopulationRecord, error)
}

// Executor manages asynchronous job execution and per-job cancellation.
type Executor struct {
	store *JobStore
	sites *sites.SiteSet
	repo  ResultRepository // nil keeps results in memory only

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func NewExecutor(store *JobStore, set *sites.SiteSet, repo ResultRepository) *Executor {
	return &Executor{
		store:   store,
		sites:   set,
		repo:    repo,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Start begins executing a job asynchronously.
// Returns the updated job state (running) or an error.
func (e *Executor) Start(jobID string) (*JobRecord, error) {
	if jobID == "" {
		return nil, ErrJobIDMissing
	}

	rec, ok := e.store.Get(jobID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	switch {
	case rec.Job.Status == models.JobStatusRunning:
		return rec, nil
	case rec.Job.Status.Terminal():
		return nil, fmt.Errorf("%w: %s", ErrJobTerminal, jobID)
	}

	updated, err := e.store.SetStatus(jobID, models.JobStatusRunning, "")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	if old, exists := e.cancels[jobID]; exists {
		old()
	}
	e.cancels[jobID] = cancel
	e.mu.Unlock()

	go e.runJob(ctx, jobID, rec.Job.Params)
	return updated, nil
}

// Stop requests cancellation for a running job and marks it cancelled
func (e *Executor) Stop(jobID string) (*JobRecord, error) {
	if jobID == "" {
		return nil, ErrJobIDMissing
	}

	e.mu.Lock()
	cancel, ok := e.cancels[jobID]
	e.mu.Unlock()

	if ok {
		cancel()
	}

	updated, err := e.store.SetStatus(jobID, models.JobStatusCancelled, "")
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (e *Executor) cleanup(jobID string) {
	e.mu.Lock()
	if cancel, ok := e.cancels[jobID]; ok {
		cancel()
		delete(e.cancels, jobID)
	}
	e.mu.Unlock()
}

func (e *Executor) runJob(ctx context.Context, jobID string, params models.JobParams) {
	defer e.cleanup(jobID)

	cov, columns, err := e.prepare(params)
	if err != nil {
		e.fail(jobID, err)
		return
	}

	meta := models.RunMeta{
		Region:     e.sites.Region(),
		Optimiser:  string(params.Kind),
		DecayKind:  params.DecayKind,
		DecayParam: params.DecayParam,
	}

	logger.Info("starting job", "job_id", jobID, "kind", params.Kind, "n_sensors", params.NSensors)

	switch params.Kind {
	case models.JobKindGreedy:
		err = e.runGreedy(ctx, jobID, params, cov, columns, meta)
	case models.JobKindEvolutionary:
		err = e.runEvolutionary(ctx, jobID, params, cov, columns, meta)
	case models.JobKindRandom:
		err = e.runRandom(ctx, jobID, params, cov, columns, meta)
	default:
		err = fmt.Errorf("unknown job kind: %s", params.Kind)
	}

	if err != nil {
		if ctx.Err() != nil {
			logger.Info("job cancelled", "job_id", jobID)
			return
		}
		e.fail(jobID, err)
		return
	}

	if _, err := e.store.SetStatus(jobID, models.JobStatusCompleted, ""); err != nil {
		logger.Error("failed to set completed status", "job_id", jobID, "error", err)
		return
	}
	logger.Info("job completed", "job_id", jobID)
}

func (e *Executor) prepare(params models.JobParams) (*coverage.Matrix, []objective.Column, error) {
	decay, err := coverage.ParseDecay(params.DecayKind, params.DecayParam)
	if err != nil {
		return nil, nil, err
	}
	cov, err := coverage.Build(e.sites.X(), e.sites.Y(), decay)
	if err != nil {
		return nil, nil, err
	}

	if len(params.Objectives) == 0 {
		return nil, nil, fmt.Errorf("at least one objective is required")
	}
	columns := make([]objective.Column, len(params.Objectives))
	for i, spec := range params.Objectives {
		columns[i] = objective.Column{Source: spec.Column, Weight: spec.Weight, Label: spec.Label}
	}
	return cov, columns, nil
}

func (e *Executor) runGreedy(ctx context.Context, jobID string, params models.JobParams, cov *coverage.Matrix, columns []objective.Column, meta models.RunMeta) error {
	obj, err := objective.Combine(e.sites, columns, cov)
	if err != nil {
		return err
	}
	meta.Objectives = obj.Labels()

	g, err := greedy.New(obj, params.NSensors)
	if err != nil {
		return err
	}

	var res *greedy.Result
	for placed := 0; placed < params.NSensors; placed++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err = g.Update(res)
		if err != nil {
			return err
		}
		detail := fmt.Sprintf("placed %d of %d sensors", placed+1, params.NSensors)
		if err := e.store.SetProgress(jobID, float64(placed+1)/float64(params.NSensors), detail); err != nil {
			return err
		}
	}

	return e.saveNetwork(ctx, jobID, res.Record(meta))
}

func (e *Executor) runEvolutionary(ctx context.Context, jobID string, params models.JobParams, cov *coverage.Matrix, columns []objective.Column, meta models.RunMeta) error {
	obj, err := objective.New(e.sites, columns, cov)
	if err != nil {
		return err
	}
	meta.Objectives = obj.Labels()

	popSize := params.PopulationSize
	if popSize == 0 {
		popSize = defaultPopulationSize
	}
	generations := params.Generations
	if generations == 0 {
		generations = defaultGenerations
	}

	ev, err := evolve.New(obj, params.NSensors, popSize, generations,
		evolve.WithSeed(params.Seed),
		evolve.WithRates(params.CrossoverRate, params.MutationRate))
	if err != nil {
		return err
	}

	var res *optimise.PopulationResult
	for done := 0; done < generations; {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch := generationBatch
		if done+batch > generations {
			batch = generations - done
		}
		res, err = ev.Update(batch)
		if err != nil {
			return err
		}
		done += batch
		detail := fmt.Sprintf("evolved %d of %d generations", done, generations)
		if err := e.store.SetProgress(jobID, float64(done)/float64(generations), detail); err != nil {
			return err
		}
	}

	rec := res.Record(meta)
	if err := e.store.SetPopulationResult(jobID, rec); err != nil {
		return err
	}
	if e.repo != nil {
		if err := e.repo.SavePopulation(ctx, jobID, rec); err != nil {
			logger.Error("failed to persist population result", "job_id", jobID, "error", err)
		}
	}
	return nil
}

func (e *Executor) runRandom(ctx context.Context, jobID string, params models.JobParams, cov *coverage.Matrix, columns []objective.Column, meta models.RunMeta) error {
	obj, err := objective.Combine(e.sites, columns, cov)
	if err != nil {
		return err
	}
	meta.Objectives = obj.Labels()

	iterations := params.Generations
	if iterations == 0 {
		iterations = defaultRandomIterations
	}

	r, err := evolve.NewRandomSearch(obj, params.NSensors, iterations,
		evolve.WithRandomSeed(params.Seed),
		evolve.WithRandomProgress(func(done, total int) {
			if done%100 == 0 || done == total {
				detail := fmt.Sprintf("evaluated %d of %d candidates", done, total)
				if err := e.store.SetProgress(jobID, float64(done)/float64(total), detail); err != nil {
					logger.Error("failed to set progress", "job_id", jobID, "error", err)
				}
			}
		}))
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := r.Run()
	if err != nil {
		return err
	}

	return e.saveNetwork(ctx, jobID, res.Record(meta))
}

func (e *Executor) saveNetwork(ctx context.Context, jobID string, rec *models.NetworkRecord) error {
	if err := e.store.SetNetworkResult(jobID, rec); err != nil {
		return err
	}
	if e.repo != nil {
		if err := e.repo.SaveNetwork(ctx, jobID, rec); err != nil {
			logger.Error("failed to persist network result", "job_id", jobID, "error", err)
		}
	}
	return nil
}

func (e *Executor) fail(jobID string, err error) {
	logger.Error("job failed", "job_id", jobID, "error", err)
	if _, setErr := e.store.SetStatus(jobID, models.JobStatusFailed, err.Error()); setErr != nil {
		logger.Error("failed to set failed status", "job_id", jobID, "error", setErr)
	}
}
