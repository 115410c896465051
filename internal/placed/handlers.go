package placed

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/urbansense/placement-core/internal/plot"
	"github.com/urbansense/placement-core/pkg/config"
	"github.com/urbansense/placement-core/pkg/models"
)

// Handler contains all HTTP handlers of the placement daemon
type Handler struct {
	store    *JobStore
	executor *Executor
	region   string
	defaults *config.Optimisation // nil means requests must be fully specified
	repo     ResultRepository     // nil disables the persisted-result fallback
}

// NewHandler creates a new handler
func NewHandler(store *JobStore, executor *Executor, region string, defaults *config.Optimisation, repo ResultRepository) *Handler {
	return &Handler{
		store:    store,
		executor: executor,
		region:   region,
		defaults: defaults,
		repo:     repo,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "placed",
		"region":  h.region,
	})
}

// CreateJob registers a new optimisation job and starts it
func (h *Handler) CreateJob(c *fiber.Ctx) error {
	var params models.JobParams
	if err := c.BodyParser(&params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	applyJobDefaults(&params, h.defaults)
	if err := validateJobParams(&params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	rec, err := h.store.Create(params)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create job")
	}
	if _, err := h.executor.Start(rec.Job.ID); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to start job")
	}

	started, _ := h.store.Get(rec.Job.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    started.Job,
	})
}

// ListJobs returns the known jobs
func (h *Handler) ListJobs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	recs := h.store.List(limit)
	jobs := make([]models.Job, len(recs))
	for i, rec := range recs {
		jobs[i] = rec.Job
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    jobs,
	})
}

// GetJob returns one job by id
func (h *Handler) GetJob(c *fiber.Ctx) error {
	rec, ok := h.store.Get(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "job not found")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    rec.Job,
	})
}

// CancelJob requests cancellation of a running job
func (h *Handler) CancelJob(c *fiber.Ctx) error {
	rec, err := h.executor.Stop(c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "job not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to cancel job")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    rec.Job,
	})
}

// GetResult returns the result of a completed job. Jobs missing from the
// in-memory store, after a daemon restart, are looked up in the persisted
// results.
func (h *Handler) GetResult(c *fiber.Ctx) error {
	id := c.Params("id")
	rec, ok := h.store.Get(id)
	if ok {
		switch {
		case rec.Network != nil:
			return c.JSON(fiber.Map{
				"success": true,
				"data":    rec.Network,
			})
		case rec.Population != nil:
			return c.JSON(fiber.Map{
				"success": true,
				"data":    rec.Population,
			})
		case !rec.Job.Status.Terminal():
			return fiber.NewError(fiber.StatusConflict, "job has not finished")
		}
	}

	if h.repo != nil {
		if net, err := h.repo.GetNetwork(c.Context(), id); err == nil {
			return c.JSON(fiber.Map{
				"success": true,
				"data":    net,
			})
		}
		if pop, err := h.repo.GetPopulation(c.Context(), id); err == nil {
			return c.JSON(fiber.Map{
				"success": true,
				"data":    pop,
			})
		}
	}

	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "job not found")
	}
	return fiber.NewError(fiber.StatusNotFound, "job produced no result")
}

// GetPlot renders the result of a completed job as an HTML chart
func (h *Handler) GetPlot(c *fiber.Ctx) error {
	rec, ok := h.store.Get(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "job not found")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	switch {
	case rec.Network != nil:
		if err := plot.CoverageHistory(rec.Network, c.Response().BodyWriter()); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return nil
	case rec.Population != nil:
		if err := plot.ObjectiveSpace(rec.Population, c.Response().BodyWriter()); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return nil
	default:
		return fiber.NewError(fiber.StatusConflict, "job has not finished")
	}
}

// applyJobDefaults fills unset request fields from the configured
// optimisation defaults. Caller-supplied values always win.
func applyJobDefaults(params *models.JobParams, def *config.Optimisation) {
	if def == nil {
		return
	}
	if params.NSensors == 0 {
		params.NSensors = def.NSensors
	}
	if params.DecayKind == "" {
		params.DecayKind = def.Decay.Kind
	}
	if params.DecayParam == 0 {
		params.DecayParam = def.Decay.Param
	}
	if len(params.Objectives) == 0 {
		params.Objectives = make([]models.ObjectiveSpec, len(def.Objectives))
		for i, obj := range def.Objectives {
			params.Objectives[i] = models.ObjectiveSpec{
				Column: obj.Column,
				Weight: obj.Weight,
				Label:  obj.Label,
			}
		}
	}
	if def.Population == nil {
		return
	}
	if params.PopulationSize == 0 {
		params.PopulationSize = def.Population.Size
	}
	if params.Generations == 0 {
		params.Generations = def.Population.Generations
	}
	if params.CrossoverRate == 0 {
		params.CrossoverRate = def.Population.CrossoverRate
	}
	if params.MutationRate == 0 {
		params.MutationRate = def.Population.MutationRate
	}
	if params.Seed == 0 {
		params.Seed = def.Population.Seed
	}
}

func validateJobParams(params *models.JobParams) error {
	switch params.Kind {
	case models.JobKindGreedy, models.JobKindEvolutionary, models.JobKindRandom:
	default:
		return errors.New("kind must be greedy, evolutionary or random")
	}
	if params.NSensors < 1 {
		return errors.New("n_sensors must be positive")
	}
	if params.DecayKind == "" {
		return errors.New("decay_kind is required")
	}
	if params.DecayParam <= 0 {
		return errors.New("decay_param must be positive")
	}
	if len(params.Objectives) == 0 {
		return errors.New("at least one objective is required")
	}
	for _, obj := range params.Objectives {
		if obj.Column == "" {
			return errors.New("objective column cannot be empty")
		}
		if obj.Weight <= 0 {
			return errors.New("objective weight must be positive")
		}
	}
	if params.CrossoverRate < 0 || params.CrossoverRate > 1 {
		return errors.New("crossover_rate must be between 0 and 1")
	}
	if params.MutationRate < 0 || params.MutationRate > 1 {
		return errors.New("mutation_rate must be between 0 and 1")
	}
	return nil
}
