package models

// JobStatus represents the status of an optimisation job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Terminal reports whether a job in this status can no longer change state.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// JobKind selects the optimisation algorithm for a job
type JobKind string

const (
	JobKindGreedy       JobKind = "greedy"
	JobKindEvolutionary JobKind = "evolutionary"
	JobKindRandom       JobKind = "random"
)

// ObjectiveSpec names one weight column of the site table and its importance
type ObjectiveSpec struct {
	Column string  `json:"column"`
	Weight float64 `json:"weight"`
	Label  string  `json:"label,omitempty"`
}

// JobParams are the caller-supplied parameters of an optimisation job
type JobParams struct {
	Kind           JobKind         `json:"kind"`
	NSensors       int             `json:"n_sensors"`
	DecayKind      string          `json:"decay_kind"`
	DecayParam     float64         `json:"decay_param"`
	Objectives     []ObjectiveSpec `json:"objectives"`
	PopulationSize int             `json:"population_size,omitempty"`
	Generations    int             `json:"generations,omitempty"`
	CrossoverRate  float64         `json:"crossover_rate,omitempty"`
	MutationRate   float64         `json:"mutation_rate,omitempty"`
	Seed           int64           `json:"seed,omitempty"`
}

// Job represents an optimisation job tracked by the daemon
type Job struct {
	ID              string    `json:"id"`
	Status          JobStatus `json:"status"`
	StatusDetail    string    `json:"status_detail,omitempty"`
	Progress        float64   `json:"progress"`
	Params          JobParams `json:"params"`
	Error           string    `json:"error,omitempty"`
	CreatedAtUnixMs int64     `json:"created_at_unix_ms"`
	StartedAtUnixMs int64     `json:"started_at_unix_ms,omitempty"`
	EndedAtUnixMs   int64     `json:"ended_at_unix_ms,omitempty"`
}

// SiteTable is the pre-validated external input: candidate site identifiers,
// planar coordinates and non-negative weight columns, all aligned to one
// fixed site ordering.
type SiteTable struct {
	Region  string               `json:"region" yaml:"region"`
	IDs     []string             `json:"ids" yaml:"ids"`
	X       []float64            `json:"x" yaml:"x"`
	Y       []float64            `json:"y" yaml:"y"`
	Columns map[string][]float64 `json:"columns" yaml:"columns"`
}

// RunMeta is the provenance attached to serialised results
type RunMeta struct {
	Region     string   `json:"region"`
	Optimiser  string   `json:"optimiser"`
	DecayKind  string   `json:"decay_kind"`
	DecayParam float64  `json:"decay_param"`
	Objectives []string `json:"objectives"`
}

// NetworkRecord is the flat, serialisable form of a single placed network.
// It carries enough metadata to reconstruct a human-readable report.
type NetworkRecord struct {
	RunMeta
	NSensors         int       `json:"n_sensors"`
	SensorIndices    []int     `json:"sensor_indices"`
	SensorIDs        []string  `json:"sensor_ids"`
	TotalCoverage    float64   `json:"total_coverage"`
	SiteCoverage     []float64 `json:"site_coverage,omitempty"`
	PlacementHistory []int     `json:"placement_history,omitempty"`
	CoverageHistory  []float64 `json:"coverage_history,omitempty"`
}

// PopulationRecord is the flat, serialisable form of a population of
// candidate networks and their per-objective fitness values.
type PopulationRecord struct {
	RunMeta
	NSensors       int         `json:"n_sensors"`
	PopulationSize int         `json:"population_size"`
	Generations    int         `json:"generations"`
	Population     [][]int     `json:"population"`
	TotalCoverage  [][]float64 `json:"total_coverage"`
}
