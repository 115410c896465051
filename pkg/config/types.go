package config

// Config represents the main daemon configuration
type Config struct {
	LogLevel     string        `yaml:"log_level"`
	Server       Server        `yaml:"server"`
	DatabaseURL  string        `yaml:"database_url,omitempty"`
	Region       Region        `yaml:"region"`
	Optimisation *Optimisation `yaml:"optimisation,omitempty"`
}

// Server represents the HTTP listener configuration
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Region names the candidate site table to optimise over
type Region struct {
	Name      string `yaml:"name"`
	SitesFile string `yaml:"sites_file"`
}

// Optimisation holds the default optimisation parameters. Job requests may
// override any of them.
type Optimisation struct {
	NSensors   int         `yaml:"n_sensors"`
	Decay      Decay       `yaml:"decay"`
	Objectives []Objective `yaml:"objectives"`
	Population *Population `yaml:"population,omitempty"`
}

// Decay selects the coverage decay function
type Decay struct {
	Kind  string  `yaml:"kind"`  // binary or exponential
	Param float64 `yaml:"param"` // radius or theta, in site-coordinate units
}

// Objective names one weight column and its importance
type Objective struct {
	Column string  `yaml:"column"`
	Weight float64 `yaml:"weight"`
	Label  string  `yaml:"label,omitempty"`
}

// Population holds the evolutionary optimiser parameters
type Population struct {
	Size          int     `yaml:"size"`
	Generations   int     `yaml:"generations"`
	CrossoverRate float64 `yaml:"crossover_rate,omitempty"`
	MutationRate  float64 `yaml:"mutation_rate,omitempty"`
	Seed          int64   `yaml:"seed,omitempty"`
}
