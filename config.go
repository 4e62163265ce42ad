package metawards

import (
	"strings"

	"github.com/BurntSushi/toml"
)

// RunConfig is the TOML-loaded description of one simulation run: input
// file locations, RNG/concurrency controls, and the optional demographic/
// mover/variable-set extensions (spec sections 4, 6, 9). Grounded on the
// teacher's SingleHostConfig (config_parser.go): a flat struct with toml
// tags and its own Validate() error, rather than a layered options
// builder.
type RunConfig struct {
	NetworkPath string `toml:"network_path"`
	DiseaseName string `toml:"disease"`
	ParamsName  string `toml:"parameters"`

	SearchPaths []string `toml:"search_paths"`

	Seed     int64 `toml:"seed"`
	NThreads int   `toml:"nthreads"`
	NSteps   int   `toml:"nsteps"`

	Iterator  string `toml:"iterator"`
	Mixer     string `toml:"mixer"`
	Mover     string `toml:"mover"`
	Extractor string `toml:"extractor"`

	AdditionalSeedsPath string `toml:"additional_seeds_path"`

	VariableSetPath  string `toml:"variable_set_path"`
	VariableSetLines []int  `toml:"variable_set_lines"`
	Repeats          int    `toml:"repeats"`

	OutputDir string `toml:"output_dir"`

	DemographicNames     []string  `toml:"demographic_names"`
	DemographicFractions []float64 `toml:"demographic_fractions"`

	EnableSQLite bool `toml:"enable_sqlite"`
	EnableCSV    bool `toml:"enable_csv"`

	MetricsAddr string `toml:"metrics_addr"`

	DebugChecks bool `toml:"debug_checks"`

	validated bool
}

// LoadRunConfig reads and validates a RunConfig from a TOML file.
func LoadRunConfig(path string) (*RunConfig, error) {
	cfg := DefaultRunConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errorf(ErrMalformedFile, path, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultRunConfig returns a RunConfig with the same bundled-plugin and
// concurrency defaults NewPluginRegistry/CreateThreadGenerators assume.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Seed:      0,
		NThreads:  1,
		NSteps:    30,
		Iterator:  "iterate_default",
		Mixer:     "mix_default",
		Mover:     "move_default",
		Extractor: "extract_default",
		Repeats:   1,
		OutputDir: "output",
	}
}

// Validate checks the required fields and cross-field invariants of a
// RunConfig, in the style of SingleHostConfig.Validate.
func (c *RunConfig) Validate() error {
	if strings.TrimSpace(c.NetworkPath) == "" {
		return errorf(ErrMissingField, "network_path", "RunConfig")
	}
	if strings.TrimSpace(c.DiseaseName) == "" {
		return errorf(ErrMissingField, "disease", "RunConfig")
	}
	if c.NThreads < 1 {
		return errorf(InvalidIntParameterError, "nthreads", c.NThreads, "must be >= 1")
	}
	if c.NSteps < 1 {
		return errorf(InvalidIntParameterError, "nsteps", c.NSteps, "must be >= 1")
	}
	if c.Repeats < 1 {
		return errorf(InvalidIntParameterError, "repeats", c.Repeats, "must be >= 1")
	}
	if len(c.DemographicNames) != len(c.DemographicFractions) {
		return errorf(ErrArrayLengthMismatch, "demographic_fractions", len(c.DemographicFractions), len(c.DemographicNames))
	}
	if len(c.DemographicNames) == 1 {
		return errorf(InvalidIntParameterError, "demographic_names count", 1,
			"Networks.Build requires at least 2 demographics, or none at all")
	}
	c.validated = true
	return nil
}

// Demographics builds a Demographics value from the config's flat
// name/fraction lists, equal InteractionWeight 1 for every entry.
func (c *RunConfig) Demographics() Demographics {
	list := make([]Demographic, len(c.DemographicNames))
	for i, name := range c.DemographicNames {
		list[i] = Demographic{Name: name, Fraction: c.DemographicFractions[i], InteractionWeight: 1}
	}
	return Demographics{List: list}
}
