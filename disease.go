package metawards

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Disease holds the per-stage transmission parameters of a compartmental
// model: equal-length vectors indexed by infection stage, where stage 0
// is latent/new and the last stage is the one step before removal.
type Disease struct {
	Beta         []float64 `json:"beta"`
	Progress     []float64 `json:"progress"`
	TooIllToMove []float64 `json:"too_ill_to_move"`
	ContribFOI   []float64 `json:"contrib_foi"`

	Name       string   `json:"name,omitempty"`
	Version    string   `json:"version,omitempty"`
	Authors    []string `json:"author,omitempty"`
	Contacts   []string `json:"contact,omitempty"`
	References []string `json:"reference,omitempty"`
}

// NInfClasses returns the number of infection stages, equal to len(Beta).
func (d *Disease) NInfClasses() int { return len(d.Beta) }

// Validate checks that all four per-stage vectors share the same length,
// per spec section 6.
func (d *Disease) Validate() error {
	n := len(d.Beta)
	for name, v := range map[string][]float64{
		"progress":        d.Progress,
		"too_ill_to_move": d.TooIllToMove,
		"contrib_foi":     d.ContribFOI,
	} {
		if len(v) != n {
			return errorf(ErrArrayLengthMismatch, name, len(v), n)
		}
	}
	return nil
}

// LoadDisease reads a Disease from the named JSON file, resolving a bare
// disease name (e.g. "ncov") against the supplied search paths before
// falling back to treating the name as a literal file path. This mirrors
// Disease.load in the original source, with the default-data-directory
// concern pushed out to the caller per spec section 9.
func LoadDisease(name string, searchPaths []string) (*Disease, error) {
	path, err := resolveNamedFile(name, searchPaths, "disease", ".json")
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errorf(ErrMalformedFile, path, err.Error())
	}

	var d Disease
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errorf(ErrMalformedFile, path, err.Error())
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// resolveNamedFile finds a file for a bare resource name by checking, in
// order: the name itself as a path, the name with suffix appended, and
// each searchPaths entry joined with subdir/name(+suffix). This is the
// core of the "pass search paths explicitly to the loaders" design note
// (spec section 9) replacing the original's implicit $HOME data directory.
func resolveNamedFile(name string, searchPaths []string, subdir, suffix string) (string, error) {
	candidates := []string{name, name + suffix}
	for _, sp := range searchPaths {
		candidates = append(candidates,
			filepath.Join(sp, subdir, name),
			filepath.Join(sp, subdir, name+suffix),
			filepath.Join(sp, name),
			filepath.Join(sp, name+suffix),
		)
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", errorf(ErrMalformedFile, name, "not found in any search path")
}
