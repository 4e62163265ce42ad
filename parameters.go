package metawards

import (
	"encoding/json"
	"os"
)

// Parameters holds the scalar knobs that govern a run, plus the resolved
// Disease parameters and the list of additional-seed file descriptors
// read from Parameters JSON (spec section 3 and 6). Defaults match the
// original source's dataclass field defaults.
type Parameters struct {
	LengthDay                    float64 `json:"length_day"`
	PlengthDay                   float64 `json:"plength_day"`
	InitialInf                   int     `json:"initial_inf"`
	StaticPlayAtHome             float64 `json:"static_play_at_home"`
	DynPlayAtHome                float64 `json:"dyn_play_at_home"`
	DataDistCutoff               float64 `json:"data_dist_cutoff"`
	DynDistCutoff                float64 `json:"dyn_dist_cutoff"`
	PlayToWork                   float64 `json:"play_to_work"`
	WorkToPlay                   float64 `json:"work_to_play"`
	LocalVaccinationThreshold    float64 `json:"local_vaccination_threshold"`
	GlobalDetectionThreshold     float64 `json:"global_detection_threshold"`
	DailyWardVaccinationCapacity float64 `json:"daily_ward_vaccination_capacity"`
	NeighbourWeightThreshold     float64 `json:"neighbour_weight_threshold"`
	DailyImports                 float64 `json:"daily_imports"`
	UV                            float64 `json:"UV"`

	Name       string   `json:"name,omitempty"`
	Version    string   `json:"version,omitempty"`
	Authors    []string `json:"author,omitempty"`
	Contacts   []string `json:"contact,omitempty"`
	References []string `json:"reference,omitempty"`

	InputFiles      []string `json:"-"`
	DiseaseParams   *Disease `json:"-"`
	AdditionalSeeds []string `json:"-"`
}

// DefaultParameters returns a Parameters populated with the same defaults
// as the original dataclass.
func DefaultParameters() *Parameters {
	return &Parameters{
		LengthDay:                    0.7,
		PlengthDay:                   0.5,
		InitialInf:                   5,
		DataDistCutoff:               1e7,
		DynDistCutoff:                1e7,
		LocalVaccinationThreshold:    4,
		GlobalDetectionThreshold:     4,
		DailyWardVaccinationCapacity: 5,
	}
}

// LoadParameters reads Parameters from the named JSON file, resolved
// against searchPaths the same way LoadDisease resolves a disease name.
func LoadParameters(name string, searchPaths []string) (*Parameters, error) {
	path, err := resolveNamedFile(name, searchPaths, "parameters", ".json")
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errorf(ErrMalformedFile, path, err.Error())
	}

	p := DefaultParameters()
	if err := json.Unmarshal(data, p); err != nil {
		return nil, errorf(ErrMalformedFile, path, err.Error())
	}
	return p, nil
}

// SetInputFiles records the network/ward source files this run was
// built from, for provenance in output metadata.
func (p *Parameters) SetInputFiles(files ...string) { p.InputFiles = files }

// SetDisease attaches the resolved Disease parameters to this Parameters.
func (p *Parameters) SetDisease(d *Disease) { p.DiseaseParams = d }

// Clone returns a deep copy of p, including its DiseaseParams.
func (p *Parameters) Clone() *Parameters {
	cp := *p
	cp.InputFiles = append([]string(nil), p.InputFiles...)
	cp.AdditionalSeeds = append([]string(nil), p.AdditionalSeeds...)
	if p.DiseaseParams != nil {
		d := *p.DiseaseParams
		d.Beta = append([]float64(nil), p.DiseaseParams.Beta...)
		d.Progress = append([]float64(nil), p.DiseaseParams.Progress...)
		d.TooIllToMove = append([]float64(nil), p.DiseaseParams.TooIllToMove...)
		d.ContribFOI = append([]float64(nil), p.DiseaseParams.ContribFOI...)
		cp.DiseaseParams = &d
	}
	return &cp
}

// WithOverrides returns a deep copy of p with the named fields
// substituted. Keys are either bare scalar field names matching the
// Parameters JSON tags (e.g. "play_to_work"), or indexed Disease vector
// names of the form "beta[2]" / "progress[1]" (spec section 9's design
// note on set_variables). Indices are 0-based, matching disease stage
// numbering elsewhere in the package.
func (p *Parameters) WithOverrides(overrides map[string]float64) (*Parameters, error) {
	cp := p.Clone()
	for key, value := range overrides {
		field, index, hasIndex, err := parseFieldIndex(key)
		if err != nil {
			return nil, err
		}
		if hasIndex {
			if cp.DiseaseParams == nil {
				return nil, errorf(ErrMissingField, key, "disease_params")
			}
			vec, err := cp.DiseaseParams.vectorByName(field)
			if err != nil {
				return nil, err
			}
			if index < 0 || index >= len(vec) {
				return nil, errorf(InvalidIntParameterError, field+" index", index, "out of range")
			}
			vec[index] = value
			continue
		}
		if err := cp.setScalar(field, value); err != nil {
			return nil, err
		}
	}
	return cp, nil
}

func (d *Disease) vectorByName(name string) ([]float64, error) {
	switch name {
	case "beta":
		return d.Beta, nil
	case "progress":
		return d.Progress, nil
	case "too_ill_to_move":
		return d.TooIllToMove, nil
	case "contrib_foi":
		return d.ContribFOI, nil
	default:
		return nil, errorf(ErrMissingField, name, "Disease")
	}
}

func (p *Parameters) setScalar(name string, value float64) error {
	switch name {
	case "length_day":
		p.LengthDay = value
	case "plength_day":
		p.PlengthDay = value
	case "initial_inf":
		p.InitialInf = int(value)
	case "static_play_at_home":
		p.StaticPlayAtHome = value
	case "dyn_play_at_home":
		p.DynPlayAtHome = value
	case "data_dist_cutoff":
		p.DataDistCutoff = value
	case "dyn_dist_cutoff":
		p.DynDistCutoff = value
	case "play_to_work":
		p.PlayToWork = value
	case "work_to_play":
		p.WorkToPlay = value
	case "local_vaccination_threshold":
		p.LocalVaccinationThreshold = value
	case "global_detection_threshold":
		p.GlobalDetectionThreshold = value
	case "daily_ward_vaccination_capacity":
		p.DailyWardVaccinationCapacity = value
	case "neighbour_weight_threshold":
		p.NeighbourWeightThreshold = value
	case "daily_imports":
		p.DailyImports = value
	case "UV", "uv":
		p.UV = value
	default:
		return errorf(ErrMissingField, name, "Parameters")
	}
	return nil
}

// parseFieldIndex splits a key like "beta[2]" into ("beta", 2, true, nil)
// or a bare key like "play_to_work" into ("play_to_work", 0, false, nil).
func parseFieldIndex(key string) (field string, index int, hasIndex bool, err error) {
	open := -1
	for i, c := range key {
		if c == '[' {
			open = i
			break
		}
	}
	if open < 0 {
		return key, 0, false, nil
	}
	if key[len(key)-1] != ']' {
		return "", 0, false, errorf(InvalidStringParameterError, "variable name", key, "malformed index syntax")
	}
	field = key[:open]
	numStr := key[open+1 : len(key)-1]
	n, err2 := parsePositiveInt(numStr)
	if err2 != nil {
		return "", 0, false, errorf(InvalidStringParameterError, "variable name", key, "index must be a non-negative integer")
	}
	return field, n, true, nil
}

func parsePositiveInt(s string) (int, error) {
	if s == "" {
		return 0, errorf(InvalidStringParameterError, "index", s, "empty")
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errorf(InvalidStringParameterError, "index", s, "not numeric")
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
