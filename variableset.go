package metawards

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// VariableSet is one row of a parameter sweep: a named set of scalar
// overrides (keys like "beta[2]"/"progress[1]", the same indexed-field
// syntax Parameters.WithOverrides accepts) plus a RepeatIndex used to
// distinguish otherwise-identical repeats of the same sweep point (spec
// section 6).
type VariableSet struct {
	Names       []string
	Values      []float64
	RepeatIndex int
}

// NewVariableSet builds a VariableSet with RepeatIndex defaulted to 1.
func NewVariableSet(names []string, values []float64) VariableSet {
	return VariableSet{Names: names, Values: values, RepeatIndex: 1}
}

// Overrides converts this VariableSet into the map shape
// Parameters.WithOverrides expects.
func (vs VariableSet) Overrides() map[string]float64 {
	m := make(map[string]float64, len(vs.Names))
	for i, n := range vs.Names {
		m[n] = vs.Values[i]
	}
	return m
}

// Fingerprint returns a deterministic string function of this
// VariableSet's names and values, sorted by name so that field order in
// the source CSV row never affects the result (spec section 6 /
// section 8's round-trip law: two VariableSets built from the same
// name/value pairs fingerprint identically regardless of construction
// order). When includeIndex is true, RepeatIndex is folded in so that
// distinct repeats of the same sweep point fingerprint differently.
func (vs VariableSet) Fingerprint(includeIndex bool) string {
	type pair struct {
		name  string
		value float64
	}
	pairs := make([]pair, len(vs.Names))
	for i, n := range vs.Names {
		pairs[i] = pair{n, vs.Values[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "%s=%.12g", p.name, p.value)
	}
	if includeIndex {
		fmt.Fprintf(&b, ";repeat=%d", vs.RepeatIndex)
	}
	return b.String()
}

// VariableSets is an ordered collection of VariableSet, the result of
// reading and/or repeating a VariableSet CSV (spec section 6).
type VariableSets struct {
	Names []string
	Sets  []VariableSet
}

// Repeat returns a new VariableSets with every set repeated k times,
// RepeatIndex cycling 1..k within each original set's block, matching
// the round-trip law in spec section 8 ("VariableSets.repeat(k) produces
// k x len entries with repeat_index cycling 1..k").
func (vss VariableSets) Repeat(k int) VariableSets {
	out := VariableSets{Names: vss.Names, Sets: make([]VariableSet, 0, len(vss.Sets)*k)}
	for _, set := range vss.Sets {
		for r := 1; r <= k; r++ {
			rep := set
			rep.RepeatIndex = r
			out.Sets = append(out.Sets, rep)
		}
	}
	return out
}

// ReadVariables parses a VariableSet CSV and returns the VariableSets
// built from the 1-based line indices in `lines` (data lines, not
// counting the header), always in ascending line-number order regardless
// of the order `lines` names them -- so
// ReadVariables(file, []int{2,1}) == ReadVariables(file, []int{1,2}),
// per spec section 8 scenario 6. This is the sole sweep selection
// mechanism; the original's buggy single-line reader (section 9 design
// note) is not ported. An empty `lines` selects every data row in file
// order.
func ReadVariables(path string, lines []int) (VariableSets, error) {
	f, err := os.Open(path)
	if err != nil {
		return VariableSets{}, errorf(ErrMalformedFile, path, err.Error())
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return VariableSets{}, errorf(ErrMalformedFile, path, err.Error())
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return VariableSets{}, errorf(ErrMalformedFile, path, err.Error())
		}
		rows = append(rows, row)
	}

	selected := make([]int, len(lines))
	copy(selected, lines)
	if len(selected) == 0 {
		selected = make([]int, len(rows))
		for i := range rows {
			selected[i] = i + 1
		}
	}
	sort.Ints(selected)

	sets := make([]VariableSet, 0, len(selected))
	for _, lineNum := range selected {
		if lineNum < 1 || lineNum > len(rows) {
			return VariableSets{}, errorf(InvalidIntParameterError, "variable set line", lineNum, "out of range")
		}
		row := rows[lineNum-1]
		if len(row) != len(header) {
			return VariableSets{}, errorf(ErrArrayLengthMismatch, "row", len(row), len(header))
		}
		values := make([]float64, len(header))
		for i, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return VariableSets{}, errorf(ErrMalformedFile, path, "line "+strconv.Itoa(lineNum)+": "+err.Error())
			}
			values[i] = v
		}
		sets = append(sets, NewVariableSet(header, values))
	}
	return VariableSets{Names: header, Sets: sets}, nil
}
