package metawards

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestVariableSet_Fingerprint_OrderIndependent(t *testing.T) {
	a := NewVariableSet([]string{"beta[1]", "progress[0]"}, []float64{0.2, 0.5})
	b := NewVariableSet([]string{"progress[0]", "beta[1]"}, []float64{0.5, 0.2})
	if a.Fingerprint(false) != b.Fingerprint(false) {
		t.Errorf(UnequalStringParameterError, "fingerprint of reordered name/value pairs", a.Fingerprint(false), b.Fingerprint(false))
	}
}

func TestVariableSet_Fingerprint_DistinctValues(t *testing.T) {
	a := NewVariableSet([]string{"beta[1]"}, []float64{0.2})
	b := NewVariableSet([]string{"beta[1]"}, []float64{0.3})
	if a.Fingerprint(false) == b.Fingerprint(false) {
		t.Errorf(UnexpectedErrorWhileError, "comparing fingerprints of distinct values", "collision")
	}
}

func TestVariableSet_Fingerprint_RepeatIndexDistinguishes(t *testing.T) {
	a := NewVariableSet([]string{"beta[1]"}, []float64{0.2})
	b := a
	b.RepeatIndex = 2
	if a.Fingerprint(true) == b.Fingerprint(true) {
		t.Errorf(UnexpectedErrorWhileError, "comparing repeat-index-qualified fingerprints", "collision")
	}
	if a.Fingerprint(false) != b.Fingerprint(false) {
		t.Errorf(UnequalStringParameterError, "fingerprint ignoring repeat index", a.Fingerprint(false), b.Fingerprint(false))
	}
}

func TestVariableSets_Repeat_CyclesIndex(t *testing.T) {
	vss := VariableSets{
		Names: []string{"beta[1]"},
		Sets: []VariableSet{
			NewVariableSet([]string{"beta[1]"}, []float64{0.2}),
			NewVariableSet([]string{"beta[1]"}, []float64{0.4}),
		},
	}
	rep := vss.Repeat(3)
	if n := len(rep.Sets); n != 6 {
		t.Fatalf(UnequalIntParameterError, "repeated set count", 6, n)
	}
	wantIdx := []int{1, 2, 3, 1, 2, 3}
	for i, want := range wantIdx {
		if rep.Sets[i].RepeatIndex != want {
			t.Errorf(UnequalIntParameterError, "repeat index at position", want, rep.Sets[i].RepeatIndex)
		}
	}
}

func writeVariableCSV(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "variables.csv")
	content := "beta[1],progress[0]\n0.1,0.2\n0.3,0.4\n0.5,0.6\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "writing variable set CSV fixture", err)
	}
	return path
}

func TestReadVariables_OrderIndependent(t *testing.T) {
	path := writeVariableCSV(t)
	a, err := ReadVariables(path, []int{2, 1})
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "reading variables in [2,1] order", err)
	}
	b, err := ReadVariables(path, []int{1, 2})
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "reading variables in [1,2] order", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf(UnequalStringParameterError, "ReadVariables result regardless of line order", "equal", "different")
	}
	if a.Sets[0].Values[0] != 0.1 {
		t.Errorf(UnequalFloatParameterError, "first selected row's beta value", 0.1, a.Sets[0].Values[0])
	}
}

func TestReadVariables_EmptySelectsEveryRow(t *testing.T) {
	path := writeVariableCSV(t)
	all, err := ReadVariables(path, nil)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "reading every row", err)
	}
	if n := len(all.Sets); n != 3 {
		t.Errorf(UnequalIntParameterError, "row count with no selection", 3, n)
	}
}

func TestReadVariables_OutOfRangeLineFails(t *testing.T) {
	path := writeVariableCSV(t)
	if _, err := ReadVariables(path, []int{99}); err == nil {
		t.Errorf(ExpectedErrorWhileError, "reading an out-of-range line number")
	}
}
