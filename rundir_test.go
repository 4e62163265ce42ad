package metawards

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunDir_NamesDirectoryWithID(t *testing.T) {
	id := NewRunID()
	dir := RunDir("/tmp/output", "sweep", id)
	want := filepath.Join("/tmp/output", "sweep-"+id.String())
	if dir != want {
		t.Errorf(UnequalStringParameterError, "run directory path", want, dir)
	}
}

func TestRunDir_DefaultsNameToRun(t *testing.T) {
	id := NewRunID()
	dir := RunDir("/tmp/output", "", id)
	want := filepath.Join("/tmp/output", "run-"+id.String())
	if dir != want {
		t.Errorf(UnequalStringParameterError, "default run directory path", want, dir)
	}
}

func TestNewRunID_IsUnique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b {
		t.Errorf(UnexpectedErrorWhileError, "comparing two freshly minted run ids", "collision")
	}
}

func TestEnsureRunDir_CreatesNestedPath(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "a", "b", "c")
	if err := EnsureRunDir(target); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "ensuring a nested run directory exists", err)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "stat-ing the created run directory", err)
	}
	if !info.IsDir() {
		t.Errorf(UnequalStringParameterError, "created path type", "directory", "not a directory")
	}
}
