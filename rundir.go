package metawards

import (
	"os"
	"path/filepath"

	"github.com/segmentio/ksuid"
)

// NewRunID mints a fresh run identity stamp, grounded on the teacher's
// ksuid.New() identity-assignment idiom (genotype.go's genotypeNode/
// genotypeTree UID, epidemic_si.go's per-host KSUID bookkeeping),
// repurposed here from per-host/genotype identity to a per-run output
// directory stamp.
func NewRunID() ksuid.KSUID { return ksuid.New() }

// RunDir builds the output directory path for one run under base, named
// after the run's config name and its KSUID stamp so that repeated runs
// (e.g. a VariableSets sweep, or VariableSets.Repeat) never collide.
func RunDir(base, name string, id ksuid.KSUID) string {
	if name == "" {
		name = "run"
	}
	return filepath.Join(base, name+"-"+id.String())
}

// EnsureRunDir creates dir (and any missing parents) if it does not
// already exist.
func EnsureRunDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errorf(ErrMalformedFile, dir, err.Error())
	}
	return nil
}
