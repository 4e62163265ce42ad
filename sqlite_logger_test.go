package metawards

import (
	"path/filepath"
	"testing"
)

func TestSQLiteLogger_InitAndWrite_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	logger := NewSQLiteLogger(dir, 1)
	if err := logger.Init(); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "initialising sqlite logger tables", err)
	}

	pops := make(chan PopulationRecord, 2)
	pops <- PopulationRecord{Day: 1, Susceptibles: 990, Latent: 5, Infected: 5, Removed: 0}
	pops <- PopulationRecord{Day: 2, Susceptibles: 985, Latent: 4, Infected: 8, Removed: 3}
	close(pops)
	if err := logger.WritePopulation(pops); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "writing population rows", err)
	}

	wards := make(chan WardSnapshot, 1)
	wards <- WardSnapshot{Day: 1, Ward: 1, Susceptibles: 490, Infected: 10}
	close(wards)
	if err := logger.WriteWardSnapshots(wards); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "writing ward snapshot rows", err)
	}

	db, err := OpenSQLiteDB(filepath.Join(dir, "run.db"))
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "reopening sqlite database", err)
	}
	defer db.Close()

	var popCount int
	if err := db.QueryRow("select count(*) from Population001").Scan(&popCount); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "counting population rows", err)
	}
	if popCount != 2 {
		t.Errorf(UnequalIntParameterError, "population row count", 2, popCount)
	}

	var wardCount int
	if err := db.QueryRow("select count(*) from Ward001").Scan(&wardCount); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "counting ward rows", err)
	}
	if wardCount != 1 {
		t.Errorf(UnequalIntParameterError, "ward row count", 1, wardCount)
	}
}

func TestSQLiteLogger_Init_IsolatesByInstanceID(t *testing.T) {
	dir := t.TempDir()
	a := NewSQLiteLogger(dir, 1)
	b := NewSQLiteLogger(dir, 2)
	if err := a.Init(); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "initialising instance 1 tables", err)
	}
	if err := b.Init(); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "initialising instance 2 tables", err)
	}

	popsA := make(chan PopulationRecord, 1)
	popsA <- PopulationRecord{Day: 1, Susceptibles: 100, Latent: 0, Infected: 0, Removed: 0}
	close(popsA)
	if err := a.WritePopulation(popsA); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "writing instance 1 rows", err)
	}

	db, err := OpenSQLiteDB(filepath.Join(dir, "run.db"))
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "reopening shared sqlite database", err)
	}
	defer db.Close()

	var bCount int
	if err := db.QueryRow("select count(*) from Population002").Scan(&bCount); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "counting instance 2 rows", err)
	}
	if bCount != 0 {
		t.Errorf(UnequalIntParameterError, "instance 2 row count after only instance 1 wrote", 0, bCount)
	}
}
