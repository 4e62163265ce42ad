package metawards

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCSVLogger_WritePopulation_AppendsRowsWithHeader(t *testing.T) {
	dir := t.TempDir()
	logger := NewCSVLogger(dir)

	c := make(chan PopulationRecord, 2)
	c <- PopulationRecord{Day: 1, Susceptibles: 990, Latent: 5, Infected: 5, Removed: 0}
	c <- PopulationRecord{Day: 2, Susceptibles: 985, Latent: 4, Infected: 8, Removed: 3}
	close(c)

	if err := logger.WritePopulation(c); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "writing population records", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "population.csv"))
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "reading population.csv", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf(UnequalIntParameterError, "number of lines written (header + 2 rows)", 3, len(lines))
	}
	if lines[0] != "day,susceptibles,latent,infected,removed" {
		t.Errorf(UnequalStringParameterError, "population.csv header", "day,susceptibles,latent,infected,removed", lines[0])
	}
	if lines[1] != "1,990,5,5,0" {
		t.Errorf(UnequalStringParameterError, "first population row", "1,990,5,5,0", lines[1])
	}
}

func TestCSVLogger_WritePopulation_AppendsWithoutDuplicatingHeader(t *testing.T) {
	dir := t.TempDir()
	logger := NewCSVLogger(dir)

	first := make(chan PopulationRecord, 1)
	first <- PopulationRecord{Day: 1, Susceptibles: 100, Latent: 0, Infected: 0, Removed: 0}
	close(first)
	if err := logger.WritePopulation(first); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "writing first batch", err)
	}

	second := make(chan PopulationRecord, 1)
	second <- PopulationRecord{Day: 2, Susceptibles: 99, Latent: 1, Infected: 0, Removed: 0}
	close(second)
	if err := logger.WritePopulation(second); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "writing second batch", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "population.csv"))
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "reading population.csv", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf(UnequalIntParameterError, "number of lines after two appends (one header + two rows)", 3, len(lines))
	}
}

func TestCSVLogger_WriteWardSnapshots_WritesRows(t *testing.T) {
	dir := t.TempDir()
	logger := NewCSVLogger(dir)

	c := make(chan WardSnapshot, 2)
	c <- WardSnapshot{Day: 1, Ward: 1, Susceptibles: 490, Infected: 10}
	c <- WardSnapshot{Day: 1, Ward: 2, Susceptibles: 500, Infected: 0}
	close(c)

	if err := logger.WriteWardSnapshots(c); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "writing ward snapshots", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "wards.csv"))
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "reading wards.csv", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf(UnequalIntParameterError, "number of lines written (header + 2 rows)", 3, len(lines))
	}
	if lines[0] != "day,ward,susceptibles,infected" {
		t.Errorf(UnequalStringParameterError, "wards.csv header", "day,ward,susceptibles,infected", lines[0])
	}
}
