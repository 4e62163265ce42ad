package metawards

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAdditionalSeeds_IntegerDayAndWard(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seeds.txt")
	content := "# comment line\n5, 10, 2\n8,20,1,children\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "writing seeds fixture", err)
	}

	events, err := LoadAdditionalSeeds(path, nil, time.Time{})
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "loading additional seeds", err)
	}
	if len(events) != 2 {
		t.Fatalf(UnequalIntParameterError, "number of parsed seed events", 2, len(events))
	}
	if events[0].Day != 5 || events[0].Count != 10 || events[0].Ward != 2 {
		t.Errorf(UnequalStringParameterError, "first seed event", "day=5 count=10 ward=2", "mismatch")
	}
	if events[1].Demographic != "children" {
		t.Errorf(UnequalStringParameterError, "second seed event demographic", "children", events[1].Demographic)
	}
}

func TestLoadAdditionalSeeds_DateDayRequiresStartDate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seeds.txt")
	if err := os.WriteFile(path, []byte("2020-03-10,5,1\n"), 0o644); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "writing seeds fixture", err)
	}
	if _, err := LoadAdditionalSeeds(path, nil, time.Time{}); err == nil {
		t.Errorf(ExpectedErrorWhileError, "resolving a date-keyed seed day with no run start date")
	}

	start := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	events, err := LoadAdditionalSeeds(path, nil, start)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "resolving a date-keyed seed day with a start date", err)
	}
	if events[0].Day != 10 {
		t.Errorf(UnequalIntParameterError, "resolved seed day offset", 10, events[0].Day)
	}
}

func TestLoadAdditionalSeeds_NamedWardResolvedAgainstWards(t *testing.T) {
	ws := NewWards(1)
	w := NewWardFromInfo(WardInfo{Name: "Cardiff"})
	_ = ws.Add(w)

	dir := t.TempDir()
	path := filepath.Join(dir, "seeds.txt")
	if err := os.WriteFile(path, []byte("1,5,Cardiff\n"), 0o644); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "writing seeds fixture", err)
	}
	events, err := LoadAdditionalSeeds(path, ws, time.Time{})
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "loading a name-keyed seed event", err)
	}
	if events[0].Ward != 1 {
		t.Errorf(UnequalIntParameterError, "resolved named ward id", 1, events[0].Ward)
	}
}

func TestAdvanceAdditional_AppliesScheduledSeedOnItsDay(t *testing.T) {
	disease := sampleDisease()
	ws := NewWards(1)
	w, _ := NewWard(1)
	_ = w.AddWorkers(100, nil)
	_ = w.SetNumPlayers(100)
	_ = ws.Add(w)
	if err := ws.Resolve(); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "resolving wards", err)
	}
	params := DefaultParameters()
	params.SetDisease(disease)
	net, err := CompileNetwork(ws, params, 1)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "compiling network", err)
	}
	nets := &Networks{Overall: net}
	inf := BuildInfections(nets.Overall, disease)

	dir := t.TempDir()
	path := filepath.Join(dir, "seeds.txt")
	if err := os.WriteFile(path, []byte("3,15,1\n"), 0o644); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "writing seeds fixture", err)
	}
	seeder := NewSeeder(path, nil, time.Time{})

	args := &StageArgs{
		Networks:   nets,
		Infections: inf,
		Seeder:     seeder,
		Day:        2,
	}
	if err := advanceAdditional(args); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "running advance_additional before the scheduled day", err)
	}
	if inf.Play[0][1] != 0 {
		t.Errorf(UnequalIntParameterError, "play infections before the scheduled day", 0, inf.Play[0][1])
	}

	args.Day = 3
	if err := advanceAdditional(args); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "running advance_additional on the scheduled day", err)
	}
	if inf.Play[0][1] != 15 {
		t.Errorf(UnequalIntParameterError, "play infections on the scheduled day", 15, inf.Play[0][1])
	}
}
