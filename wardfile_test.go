package metawards

import "testing"

func TestWard_ToData_FromData_RoundTrip(t *testing.T) {
	w, err := NewWard(1)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "creating ward", err)
	}
	w.SetInfo(WardInfo{Name: "Alpha", Code: "A01"})
	w.SetPosition(Position{HasXY: true, X: 1.5, Y: -2.25})
	if err := w.AddWorkers(80, nil); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "adding home workers", err)
	}
	if err := w.AddWorkers(20, DestID(2)); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "adding commuting workers", err)
	}
	if err := w.AddPlayerWeight(0.3, DestID(2)); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "adding player weight", err)
	}
	if err := w.SetNumPlayers(50); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "setting num players", err)
	}

	wd, err := w.ToData()
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "converting ward to data", err)
	}
	back, err := wd.FromData()
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "reconstructing ward from data", err)
	}

	if back.ID() != w.ID() {
		t.Errorf(UnequalIntParameterError, "round-tripped ward id", w.ID(), back.ID())
	}
	if back.Info() != w.Info() {
		t.Errorf(UnequalStringParameterError, "round-tripped ward info", w.Info().String(), back.Info().String())
	}
	if back.NumWorkers() != w.NumWorkers() {
		t.Errorf(UnequalIntParameterError, "round-tripped num workers", w.NumWorkers(), back.NumWorkers())
	}
	if back.NumPlayers() != w.NumPlayers() {
		t.Errorf(UnequalIntParameterError, "round-tripped num players", w.NumPlayers(), back.NumPlayers())
	}
	if back.GetWorkers(DestID(2)) != w.GetWorkers(DestID(2)) {
		t.Errorf(UnequalIntParameterError, "round-tripped commuting workers", w.GetWorkers(DestID(2)), back.GetWorkers(DestID(2)))
	}
	if back.GetPlayers(DestID(2)) != w.GetPlayers(DestID(2)) {
		t.Errorf(UnequalFloatParameterError, "round-tripped player weight", w.GetPlayers(DestID(2)), back.GetPlayers(DestID(2)))
	}
}

func TestWardData_FromData_RejectsMismatchedNumWorkers(t *testing.T) {
	wd := &WardData{
		ID:         1,
		NumWorkers: 999,
		Workers: wardWorkersData{
			Destination: []int{1},
			Population:  []int{10},
		},
	}
	if _, err := wd.FromData(); err == nil {
		t.Errorf(ExpectedErrorWhileError, "reconstructing a ward whose declared num_workers disagrees with its worker lists")
	}
}

func TestSaveAndLoadWardsJSON_RoundTrip(t *testing.T) {
	ws := NewWards(2)
	w1, _ := NewWard(1)
	_ = w1.AddWorkers(50, nil)
	w2, _ := NewWard(2)
	_ = w2.AddWorkers(30, DestID(1))
	_ = ws.Add(w1)
	_ = ws.Add(w2)
	if err := ws.Resolve(); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "resolving wards", err)
	}

	path := t.TempDir() + "/wards.json"
	if err := SaveWardsJSON(ws, path); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "saving wards JSON", err)
	}
	loaded, err := LoadWardsFromJSON(path)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "loading wards JSON", err)
	}
	if loaded.N() != ws.N() {
		t.Errorf(UnequalIntParameterError, "loaded ward count", ws.N(), loaded.N())
	}
	if err := loaded.Resolve(); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "resolving loaded wards", err)
	}
	w2Loaded, err := loaded.Get(2)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "fetching loaded ward 2", err)
	}
	if w2Loaded.GetWorkers(DestID(1)) != 30 {
		t.Errorf(UnequalIntParameterError, "loaded commuting workers", 30, w2Loaded.GetWorkers(DestID(1)))
	}
}
