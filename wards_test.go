package metawards

import "testing"

func TestWards_Add_AssignsContiguousIDs(t *testing.T) {
	ws := NewWards(2)
	w1 := NewWardFromInfo(WardInfo{Name: "Alpha"})
	w2 := NewWardFromInfo(WardInfo{Name: "Beta"})
	if err := ws.Add(w1); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "adding first ward", err)
	}
	if err := ws.Add(w2); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "adding second ward", err)
	}
	if w1.ID() != 1 || w2.ID() != 2 {
		t.Errorf(UnequalStringParameterError, "assigned ids", "[1 2]", "mismatch")
	}
	if n := ws.N(); n != 2 {
		t.Errorf(UnequalIntParameterError, "ward count", 2, n)
	}
}

func TestWards_Resolve_ByInfo(t *testing.T) {
	ws := NewWards(2)
	a := NewWardFromInfo(WardInfo{Name: "Alpha"})
	b := NewWardFromInfo(WardInfo{Name: "Beta"})
	if err := b.AddWorkers(30, DestInfo(WardInfo{Name: "Alpha"})); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "adding info-keyed workers", err)
	}
	if err := ws.Add(a); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "adding ward a", err)
	}
	if err := ws.Add(b); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "adding ward b", err)
	}
	if ws.IsResolved() {
		t.Errorf(ExpectedErrorWhileError, "checking resolution before Resolve is called")
	}
	if err := ws.Resolve(); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "resolving wards", err)
	}
	if !ws.IsResolved() {
		t.Errorf(UnequalStringParameterError, "resolved state", "true", "false")
	}
	if n := b.GetWorkers(DestID(1)); n != 30 {
		t.Errorf(UnequalIntParameterError, "workers resolved to ward 1", 30, n)
	}
}

func TestWards_Resolve_MissingDestinationFails(t *testing.T) {
	ws := NewWards(1)
	a := NewWardFromInfo(WardInfo{Name: "Alpha"})
	_ = a.AddWorkers(5, DestInfo(WardInfo{Name: "Nowhere"}))
	if err := ws.Add(a); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "adding ward", err)
	}
	if err := ws.Resolve(); err == nil {
		t.Errorf(ExpectedErrorWhileError, "resolving a destination absent from the collection")
	}
}

func TestWards_TotalPopulation(t *testing.T) {
	ws := NewWards(2)
	a, _ := NewWard(1)
	_ = a.AddWorkers(10, nil)
	_ = a.SetNumPlayers(5)
	b, _ := NewWard(2)
	_ = b.AddWorkers(20, nil)
	_ = b.SetNumPlayers(15)
	_ = ws.Add(a)
	_ = ws.Add(b)
	if total := ws.TotalPopulation(); total != 50 {
		t.Errorf(UnequalIntParameterError, "total population", 50, total)
	}
}
