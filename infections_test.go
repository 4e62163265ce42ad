package metawards

import "testing"

func TestInfections_SeedInitial_DecrementsSuscept(t *testing.T) {
	disease := sampleDisease()
	_, nets := singleWardNetwork(t, 200, disease)
	inf := BuildInfections(nets.Overall, disease)
	selfLink := nets.Overall.Nodes[1].SelfW
	before := nets.Overall.ToLinks[selfLink].Suscept

	if err := inf.SeedInitial(nets.Overall, 1, 20); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "seeding initial infections", err)
	}
	after := nets.Overall.ToLinks[selfLink].Suscept
	if before-after != 20 {
		t.Errorf(UnequalIntParameterError, "susceptible decrease from seeding", 20, before-after)
	}
	if inf.Work[0][selfLink] != 20 {
		t.Errorf(UnequalIntParameterError, "stage-0 work infections after seeding", 20, inf.Work[0][selfLink])
	}
}

func TestInfections_SeedInitial_RejectsOversizedSeed(t *testing.T) {
	disease := sampleDisease()
	_, nets := singleWardNetwork(t, 10, disease)
	inf := BuildInfections(nets.Overall, disease)
	if err := inf.SeedInitial(nets.Overall, 1, 999); err == nil {
		t.Errorf(ExpectedErrorWhileError, "seeding more infections than available susceptibles")
	}
}

func TestInfections_Clear_ZeroesAllCounters(t *testing.T) {
	disease := sampleDisease()
	_, nets := singleWardNetwork(t, 100, disease)
	inf := BuildInfections(nets.Overall, disease)
	_ = inf.SeedInitial(nets.Overall, 1, 10)
	if total := inf.StageTotal(0); total != 10 {
		t.Fatalf(UnequalIntParameterError, "stage-0 total before clear", 10, total)
	}
	inf.Clear(1)
	if total := inf.StageTotal(0); total != 0 {
		t.Errorf(UnequalIntParameterError, "stage-0 total after clear", 0, total)
	}
	if total := inf.RemovedTotal(); total != 0 {
		t.Errorf(UnequalIntParameterError, "removed total after clear", 0, total)
	}
}

func TestInfections_BuildNetworksInfections_OneSubPerDemographic(t *testing.T) {
	disease := sampleDisease()
	ws := NewWards(1)
	w, _ := NewWard(1)
	_ = w.AddWorkers(100, nil)
	_ = ws.Add(w)
	_ = ws.Resolve()
	params := DefaultParameters()
	params.SetDisease(disease)
	net, err := CompileNetwork(ws, params, 1)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "compiling network", err)
	}
	demos := Demographics{List: []Demographic{{Name: "a", Fraction: 0.5}, {Name: "b", Fraction: 0.5}}}
	nets, err := BuildNetworks(net, demos, 1)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "building demographic networks", err)
	}
	inf := BuildNetworksInfections(nets, disease)
	if n := len(inf.SubWorks); n != 2 {
		t.Errorf(UnequalIntParameterError, "number of sub-work infection sets", 2, n)
	}
}
