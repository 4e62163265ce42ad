package metawards

import "testing"

func twoWardNetwork(t *testing.T) (*Wards, *Network) {
	t.Helper()
	ws := NewWards(2)
	w1, err := NewWard(1)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "creating ward 1", err)
	}
	if err := w1.AddWorkers(100, nil); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "adding ward 1 home workers", err)
	}
	w2, err := NewWard(2)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "creating ward 2", err)
	}
	if err := w2.AddWorkers(50, DestID(1)); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "adding ward 2 commuting workers", err)
	}
	if err := ws.Add(w1); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "adding ward 1 to collection", err)
	}
	if err := ws.Add(w2); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "adding ward 2 to collection", err)
	}
	if err := ws.Resolve(); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "resolving wards", err)
	}

	net, err := CompileNetwork(ws, DefaultParameters(), 4)
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "compiling network", err)
	}
	return ws, net
}

func TestCompileNetwork_InsertsSelfLink(t *testing.T) {
	ws, net := twoWardNetwork(t)
	self := net.ToLinks[net.Nodes[2].SelfW]
	if self.IFrom != 2 || self.ITo != 2 {
		t.Errorf(UnequalStringParameterError, "ward 2 self link endpoints", "2 -> 2", "mismatch")
	}
	if self.Weight != 0 {
		t.Errorf(UnequalIntParameterError, "inserted self link weight", 0, self.Weight)
	}
	if err := net.AssertSane(ws); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "asserting compiled network sane", err)
	}
}

func TestCompileNetwork_PlayersAutoAssignedHome(t *testing.T) {
	_, net := twoWardNetwork(t)
	if n := net.NPlay; n != 2 {
		t.Errorf(UnequalIntParameterError, "number of play links", 2, n)
	}
	for id := 1; id <= net.NNodes; id++ {
		node := net.Nodes[id]
		found := false
		for p := node.BeginPlay; p < node.EndPlay; p++ {
			if net.Play[p].ITo == id && net.Play[p].Weight == 1.0 {
				found = true
			}
		}
		if !found {
			t.Errorf(UnequalStringParameterError, "auto-assigned home play weight", "1.0", "missing")
		}
	}
}

func TestPartitionByThreads_MoreThreadsThanNodes(t *testing.T) {
	_, net := twoWardNetwork(t)
	net.PartitionByThreads(8)
	if len(net.NodesByThread) != 8 {
		t.Errorf(UnequalIntParameterError, "number of thread ranges", 8, len(net.NodesByThread))
	}
	total := 0
	for _, r := range net.NodesByThread {
		total += r.End - r.Begin
	}
	if total != net.NNodes {
		t.Errorf(UnequalIntParameterError, "total nodes covered by thread ranges", net.NNodes, total)
	}
}

func TestNetwork_Reset(t *testing.T) {
	_, net := twoWardNetwork(t)
	net.ToLinks[1].Suscept = 0
	net.Nodes[1].PlaySuscept = 0
	net.Reset()
	if net.ToLinks[1].Suscept != net.ToLinks[1].Weight {
		t.Errorf(UnequalIntParameterError, "link susceptibles after reset", net.ToLinks[1].Weight, net.ToLinks[1].Suscept)
	}
	if net.Nodes[1].PlaySuscept != net.Nodes[1].SavePlaySuscept {
		t.Errorf(UnequalFloatParameterError, "play susceptibles after reset", net.Nodes[1].SavePlaySuscept, net.Nodes[1].PlaySuscept)
	}
}
