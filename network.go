package metawards

import (
	"math"
	"sort"
)

// ThreadRange is a contiguous, half-open index range assigned to one
// worker thread, used to partition [1..nnodes] and [1..nlinks] for
// deterministic fork-join iteration (spec section 5).
type ThreadRange struct {
	Begin, End int // [Begin, End)
}

// Node is the per-ward row of a compiled Network, one of the parallel
// arrays described in spec section 3.
type Node struct {
	Label WardInfo

	BeginTo, EndTo int // range into Network.ToLinks for this node's work links
	SelfW          int // index into Network.ToLinks where ifrom == ito == this node

	BeginFrom, EndFrom int // range into Network.LinksByDest for links arriving at this node

	BeginPlay, EndPlay int // range into Network.Play for this node's play links

	SavePlaySuscept float64

	DenominatorD  float64
	DenominatorP  float64
	DenominatorPD float64
	DenominatorN  float64

	PlaySuscept float64

	// WorkFOI/PlayFOI are the per-ward force-of-infection rates computed
	// by the foi stage (spec section 4.4); WorkProb/PlayProb are the
	// per-susceptible infection probabilities advance_infprob derives
	// from them (spec section 4.5 step 2).
	WorkFOI  float64
	PlayFOI  float64
	WorkProb float64
	PlayProb float64

	Position *Position
}

// Link is a single work (commute) edge of a compiled Network.
type Link struct {
	IFrom, ITo int
	Weight     int // initial worker count, fixed at compile time
	Suscept    int // current susceptible worker count, mutates during a run
	Distance   float64
}

// PlayLink is a single play (randomized movement) edge of a compiled
// Network.
type PlayLink struct {
	IFrom, ITo int
	Weight     float64 // initial player weight, fixed at compile time
	Suscept    float64 // current susceptible play weight, mutates during a run
}

// Network is the compiled, immutable-topology representation built from a
// resolved Wards collection. Only Link.Suscept, PlayLink.Suscept,
// Node.PlaySuscept, the per-day Node.WorkFOI/PlayFOI/WorkProb/PlayProb
// scratch values and the associated Infections counters mutate once a
// Network has been compiled; everything else is read-only for the life of
// the run.
type Network struct {
	NNodes int
	NLinks int
	NPlay  int

	Nodes   []Node     // length NNodes+1, index 0 unused
	ToLinks []Link     // length NLinks+1, index 0 unused
	Play    []PlayLink // length NPlay+1, index 0 unused

	// LinksByDest indexes ToLinks in destination-node order: entries for
	// node n's Node.BeginFrom..EndFrom range are the ToLinks indices of
	// every link with ITo == n. This is the reverse of the BeginTo/EndTo
	// (source-ordered) layout, and is how the foi stage sums infections
	// physically present at a ward from workers commuting in (spec
	// section 4.4/4.5): ToLinks itself is blocked by source node only.
	LinksByDest []int

	Params *Parameters
	Info   WardInfo // label for this compiled network as a whole (demographic name)

	NodesByThread []ThreadRange
	LinksByThread []ThreadRange
}

// CompileNetwork builds a Network from a fully resolved Wards collection,
// following the compile steps of spec section 4.2: flatten worker lists
// into contiguous per-node blocks (inserting a zero-weight self link
// where none exists), flatten player lists with auto-assign expansion,
// partition both arrays across nthreads by summed weight, and initialize
// the mutable suscept/play_suscept arrays from the static weights.
func CompileNetwork(wards *Wards, params *Parameters, nthreads int) (*Network, error) {
	if !wards.IsResolved() {
		return nil, errorf(InvalidStringParameterError, "wards", "unresolved",
			"Wards must be fully resolved before compiling a Network")
	}

	nnodes := wards.N()
	net := &Network{
		NNodes: nnodes,
		Params: params,
		Nodes:  make([]Node, nnodes+1),
	}

	type workEntry struct {
		ito    int
		weight int
	}
	type playEntry struct {
		ito    int
		weight float64
	}

	workByNode := make([][]workEntry, nnodes+1)
	playByNode := make([][]playEntry, nnodes+1)

	for id := 1; id <= nnodes; id++ {
		w, err := wards.Get(id)
		if err != nil {
			return nil, err
		}
		net.Nodes[id].Label = w.Info()
		net.Nodes[id].Position = w.Position()

		dests, counts, err := w.GetWorkerLists()
		if err != nil {
			return nil, err
		}
		hasSelf := false
		entries := make([]workEntry, 0, len(dests)+1)
		for i, d := range dests {
			if d == id {
				hasSelf = true
			}
			entries = append(entries, workEntry{ito: d, weight: counts[i]})
		}
		if !hasSelf {
			entries = append(entries, workEntry{ito: id, weight: 0})
			sort.Slice(entries, func(i, j int) bool { return entries[i].ito < entries[j].ito })
		}
		workByNode[id] = entries

		pdests, pweights, err := w.GetPlayerLists(false)
		if err != nil {
			return nil, err
		}
		pentries := make([]playEntry, len(pdests))
		for i, d := range pdests {
			pentries[i] = playEntry{ito: d, weight: pweights[i]}
		}
		playByNode[id] = pentries

		totalPop := float64(w.Population())
		net.Nodes[id].DenominatorD = float64(w.NumWorkers())
		net.Nodes[id].DenominatorP = float64(w.NumPlayers())
		net.Nodes[id].DenominatorPD = float64(w.NumWorkers()) + float64(w.NumPlayers())
		net.Nodes[id].DenominatorN = totalPop
	}

	nlinks := 0
	for id := 1; id <= nnodes; id++ {
		nlinks += len(workByNode[id])
	}
	net.NLinks = nlinks
	net.ToLinks = make([]Link, nlinks+1)

	linkIdx := 1
	for id := 1; id <= nnodes; id++ {
		net.Nodes[id].BeginTo = linkIdx
		for _, e := range workByNode[id] {
			dist := 0.0
			if net.Nodes[id].Position != nil {
				if to, err := wards.Get(e.ito); err == nil && to.Position() != nil {
					dist = euclidean(*net.Nodes[id].Position, *to.Position())
				}
			}
			net.ToLinks[linkIdx] = Link{
				IFrom:    id,
				ITo:      e.ito,
				Weight:   e.weight,
				Suscept:  e.weight,
				Distance: dist,
			}
			if e.ito == id {
				net.Nodes[id].SelfW = linkIdx
			}
			linkIdx++
		}
		net.Nodes[id].EndTo = linkIdx
	}

	nplay := 0
	for id := 1; id <= nnodes; id++ {
		nplay += len(playByNode[id])
	}
	net.NPlay = nplay
	net.Play = make([]PlayLink, nplay+1)

	playIdx := 1
	for id := 1; id <= nnodes; id++ {
		net.Nodes[id].BeginPlay = playIdx
		for _, e := range playByNode[id] {
			net.Play[playIdx] = PlayLink{
				IFrom:   id,
				ITo:     e.ito,
				Weight:  e.weight,
				Suscept: e.weight * net.Nodes[id].DenominatorP,
			}
			playIdx++
		}
		net.Nodes[id].EndPlay = playIdx
		net.Nodes[id].PlaySuscept = net.Nodes[id].DenominatorP
		net.Nodes[id].SavePlaySuscept = net.Nodes[id].PlaySuscept
	}

	net.buildLinksByDest()
	net.PartitionByThreads(nthreads)
	return net, nil
}

// buildLinksByDest populates LinksByDest and each node's BeginFrom/EndFrom,
// the destination-ordered reverse index of ToLinks.
func (n *Network) buildLinksByDest() {
	counts := make([]int, n.NNodes+2)
	for i := 1; i <= n.NLinks; i++ {
		counts[n.ToLinks[i].ITo]++
	}
	starts := make([]int, n.NNodes+2)
	running := 0
	for id := 1; id <= n.NNodes; id++ {
		starts[id] = running
		running += counts[id]
	}

	n.LinksByDest = make([]int, n.NLinks)
	cursor := append([]int(nil), starts...)
	for i := 1; i <= n.NLinks; i++ {
		dest := n.ToLinks[i].ITo
		n.LinksByDest[cursor[dest]] = i
		cursor[dest]++
	}

	for id := 1; id <= n.NNodes; id++ {
		n.Nodes[id].BeginFrom = starts[id]
		n.Nodes[id].EndFrom = starts[id] + counts[id]
	}
}

func euclidean(a, b Position) float64 {
	if a.HasXY && b.HasXY {
		dx, dy := a.X-b.X, a.Y-b.Y
		return math.Sqrt(dx*dx + dy*dy)
	}
	return 0
}

// PartitionByThreads recomputes NodesByThread and LinksByThread, splitting
// [1..NNodes] and [1..NLinks] into nthreads contiguous ranges whose
// summed Link.Weight / worker population is approximately balanced, per
// spec section 4.2 step 4. Must be called again if nthreads changes
// between runs sharing a compiled Network.
func (n *Network) PartitionByThreads(nthreads int) {
	if nthreads < 1 {
		nthreads = 1
	}

	nodeWeights := make([]float64, n.NNodes+1)
	for i := 1; i <= n.NNodes; i++ {
		nodeWeights[i] = n.Nodes[i].DenominatorD + 1
	}
	n.NodesByThread = partitionByWeight(nodeWeights, n.NNodes, nthreads)

	linkWeights := make([]float64, n.NLinks+1)
	for i := 1; i <= n.NLinks; i++ {
		linkWeights[i] = float64(n.ToLinks[i].Weight) + 1
	}
	n.LinksByThread = partitionByWeight(linkWeights, n.NLinks, nthreads)
}

// partitionByWeight splits [1..count] into nthreads contiguous,
// non-overlapping ranges whose summed weights[i] are as close to equal as
// a greedy single pass can make them. Every index is assigned to exactly
// one range; trailing empty ranges are possible when count < nthreads.
func partitionByWeight(weights []float64, count, nthreads int) []ThreadRange {
	ranges := make([]ThreadRange, nthreads)
	if count == 0 {
		for t := range ranges {
			ranges[t] = ThreadRange{Begin: 1, End: 1}
		}
		return ranges
	}

	total := 0.0
	for i := 1; i <= count; i++ {
		total += weights[i]
	}
	target := total / float64(nthreads)

	idx := 1
	running := 0.0
	for t := 0; t < nthreads; t++ {
		begin := idx
		if t == nthreads-1 {
			idx = count + 1
		} else {
			threshold := target * float64(t+1)
			for idx <= count && (running < threshold || begin == idx) {
				running += weights[idx]
				idx++
			}
		}
		ranges[t] = ThreadRange{Begin: begin, End: idx}
	}
	return ranges
}

// AssertSane checks the topology invariants from spec section 3: link
// endpoints in range, self_w correctness, and work weight matching the
// builder's worker counts (invariant 3 of spec section 8).
func (n *Network) AssertSane(wards *Wards) error {
	for i := 1; i <= n.NLinks; i++ {
		l := n.ToLinks[i]
		if l.IFrom < 1 || l.IFrom > n.NNodes || l.ITo < 1 || l.ITo > n.NNodes {
			return errorf(ErrLinkEndpointOutOfRange, l.ITo, n.NNodes)
		}
	}
	for id := 1; id <= n.NNodes; id++ {
		node := n.Nodes[id]
		if node.SelfW < node.BeginTo || node.SelfW >= node.EndTo {
			return errorf(InvalidIntParameterError, "self_w", node.SelfW, "must index this node's own work-link block")
		}
		self := n.ToLinks[node.SelfW]
		if self.IFrom != id || self.ITo != id {
			return errorf(InvalidIntParameterError, "self_w", node.SelfW, "must reference a link with ifrom == ito == node id")
		}
		if wards != nil {
			w, err := wards.Get(id)
			if err != nil {
				return err
			}
			sum := 0
			for i := node.BeginTo; i < node.EndTo; i++ {
				sum += n.ToLinks[i].Weight
			}
			if sum != w.NumWorkers() {
				return errorf(UnequalIntParameterError, "work weight sum", w.NumWorkers(), sum)
			}
		}
	}
	return nil
}

// Reset re-initializes every link's Suscept from Weight and every node's
// PlaySuscept from its saved value, matching the "reset between runs"
// lifecycle rule of spec section 3.
func (n *Network) Reset() {
	for i := 1; i <= n.NLinks; i++ {
		n.ToLinks[i].Suscept = n.ToLinks[i].Weight
	}
	for i := 1; i <= n.NPlay; i++ {
		n.Play[i].Suscept = n.Play[i].Weight * n.Nodes[n.Play[i].IFrom].DenominatorP
	}
	for i := 1; i <= n.NNodes; i++ {
		n.Nodes[i].PlaySuscept = n.Nodes[i].SavePlaySuscept
	}
}

