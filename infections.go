package metawards

// Infections holds the mutable per-stage counter arrays for one compiled
// Network: Work is indexed [stage][link], Play is indexed [stage][node].
// Index 0 along the link/node axis is the unused sentinel matching the
// Network's own 1-based indexing; stage 0 is latent/new, the last stage
// is the one step before removal (spec section 3).
type Infections struct {
	Work [][]int
	Play [][]int

	// RemovedWork/RemovedPlay accumulate the per-link/per-node counts
	// that advance_recovery moves out of the last infected stage, so
	// that suscept + sum_i infections_i + removed reproduces the
	// initial susceptible count exactly at every index (spec section 8
	// invariant 5), not just in aggregate.
	RemovedWork []int
	RemovedPlay []int

	// SubWorks/SubPlays hold one Infections-shaped pair of arrays per
	// subnet, populated only when built from a multi-demographic
	// Networks (spec section 3: "For Networks: plus sub_works, sub_plays
	// parallel to subnets").
	SubWorks []*Infections
	SubPlays []*Infections
}

// NewInfections allocates zeroed Work/Play arrays sized for a Network
// with the given link/node counts and a disease with nInfClasses stages.
func NewInfections(nInfClasses, nlinks, nnodes int) *Infections {
	inf := &Infections{
		Work:        make([][]int, nInfClasses),
		Play:        make([][]int, nInfClasses),
		RemovedWork: make([]int, nlinks+1),
		RemovedPlay: make([]int, nnodes+1),
	}
	for s := 0; s < nInfClasses; s++ {
		inf.Work[s] = make([]int, nlinks+1)
		inf.Play[s] = make([]int, nnodes+1)
	}
	return inf
}

// BuildInfections allocates an Infections for a single compiled Network,
// mirroring Infections.build(network=...) in the original source.
func BuildInfections(net *Network, disease *Disease) *Infections {
	return NewInfections(disease.NInfClasses(), net.NLinks, net.NNodes)
}

// BuildNetworksInfections allocates the overall Infections plus one
// sub-Infections per subnet, mirroring Infections.build(networks=...).
func BuildNetworksInfections(nets *Networks, disease *Disease) *Infections {
	inf := BuildInfections(nets.Overall, disease)
	inf.SubWorks = make([]*Infections, len(nets.Subnets))
	inf.SubPlays = make([]*Infections, len(nets.Subnets))
	for i, sub := range nets.Subnets {
		subInf := BuildInfections(sub, disease)
		inf.SubWorks[i] = subInf
		inf.SubPlays[i] = subInf
	}
	return inf
}

// NInfClasses returns the number of disease stages this Infections was
// built for.
func (inf *Infections) NInfClasses() int { return len(inf.Work) }

// StageTotal sums Work[stage] and Play[stage] across every link/node.
func (inf *Infections) StageTotal(stage int) int {
	total := 0
	for _, v := range inf.Work[stage] {
		total += v
	}
	for _, v := range inf.Play[stage] {
		total += v
	}
	return total
}

// RemovedTotal sums RemovedWork and RemovedPlay across every link/node.
func (inf *Infections) RemovedTotal() int {
	total := 0
	for _, v := range inf.RemovedWork {
		total += v
	}
	for _, v := range inf.RemovedPlay {
		total += v
	}
	return total
}

// Clear zeroes every counter, including subnet counters, matching
// Infections.clear(nthreads) in the original source. nthreads is accepted
// for signature parity with the staged-loop kwargs bundle but clearing
// itself is O(n) regardless of thread count.
func (inf *Infections) Clear(nthreads int) {
	clearInPlace(inf)
	for _, sub := range inf.SubWorks {
		if sub != nil {
			clearInPlace(sub)
		}
	}
}

func clearInPlace(inf *Infections) {
	for s := range inf.Work {
		for i := range inf.Work[s] {
			inf.Work[s][i] = 0
		}
		for i := range inf.Play[s] {
			inf.Play[s][i] = 0
		}
	}
	for i := range inf.RemovedWork {
		inf.RemovedWork[i] = 0
	}
	for i := range inf.RemovedPlay {
		inf.RemovedPlay[i] = 0
	}
}

// SeedInitial places n initial infections at disease stage 0 on the work
// self work link of ward, matching the
// "initial_inf" seeding performed once at the start of a run.
func (inf *Infections) SeedInitial(net *Network, ward, n int) error {
	if ward < 1 || ward > net.NNodes {
		return errorf(ErrLinkEndpointOutOfRange, ward, net.NNodes)
	}
	link := net.Nodes[ward].SelfW
	if net.ToLinks[link].Suscept < n {
		return errorf(ErrNegativeCount, "susceptibles available for seeding", net.ToLinks[link].Suscept-n)
	}
	net.ToLinks[link].Suscept -= n
	inf.Work[0][link] += n
	return nil
}
