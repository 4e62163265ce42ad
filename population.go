package metawards

// Population is the per-day scalar summary tallied by the analyse stage:
// total counts across every ward and demographic, broken down by disease
// stage (spec section 3).
type Population struct {
	Day  int
	Date string

	Susceptibles int
	Latent       int
	Infected     []int // per infected stage, length N_INF_CLASSES-1
	Removed      int

	NInfected int // sum(Infected) + Latent, cached for cancellation checks
}

// NewPopulation creates a zeroed Population for the given disease, with
// Infected sized to hold every non-latent infected stage (1..N-1).
func NewPopulation(disease *Disease, initialSusceptibles int) *Population {
	n := disease.NInfClasses()
	infectedLen := 0
	if n > 1 {
		infectedLen = n - 1
	}
	return &Population{
		Susceptibles: initialSusceptibles,
		Infected:     make([]int, infectedLen),
	}
}

// Tally recomputes Susceptibles/Latent/Infected/Removed/NInfected by
// summing a Network's infection counters and remaining susceptibles, per
// the analyse-stage description in spec section 4.4. Stage 0 is
// latent/new; stages 1..N-1 are Infected; Removed is the external bucket
// advance_recovery empties the last stage into (spec section 4.5), not a
// stage array index.
//
// Callers with demographics must use TallyNetworks instead: once subnets
// exist, the overall Network's own Suscept/PlaySuscept are never mutated
// during a run (only subnets carry live state), so tallying against it
// directly would silently report the initial population forever.
func (pop *Population) Tally(net *Network, inf *Infections) {
	pop.tallyFrom([]target{{net: net, inf: inf}})
}

// TallyNetworks recomputes Population by summing across every demographic
// subnet when present, or the overall network otherwise (spec section
// 4.4: "tallies Population counters by summing infections across
// demographics and stages").
func (pop *Population) TallyNetworks(nets *Networks, inf *Infections) {
	if len(nets.Subnets) == 0 {
		pop.tallyFrom([]target{{net: nets.Overall, inf: inf}})
		return
	}
	targets := make([]target, len(nets.Subnets))
	for i, sub := range nets.Subnets {
		targets[i] = target{net: sub, inf: inf.SubWorks[i]}
	}
	pop.tallyFrom(targets)
}

func (pop *Population) tallyFrom(targets []target) {
	susceptibles := 0
	removed := 0
	nstages := 0
	for _, t := range targets {
		for i := 1; i <= t.net.NLinks; i++ {
			susceptibles += t.net.ToLinks[i].Suscept
		}
		for i := 1; i <= t.net.NNodes; i++ {
			susceptibles += int(t.net.Nodes[i].PlaySuscept)
		}
		removed += t.inf.RemovedTotal()
		if n := t.inf.NInfClasses(); n > nstages {
			nstages = n
		}
	}
	pop.Susceptibles = susceptibles
	pop.Removed = removed

	if nstages == 0 {
		pop.Latent, pop.NInfected, pop.Infected = 0, 0, pop.Infected[:0]
		return
	}

	if cap(pop.Infected) < nstages-1 {
		pop.Infected = make([]int, nstages-1)
	} else {
		pop.Infected = pop.Infected[:nstages-1]
	}
	for i := range pop.Infected {
		pop.Infected[i] = 0
	}

	latent := 0
	for _, t := range targets {
		latent += t.inf.StageTotal(0)
		for s := 1; s < t.inf.NInfClasses(); s++ {
			pop.Infected[s-1] += t.inf.StageTotal(s)
		}
	}
	pop.Latent = latent

	total := latent
	for _, v := range pop.Infected {
		total += v
	}
	pop.NInfected = total
}

// TotalInfected reports the sum across latent and all infected stages,
// used by the cancellation rule in spec section 5 ("total infected
// population reaches zero").
func (pop *Population) TotalInfected() int { return pop.NInfected }
