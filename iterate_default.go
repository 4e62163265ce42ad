package metawards

import (
	"math"
	"sync"
)

// target pairs one Network (the overall network, or one demographic
// subnet) with the Infections arrays that belong to it, so every kernel
// in this file operates uniformly whether or not demographics are in
// play (spec section 3's "Demographics / Networks").
type target struct {
	net *Network
	inf *Infections
}

// networkTargets returns one target per demographic subnet, or a single
// target for the overall network when there are no demographics.
func networkTargets(args *StageArgs) []target {
	if len(args.Networks.Subnets) == 0 {
		return []target{{net: args.Networks.Overall, inf: args.Infections}}
	}
	targets := make([]target, len(args.Networks.Subnets))
	for i, sub := range args.Networks.Subnets {
		targets[i] = target{net: sub, inf: args.Infections.SubWorks[i]}
	}
	return targets
}

// forEachThread runs fn once per ThreadRange concurrently, each on its own
// goroutine, and blocks until every goroutine has returned. This is the
// fork-join primitive spec section 5 requires: disjoint index ranges, a
// full barrier before the caller proceeds. Grounded on the teacher's
// sync.WaitGroup fan-out idiom (migration_simulation.go,
// intrahost_process.go), applied here over thread index ranges instead of
// per-host slices.
func forEachThread(ranges []ThreadRange, fn func(threadIdx int, r ThreadRange)) {
	var wg sync.WaitGroup
	wg.Add(len(ranges))
	for t, r := range ranges {
		go func(t int, r ThreadRange) {
			defer wg.Done()
			fn(t, r)
		}(t, r)
	}
	wg.Wait()
}

// IterateDefault is the bundled default iterator (spec section 4.4),
// dispatching setup/foi/infect to the kernels below. analyse is handled by
// ExtractDefault; initialise/finalise need no iterator work.
func IterateDefault(args *StageArgs) (bool, error) {
	switch args.Stage {
	case StageSetup:
		return false, defaultSetupProgress(args)
	case StageFOI:
		return false, defaultFOI(args)
	case StageInfect:
		return false, defaultInfect(args)
	default:
		return false, nil
	}
}

// defaultSetupProgress advances every stage 0..N-2 forward by one day,
// highest stage first so a freshly advanced index is not immediately
// re-advanced within the same sweep (spec section 4.4's setup-stage
// description, spec section 4.5's generic progression kernel). Stage N-1
// (the last infected stage) is left for advance_recovery in the infect
// stage.
func defaultSetupProgress(args *StageArgs) error {
	for _, t := range networkTargets(args) {
		disease := t.net.Params.DiseaseParams
		if disease == nil {
			continue
		}
		n := disease.NInfClasses()
		for stage := n - 2; stage >= 0; stage-- {
			progressStage(t, stage, disease.Progress[stage], args)
		}
	}
	return nil
}

// progressStage draws m ~ Binomial(infections[stage][k], prob) for every
// link k (work) and node k (play), moving m from stage to stage+1, or into
// the external Removed buckets when stage is the last infected class
// (spec section 4.5).
func progressStage(t target, stage int, prob float64, args *StageArgs) {
	isLast := stage == t.inf.NInfClasses()-1

	forEachThread(t.net.LinksByThread, func(threadIdx int, r ThreadRange) {
		rng := args.RNGs[threadIdx]
		for link := r.Begin; link < r.End; link++ {
			n := t.inf.Work[stage][link]
			if n <= 0 {
				continue
			}
			m := rng.RanBinomial(n, prob)
			if m <= 0 {
				continue
			}
			t.inf.Work[stage][link] -= m
			if isLast {
				t.inf.RemovedWork[link] += m
			} else {
				t.inf.Work[stage+1][link] += m
			}
		}
	})

	forEachThread(t.net.NodesByThread, func(threadIdx int, r ThreadRange) {
		rng := args.RNGs[threadIdx]
		for node := r.Begin; node < r.End; node++ {
			n := t.inf.Play[stage][node]
			if n <= 0 {
				continue
			}
			m := rng.RanBinomial(n, prob)
			if m <= 0 {
				continue
			}
			t.inf.Play[stage][node] -= m
			if isLast {
				t.inf.RemovedPlay[node] += m
			} else {
				t.inf.Play[stage+1][node] += m
			}
		}
	})
}

// defaultFOI recomputes each node's WorkFOI/PlayFOI, per spec section 4.4:
// summing, over every infected stage and every work/play infection
// present at that ward, contrib_foi[s] * beta[s] * length_day (work) or
// plength_day (play), scaled by the too_ill_to_move[s] movement factor,
// before the UV multiplier.
func defaultFOI(args *StageArgs) error {
	for _, t := range networkTargets(args) {
		disease := t.net.Params.DiseaseParams
		if disease == nil {
			continue
		}
		forEachThread(t.net.NodesByThread, func(threadIdx int, r ThreadRange) {
			for node := r.Begin; node < r.End; node++ {
				computeNodeFOI(t.net, t.inf, disease, node)
			}
		})
	}
	return nil
}

func computeNodeFOI(net *Network, inf *Infections, disease *Disease, node int) {
	params := net.Params
	n := disease.NInfClasses()

	var workSum float64
	for i := net.Nodes[node].BeginFrom; i < net.Nodes[node].EndFrom; i++ {
		link := net.LinksByDest[i]
		for s := 0; s < n; s++ {
			c := inf.Work[s][link]
			if c == 0 {
				continue
			}
			workSum += float64(c) * disease.ContribFOI[s] * disease.Beta[s] * (1 - disease.TooIllToMove[s])
		}
	}

	var playSum float64
	for s := 0; s < n; s++ {
		c := inf.Play[s][node]
		if c == 0 {
			continue
		}
		playSum += float64(c) * disease.ContribFOI[s] * disease.Beta[s] * (1 - disease.TooIllToMove[s])
	}

	workRate := 0.0
	if d := net.Nodes[node].DenominatorD; d > 0 {
		workRate = (workSum * params.LengthDay / d) * params.UV
	}
	playRate := 0.0
	if d := net.Nodes[node].DenominatorP; d > 0 {
		playRate = (playSum * params.PlengthDay / d) * params.UV
	}

	net.Nodes[node].WorkFOI = workRate
	net.Nodes[node].PlayFOI = playRate
}

// defaultInfect runs the infect-stage kernels in the fixed order from spec
// section 4.4: advance_recovery, advance_infprob, advance_fixed,
// advance_play, advance_additional.
func defaultInfect(args *StageArgs) error {
	for _, t := range networkTargets(args) {
		disease := t.net.Params.DiseaseParams
		if disease == nil {
			continue
		}
		advanceRecovery(t, disease, args)
		if err := advanceInfProb(t, args); err != nil {
			return err
		}
		advanceFixed(t, args)
		advancePlay(t, args)
	}
	return advanceAdditional(args)
}

// advanceRecovery progresses the last infected stage (N-1) out to the
// Removed buckets, the "advance_recovery" bullet of spec section 4.4.
func advanceRecovery(t target, disease *Disease, args *StageArgs) {
	last := disease.NInfClasses() - 1
	if last < 0 {
		return
	}
	progressStage(t, last, disease.Progress[last], args)
}

// advanceInfProb converts each node's FOI rate into a per-susceptible
// infection probability via the standard rate-to-probability conversion
// 1 - exp(-rate) (spec section 4.5 step 2; see DESIGN.md for why this
// formula was chosen over the unspecified alternative).
func advanceInfProb(t target, args *StageArgs) error {
	var mu sync.Mutex
	badNode := -1
	forEachThread(t.net.NodesByThread, func(threadIdx int, r ThreadRange) {
		for node := r.Begin; node < r.End; node++ {
			n := &t.net.Nodes[node]
			n.WorkProb = rateToProb(n.WorkFOI)
			n.PlayProb = rateToProb(n.PlayFOI)
			if math.IsNaN(n.WorkProb) || math.IsInf(n.WorkProb, 0) ||
				math.IsNaN(n.PlayProb) || math.IsInf(n.PlayProb, 0) {
				mu.Lock()
				if badNode < 0 {
					badNode = node
				}
				mu.Unlock()
			}
		}
	})
	if badNode >= 0 {
		return errorf(ErrNaNForceOfInfection, badNode)
	}
	return nil
}

func rateToProb(rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	p := 1 - math.Exp(-rate)
	if p > 1 {
		return 1
	}
	return p
}

// advanceFixed samples new work-link infections (spec section 4.5): for
// every link with Suscept > 0, draw k ~ Binomial(Suscept, destination
// node's WorkProb), move k susceptibles into stage 0.
func advanceFixed(t target, args *StageArgs) {
	forEachThread(t.net.LinksByThread, func(threadIdx int, r ThreadRange) {
		rng := args.RNGs[threadIdx]
		for link := r.Begin; link < r.End; link++ {
			l := &t.net.ToLinks[link]
			if l.Suscept <= 0 {
				continue
			}
			p := t.net.Nodes[l.ITo].WorkProb
			if p <= 0 {
				continue
			}
			k := rng.RanBinomial(l.Suscept, p)
			if k <= 0 {
				continue
			}
			l.Suscept -= k
			t.inf.Work[0][link] += k
		}
	})
}

// advancePlay samples new play infections (spec section 4.5): for every
// node with PlaySuscept > 0, draw k ~ Binomial(PlaySuscept, PlayProb),
// move k susceptibles into stage 0.
func advancePlay(t target, args *StageArgs) {
	forEachThread(t.net.NodesByThread, func(threadIdx int, r ThreadRange) {
		rng := args.RNGs[threadIdx]
		for node := r.Begin; node < r.End; node++ {
			n := &t.net.Nodes[node]
			suscept := int(n.PlaySuscept)
			if suscept <= 0 || n.PlayProb <= 0 {
				continue
			}
			k := rng.RanBinomial(suscept, n.PlayProb)
			if k <= 0 {
				continue
			}
			n.PlaySuscept -= float64(k)
			t.inf.Play[0][node] += k
		}
	})
}
