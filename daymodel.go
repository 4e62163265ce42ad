package metawards

// runStage composes mover ++ iterator ++ mixer ++ extractor for one stage
// and runs them in that fixed order (spec section 4.4): `funcs(stage) =
// mover(stage) ++ iterator(stage) ++ mixer(stage) ++ extractor(stage)`.
// Each bundled function is itself stage-aware (it no-ops on stages it
// doesn't apply to), so composing all four unconditionally, every stage,
// reproduces the spec's per-stage function-list concatenation without a
// separate registry lookup per stage.
func runStage(args *StageArgs, mover StageFunc, iterator IteratorFunc, mixer StageFunc, extractor IteratorFunc) (bool, error) {
	if mover != nil {
		if err := mover(args); err != nil {
			return false, err
		}
	}
	stop, err := false, error(nil)
	if iterator != nil {
		stop, err = iterator(args)
		if err != nil {
			return false, err
		}
	}
	if mixer != nil {
		if err := mixer(args); err != nil {
			return false, err
		}
	}
	if extractor != nil {
		extStop, err := extractor(args)
		if err != nil {
			return false, err
		}
		stop = stop || extStop
	}
	return stop, nil
}

// runDay executes the four per-day stages (setup, foi, infect, analyse)
// in order, with a move-preserves-population check after setup (spec
// section 4.7), and reports whether any stage's extractor asked to stop.
func runDay(args *StageArgs, mover StageFunc, iterator IteratorFunc, mixer StageFunc, extractor IteratorFunc, debugChecks bool) (bool, error) {
	for _, stage := range []StageName{StageSetup, StageFOI, StageInfect, StageAnalyse} {
		args.Stage = stage
		stop, err := runStage(args, mover, iterator, mixer, extractor)
		if err != nil {
			return false, err
		}
		if stage == StageSetup {
			if err := checkWardPopulationConserved(args, debugChecks); err != nil {
				return false, err
			}
		}
		if stop {
			return true, nil
		}
	}
	return false, nil
}

// checkWardPopulationConserved verifies that, per ward and per work link,
// the mover has not changed the total population held across demographic
// subnets: summing each subnet's current susceptibles plus every
// infection stage plus its removed bucket must still reproduce the fixed
// initial weight the overall network was compiled with (spec section
// 4.7's "moves must preserve the ward total population" rule). The
// overall network's own Suscept/PlaySuscept fields are never mutated
// once demographics are in play (only subnets carry live state), so Weight
// -- not the overall network's current Suscept -- is the fixed point of
// comparison. No-op when there are no demographics or debugChecks is
// false.
func checkWardPopulationConserved(args *StageArgs, debugChecks bool) error {
	nets := args.Networks
	if !debugChecks || len(nets.Subnets) == 0 {
		return nil
	}
	inf := args.Infections

	for link := 1; link <= nets.Overall.NLinks; link++ {
		want := nets.Overall.ToLinks[link].Weight
		got := 0
		for i, sub := range nets.Subnets {
			got += sub.ToLinks[link].Suscept
			subInf := inf.SubWorks[i]
			for s := 0; s < subInf.NInfClasses(); s++ {
				got += subInf.Work[s][link]
			}
			got += subInf.RemovedWork[link]
		}
		if got != want {
			return errorf(ErrSubnetPopulationMismatch, link, got, want)
		}
	}

	for node := 1; node <= nets.Overall.NNodes; node++ {
		want := nets.Overall.Nodes[node].DenominatorP
		got := 0.0
		for i, sub := range nets.Subnets {
			got += sub.Nodes[node].PlaySuscept
			subInf := inf.SubWorks[i]
			for s := 0; s < subInf.NInfClasses(); s++ {
				got += float64(subInf.Play[s][node])
			}
			got += float64(subInf.RemovedPlay[node])
		}
		if absFloat(got-want) > 1e-6 {
			return errorf(ErrSubnetPopulationMismatch, node, got, want)
		}
	}
	return nil
}
