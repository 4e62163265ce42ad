package metawards

// StopCondition is satisfied when a simulation should halt early,
// independent of the nsteps/zero-infected cancellation rules checked by
// run.go (spec section 5). Grounded on the teacher's StopCondition
// interface (stop_condition.go), generalized from a per-host allele/
// genotype existence check to a population-level predicate over the
// current Population tally.
type StopCondition interface {
	Check(pop *Population) bool
}

// stopConditionFunc adapts a plain function to StopCondition.
type stopConditionFunc func(pop *Population) bool

func (f stopConditionFunc) Check(pop *Population) bool { return f(pop) }

// ExtractDefault is the bundled default extractor ("analyse" stage, spec
// section 4.4): it tallies Population from the current network/infection
// state and never requests a stop itself (it always returns false). The
// nsteps-reached and zero-infected cancellation rules live in run.go.
func ExtractDefault(args *StageArgs) (bool, error) {
	if args.Stage != StageAnalyse {
		return false, nil
	}
	args.Population.TallyNetworks(args.Networks, args.Infections)
	return false, nil
}
