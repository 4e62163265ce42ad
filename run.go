package metawards

// RunPlan bundles everything one simulation execution needs: the compiled
// topology, the resolved plugin functions, and the scalar controls from
// spec section 5 (seed/nthreads reproducibility, nsteps/zero-infected
// cancellation).
type RunPlan struct {
	Networks   *Networks
	Population *Population
	Infections *Infections
	RNGs       []*RNGStream
	NThreads   int
	NSteps     int
	DebugChecks bool
	Moves       []Move
	Seeder      *Seeder

	Mover     StageFunc
	Iterator  IteratorFunc
	Mixer     StageFunc
	Extractor IteratorFunc

	// OnDay, if set, is invoked once per completed day with the freshly
	// tallied Population, after the analyse stage — the hook output
	// loggers (csv_logger.go, sqlite_logger.go) and metrics.go attach to.
	OnDay func(day int, pop *Population) error
}

// NewRunPlan resolves iterator/mixer/mover/extractor names against a
// PluginRegistry and returns a RunPlan ready for Run, mirroring the
// original source's "iterate(..., iterator=..., mixer=..., mover=...,
// extractor=...)" entrypoint with string-or-default plugin selection
// (spec section 4.4, 9).
func NewRunPlan(registry *PluginRegistry, nets *Networks, pop *Population, inf *Infections, rngs []*RNGStream, nthreads, nsteps int, iteratorName, mixerName, moverName, extractorName string) (*RunPlan, error) {
	iterator, err := registry.ResolveIterator(iteratorName)
	if err != nil {
		return nil, err
	}
	mixer, err := registry.ResolveMixer(mixerName)
	if err != nil {
		return nil, err
	}
	if mixerName != "" && mixerName != "mix_default" {
		custom := mixer
		mixer = func(args *StageArgs) error {
			if err := MixDefault(args); err != nil {
				return err
			}
			return custom(args)
		}
	}
	mover, err := registry.ResolveMover(moverName)
	if err != nil {
		return nil, err
	}
	extractor, err := registry.ResolveExtractor(extractorName)
	if err != nil {
		return nil, err
	}
	return &RunPlan{
		Networks:   nets,
		Population: pop,
		Infections: inf,
		RNGs:       rngs,
		NThreads:   nthreads,
		NSteps:     nsteps,
		Mover:      mover,
		Iterator:   iterator,
		Mixer:      mixer,
		Extractor:  extractor,
	}, nil
}

// Run drives the simulation to completion: one initialise, nsteps days of
// setup/foi/infect/analyse (or fewer if the zero-infected or extractor
// stop conditions fire first), then one finalise (spec section 4.4,
// section 5's three cancellation conditions). It returns the number of
// days actually simulated.
func (plan *RunPlan) Run() (int, error) {
	args := &StageArgs{
		Networks:    plan.Networks,
		Population:  plan.Population,
		Infections:  plan.Infections,
		RNGs:        plan.RNGs,
		NThreads:    plan.NThreads,
		DebugChecks: plan.DebugChecks,
		Moves:       plan.Moves,
		Seeder:      plan.Seeder,
	}

	args.Stage = StageInitialise
	if plan.Mover != nil {
		if err := plan.Mover(args); err != nil {
			return 0, err
		}
	}

	daysRun := 0
	for day := 1; day <= plan.NSteps; day++ {
		args.Day = day
		stop, err := runDay(args, plan.Mover, plan.Iterator, plan.Mixer, plan.Extractor, plan.DebugChecks)
		if err != nil {
			return daysRun, err
		}
		plan.Population.Day = day
		daysRun = day

		if plan.OnDay != nil {
			if err := plan.OnDay(day, plan.Population); err != nil {
				return daysRun, err
			}
		}

		if stop || plan.Population.TotalInfected() == 0 {
			break
		}
	}

	args.Stage = StageFinalise
	if plan.Mover != nil {
		if err := plan.Mover(args); err != nil {
			return daysRun, err
		}
	}
	return daysRun, nil
}
