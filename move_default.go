package metawards

// Move describes one scripted transfer of individuals between two
// demographic slots of the same ward or work link, per spec section 4.7
// ("go to weekend", "go home"): a (source demographic, destination
// demographic, ward-or-link, count-or-fraction, stage filter) tuple.
// Exactly one of Ward/Link should be set (Link == 0 means "this move
// targets a ward's play population", Ward == 0 means "this move targets
// a work link").
type Move struct {
	SourceDemo int
	DestDemo   int

	Ward int
	Link int

	Count    int
	Fraction float64

	Stage StageName // empty means "every stage"
}

// MoveDefault is the bundled mover: it applies every queued Move whose
// Stage filter matches the current stage, transferring susceptible
// population between subnet slots of the same ward/link. Transfers never
// touch infection counters, so a ward's total population (susceptibles +
// infections + removed, summed across subnets) is unchanged by any single
// move; the corresponding conservation check runs once per day from
// runDay (daymodel.go) after the setup stage completes, per spec section 4.7.
func MoveDefault(args *StageArgs) error {
	subnets := args.Networks.Subnets
	for _, mv := range args.Moves {
		if mv.Stage != "" && mv.Stage != args.Stage {
			continue
		}
		if mv.SourceDemo < 0 || mv.SourceDemo >= len(subnets) ||
			mv.DestDemo < 0 || mv.DestDemo >= len(subnets) {
			return errorf(InvalidIntParameterError, "move demographic index", mv.SourceDemo, "out of range")
		}
		src := subnets[mv.SourceDemo]
		dst := subnets[mv.DestDemo]

		switch {
		case mv.Link > 0:
			if err := moveWork(src, dst, mv); err != nil {
				return err
			}
		case mv.Ward > 0:
			movePlay(src, dst, mv)
		}
	}
	return nil
}

func moveWork(src, dst *Network, mv Move) error {
	if mv.Link < 1 || mv.Link > src.NLinks {
		return errorf(ErrLinkEndpointOutOfRange, mv.Link, src.NLinks)
	}
	n := resolveCount(src.ToLinks[mv.Link].Suscept, mv)
	if n <= 0 {
		return nil
	}
	src.ToLinks[mv.Link].Suscept -= n
	dst.ToLinks[mv.Link].Suscept += n
	return nil
}

func movePlay(src, dst *Network, mv Move) {
	n := resolveCount(int(src.Nodes[mv.Ward].PlaySuscept), mv)
	if n <= 0 {
		return
	}
	src.Nodes[mv.Ward].PlaySuscept -= float64(n)
	dst.Nodes[mv.Ward].PlaySuscept += float64(n)
}

func resolveCount(available int, mv Move) int {
	n := mv.Count
	if mv.Fraction > 0 {
		n = int(mv.Fraction * float64(available))
	}
	if n > available {
		n = available
	}
	return n
}
