package metawards

// Demographic is one population stratum sharing the overall network's
// node identity but owning an independent slice of each link's
// population, per spec section 3 ("Demographics / Networks").
type Demographic struct {
	Name string

	// Fraction is this demographic's share of every ward's population.
	// Fractions across a Demographics list must sum to 1.0.
	Fraction float64

	// Adjustment holds Parameters.WithOverrides-style overrides applied
	// to this demographic's own Parameters copy, mirroring the
	// demographic.adjustment applied via params.set_variables in the
	// original source's Networks.update.
	Adjustment map[string]float64

	// InteractionWeight scales this demographic's contribution when the
	// default mixer merges per-demographic FOI into a shared value
	// (spec section 4.6).
	InteractionWeight float64
}

// Demographics is an ordered list of Demographic, in the order subnets
// appear in a Networks.
type Demographics struct {
	List []Demographic
}

// N returns the number of demographics.
func (d Demographics) N() int { return len(d.List) }

// Validate checks that at least two demographics are present and their
// fractions sum to 1.0 within tolerance, per Networks.build's
// "requires len(demographics) >= 2" rule.
func (d Demographics) Validate() error {
	if len(d.List) < 2 {
		return errorf(InvalidIntParameterError, "demographics count", len(d.List),
			"Networks.Build requires at least 2 demographics")
	}
	sum := 0.0
	for _, demo := range d.List {
		sum += demo.Fraction
	}
	if absFloat(sum-1.0) > 1e-9 {
		return errorf(InvalidFloatParameterError, "demographic fractions sum", sum, "must equal 1.0")
	}
	return nil
}
