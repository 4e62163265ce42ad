package metawards

// Wards is the 1-based, contiguously indexed collection of all Ward
// builders in a network. Index 0 is reserved as a sentinel and never
// holds a real ward, matching the array layout spec section 5 requires
// for deterministic thread partitioning.
type Wards struct {
	wards     []*Ward
	infoIndex map[WardInfo]int
}

// NewWards creates an empty Wards collection. capacityHint is used only
// to pre-size the backing slice.
func NewWards(capacityHint int) *Wards {
	wards := make([]*Ward, 1, capacityHint+1)
	return &Wards{
		wards:     wards,
		infoIndex: make(map[WardInfo]int),
	}
}

// Add appends w to the collection. If w has no id yet, it is assigned
// the next contiguous id. If w already has an id, it must equal N()+1
// (wards must be added in order); any other id is rejected.
func (ws *Wards) Add(w *Ward) error {
	nextID := len(ws.wards)
	if w.id == 0 {
		if err := w.SetID(nextID); err != nil {
			return err
		}
	} else if w.id != nextID {
		return errorf(InvalidIntParameterError, "ward id", w.id,
			"wards must be added with contiguous ids starting at 1")
	}
	ws.wards = append(ws.wards, w)
	if !w.info.IsNull() {
		ws.infoIndex[w.info] = w.id
	}
	return nil
}

// N returns the number of real wards (excluding the index-0 sentinel).
func (ws *Wards) N() int { return len(ws.wards) - 1 }

// Get returns the ward at id, which must be in [1, N()].
func (ws *Wards) Get(id int) (*Ward, error) {
	if id < 1 || id >= len(ws.wards) {
		return nil, errorf(ErrLinkEndpointOutOfRange, id, ws.N())
	}
	return ws.wards[id], nil
}

// List returns every real ward, indexed from 0, in id order.
func (ws *Wards) List() []*Ward {
	out := make([]*Ward, ws.N())
	copy(out, ws.wards[1:])
	return out
}

// indexByInfo looks up a ward's id by its WardInfo, for resolving
// WardInfo-keyed destinations.
func (ws *Wards) indexByInfo(info WardInfo) (int, bool) {
	id, ok := ws.infoIndex[info]
	return id, ok
}

// Resolve resolves every ward's WardInfo-keyed destinations against this
// collection, turning the whole set into an IsResolved() == true graph.
func (ws *Wards) Resolve() error {
	for _, w := range ws.wards[1:] {
		if err := w.Resolve(ws); err != nil {
			return err
		}
	}
	return nil
}

// IsResolved reports whether every ward in the collection is resolved.
func (ws *Wards) IsResolved() bool {
	for _, w := range ws.wards[1:] {
		if !w.IsResolved() {
			return false
		}
	}
	return true
}

// AssertSane checks every ward's own invariants. It does not check
// cross-ward invariants; those belong to Network.AssertSane.
func (ws *Wards) AssertSane() error {
	for _, w := range ws.wards[1:] {
		if err := w.AssertSane(); err != nil {
			return err
		}
	}
	return nil
}

// TotalPopulation sums Population() across every ward.
func (ws *Wards) TotalPopulation() int {
	total := 0
	for _, w := range ws.wards[1:] {
		total += w.Population()
	}
	return total
}
