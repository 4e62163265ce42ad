package metawards

import (
	"sort"
	"strconv"
)

// tiny is the tolerance used throughout ward weight bookkeeping, per
// spec section 3's invariant tolerance of 1e-10.
const tiny = 1e-10

// destKey is the tagged variant "Unresolved(WardInfo) | Resolved(int)"
// described in the design notes (spec section 9): a destination in a
// Ward's workers/players map is either an integer ward id, or a WardInfo
// waiting to be resolved against a Wards collection. Both WardInfo and
// int are comparable, so destKey is usable directly as a map key.
type destKey struct {
	resolved bool
	id       int
	info     WardInfo
}

func resolvedKey(id int) destKey { return destKey{resolved: true, id: id} }
func infoKey(info WardInfo) destKey { return destKey{info: info} }

func (k destKey) String() string {
	if k.resolved {
		return intToString(k.id)
	}
	return k.info.String()
}

// Destination identifies where workers commute to or players go to play.
// A nil *Destination passed to a Ward method means "this ward's own id
// or info", matching the Python API's destination=None default.
type Destination struct {
	isInfo bool
	id     int
	info   WardInfo
}

// DestID builds a Destination from an already-resolved integer ward id.
func DestID(id int) *Destination { return &Destination{id: id} }

// DestInfo builds a Destination from WardInfo, to be resolved later.
func DestInfo(info WardInfo) *Destination { return &Destination{isInfo: true, info: info} }

func (d *Destination) key() destKey {
	if d == nil {
		return destKey{}
	}
	if d.isInfo {
		return infoKey(d.info)
	}
	return resolvedKey(d.id)
}

// Ward is the mutable builder for a single node in the network: its
// identity, its outgoing work links (fixed daily commute), and its
// outgoing play links (randomized daily movement weights).
type Ward struct {
	id   int // 0 means not yet assigned
	info WardInfo

	workers map[destKey]int
	players map[destKey]float64

	playerTotal float64

	numWorkers int
	numPlayers int

	autoAssignPlayers bool

	position *Position
}

// NewWard creates a Ward identified by a positive integer id.
func NewWard(id int) (*Ward, error) {
	if id < 1 {
		return nil, errorf(InvalidIntParameterError, "id", id, "must be >= 1")
	}
	return newWard(id, WardInfo{}), nil
}

// NewWardFromInfo creates a Ward identified by WardInfo, with its integer
// id left unassigned until it is added to a Wards collection or resolved.
func NewWardFromInfo(info WardInfo) *Ward {
	return newWard(0, info)
}

func newWard(id int, info WardInfo) *Ward {
	return &Ward{
		id:                id,
		info:              info,
		workers:           make(map[destKey]int),
		players:           make(map[destKey]float64),
		playerTotal:       1.0,
		autoAssignPlayers: true,
	}
}

// IsNull reports whether this ward has neither an id nor any info set.
func (w *Ward) IsNull() bool { return w.id == 0 && w.info.IsNull() }

// ID returns the ward's resolved id, or 0 if not yet assigned.
func (w *Ward) ID() int { return w.id }

// Info returns a copy of the ward's identifying metadata.
func (w *Ward) Info() WardInfo { return w.info }

func (w *Ward) SetInfo(info WardInfo) { w.info = info }

// AutoAssignPlayers reports whether residual player weight is implicitly
// routed to the home ward.
func (w *Ward) AutoAssignPlayers() bool { return w.autoAssignPlayers }

func (w *Ward) SetAutoAssignPlayers(b bool) { w.autoAssignPlayers = b }

func (w *Ward) Position() *Position { return w.position }

func (w *Ward) SetPosition(p Position) { w.position = &p }

// SetID changes the ward's id, rewriting any self-referential entries in
// its workers/players maps (keyed by the old id or by this ward's own
// WardInfo) to the new id. Fails if the new id collides with an existing
// destination entry belonging to a different key.
func (w *Ward) SetID(id int) error {
	if id < 1 {
		return errorf(InvalidIntParameterError, "id", id, "must be >= 1")
	}
	if id == w.id {
		return nil
	}

	newKey := resolvedKey(id)
	if _, exists := w.workers[newKey]; exists {
		return errorf(ErrWardIDCollision, id)
	}
	if _, exists := w.players[newKey]; exists {
		return errorf(ErrWardIDCollision, id)
	}

	oldID := w.id
	oldInfoKey := infoKey(w.info)

	rewrite := func(key destKey) (destKey, bool) {
		if key.resolved && key.id == oldID && oldID != 0 {
			return newKey, true
		}
		if !key.resolved && key == oldInfoKey {
			return newKey, true
		}
		return key, false
	}

	for k, v := range w.workers {
		if nk, ok := rewrite(k); ok {
			delete(w.workers, k)
			w.workers[nk] = v
		}
	}
	for k, v := range w.players {
		if nk, ok := rewrite(k); ok {
			delete(w.players, k)
			w.players[nk] = v
		}
	}

	w.id = id
	return nil
}

func (w *Ward) resolveDestination(dest *Destination) destKey {
	if dest == nil {
		if w.id != 0 {
			return resolvedKey(w.id)
		}
		return infoKey(w.info)
	}
	return dest.key()
}

// AddWorkers adds n workers whose home ward is this ward and whose
// commute destination is dest (nil means "this ward", i.e. they work
// from home).
func (w *Ward) AddWorkers(n int, dest *Destination) error {
	if n < 0 {
		return errorf(ErrNegativeCount, "number of workers", n)
	}
	key := w.resolveDestination(dest)
	w.workers[key] += n
	w.numWorkers += n
	return nil
}

// SubtractWorkers removes up to n workers from the given destination,
// capping at the current count and removing the entry once drained.
func (w *Ward) SubtractWorkers(n int, dest *Destination) error {
	if n < 0 {
		return errorf(ErrNegativeCount, "number of workers", n)
	}
	key := w.resolveDestination(dest)
	cur, ok := w.workers[key]
	if !ok {
		return nil
	}
	if n >= cur {
		w.numWorkers -= cur
		delete(w.workers, key)
		return nil
	}
	w.workers[key] = cur - n
	w.numWorkers -= n
	return nil
}

// AddPlayerWeight assigns player weight w to dest. Fails if w exceeds the
// residual player_total by more than the 1e-10 tolerance; snaps w to the
// residual when within tolerance so floating point sums land on exactly
// 1.0.
func (w *Ward) AddPlayerWeight(weight float64, dest *Destination) error {
	if weight < 0 {
		return errorf(InvalidFloatParameterError, "player weight", weight, "must be >= 0")
	}
	if weight < tiny {
		return nil
	}
	key := w.resolveDestination(dest)

	if absFloat(weight-w.playerTotal) < tiny {
		weight = w.playerTotal
	}
	if weight > w.playerTotal {
		return errorf(ErrPlayerWeightExceedsResidual, weight, w.playerTotal, key)
	}

	w.players[key] += weight
	w.playerTotal -= weight
	if w.playerTotal < tiny {
		w.playerTotal = 0
	}
	return nil
}

// SubtractPlayerWeight removes up to weight player weight from dest,
// capping at the current weight there and returning it to player_total.
func (w *Ward) SubtractPlayerWeight(weight float64, dest *Destination) error {
	if weight < 0 {
		return errorf(InvalidFloatParameterError, "player weight", weight, "must be >= 0")
	}
	if weight < tiny {
		return nil
	}
	key := w.resolveDestination(dest)
	cur, ok := w.players[key]
	if !ok {
		return nil
	}
	if weight >= cur {
		weight = cur
		delete(w.players, key)
	} else {
		w.players[key] = cur - weight
	}
	w.playerTotal += weight
	if absFloat(w.playerTotal-1.0) < tiny {
		w.playerTotal = 1.0
	}
	return nil
}

// GetWorkers returns the number of workers commuting to dest.
func (w *Ward) GetWorkers(dest *Destination) int {
	return w.workers[w.resolveDestination(dest)]
}

// GetPlayers returns the player weight assigned to dest, including the
// auto-assigned residual if dest is this ward's own id and
// auto_assign_players is set.
func (w *Ward) GetPlayers(dest *Destination) float64 {
	key := w.resolveDestination(dest)
	p := w.players[key]
	if w.autoAssignPlayers && key.resolved && key.id == w.id && w.id != 0 {
		p += w.playerTotal
	}
	return p
}

func (w *Ward) NumWorkLinks() int { return len(w.workers) }
func (w *Ward) NumPlayLinks() int { return len(w.players) }
func (w *Ward) NumWorkers() int   { return w.numWorkers }
func (w *Ward) NumPlayers() int   { return w.numPlayers }
func (w *Ward) Population() int   { return w.numWorkers + w.numPlayers }

func (w *Ward) SetNumPlayers(n int) error {
	if n < 0 {
		return errorf(ErrNegativeCount, "num_players", n)
	}
	w.numPlayers = n
	return nil
}

// SetNumWorkers adjusts the total number of workers by adding or removing
// home-ward commuters so that NumWorkers() == n.
func (w *Ward) SetNumWorkers(n int) error {
	if n < 0 {
		return errorf(ErrNegativeCount, "num_workers", n)
	}
	delta := n - w.numWorkers
	if delta > 0 {
		return w.AddWorkers(delta, nil)
	}
	if delta < 0 {
		home := w.GetWorkers(nil)
		if -delta > home {
			return errorf(InvalidIntParameterError, "num_workers", n,
				"not enough home-ward workers to subtract")
		}
		return w.SubtractWorkers(-delta, nil)
	}
	return nil
}

// IsResolved reports whether this ward has an id and every key in its
// workers/players maps is a resolved integer.
func (w *Ward) IsResolved() bool {
	if w.id == 0 {
		return false
	}
	for k := range w.workers {
		if !k.resolved {
			return false
		}
	}
	for k := range w.players {
		if !k.resolved {
			return false
		}
	}
	return true
}

// Resolve rewrites any WardInfo-keyed destinations in this ward's
// workers/players maps to integer ids, looked up from wards. Fails if a
// WardInfo cannot be found, or if resolving it would collide with an
// existing integer key.
func (w *Ward) Resolve(wards *Wards) error {
	if err := resolveMapKeys(w.workers, wards); err != nil {
		return err
	}
	return resolveMapKeysFloat(w.players, wards)
}

func resolveMapKeys(m map[destKey]int, wards *Wards) error {
	for k, v := range m {
		if k.resolved {
			continue
		}
		id, ok := wards.indexByInfo(k.info)
		if !ok {
			return errorf(ErrWardDestinationMissing, k.info)
		}
		nk := resolvedKey(id)
		if _, exists := m[nk]; exists {
			return errorf(ErrWardDuplicateKey, k.info, id)
		}
		delete(m, k)
		m[nk] = v
	}
	return nil
}

func resolveMapKeysFloat(m map[destKey]float64, wards *Wards) error {
	for k, v := range m {
		if k.resolved {
			continue
		}
		id, ok := wards.indexByInfo(k.info)
		if !ok {
			return errorf(ErrWardDestinationMissing, k.info)
		}
		nk := resolvedKey(id)
		if _, exists := m[nk]; exists {
			return errorf(ErrWardDuplicateKey, k.info, id)
		}
		delete(m, k)
		m[nk] = v
	}
	return nil
}

// GetWorkerLists returns the destinations and worker counts for this
// ward, sorted ascending by destination id. Fails if any key is
// unresolved.
func (w *Ward) GetWorkerLists() ([]int, []int, error) {
	dests := make([]int, 0, len(w.workers))
	for k := range w.workers {
		if !k.resolved {
			return nil, nil, errorf(ErrWardUnresolvedKey, w.id, k.info)
		}
		dests = append(dests, k.id)
	}
	sort.Ints(dests)
	counts := make([]int, len(dests))
	for i, d := range dests {
		counts[i] = w.workers[resolvedKey(d)]
	}
	return dests, counts, nil
}

// GetPlayerLists returns the destinations and player weights for this
// ward, sorted ascending by destination id. If auto_assign_players is set
// and there is residual weight, the home ward is appended with the
// residual unless noAutoAssign is set.
func (w *Ward) GetPlayerLists(noAutoAssign bool) ([]int, []float64, error) {
	seen := make(map[int]bool, len(w.players))
	dests := make([]int, 0, len(w.players)+1)
	for k := range w.players {
		if !k.resolved {
			return nil, nil, errorf(ErrWardUnresolvedKey, w.id, k.info)
		}
		dests = append(dests, k.id)
		seen[k.id] = true
	}

	autoAssign := !noAutoAssign && w.autoAssignPlayers && w.playerTotal > 0
	if autoAssign && !seen[w.id] {
		dests = append(dests, w.id)
	}
	sort.Ints(dests)

	weights := make([]float64, len(dests))
	for i, d := range dests {
		weights[i] = w.players[resolvedKey(d)]
		if autoAssign && d == w.id {
			weights[i] += w.playerTotal
		}
	}
	return dests, weights, nil
}

// WorkConnections returns the sorted list of resolved work destinations.
func (w *Ward) WorkConnections() []int {
	out := make([]int, 0, len(w.workers))
	for k := range w.workers {
		if k.resolved {
			out = append(out, k.id)
		}
	}
	sort.Ints(out)
	return out
}

// PlayConnections returns the sorted list of resolved play destinations.
func (w *Ward) PlayConnections() []int {
	out := make([]int, 0, len(w.players))
	for k := range w.players {
		if k.resolved {
			out = append(out, k.id)
		}
	}
	sort.Ints(out)
	return out
}

// AssertSane checks the player-weight-sums-to-one and worker-sum
// invariants from spec section 3, in the style of Ward.assert_sane in
// the original source.
func (w *Ward) AssertSane() error {
	if w.id <= 0 {
		return errorf(InvalidIntParameterError, "ward id", w.id, "must be > 0")
	}
	var playerSum float64
	for _, v := range w.players {
		playerSum += v
	}
	if t := playerSum + w.playerTotal; absFloat(t-1.0) > tiny {
		return errorf(InvalidFloatParameterError, "player weight sum", t, "must equal 1.0")
	}
	var workerSum int
	for _, v := range w.workers {
		workerSum += v
	}
	if workerSum != w.numWorkers {
		return errorf(UnequalIntParameterError, "worker sum", w.numWorkers, workerSum)
	}
	return nil
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func intToString(i int) string {
	return strconv.Itoa(i)
}
