package metawards

import "strings"

// StageName identifies one of the six fixed stages of the per-day loop
// (spec section 4.4).
type StageName string

const (
	StageInitialise StageName = "initialise"
	StageSetup      StageName = "setup"
	StageFOI        StageName = "foi"
	StageInfect     StageName = "infect"
	StageAnalyse    StageName = "analyse"
	StageFinalise   StageName = "finalise"
)

// StageArgs is the shared keyword bundle every stage function receives,
// replacing the original's **kwargs dispatch with an explicit struct.
type StageArgs struct {
	Stage      StageName
	Networks   *Networks
	Population *Population
	Infections *Infections
	RNGs       []*RNGStream
	NThreads   int
	ThreadIdx  int // valid only inside per-thread kernel callbacks

	Moves []Move

	// Day is the current 1-based simulation day, set by run.go before
	// each day's stages run. advance_additional (seeds.go) uses it to
	// match scheduled seed events to "today".
	Day int

	// Seeder holds the lazily-loaded additional-seeds schedule consumed
	// by advance_additional (spec section 4.5), or nil if no additional
	// seeds file was configured for this run.
	Seeder *Seeder

	DebugChecks bool
}

// StageFunc mutates simulation state in place for one stage.
type StageFunc func(args *StageArgs) error

// IteratorFunc is a stage function that may also report whether the
// caller should stop the simulation after this day (extractor contract).
type IteratorFunc func(args *StageArgs) (stop bool, err error)

// PluginRegistry is the explicit name-to-constructor registry that
// replaces the original's reflection-and-module-import based plugin
// lookup, per the design note in spec section 9: "a mapping from plugin
// name to constructor, populated at build time with bundled plugins and
// extensible at startup via a user-provided list of (name, constructor)
// pairs."
type PluginRegistry struct {
	iterators map[string]func() IteratorFunc
	mixers    map[string]func() StageFunc
	movers    map[string]func() StageFunc
	extractors map[string]func() IteratorFunc
}

// NewPluginRegistry returns a registry pre-populated with the bundled
// default plugins.
func NewPluginRegistry() *PluginRegistry {
	r := &PluginRegistry{
		iterators:  make(map[string]func() IteratorFunc),
		mixers:     make(map[string]func() StageFunc),
		movers:     make(map[string]func() StageFunc),
		extractors: make(map[string]func() IteratorFunc),
	}
	r.RegisterIterator("iterate_default", func() IteratorFunc { return IterateDefault })
	r.RegisterMixer("mix_default", func() StageFunc { return MixDefault })
	r.RegisterMover("move_default", func() StageFunc { return MoveDefault })
	r.RegisterExtractor("extract_default", func() IteratorFunc { return ExtractDefault })
	return r
}

func (r *PluginRegistry) RegisterIterator(name string, ctor func() IteratorFunc) {
	r.iterators[name] = ctor
}
func (r *PluginRegistry) RegisterMixer(name string, ctor func() StageFunc) { r.mixers[name] = ctor }
func (r *PluginRegistry) RegisterMover(name string, ctor func() StageFunc) { r.movers[name] = ctor }
func (r *PluginRegistry) RegisterExtractor(name string, ctor func() IteratorFunc) {
	r.extractors[name] = ctor
}

// ResolveIterator implements the search order from spec section 4.4 and
// 9: bundled registry, then a module::function style path. Names with no
// "::" are looked up directly in the registry; names containing "::" are
// treated as (module_id, symbol) pairs and looked up as
// "module_id::symbol" in the registry, which callers populate with any
// externally-loaded plugins at startup.
func (r *PluginRegistry) ResolveIterator(name string) (IteratorFunc, error) {
	if name == "" {
		return IterateDefault, nil
	}
	if ctor, ok := r.iterators[name]; ok {
		return ctor(), nil
	}
	if ctor, ok := r.iterators[normalizeModuleFunction(name)]; ok {
		return ctor(), nil
	}
	return nil, errorf(ErrPluginNotFound, name)
}

func (r *PluginRegistry) ResolveMixer(name string) (StageFunc, error) {
	if name == "" {
		return MixDefault, nil
	}
	if ctor, ok := r.mixers[name]; ok {
		return ctor(), nil
	}
	if ctor, ok := r.mixers[normalizeModuleFunction(name)]; ok {
		return ctor(), nil
	}
	return nil, errorf(ErrPluginNotFound, name)
}

func (r *PluginRegistry) ResolveMover(name string) (StageFunc, error) {
	if name == "" {
		return MoveDefault, nil
	}
	if ctor, ok := r.movers[name]; ok {
		return ctor(), nil
	}
	if ctor, ok := r.movers[normalizeModuleFunction(name)]; ok {
		return ctor(), nil
	}
	return nil, errorf(ErrPluginNotFound, name)
}

func (r *PluginRegistry) ResolveExtractor(name string) (IteratorFunc, error) {
	if name == "" {
		return ExtractDefault, nil
	}
	if ctor, ok := r.extractors[name]; ok {
		return ctor(), nil
	}
	if ctor, ok := r.extractors[normalizeModuleFunction(name)]; ok {
		return ctor(), nil
	}
	return nil, errorf(ErrPluginNotFound, name)
}

// normalizeModuleFunction accepts "module::function" or
// "path/to/file.ext::function" strings and returns them unchanged; the
// registry key space includes both bundled short names and fully
// qualified module::function names, so lookups against either succeed
// once a caller has registered the external plugin under that key.
func normalizeModuleFunction(name string) string {
	if strings.Contains(name, "::") {
		return name
	}
	return name
}
