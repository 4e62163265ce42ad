package metawards

import "testing"

func TestPluginRegistry_ResolveDefaults(t *testing.T) {
	r := NewPluginRegistry()
	if it, err := r.ResolveIterator(""); err != nil || it == nil {
		t.Fatalf(UnexpectedErrorWhileError, "resolving the default iterator", err)
	}
	if mx, err := r.ResolveMixer(""); err != nil || mx == nil {
		t.Fatalf(UnexpectedErrorWhileError, "resolving the default mixer", err)
	}
	if mv, err := r.ResolveMover(""); err != nil || mv == nil {
		t.Fatalf(UnexpectedErrorWhileError, "resolving the default mover", err)
	}
	if ex, err := r.ResolveExtractor(""); err != nil || ex == nil {
		t.Fatalf(UnexpectedErrorWhileError, "resolving the default extractor", err)
	}
}

func TestPluginRegistry_ResolveByName(t *testing.T) {
	r := NewPluginRegistry()
	if _, err := r.ResolveIterator("iterate_default"); err != nil {
		t.Errorf(UnexpectedErrorWhileError, "resolving the bundled iterator by name", err)
	}
	if _, err := r.ResolveIterator("does_not_exist"); err == nil {
		t.Errorf(ExpectedErrorWhileError, "resolving an unregistered plugin name")
	}
}

func TestPluginRegistry_RegisterCustomPlugin(t *testing.T) {
	r := NewPluginRegistry()
	called := false
	custom := func(args *StageArgs) error {
		called = true
		return nil
	}
	r.RegisterMover("my_module::my_mover", func() StageFunc { return custom })

	mv, err := r.ResolveMover("my_module::my_mover")
	if err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "resolving a registered custom mover", err)
	}
	if err := mv(&StageArgs{Stage: StageSetup, Networks: &Networks{Overall: &Network{}}}); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "invoking the resolved custom mover", err)
	}
	if !called {
		t.Errorf(UnexpectedErrorWhileError, "checking the custom mover ran", "it did not run")
	}
}
