package vm_test

import (
	"baguette/pkg/vm"
	"errors"
	"reflect"
	"testing"
)

func sampleEnv() vm.Env {
	return vm.Env{
		"player": vm.Env{
			"name": vm.NewString("ann"),
			"hp":   vm.NewNumber(10),
		},
		"level": vm.NewNumber(1),
	}
}

func TestEnvLookup(t *testing.T) {
	env := sampleEnv()

	v, err := env.Lookup("player.hp")
	if err != nil || v != vm.NewNumber(10) {
		t.Errorf("expected 10, got %v (%v)", v, err)
	}

	v, err = env.Lookup("player.mana")
	if err != nil || !v.IsUndefined() {
		t.Errorf("expected undefined for absent leaf, got %v (%v)", v, err)
	}

	if _, err := env.Lookup("quest.name"); !errors.Is(err, vm.ErrUnknownPath) {
		t.Errorf("expected ErrUnknownPath, got %v", err)
	}
	if _, err := env.Lookup("level.x"); !errors.Is(err, vm.ErrUnknownPath) {
		t.Errorf("expected ErrUnknownPath through a value, got %v", err)
	}
	if _, err := env.Lookup("player"); !errors.Is(err, vm.ErrNotAValue) {
		t.Errorf("expected ErrNotAValue, got %v", err)
	}
}

func TestEnvStore(t *testing.T) {
	env := sampleEnv()

	if err := env.Store("player.mana", vm.NewNumber(5)); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if v, _ := env.Lookup("player.mana"); v != vm.NewNumber(5) {
		t.Errorf("expected stored value, got %v", v)
	}

	if err := env.Store("quest.name", vm.NewString("x")); !errors.Is(err, vm.ErrUnknownPath) {
		t.Errorf("expected ErrUnknownPath, got %v", err)
	}
	if err := env.Store("player", vm.NewNumber(1)); !errors.Is(err, vm.ErrNotAValue) {
		t.Errorf("expected ErrNotAValue, got %v", err)
	}
}

func TestEnvPutCreatesIntermediates(t *testing.T) {
	env := vm.Env{}
	if err := env.Put("a.b.c", vm.NewBool(true)); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if v, err := env.Lookup("a.b.c"); err != nil || v != vm.NewBool(true) {
		t.Errorf("expected true, got %v (%v)", v, err)
	}

	if err := env.Put("a.b.c.d", vm.NewBool(true)); !errors.Is(err, vm.ErrUnknownPath) {
		t.Errorf("expected ErrUnknownPath through a value, got %v", err)
	}
}

func TestEnvFlattenRoundTrip(t *testing.T) {
	env := sampleEnv()

	want := []string{"level", "player.hp", "player.name"}
	if got := env.Paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected paths %v, got %v", want, got)
	}

	rebuilt := vm.Env{}
	for path, v := range env.Flatten() {
		if err := rebuilt.Put(path, v); err != nil {
			t.Fatalf("put %s failed: %v", path, err)
		}
	}
	if !reflect.DeepEqual(rebuilt, env) {
		t.Errorf("expected %v, got %v", env, rebuilt)
	}
}

func TestFromMap(t *testing.T) {
	env, err := vm.FromMap(map[string]any{
		"a": map[string]any{
			"n": 3,
			"s": "str",
		},
		"b": map[any]any{"ok": true},
		"c": 0.5,
		"d": nil,
	})
	if err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}

	checks := map[string]vm.Value{
		"a.n":  vm.NewNumber(3),
		"a.s":  vm.NewString("str"),
		"b.ok": vm.NewBool(true),
		"c":    vm.NewNumber(0.5),
		"d":    vm.Undefined,
	}
	for path, want := range checks {
		if got, err := env.Lookup(path); err != nil || got != want {
			t.Errorf("%s: expected %v, got %v (%v)", path, want, got, err)
		}
	}

	back := env.ToMap()
	if back["c"] != 0.5 || back["a"].(map[string]any)["s"] != "str" {
		t.Errorf("unexpected ToMap result %v", back)
	}

	if _, err := vm.FromMap(map[string]any{"x": []int{1}}); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestEnvEnsure(t *testing.T) {
	env := sampleEnv()

	inv, err := env.Ensure("player.inventory")
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if len(inv) != 0 {
		t.Errorf("expected a new empty map, got %v", inv)
	}
	if err := env.Store("player.inventory.sword", vm.NewBool(true)); err != nil {
		t.Errorf("expected store into the ensured map, got %v", err)
	}

	if _, err := env.Ensure("level.x"); !errors.Is(err, vm.ErrUnknownPath) {
		t.Errorf("expected ErrUnknownPath through a value, got %v", err)
	}
}

func TestEnvMerge(t *testing.T) {
	env := sampleEnv()
	saved := vm.Env{
		"player": vm.Env{"hp": vm.NewNumber(3)},
		"quest":  vm.Env{},
	}

	if err := env.Merge(saved); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	want := vm.Env{
		"player": vm.Env{
			"name": vm.NewString("ann"),
			"hp":   vm.NewNumber(3),
		},
		"level": vm.NewNumber(1),
		"quest": vm.Env{},
	}
	if !reflect.DeepEqual(env, want) {
		t.Errorf("expected %v, got %v", want, env)
	}

	if err := env.Merge(vm.Env{"level": vm.Env{}}); !errors.Is(err, vm.ErrUnknownPath) {
		t.Errorf("expected ErrUnknownPath merging a map over a value, got %v", err)
	}
	if err := env.Merge(vm.Env{"player": vm.NewNumber(1)}); !errors.Is(err, vm.ErrNotAValue) {
		t.Errorf("expected ErrNotAValue merging a value over a map, got %v", err)
	}
}
