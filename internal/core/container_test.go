package core

import (
	"context"
	"testing"
)

type orderComponent struct {
	*BaseComponent
	started *[]string
}

func (c *orderComponent) Start(ctx context.Context) error {
	*c.started = append(*c.started, c.Name())
	return c.BaseComponent.Start(ctx)
}

func TestSortComponentsByDependencies(t *testing.T) {
	var started []string
	c := NewContainer()
	mk := func(name string, deps ...string) {
		if err := c.Register(name, &orderComponent{BaseComponent: NewBaseComponent(name, deps...), started: &started}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	mk("api", "db", "logger")
	mk("db", "logger")
	mk("logger")

	ordered, err := c.SortComponentsByDependencies()
	if err != nil {
		t.Fatalf("sort failed: %v", err)
	}
	pos := map[string]int{}
	for i, comp := range ordered {
		pos[comp.Name()] = i
	}
	if pos["logger"] > pos["db"] || pos["db"] > pos["api"] {
		t.Fatalf("unexpected order: %v", pos)
	}
}

func TestValidateDependenciesMissing(t *testing.T) {
	c := NewContainer()
	_ = c.Register("api", NewBaseComponent("api", "db"))
	if _, err := c.ValidateDependencies(); err == nil {
		t.Fatal("expected error for missing dependency")
	}
}

func TestCircularDependencyDetected(t *testing.T) {
	c := NewContainer()
	_ = c.Register("a", NewBaseComponent("a", "b"))
	_ = c.Register("b", NewBaseComponent("b", "a"))
	if _, err := c.SortComponentsByDependencies(); err == nil {
		t.Fatal("expected circular dependency error")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	c := NewContainer()
	if err := c.Register("x", NewBaseComponent("x")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := c.Register("x", NewBaseComponent("x")); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}
