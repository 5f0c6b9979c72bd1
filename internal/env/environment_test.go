package env_test

import (
	"testing"

	"github.com/asynkron/jsengine-go/internal/env"
	"github.com/asynkron/jsengine-go/internal/ir"
	"github.com/asynkron/jsengine-go/internal/values"
)

func TestDeclareUninitializedIsTDZUntilInitialized(t *testing.T) {
	g := env.NewGlobal()
	x := ir.Intern("x")
	g.DeclareUninitialized(x, false)

	if _, err := g.Get(x); err == nil {
		t.Fatalf("expected a TDZ error reading an uninitialized binding")
	}

	g.InitializeBinding(x, values.Number(1))
	v, err := g.Get(x)
	if err != nil {
		t.Fatalf("unexpected error after initialization: %v", err)
	}
	if n, ok := v.(values.Number); !ok || n != 1 {
		t.Fatalf("got %#v, want 1", v)
	}
}

func TestConstReassignmentFails(t *testing.T) {
	g := env.NewGlobal()
	x := ir.Intern("x")
	g.DeclareUninitialized(x, true)
	g.InitializeBinding(x, values.Number(1))

	if err := g.Assign(x, values.Number(2)); err == nil {
		t.Fatalf("expected const reassignment to fail")
	}
}

func TestVarHoistsToFunctionBoundary(t *testing.T) {
	g := env.NewGlobal()
	block := env.NewEnclosed(g, false)
	count := ir.Intern("count")

	block.DeclareVar(count, values.Number(7))

	if block.HasOwn(count) {
		t.Fatalf("var must hoist past the block scope, not bind locally")
	}
	v, err := g.Get(count)
	if err != nil {
		t.Fatalf("expected count to be visible at the function boundary: %v", err)
	}
	if n, ok := v.(values.Number); !ok || n != 7 {
		t.Fatalf("got %#v, want 7", v)
	}
}

func TestAssignWalksOuterScopes(t *testing.T) {
	g := env.NewGlobal()
	x := ir.Intern("x")
	g.DeclareUninitialized(x, false)
	g.InitializeBinding(x, values.Number(1))

	child := env.NewEnclosed(g, false)
	if err := child.Assign(x, values.Number(42)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := g.Get(x)
	if n, ok := v.(values.Number); !ok || n != 42 {
		t.Fatalf("assignment from a child scope should mutate the outer binding, got %#v", v)
	}
}

func TestAssignToUndeclaredNameFails(t *testing.T) {
	g := env.NewGlobal()
	if err := g.Assign(ir.Intern("neverDeclared"), values.Number(1)); err == nil {
		t.Fatalf("expected ErrNotDefined for an undeclared assignment target")
	}
}

func TestAssignGlobalImplicitCreatesAtRoot(t *testing.T) {
	g := env.NewGlobal()
	child := env.NewEnclosed(g, false)
	y := ir.Intern("y")

	child.AssignGlobalImplicit(y, values.Number(9))

	if child.HasOwn(y) {
		t.Fatalf("implicit global assignment must land on the root scope, not the current one")
	}
	v, err := g.Get(y)
	if err != nil || v != values.Number(9) {
		t.Fatalf("got %#v, %v; want 9 at the root", v, err)
	}
}

func TestCopyIntoGivesEachIterationItsOwnBinding(t *testing.T) {
	g := env.NewGlobal()
	i := ir.Intern("i")
	iter := env.NewEnclosed(g, false)
	iter.DeclareUninitialized(i, false)
	iter.InitializeBinding(i, values.Number(0))

	next := env.NewEnclosed(g, false)
	iter.CopyInto(next)
	next.Assign(i, values.Number(1))

	v, _ := iter.Get(i)
	if v != values.Number(0) {
		t.Fatalf("copying into a new scope must not alias the source binding, got %#v", v)
	}
}

func TestHasReportsDeclaredRegardlessOfTDZ(t *testing.T) {
	g := env.NewGlobal()
	x := ir.Intern("x")
	g.DeclareUninitialized(x, false)
	if !g.Has(x) {
		t.Fatalf("Has should report true for a TDZ binding (used by typeof)")
	}
	if g.Has(ir.Intern("neverDeclared")) {
		t.Fatalf("Has should report false for a name never declared anywhere in the chain")
	}
}
