// Package env implements the lexical environment chain described in DATA
// MODEL (C3): nested scopes, the let/const temporal dead zone, and var's
// hoist-to-function-boundary behavior. It is grounded on the teacher's
// internal/interp/runtime.Environment (outer-chain walk, Define/Set/Get),
// generalized with per-binding const/TDZ state the teacher's DWScript
// environment never needed.
package env

import (
	"github.com/asynkron/jsengine-go/internal/ir"
	"github.com/asynkron/jsengine-go/internal/values"
)

// Binding is one slot in an Environment's table. Initialized is false from
// the moment a let/const declaration is hoisted until its declaration
// statement actually runs — reading or assigning it before that point is
// the temporal dead zone (DATA MODEL invariant, C3).
type Binding struct {
	Value       values.Value
	IsConst     bool
	Initialized bool
}

// Environment is one lexical scope. Block scopes (from block statements,
// for-loop heads, catch clauses) chain to their lexical parent; function
// scopes additionally mark IsFunctionBoundary so var declarations know
// where to stop climbing.
type Environment struct {
	bindings           map[*ir.Symbol]*Binding
	parent             *Environment
	IsFunctionBoundary bool
	IsStrict           bool
}

// NewGlobal creates the root environment with no parent.
func NewGlobal() *Environment {
	return &Environment{bindings: make(map[*ir.Symbol]*Binding), IsFunctionBoundary: true}
}

// NewEnclosed creates a child scope of parent. isFunctionBoundary is true
// for function-body scopes (and the global scope), false for plain block
// scopes — it governs where DeclareVar's hoist walk stops.
func NewEnclosed(parent *Environment, isFunctionBoundary bool) *Environment {
	strict := parent != nil && parent.IsStrict
	return &Environment{
		bindings:           make(map[*ir.Symbol]*Binding),
		parent:             parent,
		IsFunctionBoundary: isFunctionBoundary,
		IsStrict:           strict,
	}
}

// Parent returns the enclosing scope, or nil at the global scope.
func (e *Environment) Parent() *Environment { return e.parent }

// ErrorKind distinguishes the three ways a binding operation can fail, so
// callers in package evaluator can map each to the right JS exception
// constructor (ReferenceError vs TypeError) without string-matching.
type ErrorKind int

const (
	ErrNotDefined ErrorKind = iota
	ErrTDZ
	ErrConstReassign
)

// BindingError reports a failed Get/Assign, carrying enough context for
// the evaluator to build the right thrown exception object.
type BindingError struct {
	Kind ErrorKind
	Name string
}

func (e *BindingError) Error() string {
	switch e.Kind {
	case ErrTDZ:
		return "Cannot access '" + e.Name + "' before initialization"
	case ErrConstReassign:
		return "Assignment to constant variable."
	default:
		return e.Name + " is not defined"
	}
}

// DeclareUninitialized registers sym in the current scope in the TDZ
// state, as happens when a let/const declaration is hoisted to the top of
// its block before its initializer runs.
func (e *Environment) DeclareUninitialized(sym *ir.Symbol, isConst bool) {
	e.bindings[sym] = &Binding{IsConst: isConst, Initialized: false}
}

// InitializeBinding marks sym initialized with value in the current scope,
// used both when a let/const declaration's initializer completes and when
// a function parameter or catch-clause identifier binds its argument.
func (e *Environment) InitializeBinding(sym *ir.Symbol, value values.Value) {
	b, ok := e.bindings[sym]
	if !ok {
		b = &Binding{}
		e.bindings[sym] = b
	}
	b.Value = value
	b.Initialized = true
}

// DeclareVar implements var's hoisting rule: the binding is created (if
// absent) at the nearest function boundary, not in the current block
// scope, and is immediately initialized (Undefined if no value is given
// yet, since var's hoisting step runs before its assignment step).
func (e *Environment) DeclareVar(sym *ir.Symbol, value values.Value) {
	target := e
	for !target.IsFunctionBoundary && target.parent != nil {
		target = target.parent
	}
	b, ok := target.bindings[sym]
	if !ok {
		b = &Binding{Initialized: true, Value: values.Undefined}
		target.bindings[sym] = b
	}
	if value != nil {
		b.Value = value
		b.Initialized = true
	}
}

// Get resolves sym by walking outward from e, returning a BindingError if
// it is never declared or is still in its TDZ.
func (e *Environment) Get(sym *ir.Symbol) (values.Value, error) {
	for cur := e; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[sym]; ok {
			if !b.Initialized {
				return nil, &BindingError{Kind: ErrTDZ, Name: sym.String()}
			}
			return b.Value, nil
		}
	}
	return nil, &BindingError{Kind: ErrNotDefined, Name: sym.String()}
}

// Has reports whether sym is bound anywhere in the chain, regardless of
// TDZ state (used by typeof's "no ReferenceError for undeclared names"
// special case combined with a prior existence check).
func (e *Environment) Has(sym *ir.Symbol) bool {
	for cur := e; cur != nil; cur = cur.parent {
		if _, ok := cur.bindings[sym]; ok {
			return true
		}
	}
	return false
}

// CopyInto copies each of e's own bindings into dst as fresh Binding
// instances, used by the for-loop per-iteration binding-copy algorithm
// (§4.5: "for (let i ...)" gives each iteration's closures a distinct `i`).
func (e *Environment) CopyInto(dst *Environment) {
	for sym, b := range e.bindings {
		dst.bindings[sym] = &Binding{Value: b.Value, IsConst: b.IsConst, Initialized: b.Initialized}
	}
}

// HasOwn reports whether sym is bound directly in e, with no outer walk.
func (e *Environment) HasOwn(sym *ir.Symbol) bool {
	_, ok := e.bindings[sym]
	return ok
}

// Assign implements plain `name = value` (not a declaration): it walks
// outward for an existing binding and mutates it in place, enforcing TDZ
// and const-reassignment rules.
func (e *Environment) Assign(sym *ir.Symbol, value values.Value) error {
	for cur := e; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[sym]; ok {
			if !b.Initialized {
				return &BindingError{Kind: ErrTDZ, Name: sym.String()}
			}
			if b.IsConst {
				return &BindingError{Kind: ErrConstReassign, Name: sym.String()}
			}
			b.Value = value
			return nil
		}
	}
	return &BindingError{Kind: ErrNotDefined, Name: sym.String()}
}

// AssignGlobalImplicit implements non-strict assignment to an undeclared
// name by creating it at the global (outermost) scope, matching JS
// sloppy-mode auto-globals. Strict-mode callers must check IsStrict and
// raise ReferenceError instead of calling this.
func (e *Environment) AssignGlobalImplicit(sym *ir.Symbol, value values.Value) {
	root := e
	for root.parent != nil {
		root = root.parent
	}
	root.bindings[sym] = &Binding{Value: value, Initialized: true}
}
