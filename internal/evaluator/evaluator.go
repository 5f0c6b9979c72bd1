// Package evaluator implements the tree-walking dispatcher (C9 statement
// dispatcher, C10 expression dispatcher) that drives cons-cell IR to a
// Value. Grounded on the teacher's internal/interp/evaluator.Evaluator —
// the big Eval(node, ctx) type-switch that fans out to VisitXxx methods —
// generalized from a Go type-switch over concrete AST node types to a
// lookup-table dispatch keyed by interned tag-symbol identity, since this
// core's IR is an untyped cons-cell list rather than a typed AST.
package evaluator

import (
	"fmt"

	"github.com/asynkron/jsengine-go/internal/env"
	"github.com/asynkron/jsengine-go/internal/errors"
	"github.com/asynkron/jsengine-go/internal/ir"
	"github.com/asynkron/jsengine-go/internal/values"
)

// Evaluator owns everything shared across a single program's evaluation:
// the configuration, the call stack guard, and the built-in prototype
// objects every Object/Array/Function/Error instance links to. It has no
// per-call mutable state of its own — that all lives in ExecutionContext —
// matching the teacher's stateless-w.r.t.-execution Evaluator.
type Evaluator struct {
	Config     *Config
	CallStack  *CallStack
	Prototypes *Prototypes
}

// Prototypes holds the handful of built-in prototype objects the core
// needs to link newly constructed values to (§4.3 Object Model, §7 Error
// Handling). An embedder's standard-library surface (§1 Non-goals) is
// expected to extend these with methods; the core only allocates them.
type Prototypes struct {
	Object        *values.Object
	Array         *values.Object
	Function      *values.Object
	Error         *values.Object
	TypeError     *values.Object
	RangeError    *values.Object
	ReferenceErr  *values.Object
	SyntaxError   *values.Object
}

// NewEvaluator builds an Evaluator with fresh prototype objects wired into
// a single-rooted chain (TypeError.prototype.__proto__ === Error.prototype,
// etc.), matching the builtin prototype chain every JS engine sets up.
func NewEvaluator(cfg *Config) *Evaluator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	objProto := values.NewObject(nil)
	arrProto := values.NewObject(objProto)
	fnProto := values.NewObject(objProto)
	errProto := values.NewObject(objProto)
	typeErrProto := values.NewObject(errProto)
	rangeErrProto := values.NewObject(errProto)
	refErrProto := values.NewObject(errProto)
	syntaxErrProto := values.NewObject(errProto)

	return &Evaluator{
		Config:    cfg,
		CallStack: NewCallStack(cfg.MaxRecursionDepth),
		Prototypes: &Prototypes{
			Object:       objProto,
			Array:        arrProto,
			Function:     fnProto,
			Error:        errProto,
			TypeError:    typeErrProto,
			RangeError:   rangeErrProto,
			ReferenceErr: refErrProto,
			SyntaxError:  syntaxErrProto,
		},
	}
}

// NewGlobalEnv allocates the top-level Environment an evaluated program
// runs in.
func (e *Evaluator) NewGlobalEnv() *env.Environment {
	g := env.NewGlobal()
	g.IsStrict = e.Config.StrictByDefault
	return g
}

// handlerFunc is the shape every tag dispatch entry has: evaluate cell in
// ctx and return its Value. Statement handlers return values.Undefined;
// non-local exits are reported through ctx.Signal, never through a Go
// return value, matching the teacher's ControlFlow-checked-after-the-fact
// pattern.
type handlerFunc func(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value

var dispatch map[*ir.Symbol]handlerFunc

func registerDispatch(m map[*ir.Symbol]handlerFunc) {
	if dispatch == nil {
		dispatch = make(map[*ir.Symbol]handlerFunc)
	}
	for tag, fn := range m {
		dispatch[tag] = fn
	}
}

// Eval dispatches a single IR cell by its head tag's identity. This is the
// one place statement and expression evaluation converge, exactly as the
// teacher's Eval(node, ctx) is the single converging switch for every
// VisitXxx method (§4.4/§4.5/§4.6, C9/C10).
func (e *Evaluator) Eval(c *ir.Cell, ctx *ExecutionContext) values.Value {
	if c == nil {
		return values.Undefined
	}
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	tag := c.Tag()
	if tag == nil {
		return e.evalLeaf(c)
	}
	fn, ok := dispatch[tag]
	if !ok {
		e.throwSyntax(ctx, fmt.Sprintf("unrecognized IR tag %q", tag.String()), c)
		return values.Undefined
	}
	return fn(e, c, ctx)
}

// evalLeaf interprets a cell with no tag symbol head as a literal payload
// (a leaf wrapper produced by ir.Cell.Nth/Operands for a bare string,
// float64, bool, nil or *ir.Symbol operand).
func (e *Evaluator) evalLeaf(c *ir.Cell) values.Value {
	switch v := c.Head.(type) {
	case nil:
		return values.Undefined
	case string:
		return values.JSString(v)
	case float64:
		return values.Number(v)
	case bool:
		return values.Boolean(v)
	case *ir.Symbol:
		return values.JSString(v.String())
	default:
		return values.Undefined
	}
}

// EvalProgram evaluates a top-level sequence of statement cells (the
// "Program" node — a block without its own nested scope, since the global
// scope already is the outermost one).
func (e *Evaluator) EvalProgram(statements []*ir.Cell, ctx *ExecutionContext) values.Value {
	hoistDeclarations(e, statements, ctx)
	var last values.Value = values.Undefined
	for _, s := range statements {
		last = e.Eval(s, ctx)
		if ctx.Signal.IsActive() {
			return last
		}
	}
	return last
}

// throwSyntax raises a SyntaxError for an evaluator-detected structural
// problem (§1: the evaluator never parses source, but it still validates
// the IR shape it's handed).
func (e *Evaluator) throwSyntax(ctx *ExecutionContext, message string, c *ir.Cell) {
	stack := e.CallStack.String()
	excObj := errors.NewSyntaxError(e.Prototypes.SyntaxError, message, stack)
	ctx.Signal.SetThrow(excObj)
}

// ThrowTypeError raises a TypeError, the most common runtime exception
// class (§4.6/§4.7: calling a non-callable, property access on
// null/undefined, invalid BigInt mixing).
func (e *Evaluator) ThrowTypeError(ctx *ExecutionContext, message string) {
	ctx.Signal.SetThrow(errors.NewTypeError(e.Prototypes.TypeError, message, e.CallStack.String()))
}

// ThrowReferenceError raises a ReferenceError (§4.2 TDZ/undeclared name).
func (e *Evaluator) ThrowReferenceError(ctx *ExecutionContext, message string) {
	ctx.Signal.SetThrow(errors.NewReferenceError(e.Prototypes.ReferenceErr, message, e.CallStack.String()))
}

// ThrowRangeError raises a RangeError (§12 call-stack overflow).
func (e *Evaluator) ThrowRangeError(ctx *ExecutionContext, message string) {
	ctx.Signal.SetThrow(errors.NewRangeError(e.Prototypes.RangeError, message, e.CallStack.String()))
}
