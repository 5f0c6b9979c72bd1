package evaluator

import (
	"github.com/asynkron/jsengine-go/internal/env"
	"github.com/asynkron/jsengine-go/internal/ir"
	"github.com/asynkron/jsengine-go/internal/values"
)

func init() {
	registerDispatch(map[*ir.Symbol]handlerFunc{
		ir.TagBlock:      evalBlock,
		ir.TagExprStmt:   evalExprStmt,
		ir.TagIf:         evalIf,
		ir.TagWhile:      evalWhile,
		ir.TagDoWhile:    evalDoWhile,
		ir.TagFor:        evalFor,
		ir.TagForIn:      evalForIn,
		ir.TagForOf:      evalForOf,
		ir.TagForAwaitOf: evalForAwaitOf,
		ir.TagSwitch:     evalSwitch,
		ir.TagTry:        evalTry,
		ir.TagThrow:      evalThrow,
		ir.TagBreak:      evalBreak,
		ir.TagContinue:   evalContinue,
		ir.TagReturn:     evalReturn,
		ir.TagLet:        evalLetConstStatement,
		ir.TagConst:      evalLetConstStatement,
		ir.TagVar:        evalVarStatement,
		ir.TagFunction:   evalFunctionDeclStatement,
		ir.TagGenerator:  evalFunctionDeclStatement,
		ir.TagEmptyStmt:  evalNoop,
		ir.TagUseStrict:  evalNoop,
		ir.TagLabel:      evalLabel,
	})
}

func evalNoop(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	return values.Undefined
}

// evalBlock runs a block statement in a fresh, non-function-boundary child
// scope, after hoisting its own let/const (TDZ) and nested var/function
// declarations (§4.2/§4.5).
func evalBlock(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	stmts := c.Operands()
	childEnv := env.NewEnclosed(ctx.Env, false)
	childCtx := ctx.WithEnv(childEnv)
	return e.EvalProgram(stmts, childCtx)
}

// evalBlockStatements runs a pre-split statement slice in a fresh scope,
// used by function bodies and for-loop bodies that already carry their own
// operand list rather than a single "block" cell.
func (e *Evaluator) evalBlockStatements(stmts []*ir.Cell, ctx *ExecutionContext) values.Value {
	childEnv := env.NewEnclosed(ctx.Env, false)
	return e.EvalProgram(stmts, ctx.WithEnv(childEnv))
}

func evalExprStmt(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	return e.Eval(c.Nth(0), ctx)
}

func evalIf(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	cond := e.Eval(c.Nth(0), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	if truthy(cond) {
		return e.Eval(c.Nth(1), ctx)
	}
	if els := c.Nth(2); els != nil {
		return e.Eval(els, ctx)
	}
	return values.Undefined
}

func truthy(v values.Value) bool {
	return boolCoerce(v)
}

func evalWhile(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	cond := c.Nth(0)
	body := c.Nth(1)
	for {
		cv := e.Eval(cond, ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		if !truthy(cv) {
			return values.Undefined
		}
		e.Eval(body, ctx)
		if handled := consumeLoopSignal(ctx, ""); handled == loopBreak {
			return values.Undefined
		} else if handled == loopPropagate {
			return values.Undefined
		}
	}
}

func evalDoWhile(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	body := c.Nth(0)
	cond := c.Nth(1)
	for {
		e.Eval(body, ctx)
		if handled := consumeLoopSignal(ctx, ""); handled == loopBreak {
			return values.Undefined
		} else if handled == loopPropagate {
			return values.Undefined
		}
		cv := e.Eval(cond, ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		if !truthy(cv) {
			return values.Undefined
		}
	}
}

// loopSignalOutcome tells a loop dispatcher what to do after one iteration
// body ran and may have raised Break/Continue/Return/Throw.
type loopSignalOutcome int

const (
	loopContinueNext loopSignalOutcome = iota
	loopBreak
	loopPropagate
)

// consumeLoopSignal inspects ctx.Signal after a loop body iteration and
// either clears it (unlabeled/matching-label break or continue consumed by
// this loop) or leaves it pending for an outer construct to see
// (label targets something else, or it's Return/Throw).
func consumeLoopSignal(ctx *ExecutionContext, ownLabel string) loopSignalOutcome {
	if !ctx.Signal.IsActive() {
		return loopContinueNext
	}
	if ctx.Signal.IsBreak() && ctx.Signal.MatchesLabel(ownLabel) {
		ctx.Signal.Clear()
		return loopBreak
	}
	if ctx.Signal.IsContinue() && ctx.Signal.MatchesLabel(ownLabel) {
		ctx.Signal.Clear()
		return loopContinueNext
	}
	return loopPropagate
}

// evalFor implements the classic three-clause for loop (§4.5), running the
// init clause's declarations in a loop-private scope so each iteration's
// let-bound loop variable is a fresh binding (the per-iteration-binding
// rule C-style `for (let i ...)` requires).
func evalFor(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	init := c.Nth(0)
	cond := c.Nth(1)
	update := c.Nth(2)
	body := c.Nth(3)

	loopEnv := env.NewEnclosed(ctx.Env, false)
	loopCtx := ctx.WithEnv(loopEnv)
	if init != nil {
		e.Eval(init, loopCtx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
	}
	for {
		iterEnv := env.NewEnclosed(loopEnv, false)
		copyBindingsForIteration(loopEnv, iterEnv)
		iterCtx := ctx.WithEnv(iterEnv)

		if cond != nil {
			cv := e.Eval(cond, iterCtx)
			if ctx.Signal.IsActive() {
				return values.Undefined
			}
			if !truthy(cv) {
				return values.Undefined
			}
		}
		e.Eval(body, iterCtx)
		outcome := consumeLoopSignal(ctx, "")
		syncBindingsBack(iterEnv, loopEnv)
		if outcome == loopBreak || outcome == loopPropagate {
			return values.Undefined
		}
		if update != nil {
			e.Eval(update, iterCtx)
			syncBindingsBack(iterEnv, loopEnv)
			if ctx.Signal.IsActive() {
				return values.Undefined
			}
		}
	}
}

// copyBindingsForIteration and syncBindingsBack implement the
// per-iteration let-binding copy-out/copy-in that gives each `for (let
// i...)` iteration its own closure-capturable `i` while still advancing a
// single logical counter across iterations.
func copyBindingsForIteration(from, to *env.Environment) {
	from.CopyInto(to)
}

func syncBindingsBack(from, to *env.Environment) {
	from.CopyInto(to)
}

func evalForIn(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	declPattern := c.Nth(0) // a "let"/"var"/"const" single-binding cell, or a bare pattern for assignment-target form
	rhs := c.Nth(1)
	body := c.Nth(2)

	obj := e.Eval(rhs, ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	keys := enumerableKeysOf(obj)
	for _, k := range keys {
		iterEnv := env.NewEnclosed(ctx.Env, false)
		iterCtx := ctx.WithEnv(iterEnv)
		bindForInOfTarget(e, declPattern, values.JSString(k), iterCtx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		e.Eval(body, iterCtx)
		if outcome := consumeLoopSignal(ctx, ""); outcome != loopContinueNext {
			return values.Undefined
		}
	}
	return values.Undefined
}

func enumerableKeysOf(v values.Value) []string {
	switch vv := v.(type) {
	case *values.Object:
		return vv.OwnKeys()
	case *values.Array:
		out := make([]string, vv.Length())
		for i := range out {
			out[i] = values.AsKey(i)
		}
		return out
	default:
		return nil
	}
}

func evalForOf(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	declPattern := c.Nth(0)
	rhs := c.Nth(1)
	body := c.Nth(2)

	iterable := e.Eval(rhs, ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	items, ok := iterate(iterable)
	if !ok {
		e.ThrowTypeError(ctx, values.TypeName(iterable)+" is not iterable")
		return values.Undefined
	}
	for _, item := range items {
		iterEnv := env.NewEnclosed(ctx.Env, false)
		iterCtx := ctx.WithEnv(iterEnv)
		bindForInOfTarget(e, declPattern, item, iterCtx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		e.Eval(body, iterCtx)
		if outcome := consumeLoopSignal(ctx, ""); outcome != loopContinueNext {
			return values.Undefined
		}
	}
	return values.Undefined
}

// iterate realizes the builtin iterables this core understands natively
// (Array, String by rune, Map, Set). Other values, including objects with a
// user-defined Symbol.iterator method, are reported as not iterable; for-of,
// spread and argument spreading all go through this helper (§4.5 edge case:
// "for-of over a plain object without Symbol.iterator throws TypeError").
func iterate(v values.Value) ([]values.Value, bool) {
	switch vv := v.(type) {
	case *values.Array:
		return append([]values.Value(nil), vv.Elems...), true
	case values.JSString:
		runes := []rune(string(vv))
		out := make([]values.Value, len(runes))
		for i, r := range runes {
			out[i] = values.JSString(string(r))
		}
		return out, true
	case *values.Map:
		keys, vals := vv.Entries()
		out := make([]values.Value, len(keys))
		for i := range keys {
			out[i] = values.NewArray(nil, keys[i], vals[i])
		}
		return out, true
	case *values.Set:
		return vv.Values(), true
	default:
		return nil, false
	}
}

// evalForAwaitOf implements §4.5's for-await-of protocol: look up an
// @@asyncIterator method on the target, falling back to @@iterator, invoke
// whichever is found to obtain an iterator object, then drive it by
// calling .next() each pass and reading {value, done} off the result
// (generator instances surface exactly this shape through their own
// [Symbol.iterator]/next — see generator.go). A thenable .next() result
// (a Promise) is outside this synchronous path's scope; it throws,
// directing the caller to run the loop inside an async function, where the
// external CPS transform this core doesn't implement takes over.
func evalForAwaitOf(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	declPattern := c.Nth(0)
	rhs := c.Nth(1)
	body := c.Nth(2)

	target := e.Eval(rhs, ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}

	iterator, ok := resolveIterator(e, target, ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	if !ok {
		e.ThrowTypeError(ctx, values.TypeName(target)+" is not async iterable")
		return values.Undefined
	}

	for {
		item, done := driveIteratorNext(e, iterator, ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		if done {
			return values.Undefined
		}
		iterEnv := env.NewEnclosed(ctx.Env, false)
		iterCtx := ctx.WithEnv(iterEnv)
		bindForInOfTarget(e, declPattern, item, iterCtx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		e.Eval(body, iterCtx)
		if outcome := consumeLoopSignal(ctx, ""); outcome != loopContinueNext {
			return values.Undefined
		}
	}
}

// resolveIterator implements the lookup order §4.5 calls for: target's own
// @@asyncIterator method first, then @@iterator, invoked with target as
// `this` to produce the iterator object. Plain Array/String/Map/Set
// targets have no @@iterator property installed on this core's built-in
// surface, so they fall back to a materialized-list iterator over the same
// values iterate() already understands, keeping for-await-of usable over
// them without requiring a real async-iterator protocol implementation.
func resolveIterator(e *Evaluator, target values.Value, ctx *ExecutionContext) (values.Value, bool) {
	if values.IsNullish(target) {
		return nil, false
	}
	if fn := lookupIteratorMethod(e, target, values.WellKnownAsyncIterator, ctx); fn != nil {
		iter := e.Invoke(fn, target, nil, ctx)
		return iter, !ctx.Signal.IsActive()
	}
	if fn := lookupIteratorMethod(e, target, values.WellKnownIterator, ctx); fn != nil {
		iter := e.Invoke(fn, target, nil, ctx)
		return iter, !ctx.Signal.IsActive()
	}
	if items, ok := iterate(target); ok {
		return newListIterator(items), true
	}
	return nil, false
}

func lookupIteratorMethod(e *Evaluator, target values.Value, key string, ctx *ExecutionContext) values.Value {
	v := getPropertyByKeyOn(e, target, target, key, ctx)
	if ctx.Signal.IsActive() {
		return nil
	}
	if isCallable(v) {
		return v
	}
	return nil
}

// newListIterator wraps an already-materialized value list in a plain
// object exposing the sync iterator protocol's .next(), the shape
// resolveIterator's fallback path hands driveIteratorNext.
func newListIterator(items []values.Value) *values.Object {
	idx := 0
	obj := values.NewObject(nil)
	obj.DefineOwn("next", &values.HostFunction{
		Name: "next",
		Impl: func(_ values.Value, _ []values.Value) (values.Value, error) {
			result := values.NewObject(nil)
			if idx >= len(items) {
				result.DefineOwn("value", values.Undefined)
				result.DefineOwn("done", values.Boolean(true))
				return result, nil
			}
			result.DefineOwn("value", items[idx])
			result.DefineOwn("done", values.Boolean(false))
			idx++
			return result, nil
		},
	})
	return obj
}

// driveIteratorNext calls iterator.next() and extracts {value, done},
// raising the §4.5 "run this inside an async function" throw if next()
// returned a thenable instead of a plain result object.
func driveIteratorNext(e *Evaluator, iterator values.Value, ctx *ExecutionContext) (values.Value, bool) {
	next := lookupIteratorMethod(e, iterator, "next", ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined, true
	}
	if next == nil {
		e.ThrowTypeError(ctx, values.TypeName(iterator)+" has no next method")
		return values.Undefined, true
	}
	result := e.Invoke(next, iterator, nil, ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined, true
	}
	if isThenable(e, result, ctx) {
		e.ThrowTypeError(ctx, "for-await-of received a Promise from next(); run this loop inside an async function")
		return values.Undefined, true
	}
	if ctx.Signal.IsActive() {
		return values.Undefined, true
	}
	done := boolCoerce(getPropertyByKeyOn(e, result, result, "done", ctx))
	if ctx.Signal.IsActive() {
		return values.Undefined, true
	}
	if done {
		return values.Undefined, true
	}
	value := getPropertyByKeyOn(e, result, result, "value", ctx)
	return value, false
}

// isThenable reports whether v looks like a Promise: an object exposing a
// callable "then" property (§4.5: "Promises returned by next() are not
// handled by this synchronous path").
func isThenable(e *Evaluator, v values.Value, ctx *ExecutionContext) bool {
	if values.IsNullish(v) {
		return false
	}
	if _, ok := v.(*values.Object); !ok {
		return false
	}
	then := getPropertyByKeyOn(e, v, v, "then", ctx)
	if ctx.Signal.IsActive() {
		return false
	}
	return isCallable(then)
}

// bindForInOfTarget binds one loop iteration's value into declPattern,
// which is either a declaration cell (let/const/var wrapping an identifier
// or pattern) or a bare assignment target.
func bindForInOfTarget(e *Evaluator, declPattern *ir.Cell, v values.Value, ctx *ExecutionContext) {
	tag := declPattern.Tag()
	switch tag {
	case ir.TagLet, ir.TagConst:
		bindDeclarationPattern(e, declPattern.Nth(0), v, ctx, tag == ir.TagConst, false)
	case ir.TagVar:
		bindDeclarationPattern(e, declPattern.Nth(0), v, ctx, false, true)
	default:
		assignToTarget(e, declPattern, v, ctx)
	}
}

func evalSwitch(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	disc := e.Eval(c.Nth(0), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	cases := c.Operands()[1:]
	switchEnv := env.NewEnclosed(ctx.Env, false)
	switchCtx := ctx.WithEnv(switchEnv)

	matchedIdx := -1
	defaultIdx := -1
	for i, cs := range cases {
		if cs.Tag() == ir.TagDefault {
			defaultIdx = i
			continue
		}
		testVal := e.Eval(cs.Nth(0), switchCtx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		if strictEq(disc, testVal) {
			matchedIdx = i
			break
		}
	}
	start := matchedIdx
	if start == -1 {
		start = defaultIdx
	}
	if start == -1 {
		return values.Undefined
	}
	for i := start; i < len(cases); i++ {
		cs := cases[i]
		var body []*ir.Cell
		if cs.Tag() == ir.TagDefault {
			body = cs.Operands()
		} else {
			body = cs.Operands()[1:]
		}
		e.EvalProgram(body, switchCtx)
		if ctx.Signal.IsActive() {
			if ctx.Signal.IsBreak() && ctx.Signal.MatchesLabel("") {
				ctx.Signal.Clear()
			}
			return values.Undefined
		}
	}
	return values.Undefined
}

func evalTry(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	tryBlock := c.Nth(0)
	catchParam := c.Nth(1)   // nil if no catch clause
	catchBody := c.Nth(2)    // nil if no catch clause
	finallyBody := c.Nth(3)  // nil if no finally clause

	e.Eval(tryBlock, ctx)

	if ctx.Signal.IsThrow() && catchBody != nil {
		thrown := ctx.Signal.Value()
		ctx.Signal.Clear()
		catchEnv := env.NewEnclosed(ctx.Env, false)
		catchCtx := ctx.WithEnv(catchEnv)
		if catchParam != nil {
			bindDeclarationPattern(e, catchParam, thrown, catchCtx, false, false)
		}
		e.Eval(catchBody, catchCtx)
	}

	if finallyBody != nil {
		// finally must observe (and may override) whatever signal is
		// pending from the try/catch above (§4.5: "finally can observe and
		// override an in-flight signal").
		pending := *ctx.Signal
		ctx.Signal.Clear()
		e.Eval(finallyBody, ctx)
		if !ctx.Signal.IsActive() {
			*ctx.Signal = pending
		}
	}
	return values.Undefined
}

func evalThrow(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	v := e.Eval(c.Nth(0), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	ctx.Signal.SetThrow(v)
	return values.Undefined
}

func evalBreak(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	label := leafString(c.Nth(0))
	ctx.Signal.SetBreak(label)
	return values.Undefined
}

func evalContinue(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	label := leafString(c.Nth(0))
	ctx.Signal.SetContinue(label)
	return values.Undefined
}

func evalReturn(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	var v values.Value = values.Undefined
	if arg := c.Nth(0); arg != nil {
		v = e.Eval(arg, ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
	}
	ctx.Signal.SetReturn(v)
	return values.Undefined
}

func evalLabel(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	label := leafString(c.Nth(0))
	body := c.Nth(1)
	e.Eval(body, ctx)
	if ctx.Signal.IsActive() && ctx.Signal.MatchesLabel(label) &&
		(ctx.Signal.IsBreak() || ctx.Signal.IsContinue()) {
		ctx.Signal.Clear()
	}
	return values.Undefined
}

func leafString(c *ir.Cell) string {
	if c == nil {
		return ""
	}
	if s, ok := c.Leaf().(string); ok {
		return s
	}
	return ""
}

// evalLetConstStatement evaluates `let x = expr, y = expr2;`-style
// declarations: each declarator is (pattern, initializer?) and the pattern
// may be a plain identifier or a destructuring pattern (§4.8).
func evalLetConstStatement(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	isConst := c.Tag() == ir.TagConst
	for _, decl := range c.Operands() {
		pattern := decl.Nth(0)
		initExpr := decl.Nth(1)
		var v values.Value = values.Undefined
		if initExpr != nil {
			v = e.Eval(initExpr, ctx)
			if ctx.Signal.IsActive() {
				return values.Undefined
			}
		}
		bindDeclarationPattern(e, pattern, v, ctx, isConst, false)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
	}
	return values.Undefined
}

func evalVarStatement(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	for _, decl := range c.Operands() {
		pattern := decl.Nth(0)
		initExpr := decl.Nth(1)
		if initExpr == nil {
			continue // var's binding already exists (Undefined) from hoisting
		}
		v := e.Eval(initExpr, ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		bindDeclarationPattern(e, pattern, v, ctx, false, true)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
	}
	return values.Undefined
}

// evalFunctionDeclStatement handles a `function` declaration encountered
// as a statement; its binding was already created by hoistDeclarations, so
// evaluating it here just re-initializes the binding to the (possibly
// re-created, for idempotency) function value.
func evalFunctionDeclStatement(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	name := leafString(c.Nth(0))
	fn := buildFunctionValue(e, c, ctx, false)
	if name != "" {
		sym := internSymbolName(name)
		ctx.Env.InitializeBinding(sym, fn)
	}
	return fn
}
