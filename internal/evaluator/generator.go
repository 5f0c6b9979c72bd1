package evaluator

import (
	"github.com/asynkron/jsengine-go/internal/env"
	"github.com/asynkron/jsengine-go/internal/ir"
	"github.com/asynkron/jsengine-go/internal/values"
)

func init() {
	registerDispatch(map[*ir.Symbol]handlerFunc{
		ir.TagYield:     evalYield,
		ir.TagYieldStar: evalYieldStar,
	})
}

// generatorRun carries the state a yield expression needs while its
// generator body is being re-run (§4.10/C13): which instance owns this
// pass, whose Tracker counts yield points crossed so far and whose
// ResumeLog supplies the recorded value/throw/return for every yield point
// already resumed in a previous call.
type generatorRun struct {
	instance *values.GeneratorInstance
}

// newGeneratorInstance allocates a suspended generator object. The body
// does not run until the first .next()/.throw()/.return() call (§4.10).
func (e *Evaluator) newGeneratorInstance(factory *values.GeneratorFactory, thisVal values.Value, args []values.Value) values.Value {
	return &values.GeneratorInstance{
		Factory: factory,
		State:   values.GeneratorSuspendedStart,
		Tracker: &values.YieldTracker{},
		ThisVal: thisVal,
		Args:    args,
	}
}

// generatorMethod builds the .next/.throw/.return host functions exposed
// on a generator instance, each closing over the ExecutionContext active
// at the point the method was looked up (the caller's context, which is
// exactly where any thrown/returned signal from re-running the body needs
// to land).
func (e *Evaluator) generatorMethod(inst *values.GeneratorInstance, key string, ctx *ExecutionContext) values.Value {
	switch key {
	case "next":
		return &values.HostFunction{Name: "next", Impl: func(thisVal values.Value, args []values.Value) (values.Value, error) {
			return e.generatorNext(inst, argOrUndefined(args), ctx), nil
		}}
	case "throw":
		return &values.HostFunction{Name: "throw", Impl: func(thisVal values.Value, args []values.Value) (values.Value, error) {
			return e.generatorThrow(inst, argOrUndefined(args), ctx), nil
		}}
	case "return":
		return &values.HostFunction{Name: "return", Impl: func(thisVal values.Value, args []values.Value) (values.Value, error) {
			return e.generatorReturn(inst, argOrUndefined(args), ctx), nil
		}}
	case values.WellKnownIterator:
		return &values.HostFunction{Name: "[Symbol.iterator]", Impl: func(thisVal values.Value, args []values.Value) (values.Value, error) {
			return inst, nil
		}}
	default:
		return values.Undefined
	}
}

func argOrUndefined(args []values.Value) values.Value {
	if len(args) > 0 {
		return args[0]
	}
	return values.Undefined
}

func (e *Evaluator) generatorResult(value values.Value, done bool) values.Value {
	obj := values.NewObject(e.Prototypes.Object)
	obj.DefineOwn("value", value)
	obj.DefineOwn("done", values.Boolean(done))
	return obj
}

// runGeneratorPass re-runs inst's body from the top in a fresh call
// environment, fast-forwarding through every yield point recorded in
// inst.ResumeLog until it either crosses a new, unresolved yield point
// (suspend) or the body falls off the end / hits return / throw
// (complete).
func (e *Evaluator) runGeneratorPass(inst *values.GeneratorInstance, ctx *ExecutionContext) (values.Value, bool) {
	inst.State = values.GeneratorExecuting
	inst.Tracker.Reset()

	fn := inst.Factory.Fn
	closureEnv, _ := fn.Closure.(*env.Environment)
	callEnv := env.NewEnclosed(closureEnv, true)
	runCtx := ctx.WithEnv(callEnv).WithFreshSignal()
	runCtx.This = inst.ThisVal
	runCtx.Generator = &generatorRun{instance: inst}

	bindParameters(e, fn.Params, inst.Args, runCtx)
	if runCtx.Signal.IsThrow() {
		inst.State = values.GeneratorCompleted
		propagateThrowOnly(ctx, runCtx)
		return values.Undefined, true
	}

	e.EvalProgram(fn.Body.Operands(), runCtx)

	switch {
	case runCtx.Signal.IsYield():
		inst.State = values.GeneratorSuspendedYield
		v := runCtx.Signal.Value()
		runCtx.Signal.Clear()
		return v, false
	case runCtx.Signal.IsReturn():
		inst.State = values.GeneratorCompleted
		return runCtx.Signal.Value(), true
	case runCtx.Signal.IsThrow():
		inst.State = values.GeneratorCompleted
		propagateThrowOnly(ctx, runCtx)
		return values.Undefined, true
	default:
		inst.State = values.GeneratorCompleted
		return values.Undefined, true
	}
}

func (e *Evaluator) generatorNext(inst *values.GeneratorInstance, sent values.Value, ctx *ExecutionContext) values.Value {
	if inst.State == values.GeneratorCompleted {
		return e.generatorResult(values.Undefined, true)
	}
	if inst.State == values.GeneratorSuspendedYield {
		inst.ResumeLog = append(inst.ResumeLog, values.ResumeEntry{Kind: values.ResumeNext, Value: sent})
	}
	v, done := e.runGeneratorPass(inst, ctx)
	return e.generatorResult(v, done)
}

func (e *Evaluator) generatorThrow(inst *values.GeneratorInstance, thrown values.Value, ctx *ExecutionContext) values.Value {
	if inst.State == values.GeneratorSuspendedStart || inst.State == values.GeneratorCompleted {
		inst.State = values.GeneratorCompleted
		ctx.Signal.SetThrow(thrown)
		return values.Undefined
	}
	inst.ResumeLog = append(inst.ResumeLog, values.ResumeEntry{Kind: values.ResumeThrow, Value: thrown})
	v, done := e.runGeneratorPass(inst, ctx)
	return e.generatorResult(v, done)
}

func (e *Evaluator) generatorReturn(inst *values.GeneratorInstance, retVal values.Value, ctx *ExecutionContext) values.Value {
	if inst.State == values.GeneratorSuspendedStart || inst.State == values.GeneratorCompleted {
		inst.State = values.GeneratorCompleted
		return e.generatorResult(retVal, true)
	}
	inst.ResumeLog = append(inst.ResumeLog, values.ResumeEntry{Kind: values.ResumeReturn, Value: retVal})
	v, done := e.runGeneratorPass(inst, ctx)
	return e.generatorResult(v, done)
}

// processYieldPoint is reached once per yield expression crossed during a
// body re-run. If this position was already resumed in a prior call, it
// replays the recorded outcome (a value, or a throw/return signal) instead
// of suspending again; otherwise this is the new suspension point.
func processYieldPoint(ctx *ExecutionContext, produced values.Value) values.Value {
	inst := ctx.Generator.instance
	pos := inst.Tracker.Advance()
	if pos <= len(inst.ResumeLog) {
		entry := inst.ResumeLog[pos-1]
		switch entry.Kind {
		case values.ResumeThrow:
			ctx.Signal.SetThrow(entry.Value)
		case values.ResumeReturn:
			ctx.Signal.SetReturn(entry.Value)
		default:
			return entry.Value
		}
		return values.Undefined
	}
	ctx.Signal.SetYield(produced)
	return values.Undefined
}

func evalYield(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	if ctx.Generator == nil {
		e.throwSyntax(ctx, "yield used outside a generator function", c)
		return values.Undefined
	}
	var v values.Value = values.Undefined
	if arg := c.Nth(0); arg != nil {
		v = e.Eval(arg, ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
	}
	return processYieldPoint(ctx, v)
}

// evalYieldStar implements `yield* iterable` by yielding each of the
// delegate's items in turn as its own yield point (§4.10). Delegating into
// another generator's own .throw()/.return() protocol is outside this
// core's scope (§1 Non-goals: the iteration protocol here is the plain
// array/string/Map/Set surface, not arbitrary Symbol.iterator objects).
func evalYieldStar(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	if ctx.Generator == nil {
		e.throwSyntax(ctx, "yield* used outside a generator function", c)
		return values.Undefined
	}
	src := e.Eval(c.Nth(0), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	items, ok := iterate(src)
	if !ok {
		e.ThrowTypeError(ctx, values.TypeName(src)+" is not iterable")
		return values.Undefined
	}
	var last values.Value = values.Undefined
	for _, item := range items {
		last = processYieldPoint(ctx, item)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
	}
	return last
}
