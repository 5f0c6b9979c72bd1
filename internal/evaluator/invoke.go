package evaluator

import (
	"github.com/asynkron/jsengine-go/internal/coerce"
	"github.com/asynkron/jsengine-go/internal/env"
	"github.com/asynkron/jsengine-go/internal/ir"
	"github.com/asynkron/jsengine-go/internal/values"
)

// Invoke implements the unified Callable Contract (C7): User Function,
// Host Function, and generator-factory calls all funnel through here, so
// every other part of the evaluator that needs to call something (the
// `call` expression, iterator protocol consumption, coercion's
// toString/valueOf, class construction) shares one code path. Grounded on
// the teacher's Evaluator.EvalFunctionPointer callback seam.
func (e *Evaluator) Invoke(callee values.Value, thisVal values.Value, args []values.Value, ctx *ExecutionContext) values.Value {
	switch fn := callee.(type) {
	case *values.HostFunction:
		result, err := fn.Impl(thisVal, args)
		if err != nil {
			e.ThrowTypeError(ctx, err.Error())
			return values.Undefined
		}
		return result
	case *values.GeneratorFactory:
		return e.newGeneratorInstance(fn, thisVal, args)
	case *values.Function:
		if fn.IsGenerator {
			return e.newGeneratorInstance(&values.GeneratorFactory{Fn: fn}, thisVal, args)
		}
		return e.invokeUserFunction(fn, thisVal, args, ctx)
	default:
		e.ThrowTypeError(ctx, "value is not a function")
		return values.Undefined
	}
}

// invokeUserFunction runs one (non-generator) user function call: push a
// call-stack frame (raising RangeError on overflow, §12), bind parameters
// into a fresh function-boundary scope, run the body, and translate a
// pending Return signal into the call's result.
func (e *Evaluator) invokeUserFunction(fn *values.Function, thisVal values.Value, args []values.Value, ctx *ExecutionContext) values.Value {
	if err := e.CallStack.Push(Frame{FunctionName: fn.Name}); err != nil {
		e.ThrowRangeError(ctx, err.Error())
		return values.Undefined
	}
	defer e.CallStack.Pop()

	if fn.IsDefaultCtor {
		// A class with no explicit `constructor` gets one synthesized at
		// class-build time (§4.9). The only observable behavior of
		// `constructor(...args) { super(...args); }` is forwarding every
		// argument to the nearest ancestor constructor; a base class with
		// no superclass has nothing left to run.
		if fn.SuperCtor != nil {
			return e.invokeUserFunction(fn.SuperCtor, thisVal, args, ctx)
		}
		return values.Undefined
	}

	closureEnv, _ := fn.Closure.(*env.Environment)
	callEnv := env.NewEnclosed(closureEnv, true)
	callCtx := ctx.WithEnv(callEnv).WithFreshSignal()

	if fn.IsArrow {
		if fn.ThisVal != nil {
			callCtx.This = fn.ThisVal
		} else {
			callCtx.This = ctx.This
		}
		callCtx.Super = ctx.Super
	} else {
		callCtx.This = thisVal
		if fn.HomeObject != nil {
			callCtx.Super = &values.SuperBinding{SuperPrototype: fn.HomeObject.Proto, ThisValue: thisVal, SuperConstructor: fn.SuperCtor}
		} else {
			callCtx.Super = nil
		}
	}

	bindParameters(e, fn.Params, args, callCtx)
	if callCtx.Signal.IsActive() {
		propagateThrowOnly(ctx, callCtx)
		return values.Undefined
	}

	bodyStatements := fn.Body.Operands()
	e.EvalProgram(bodyStatements, callCtx)

	if callCtx.Signal.IsReturn() {
		return callCtx.Signal.Value()
	}
	if callCtx.Signal.IsThrow() {
		propagateThrowOnly(ctx, callCtx)
		return values.Undefined
	}
	return values.Undefined
}

// propagateThrowOnly re-raises a throw signal captured on an inner (fresh)
// ExecutionContext onto the caller's ctx, since WithFreshSignal isolates
// Return but an uncaught Throw must still unwind through the caller.
func propagateThrowOnly(outer, inner *ExecutionContext) {
	if inner.Signal.IsThrow() {
		outer.Signal.SetThrow(inner.Signal.Value())
	}
}

// bindParameters binds args into callCtx.Env per fn's parameter list,
// applying defaults for missing/undefined arguments and collecting any
// trailing rest parameter into an Array (§4.4 Callable Contract, §4.8
// Destructuring).
func bindParameters(e *Evaluator, params []values.Param, args []values.Value, ctx *ExecutionContext) {
	for i, p := range params {
		if p.Rest {
			rest := values.NewArray(e.Prototypes.Array)
			if i < len(args) {
				rest.Elems = append(rest.Elems, args[i:]...)
			}
			bindDeclarationPattern(e, p.Pattern, rest, ctx, false, false)
			return
		}
		var v values.Value = values.Undefined
		if i < len(args) {
			v = args[i]
		}
		if v == values.Undefined && p.Default != nil {
			v = e.Eval(p.Default, ctx)
			if ctx.Signal.IsActive() {
				return
			}
		}
		bindDeclarationPattern(e, p.Pattern, v, ctx, false, false)
		if ctx.Signal.IsActive() {
			return
		}
	}
}

// invokerAdapter lets package coerce drive a toString/valueOf call without
// importing package evaluator.
type invokerAdapter struct {
	e   *Evaluator
	ctx *ExecutionContext
}

func invokerFor(e *Evaluator, ctx *ExecutionContext) coerce.Invoker {
	return invokerAdapter{e: e, ctx: ctx}
}

func (a invokerAdapter) InvokeMethod(obj values.Value, methodName string, args []values.Value) (values.Value, bool, error) {
	method, ok := lookupMethod(obj, methodName)
	if !ok {
		return nil, false, nil
	}
	result := a.e.Invoke(method, obj, args, a.ctx)
	if a.ctx.Signal.IsThrow() {
		thrown := a.ctx.Signal.Value()
		a.ctx.Signal.Clear()
		if errObj, ok := thrown.(*values.Object); ok {
			if msg, ok := errObj.GetOwn("message"); ok && msg.HasValue {
				return nil, true, &methodInvokeError{message: msg.Value.String()}
			}
		}
		return nil, true, &methodInvokeError{message: thrown.String()}
	}
	return result, true, nil
}

type methodInvokeError struct{ message string }

func (e *methodInvokeError) Error() string { return e.message }

// lookupMethod finds a callable own/prototype property named methodName on
// obj, the narrow object surface ToPrimitive needs.
func lookupMethod(obj values.Value, methodName string) (values.Value, bool) {
	switch o := obj.(type) {
	case *values.Object:
		if p, _, ok := o.LookupProperty(methodName); ok && p.HasValue {
			if isCallable(p.Value) {
				return p.Value, true
			}
		}
	case *values.Array:
		if v, ok := o.GetProp(methodName); ok && isCallable(v) {
			return v, true
		}
	}
	return nil, false
}

func isCallable(v values.Value) bool {
	switch v.(type) {
	case *values.Function, *values.HostFunction, *values.GeneratorFactory:
		return true
	default:
		return false
	}
}

// buildFunctionValue constructs a values.Function from a function/lambda
// IR cell, closing over ctx.Env. Shared by function declarations, function
// expressions, arrow expressions, and method/getter/setter/class-member
// builders (§4.4, §4.9).
func buildFunctionValue(e *Evaluator, c *ir.Cell, ctx *ExecutionContext, isArrow bool) *values.Function {
	name := leafString(c.Nth(0))
	paramsCell := c.Nth(1)
	body := c.Nth(2)
	isGenerator := c.Tag() == ir.TagGenerator

	params := parseParamList(paramsCell)

	fn := &values.Function{
		Name:        name,
		Params:      params,
		Body:        body,
		Closure:     ctx.Env,
		IsGenerator: isGenerator,
		IsArrow:     isArrow,
	}
	if isArrow {
		fn.ThisVal = ctx.This
	}
	return fn
}

// parseParamList decodes a parameter-list cell into []values.Param. Each
// operand is either a bare pattern cell, a ("pattern-element", pattern,
// default) cell, or a ("rest", pattern) cell.
func parseParamList(paramsCell *ir.Cell) []values.Param {
	var out []values.Param
	for _, p := range paramsCell.Operands() {
		switch p.Tag() {
		case ir.TagRest:
			out = append(out, values.Param{Pattern: p.Nth(0), Rest: true})
		case ir.TagPatternElement:
			def := p.Nth(1)
			out = append(out, values.Param{Pattern: p.Nth(0), Default: def})
		default:
			out = append(out, values.Param{Pattern: p})
		}
	}
	return out
}
