package evaluator

import (
	"github.com/asynkron/jsengine-go/internal/env"
	"github.com/asynkron/jsengine-go/internal/ir"
	"github.com/asynkron/jsengine-go/internal/values"
)

// bindDeclarationPattern implements the declarative halves of §4.8
// Destructuring: let/const (TDZ-then-initialize) and var
// (declarative/hoisted, via env.DeclareVar) both funnel through here, the
// only difference being which Environment method finalizes the binding.
func bindDeclarationPattern(e *Evaluator, pattern *ir.Cell, value values.Value, ctx *ExecutionContext, isConst, isVarScoped bool) {
	if pattern == nil {
		return
	}
	switch pattern.Tag() {
	case ir.TagSymbol:
		sym := internSymbolName(leafString(pattern.Nth(0)))
		if isVarScoped {
			ctx.Env.DeclareVar(sym, value)
			return
		}
		if !ctx.Env.HasOwn(sym) {
			ctx.Env.DeclareUninitialized(sym, isConst)
		}
		ctx.Env.InitializeBinding(sym, value)
	case ir.TagArrayPattern:
		bindArrayPattern(e, pattern, value, ctx, isConst, isVarScoped)
	case ir.TagObjectPattern:
		bindObjectPattern(e, pattern, value, ctx, isConst, isVarScoped)
	default:
		e.throwSyntax(ctx, "invalid binding target", pattern)
	}
}

// bindArrayPattern destructures value (via the iteration protocol, §4.5)
// element by element into pattern's targets, honoring per-element
// defaults, a single trailing rest element, and elision (a nil target
// standing in for a skipped slot, e.g. `[, b] = arr`).
func bindArrayPattern(e *Evaluator, pattern *ir.Cell, value values.Value, ctx *ExecutionContext, isConst, isVarScoped bool) {
	items, ok := iterate(value)
	if !ok {
		e.ThrowTypeError(ctx, values.TypeName(value)+" is not iterable")
		return
	}
	idx := 0
	for _, el := range pattern.Operands() {
		if el.Tag() == ir.TagPatternRest {
			rest := values.NewArray(e.Prototypes.Array)
			if idx < len(items) {
				rest.Elems = append(rest.Elems, items[idx:]...)
			}
			bindDeclarationPattern(e, el.Nth(0), rest, ctx, isConst, isVarScoped)
			return
		}
		var v values.Value = values.Undefined
		if idx < len(items) {
			v = items[idx]
		}
		idx++
		if el.Tag() == nil && el.Leaf() == nil {
			continue // elision
		}
		target := el
		var def *ir.Cell
		if el.Tag() == ir.TagPatternElement {
			target = el.Nth(0)
			def = el.Nth(1)
		}
		if v == values.Undefined && def != nil {
			v = e.Eval(def, ctx)
			if ctx.Signal.IsActive() {
				return
			}
		}
		bindDeclarationPattern(e, target, v, ctx, isConst, isVarScoped)
		if ctx.Signal.IsActive() {
			return
		}
	}
}

// bindObjectPattern destructures value's own properties into pattern's
// targets, supporting renaming (`{a: b}`), defaults, and a trailing rest
// that collects every own enumerable key not already consumed.
func bindObjectPattern(e *Evaluator, pattern *ir.Cell, value values.Value, ctx *ExecutionContext, isConst, isVarScoped bool) {
	consumed := make(map[string]bool)
	for _, prop := range pattern.Operands() {
		if prop.Tag() == ir.TagPatternRest {
			restObj := values.NewObject(e.Prototypes.Object)
			for _, k := range enumerableOwnKeysOf(value) {
				if !consumed[k] {
					restObj.DefineOwn(k, getPropertyByKey(e, value, k, ctx))
				}
			}
			bindDeclarationPattern(e, prop.Nth(0), restObj, ctx, isConst, isVarScoped)
			return
		}
		key := leafString(prop.Nth(0))
		consumed[key] = true
		target := prop.Nth(1)
		def := prop.Nth(2)

		v := getPropertyByKey(e, value, key, ctx)
		if ctx.Signal.IsActive() {
			return
		}
		if v == values.Undefined && def != nil {
			v = e.Eval(def, ctx)
			if ctx.Signal.IsActive() {
				return
			}
		}
		bindDeclarationPattern(e, target, v, ctx, isConst, isVarScoped)
		if ctx.Signal.IsActive() {
			return
		}
	}
}

func enumerableOwnKeysOf(v values.Value) []string {
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

// assignToTarget implements §4.8's third binding mode: plain assignment,
// where the left-hand side may be an identifier, a member expression
// (`obj.x = ...` / `obj[k] = ...`), or a nested array/object pattern —
// each recursively assigned rather than declared.
func assignToTarget(e *Evaluator, target *ir.Cell, value values.Value, ctx *ExecutionContext) {
	if target == nil {
		return
	}
	switch target.Tag() {
	case ir.TagSymbol:
		sym := internSymbolName(leafString(target.Nth(0)))
		if err := ctx.Env.Assign(sym, value); err != nil {
			if be, ok := err.(*env.BindingError); ok && be.Kind == env.ErrNotDefined && !ctx.Env.IsStrict {
				ctx.Env.AssignGlobalImplicit(sym, value)
				return
			}
			raiseBindingError(e, ctx, err)
		}
	case ir.TagGetProp, ir.TagOptionalGetProp:
		obj := e.Eval(target.Nth(0), ctx)
		if ctx.Signal.IsActive() {
			return
		}
		key := leafString(target.Nth(1))
		setPropertyByKey(e, obj, key, value, ctx)
	case ir.TagGetIndex:
		obj := e.Eval(target.Nth(0), ctx)
		if ctx.Signal.IsActive() {
			return
		}
		idxVal := e.Eval(target.Nth(1), ctx)
		if ctx.Signal.IsActive() {
			return
		}
		setPropertyByKey(e, obj, propertyKeyOf(idxVal), value, ctx)
	case ir.TagArrayPattern:
		assignArrayPattern(e, target, value, ctx)
	case ir.TagObjectPattern:
		assignObjectPattern(e, target, value, ctx)
	default:
		e.throwSyntax(ctx, "invalid assignment target", target)
	}
}

func assignArrayPattern(e *Evaluator, pattern *ir.Cell, value values.Value, ctx *ExecutionContext) {
	items, ok := iterate(value)
	if !ok {
		e.ThrowTypeError(ctx, values.TypeName(value)+" is not iterable")
		return
	}
	idx := 0
	for _, el := range pattern.Operands() {
		if el.Tag() == ir.TagPatternRest {
			rest := values.NewArray(e.Prototypes.Array)
			if idx < len(items) {
				rest.Elems = append(rest.Elems, items[idx:]...)
			}
			assignToTarget(e, el.Nth(0), rest, ctx)
			return
		}
		var v values.Value = values.Undefined
		if idx < len(items) {
			v = items[idx]
		}
		idx++
		target := el
		var def *ir.Cell
		if el.Tag() == ir.TagPatternElement {
			target = el.Nth(0)
			def = el.Nth(1)
		}
		if v == values.Undefined && def != nil {
			v = e.Eval(def, ctx)
			if ctx.Signal.IsActive() {
				return
			}
		}
		assignToTarget(e, target, v, ctx)
		if ctx.Signal.IsActive() {
			return
		}
	}
}

func assignObjectPattern(e *Evaluator, pattern *ir.Cell, value values.Value, ctx *ExecutionContext) {
	consumed := make(map[string]bool)
	for _, prop := range pattern.Operands() {
		if prop.Tag() == ir.TagPatternRest {
			restObj := values.NewObject(e.Prototypes.Object)
			for _, k := range enumerableOwnKeysOf(value) {
				if !consumed[k] {
					restObj.DefineOwn(k, getPropertyByKey(e, value, k, ctx))
				}
			}
			assignToTarget(e, prop.Nth(0), restObj, ctx)
			return
		}
		key := leafString(prop.Nth(0))
		consumed[key] = true
		target := prop.Nth(1)
		def := prop.Nth(2)
		v := getPropertyByKey(e, value, key, ctx)
		if ctx.Signal.IsActive() {
			return
		}
		if v == values.Undefined && def != nil {
			v = e.Eval(def, ctx)
			if ctx.Signal.IsActive() {
				return
			}
		}
		assignToTarget(e, target, v, ctx)
		if ctx.Signal.IsActive() {
			return
		}
	}
}

func raiseBindingError(e *Evaluator, ctx *ExecutionContext, err error) {
	if be, ok := err.(*env.BindingError); ok {
		switch be.Kind {
		case env.ErrTDZ:
			e.ThrowReferenceError(ctx, be.Error())
		case env.ErrConstReassign:
			e.ThrowTypeError(ctx, be.Error())
		default:
			e.ThrowReferenceError(ctx, be.Error())
		}
		return
	}
	e.ThrowTypeError(ctx, err.Error())
}
