package evaluator

import (
	"strconv"

	"github.com/asynkron/jsengine-go/internal/values"
)

// propertyKeyOf normalizes an already-evaluated index/computed-key value
// into the string key the Object/Array property tables are keyed by
// (§4.6: `obj[expr]` ToPropertyKey-coerces expr).
func propertyKeyOf(v values.Value) string {
	if sym, ok := v.(*values.JsSymbol); ok {
		return values.SymbolPropertyKey(sym)
	}
	return string(coerceToStringKey(v))
}

func coerceToStringKey(v values.Value) values.JSString {
	if s, ok := v.(values.JSString); ok {
		return s
	}
	if n, ok := v.(values.Number); ok {
		return values.JSString(n.String())
	}
	return values.JSString(v.String())
}

// getPropertyByKey reads key off v, walking the prototype chain and
// invoking a getter if one is found, covering the Object/Array/String
// surfaces the core understands natively (§4.6 member access, DATA MODEL
// edge case: "reading a missing key yields undefined, not an error").
func getPropertyByKey(e *Evaluator, v values.Value, key string, ctx *ExecutionContext) values.Value {
	return getPropertyByKeyOn(e, v, v, key, ctx)
}

// getPropertyByKeyOn reads key off v (walking v's own prototype chain) but
// invokes any getter found with receiver as `this` rather than the object
// that owns the property. The two differ for `super.x`: the chain walk
// starts at the superclass prototype, but `this` inside the getter must
// still be the real instance (§4.9's super-property-access rule).
func getPropertyByKeyOn(e *Evaluator, v values.Value, receiver values.Value, key string, ctx *ExecutionContext) values.Value {
	if v == nil || values.IsNullish(v) {
		label := "undefined"
		if v != nil {
			label = v.String()
		}
		e.ThrowTypeError(ctx, "Cannot read properties of "+label+" (reading '"+key+"')")
		return values.Undefined
	}
	switch vv := v.(type) {
	case *values.Object:
		p, owner, ok := vv.LookupProperty(key)
		if !ok {
			return values.Undefined
		}
		if p.Get != nil {
			return e.Invoke(p.Get, receiver, nil, ctx)
		}
		if !p.HasValue && owner != nil {
			return values.Undefined
		}
		return p.Value
	case *values.Array:
		if idx, ok := indexOf(key); ok {
			return vv.GetIndex(idx)
		}
		if key == "length" {
			return values.Number(vv.Length())
		}
		if pv, ok := vv.GetProp(key); ok {
			return pv
		}
		return values.Undefined
	case values.JSString:
		if key == "length" {
			return values.Number(len([]rune(string(vv))))
		}
		if idx, ok := indexOf(key); ok {
			runes := []rune(string(vv))
			if idx < 0 || idx >= len(runes) {
				return values.Undefined
			}
			return values.JSString(string(runes[idx]))
		}
		return values.Undefined
	case *values.Map:
		if key == "size" {
			return values.Number(vv.Size())
		}
		return values.Undefined
	case *values.Set:
		if key == "size" {
			return values.Number(vv.Size())
		}
		return values.Undefined
	case *values.GeneratorInstance:
		return e.generatorMethod(vv, key, ctx)
	case *values.Function:
		switch key {
		case "name":
			return values.JSString(vv.Name)
		case "prototype":
			if vv.Proto == nil {
				return values.Undefined
			}
			return vv.Proto
		}
		if vv.StaticProps != nil {
			if p, _, ok := vv.StaticProps.LookupProperty(key); ok {
				if p.Get != nil {
					return e.Invoke(p.Get, vv.StaticProps, nil, ctx)
				}
				return p.Value
			}
		}
		return values.Undefined
	case values.Number, values.Boolean, *values.BigInt, *values.JsSymbol:
		// Primitives carry no property table of their own in this model
		// (no Number/Boolean/BigInt/Symbol wrapper objects), so a read
		// that expects one — chiefly object-pattern destructuring of a
		// primitive, e.g. `let {x} = 5;` — is a TypeError rather than a
		// silent undefined (§4.8).
		e.ThrowTypeError(ctx, "Cannot read properties of "+v.String()+" (reading '"+key+"')")
		return values.Undefined
	default:
		return values.Undefined
	}
}

func indexOf(key string) (int, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// setPropertyByKey writes key on v, invoking a setter if the prototype
// chain defines one for key (§4.6).
func setPropertyByKey(e *Evaluator, v values.Value, key string, val values.Value, ctx *ExecutionContext) {
	setPropertyByKeyOn(e, v, v, key, val, ctx)
}

// setPropertyByKeyOn mirrors getPropertyByKeyOn: a setter found on v's chain
// runs with receiver bound as `this`, so `super.x = ...` writes through with
// the real instance rather than the superclass prototype.
func setPropertyByKeyOn(e *Evaluator, v values.Value, receiver values.Value, key string, val values.Value, ctx *ExecutionContext) {
	switch vv := v.(type) {
	case *values.Object:
		if setter := vv.Setter(key); setter != nil {
			e.Invoke(setter, receiver, []values.Value{val}, ctx)
			return
		}
		if vv.Getter(key) != nil {
			return // getter-only accessor: silent no-op in sloppy mode
		}
		vv.DefineOwn(key, val)
	case *values.Array:
		if idx, ok := indexOf(key); ok {
			vv.SetIndex(idx, val)
			return
		}
		if key == "length" {
			if n, ok := val.(values.Number); ok {
				resizeArray(vv, int(n))
			}
			return
		}
		vv.SetProp(key, val)
	case *values.Function:
		if key == "prototype" || key == "name" {
			return // non-configurable on the surface this core models
		}
		if vv.StaticProps == nil {
			vv.StaticProps = values.NewObject(nil)
		}
		if setter := vv.StaticProps.Setter(key); setter != nil {
			e.Invoke(setter, vv.StaticProps, []values.Value{val}, ctx)
			return
		}
		vv.StaticProps.DefineOwn(key, val)
	default:
		if values.IsNullish(v) {
			e.ThrowTypeError(ctx, "Cannot set properties of "+v.String()+" (setting '"+key+"')")
		}
		// Primitive wrapper assignment is otherwise a silent no-op, as in
		// sloppy-mode JS writing a property onto a string/number.
	}
}

func resizeArray(a *values.Array, newLen int) {
	if newLen < 0 {
		newLen = 0
	}
	if newLen <= len(a.Elems) {
		a.Elems = a.Elems[:newLen]
		return
	}
	grown := make([]values.Value, newLen)
	copy(grown, a.Elems)
	for i := len(a.Elems); i < newLen; i++ {
		grown[i] = values.Undefined
	}
	a.Elems = grown
}
