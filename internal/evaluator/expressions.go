package evaluator

import (
	"math/big"

	"github.com/asynkron/jsengine-go/internal/coerce"
	"github.com/asynkron/jsengine-go/internal/errors"
	"github.com/asynkron/jsengine-go/internal/ir"
	"github.com/asynkron/jsengine-go/internal/values"
)

func init() {
	registerDispatch(map[*ir.Symbol]handlerFunc{
		ir.TagString:           evalStringLiteral,
		ir.TagNumber:           evalNumberLiteral,
		ir.TagBoolean:          evalBooleanLiteral,
		ir.TagNull:             evalNullLiteral,
		ir.TagUndefined:        evalUndefinedLiteral,
		ir.TagSymbol:           evalIdentifier,
		ir.TagThis:             evalThis,
		ir.TagAssign:           evalAssign,
		ir.TagCall:             evalCall,
		ir.TagOptionalCall:     evalCall,
		ir.TagNew:              evalNew,
		ir.TagNegate:           evalUnary,
		ir.TagUnaryPlus:        evalUnary,
		ir.TagNot:              evalUnary,
		ir.TagTypeof:           evalTypeof,
		ir.TagVoid:             evalVoid,
		ir.TagDelete:           evalDelete,
		ir.TagBinary:           evalBinary,
		ir.TagUpdate:           evalUpdate,
		ir.TagObject:           evalObjectLiteral,
		ir.TagArray:            evalArrayLiteral,
		ir.TagGetProp:          evalGetProp,
		ir.TagOptionalGetProp:  evalGetProp,
		ir.TagSetProp:          evalSetProp,
		ir.TagGetIndex:         evalGetIndex,
		ir.TagOptionalGetIdx:   evalGetIndex,
		ir.TagSetIndex:         evalSetIndex,
		ir.TagTernary:          evalTernary,
		ir.TagTemplate:         evalTemplate,
		ir.TagTaggedTemplate:   evalTaggedTemplate,
		ir.TagLambda:           evalLambda,
		ir.TagClass:            evalClass,
		ir.TagYield:            evalYield,
		ir.TagYieldStar:        evalYieldStar,
		ir.TagSuper:            evalSuperExpr,
	})
}

func evalStringLiteral(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	s, _ := c.Nth(0).Leaf().(string)
	return values.JSString(s)
}

func evalNumberLiteral(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	switch n := c.Nth(0).Leaf().(type) {
	case float64:
		return values.Number(n)
	case int:
		return values.Number(float64(n))
	default:
		return values.Number(0)
	}
}

func evalBooleanLiteral(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	b, _ := c.Nth(0).Leaf().(bool)
	return values.Boolean(b)
}

func evalNullLiteral(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	return values.Null
}

func evalUndefinedLiteral(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	return values.Undefined
}

// evalIdentifier resolves an identifier reference, raising ReferenceError
// for both "never declared" and TDZ cases, distinguished by
// env.BindingError.Kind (§4.2).
func evalIdentifier(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	name := leafString(c.Nth(0))
	sym := internSymbolName(name)
	v, err := ctx.Env.Get(sym)
	if err != nil {
		raiseBindingError(e, ctx, err)
		return values.Undefined
	}
	return v
}

func evalThis(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	if ctx.This == nil {
		return values.Undefined
	}
	return ctx.This
}

func evalSuperExpr(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	// A bare `super` only ever appears as the callee of a super(...) call
	// or the object half of super.prop; both are special-cased in
	// evalCall/evalGetProp before recursing here, so reaching this handler
	// directly means `super` was referenced outside a class method.
	if ctx.Super == nil {
		e.throwSuperError(ctx, "outside a derived class constructor or method")
		return values.Undefined
	}
	return ctx.Super.ThisValue
}

func (e *Evaluator) throwSuperError(ctx *ExecutionContext, context string) {
	e.ThrowTypeError(ctx, (&errors.SuperBindingError{Context: context}).Error())
}

// evalAssign implements `=` and the compound assignment operators
// (§4.6). op is carried as the leaf string at operand 1; "=" means a plain
// assignment whose target may itself be a destructuring pattern.
func evalAssign(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	target := c.Nth(0)
	op := leafString(c.Nth(1))
	rhs := c.Nth(2)

	rv := e.Eval(rhs, ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}

	if op != "=" {
		cur := e.Eval(target, ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		combined, err := applyCompoundOp(op, cur, rv, invokerFor(e, ctx))
		if err != nil {
			propagateCoerceError(e, ctx, err)
			return values.Undefined
		}
		rv = combined
	}
	assignToTarget(e, target, rv, ctx)
	return rv
}

func applyCompoundOp(op string, a, b values.Value, inv coerce.Invoker) (values.Value, error) {
	base := op[:len(op)-1] // strip trailing '='
	switch base {
	case "+":
		return coerce.Add(a, b, inv)
	case "-":
		return coerce.Sub(a, b)
	case "*":
		return coerce.Mul(a, b)
	case "/":
		return coerce.Div(a, b)
	case "%":
		return coerce.Mod(a, b)
	case "**":
		return coerce.Pow(a, b)
	case "&", "|", "^", "<<", ">>", ">>>":
		return coerce.BitwiseOp(base, a, b), nil
	case "&&":
		if !coerce.ToBoolean(a) {
			return a, nil
		}
		return b, nil
	case "||":
		if coerce.ToBoolean(a) {
			return a, nil
		}
		return b, nil
	case "??":
		if !values.IsNullish(a) {
			return a, nil
		}
		return b, nil
	default:
		return b, nil
	}
}

// evalCall implements function/method invocation (§4.4/§4.6), including
// `super(...)` constructor-chaining calls and spread-argument expansion.
func evalCall(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	callee := c.Nth(0)
	argList := c.Nth(1)

	if callee.Tag() == ir.TagSuper {
		return evalSuperCall(e, argList, ctx)
	}

	var thisVal values.Value = values.Undefined
	var fnVal values.Value
	if callee.Tag() == ir.TagGetProp || callee.Tag() == ir.TagOptionalGetProp {
		obj := e.Eval(callee.Nth(0), ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		if callee.Tag() == ir.TagOptionalGetProp && values.IsNullish(obj) {
			return values.Undefined
		}
		key := leafString(callee.Nth(1))
		if obj2, isSuperObj := specialSuperMember(callee, ctx); isSuperObj {
			thisVal = ctx.This
			fnVal = getPropertyByKeyOn(e, obj2, ctx.This, key, ctx)
		} else {
			thisVal = obj
			fnVal = getPropertyByKey(e, obj, key, ctx)
		}
	} else if callee.Tag() == ir.TagGetIndex {
		obj := e.Eval(callee.Nth(0), ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		idx := e.Eval(callee.Nth(1), ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		thisVal = obj
		fnVal = getPropertyByKey(e, obj, propertyKeyOf(idx), ctx)
	} else {
		fnVal = e.Eval(callee, ctx)
	}
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	if c.Tag() == ir.TagOptionalCall && values.IsNullish(fnVal) {
		return values.Undefined
	}

	args, err := evalArgList(e, argList, ctx)
	if err != nil || ctx.Signal.IsActive() {
		return values.Undefined
	}
	if !isCallable(fnVal) {
		e.ThrowTypeError(ctx, "value is not a function")
		return values.Undefined
	}
	return e.Invoke(fnVal, thisVal, args, ctx)
}

// specialSuperMember reports whether callee's object half is a bare
// `super`, in which case the method must run with the *current* `this`
// rather than the superclass prototype as receiver (§4.4 super binding).
func specialSuperMember(callee *ir.Cell, ctx *ExecutionContext) (values.Value, bool) {
	if callee.Nth(0).Tag() == ir.TagSuper {
		if ctx.Super != nil {
			return ctx.Super.SuperPrototype, true
		}
		return values.Undefined, true
	}
	return nil, false
}

func evalSuperCall(e *Evaluator, argList *ir.Cell, ctx *ExecutionContext) values.Value {
	if ctx.Super == nil || ctx.Super.SuperConstructor == nil {
		e.throwSuperError(ctx, "no superclass constructor")
		return values.Undefined
	}
	args, err := evalArgList(e, argList, ctx)
	if err != nil || ctx.Signal.IsActive() {
		return values.Undefined
	}
	return e.Invoke(ctx.Super.SuperConstructor, ctx.This, args, ctx)
}

func evalArgList(e *Evaluator, argList *ir.Cell, ctx *ExecutionContext) ([]values.Value, error) {
	var args []values.Value
	for _, a := range argList.Operands() {
		if a.Tag() == ir.TagSpread {
			spread := e.Eval(a.Nth(0), ctx)
			if ctx.Signal.IsActive() {
				return nil, nil
			}
			items, ok := iterate(spread)
			if !ok {
				e.ThrowTypeError(ctx, values.TypeName(spread)+" is not iterable")
				return nil, nil
			}
			args = append(args, items...)
			continue
		}
		v := e.Eval(a, ctx)
		if ctx.Signal.IsActive() {
			return nil, nil
		}
		args = append(args, v)
	}
	return args, nil
}

// evalNew implements `new Ctor(...)` (§4.6/§4.9): allocate a fresh object
// linked to Ctor.prototype, invoke Ctor with it as `this`, and use the
// constructor's explicit return value only if it is itself an object.
func evalNew(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	calleeVal := e.Eval(c.Nth(0), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	fn, ok := calleeVal.(*values.Function)
	if !ok {
		e.ThrowTypeError(ctx, values.TypeName(calleeVal)+" is not a constructor")
		return values.Undefined
	}
	args, err := evalArgList(e, c.Nth(1), ctx)
	if err != nil || ctx.Signal.IsActive() {
		return values.Undefined
	}
	proto := fn.Proto
	if proto == nil {
		proto = e.Prototypes.Object
	}
	instance := values.NewObject(proto)
	instance.Class = fn.Name
	e.initInstanceFields(fn, instance, ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	result := e.invokeUserFunction(fn, instance, args, ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	if obj, ok := result.(*values.Object); ok {
		return obj
	}
	return instance
}

func evalUnary(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	v := e.Eval(c.Nth(0), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	switch c.Tag() {
	case ir.TagNegate:
		return coerce.Negate(v)
	case ir.TagUnaryPlus:
		n, err := coerce.ToNumber(v)
		if err != nil {
			propagateCoerceError(e, ctx, err)
			return values.Undefined
		}
		return values.Number(n)
	case ir.TagNot:
		return values.Boolean(!coerce.ToBoolean(v))
	}
	return values.Undefined
}

// evalTypeof special-cases an unbound identifier operand to "undefined"
// rather than raising ReferenceError (§4.6 edge case: "typeof on an
// unbound identifier yields 'undefined', the one place reading an
// undeclared name doesn't throw").
func evalTypeof(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	operand := c.Nth(0)
	if operand.Tag() == ir.TagSymbol {
		name := leafString(operand.Nth(0))
		sym := internSymbolName(name)
		if !ctx.Env.Has(sym) {
			return values.JSString("undefined")
		}
	}
	v := e.Eval(operand, ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	return values.JSString(values.TypeName(v))
}

func evalVoid(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	e.Eval(c.Nth(0), ctx)
	return values.Undefined
}

// evalDelete implements `delete`: true for a successfully removed own
// property, true (but a no-op) for any non-member-expression operand —
// §4.6 edge case: "delete on anything but a member expression is a no-op
// that still evaluates to true".
func evalDelete(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	operand := c.Nth(0)
	switch operand.Tag() {
	case ir.TagGetProp, ir.TagOptionalGetProp:
		obj := e.Eval(operand.Nth(0), ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		key := leafString(operand.Nth(1))
		return values.Boolean(deleteProp(obj, key))
	case ir.TagGetIndex:
		obj := e.Eval(operand.Nth(0), ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		idx := e.Eval(operand.Nth(1), ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		return values.Boolean(deleteProp(obj, propertyKeyOf(idx)))
	default:
		e.Eval(operand, ctx)
		return values.Boolean(true)
	}
}

func deleteProp(obj values.Value, key string) bool {
	switch o := obj.(type) {
	case *values.Object:
		return o.DeleteOwn(key)
	case *values.Array:
		if idx, ok := indexOf(key); ok && idx >= 0 && idx < o.Length() {
			o.Elems[idx] = values.Undefined
			return true
		}
	}
	return false
}

// evalBinary dispatches every arithmetic/comparison/bitwise/logical
// operator through the shared "binary" node, with the operator carried as
// a leaf string at operand 1. Logical operators (&&, ||, ??) short-circuit
// and must not evaluate their right operand unconditionally (§4.6).
func evalBinary(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	op := leafString(c.Nth(1))
	left := e.Eval(c.Nth(0), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}

	switch op {
	case "&&":
		if !coerce.ToBoolean(left) {
			return left
		}
		return e.Eval(c.Nth(2), ctx)
	case "||":
		if coerce.ToBoolean(left) {
			return left
		}
		return e.Eval(c.Nth(2), ctx)
	case "??":
		if !values.IsNullish(left) {
			return left
		}
		return e.Eval(c.Nth(2), ctx)
	}

	right := e.Eval(c.Nth(2), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}

	inv := invokerFor(e, ctx)
	switch op {
	case "+":
		v, err := coerce.Add(left, right, inv)
		if err != nil {
			propagateCoerceError(e, ctx, err)
			return values.Undefined
		}
		return v
	case "-":
		v, err := coerce.Sub(left, right)
		return mustArith(e, ctx, v, err)
	case "*":
		v, err := coerce.Mul(left, right)
		return mustArith(e, ctx, v, err)
	case "/":
		v, err := coerce.Div(left, right)
		return mustArith(e, ctx, v, err)
	case "%":
		v, err := coerce.Mod(left, right)
		return mustArith(e, ctx, v, err)
	case "**":
		v, err := coerce.Pow(left, right)
		return mustArith(e, ctx, v, err)
	case "&", "|", "^", "<<", ">>", ">>>":
		return coerce.BitwiseOp(op, left, right)
	case "==":
		return values.Boolean(looseEq(e, ctx, left, right))
	case "!=":
		return values.Boolean(!looseEq(e, ctx, left, right))
	case "===":
		return values.Boolean(coerce.StrictEquals(left, right))
	case "!==":
		return values.Boolean(!coerce.StrictEquals(left, right))
	case "<", ">", "<=", ">=":
		cmp, ok, err := coerce.Compare(left, right, inv)
		if err != nil {
			propagateCoerceError(e, ctx, err)
			return values.Undefined
		}
		if !ok {
			return values.Boolean(false)
		}
		return values.Boolean(compareMatches(op, cmp))
	case "instanceof":
		return values.Boolean(instanceOf(left, right))
	case "in":
		return values.Boolean(inOperator(left, right))
	case ",":
		return right
	default:
		return values.Undefined
	}
}

func mustArith(e *Evaluator, ctx *ExecutionContext, v values.Value, err error) values.Value {
	if err != nil {
		propagateCoerceError(e, ctx, err)
		return values.Undefined
	}
	return v
}

func compareMatches(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	case ">=":
		return cmp >= 0
	}
	return false
}

func instanceOf(v, ctor values.Value) bool {
	fn, ok := ctor.(*values.Function)
	if !ok || fn.Proto == nil {
		return false
	}
	obj, ok := v.(*values.Object)
	if !ok {
		return false
	}
	cur := obj.Proto
	for cur != nil {
		if cur == fn.Proto {
			return true
		}
		cur = cur.Proto
	}
	return false
}

func inOperator(key, obj values.Value) bool {
	k := propertyKeyOf(key)
	switch o := obj.(type) {
	case *values.Object:
		_, _, ok := o.LookupProperty(k)
		return ok
	case *values.Array:
		if idx, ok := indexOf(k); ok {
			return idx >= 0 && idx < o.Length()
		}
		_, ok := o.GetProp(k)
		return ok
	}
	return false
}

// evalUpdate implements prefix/postfix ++/-- (§4.6). Operand 1 is the leaf
// operator string ("++" or "--"); operand 2 is a leaf bool, true for
// prefix form.
func evalUpdate(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	target := c.Nth(0)
	op := leafString(c.Nth(1))
	isPrefix, _ := c.Nth(2).Leaf().(bool)

	old := e.Eval(target, ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	// ++/-- on a BigInt operand stays BigInt rather than routing through
	// ToNumber's BigInt-mixing error (§4.7: BigInt arithmetic stays BigInt).
	if bi, ok := old.(*values.BigInt); ok {
		delta := big.NewInt(1)
		var newBig *big.Int
		if op == "++" {
			newBig = new(big.Int).Add(bi.V, delta)
		} else {
			newBig = new(big.Int).Sub(bi.V, delta)
		}
		newVal := values.NewBigInt(newBig)
		assignToTarget(e, target, newVal, ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		if isPrefix {
			return newVal
		}
		return bi
	}
	oldNum, err := coerce.ToNumber(old)
	if err != nil {
		propagateCoerceError(e, ctx, err)
		return values.Undefined
	}
	var newNum values.Number
	if op == "++" {
		newNum = oldNum + 1
	} else {
		newNum = oldNum - 1
	}
	assignToTarget(e, target, newNum, ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	if isPrefix {
		return newNum
	}
	return oldNum
}

func evalObjectLiteral(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	obj := values.NewObject(e.Prototypes.Object)
	for _, prop := range c.Operands() {
		switch prop.Tag() {
		case ir.TagProp:
			key := computedOrLiteralKey(e, prop.Nth(0), ctx)
			if ctx.Signal.IsActive() {
				return values.Undefined
			}
			v := e.Eval(prop.Nth(1), ctx)
			if ctx.Signal.IsActive() {
				return values.Undefined
			}
			obj.DefineOwn(key, v)
		case ir.TagMethod:
			key := computedOrLiteralKey(e, prop.Nth(0), ctx)
			fn := buildFunctionValue(e, prop.Nth(1), ctx, false)
			fn.HomeObject = obj
			obj.DefineOwn(key, fn)
		case ir.TagGetter:
			key := computedOrLiteralKey(e, prop.Nth(0), ctx)
			fn := buildFunctionValue(e, prop.Nth(1), ctx, false)
			fn.HomeObject = obj
			obj.DefineAccessor(key, fn, nil)
		case ir.TagSetter:
			key := computedOrLiteralKey(e, prop.Nth(0), ctx)
			fn := buildFunctionValue(e, prop.Nth(1), ctx, false)
			fn.HomeObject = obj
			obj.DefineAccessor(key, nil, fn)
		case ir.TagSpread:
			src := e.Eval(prop.Nth(0), ctx)
			if ctx.Signal.IsActive() {
				return values.Undefined
			}
			for _, k := range enumerableOwnKeysOf(src) {
				obj.DefineOwn(k, getPropertyByKey(e, src, k, ctx))
			}
		}
	}
	return obj
}

func computedOrLiteralKey(e *Evaluator, keyCell *ir.Cell, ctx *ExecutionContext) string {
	if s, ok := keyCell.Leaf().(string); ok && keyCell.Tag() == nil {
		return s
	}
	v := e.Eval(keyCell, ctx)
	if ctx.Signal.IsActive() {
		return ""
	}
	return propertyKeyOf(v)
}

func evalArrayLiteral(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	arr := values.NewArray(e.Prototypes.Array)
	for _, el := range c.Operands() {
		if el.Tag() == ir.TagSpread {
			src := e.Eval(el.Nth(0), ctx)
			if ctx.Signal.IsActive() {
				return values.Undefined
			}
			items, ok := iterate(src)
			if !ok {
				e.ThrowTypeError(ctx, values.TypeName(src)+" is not iterable")
				return values.Undefined
			}
			arr.Elems = append(arr.Elems, items...)
			continue
		}
		v := e.Eval(el, ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		arr.Elems = append(arr.Elems, v)
	}
	return arr
}

func evalGetProp(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	objCell := c.Nth(0)
	key := leafString(c.Nth(1))
	if objCell.Tag() == ir.TagSuper {
		if ctx.Super == nil {
			e.throwSuperError(ctx, "property access")
			return values.Undefined
		}
		return getPropertyByKeyOn(e, ctx.Super.SuperPrototype, ctx.Super.ThisValue, key, ctx)
	}
	obj := e.Eval(objCell, ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	if c.Tag() == ir.TagOptionalGetProp && values.IsNullish(obj) {
		return values.Undefined
	}
	return getPropertyByKey(e, obj, key, ctx)
}

func evalSetProp(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	obj := e.Eval(c.Nth(0), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	key := leafString(c.Nth(1))
	v := e.Eval(c.Nth(2), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	setPropertyByKey(e, obj, key, v, ctx)
	return v
}

func evalGetIndex(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	obj := e.Eval(c.Nth(0), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	if c.Tag() == ir.TagOptionalGetIdx && values.IsNullish(obj) {
		return values.Undefined
	}
	idx := e.Eval(c.Nth(1), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	return getPropertyByKey(e, obj, propertyKeyOf(idx), ctx)
}

func evalSetIndex(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	obj := e.Eval(c.Nth(0), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	idx := e.Eval(c.Nth(1), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	v := e.Eval(c.Nth(2), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	setPropertyByKey(e, obj, propertyKeyOf(idx), v, ctx)
	return v
}

func evalTernary(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	cond := e.Eval(c.Nth(0), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	if coerce.ToBoolean(cond) {
		return e.Eval(c.Nth(1), ctx)
	}
	return e.Eval(c.Nth(2), ctx)
}

// evalTemplate splices already-evaluated expression operands between the
// literal string chunks (§4.6). Operand 0 is a cell whose own operands are
// the literal chunks (leaf strings), operand 1 the substitution
// expressions, interleaved chunk,expr,chunk,expr,...,chunk.
func evalTemplate(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	chunks := c.Nth(0).Operands()
	exprs := c.Nth(1).Operands()
	out := ""
	for i, chunk := range chunks {
		s, _ := chunk.Leaf().(string)
		out += s
		if i < len(exprs) {
			v := e.Eval(exprs[i], ctx)
			if ctx.Signal.IsActive() {
				return values.Undefined
			}
			prim, err := coerce.ToPrimitive(v, coerce.HintString, invokerFor(e, ctx))
			if err != nil {
				propagateCoerceError(e, ctx, err)
				return values.Undefined
			}
			out += string(coerce.ToStringValue(prim))
		}
	}
	return values.JSString(out)
}

// evalTaggedTemplate implements tag`...` by calling tag with (strings,
// ...substitutions), where strings is an array carrying a `.raw` property
// (approximated here as equal to the cooked chunks, since the IR this core
// consumes is assumed pre-cooked by its producer, an external collaborator
// per §1 Non-goals).
func evalTaggedTemplate(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	tagVal := e.Eval(c.Nth(0), ctx)
	if ctx.Signal.IsActive() {
		return values.Undefined
	}
	chunks := c.Nth(1).Operands()
	exprs := c.Nth(2).Operands()

	strs := values.NewArray(e.Prototypes.Array)
	for _, chunk := range chunks {
		s, _ := chunk.Leaf().(string)
		strs.Elems = append(strs.Elems, values.JSString(s))
	}
	raw := values.NewArray(e.Prototypes.Array, append([]values.Value(nil), strs.Elems...)...)
	strs.SetProp("raw", raw)

	args := []values.Value{strs}
	for _, ex := range exprs {
		v := e.Eval(ex, ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		args = append(args, v)
	}
	if !isCallable(tagVal) {
		e.ThrowTypeError(ctx, "tag is not a function")
		return values.Undefined
	}
	return e.Invoke(tagVal, values.Undefined, args, ctx)
}

func evalLambda(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	return buildFunctionValue(e, c, ctx, true)
}
