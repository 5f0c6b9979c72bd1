package evaluator

import (
	"github.com/asynkron/jsengine-go/internal/env"
	"github.com/asynkron/jsengine-go/internal/errors"
	"github.com/asynkron/jsengine-go/internal/ir"
	"github.com/asynkron/jsengine-go/internal/values"
)

// evalClass implements the Class Builder (C12, §4.9): resolve the
// superclass, build the prototype chain, install methods/accessors/fields
// from the class body, and bind the constructor by name when the class is
// used in declaration position (mirroring evalFunctionDeclStatement, since
// `class` only ever reaches this single converging dispatch table — there
// is no separate class-statement handler, see evaluator.go's Eval).
//
// Cell shape: (class name [extends superExpr] member...), each member one
// of method/getter/setter/private-field/public-field/static-method/
// static-getter/static-setter/static-field. Method and accessor members are
// shaped (tag key params body), so the member cell itself is read as the
// function cell with the key in the name slot; field members are shaped
// (tag key init).
func evalClass(e *Evaluator, c *ir.Cell, ctx *ExecutionContext) values.Value {
	operands := c.Operands()
	if len(operands) == 0 {
		e.throwSyntax(ctx, (&errors.MalformedIRError{Tag: "class", Detail: "missing name operand"}).Error(), c)
		return values.Undefined
	}
	name := leafString(operands[0])
	idx := 1

	var superCtor *values.Function
	if idx < len(operands) && operands[idx].Tag() == ir.TagExtends {
		superExpr := operands[idx].Nth(0)
		idx++
		superVal := e.Eval(superExpr, ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}
		sc, ok := superVal.(*values.Function)
		if !ok {
			e.ThrowTypeError(ctx, "Class extends value "+superVal.String()+" is not a constructor")
			return values.Undefined
		}
		superCtor = sc
	}
	members := operands[idx:]

	protoParent := e.Prototypes.Object
	if superCtor != nil {
		protoParent = superCtor.Proto
	}
	proto := values.NewObject(protoParent)
	proto.Class = name

	var superStatic *values.Object
	if superCtor != nil {
		superStatic = superCtor.StaticProps
	}
	staticProps := values.NewObject(superStatic)

	var ctor *values.Function
	var fields []values.FieldInit
	type staticFieldInit struct {
		key  string
		init *ir.Cell
	}
	var staticFields []staticFieldInit

	for _, m := range members {
		tag := m.Tag()
		switch tag {
		case ir.TagMethod, ir.TagGetter, ir.TagSetter, ir.TagPrivateField, ir.TagPublicField,
			ir.TagStaticMethod, ir.TagStaticGetter, ir.TagStaticSetter, ir.TagStaticField:
			// handled below
		default:
			e.throwSyntax(ctx, (&errors.MalformedIRError{Tag: "class", Detail: "unexpected class-body member"}).Error(), m)
			return values.Undefined
		}
		key := computedOrLiteralKey(e, m.Nth(0), ctx)
		if ctx.Signal.IsActive() {
			return values.Undefined
		}

		switch tag {
		case ir.TagMethod:
			if key == "constructor" {
				ctor = buildFunctionValue(e, m, ctx, false)
				ctor.Name = name
				ctor.IsClassCtor = true
				continue
			}
			fn := buildFunctionValue(e, m, ctx, false)
			fn.Name = key
			fn.HomeObject = proto
			proto.DefineOwn(key, fn)
		case ir.TagGetter:
			fn := buildFunctionValue(e, m, ctx, false)
			fn.HomeObject = proto
			proto.DefineAccessor(key, fn, nil)
		case ir.TagSetter:
			fn := buildFunctionValue(e, m, ctx, false)
			fn.HomeObject = proto
			proto.DefineAccessor(key, nil, fn)
		case ir.TagPublicField, ir.TagPrivateField:
			fields = append(fields, values.FieldInit{Key: key, Init: m.Nth(1)})
		case ir.TagStaticMethod:
			fn := buildFunctionValue(e, m, ctx, false)
			fn.Name = key
			fn.HomeObject = staticProps
			staticProps.DefineOwn(key, fn)
		case ir.TagStaticGetter:
			fn := buildFunctionValue(e, m, ctx, false)
			fn.HomeObject = staticProps
			staticProps.DefineAccessor(key, fn, nil)
		case ir.TagStaticSetter:
			fn := buildFunctionValue(e, m, ctx, false)
			fn.HomeObject = staticProps
			staticProps.DefineAccessor(key, nil, fn)
		case ir.TagStaticField:
			staticFields = append(staticFields, staticFieldInit{key: key, init: m.Nth(1)})
		}
	}

	if ctor == nil {
		ctor = &values.Function{Name: name, IsClassCtor: true, IsDefaultCtor: true}
	}
	ctor.Closure = ctx.Env
	ctor.Proto = proto
	ctor.HomeObject = proto
	ctor.SuperCtor = superCtor
	ctor.StaticProps = staticProps
	ctor.Fields = fields
	proto.DefineOwn("constructor", ctor)

	if name != "" {
		sym := internSymbolName(name)
		ctx.Env.InitializeBinding(sym, ctor)
	}

	// Static fields run once, immediately, with `this` bound to the
	// constructor itself (§4.9 item 3's static-member installation step).
	staticCtx := ctx.WithThis(ctor, nil)
	for _, sf := range staticFields {
		var v values.Value = values.Undefined
		if sf.init != nil {
			v = e.Eval(sf.init, staticCtx)
			if staticCtx.Signal.IsActive() {
				propagateThrowOnly(ctx, staticCtx)
				return values.Undefined
			}
		}
		staticProps.DefineOwn(sf.key, v)
	}

	return ctor
}

// initInstanceFields walks the super chain depth-first (base class first)
// and runs each class's public/private field initializers against
// instance with `this` bound to it (§4.9 item 5), called once from evalNew
// before the constructor body (if any) runs.
func (e *Evaluator) initInstanceFields(fn *values.Function, instance *values.Object, ctx *ExecutionContext) {
	if fn.SuperCtor != nil {
		e.initInstanceFields(fn.SuperCtor, instance, ctx)
		if ctx.Signal.IsActive() {
			return
		}
	}
	if len(fn.Fields) == 0 {
		return
	}
	closureEnv, _ := fn.Closure.(*env.Environment)
	fieldEnv := env.NewEnclosed(closureEnv, true)
	fieldCtx := ctx.WithEnv(fieldEnv).WithFreshSignal()
	fieldCtx.This = instance
	if fn.HomeObject != nil {
		fieldCtx.Super = &values.SuperBinding{SuperPrototype: fn.HomeObject.Proto, ThisValue: instance}
	}
	for _, f := range fn.Fields {
		var v values.Value = values.Undefined
		if f.Init != nil {
			v = e.Eval(f.Init, fieldCtx)
			if fieldCtx.Signal.IsActive() {
				propagateThrowOnly(ctx, fieldCtx)
				return
			}
		}
		instance.DefineOwn(f.Key, v)
	}
}
