package evaluator

import (
	"github.com/asynkron/jsengine-go/internal/coerce"
	"github.com/asynkron/jsengine-go/internal/ir"
	"github.com/asynkron/jsengine-go/internal/values"
)

// boolCoerce/strictEq/looseEq are thin local names for the coerce package's
// exported equivalents, kept short since statement/expression dispatch
// calls them constantly.
func boolCoerce(v values.Value) bool { return coerce.ToBoolean(v) }
func strictEq(a, b values.Value) bool { return coerce.StrictEquals(a, b) }

func looseEq(e *Evaluator, ctx *ExecutionContext, a, b values.Value) bool {
	ok, err := coerce.LooseEquals(a, b, invokerFor(e, ctx))
	if err != nil {
		propagateCoerceError(e, ctx, err)
		return false
	}
	return ok
}

// internSymbolName interns name as an ir.Symbol, used whenever the
// evaluator needs to turn a leaf string payload (an identifier name
// carried by an IR cell) into the Symbol key the environment indexes
// bindings by.
func internSymbolName(name string) *ir.Symbol {
	return ir.Intern(name)
}

// propagateCoerceError turns a Go error surfaced by package coerce (a
// MixedBigIntError, or an error from ToPrimitive's invoker callback) into
// a thrown TypeError, keeping the evaluator's own Eval/ExecutionContext
// signature free of Go error returns.
func propagateCoerceError(e *Evaluator, ctx *ExecutionContext, err error) {
	e.ThrowTypeError(ctx, err.Error())
}
