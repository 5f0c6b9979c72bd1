package evaluator

import (
	"github.com/asynkron/jsengine-go/internal/env"
	"github.com/asynkron/jsengine-go/internal/signal"
	"github.com/asynkron/jsengine-go/internal/values"
)

// ExecutionContext threads the mutable state a single evaluation needs
// through every Eval call: the current lexical scope, the shared
// control-flow signal slot, `this`/super binding, and (while inside a
// generator body re-run) the yield-tracking state §4.10 needs. Grounded on
// the teacher's evaluator.ExecutionContext (env + controlFlow + call
// stack + prop context), generalized with This/Super/Generator fields
// DWScript's context never carried because it has no prototype `this`
// binding or generator re-execution model.
type ExecutionContext struct {
	Env       *env.Environment
	Signal    *signal.Signal
	Eval      *Evaluator
	This      values.Value
	Super     *values.SuperBinding
	Generator *generatorRun // non-nil only while replaying a generator body
}

// NewRootContext builds the top-level execution context for a program.
func NewRootContext(e *env.Environment, ev *Evaluator) *ExecutionContext {
	return &ExecutionContext{
		Env:    e,
		Signal: &signal.Signal{},
		Eval:   ev,
		This:   values.Undefined,
	}
}

// WithEnv returns a shallow copy of ctx scoped to a new (usually enclosed)
// environment, sharing the same Signal pointer so a break/continue/return
// raised deep inside a nested block is still visible to the loop/function
// dispatcher several levels up.
func (ctx *ExecutionContext) WithEnv(e *env.Environment) *ExecutionContext {
	cp := *ctx
	cp.Env = e
	return &cp
}

// WithThis returns a copy of ctx with `this`/super rebound, used when
// entering a non-arrow function call or a method body.
func (ctx *ExecutionContext) WithThis(this values.Value, super *values.SuperBinding) *ExecutionContext {
	cp := *ctx
	cp.This = this
	cp.Super = super
	return &cp
}

// WithFreshSignal returns a copy of ctx with a brand-new Signal slot,
// isolating a nested function-body evaluation's Return from leaking into
// the caller's pending signal state.
func (ctx *ExecutionContext) WithFreshSignal() *ExecutionContext {
	cp := *ctx
	cp.Signal = &signal.Signal{}
	return &cp
}
