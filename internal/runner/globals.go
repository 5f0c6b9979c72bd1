package runner

import (
	"fmt"
	"io"
	"strings"

	"github.com/asynkron/jsengine-go/internal/coerce"
	"github.com/asynkron/jsengine-go/internal/env"
	"github.com/asynkron/jsengine-go/internal/evaluator"
	"github.com/asynkron/jsengine-go/internal/ir"
	"github.com/asynkron/jsengine-go/internal/values"
)

// EvalEnv bundles the global scope a standalone Run call evaluates against,
// plus the writer its host functions print to — the embedder surface §1
// says this core expects ("print", "assert"), grounded on the teacher's
// Interpreter wiring a PrintLn builtin straight to its output io.Writer.
type EvalEnv struct {
	Global *env.Environment
	Output io.Writer
}

func newEvalEnv(e *evaluator.Evaluator, output io.Writer) *EvalEnv {
	ee := &EvalEnv{Global: e.NewGlobalEnv(), Output: output}
	ee.registerPrint()
	ee.registerAssert()
	return ee
}

func (ee *EvalEnv) define(name string, fn *values.HostFunction) {
	ee.Global.InitializeBinding(ir.Intern(name), fn)
}

// registerPrint wires `print(...)`, joining each argument's ToStringValue
// with a single space and a trailing newline, matching console.log's
// no-format-string call shape.
func (ee *EvalEnv) registerPrint() {
	ee.define("print", &values.HostFunction{
		Name: "print",
		Impl: func(_ values.Value, args []values.Value) (values.Value, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = values.ToStringValue(a)
			}
			fmt.Fprintln(ee.Output, strings.Join(parts, " "))
			return values.Undefined, nil
		},
	})
}

// registerAssert wires `assert(cond, message?)`: a falsy cond returns a Go
// error, which Invoke turns into a thrown TypeError — the evaluator package
// owns exception construction, so the host function stays free of it.
func (ee *EvalEnv) registerAssert() {
	ee.define("assert", &values.HostFunction{
		Name: "assert",
		Impl: func(_ values.Value, args []values.Value) (values.Value, error) {
			var cond values.Value = values.Undefined
			if len(args) > 0 {
				cond = args[0]
			}
			if coerce.ToBoolean(cond) {
				return values.Undefined, nil
			}
			message := "assertion failed"
			if len(args) > 1 {
				message = values.ToStringValue(args[1])
			}
			return nil, fmt.Errorf("%s", message)
		},
	})
}
