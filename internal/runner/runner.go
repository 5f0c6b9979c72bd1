// Package runner wraps "load an IR program, evaluate it, report the result
// or the unhandled throw" into one call, grounded on the teacher's
// internal/interp/runner.New/NewWithOptions seam — the same wiring a CLI and
// a test both need to turn a program into a running Evaluator without
// duplicating prototype/global-scope/host-function setup.
package runner

import (
	"fmt"
	"io"

	"github.com/asynkron/jsengine-go/internal/evaluator"
	"github.com/asynkron/jsengine-go/internal/ir"
	"github.com/asynkron/jsengine-go/internal/values"
)

// Format selects how Run's src argument is decoded into IR cells.
type Format int

const (
	// FormatSExpr parses src as inline S-expression text (the CLI's `-e`
	// flag).
	FormatSExpr Format = iota
	// FormatJSON parses src as a JSON-encoded IR program (the CLI's
	// `.ir.json` file-load path).
	FormatJSON
)

// Result is the outcome of one Run call: either a final expression value
// (Thrown is nil) or an unhandled thrown value (Thrown is non-nil and Value
// is Undefined).
type Result struct {
	Value   values.Value
	Thrown  values.Value
	Program []*ir.Cell
}

// New builds an Evaluator with a fresh global Environment and the small set
// of host functions embedders of this core are expected to need for
// standalone running (`print`, `assert`), writing Println-style output to
// output (SPEC_FULL.md §10 — "the CLI is an embedder").
func New(output io.Writer) (*evaluator.Evaluator, *EvalEnv) {
	return NewWithConfig(output, nil)
}

// NewWithConfig is New with an explicit evaluator Config (nil uses
// evaluator.DefaultConfig()).
func NewWithConfig(output io.Writer, cfg *evaluator.Config) (*evaluator.Evaluator, *EvalEnv) {
	e := evaluator.NewEvaluator(cfg)
	ee := newEvalEnv(e, output)
	return e, ee
}

// Run parses src per format, evaluates it against a fresh global
// environment, and reports either the last statement's value or the
// unhandled thrown value — the single call both the CLI's `run` command and
// package-level tests drive the evaluator through.
func Run(src string, format Format, output io.Writer) (*Result, error) {
	e, ee := New(output)
	return RunEvaluator(e, ee, src, format)
}

// RunEvaluator is Run against an already-constructed Evaluator/EvalEnv pair,
// letting a caller (e.g. a REPL) reuse the same global scope across calls.
func RunEvaluator(e *evaluator.Evaluator, ee *EvalEnv, src string, format Format) (*Result, error) {
	program, err := Parse(src, format)
	if err != nil {
		return nil, err
	}
	return RunProgram(e, ee, program), nil
}

// RunProgram evaluates an already-parsed statement list — the half of
// RunEvaluator that takes IR directly, so a caller that already parsed once
// (e.g. to honor `--dump-ir`) never pays for a second parse.
func RunProgram(e *evaluator.Evaluator, ee *EvalEnv, program []*ir.Cell) *Result {
	ctx := evaluator.NewRootContext(ee.Global, e)
	value := e.EvalProgram(program, ctx)
	if ctx.Signal.IsThrow() {
		return &Result{Value: values.Undefined, Thrown: ctx.Signal.Value(), Program: program}
	}
	return &Result{Value: value, Program: program}
}

// Parse decodes src into a statement list per format, with no evaluation —
// the half of Run the CLI's `--dump-ir` flag needs on its own.
func Parse(src string, format Format) ([]*ir.Cell, error) {
	switch format {
	case FormatJSON:
		program, err := ir.DecodeProgram([]byte(src))
		if err != nil {
			return nil, fmt.Errorf("runner: %w", err)
		}
		return program, nil
	default:
		program, err := ir.ParseProgram(src)
		if err != nil {
			return nil, fmt.Errorf("runner: %w", err)
		}
		return program, nil
	}
}

// DumpIR renders a parsed program back to its JSON node form, the shape
// `run --dump-ir` prints regardless of the input format.
func DumpIR(program []*ir.Cell) (string, error) {
	b, err := ir.EncodeProgram(program)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReportThrow renders an unhandled thrown value the way a CLI or test
// failure message should: the exception's {name, message} shape when
// present, otherwise its raw String().
func ReportThrow(thrown values.Value) string {
	if obj, ok := thrown.(*values.Object); ok {
		name := "Error"
		if p, has := obj.GetOwn("name"); has && p.HasValue {
			name = p.Value.String()
		}
		message := ""
		if p, has := obj.GetOwn("message"); has && p.HasValue {
			message = p.Value.String()
		}
		if message != "" {
			return name + ": " + message
		}
		return name
	}
	return "Uncaught " + thrown.String()
}
