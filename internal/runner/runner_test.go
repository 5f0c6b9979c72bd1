package runner_test

import (
	"strings"
	"testing"

	"github.com/asynkron/jsengine-go/internal/runner"
	"github.com/asynkron/jsengine-go/internal/values"
)

func TestRunEvaluatesInlineSExpr(t *testing.T) {
	res, err := runner.Run(`(expr-stmt (binary (number 2) "+" (number 3)))`, runner.FormatSExpr, &strings.Builder{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Thrown != nil {
		t.Fatalf("unexpected throw: %v", res.Thrown)
	}
	if n, ok := res.Value.(values.Number); !ok || n != 5 {
		t.Fatalf("got %#v, want 5", res.Value)
	}
}

func TestRunReportsUnhandledThrow(t *testing.T) {
	res, err := runner.Run(`(throw (string boom))`, runner.FormatSExpr, &strings.Builder{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Thrown == nil {
		t.Fatalf("expected an unhandled throw")
	}
	if got := runner.ReportThrow(res.Thrown); got != "Uncaught boom" {
		t.Fatalf("ReportThrow = %q, want \"Uncaught boom\"", got)
	}
}

func TestRunPrintHostFunctionWritesToOutput(t *testing.T) {
	var out strings.Builder
	_, err := runner.Run(`(expr-stmt (call (symbol print) ((string hello))))`, runner.FormatSExpr, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "hello\n" {
		t.Fatalf("got %q, want \"hello\\n\"", got)
	}
}

func TestRunAssertFailureThrowsTypeError(t *testing.T) {
	res, err := runner.Run(`(expr-stmt (call (symbol assert) ((boolean false) (string "nope"))))`, runner.FormatSExpr, &strings.Builder{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Thrown == nil {
		t.Fatalf("expected assert(false) to throw")
	}
}

func TestParseJSONFormat(t *testing.T) {
	program, err := runner.Parse(`(expr-stmt (number 1))`, runner.FormatSExpr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	encoded, err := runner.DumpIR(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := runner.Parse(encoded, runner.FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error parsing the dumped IR back: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("got %d statements, want 1", len(decoded))
	}
}
