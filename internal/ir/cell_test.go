package ir_test

import (
	"testing"

	"github.com/asynkron/jsengine-go/internal/ir"
)

func TestInternReturnsIdenticalPointerForSameName(t *testing.T) {
	a := ir.Intern("x")
	b := ir.Intern("x")
	if a != b {
		t.Fatalf("Intern must return the same *Symbol for repeated names")
	}
	if ir.Intern("x") == ir.Intern("y") {
		t.Fatalf("distinct names must intern to distinct symbols")
	}
}

func TestNewJsSymbolIsAlwaysUnique(t *testing.T) {
	a := ir.NewJsSymbol("Symbol.iterator")
	b := ir.NewJsSymbol("Symbol.iterator")
	if a == b {
		t.Fatalf("two JsSymbols with the same description must still be distinct identities")
	}
}

func TestCellNthAndOperands(t *testing.T) {
	tag := ir.Intern("binary")
	cell := ir.List(tag, ir.List(ir.Intern("number"), 2.0), "+", ir.List(ir.Intern("number"), 3.0))

	if cell.Tag() != tag {
		t.Fatalf("Tag() should return the interned head symbol")
	}
	if got := cell.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3 operands", got)
	}
	ops := cell.Operands()
	if len(ops) != 3 {
		t.Fatalf("Operands() returned %d elements, want 3", len(ops))
	}
	if ops[1].Leaf() != "+" {
		t.Fatalf("second operand leaf = %#v, want \"+\"", ops[1].Leaf())
	}
}

func TestCellNthOutOfRangeIsNil(t *testing.T) {
	cell := ir.List(ir.Intern("unary"), "x")
	if got := cell.Nth(5); got != nil {
		t.Fatalf("Nth() past the end should be nil, got %#v", got)
	}
}

func TestParseProgramRoundTripsThroughJSON(t *testing.T) {
	program, err := ir.ParseProgram(`(expr-stmt (binary (number 1) "+" (number 2)))`)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if len(program) != 1 {
		t.Fatalf("got %d top-level statements, want 1", len(program))
	}
	encoded, err := ir.EncodeProgram(program)
	if err != nil {
		t.Fatalf("EncodeProgram: %v", err)
	}
	decoded, err := ir.DecodeProgram(encoded)
	if err != nil {
		t.Fatalf("DecodeProgram: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Tag().String() != "expr-stmt" {
		t.Fatalf("round trip produced an unexpected tree: %#v", decoded)
	}
}

func TestParseProgramRejectsUnbalancedParens(t *testing.T) {
	if _, err := ir.ParseProgram(`(expr-stmt (binary (number 1)`); err == nil {
		t.Fatalf("expected a parse error for an unbalanced s-expression")
	}
}
