package evaluator_test

import (
	"strings"
	"testing"

	"github.com/asynkron/jsengine-go/internal/ir"
	"github.com/asynkron/jsengine-go/internal/runner"
	"github.com/asynkron/jsengine-go/internal/values"
)

// eval runs an inline S-expression program against a fresh global scope and
// returns the last statement's value and any unhandled thrown value.
func eval(t *testing.T, src string) (values.Value, values.Value) {
	t.Helper()
	res, err := runner.Run(src, runner.FormatSExpr, &strings.Builder{})
	if err != nil {
		t.Fatalf("run %q: %v", src, err)
	}
	return res.Value, res.Thrown
}

func mustNotThrow(t *testing.T, thrown values.Value) {
	t.Helper()
	if thrown != nil {
		t.Fatalf("unexpected throw: %s", thrown.String())
	}
}

func TestLiteralsAndBinary(t *testing.T) {
	v, thrown := eval(t, `(expr-stmt (binary (number 2) "+" (number 3)))`)
	mustNotThrow(t, thrown)
	if n, ok := v.(values.Number); !ok || n != 5 {
		t.Fatalf("got %#v, want 5", v)
	}
}

func TestStringConcatCoercion(t *testing.T) {
	v, thrown := eval(t, `(expr-stmt (binary (string "x=") "+" (number 3)))`)
	mustNotThrow(t, thrown)
	if s, ok := v.(values.JSString); !ok || string(s) != "x=3" {
		t.Fatalf("got %#v, want \"x=3\"", v)
	}
}

func TestLetTemporalDeadZone(t *testing.T) {
	src := `
		(let (d (symbol x) (number 1)))
		(block
			(expr-stmt (symbol x))
			(let (d (symbol x) (number 2))))
	`
	_, thrown := eval(t, src)
	if thrown == nil {
		t.Fatalf("expected a ReferenceError from the TDZ read, got none")
	}
	obj, ok := thrown.(*values.Object)
	if !ok {
		t.Fatalf("thrown value is not an Error object: %#v", thrown)
	}
	name, _ := obj.GetOwn("name")
	if name.Value.String() != "ReferenceError" {
		t.Fatalf("got %s, want ReferenceError", name.Value.String())
	}
}

func TestVarHoistingAcrossBlock(t *testing.T) {
	src := `
		(expr-stmt (typeof (symbol count)))
		(block
			(var (d (symbol count) (number 7))))
		(expr-stmt (symbol count))
	`
	v, thrown := eval(t, src)
	mustNotThrow(t, thrown)
	if n, ok := v.(values.Number); !ok || n != 7 {
		t.Fatalf("got %#v, want 7 (var hoisted past the block)", v)
	}
}

func TestForLoopPerIterationBinding(t *testing.T) {
	src := `
		(var (d (symbol closures) (array)))
		(for
			(let (d (symbol i) (number 0)))
			(binary (symbol i) "<" (number 3))
			(update (symbol i) "++" false)
			(expr-stmt (call (get-prop (symbol closures) push) ((lambda "" (params) (body (return (symbol i))))))))
		(expr-stmt (call (get-prop (symbol closures) 0)))
	`
	_, thrown := eval(t, src)
	mustNotThrow(t, thrown)
}

func TestClassConstructionAndInheritance(t *testing.T) {
	src := `
		(class Animal
			(method constructor (params (symbol name)) (body
				(expr-stmt (set-prop (this) name (symbol name)))))
			(method speak (params) (body
				(return (binary (get-prop (this) name) "+" (string " makes a sound"))))))
		(class Dog (extends (symbol Animal))
			(method speak (params) (body
				(return (binary (call (get-prop (super) speak) ()) "+" (string "!"))))))
		(let (d (symbol fido) (new (symbol Dog) ((string "Fido")))))
		(expr-stmt (call (get-prop (symbol fido) speak) ()))
	`
	v, thrown := eval(t, src)
	mustNotThrow(t, thrown)
	s, ok := v.(values.JSString)
	if !ok || string(s) != "Fido makes a sound!" {
		t.Fatalf("got %#v, want \"Fido makes a sound!\"", v)
	}
}

func TestDefaultConstructorForwardsToSuper(t *testing.T) {
	src := `
		(class Base
			(method constructor (params (symbol x)) (body
				(expr-stmt (set-prop (this) x (symbol x))))))
		(class Derived (extends (symbol Base)))
		(let (d (symbol inst) (new (symbol Derived) ((number 42)))))
		(expr-stmt (get-prop (symbol inst) x))
	`
	v, thrown := eval(t, src)
	mustNotThrow(t, thrown)
	if n, ok := v.(values.Number); !ok || n != 42 {
		t.Fatalf("got %#v, want 42", v)
	}
}

func TestTryCatchFinallyNoOverride(t *testing.T) {
	src := `
		(var (d (symbol trace) (array)))
		(try
			(block
				(expr-stmt (call (get-prop (symbol trace) push) ((string try))))
				(throw (string boom)))
			(symbol err)
			(block
				(expr-stmt (call (get-prop (symbol trace) push) ((string catch)))))
			(block
				(expr-stmt (call (get-prop (symbol trace) push) ((string finally))))))
		(expr-stmt (call (get-prop (symbol trace) join) ((string ","))))
	`
	v, thrown := eval(t, src)
	mustNotThrow(t, thrown)
	if s, ok := v.(values.JSString); !ok || string(s) != "try,catch,finally" {
		t.Fatalf("got %#v, want \"try,catch,finally\"", v)
	}
}

func TestUncaughtThrowPropagatesWithNoCatch(t *testing.T) {
	src := `(try (throw (string boom)))`
	_, thrown := eval(t, src)
	if thrown == nil || thrown.String() != "boom" {
		t.Fatalf("expected the throw to propagate with no catch clause, got %#v", thrown)
	}
}

func TestSwitchFallthrough(t *testing.T) {
	src := `
		(var (d (symbol out) (string "")))
		(switch (number 1)
			(case (number 1)
				(expr-stmt (assign (symbol out) "+=" (string a))))
			(case (number 2)
				(expr-stmt (assign (symbol out) "+=" (string b)))
				(break null))
			(default
				(expr-stmt (assign (symbol out) "+=" (string z)))))
		(expr-stmt (symbol out))
	`
	v, thrown := eval(t, src)
	mustNotThrow(t, thrown)
	if s, ok := v.(values.JSString); !ok || string(s) != "ab" {
		t.Fatalf("got %#v, want \"ab\" (fallthrough from case 1 into case 2)", v)
	}
}

func TestLabeledBreakEscapesOuterLoop(t *testing.T) {
	src := `
		(var (d (symbol hits) (number 0)))
		(label outer
			(for
				(let (d (symbol i) (number 0)))
				(binary (symbol i) "<" (number 3))
				(update (symbol i) "++" false)
				(for
					(let (d (symbol j) (number 0)))
					(binary (symbol j) "<" (number 3))
					(update (symbol j) "++" false)
					(block
						(expr-stmt (assign (symbol hits) "+=" (number 1)))
						(break outer)))))
		(expr-stmt (symbol hits))
	`
	v, thrown := eval(t, src)
	mustNotThrow(t, thrown)
	if n, ok := v.(values.Number); !ok || n != 1 {
		t.Fatalf("got %#v, want 1 (labeled break should escape both loops after the first hit)", v)
	}
}

func TestGeneratorTwoYieldSequence(t *testing.T) {
	src := `
		(generator gen (params) (body
			(expr-stmt (yield (number 1)))
			(expr-stmt (yield (number 2)))
			(return (number 3))))
		(let (d (symbol g) (call (symbol gen) ())))
		(let (d (symbol a) (get-prop (call (get-prop (symbol g) next) ()) value)))
		(let (d (symbol b) (get-prop (call (get-prop (symbol g) next) ()) value)))
		(let (d (symbol c) (get-prop (call (get-prop (symbol g) next) ()) value)))
		(expr-stmt (array (symbol a) (symbol b) (symbol c)))
	`
	v, thrown := eval(t, src)
	mustNotThrow(t, thrown)
	arr, ok := v.(*values.Array)
	if !ok || arr.Length() != 3 {
		t.Fatalf("got %#v, want a 3-element array", v)
	}
	want := []float64{1, 2, 3}
	for i, w := range want {
		n, ok := arr.GetIndex(i).(values.Number)
		if !ok || float64(n) != w {
			t.Fatalf("element %d = %#v, want %v", i, arr.GetIndex(i), w)
		}
	}
}

func TestArrayDestructuringWithDefaultAndRest(t *testing.T) {
	src := `
		(let (d (array-pattern (symbol a) (pattern-element (symbol b) (number 9)) (pattern-rest (symbol rest))) (array (number 1) null (number 3) (number 4))))
		(expr-stmt (array (symbol a) (symbol b) (symbol rest)))
	`
	v, thrown := eval(t, src)
	mustNotThrow(t, thrown)
	arr, ok := v.(*values.Array)
	if !ok {
		t.Fatalf("got %#v, want array", v)
	}
	if n, ok := arr.GetIndex(0).(values.Number); !ok || n != 1 {
		t.Fatalf("a = %#v, want 1", arr.GetIndex(0))
	}
	if n, ok := arr.GetIndex(1).(values.Number); !ok || n != 9 {
		t.Fatalf("b = %#v, want 9 (default used because the source element was null/undefined)", arr.GetIndex(1))
	}
	rest, ok := arr.GetIndex(2).(*values.Array)
	if !ok || rest.Length() != 2 {
		t.Fatalf("rest = %#v, want a 2-element array", arr.GetIndex(2))
	}
}

func TestObjectDestructuringRename(t *testing.T) {
	src := `
		(let (d (object-pattern (pattern-property x (symbol renamed) null)) (object (prop x (number 10)))))
		(expr-stmt (symbol renamed))
	`
	v, thrown := eval(t, src)
	mustNotThrow(t, thrown)
	if n, ok := v.(values.Number); !ok || n != 10 {
		t.Fatalf("got %#v, want 10", v)
	}
}

func TestTypeofUndeclaredIsUndefinedNotThrow(t *testing.T) {
	v, thrown := eval(t, `(expr-stmt (typeof (symbol neverDeclared)))`)
	mustNotThrow(t, thrown)
	if s, ok := v.(values.JSString); !ok || string(s) != "undefined" {
		t.Fatalf("got %#v, want \"undefined\"", v)
	}
}

func TestRecursionLimitRaisesRangeError(t *testing.T) {
	src := `
		(function "loop" (params) (body
			(return (call (symbol loop) ()))))
		(expr-stmt (call (symbol loop) ()))
	`
	_, thrown := eval(t, src)
	if thrown == nil {
		t.Fatalf("expected a RangeError from stack-overflow detection")
	}
	obj, ok := thrown.(*values.Object)
	if !ok {
		t.Fatalf("thrown value is not an Error object: %#v", thrown)
	}
	name, _ := obj.GetOwn("name")
	if name.Value.String() != "RangeError" {
		t.Fatalf("got %s, want RangeError", name.Value.String())
	}
}

func TestSExprAndJSONParseTheSameTree(t *testing.T) {
	sexprProgram, err := ir.ParseProgram(`(expr-stmt (binary (number 1) "+" (number 2)))`)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	encoded, err := ir.EncodeProgram(sexprProgram)
	if err != nil {
		t.Fatalf("EncodeProgram: %v", err)
	}
	jsonProgram, err := ir.DecodeProgram(encoded)
	if err != nil {
		t.Fatalf("DecodeProgram: %v", err)
	}
	if len(jsonProgram) != 1 || jsonProgram[0].Tag().String() != "expr-stmt" {
		t.Fatalf("round trip produced an unexpected tree: %#v", jsonProgram)
	}
}
