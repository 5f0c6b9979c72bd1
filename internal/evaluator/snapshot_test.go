package evaluator_test

import (
	"strings"
	"testing"

	"github.com/asynkron/jsengine-go/internal/runner"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestEndToEndProgramSnapshots runs a battery of whole-program scenarios
// through the runner and snapshots their rendered result, mirroring the
// teacher's fixture_test.go (parse + evaluate a program, snaps.MatchSnapshot
// the output) but sourced from inline IR literals instead of a
// testdata/fixtures/*.pas tree, since this repo has no equivalent external
// fixture corpus.
func TestEndToEndProgramSnapshots(t *testing.T) {
	scenarios := []struct {
		name string
		src  string
	}{
		{
			name: "let_shadows_outer_in_block",
			src: `
				(let (d (symbol x) (number 1)))
				(block (let (d (symbol x) (number 2))))
				(expr-stmt (symbol x))
			`,
		},
		{
			name: "var_accumulates_across_for_loop",
			src: `
				(var (d (symbol a) (number 0)))
				(for
					(var (d (symbol i) (number 0)))
					(binary (symbol i) "<" (number 3))
					(update (symbol i) "++" false)
					(expr-stmt (assign (symbol a) "+=" (symbol i))))
				(expr-stmt (symbol a))
			`,
		},
		{
			name: "class_inheritance_method_and_field",
			src: `
				(class A
					(method constructor (params) (body
						(expr-stmt (set-prop (this) x (number 1)))))
					(method m (params) (body
						(return (get-prop (this) x)))))
				(class B (extends (symbol A))
					(method constructor (params) (body
						(expr-stmt (call (super) ()))
						(expr-stmt (set-prop (this) y (number 2))))))
				(let (d (symbol b) (new (symbol B) ())))
				(expr-stmt (binary (call (get-prop (symbol b) m) ()) "+" (get-prop (symbol b) y)))
			`,
		},
		{
			name: "generator_two_yields_sum",
			src: `
				(generator g (params) (body
					(expr-stmt (yield (number 1)))
					(expr-stmt (yield (number 2)))))
				(let (d (symbol it) (call (symbol g) ())))
				(let (d (symbol a) (get-prop (call (get-prop (symbol it) next) ()) value)))
				(let (d (symbol b) (get-prop (call (get-prop (symbol it) next) ()) value)))
				(expr-stmt (binary (symbol a) "+" (symbol b)))
			`,
		},
		{
			name: "try_catch_finally_formats_error",
			src: `
				(try
					(block (throw (object (prop name (string "E")) (prop message (string "m")))))
					(symbol e)
					(block (expr-stmt (binary (binary (get-prop (symbol e) name) "+" (string ":")) "+" (get-prop (symbol e) message))))
					(block))
			`,
		},
		{
			name: "numeric_string_and_array_coercion",
			src: `
				(expr-stmt (array
					(binary (number 1) "+" (string "2"))
					(binary (string "3") "-" (number 1))
					(binary (array) "+" (array))
					(binary (array) "+" (object))))
			`,
		},
	}

	for _, s := range scenarios {
		t.Run(s.name, func(t *testing.T) {
			res, err := runner.Run(s.src, runner.FormatSExpr, &strings.Builder{})
			if err != nil {
				t.Fatalf("run %q: %v", s.name, err)
			}
			var rendered string
			if res.Thrown != nil {
				rendered = "THROW: " + runner.ReportThrow(res.Thrown)
			} else {
				rendered = res.Value.String()
			}
			snaps.MatchSnapshot(t, rendered)
		})
	}
}
