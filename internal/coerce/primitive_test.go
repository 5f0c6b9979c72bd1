package coerce_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/asynkron/jsengine-go/internal/coerce"
	"github.com/asynkron/jsengine-go/internal/values"
)

func TestToNumberTable(t *testing.T) {
	cases := []struct {
		name string
		in   values.Value
		want float64
	}{
		{"null", values.Null, 0},
		{"undefined", values.Undefined, math.NaN()},
		{"true", values.True, 1},
		{"false", values.False, 0},
		{"numeric string", values.JSString(" 42 "), 42},
		{"garbage string", values.JSString("abc"), math.NaN()},
		{"empty string", values.JSString(""), 0},
		{"empty array", values.NewArray(nil), 0},
		{"single-element array", values.NewArray(nil, values.Number(5)), 5},
		{"multi-element array", values.NewArray(nil, values.Number(1), values.Number(2)), math.NaN()},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := coerce.ToNumber(c.in)
			if err != nil {
				t.Fatalf("ToNumber(%v) returned unexpected error: %v", c.in, err)
			}
			gotF := float64(got)
			if math.IsNaN(c.want) {
				if !math.IsNaN(gotF) {
					t.Fatalf("ToNumber(%v) = %v, want NaN", c.in, gotF)
				}
				return
			}
			if gotF != c.want {
				t.Fatalf("ToNumber(%v) = %v, want %v", c.in, gotF, c.want)
			}
		})
	}
}

func TestToNumberBigIntIsMixingError(t *testing.T) {
	_, err := coerce.ToNumber(values.NewBigInt(big.NewInt(5)))
	if err == nil {
		t.Fatal("ToNumber(BigInt) should return an error, got nil")
	}
	if _, ok := err.(*coerce.BigIntConversionError); !ok {
		t.Fatalf("ToNumber(BigInt) error = %T, want *coerce.BigIntConversionError", err)
	}
}

func TestToBooleanTruthiness(t *testing.T) {
	cases := []struct {
		in   values.Value
		want bool
	}{
		{values.Number(0), false},
		{values.Number(math.NaN()), false},
		{values.Number(1), true},
		{values.JSString(""), false},
		{values.JSString("0"), true},
		{values.Null, false},
		{values.Undefined, false},
	}
	for _, c := range cases {
		if got := coerce.ToBoolean(c.in); got != c.want {
			t.Fatalf("ToBoolean(%#v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestToInt32WrapsLikeECMAScript(t *testing.T) {
	if got := coerce.ToInt32(values.Number(4294967296)); got != 0 {
		t.Fatalf("ToInt32(2^32) = %d, want 0", got)
	}
	if got := coerce.ToInt32(values.Number(4294967295)); got != -1 {
		t.Fatalf("ToInt32(2^32 - 1) = %d, want -1", got)
	}
	if got := coerce.ToInt32(values.Number(math.NaN())); got != 0 {
		t.Fatalf("ToInt32(NaN) = %d, want 0", got)
	}
}

func TestToStringValueTable(t *testing.T) {
	cases := []struct {
		in   values.Value
		want string
	}{
		{values.Null, "null"},
		{values.Undefined, "undefined"},
		{values.True, "true"},
		{values.Number(3), "3"},
	}
	for _, c := range cases {
		if got := string(coerce.ToStringValue(c.in)); got != c.want {
			t.Fatalf("ToStringValue(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestToPrimitivePassesThroughNonObjects(t *testing.T) {
	v, err := coerce.ToPrimitive(values.Number(5), coerce.HintDefault, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := v.(values.Number); !ok || n != 5 {
		t.Fatalf("got %#v, want 5 unchanged", v)
	}
}

func TestToPrimitiveFallsBackToStructuralStringWithNoInvoker(t *testing.T) {
	obj := values.NewObject(nil)
	v, err := coerce.ToPrimitive(obj, coerce.HintDefault, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, ok := v.(values.JSString); !ok || string(s) != "[object Object]" {
		t.Fatalf("got %#v, want \"[object Object]\"", v)
	}
}
