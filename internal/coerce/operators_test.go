package coerce_test

import (
	"math/big"
	"testing"

	"github.com/asynkron/jsengine-go/internal/coerce"
	"github.com/asynkron/jsengine-go/internal/values"
)

func TestAddStringConcatenation(t *testing.T) {
	v, err := coerce.Add(values.JSString("x="), values.Number(3), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, ok := v.(values.JSString); !ok || string(s) != "x=3" {
		t.Fatalf("got %#v, want \"x=3\"", v)
	}
}

func TestAddArrayPlusArrayIsEmptyString(t *testing.T) {
	a := values.NewArray(nil)
	b := values.NewArray(nil)
	v, err := coerce.Add(a, b, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, ok := v.(values.JSString); !ok || string(s) != "" {
		t.Fatalf("[] + [] = %#v, want \"\"", v)
	}
}

func TestAddArrayPlusObject(t *testing.T) {
	a := values.NewArray(nil)
	obj := values.NewObject(nil)
	v, err := coerce.Add(a, obj, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, ok := v.(values.JSString); !ok || string(s) != "[object Object]" {
		t.Fatalf("[] + {} = %#v, want \"[object Object]\"", v)
	}
}

func TestAddBigIntBoth(t *testing.T) {
	a := values.NewBigInt(big.NewInt(2))
	b := values.NewBigInt(big.NewInt(3))
	v, err := coerce.Add(a, b, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bi, ok := v.(*values.BigInt)
	if !ok || bi.V.Int64() != 5 {
		t.Fatalf("got %#v, want BigInt(5)", v)
	}
}

func TestAddMixedBigIntAndNumberThrows(t *testing.T) {
	a := values.NewBigInt(big.NewInt(2))
	_, err := coerce.Add(a, values.Number(3), nil)
	if err == nil {
		t.Fatalf("expected a MixedBigIntError mixing BigInt and Number")
	}
}

func TestSubNumberBoth(t *testing.T) {
	v, err := coerce.Sub(values.Number(3), values.Number(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := v.(values.Number); !ok || n != 2 {
		t.Fatalf("3 - 1 = %#v, want 2", v)
	}
}
