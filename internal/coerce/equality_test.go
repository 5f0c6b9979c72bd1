package coerce_test

import (
	"math"
	"testing"

	"github.com/asynkron/jsengine-go/internal/coerce"
	"github.com/asynkron/jsengine-go/internal/values"
)

func TestStrictEqualsNaNNeverEqual(t *testing.T) {
	nan := values.Number(math.NaN())
	if coerce.StrictEquals(nan, nan) {
		t.Fatalf("NaN === NaN must be false")
	}
}

func TestStrictEqualsRequiresSameType(t *testing.T) {
	if coerce.StrictEquals(values.Number(1), values.JSString("1")) {
		t.Fatalf("1 === \"1\" must be false")
	}
}

func TestLooseEqualsNullUndefined(t *testing.T) {
	eq, err := coerce.LooseEquals(values.Null, values.Undefined, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eq {
		t.Fatalf("null == undefined must be true")
	}

	eq, err = coerce.LooseEquals(values.Null, values.Number(0), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eq {
		t.Fatalf("null == 0 must be false (nullish only equals nullish)")
	}
}

func TestLooseEqualsNumberString(t *testing.T) {
	eq, err := coerce.LooseEquals(values.Number(1), values.JSString("1"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eq {
		t.Fatalf("1 == \"1\" must be true")
	}
}

func TestLooseEqualsBooleanCoercesToNumber(t *testing.T) {
	eq, err := coerce.LooseEquals(values.True, values.Number(1), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eq {
		t.Fatalf("true == 1 must be true")
	}
}
