package coerce

import (
	"math"
	"math/big"

	"github.com/asynkron/jsengine-go/internal/values"
)

// StrictEquals implements `===`: same type required, NaN !== NaN, objects
// compare by identity (§4.7 TESTABLE PROPERTIES: "NaN !== NaN under
// strict equality but Map/Set treat NaN as a key equal to itself").
func StrictEquals(a, b values.Value) bool {
	if a == nil {
		a = values.Undefined
	}
	if b == nil {
		b = values.Undefined
	}
	switch av := a.(type) {
	case values.Number:
		bv, ok := b.(values.Number)
		if !ok {
			return false
		}
		return float64(av) == float64(bv)
	case values.JSString:
		bv, ok := b.(values.JSString)
		return ok && av == bv
	case values.Boolean:
		bv, ok := b.(values.Boolean)
		return ok && av == bv
	case *values.BigInt:
		bv, ok := b.(*values.BigInt)
		return ok && av.V.Cmp(bv.V) == 0
	default:
		return a == b
	}
}

// LooseEquals implements `==`'s coercion table (§4.7): the classic
// null/undefined mutual equality, number<->string, boolean<->anything via
// ToNumber, and the BigInt/Number comparison carve-out that compares
// mathematical value without requiring same-type.
func LooseEquals(a, b values.Value, inv Invoker) (bool, error) {
	if a == nil {
		a = values.Undefined
	}
	if b == nil {
		b = values.Undefined
	}

	if sameLooseCategory(a, b) {
		return StrictEquals(a, b), nil
	}

	if values.IsNullish(a) && values.IsNullish(b) {
		return true, nil
	}
	if values.IsNullish(a) || values.IsNullish(b) {
		return false, nil
	}

	aBig, aIsBig := a.(*values.BigInt)
	bBig, bIsBig := b.(*values.BigInt)
	if aIsBig || bIsBig {
		return bigintLooseEquals(a, b, aBig, bBig, aIsBig, bIsBig)
	}

	// Neither operand is BigInt past this point (handled above), so
	// ToNumber cannot return its BigInt-mixing error here.
	if _, ok := a.(values.Boolean); ok {
		n, _ := ToNumber(a)
		return LooseEquals(values.Number(n), b, inv)
	}
	if _, ok := b.(values.Boolean); ok {
		n, _ := ToNumber(b)
		return LooseEquals(a, values.Number(n), inv)
	}

	aNum, aIsNum := a.(values.Number)
	_, aIsStr := a.(values.JSString)
	bNum, bIsNum := b.(values.Number)
	_, bIsStr := b.(values.JSString)
	if aIsNum && bIsStr {
		n, _ := ToNumber(b)
		return float64(aNum) == float64(n), nil
	}
	if aIsStr && bIsNum {
		n, _ := ToNumber(a)
		return float64(n) == float64(bNum), nil
	}

	if isObjectLike(a) && !isObjectLike(b) {
		prim, err := ToPrimitive(a, HintDefault, inv)
		if err != nil {
			return false, err
		}
		return LooseEquals(prim, b, inv)
	}
	if isObjectLike(b) && !isObjectLike(a) {
		prim, err := ToPrimitive(b, HintDefault, inv)
		if err != nil {
			return false, err
		}
		return LooseEquals(a, prim, inv)
	}

	return a == b, nil
}

func sameLooseCategory(a, b values.Value) bool {
	_, aNum := a.(values.Number)
	_, bNum := b.(values.Number)
	if aNum && bNum {
		return true
	}
	_, aStr := a.(values.JSString)
	_, bStr := b.(values.JSString)
	if aStr && bStr {
		return true
	}
	_, aBool := a.(values.Boolean)
	_, bBool := b.(values.Boolean)
	if aBool && bBool {
		return true
	}
	_, aBig := a.(*values.BigInt)
	_, bBig := b.(*values.BigInt)
	if aBig && bBig {
		return true
	}
	if isObjectLike(a) && isObjectLike(b) {
		return true
	}
	return false
}

func bigintLooseEquals(a, b values.Value, aBig, bBig *values.BigInt, aIsBig, bIsBig bool) (bool, error) {
	if aIsBig && bIsBig {
		return aBig.V.Cmp(bBig.V) == 0, nil
	}
	var bi *values.BigInt
	var other values.Value
	if aIsBig {
		bi, other = aBig, b
	} else {
		bi, other = bBig, a
	}
	switch ov := other.(type) {
	case values.Number:
		f := float64(ov)
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return false, nil
		}
		return bigEqualsFloat(bi, f), nil
	case values.JSString:
		parsed, ok := ToBigInt(ov)
		if !ok {
			return false, nil
		}
		return bi.V.Cmp(parsed.V) == 0, nil
	default:
		return false, nil
	}
}

// bigEqualsFloat compares a BigInt against an already-verified integral,
// finite float64.
func bigEqualsFloat(bi *values.BigInt, f float64) bool {
	asBig, _ := big.NewFloat(f).Int(nil)
	return bi.V.Cmp(asBig) == 0
}
