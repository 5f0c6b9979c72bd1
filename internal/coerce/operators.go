package coerce

import (
	"fmt"
	"math"
	"math/big"

	"github.com/asynkron/jsengine-go/internal/values"
)

// MixedBigIntError reports an attempt to combine a BigInt and a Number in
// an arithmetic operator, which §4.7 requires to throw TypeError rather
// than silently widen either operand.
type MixedBigIntError struct {
	Op string
}

func (e *MixedBigIntError) Error() string {
	return fmt.Sprintf("Cannot mix BigInt and other types, use explicit conversions (%s)", e.Op)
}

// Add implements `+`: string concatenation if either already-ToPrimitive
// operand is a string, BigInt addition if both are BigInt, TypeError if
// exactly one is, numeric addition otherwise (§4.7).
func Add(a, b values.Value, inv Invoker) (values.Value, error) {
	pa, err := ToPrimitive(a, HintDefault, inv)
	if err != nil {
		return nil, err
	}
	pb, err := ToPrimitive(b, HintDefault, inv)
	if err != nil {
		return nil, err
	}
	if _, ok := pa.(values.JSString); ok {
		return values.JSString(string(ToStringValue(pa)) + string(ToStringValue(pb))), nil
	}
	if _, ok := pb.(values.JSString); ok {
		return values.JSString(string(ToStringValue(pa)) + string(ToStringValue(pb))), nil
	}
	aBig, aIsBig := pa.(*values.BigInt)
	bBig, bIsBig := pb.(*values.BigInt)
	if aIsBig || bIsBig {
		if !(aIsBig && bIsBig) {
			return nil, &MixedBigIntError{Op: "+"}
		}
		return values.NewBigInt(new(big.Int).Add(aBig.V, bBig.V)), nil
	}
	// Neither pa nor pb is BigInt past this point (handled above), so
	// ToNumber cannot return its BigInt-mixing error here.
	an, _ := ToNumber(pa)
	bn, _ := ToNumber(pb)
	return values.Number(float64(an) + float64(bn)), nil
}

// numericBinOp is the shared shape for -, *, /, %, ** (§4.7): both
// operands must agree on BigInt-ness, otherwise TypeError.
func numericBinOp(op string, a, b values.Value,
	numFn func(x, y float64) float64,
	bigFn func(x, y *big.Int) (*big.Int, error),
) (values.Value, error) {
	aBig, aIsBig := a.(*values.BigInt)
	bBig, bIsBig := b.(*values.BigInt)
	if aIsBig || bIsBig {
		if !(aIsBig && bIsBig) {
			return nil, &MixedBigIntError{Op: op}
		}
		r, err := bigFn(aBig.V, bBig.V)
		if err != nil {
			return nil, err
		}
		return values.NewBigInt(r), nil
	}
	// Neither a nor b is BigInt past this point (handled above), so
	// ToNumber cannot return its BigInt-mixing error here.
	an, _ := ToNumber(a)
	bn, _ := ToNumber(b)
	return values.Number(numFn(float64(an), float64(bn))), nil
}

func Sub(a, b values.Value) (values.Value, error) {
	return numericBinOp("-", a, b,
		func(x, y float64) float64 { return x - y },
		func(x, y *big.Int) (*big.Int, error) { return new(big.Int).Sub(x, y), nil })
}

func Mul(a, b values.Value) (values.Value, error) {
	return numericBinOp("*", a, b,
		func(x, y float64) float64 { return x * y },
		func(x, y *big.Int) (*big.Int, error) { return new(big.Int).Mul(x, y), nil })
}

func Div(a, b values.Value) (values.Value, error) {
	return numericBinOp("/", a, b,
		func(x, y float64) float64 { return x / y },
		func(x, y *big.Int) (*big.Int, error) {
			if y.Sign() == 0 {
				return nil, fmt.Errorf("Division by zero")
			}
			return new(big.Int).Quo(x, y), nil
		})
}

func Mod(a, b values.Value) (values.Value, error) {
	return numericBinOp("%", a, b,
		func(x, y float64) float64 { return math.Mod(x, y) },
		func(x, y *big.Int) (*big.Int, error) {
			if y.Sign() == 0 {
				return nil, fmt.Errorf("Division by zero")
			}
			return new(big.Int).Rem(x, y), nil
		})
}

func Pow(a, b values.Value) (values.Value, error) {
	return numericBinOp("**", a, b,
		func(x, y float64) float64 { return math.Pow(x, y) },
		func(x, y *big.Int) (*big.Int, error) {
			if y.Sign() < 0 {
				return nil, fmt.Errorf("Exponent must be non-negative")
			}
			return new(big.Int).Exp(x, y, nil), nil
		})
}

// Compare implements the relational operators' shared ToNumber/ToString
// ordering (§4.7): string-string comparison is lexicographic, everything
// else goes through ToNumber (with BigInt/Number cross-comparison allowed,
// unlike the strict arithmetic operators above).
func Compare(a, b values.Value, inv Invoker) (int, bool, error) {
	pa, err := ToPrimitive(a, HintNumber, inv)
	if err != nil {
		return 0, false, err
	}
	pb, err := ToPrimitive(b, HintNumber, inv)
	if err != nil {
		return 0, false, err
	}
	as, aIsStr := pa.(values.JSString)
	bs, bIsStr := pb.(values.JSString)
	if aIsStr && bIsStr {
		switch {
		case as < bs:
			return -1, true, nil
		case as > bs:
			return 1, true, nil
		default:
			return 0, true, nil
		}
	}
	aBig, aIsBig := pa.(*values.BigInt)
	bBig, bIsBig := pb.(*values.BigInt)
	if aIsBig && bIsBig {
		return aBig.V.Cmp(bBig.V), true, nil
	}
	if aIsBig || bIsBig {
		var bi *values.BigInt
		var other values.Value
		if aIsBig {
			bi, other = aBig, pb
		} else {
			bi, other = bBig, pa
		}
		// other is guaranteed non-BigInt (it's the opposite side of the
		// aIsBig/bIsBig split above), so ToNumber cannot error here.
		on, _ := ToNumber(other)
		f := float64(on)
		if math.IsNaN(f) {
			return 0, false, nil
		}
		bf := new(big.Float).SetInt(bi.V)
		cmp := bf.Cmp(big.NewFloat(f))
		if !aIsBig {
			cmp = -cmp
		}
		return cmp, true, nil
	}
	// Neither pa nor pb is BigInt past this point (handled above), so
	// ToNumber cannot return its BigInt-mixing error here.
	pan, _ := ToNumber(pa)
	pbn, _ := ToNumber(pb)
	an := float64(pan)
	bn := float64(pbn)
	if math.IsNaN(an) || math.IsNaN(bn) {
		return 0, false, nil
	}
	switch {
	case an < bn:
		return -1, true, nil
	case an > bn:
		return 1, true, nil
	default:
		return 0, true, nil
	}
}

// BitwiseOp applies a 32-bit integer bitwise operator (§4.7: &, |, ^, <<,
// >>, >>>), all of which force both operands through ToInt32/ToUInt32
// truncation regardless of BigInt-ness of the inputs.
func BitwiseOp(op string, a, b values.Value) values.Value {
	switch op {
	case "&":
		return values.Number(ToInt32(a) & ToInt32(b))
	case "|":
		return values.Number(ToInt32(a) | ToInt32(b))
	case "^":
		return values.Number(ToInt32(a) ^ ToInt32(b))
	case "<<":
		return values.Number(ToInt32(a) << (ToUInt32(b) & 31))
	case ">>":
		return values.Number(ToInt32(a) >> (ToUInt32(b) & 31))
	case ">>>":
		return values.Number(ToUInt32(a) >> (ToUInt32(b) & 31))
	default:
		return values.Number(math.NaN())
	}
}

// BitwiseNot implements unary `~`.
func BitwiseNot(a values.Value) values.Value {
	return values.Number(^ToInt32(a))
}

// Negate implements unary `-`, including BigInt negation.
func Negate(a values.Value) values.Value {
	if bi, ok := a.(*values.BigInt); ok {
		return values.NewBigInt(new(big.Int).Neg(bi.V))
	}
	// a is not BigInt (handled above), so ToNumber cannot error here.
	n, _ := ToNumber(a)
	return values.Number(-float64(n))
}
