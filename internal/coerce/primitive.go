// Package coerce implements the type coercion and operator tables
// described in §4.7 (Coercion & Operators, C8): ToNumber, ToString,
// ToInt32/ToUInt32, the `==`/`===` algorithms, and the arithmetic/bitwise
// operator semantics including BigInt's stricter mixing rules. Grounded on
// the teacher's runtime/primitives.go (CompareTo/ConvertTo per numeric
// type) and runtime/value_interfaces.go's NumericValue contract, widened
// from DWScript's static numeric tower to JS's dynamic-coercion one.
package coerce

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/asynkron/jsengine-go/internal/values"
)

// Invoker lets this package drive a user-defined toString()/valueOf()
// during ToPrimitive without importing package evaluator (which imports
// this package), mirroring the callback-based EvalFunctionPointer seam the
// teacher's Evaluator exposes to its runtime helpers.
type Invoker interface {
	InvokeMethod(obj values.Value, methodName string, args []values.Value) (values.Value, bool, error)
}

// Hint steers ToPrimitive's method-order preference (§4.7: `+` prefers no
// hint, Date#toString prefers "string", arithmetic prefers "number").
type Hint int

const (
	HintDefault Hint = iota
	HintNumber
	HintString
)

// ToPrimitive reduces v to a non-object Value, trying valueOf/toString in
// the order Hint prescribes. Non-object values pass through unchanged.
func ToPrimitive(v values.Value, hint Hint, inv Invoker) (values.Value, error) {
	if !isObjectLike(v) {
		return v, nil
	}
	order := []string{"valueOf", "toString"}
	if hint == HintString {
		order = []string{"toString", "valueOf"}
	}
	for _, name := range order {
		if inv == nil {
			break
		}
		result, found, err := inv.InvokeMethod(v, name, nil)
		if err != nil {
			return nil, err
		}
		if found && !isObjectLike(result) {
			return result, nil
		}
	}
	// No usable method or no invoker: fall back to a structural primitive
	// rendering, matching how a toString-less plain object still stringifies.
	return values.JSString(v.String()), nil
}

func isObjectLike(v values.Value) bool {
	switch v.(type) {
	case *values.Object, *values.Array, *values.Function, *values.HostFunction,
		*values.GeneratorFactory, *values.GeneratorInstance, *values.Map, *values.Set,
		*values.WeakMap, *values.WeakSet, *values.ArrayBuffer, *values.TypedArray:
		return true
	default:
		return false
	}
}

// ToBoolean implements JS's truthiness table (§4.7).
func ToBoolean(v values.Value) bool {
	switch vv := v.(type) {
	case nil:
		return false
	case values.Boolean:
		return bool(vv)
	case values.Number:
		f := float64(vv)
		return f != 0 && !math.IsNaN(f)
	case *values.BigInt:
		return vv.V.Sign() != 0
	case values.JSString:
		return len(vv) > 0
	default:
		if values.IsNullish(v) {
			return false
		}
		return true
	}
}

// BigIntConversionError reports an attempt to ToNumber-coerce a BigInt,
// which §4.7's ToNumber table calls out as a mixing failure rather than a
// silent NaN (the one entry in that table that errors instead of
// converting).
type BigIntConversionError struct{}

func (e *BigIntConversionError) Error() string {
	return "Cannot convert a BigInt value to a number"
}

// ToNumber implements §4.7's ToNumber table. Objects must already have
// been reduced via ToPrimitive by the caller — ToNumber itself never
// invokes user code, matching the teacher's ConvertTo, which is a pure
// numeric-tower conversion with no callback hook.
func ToNumber(v values.Value) (values.Number, error) {
	switch vv := v.(type) {
	case nil:
		return values.Number(math.NaN()), nil
	case values.Boolean:
		if vv {
			return 1, nil
		}
		return 0, nil
	case values.Number:
		return vv, nil
	case values.JSString:
		return stringToNumber(string(vv)), nil
	case *values.BigInt:
		return 0, &BigIntConversionError{}
	case *values.Array:
		return arrayToNumber(vv)
	default:
		if v == values.Undefined {
			return values.Number(math.NaN()), nil
		}
		if v == values.Null {
			return 0, nil
		}
		return values.Number(math.NaN()), nil
	}
}

// arrayToNumber implements the ToNumber table's array row (§4.7): an empty
// array converts to 0, a single-element array converts via its one
// element, anything else is NaN.
func arrayToNumber(a *values.Array) (values.Number, error) {
	switch a.Length() {
	case 0:
		return 0, nil
	case 1:
		return ToNumber(a.GetIndex(0))
	default:
		return values.Number(math.NaN()), nil
	}
}

func stringToNumber(s string) values.Number {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	if t == "Infinity" || t == "+Infinity" {
		return values.Number(math.Inf(1))
	}
	if t == "-Infinity" {
		return values.Number(math.Inf(-1))
	}
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
		n, err := strconv.ParseInt(t[2:], 16, 64)
		if err != nil {
			return values.Number(math.NaN())
		}
		return values.Number(n)
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return values.Number(math.NaN())
	}
	return values.Number(f)
}

// ToStringValue implements §4.7's ToString table for primitives. Like
// ToNumber, object-to-string reduction must already have happened via
// ToPrimitive — this is the primitive-only half.
func ToStringValue(v values.Value) values.JSString {
	switch vv := v.(type) {
	case nil:
		return "undefined"
	case values.JSString:
		return vv
	case values.Boolean, values.Number:
		return values.JSString(vv.String())
	case *values.BigInt:
		return values.JSString(vv.V.String())
	default:
		if v == values.Undefined || v == values.Null {
			return values.JSString(v.String())
		}
		return values.JSString(v.String())
	}
}

// bigIntToUint32Mod reduces a BigInt's mathematical value mod 2^32,
// matching ToInt32/ToUInt32's bitwise operators, which force truncation
// "regardless of BigIntness of the inputs" (BitwiseOp's own doc comment) —
// BigInt here never goes through ToNumber's mixing-error path since
// bitwise truncation isn't an arithmetic mixing context.
func bigIntToUint32Mod(bi *values.BigInt) uint32 {
	m := new(big.Int).Mod(bi.V, big.NewInt(4294967296))
	if m.Sign() < 0 {
		m.Add(m, big.NewInt(4294967296))
	}
	return uint32(m.Uint64())
}

// ToInt32 implements the 32-bit two's-complement truncation §4.7 requires
// for bitwise operators.
func ToInt32(v values.Value) int32 {
	if bi, ok := v.(*values.BigInt); ok {
		return int32(bigIntToUint32Mod(bi))
	}
	n, _ := ToNumber(v) // non-BigInt inputs never error
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	trunc := math.Trunc(f)
	mod := math.Mod(trunc, 4294967296)
	if mod < 0 {
		mod += 4294967296
	}
	u := uint32(mod)
	return int32(u)
}

// ToUInt32 implements the unsigned counterpart used by `>>>`.
func ToUInt32(v values.Value) uint32 {
	if bi, ok := v.(*values.BigInt); ok {
		return bigIntToUint32Mod(bi)
	}
	n, _ := ToNumber(v) // non-BigInt inputs never error
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	trunc := math.Trunc(f)
	mod := math.Mod(trunc, 4294967296)
	if mod < 0 {
		mod += 4294967296
	}
	return uint32(mod)
}

// ToBigInt converts a primitive to *values.BigInt, used by loose equality
// to compare a BigInt against a String operand. Arithmetic does not call
// it: mixing BigInt and Number there throws TypeError (§4.7).
func ToBigInt(v values.Value) (*values.BigInt, bool) {
	switch vv := v.(type) {
	case *values.BigInt:
		return vv, true
	case values.Boolean:
		if vv {
			return values.NewBigInt(big.NewInt(1)), true
		}
		return values.NewBigInt(big.NewInt(0)), true
	case values.JSString:
		n, ok := new(big.Int).SetString(strings.TrimSpace(string(vv)), 10)
		if !ok {
			return nil, false
		}
		return values.NewBigInt(n), true
	default:
		return nil, false
	}
}
