// Package values implements the tagged runtime Value sum described in DATA
// MODEL (§3) — the C1/C5/C6 components: primitives, the prototype-based
// object model, arrays, and the built-in collection types. It is grounded
// on the teacher's internal/interp/runtime package (ObjectInstance,
// IntegerValue/FloatValue/StringValue, Environment's Value contract),
// adapted from DWScript's static-typed value set to JavaScript's dynamic
// one.
package values

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/asynkron/jsengine-go/internal/ir"
)

// Value is implemented by every runtime value kind. Kind returns one of the
// kind names used by typeof/diagnostics; String renders the value the way
// ToString (§4.7) would for primitives, or a debug form for composites.
type Value interface {
	Kind() string
	String() string
}

// ============================================================================
// Undefined / Null — reserved singletons
// ============================================================================

type undefinedValue struct{}

func (undefinedValue) Kind() string   { return "undefined" }
func (undefinedValue) String() string { return "undefined" }

// Undefined is the single, reserved Undefined value (DATA MODEL: "a
// reserved, singleton symbol"). Compare with ==.
var Undefined Value = undefinedValue{}

type nullValue struct{}

func (nullValue) Kind() string   { return "null" }
func (nullValue) String() string { return "null" }

// Null is the single Null value. Compare with ==.
var Null Value = nullValue{}

// IsNullish reports whether v is Undefined or Null.
func IsNullish(v Value) bool {
	return v == Undefined || v == Null
}

// ============================================================================
// Boolean
// ============================================================================

// Boolean wraps a bool. True/False below are the canonical instances but
// equality must use Value comparison, not pointer identity, since booleans
// are produced in many places.
type Boolean bool

func (b Boolean) Kind() string { return "boolean" }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// True and False are convenience constants.
const (
	True  = Boolean(true)
	False = Boolean(false)
)

// ============================================================================
// Number — IEEE-754 double
// ============================================================================

// Number is a JS number (always float64; integers are just numbers whose
// fractional part is zero).
type Number float64

func (n Number) Kind() string { return "number" }

func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "0"
		}
		return "0"
	}
	// Integral values print without a decimal point, matching JS's Number.toString().
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// IsNaN reports whether n is NaN.
func (n Number) IsNaN() bool { return math.IsNaN(float64(n)) }

// ============================================================================
// BigInt — arbitrary precision integer
// ============================================================================

// BigInt wraps math/big.Int. No third-party arbitrary-precision library
// appears anywhere in the retrieval pack, so this is the one deliberate
// stdlib choice in the value model (see DESIGN.md).
type BigInt struct {
	V *big.Int
}

func NewBigInt(v *big.Int) *BigInt { return &BigInt{V: v} }

func (b *BigInt) Kind() string   { return "bigint" }
func (b *BigInt) String() string { return b.V.String() + "n" }

// ============================================================================
// String
// ============================================================================

// String represents a JS string. Go strings are UTF-8 byte sequences while
// JS strings are UTF-16 code unit sequences; this core treats strings as
// opaque Go strings and leaves exact UTF-16 indexing semantics to the
// (out-of-scope) standard-library string methods collaborator.
type JSString string

func (s JSString) Kind() string   { return "string" }
func (s JSString) String() string { return string(s) }

// ============================================================================
// Symbol — distinct from ir.Symbol (binding names); a unique-identity
// primitive per DATA MODEL's "JsSymbol".
// ============================================================================

type JsSymbol struct {
	ID *ir.JsSymbolID
}

func NewJsSymbolValue(description string) *JsSymbol {
	return &JsSymbol{ID: ir.NewJsSymbol(description)}
}

func (s *JsSymbol) Kind() string { return "symbol" }
func (s *JsSymbol) String() string {
	return fmt.Sprintf("Symbol(%s)", s.ID.Description)
}

// jsSymbolKeyPrefix reserves a textual namespace so JsSymbol-keyed
// properties remain addressable through the string-keyed Object map while
// staying distinct from ordinary string keys (DATA MODEL: Object).
const jsSymbolKeyPrefix = "@@sym:"

// SymbolPropertyKey encodes a JsSymbol as a reserved-prefix string key.
func SymbolPropertyKey(s *JsSymbol) string {
	return fmt.Sprintf("%s%p", jsSymbolKeyPrefix, s.ID)
}

// WellKnownIterator and WellKnownAsyncIterator are the property keys used
// for the iteration protocols (§4.5 for-of/for-await-of).
var (
	symIterator      = NewJsSymbolValue("Symbol.iterator")
	symAsyncIterator = NewJsSymbolValue("Symbol.asyncIterator")

	WellKnownIterator      = SymbolPropertyKey(symIterator)
	WellKnownAsyncIterator = SymbolPropertyKey(symAsyncIterator)
)

// ============================================================================
// Helpers shared across value kinds
// ============================================================================

// TypeName reports one of the constants listed for the `typeof` operator
// (§4.6), given the dynamic Go type of v.
func TypeName(v Value) string {
	switch vv := v.(type) {
	case nil:
		return "undefined"
	case undefinedValue:
		return "undefined"
	case nullValue:
		return "object"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case *BigInt:
		return "bigint"
	case JSString:
		return "string"
	case *JsSymbol:
		return "symbol"
	case *Function, *HostFunction, *GeneratorFactory:
		return "function"
	default:
		_ = vv
		return "object"
	}
}

// SortedKeys returns m's keys sorted for deterministic iteration in tests
// and diagnostics (production own-key order comes from Object's insertion
// slice, not from this helper).
func SortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToStringValue renders a primitive value the way the core itself needs to
// (Array/Object debug strings, template-literal splicing of already-coerced
// operands). The full ToString algorithm — including invoking a
// user-defined toString()/valueOf() — lives in package coerce, which calls
// back into an evaluator-supplied invoker for the object case; this helper
// only ever sees values that have already been reduced to a primitive.
func ToStringValue(v Value) string {
	if v == nil {
		return "undefined"
	}
	return v.String()
}

// joinArrayForToString mirrors ToString's array-join rule (§4.7): null/undefined
// elements render as empty strings.
func joinArrayForToString(elems []Value) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		if e == nil || IsNullish(e) {
			parts[i] = ""
			continue
		}
		parts[i] = ToStringValue(e)
	}
	return strings.Join(parts, ",")
}
