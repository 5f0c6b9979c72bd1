package errors

import "github.com/asynkron/jsengine-go/internal/values"

// NewException builds the conventional `{name, message, stack}` object
// shape a thrown builtin exception carries (§4.7/§7), grounded on the
// teacher's exceptions.go/exception_manager.go pattern of one constructor
// per builtin exception class (EDivByZero, ERangeError, ...) generalized
// to JS's Error/TypeError/RangeError/ReferenceError/SyntaxError family.
// stack is a pre-rendered call-stack string supplied by the evaluator,
// which owns the call stack this package has no access to.
func NewException(proto *values.Object, name, message, stack string) *values.Object {
	obj := values.NewObject(proto)
	obj.Class = name
	obj.DefineOwn("name", values.JSString(name))
	obj.DefineOwn("message", values.JSString(message))
	obj.DefineOwn("stack", values.JSString(name+": "+message+"\n"+stack))
	return obj
}

// NewTypeError builds a TypeError object (§4.7: invalid operand type,
// calling a non-callable, mixing BigInt/Number, reading a property off
// null/undefined).
func NewTypeError(proto *values.Object, message, stack string) *values.Object {
	return NewException(proto, "TypeError", message, stack)
}

// NewReferenceError builds a ReferenceError (§4.2: TDZ access, assignment
// to an undeclared name in strict mode, reading an undeclared identifier).
func NewReferenceError(proto *values.Object, message, stack string) *values.Object {
	return NewException(proto, "ReferenceError", message, stack)
}

// NewRangeError builds a RangeError (§12: call-stack overflow).
func NewRangeError(proto *values.Object, message, stack string) *values.Object {
	return NewException(proto, "RangeError", message, stack)
}

// NewSyntaxError builds a SyntaxError. The evaluator itself never parses
// source (§1 Non-goals), but it raises SyntaxError for dynamic cases that
// are evaluator-detected rather than parse-time, such as a malformed
// destructuring target discovered during assignment.
func NewSyntaxError(proto *values.Object, message, stack string) *values.Object {
	return NewException(proto, "SyntaxError", message, stack)
}
