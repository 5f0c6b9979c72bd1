package evaluator

import (
	"fmt"

	"github.com/asynkron/jsengine-go/internal/errors"
	"github.com/asynkron/jsengine-go/internal/ir"
)

// Frame is one entry in the call stack: the function's name and the
// source reference of its call-site, used both for overflow detection and
// to render `.stack` strings for thrown exceptions (§10 Logging/diagnostics,
// §12). Grounded on the teacher's internal/interp/evaluator/callstack.go
// and runtime/callstack.go StackFrame.
type Frame struct {
	FunctionName string
	CallSite     *ir.SourceRef
}

// CallStack is a simple depth-bounded stack of Frames.
type CallStack struct {
	frames   []Frame
	maxDepth int
}

// NewCallStack creates an empty stack bounded at maxDepth.
func NewCallStack(maxDepth int) *CallStack {
	return &CallStack{maxDepth: maxDepth}
}

// Push adds a frame, returning a RecursionLimitError if this would exceed
// maxDepth (§12: "exceeding Config.MaxRecursionDepth raises a RangeError").
func (cs *CallStack) Push(f Frame) error {
	if len(cs.frames) >= cs.maxDepth {
		return &errors.RecursionLimitError{MaxDepth: cs.maxDepth}
	}
	cs.frames = append(cs.frames, f)
	return nil
}

// Pop removes the most recently pushed frame. Called unconditionally by
// the function-invocation path's deferred cleanup, even when the call
// unwound via a thrown exception.
func (cs *CallStack) Pop() {
	if len(cs.frames) == 0 {
		return
	}
	cs.frames = cs.frames[:len(cs.frames)-1]
}

// Depth reports the current stack depth.
func (cs *CallStack) Depth() int { return len(cs.frames) }

// String renders the stack top-to-bottom as `.stack` traces do.
func (cs *CallStack) String() string {
	s := ""
	for i := len(cs.frames) - 1; i >= 0; i-- {
		f := cs.frames[i]
		name := f.FunctionName
		if name == "" {
			name = "<anonymous>"
		}
		s += fmt.Sprintf("    at %s\n", name)
	}
	return s
}
