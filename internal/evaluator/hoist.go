package evaluator

import "github.com/asynkron/jsengine-go/internal/ir"

// hoistDeclarations runs the pre-pass every statement list needs before its
// statements execute in source order (§4.2 Environment/TDZ, §4.9): var
// declarations anywhere in this block's nested statement tree (but not
// across a nested function/lambda/class boundary) are hoisted to the
// nearest function-boundary scope; let/const declared directly in this
// block move into the TDZ; function declarations directly in this block
// are bound to their closure value immediately, so sibling functions can
// reference each other regardless of declaration order.
func hoistDeclarations(e *Evaluator, statements []*ir.Cell, ctx *ExecutionContext) {
	for _, s := range statements {
		hoistVarsIn(s, ctx)
	}
	for _, s := range statements {
		switch s.Tag() {
		case ir.TagLet, ir.TagConst:
			declareTDZForStatement(s, ctx)
		case ir.TagFunction, ir.TagGenerator:
			hoistFunctionDecl(e, s, ctx)
		}
	}
}

func hoistFunctionDecl(e *Evaluator, s *ir.Cell, ctx *ExecutionContext) {
	name := leafString(s.Nth(0))
	if name == "" {
		return
	}
	fn := buildFunctionValue(e, s, ctx, false)
	sym := internSymbolName(name)
	if !ctx.Env.HasOwn(sym) {
		ctx.Env.DeclareUninitialized(sym, false)
	}
	ctx.Env.InitializeBinding(sym, fn)
}

func declareTDZForStatement(s *ir.Cell, ctx *ExecutionContext) {
	isConst := s.Tag() == ir.TagConst
	for _, decl := range s.Operands() {
		declareTDZForPattern(decl.Nth(0), ctx, isConst)
	}
}

func declareTDZForPattern(pattern *ir.Cell, ctx *ExecutionContext, isConst bool) {
	if pattern == nil {
		return
	}
	switch pattern.Tag() {
	case ir.TagSymbol:
		sym := internSymbolName(leafString(pattern.Nth(0)))
		ctx.Env.DeclareUninitialized(sym, isConst)
	case ir.TagArrayPattern:
		for _, el := range pattern.Operands() {
			switch el.Tag() {
			case ir.TagPatternRest, ir.TagPatternElement:
				declareTDZForPattern(el.Nth(0), ctx, isConst)
			default:
				declareTDZForPattern(el, ctx, isConst)
			}
		}
	case ir.TagObjectPattern:
		for _, prop := range pattern.Operands() {
			if prop.Tag() == ir.TagPatternRest {
				declareTDZForPattern(prop.Nth(0), ctx, isConst)
				continue
			}
			declareTDZForPattern(prop.Nth(1), ctx, isConst)
		}
	}
}

// hoistVarsIn walks s looking for "var" declarations to hoist, recursing
// into every statement-holding construct but stopping at a nested
// function/lambda/class body, which hoists its own vars independently the
// first time its own body runs.
func hoistVarsIn(s *ir.Cell, ctx *ExecutionContext) {
	if s == nil {
		return
	}
	switch s.Tag() {
	case ir.TagVar:
		for _, decl := range s.Operands() {
			hoistVarPattern(decl.Nth(0), ctx)
		}
	case ir.TagBlock:
		for _, inner := range s.Operands() {
			hoistVarsIn(inner, ctx)
		}
	case ir.TagIf:
		hoistVarsIn(s.Nth(1), ctx)
		hoistVarsIn(s.Nth(2), ctx)
	case ir.TagWhile, ir.TagDoWhile:
		hoistVarsIn(s.Nth(1), ctx)
	case ir.TagFor:
		hoistVarsIn(s.Nth(0), ctx)
		hoistVarsIn(s.Nth(3), ctx)
	case ir.TagForIn, ir.TagForOf, ir.TagForAwaitOf:
		hoistVarsIn(s.Nth(0), ctx)
		hoistVarsIn(s.Nth(2), ctx)
	case ir.TagTry:
		hoistVarsIn(s.Nth(0), ctx)
		hoistVarsIn(s.Nth(2), ctx)
		hoistVarsIn(s.Nth(3), ctx)
	case ir.TagSwitch:
		ops := s.Operands()
		for _, cs := range ops[1:] {
			var body []*ir.Cell
			if cs.Tag() == ir.TagDefault {
				body = cs.Operands()
			} else {
				body = cs.Operands()[1:]
			}
			for _, inner := range body {
				hoistVarsIn(inner, ctx)
			}
		}
	case ir.TagLabel:
		hoistVarsIn(s.Nth(1), ctx)
	}
}

func hoistVarPattern(pattern *ir.Cell, ctx *ExecutionContext) {
	if pattern == nil {
		return
	}
	switch pattern.Tag() {
	case ir.TagSymbol:
		sym := internSymbolName(leafString(pattern.Nth(0)))
		ctx.Env.DeclareVar(sym, nil)
	case ir.TagArrayPattern:
		for _, el := range pattern.Operands() {
			switch el.Tag() {
			case ir.TagPatternRest, ir.TagPatternElement:
				hoistVarPattern(el.Nth(0), ctx)
			default:
				hoistVarPattern(el, ctx)
			}
		}
	case ir.TagObjectPattern:
		for _, prop := range pattern.Operands() {
			if prop.Tag() == ir.TagPatternRest {
				hoistVarPattern(prop.Nth(0), ctx)
				continue
			}
			hoistVarPattern(prop.Nth(1), ctx)
		}
	}
}
