package compiler

import (
	"github.com/rizonlang/rizon/lang/chunk"
	"github.com/rizonlang/rizon/lang/token"
	"github.com/rizonlang/rizon/lang/value"
)

func (p *Parser) grouping(_ bool) {
	p.expression()
	p.consume(token.RPAREN, "expect ')' after expression")
}

func (p *Parser) number(_ bool) {
	if p.previous.Token == token.INT {
		p.emitConstant(value.Int(p.previous.Value.Int))
	} else {
		p.emitConstant(value.Float(p.previous.Value.Float))
	}
}

func (p *Parser) stringLiteral(_ bool) {
	p.emitConstant(p.heap.Intern(p.previous.Value.String))
}

func (p *Parser) literal(_ bool) {
	switch p.previous.Token {
	case token.FALSE:
		p.emitOp(chunk.False)
	case token.TRUE:
		p.emitOp(chunk.True)
	case token.NULL:
		p.emitOp(chunk.Null)
	}
}

func (p *Parser) self(_ bool) {
	if p.fn.kind != funcMethod && p.fn.kind != funcInit {
		p.errorAtPrevious("can't use 'self' outside of a method")
		return
	}
	p.namedVariable("self", false)
}

// unary compiles a unary '-' or '!' expression (spec.md §6).
func (p *Parser) unary(_ bool) {
	op := p.previous.Token
	line := p.previous.Line
	p.parsePrecedence(precUnary)
	p.line = line
	switch op {
	case token.MINUS:
		p.emitOp(chunk.Negate)
	case token.BANG:
		p.emitOp(chunk.Not)
	}
}

// binary compiles the rhs of a binary expression whose lhs is already on
// the stack, then emits the operator. Per spec.md §9's resolution of the
// "no <=/>= opcode" open question, <= lowers to 'not (b < a)' and >= lowers
// to 'not (a < b)'.
func (p *Parser) binary(_ bool) {
	op := p.previous.Token
	line := p.previous.Line
	rule := getRule(op)
	p.parsePrecedence(rule.precedence + 1)
	p.line = line

	switch op {
	case token.PLUS:
		p.emitOp(chunk.Add)
	case token.MINUS:
		p.emitOp(chunk.Subtract)
	case token.STAR:
		p.emitOp(chunk.Multiply)
	case token.SLASH:
		p.emitOp(chunk.Divide)
	case token.EQEQ:
		p.emitOp(chunk.Equal)
	case token.BANGEQ:
		p.emitOp(chunk.Equal)
		p.emitOp(chunk.Not)
	case token.GT:
		p.emitOp(chunk.Greater)
	case token.LT:
		p.emitOp(chunk.Less)
	case token.GE: // a >= b  ==  not (a < b)
		p.emitOp(chunk.Less)
		p.emitOp(chunk.Not)
	case token.LE: // a <= b  ==  not (b < a); operands were parsed as a then b,
		// so Greater(a, b), i.e. "b < a" flipped, gives exactly that.
		p.emitOp(chunk.Greater)
		p.emitOp(chunk.Not)
	}
}

// and compiles the rhs of 'and': if the lhs (already on the stack) is
// false, short-circuit leaving it as the result; otherwise discard it and
// evaluate the rhs (spec.md §4.2).
func (p *Parser) and(_ bool) {
	endJump := p.emitJump(chunk.JumpIfFalse)
	p.emitOp(chunk.Pop)
	p.parsePrecedence(precAnd)
	p.patchJump(endJump)
}

// or compiles the rhs of 'or': if the lhs is false, jump over a Jump that
// would otherwise skip the rhs (spec.md §4.2).
func (p *Parser) or(_ bool) {
	elseJump := p.emitJump(chunk.JumpIfFalse)
	endJump := p.emitJump(chunk.Jump)

	p.patchJump(elseJump)
	p.emitOp(chunk.Pop)

	p.parsePrecedence(precOr)
	p.patchJump(endJump)
}

// call compiles a call expression's argument list and emits Call.
func (p *Parser) call(_ bool) {
	argc := p.argumentList()
	p.emitOp2(chunk.Call, argc)
}

func (p *Parser) argumentList() byte {
	var argc int
	if !p.check(token.RPAREN) {
		for {
			p.expression()
			if argc == 255 {
				p.errorAtPrevious("can't have more than 255 arguments")
			}
			argc++
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "expect ')' after arguments")
	return byte(argc)
}

// dot compiles a '.' property access or assignment, or an Invoke when
// followed directly by a call's '(' (spec.md §4.1's Invoke optimization).
func (p *Parser) dot(canAssign bool) {
	p.consume(token.IDENT, "expect property name after '.'")
	name := p.identifierConstant(p.previous.Value.Raw)

	switch {
	case canAssign && p.match(token.EQ):
		p.expression()
		p.emitOp2(chunk.SetProperty, name)
	case p.match(token.LPAREN):
		argc := p.argumentList()
		p.emitOp(chunk.Invoke)
		p.emitByte(name)
		p.emitByte(argc)
	default:
		p.emitOp2(chunk.GetProperty, name)
	}
}

// variable compiles an identifier reference or assignment, resolving it as
// a local, an upvalue, or a global in that order (spec.md §4.2).
func (p *Parser) variable(canAssign bool) {
	p.namedVariable(p.previous.Value.Raw, canAssign)
}

func (p *Parser) namedVariable(name string, canAssign bool) {
	var getOp, setOp chunk.Op
	var slot int

	if s := p.fn.resolveLocal(name); s >= 0 {
		getOp, setOp, slot = chunk.GetLocal, chunk.SetLocal, s
	} else if s := p.fn.resolveUpvalue(name); s >= 0 {
		getOp, setOp, slot = chunk.GetUpValue, chunk.SetUpValue, s
	} else {
		idx := p.identifierConstant(name)
		if canAssign && p.match(token.EQ) {
			p.expression()
			p.emitOp2(chunk.SetGlobal, idx)
			return
		}
		p.emitOp2(chunk.GetGlobal, idx)
		return
	}

	if canAssign && p.match(token.EQ) {
		p.expression()
		p.emitOp2(setOp, byte(slot))
		return
	}
	p.emitOp2(getOp, byte(slot))
}
