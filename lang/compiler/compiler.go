// Package compiler implements Rizon's single-pass compiler (spec.md §4.2):
// a recursive-descent driver wrapping a Pratt expression parser that emits
// bytecode directly as it parses, with no intermediate AST. This departs
// from github.com/mna/nenuphar's multi-pass scan -> parse-to-AST -> resolve
// -> compile-CFG pipeline: spec.md §4.2 requires single-pass emission
// (forward jumps reuse nenuphar's own emit-then-patch idiom from
// lang/compiler/asm.go, but there is no AST or resolver stage here). See
// DESIGN.md for the full grounding per part.
package compiler

import (
	"fmt"

	"github.com/rizonlang/rizon/lang/chunk"
	"github.com/rizonlang/rizon/lang/heap"
	"github.com/rizonlang/rizon/lang/scanner"
	"github.com/rizonlang/rizon/lang/token"
)

// Parser holds the single-pass compiler's state: the token stream, the
// chain of funcCompilers (one per nested function being compiled), and the
// panic-mode error recovery state of spec.md §4.2/§7.
type Parser struct {
	toks []scanner.TokenAndValue
	pos  int

	previous scanner.TokenAndValue
	current  scanner.TokenAndValue
	line     int

	heap *heap.Heap

	fn *funcCompiler // the innermost funcCompiler, i.e. the function presently being compiled

	hadError    bool
	panicMode   bool
	diagnostics []string
}

// Compile compiles Rizon source text into a top-level Function, implementing
// spec.md §4.2 end to end. h is the heap used to intern string constants;
// it should be the same heap the VM that will run the result uses, so that
// interned strings are shared between compile-time constants and run-time
// values (one shared interning table, the same as nenuphar's own).
func Compile(src string, h *heap.Heap) (*heap.Function, error) {
	toks := scanner.New(src).ScanAll()

	p := &Parser{toks: toks, heap: h}
	p.current = p.toks[0]
	p.pos = 1

	fn := newFuncCompiler(nil, funcScript, "")
	p.fn = fn

	for !p.check(token.EOF) {
		p.declaration()
	}
	p.consume(token.EOF, "expect end of expression")

	p.emitReturn()

	if p.hadError {
		return nil, &Error{Diagnostics: p.diagnostics}
	}
	return h.NewFunction(fn.chunk, 0, fn.upvalues, nil), nil
}

// -- token stream plumbing --

func (p *Parser) advance() {
	p.previous = p.current
	for {
		if p.pos >= len(p.toks) {
			p.current = scanner.TokenAndValue{Token: token.EOF}
			break
		}
		p.current = p.toks[p.pos]
		p.pos++
		if p.current.Token != token.ILLEGAL {
			break
		}
		p.errorAtCurrent(p.current.Value.Raw)
	}
	p.line = p.current.Line
}

func (p *Parser) check(tok token.Token) bool { return p.current.Token == tok }

func (p *Parser) match(tok token.Token) bool {
	if !p.check(tok) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(tok token.Token, msg string) {
	if p.current.Token == tok {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

// -- error reporting --

func (p *Parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg) }
func (p *Parser) errorAtPrevious(msg string) { p.errorAt(p.previous, msg) }

func (p *Parser) errorAt(tv scanner.TokenAndValue, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true
	lexeme := tv.Value.Raw
	if tv.Token == token.EOF {
		lexeme = "end of file"
	}
	p.diagnostics = append(p.diagnostics, fmt.Sprintf("[line %d] Error at '%s': %s", tv.Line, lexeme, msg))
}

// synchronize implements spec.md §4.2's panic-mode recovery: resume at the
// next statement boundary so further errors can be reported in the same
// pass.
func (p *Parser) synchronize() {
	p.panicMode = false
	for p.current.Token != token.EOF {
		if p.previous.Token == token.SEMI {
			return
		}
		switch p.current.Token {
		case token.STRUCT, token.FN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

// -- expression parsing --

func (p *Parser) parsePrecedence(prec precedence) {
	p.advance()
	rule := getRule(p.previous.Token)
	if rule.prefix == nil {
		p.errorAtPrevious("expect expression")
		return
	}
	canAssign := prec <= precAssignment
	rule.prefix(p, canAssign)

	for prec <= getRule(p.current.Token).precedence {
		p.advance()
		infix := getRule(p.previous.Token).infix
		infix(p, canAssign)
	}

	if canAssign && p.match(token.EQ) {
		p.errorAtPrevious("invalid assignment target")
	}
}

func (p *Parser) expression() { p.parsePrecedence(precAssignment) }
