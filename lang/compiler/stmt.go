package compiler

import (
	"github.com/rizonlang/rizon/lang/chunk"
	"github.com/rizonlang/rizon/lang/token"
)

// declaration parses one top-level or block-level declaration or statement,
// synchronizing at the next statement boundary on a compile error so one
// compile pass can surface multiple diagnostics (spec.md §4.2, §7).
func (p *Parser) declaration() {
	switch {
	case p.match(token.VAR):
		p.varDeclaration()
	case p.match(token.FN):
		p.fnDeclaration()
	case p.match(token.STRUCT):
		p.structDeclaration()
	default:
		p.statement()
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *Parser) statement() {
	switch {
	case p.match(token.PRINT):
		p.printStatement()
	case p.match(token.IF):
		p.ifStatement()
	case p.match(token.WHILE):
		p.whileStatement()
	case p.match(token.FOR):
		p.forStatement()
	case p.match(token.RETURN):
		p.returnStatement()
	case p.match(token.LBRACE):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *Parser) expressionStatement() {
	p.expression()
	p.consume(token.SEMI, "expect ';' after expression")
	p.emitOp(chunk.Pop)
}

func (p *Parser) printStatement() {
	p.expression()
	p.consume(token.SEMI, "expect ';' after value")
	p.emitOp(chunk.Print)
}

// -- scoping --

func (p *Parser) beginScope() { p.fn.scopeDepth++ }

// endScope pops the current scope's locals, emitting a Pop for each one
// still live on the stack, or a CloseUpValue instead for any that outlived
// the scope as an upvalue capture (spec.md §4.2: "locals leaving scope emit
// Pop, or CloseUpValue if captured").
func (p *Parser) endScope() {
	p.fn.scopeDepth--
	for len(p.fn.locals) > 0 && p.fn.locals[len(p.fn.locals)-1].depth > p.fn.scopeDepth {
		last := p.fn.locals[len(p.fn.locals)-1]
		if last.isCaptured {
			p.emitOp(chunk.CloseUpValue)
		} else {
			p.emitOp(chunk.Pop)
		}
		p.fn.locals = p.fn.locals[:len(p.fn.locals)-1]
	}
}

func (p *Parser) block() {
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		p.declaration()
	}
	p.consume(token.RBRACE, "expect '}' after block")
}

// -- var declarations --

func (p *Parser) varDeclaration() {
	name := p.parseVariable("expect variable name")

	if p.match(token.EQ) {
		p.expression()
	} else {
		p.emitOp(chunk.Null)
	}
	p.consume(token.SEMI, "expect ';' after variable declaration")
	p.defineVariable(name)
}

// parseVariable consumes an identifier and, for a local, declares it in the
// current scope; for a global it returns the name's constant-pool index.
func (p *Parser) parseVariable(msg string) byte {
	p.consume(token.IDENT, msg)
	name := p.previous.Value.Raw

	if p.fn.scopeDepth == 0 {
		return p.identifierConstant(name)
	}
	p.declareLocal(name)
	return 0
}

func (p *Parser) declareLocal(name string) {
	for i := len(p.fn.locals) - 1; i >= 0; i-- {
		l := p.fn.locals[i]
		if l.depth != -1 && l.depth < p.fn.scopeDepth {
			break
		}
		if l.name == name {
			p.errorAtPrevious("variable with this name already declared in this scope")
		}
	}
	if !p.fn.addLocal(name) {
		p.errorAtPrevious("too many local variables in function")
	}
}

// defineVariable makes a just-declared variable visible: for a local this is
// simply marking it initialized (its value is already on the stack in its
// slot); for a global it emits DefineGlobal (spec.md §4.2).
func (p *Parser) defineVariable(global byte) {
	if p.fn.scopeDepth > 0 {
		p.fn.markInitialized()
		return
	}
	p.emitOp2(chunk.DefineGlobal, global)
}

// -- control flow --

func (p *Parser) ifStatement() {
	p.consume(token.LPAREN, "expect '(' after 'if'")
	p.expression()
	p.consume(token.RPAREN, "expect ')' after condition")

	thenJump := p.emitJump(chunk.JumpIfFalse)
	p.emitOp(chunk.Pop)
	p.statement()

	elseJump := p.emitJump(chunk.Jump)
	p.patchJump(thenJump)
	p.emitOp(chunk.Pop)

	if p.match(token.ELSE) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *Parser) whileStatement() {
	loopStart := p.curChunk().Len()
	p.consume(token.LPAREN, "expect '(' after 'while'")
	p.expression()
	p.consume(token.RPAREN, "expect ')' after condition")

	exitJump := p.emitJump(chunk.JumpIfFalse)
	p.emitOp(chunk.Pop)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(chunk.Pop)
}

// forStatement compiles "for (name in expr) stmt" over an integer range
// (spec.md §4.2's recipe): compile the range expression (pushes an Int),
// emit CreateIter to convert it to a heap.Range iterator in the same slot,
// push a Null to reserve the loop variable's slot just above it, then loop
// on ForIter(slot, miss_off), which writes the next cursor value into the
// loop variable's slot and falls through, or jumps past the body when
// exhausted.
func (p *Parser) forStatement() {
	p.beginScope()
	p.consume(token.LPAREN, "expect '(' after 'for'")
	p.consume(token.IDENT, "expect loop variable name")
	name := p.previous.Value.Raw
	p.consume(token.IN, "expect 'in' after loop variable")

	p.expression()
	p.emitOp(chunk.CreateIter)
	p.declareLocal(" iter") // unspellable name: the iterator's own hidden slot
	p.fn.markInitialized()
	iterSlot := len(p.fn.locals) - 1

	p.consume(token.RPAREN, "expect ')' after iterator expression")

	p.declareLocal(name)
	p.fn.markInitialized()
	p.emitOp(chunk.Null) // reserves the slot ForIter writes each value into

	loopStart := p.curChunk().Len()
	missJump := p.emitForIter(byte(iterSlot))

	p.beginScope()
	p.statement()
	p.endScope()

	p.emitLoop(loopStart)
	p.patchJump(missJump)

	p.endScope()
}

func (p *Parser) returnStatement() {
	if p.fn.kind == funcScript {
		p.errorAtPrevious("can't return from top-level code")
	}
	if p.match(token.SEMI) {
		p.emitReturn()
		return
	}
	if p.fn.kind == funcInit {
		p.errorAtPrevious("can't return a value from an init method")
	}
	p.expression()
	p.consume(token.SEMI, "expect ';' after return value")
	p.emitOp(chunk.Return)
}

// -- functions and structs --

func (p *Parser) fnDeclaration() {
	global := p.parseVariable("expect function name")
	p.fn.markInitialized()
	p.function(funcFunction)
	p.defineVariable(global)
}

// function compiles a fn's parameter list and body as a nested funcCompiler,
// then emits Closure with a single operand, the constant-pool index of the
// compiled Function; its upvalue descriptor list is stored on that Function,
// not in the instruction stream.
func (p *Parser) function(kind funcKind) {
	name := p.previous.Value.Raw
	fc := newFuncCompiler(p.fn, kind, name)
	p.fn = fc

	p.beginScope()
	p.consume(token.LPAREN, "expect '(' after function name")
	if !p.check(token.RPAREN) {
		for {
			p.fn.arity++
			if p.fn.arity > 255 {
				p.errorAtCurrent("can't have more than 255 parameters")
			}
			paramConstant := p.parseVariable("expect parameter name")
			p.defineVariable(paramConstant)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "expect ')' after parameters")
	p.consume(token.LBRACE, "expect '{' before function body")
	p.block()
	p.emitReturn()

	compiled := p.fn
	p.fn = compiled.enclosing

	// fn.Upvalues (spec.md §3) is the Function's own upvalue descriptor
	// list; unlike a varint-encoded instruction stream, Closure's single
	// constant-index operand is enough; the VM reads the descriptor list
	// straight off the constant rather than from extra trailing bytes.
	fnValue := p.heap.NewFunction(compiled.chunk, compiled.arity, compiled.upvalues, p.heap.Intern(name))
	idx, _ := p.makeConstant(fnValue)
	p.emitOp2(chunk.Closure, idx)
}

// structDeclaration compiles "struct Name { fn method(...) {...} ... }"
// (spec.md §4.2): emit Struct(nameIdx), bind it as a local or global, then
// for each method compile it as a Function with slot 0 named "self" and
// emit Method(nameIdx) to register it on the struct value already under
// construction on the stack.
func (p *Parser) structDeclaration() {
	p.consume(token.IDENT, "expect struct name")
	nameTok := p.previous
	structConstant := p.identifierConstant(nameTok.Value.Raw)
	p.declareStructName(nameTok.Value.Raw)

	p.emitOp2(chunk.Struct, structConstant)
	p.defineVariable(structConstant)

	// Reload the struct onto the stack so each Method opcode below has a
	// receiver to register against; binding above may have stored it in a
	// global or a local slot rather than leaving it on the stack.
	p.namedVariable(nameTok.Value.Raw, false)

	p.consume(token.LBRACE, "expect '{' before struct body")
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		p.method()
	}
	p.consume(token.RBRACE, "expect '}' after struct body")
	p.emitOp(chunk.Pop) // discard the struct value reloaded above
}

func (p *Parser) declareStructName(name string) {
	if p.fn.scopeDepth > 0 {
		p.declareLocal(name)
		p.fn.markInitialized()
	}
}

func (p *Parser) method() {
	p.consume(token.FN, "expect method declaration")
	p.consume(token.IDENT, "expect method name")
	name := p.previous.Value.Raw
	nameConstant := p.identifierConstant(name)

	kind := funcMethod
	if name == "init" {
		kind = funcInit
	}
	p.function(kind)
	p.emitOp2(chunk.Method, nameConstant)
}
