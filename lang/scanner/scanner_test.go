package scanner_test

import (
	"testing"

	"github.com/rizonlang/rizon/lang/scanner"
	"github.com/rizonlang/rizon/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokens(toks []scanner.TokenAndValue) []token.Token {
	out := make([]token.Token, len(toks))
	for i, tv := range toks {
		out[i] = tv.Token
	}
	return out
}

func TestScanAll(t *testing.T) {
	toks := scanner.New(`var x = 1 + 2.5; print "hi"; // comment
if (x == true) { x = x; }`).ScanAll()

	require.NotEmpty(t, toks)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Token)
	assert.Equal(t, token.VAR, toks[0].Token)
	assert.Equal(t, token.IDENT, toks[1].Token)
	assert.Equal(t, "x", toks[1].Value.Raw)
}

func TestScanNumbers(t *testing.T) {
	toks := scanner.New("1 2.5").ScanAll()
	assert.Equal(t, token.INT, toks[0].Token)
	assert.Equal(t, int64(1), toks[0].Value.Int)
	assert.Equal(t, token.FLOAT, toks[1].Token)
	assert.Equal(t, 2.5, toks[1].Value.Float)
}

func TestScanString(t *testing.T) {
	toks := scanner.New(`"hello\nworld"`).ScanAll()
	require.Equal(t, token.STRING, toks[0].Token)
	assert.Equal(t, "hello\nworld", toks[0].Value.String)
}

func TestScanOperators(t *testing.T) {
	toks := scanner.New("== != <= >= < > = ! + - * /").ScanAll()
	want := []token.Token{
		token.EQEQ, token.BANGEQ, token.LE, token.GE, token.LT, token.GT,
		token.EQ, token.BANG, token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.EOF,
	}
	assert.Equal(t, want, tokens(toks))
}

func TestScanIllegalCharacter(t *testing.T) {
	s := scanner.New("@")
	toks := s.ScanAll()
	assert.Equal(t, token.ILLEGAL, toks[0].Token)
	assert.NotEmpty(t, s.Errors())
}

func TestScanUnterminatedString(t *testing.T) {
	s := scanner.New(`"unterminated`)
	toks := s.ScanAll()
	assert.Equal(t, token.ILLEGAL, toks[0].Token)
	assert.NotEmpty(t, s.Errors())
}
