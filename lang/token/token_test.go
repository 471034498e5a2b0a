package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		assert.NotEmpty(t, tok.String(), "token %d has no string form", tok)
	}
}

func TestGoString(t *testing.T) {
	assert.Equal(t, "'+'", PLUS.GoString())
	assert.Equal(t, "identifier", IDENT.GoString())
}

func TestIsBinop(t *testing.T) {
	assert.True(t, PLUS.IsBinop())
	assert.True(t, AND.IsBinop())
	assert.False(t, BANG.IsBinop())
	assert.False(t, LPAREN.IsBinop())
}

func TestKeywords(t *testing.T) {
	for lit, tok := range Keywords {
		require.GreaterOrEqual(t, int(tok), int(AND))
		assert.Equal(t, lit, tok.String())
	}
	assert.Equal(t, FN, Keywords["fn"])
	assert.Equal(t, STRUCT, Keywords["struct"])
	_, ok := Keywords["not_a_keyword"]
	assert.False(t, ok)
}
