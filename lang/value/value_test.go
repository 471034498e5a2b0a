package value_test

import (
	"testing"

	"github.com/rizonlang/rizon/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	v, err := value.Add(value.Int(1), value.Int(2))
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), v)

	v, err = value.Sub(value.Float(3.5), value.Float(1.5))
	require.NoError(t, err)
	assert.Equal(t, value.Float(2), v)

	v, err = value.Mul(value.Int(3), value.Int(4))
	require.NoError(t, err)
	assert.Equal(t, value.Int(12), v)

	v, err = value.Div(value.Int(7), value.Int(2))
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), v)
}

func TestDivByZero(t *testing.T) {
	_, err := value.Div(value.Int(1), value.Int(0))
	require.Error(t, err)

	_, err = value.Div(value.Float(1), value.Float(0))
	require.Error(t, err)
}

func TestArithmeticTypeMismatch(t *testing.T) {
	_, err := value.Add(value.Int(1), value.Float(2))
	assert.Error(t, err)

	_, err = value.Add(value.Int(1), value.Bool(true))
	assert.Error(t, err)
}

func TestNegateAndNot(t *testing.T) {
	v, err := value.Negate(value.Int(5))
	require.NoError(t, err)
	assert.Equal(t, value.Int(-5), v)

	_, err = value.Negate(value.Bool(true))
	assert.Error(t, err)

	v, err = value.Not(value.Bool(false))
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), v)

	_, err = value.Not(value.Int(1))
	assert.Error(t, err)
}

func TestEqual(t *testing.T) {
	v, err := value.Equal(value.Null, value.Null)
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), v)

	v, err = value.Equal(value.Int(1), value.Null)
	require.NoError(t, err)
	assert.Equal(t, value.Bool(false), v)

	v, err = value.Equal(value.Int(1), value.Int(1))
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), v)

	_, err = value.Equal(value.Int(1), value.Bool(true))
	assert.Error(t, err)
}

func TestOrdering(t *testing.T) {
	v, err := value.Less(value.Int(1), value.Int(2))
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), v)

	v, err = value.Greater(value.Float(2), value.Float(1))
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), v)

	_, err = value.Less(value.Int(1), value.Float(1))
	assert.Error(t, err)
}
