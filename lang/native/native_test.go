package native_test

import (
	"testing"
	"time"

	"github.com/rizonlang/rizon/lang/heap"
	"github.com/rizonlang/rizon/lang/native"
	"github.com/rizonlang/rizon/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegisterer struct {
	globals map[string]value.Value
}

func newFakeRegisterer() *fakeRegisterer {
	return &fakeRegisterer{globals: map[string]value.Value{}}
}

func (f *fakeRegisterer) DefineGlobal(name string, v value.Value) { f.globals[name] = v }

func (f *fakeRegisterer) call(t *testing.T, name string, args ...value.Value) (value.Value, error) {
	t.Helper()
	fn, ok := f.globals[name].(*heap.NativeFn)
	require.True(t, ok, "no native function registered under %q", name)
	require.Equal(t, len(args), fn.Arity, "arity mismatch calling %q", name)
	return fn.Fn(args)
}

func TestRegisterInstallsStandardLibrary(t *testing.T) {
	h := heap.New()
	reg := newFakeRegisterer()
	native.Register(reg, h)

	assert.Contains(t, reg.globals, "clock")
	assert.Contains(t, reg.globals, "len")
	assert.Contains(t, reg.globals, "str")
	assert.Contains(t, reg.globals, "type")
}

func TestClockReturnsSecondsSinceEpoch(t *testing.T) {
	h := heap.New()
	reg := newFakeRegisterer()
	native.Register(reg, h)

	before := float64(time.Now().UnixNano()) / 1e9
	v, err := reg.call(t, "clock")
	require.NoError(t, err)
	after := float64(time.Now().UnixNano()) / 1e9

	f, ok := v.(value.Float)
	require.True(t, ok)
	assert.GreaterOrEqual(t, float64(f), before)
	assert.LessOrEqual(t, float64(f), after)
}

func TestLenOfString(t *testing.T) {
	h := heap.New()
	reg := newFakeRegisterer()
	native.Register(reg, h)

	v, err := reg.call(t, "len", h.Intern("hello"))
	require.NoError(t, err)
	assert.Equal(t, value.Int(5), v)
}

func TestLenOfRange(t *testing.T) {
	h := heap.New()
	reg := newFakeRegisterer()
	native.Register(reg, h)

	r := h.NewRange(5)
	v, err := reg.call(t, "len", r)
	require.NoError(t, err)
	assert.Equal(t, value.Int(5), v)
}

func TestLenOfUnsupportedTypeIsError(t *testing.T) {
	h := heap.New()
	reg := newFakeRegisterer()
	native.Register(reg, h)

	_, err := reg.call(t, "len", value.Int(1))
	require.Error(t, err)
}

func TestStrIsIdentityOnStrings(t *testing.T) {
	h := heap.New()
	reg := newFakeRegisterer()
	native.Register(reg, h)

	s := h.Intern("already a string")
	v, err := reg.call(t, "str", s)
	require.NoError(t, err)
	assert.Same(t, s, v)
}

func TestStrConvertsOtherKinds(t *testing.T) {
	h := heap.New()
	reg := newFakeRegisterer()
	native.Register(reg, h)

	v, err := reg.call(t, "str", value.Int(42))
	require.NoError(t, err)
	s, ok := v.(*heap.Str)
	require.True(t, ok)
	assert.Equal(t, "42", s.String())
}

func TestTypeOfReportsDynamicType(t *testing.T) {
	h := heap.New()
	reg := newFakeRegisterer()
	native.Register(reg, h)

	v, err := reg.call(t, "type", value.Int(1))
	require.NoError(t, err)
	s, ok := v.(*heap.Str)
	require.True(t, ok)
	assert.Equal(t, value.Int(1).Type(), s.String())
}
