package heap_test

import (
	"testing"

	"github.com/rizonlang/rizon/lang/chunk"
	"github.com/rizonlang/rizon/lang/heap"
	"github.com/rizonlang/rizon/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternSharesHandle(t *testing.T) {
	h := heap.New()
	a := h.Intern("hello")
	b := h.Intern("hello")
	assert.Same(t, a, b)
	assert.True(t, a.Equal(b))
}

func TestConcat(t *testing.T) {
	h := heap.New()
	a, b := h.Intern("foo"), h.Intern("bar")
	c := h.Concat(a, b)
	assert.Equal(t, "foobar", c.String())
}

func TestRange(t *testing.T) {
	h := heap.New()
	r := h.NewRange(3)
	var got []int64
	for !r.Done() {
		v, ok := r.Next()
		require.True(t, ok)
		got = append(got, v)
	}
	assert.Equal(t, []int64{0, 1, 2}, got)
	_, ok := r.Next()
	assert.False(t, ok)
}

func TestUpvalueOpenThenClose(t *testing.T) {
	h := heap.New()
	uv := h.NewOpenUpvalue(3)
	assert.False(t, uv.Closed())
	assert.Equal(t, 3, uv.StackSlot())

	uv.Close(value.Int(42))
	assert.True(t, uv.Closed())
	assert.Equal(t, value.Int(42), uv.Get())

	// Closing twice is a no-op: the second value never overwrites.
	uv.Close(value.Int(99))
	assert.Equal(t, value.Int(42), uv.Get())
}

func TestStructMethodsAndInstanceFields(t *testing.T) {
	h := heap.New()
	st := h.NewStruct(h.Intern("Point"))
	fn := h.NewFunction(chunk.New(), 0, nil, nil)
	closure := h.NewClosure(fn, nil)
	st.AddMethod("get", closure)

	m, ok := st.Method("get")
	require.True(t, ok)
	assert.Same(t, closure, m)

	inst := h.NewInstance(st)
	inst.SetField("x", value.Int(1))
	v, ok := inst.Field("x")
	require.True(t, ok)
	assert.Equal(t, value.Int(1), v)

	bm := h.NewBoundMethod(inst, closure)
	assert.Same(t, inst, bm.Receiver)
	assert.Same(t, closure, bm.Method)
}

func TestCollectDropsUnreachable(t *testing.T) {
	h := heap.New()
	_ = h.NewRange(1)      // unreachable after collect
	kept := h.NewRange(2)  // rooted via the stack
	_ = h.Intern("gone")   // unreachable
	live := h.Intern("stays")

	h.Collect(heap.Roots{
		Stack: []value.Value{kept, live},
	})

	stats := h.Stats()
	assert.Equal(t, 1, stats.Ranges)
	assert.Equal(t, 1, stats.Strings)
}
