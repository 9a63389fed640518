package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeader_SetKeepsFirstPosition(t *testing.T) {
	h := NewHeader("A", "1", "B", "2")
	h.Set("A", "3")

	assert.Equal(t, []string{"A", "B"}, h.Names())
	v, ok := h.Get("A")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
}

func TestHeader_GetIsExact(t *testing.T) {
	h := NewHeader("Content-Length", "5")

	_, ok := h.Get("content-length")
	assert.False(t, ok)

	v, ok := h.Value("content-length")
	assert.True(t, ok)
	assert.Equal(t, "5", v)
}

func TestHeader_ValuePrefersExactThenLatest(t *testing.T) {
	h := NewHeader("x-a", "lower", "X-A", "upper", "X-a", "mixed")

	v, _ := h.Value("X-A")
	assert.Equal(t, "upper", v)

	v, _ = h.Value("x-A")
	assert.Equal(t, "mixed", v)
}

func TestHeader_ZeroValue(t *testing.T) {
	var h Header
	assert.Equal(t, 0, h.Len())
	_, ok := h.Value("anything")
	assert.False(t, ok)

	for range h.All() {
		t.Fatal("zero header should not yield")
	}
}

func TestHeader_CloneIsIndependent(t *testing.T) {
	h := NewHeader("A", "1")
	c := h.Clone()
	c.Set("B", "2")
	c.Set("A", "changed")

	assert.Equal(t, 1, h.Len())
	v, _ := h.Get("A")
	assert.Equal(t, "1", v)
}

func TestNewHeader_IgnoresDanglingName(t *testing.T) {
	h := NewHeader("A", "1", "B")
	assert.Equal(t, []string{"A"}, h.Names())
}
