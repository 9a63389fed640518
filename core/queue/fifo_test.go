package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFO_Order(t *testing.T) {
	q := New[int](2)

	for i := 0; i < 10; i++ {
		q.Push(i)
	}
	require.Equal(t, 10, q.Len())

	for i := 0; i < 10; i++ {
		v, err := q.Pop()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, 0, q.Len())
}

func TestFIFO_PopEmpty(t *testing.T) {
	q := New[string](0)

	_, err := q.Pop()
	assert.ErrorIs(t, err, ErrEmpty)

	q.Push("a")
	_, err = q.Pop()
	require.NoError(t, err)

	_, err = q.Pop()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestFIFO_WrapAround(t *testing.T) {
	q := New[int](4)

	// Move head into the middle of the ring before growing
	q.Push(1)
	q.Push(2)
	q.Push(3)
	_, _ = q.Pop()
	_, _ = q.Pop()

	for i := 4; i <= 9; i++ {
		q.Push(i)
	}

	var got []int
	for q.Len() > 0 {
		v, err := q.Pop()
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 9}, got)
}

func TestFIFO_ZeroValueUsable(t *testing.T) {
	var q FIFO[int]
	q.Push(7)

	v, err := q.Pop()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestFIFO_Drain(t *testing.T) {
	q := New[int](4)
	assert.Empty(t, q.Drain())

	// Wrap around the ring before draining
	for i := 0; i < 3; i++ {
		q.Push(i)
	}
	_, _ = q.Pop()
	_, _ = q.Pop()
	q.Push(3)
	q.Push(4)
	q.Push(5)

	assert.Equal(t, []int{2, 3, 4, 5}, q.Drain())
	assert.Equal(t, 0, q.Len())
	_, err := q.Pop()
	assert.ErrorIs(t, err, ErrEmpty)
}
