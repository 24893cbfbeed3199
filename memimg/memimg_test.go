package memimg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFramesReplacedOnNewSeq(t *testing.T) {
	f := NewFrames()
	_, ok := f.Get(1, 100, 100, 10)
	assert.False(t, ok)

	f.Put(1, 100, 100, 10, []byte("a"))
	f.Put(1, 50, 50, 10, []byte("b"))
	data, ok := f.Get(1, 100, 100, 10)
	assert.True(t, ok)
	assert.Equal(t, []byte("a"), data)
	assert.Equal(t, 2, f.Len())

	f.Put(2, 100, 100, 10, []byte("c"))
	assert.Equal(t, 1, f.Len())
	_, ok = f.Get(1, 50, 50, 10)
	assert.False(t, ok)
	data, _ = f.Get(2, 100, 100, 10)
	assert.Equal(t, []byte("c"), data)
}
