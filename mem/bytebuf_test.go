package mem

import (
	"io"
	"testing"

	"github.com/jazzfool/buddy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	b := NewByteBuf(32)
	defer b.Close()

	_, err := b.Write([]byte{1, 2, 3})
	assert.NoError(t, err)
	assert.Equal(t, 3, b.Readable())

	v, err := b.ReadByte()
	assert.NoError(t, err)
	assert.Equal(t, byte(1), v)

	_, data := b.ReadAll()
	assert.Equal(t, []byte{2, 3}, data)

	_, err = b.ReadByte()
	assert.Equal(t, io.EOF, err)
}

func TestWriteString(t *testing.T) {
	b := NewByteBuf(32)
	defer b.Close()

	assert.NoError(t, b.WriteString("hello"))
	_, data := b.ReadAll()
	assert.Equal(t, "hello", string(data))
}

func TestWriteUint32(t *testing.T) {
	b := NewByteBuf(32)
	defer b.Close()

	assert.NoError(t, b.WriteUint32(0xdeadbeef))
	assert.Equal(t, 4, b.Readable())
	assert.Equal(t, uint32(0xdeadbeef), b.ReadUint32())
}

func TestExpansion(t *testing.T) {
	b := NewByteBuf(256)
	defer b.Close()

	data := make([]byte, 257)
	_, err := b.Write(data)
	assert.NoError(t, err)
	assert.Equal(t, 512, b.capacity())
}

func TestExpansionKeepsReadable(t *testing.T) {
	b := NewByteBuf(8, WithMinGrowSize(8))
	defer b.Close()

	assert.NoError(t, b.WriteString("abcd"))
	v, err := b.ReadByte()
	assert.NoError(t, err)
	assert.Equal(t, byte('a'), v)

	// Force a grow, the readable bytes move to the new allocation.
	assert.NoError(t, b.WriteString("efghijkl"))
	_, data := b.ReadAll()
	assert.Equal(t, "bcdefghijkl", string(data))
}

func TestArenaBackedByteBuf(t *testing.T) {
	a, err := NewArena(1024)
	require.NoError(t, err)
	defer a.Close()

	b := NewByteBuf(16, WithMemAllocator(a), WithMinGrowSize(16))
	assert.NoError(t, b.WriteString("hello buddy"))
	_, data := b.ReadAll()
	assert.Equal(t, "hello buddy", string(data))

	// Closing returns the allocation to the arena.
	b.Close()
	full := a.Allocate(1024)
	assert.NotNil(t, full)
}

func TestArenaBackedByteBufExhaustion(t *testing.T) {
	a, err := NewArena(64)
	require.NoError(t, err)
	defer a.Close()

	b := NewByteBuf(32, WithMemAllocator(a), WithMinGrowSize(16))
	defer b.Close()

	// Growing needs a second, bigger allocation, which the arena
	// cannot provide while the first is still held.
	data := make([]byte, 33)
	_, err = b.Write(data)
	assert.Equal(t, buddy.ErrNoSpace, err)

	// The buffer is still usable within its current capacity.
	_, err = b.Write(make([]byte, 32))
	assert.NoError(t, err)
}
