package mem

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fagongzi/util/hack"
	"github.com/jazzfool/buddy"
)

const (
	defaultMinGrowSize = 256
)

// Option bytebuf option
type Option func(*ByteBuf)

// WithMemAllocator Set the memory allocator, when ByteBuf is initialized, it
// needs to allocate a []byte of the size specified by capacity from memory.
// When ByteBuf.Close is called, the memory will be freed back to the
// allocator.
func WithMemAllocator(alloc Allocator) Option {
	return func(bb *ByteBuf) {
		bb.options.alloc = alloc
	}
}

// WithMinGrowSize set minimum grow size. When there is not enough space left
// in the ByteBuf, write data needs to be expanded.
func WithMinGrowSize(minGrowSize int) Option {
	return func(bb *ByteBuf) {
		bb.options.minGrowSize = minGrowSize
	}
}

var (
	_ io.Writer = (*ByteBuf)(nil)
	_ io.Reader = (*ByteBuf)(nil)
)

// ByteBuf is a reusable buffer that holds an internal []byte and maintains 2
// indexes for read and write data.
//
// | discardable bytes  |   readable bytes   |   writeable bytes  |
// |                    |                    |                    |
// 0      <=       readerIndex    <=     writerIndex    <=     capacity
//
// The internal []byte comes from an Allocator, so a ByteBuf backed by an
// Arena lives inside the arena's slab. Writes that outgrow the current
// allocation move the buffer to a bigger allocation, when the allocator has
// no space left the write fails instead of panicking.
type ByteBuf struct {
	buf         []byte
	readerIndex int
	writerIndex int

	options struct {
		alloc       Allocator
		minGrowSize int
	}
}

// NewByteBuf create bytebuf with options
func NewByteBuf(capacity int, opts ...Option) *ByteBuf {
	b := &ByteBuf{}
	for _, opt := range opts {
		opt(b)
	}
	b.adjust()
	b.buf = b.options.alloc.Allocate(capacity)
	return b
}

func (b *ByteBuf) adjust() {
	if b.options.alloc == nil {
		b.options.alloc = NewNonReusableAllocator()
	}
	if b.options.minGrowSize == 0 {
		b.options.minGrowSize = defaultMinGrowSize
	}
}

// Close close the ByteBuf, the internal []byte is freed back to the
// allocator.
func (b *ByteBuf) Close() {
	b.options.alloc.Free(b.buf)
	b.buf = nil
}

// Reset reset to reuse.
func (b *ByteBuf) Reset() {
	b.readerIndex = 0
	b.writerIndex = 0
}

// Readable return the number of bytes that can be read.
func (b *ByteBuf) Readable() int {
	return b.writerIndex - b.readerIndex
}

// Writeable return how many bytes can be written into buf before growing
func (b *ByteBuf) Writeable() int {
	return b.capacity() - b.writerIndex
}

// ReadByte read a byte from buf
func (b *ByteBuf) ReadByte() (byte, error) {
	if b.Readable() == 0 {
		return 0, io.EOF
	}

	v := b.buf[b.readerIndex]
	b.readerIndex++
	return v, nil
}

// ReadBytes read bytes from buf. It's will copy the data to a new byte array.
func (b *ByteBuf) ReadBytes(n int) (readed int, data []byte) {
	readed = n
	if readed > b.Readable() {
		readed = b.Readable()
	}
	if readed == 0 {
		return
	}

	data = make([]byte, readed)
	copy(data, b.buf[b.readerIndex:b.readerIndex+readed])
	b.readerIndex += readed
	return
}

// ReadAll read all readable bytes.
func (b *ByteBuf) ReadAll() (readed int, data []byte) {
	return b.ReadBytes(b.Readable())
}

// ReadUint32 get uint32 value from buf
func (b *ByteBuf) ReadUint32() uint32 {
	if b.Readable() < 4 {
		panic(fmt.Sprintf("read uint32, but readable is %d", b.Readable()))
	}

	b.readerIndex += 4
	return binary.BigEndian.Uint32(b.buf[b.readerIndex-4 : b.readerIndex])
}

// Read implemented io.Reader interface. return n, nil or 0, io.EOF is successful
func (b *ByteBuf) Read(dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	n := b.Readable()
	if n == 0 {
		return 0, io.EOF
	}
	if n > len(dst) {
		n = len(dst)
	}
	copy(dst, b.buf[b.readerIndex:b.readerIndex+n])
	b.readerIndex += n
	return n, nil
}

// Write implemented io.Writer interface
func (b *ByteBuf) Write(src []byte) (int, error) {
	n := len(src)
	if err := b.grow(n); err != nil {
		return 0, err
	}
	copy(b.buf[b.writerIndex:], src)
	b.writerIndex += n
	return n, nil
}

// WriteByte write a byte value into buf.
func (b *ByteBuf) WriteByte(v byte) error {
	if err := b.grow(1); err != nil {
		return err
	}
	b.buf[b.writerIndex] = v
	b.writerIndex++
	return nil
}

// WriteString write a string value to buf
func (b *ByteBuf) WriteString(v string) error {
	_, err := b.Write(hack.StringToSlice(v))
	return err
}

// WriteUint32 write uint32 into buf
func (b *ByteBuf) WriteUint32(v uint32) error {
	if err := b.grow(4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(b.buf[b.writerIndex:b.writerIndex+4], v)
	b.writerIndex += 4
	return nil
}

// MustWrite is similar to Write, but panic if encounter an error.
func (b *ByteBuf) MustWrite(value []byte) {
	if _, err := b.Write(value); err != nil {
		panic(err)
	}
}

// grow makes room for n more bytes. The readable bytes move to the start
// of a bigger allocation and the old allocation is freed back to the
// allocator.
func (b *ByteBuf) grow(n int) error {
	free := b.Writeable()
	if free >= n {
		return nil
	}

	current := b.capacity()
	step := current / 2
	if step < b.options.minGrowSize {
		step = b.options.minGrowSize
	}

	size := current + (n - free)
	target := current
	for target <= size {
		target += step
	}

	newBuf := b.options.alloc.Allocate(target)
	if newBuf == nil {
		return buddy.ErrNoSpace
	}

	offset := b.writerIndex - b.readerIndex
	copy(newBuf, b.buf[b.readerIndex:b.writerIndex])
	b.readerIndex = 0
	b.writerIndex = offset

	b.options.alloc.Free(b.buf)
	b.buf = newBuf
	return nil
}

func (b *ByteBuf) capacity() int {
	return len(b.buf)
}
