package ocl

import (
	"fmt"
	"unsafe"
)

// Buffer is a region of device memory used for __global kernel arguments.
type Buffer struct {
	rt    *Runtime
	ctx   *Context
	id    Handle
	Size  int
	Flags MemFlags
}

// Scalar is the set of element types that can be copied to and from buffers
// without conversion.
type Scalar interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Bytes views s as raw bytes without copying.
func Bytes[T Scalar](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(zero)))
}

// NewBuffer allocates an uninitialised buffer of size bytes.
func (c *Context) NewBuffer(flags MemFlags, size int) (*Buffer, error) {
	return c.newBuffer(flags, size, nil)
}

// NewBufferFrom allocates a buffer initialised with a copy of data.
func (c *Context) NewBufferFrom(flags MemFlags, data []byte) (*Buffer, error) {
	return c.newBuffer(flags, len(data), data)
}

// NewBufferOf allocates a buffer initialised with a copy of values.
func NewBufferOf[T Scalar](c *Context, flags MemFlags, values []T) (*Buffer, error) {
	return c.NewBufferFrom(flags, Bytes(values))
}

func (c *Context) newBuffer(flags MemFlags, size int, host []byte) (*Buffer, error) {
	if c == nil || c.id == nil {
		return nil, &Error{Op: "NewBuffer", Msg: "context is released", Err: ErrReleased}
	}
	if size <= 0 {
		return nil, &Error{Op: "NewBuffer", Status: StatusInvalidBufferSize, Msg: fmt.Sprintf("buffer size %d must be positive", size)}
	}
	if flags == 0 {
		flags = MemReadWrite
	}

	id, err := c.rt.driver.CreateBuffer(c.id, flags, size, host)
	if err != nil {
		return nil, err
	}
	return &Buffer{rt: c.rt, ctx: c, id: id, Size: size, Flags: flags}, nil
}

// Release frees the device memory. Calling it more than once is harmless.
func (b *Buffer) Release() {
	if b == nil || b.id == nil {
		return
	}
	b.rt.driver.ReleaseBuffer(b.id)
	b.id = nil
}
