package ocl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"reflect"
)

// Kernel is a unit of compiled device code invoked with explicit arguments.
type Kernel struct {
	rt      *Runtime
	program *Program
	id      Handle
	Name    string
}

// LocalMemory requests a __local kernel argument of the given size in bytes.
type LocalMemory int

// SetArgs sets args at indices 0..len(args)-1 in order. It stops at the
// first argument the runtime rejects; the returned error names its index.
func SetArgs(k *Kernel, args ...any) error {
	return k.SetArgs(args...)
}

// SetArgs is the method form of the package-level SetArgs.
func (k *Kernel) SetArgs(args ...any) error {
	for i, arg := range args {
		if err := k.SetArg(i, arg); err != nil {
			return err
		}
	}
	return nil
}

// SetArg sets the kernel argument at index.
//
// A *Buffer is passed as a memory object and a LocalMemory as a __local
// allocation. Any other value must have a fixed size (sized integers,
// floats, arrays such as [4]float32 for float4, or structs of those) and is
// copied in native byte order. Go int and uint are narrowed to OpenCL's
// 32-bit int and uint.
//
// Structs must not rely on implicit alignment padding: spell it out with
// blank fields, e.g. struct{ Flag int8; _ [3]byte; Scale float32 }. OpenCL
// float3 and int3 occupy 16 bytes, so pass them as [4]float32 or [4]int32.
func (k *Kernel) SetArg(index int, value any) error {
	if k == nil || k.id == nil {
		return &Error{Op: "SetArg", Msg: "kernel is released", Err: ErrReleased}
	}

	var err error
	switch v := value.(type) {
	case *Buffer:
		if v == nil || v.id == nil {
			return k.argError(index, value, errors.New("buffer is nil or released"))
		}
		err = k.rt.driver.SetKernelArgBuffer(k.id, index, v.id)
	case LocalMemory:
		if v <= 0 {
			return k.argError(index, value, fmt.Errorf("local memory size %d must be positive", int(v)))
		}
		err = k.rt.driver.SetKernelArgLocal(k.id, index, int(v))
	default:
		data, encErr := encodeArg(value)
		if encErr != nil {
			return k.argError(index, value, encErr)
		}
		err = k.rt.driver.SetKernelArg(k.id, index, data)
	}
	if err != nil {
		return fmt.Errorf("kernel %s argument %d: %w", k.Name, index, err)
	}
	return nil
}

func (k *Kernel) argError(index int, value any, cause error) error {
	return &Error{
		Op:  "SetArg",
		Msg: fmt.Sprintf("kernel %s argument %d (%T): %v", k.Name, index, value, cause),
		Err: ErrInvalidArg,
	}
}

func encodeArg(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, errors.New("nil value")
	case bool:
		return nil, errors.New("bool is not a valid kernel argument type")
	case int:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, fmt.Errorf("%d overflows a 32-bit int", v)
		}
		value = int32(v)
	case uint:
		if v > math.MaxUint32 {
			return nil, fmt.Errorf("%d overflows a 32-bit uint", v)
		}
		value = uint32(v)
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Array, reflect.Struct:
	default:
		return nil, fmt.Errorf("%T cannot be passed by value; use a Buffer", value)
	}

	size := binary.Size(value)
	if size <= 0 {
		return nil, fmt.Errorf("%T has no fixed size", value)
	}
	// The encoding is packed; the kernel sees the C layout.
	if typeSize := reflect.TypeOf(value).Size(); uintptr(size) != typeSize {
		return nil, fmt.Errorf("%T has implicit padding (%d bytes packed, %d in memory); add explicit _ fields", value, size, typeSize)
	}
	buf := bytes.NewBuffer(make([]byte, 0, size))
	if err := binary.Write(buf, binary.NativeEndian, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Program returns the program the kernel was created from.
func (k *Kernel) Program() *Program {
	return k.program
}

// Release frees the native kernel. Calling it more than once is harmless.
func (k *Kernel) Release() {
	if k == nil || k.id == nil {
		return
	}
	k.rt.driver.ReleaseKernel(k.id)
	k.id = nil
}
