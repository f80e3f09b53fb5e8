package tensor

import (
	"fmt"
	"unsafe"
)

// Allocation describes who decides a tensor's shape and contents.
type Allocation int

// Allocation kinds.
const (
	// Arena tensors are shaped and allocated by the host ahead of execution.
	Arena Allocation = iota
	// Constant tensors hold values known at graph time (weights, constant paddings).
	Constant
	// Dynamic tensors get their shape during execution.
	Dynamic
)

// String returns a human-readable allocation name.
func (a Allocation) String() string {
	switch a {
	case Arena:
		return "arena"
	case Constant:
		return "constant"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// ShapeState is the output-shape lifecycle of a tensor.
type ShapeState int

// Shape states.
const (
	ShapeResolved ShapeState = iota
	ShapeUnknown
)

// String returns a human-readable state name.
func (s ShapeState) String() string {
	if s == ShapeUnknown {
		return "unknown"
	}
	return "resolved"
}

// RawTensor is a view of a flat, row-major element buffer plus its metadata.
// Kernels read the metadata and read or write the buffer; they never retain it.
type RawTensor struct {
	buffer []byte
	shape  Shape
	dtype  DataType
	alloc  Allocation
	state  ShapeState
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is zero-initialized.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &RawTensor{
		buffer: make([]byte, shape.NumElements()*dtype.Size()),
		shape:  shape.Clone(),
		dtype:  dtype,
	}, nil
}

// FromFloat32 creates a float32 tensor holding a copy of data.
func FromFloat32(data []float32, shape Shape) (*RawTensor, error) {
	r, err := newChecked(len(data), shape, Float32)
	if err != nil {
		return nil, err
	}
	copy(r.AsFloat32(), data)
	return r, nil
}

// FromInt32 creates an int32 tensor holding a copy of data.
func FromInt32(data []int32, shape Shape) (*RawTensor, error) {
	r, err := newChecked(len(data), shape, Int32)
	if err != nil {
		return nil, err
	}
	copy(r.AsInt32(), data)
	return r, nil
}

// FromInt64 creates an int64 tensor holding a copy of data.
func FromInt64(data []int64, shape Shape) (*RawTensor, error) {
	r, err := newChecked(len(data), shape, Int64)
	if err != nil {
		return nil, err
	}
	copy(r.AsInt64(), data)
	return r, nil
}

func newChecked(n int, shape Shape, dtype DataType) (*RawTensor, error) {
	r, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	if n != shape.NumElements() {
		return nil, fmt.Errorf("%w: data length %d, shape %v holds %d elements", ErrShapeMismatch, n, shape, shape.NumElements())
	}
	return r, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Rank returns the number of dimensions.
func (r *RawTensor) Rank() int {
	return len(r.shape)
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.buffer
}

// Allocation returns the allocation kind.
func (r *RawTensor) Allocation() Allocation {
	return r.alloc
}

// AsConstant marks the tensor's contents as known at graph time and returns it.
func (r *RawTensor) AsConstant() *RawTensor {
	r.alloc = Constant
	return r
}

// IsConstant reports whether the tensor's contents are known at graph time.
func (r *RawTensor) IsConstant() bool {
	return r.alloc == Constant
}

// MarkDynamic defers the tensor's shape to execution time.
// The shape stays ShapeUnknown until the next Resize.
func (r *RawTensor) MarkDynamic() {
	r.alloc = Dynamic
	r.state = ShapeUnknown
}

// IsDynamic reports whether the tensor is resized during execution.
func (r *RawTensor) IsDynamic() bool {
	return r.alloc == Dynamic
}

// State returns where the tensor is in its shape lifecycle.
func (r *RawTensor) State() ShapeState {
	return r.state
}

// Resize sets a new shape and resolves the shape lifecycle.
// The buffer is reallocated only when the current capacity is too small;
// contents are unspecified afterwards.
func (r *RawTensor) Resize(shape Shape) error {
	if err := shape.Validate(); err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	need := shape.NumElements() * r.dtype.Size()
	if cap(r.buffer) < need {
		r.buffer = make([]byte, need)
	} else {
		r.buffer = r.buffer[:need]
	}
	r.shape = shape.Clone()
	r.state = ShapeResolved
	return nil
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	n := r.NumElements()
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.buffer[0])), n)
}

// AsInt32 interprets the data as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("tensor dtype is %s, not int32", r.dtype))
	}
	n := r.NumElements()
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*int32)(unsafe.Pointer(&r.buffer[0])), n)
}

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	if r.dtype != Int64 {
		panic(fmt.Sprintf("tensor dtype is %s, not int64", r.dtype))
	}
	n := r.NumElements()
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*int64)(unsafe.Pointer(&r.buffer[0])), n)
}
