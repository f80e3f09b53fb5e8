// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/born-lite/internal/tensor"
)

// MaxRank is the highest rank any kernel accepts.
const MaxRank = tensor.MaxRank

// DataType represents the element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Int8    DataType = tensor.Int8
	Bool    DataType = tensor.Bool
)

// Shape represents the dimensions of a tensor, outermost first.
// Example: Shape{1, 8, 8, 3} is one 8×8 image with 3 channels (NHWC).
type Shape = tensor.Shape

// RawTensor is a flat tensor buffer with shape, type and allocation state.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
//	data := raw.AsFloat32() // zero-copy view
type RawTensor = tensor.RawTensor

// Allocation describes how a tensor's storage is managed.
type Allocation = tensor.Allocation

// Allocation kinds.
const (
	Arena    Allocation = tensor.Arena
	Constant Allocation = tensor.Constant
	Dynamic  Allocation = tensor.Dynamic
)

// ShapeState reports whether a tensor's shape is known.
type ShapeState = tensor.ShapeState

// Shape states.
const (
	ShapeResolved ShapeState = tensor.ShapeResolved
	ShapeUnknown  ShapeState = tensor.ShapeUnknown
)

// KernelError describes a rejected kernel invocation.
type KernelError = tensor.KernelError

// Error kinds. Use errors.Is to classify kernel failures.
var (
	ErrShapeMismatch     = tensor.ErrShapeMismatch
	ErrInvalidPadding    = tensor.ErrInvalidPadding
	ErrUnsupportedRank   = tensor.ErrUnsupportedRank
	ErrUnsupportedType   = tensor.ErrUnsupportedType
	ErrScalarCardinality = tensor.ErrScalarCardinality
	ErrInvalidParams     = tensor.ErrInvalidParams
	ErrUnsupportedOp     = tensor.ErrUnsupportedOp
)

// NewRaw creates a zero-initialized tensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromFloat32 creates a float32 tensor holding a copy of data.
func FromFloat32(data []float32, shape Shape) (*RawTensor, error) {
	return tensor.FromFloat32(data, shape)
}

// FromInt32 creates an int32 tensor holding a copy of data.
func FromInt32(data []int32, shape Shape) (*RawTensor, error) {
	return tensor.FromInt32(data, shape)
}

// FromInt64 creates an int64 tensor holding a copy of data.
func FromInt64(data []int64, shape Shape) (*RawTensor, error) {
	return tensor.FromInt64(data, shape)
}

// ParseDataType looks up a data type by name ("float32", "int32", ...).
func ParseDataType(name string) (DataType, bool) {
	return tensor.ParseDataType(name)
}
