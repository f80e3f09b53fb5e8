// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor representation shared by the born-lite kernels.
//
// # Overview
//
// A RawTensor is a flat, row-major byte buffer plus a shape and a data type.
// Kernels operate on tensors of rank 1 to 4; shorter shapes are aligned to
// the innermost dimensions of a 4D shape (see Shape.Extend4D).
//
// # Basic Usage
//
//	import "github.com/born-ml/born-lite/tensor"
//
//	func main() {
//	    x, _ := tensor.FromFloat32([]float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
//	    w, _ := tensor.FromFloat32([]float32{5}, tensor.Shape{1, 1, 1, 1})
//	    w.AsConstant()
//
//	    data := x.AsFloat32() // zero-copy view
//	}
//
// # Shape Lifecycle
//
// Tensors start with a resolved shape. An operator whose output shape
// depends on runtime values marks its output dynamic during Prepare
// (MarkDynamic) and resolves it during Eval (Resize).
//
// # Errors
//
// Kernels report failures as *KernelError values wrapping one of the
// sentinel error kinds (ErrShapeMismatch, ErrInvalidPadding, ...), so callers
// can classify them with errors.Is.
package tensor
