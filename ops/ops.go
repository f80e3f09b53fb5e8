// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ops provides the operator layer: a registry of PAD, CONV_2D and
// TRANSPOSE_CONV kernels with a two-phase Prepare/Eval lifecycle.
//
// Prepare validates operands and resolves output shapes when they are
// statically known. Eval computes the outputs, resolving any shape that
// Prepare deferred.
//
// Example:
//
//	registry := ops.NewRegistry()
//	ctx := ops.NewContext(ops.DefaultConfig())
//
//	node := &ops.Node{
//	    Op:      ops.OpPad,
//	    Inputs:  []*tensor.RawTensor{input, paddings},
//	    Outputs: []*tensor.RawTensor{output},
//	}
//	if err := registry.Invoke(ctx, node); err != nil {
//	    log.Fatal(err)
//	}
package ops

import (
	"github.com/born-ml/born-lite/internal/ops"
	"github.com/born-ml/born-lite/tensor"
)

// OpType identifies an operator.
type OpType = ops.OpType

// Supported operators.
const (
	OpPad           OpType = ops.OpPad
	OpConv          OpType = ops.OpConv
	OpTransposeConv OpType = ops.OpTransposeConv
)

// ParseOpType looks up an operator by name ("PAD", "CONV_2D", "TRANSPOSE_CONV").
func ParseOpType(name string) (OpType, bool) {
	return ops.ParseOpType(name)
}

// Kernel is the two-phase operator contract.
type Kernel = ops.Kernel

// Node binds an operator to its operand tensors.
type Node = ops.Node

// ConvOptions configures CONV_2D and TRANSPOSE_CONV nodes.
type ConvOptions = ops.ConvOptions

// DefaultConvOptions returns unit strides and dilations with no padding.
func DefaultConvOptions() ConvOptions {
	return ops.DefaultConvOptions()
}

// Config configures an execution context.
type Config = ops.Config

// DefaultConfig returns a configuration logging to slog.Default.
func DefaultConfig() Config {
	return ops.DefaultConfig()
}

// Context carries the backend and logger used by kernels.
type Context = ops.Context

// NewContext creates an execution context.
func NewContext(cfg Config) *Context {
	return ops.NewContext(cfg)
}

// Registry maps operators to kernels.
type Registry = ops.Registry

// NewRegistry returns a registry with all built-in kernels.
func NewRegistry() *Registry {
	return ops.NewRegistry()
}

// ResolvePadShape returns the PAD output shape for input and (before, after) pairs.
func ResolvePadShape(input tensor.Shape, pairs [][2]int) (tensor.Shape, error) {
	return ops.ResolvePadShape(input, pairs)
}
