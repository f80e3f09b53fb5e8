// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go reference kernels for PAD, CONV_2D and
// TRANSPOSE_CONV on NHWC float32 tensors.
//
// Results are deterministic: every output element accumulates its products
// in the same fixed order on every run and platform.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/born-lite/backend/cpu"
//	    "github.com/born-ml/born-lite/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    params := cpu.DefaultConvParams()
//	    params.ActivationMin, params.ActivationMax = cpu.ActivationRange(cpu.ActRelu)
//	    err := backend.Conv(params, input, filter, nil, output)
//	}
//
// # Thread Safety
//
// The backend holds no mutable state. Concurrent calls are safe as long as
// they do not share output tensors.
package cpu

import (
	internalcpu "github.com/born-ml/born-lite/internal/backend/cpu"
)

// Backend is the CPU kernel implementation.
type Backend = internalcpu.CPUBackend

// New creates a new CPU backend.
func New() *Backend {
	return internalcpu.New()
}

// PadParams holds per-dimension padding amounts aligned to 4D.
type PadParams = internalcpu.PadParams

// PadParamsFromPairs converts (before, after) pairs in input dimension order
// into 4D-aligned PadParams.
func PadParamsFromPairs(pairs [][2]int) (PadParams, error) {
	return internalcpu.PadParamsFromPairs(pairs)
}

// ConvParams configures Conv and TransposeConv.
type ConvParams = internalcpu.ConvParams

// PaddingValues holds the implicit zero border of a convolution.
type PaddingValues = internalcpu.PaddingValues

// DefaultConvParams returns unit strides and dilations, no padding, no clamp.
func DefaultConvParams() ConvParams {
	return internalcpu.DefaultConvParams()
}

// Activation is a fused activation applied as an output clamp.
type Activation = internalcpu.Activation

// Fused activations.
const (
	ActNone      Activation = internalcpu.ActNone
	ActRelu      Activation = internalcpu.ActRelu
	ActReluN1To1 Activation = internalcpu.ActReluN1To1
	ActRelu6     Activation = internalcpu.ActRelu6
)

// ActivationRange returns the clamp bounds of act.
func ActivationRange(act Activation) (lo, hi float32) {
	return internalcpu.ActivationRange(act)
}

// ParseActivation looks up an activation by name ("RELU6", ...).
func ParseActivation(name string) (Activation, bool) {
	return internalcpu.ParseActivation(name)
}
