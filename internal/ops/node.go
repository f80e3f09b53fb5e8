package ops

import (
	"github.com/born-ml/born-lite/internal/backend/cpu"
	"github.com/born-ml/born-lite/internal/tensor"
)

// Node is one operator invocation: its type, operand tensors and options.
//
// Input layouts:
//   - PAD: input, paddings [rank, 2] int32/int64, optional scalar fill value
//   - CONV_2D: input, filter, optional bias
//   - TRANSPOSE_CONV: input, filter
//
// Optional inputs may be omitted or nil. Every operator has one output.
type Node struct {
	Name    string              // Node name (optional, used in logs)
	Op      OpType              // Operation type
	Inputs  []*tensor.RawTensor // Input tensors
	Outputs []*tensor.RawTensor // Output tensors
	Conv    *ConvOptions        // CONV_2D and TRANSPOSE_CONV options; nil means defaults
}

// input returns the i-th input or nil when it is absent.
func (n *Node) input(i int) *tensor.RawTensor {
	if i >= len(n.Inputs) {
		return nil
	}
	return n.Inputs[i]
}

// checkArity verifies input and output counts, counting trailing nil inputs as absent.
func (n *Node) checkArity(op string, minIn, maxIn int) error {
	in := len(n.Inputs)
	for in > 0 && n.Inputs[in-1] == nil {
		in--
	}
	if in < minIn || in > maxIn {
		return tensor.Errorf(op, tensor.ErrInvalidParams, "expected %d to %d inputs, got %d", minIn, maxIn, in)
	}
	for i := 0; i < minIn; i++ {
		if n.Inputs[i] == nil {
			return tensor.Errorf(op, tensor.ErrInvalidParams, "required input %d is nil", i)
		}
	}
	if len(n.Outputs) != 1 || n.Outputs[0] == nil {
		return tensor.Errorf(op, tensor.ErrInvalidParams, "expected 1 output, got %d", len(n.Outputs))
	}
	return nil
}

// ConvOptions are the graph-level attributes of CONV_2D and TRANSPOSE_CONV.
type ConvOptions struct {
	StrideH    int            // Vertical stride
	StrideW    int            // Horizontal stride
	DilationH  int            // Vertical dilation (CONV_2D only)
	DilationW  int            // Horizontal dilation (CONV_2D only)
	PadH       int            // Vertical padding offset
	PadW       int            // Horizontal padding offset
	Activation cpu.Activation // Fused activation (CONV_2D only)
}

// DefaultConvOptions returns unit strides and dilations, no padding and no activation.
func DefaultConvOptions() ConvOptions {
	return ConvOptions{StrideH: 1, StrideW: 1, DilationH: 1, DilationW: 1}
}

// Params converts the options into kernel parameters.
func (o ConvOptions) Params() cpu.ConvParams {
	lo, hi := cpu.ActivationRange(o.Activation)
	return cpu.ConvParams{
		StrideHeight:         o.StrideH,
		StrideWidth:          o.StrideW,
		DilationHeightFactor: o.DilationH,
		DilationWidthFactor:  o.DilationW,
		Padding:              cpu.PaddingValues{Height: o.PadH, Width: o.PadW},
		ActivationMin:        lo,
		ActivationMax:        hi,
	}
}

func (n *Node) convOptions() ConvOptions {
	if n.Conv == nil {
		return DefaultConvOptions()
	}
	return *n.Conv
}
