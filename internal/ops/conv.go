package ops

import (
	"github.com/born-ml/born-lite/internal/tensor"
)

// convKernel implements CONV_2D. The host sizes the output; nothing is resized here.
type convKernel struct{}

func (convKernel) Prepare(_ *Context, node *Node) error {
	if err := node.checkArity("conv", 2, 3); err != nil {
		return err
	}
	return checkResolvedOutput("conv", node.Outputs[0])
}

func (convKernel) Eval(ctx *Context, node *Node) error {
	if err := node.checkArity("conv", 2, 3); err != nil {
		return err
	}
	return ctx.Backend.Conv(node.convOptions().Params(), node.Inputs[0], node.Inputs[1], node.input(2), node.Outputs[0])
}

// transposeConvKernel implements TRANSPOSE_CONV. Bias and activation are
// left to the host.
type transposeConvKernel struct{}

func (transposeConvKernel) Prepare(_ *Context, node *Node) error {
	if err := node.checkArity("transpose_conv", 2, 2); err != nil {
		return err
	}
	return checkResolvedOutput("transpose_conv", node.Outputs[0])
}

func (transposeConvKernel) Eval(ctx *Context, node *Node) error {
	if err := node.checkArity("transpose_conv", 2, 2); err != nil {
		return err
	}
	return ctx.Backend.TransposeConv(node.convOptions().Params(), node.Inputs[0], node.Inputs[1], node.Outputs[0])
}

func checkResolvedOutput(op string, output *tensor.RawTensor) error {
	if output.State() != tensor.ShapeResolved {
		return tensor.Errorf(op, tensor.ErrShapeMismatch, "output shape must be resolved by the host")
	}
	return nil
}
