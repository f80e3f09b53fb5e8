package ops

import (
	"github.com/born-ml/born-lite/internal/backend/cpu"
	"github.com/born-ml/born-lite/internal/tensor"
)

// padKernel implements PAD.
//
// The output shape depends on the paddings values. When the paddings tensor
// is constant, Prepare resizes the output eagerly. Otherwise Prepare marks the
// output dynamic and Eval resizes it right before computing, once the
// paddings are readable.
type padKernel struct{}

type padOperands struct {
	input    *tensor.RawTensor
	paddings *tensor.RawTensor
	constant *tensor.RawTensor // nil when absent
	output   *tensor.RawTensor
}

func padOperandsOf(node *Node) (padOperands, error) {
	if err := node.checkArity("pad", 2, 3); err != nil {
		return padOperands{}, err
	}
	return padOperands{
		input:    node.Inputs[0],
		paddings: node.Inputs[1],
		constant: node.input(2),
		output:   node.Outputs[0],
	}, nil
}

func (padKernel) Prepare(ctx *Context, node *Node) error {
	const op = "pad"

	o, err := padOperandsOf(node)
	if err != nil {
		return err
	}
	if o.input.DType() != o.output.DType() {
		return tensor.Errorf(op, tensor.ErrUnsupportedType, "input is %s, output is %s", o.input.DType(), o.output.DType())
	}
	if o.input.DType() != tensor.Float32 {
		return tensor.Errorf(op, tensor.ErrUnsupportedType, "%s is not supported by pad", o.input.DType())
	}
	if o.constant != nil && o.constant.DType() != o.input.DType() {
		return tensor.Errorf(op, tensor.ErrUnsupportedType, "constant value is %s, input is %s", o.constant.DType(), o.input.DType())
	}
	if rank := o.input.Rank(); rank < 1 || rank > tensor.MaxRank {
		return tensor.Errorf(op, tensor.ErrUnsupportedRank, "input rank %d, must be 1 to %d", rank, tensor.MaxRank)
	}

	if !o.paddings.IsConstant() {
		o.output.MarkDynamic()
		ctx.Logger.Debug("pad output deferred to eval", "node", node.Name)
		return nil
	}
	return resizePadOutput(o)
}

func (padKernel) Eval(ctx *Context, node *Node) error {
	const op = "pad"

	o, err := padOperandsOf(node)
	if err != nil {
		return err
	}
	if o.constant != nil && o.constant.NumElements() != 1 {
		return tensor.Errorf(op, tensor.ErrScalarCardinality, "constant value has %d elements", o.constant.NumElements())
	}

	if o.output.IsDynamic() {
		if err := resizePadOutput(o); err != nil {
			return err
		}
		ctx.Logger.Debug("pad output resized", "node", node.Name, "shape", o.output.Shape())
	}

	pairs, err := PairsFromTensor(o.paddings)
	if err != nil {
		return err
	}
	params, err := cpu.PadParamsFromPairs(pairs)
	if err != nil {
		return err
	}

	switch o.input.DType() {
	case tensor.Float32:
		var padValue float32
		if o.constant != nil {
			if o.constant.DType() != tensor.Float32 {
				return tensor.Errorf(op, tensor.ErrUnsupportedType, "constant value is %s, input is float32", o.constant.DType())
			}
			padValue = o.constant.AsFloat32()[0]
		}
		return ctx.Backend.Pad(params, o.input, o.output, padValue)
	default:
		return tensor.Errorf(op, tensor.ErrUnsupportedType, "%s is not supported by pad", o.input.DType())
	}
}

// resizePadOutput resolves the output shape from the current paddings values.
func resizePadOutput(o padOperands) error {
	pairs, err := PairsFromTensor(o.paddings)
	if err != nil {
		return err
	}
	shape, err := ResolvePadShape(o.input.Shape(), pairs)
	if err != nil {
		return err
	}
	return o.output.Resize(shape)
}
