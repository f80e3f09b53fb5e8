package cpu

import (
	"github.com/born-ml/born-lite/internal/tensor"
)

// Pad writes input into output shifted by params.LeftPadding and fills every
// other output element with padValue.
//
// Input and output must have the same rank (at most 4) and output must already
// have the padded shape; tensors of rank below 4 are treated as if extended
// with leading 1s. The whole output buffer is overwritten.
func (cpu *CPUBackend) Pad(params PadParams, input, output *tensor.RawTensor, padValue float32) error {
	const op = "pad"

	if input.Rank() > tensor.MaxRank {
		return tensor.Errorf(op, tensor.ErrUnsupportedRank, "input rank %d, at most %d supported", input.Rank(), tensor.MaxRank)
	}
	if output.Rank() != input.Rank() {
		return tensor.Errorf(op, tensor.ErrShapeMismatch, "input rank %d, output rank %d", input.Rank(), output.Rank())
	}
	if input.DType() != tensor.Float32 || output.DType() != tensor.Float32 {
		return tensor.Errorf(op, tensor.ErrUnsupportedType, "input %s, output %s, only float32 supported",
			input.DType(), output.DType())
	}

	in := input.Shape().Extend4D()
	out := output.Shape().Extend4D()
	for i := 0; i < tensor.MaxRank; i++ {
		left, right := params.LeftPadding[i], params.RightPadding[i]
		if left < 0 || right < 0 {
			return tensor.Errorf(op, tensor.ErrInvalidPadding, "slot %d has padding (%d, %d)", i, left, right)
		}
		if in[i]+left+right != out[i] {
			return tensor.Errorf(op, tensor.ErrShapeMismatch, "output shape %v, expected %v padded by %v/%v",
				output.Shape(), input.Shape(), params.LeftPadding, params.RightPadding)
		}
	}

	padFloat32(output.AsFloat32(), input.AsFloat32(), in, out, params.LeftPadding, padValue)
	return nil
}

// padFloat32 walks the output in row-major order. Positions inside the
// shifted input window are met in the input's own row-major order, so the
// source index simply advances by one per copied element.
func padFloat32(dst, src []float32, in, out, left [4]int, padValue float32) {
	s, d := 0, 0
	for b := 0; b < out[0]; b++ {
		bIn := b >= left[0] && b < left[0]+in[0]
		for y := 0; y < out[1]; y++ {
			yIn := bIn && y >= left[1] && y < left[1]+in[1]
			for x := 0; x < out[2]; x++ {
				xIn := yIn && x >= left[2] && x < left[2]+in[2]
				for c := 0; c < out[3]; c++ {
					if xIn && c >= left[3] && c < left[3]+in[3] {
						dst[d] = src[s]
						s++
					} else {
						dst[d] = padValue
					}
					d++
				}
			}
		}
	}
}
