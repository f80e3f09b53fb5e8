package ops

import (
	"github.com/born-ml/born-lite/internal/tensor"
)

// ResolvePadShape returns the padded shape: out[i] = in[i] + before[i] + after[i].
//
// pairs must hold one (before, after) pair per input dimension, in input
// dimension order, with every value >= 0. The input rank must be 1 to 4.
func ResolvePadShape(input tensor.Shape, pairs [][2]int) (tensor.Shape, error) {
	const op = "pad"

	rank := len(input)
	if rank < 1 || rank > tensor.MaxRank {
		return nil, tensor.Errorf(op, tensor.ErrUnsupportedRank, "input rank %d, must be 1 to %d", rank, tensor.MaxRank)
	}
	if len(pairs) != rank {
		return nil, tensor.Errorf(op, tensor.ErrInvalidPadding, "%d padding pairs for rank %d input", len(pairs), rank)
	}

	out := make(tensor.Shape, rank)
	for i, p := range pairs {
		if p[0] < 0 || p[1] < 0 {
			return nil, tensor.Errorf(op, tensor.ErrInvalidPadding,
				"dimension %d has padding (%d, %d), values must be >= 0", i, p[0], p[1])
		}
		out[i] = input[i] + p[0] + p[1]
	}
	return out, nil
}

// PairsFromTensor reads a [rank, 2] int32 or int64 paddings tensor.
func PairsFromTensor(paddings *tensor.RawTensor) ([][2]int, error) {
	const op = "pad"

	shape := paddings.Shape()
	if len(shape) != 2 {
		return nil, tensor.Errorf(op, tensor.ErrInvalidPadding, "paddings must be 2D [rank, 2], got shape %v", shape)
	}
	if shape[1] != 2 {
		return nil, tensor.Errorf(op, tensor.ErrInvalidPadding, "paddings need 2 values per dimension, got %d", shape[1])
	}

	pairs := make([][2]int, shape[0])
	switch paddings.DType() {
	case tensor.Int32:
		data := paddings.AsInt32()
		for i := range pairs {
			pairs[i] = [2]int{int(data[2*i]), int(data[2*i+1])}
		}
	case tensor.Int64:
		data := paddings.AsInt64()
		for i := range pairs {
			pairs[i] = [2]int{int(data[2*i]), int(data[2*i+1])}
		}
	default:
		return nil, tensor.Errorf(op, tensor.ErrUnsupportedType, "paddings are %s, expected int32 or int64", paddings.DType())
	}
	return pairs, nil
}
