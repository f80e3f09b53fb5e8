package cpu

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/born-ml/born-lite/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransposeConv_SingleTapStride2 tests that one input element lands on one output cell.
func TestTransposeConv_SingleTapStride2(t *testing.T) {
	input := fromFloat32(t, []float32{3}, tensor.Shape{1, 1, 1, 1})
	filter := fromFloat32(t, []float32{1}, tensor.Shape{1, 1, 1, 1})
	// Stale contents must not survive: the output is zeroed first.
	output := filled(t, tensor.Shape{1, 2, 2, 1}, 99)

	params := DefaultConvParams()
	params.StrideHeight, params.StrideWidth = 2, 2
	require.NoError(t, New().TransposeConv(params, input, filter, output))

	assert.Equal(t, []float32{3, 0, 0, 0}, output.AsFloat32())
}

// TestTransposeConv_OverlapAccumulates tests that overlapping taps add up.
func TestTransposeConv_OverlapAccumulates(t *testing.T) {
	input := fromFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	filter := filled(t, tensor.Shape{1, 2, 2, 1}, 1)
	output := zeros(t, tensor.Shape{1, 3, 3, 1})

	require.NoError(t, New().TransposeConv(DefaultConvParams(), input, filter, output))

	assert.Equal(t, []float32{
		1, 3, 2,
		4, 10, 6,
		3, 7, 4,
	}, output.AsFloat32())
}

// TestTransposeConv_StrideAndPadding tests stride 2 with a padding offset of 1.
func TestTransposeConv_StrideAndPadding(t *testing.T) {
	input := fromFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	filter := filled(t, tensor.Shape{1, 3, 3, 1}, 1)
	output := zeros(t, tensor.Shape{1, 3, 3, 1})

	params := DefaultConvParams()
	params.StrideHeight, params.StrideWidth = 2, 2
	params.Padding = PaddingValues{Height: 1, Width: 1}
	require.NoError(t, New().TransposeConv(params, input, filter, output))

	// Output row/col 0 sees input 0, row/col 1 sees inputs 0 and 1, row/col 2 sees input 1.
	assert.Equal(t, []float32{
		1, 3, 2,
		4, 10, 6,
		3, 7, 4,
	}, output.AsFloat32())
}

// TestTransposeConv_NoBiasNoClamp tests that negative sums survive untouched.
func TestTransposeConv_NoBiasNoClamp(t *testing.T) {
	input := fromFloat32(t, []float32{-2}, tensor.Shape{1, 1, 1, 1})
	filter := fromFloat32(t, []float32{1}, tensor.Shape{1, 1, 1, 1})
	output := zeros(t, tensor.Shape{1, 1, 1, 1})

	params := DefaultConvParams()
	params.ActivationMin, params.ActivationMax = ActivationRange(ActRelu6)
	require.NoError(t, New().TransposeConv(params, input, filter, output))

	assert.Equal(t, []float32{-2}, output.AsFloat32())
}

// TestTransposeConv_AdjointOfConv checks <conv(x, w), y> == <x, transposeConv(y, w')>
// where w' swaps the filter's channel axes.
func TestTransposeConv_AdjointOfConv(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	backend := New()

	const cin, cout, fh, fw = 2, 3, 3, 2
	x := randomTensor(t, rng, tensor.Shape{1, 6, 5, cin})
	w := randomTensor(t, rng, tensor.Shape{cout, fh, fw, cin})
	y := randomTensor(t, rng, tensor.Shape{1, 3, 4, cout})

	params := DefaultConvParams()
	params.StrideHeight, params.StrideWidth = 2, 1
	params.Padding = PaddingValues{Height: 1, Width: 0}

	convOut := zeros(t, y.Shape())
	require.NoError(t, backend.Conv(params, x, w, nil, convOut))

	wt := zeros(t, tensor.Shape{cin, fh, fw, cout})
	src, dst := w.AsFloat32(), wt.AsFloat32()
	for o := 0; o < cout; o++ {
		for fy := 0; fy < fh; fy++ {
			for fx := 0; fx < fw; fx++ {
				for i := 0; i < cin; i++ {
					dst[((i*fh+fy)*fw+fx)*cout+o] = src[((o*fh+fy)*fw+fx)*cin+i]
				}
			}
		}
	}
	transposeOut := zeros(t, x.Shape())
	require.NoError(t, backend.TransposeConv(params, y, wt, transposeOut))

	assert.InDelta(t, dot(convOut.AsFloat32(), y.AsFloat32()), dot(x.AsFloat32(), transposeOut.AsFloat32()), 1e-4)
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func TestTransposeConv_Errors(t *testing.T) {
	backend := New()
	input := filled(t, tensor.Shape{1, 2, 2, 2}, 1)

	t.Run("InputDepth", func(t *testing.T) {
		output := filled(t, tensor.Shape{1, 2, 2, 1}, -7)
		err := backend.TransposeConv(DefaultConvParams(), input, filled(t, tensor.Shape{1, 1, 1, 3}, 1), output)
		assert.True(t, errors.Is(err, tensor.ErrShapeMismatch), "got %v", err)
		assertUntouched(t, output, -7)
	})

	t.Run("Stride", func(t *testing.T) {
		output := filled(t, tensor.Shape{1, 2, 2, 1}, -7)
		params := DefaultConvParams()
		params.StrideWidth = 0
		err := backend.TransposeConv(params, input, filled(t, tensor.Shape{1, 1, 1, 2}, 1), output)
		assert.True(t, errors.Is(err, tensor.ErrInvalidParams), "got %v", err)
		assertUntouched(t, output, -7)
	})

	t.Run("Rank", func(t *testing.T) {
		err := backend.TransposeConv(DefaultConvParams(), input, filled(t, tensor.Shape{1, 2}, 1), zeros(t, tensor.Shape{1, 2, 2, 1}))
		assert.True(t, errors.Is(err, tensor.ErrUnsupportedRank), "got %v", err)
	})
}
