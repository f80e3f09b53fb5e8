package cpu

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/born-ml/born-lite/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestConv_PointwiseScale tests a 1x1 filter scaling every pixel.
func TestConv_PointwiseScale(t *testing.T) {
	input := fromFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	filter := fromFloat32(t, []float32{5}, tensor.Shape{1, 1, 1, 1})
	bias := fromFloat32(t, []float32{0}, tensor.Shape{1})
	output := zeros(t, tensor.Shape{1, 2, 2, 1})

	require.NoError(t, New().Conv(DefaultConvParams(), input, filter, bias, output))

	assert.Equal(t, []float32{5, 10, 15, 20}, output.AsFloat32())
}

// TestConv_IdentityPassThrough tests that a 1x1 filter of 1 copies a single channel.
func TestConv_IdentityPassThrough(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	input := randomTensor(t, rng, tensor.Shape{2, 3, 4, 1})
	filter := fromFloat32(t, []float32{1}, tensor.Shape{1, 1, 1, 1})
	output := zeros(t, tensor.Shape{2, 3, 4, 1})

	require.NoError(t, New().Conv(DefaultConvParams(), input, filter, nil, output))

	assert.Equal(t, input.AsFloat32(), output.AsFloat32())
}

// TestConv_WithPadding tests zero-padding semantics at the borders.
func TestConv_WithPadding(t *testing.T) {
	input := filled(t, tensor.Shape{1, 3, 3, 1}, 1)
	filter := filled(t, tensor.Shape{1, 3, 3, 1}, 1)
	output := zeros(t, tensor.Shape{1, 3, 3, 1})

	params := DefaultConvParams()
	params.Padding = PaddingValues{Height: 1, Width: 1}
	require.NoError(t, New().Conv(params, input, filter, nil, output))

	// Sum of valid taps in each 3x3 window: corners 4, edges 6, center 9.
	assert.Equal(t, []float32{
		4, 6, 4,
		6, 9, 6,
		4, 6, 4,
	}, output.AsFloat32())
}

// TestConv_WithStride tests stride 2 with a 2x2 summing filter.
func TestConv_WithStride(t *testing.T) {
	data := make([]float32, 16)
	for i := range data {
		data[i] = float32(i + 1)
	}
	input := fromFloat32(t, data, tensor.Shape{1, 4, 4, 1})
	filter := filled(t, tensor.Shape{1, 2, 2, 1}, 1)
	output := zeros(t, tensor.Shape{1, 2, 2, 1})

	params := DefaultConvParams()
	params.StrideHeight, params.StrideWidth = 2, 2
	require.NoError(t, New().Conv(params, input, filter, nil, output))

	// [1 2 5 6]=14, [3 4 7 8]=22, [9 10 13 14]=46, [11 12 15 16]=54
	assert.Equal(t, []float32{14, 22, 46, 54}, output.AsFloat32())
}

// TestConv_WithDilation tests that dilation spreads the filter taps.
func TestConv_WithDilation(t *testing.T) {
	input := fromFloat32(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{1, 3, 3, 1})
	filter := filled(t, tensor.Shape{1, 2, 2, 1}, 1)
	output := zeros(t, tensor.Shape{1, 1, 1, 1})

	params := DefaultConvParams()
	params.DilationHeightFactor, params.DilationWidthFactor = 2, 2
	require.NoError(t, New().Conv(params, input, filter, nil, output))

	// Corners only: 1 + 3 + 7 + 9.
	assert.Equal(t, []float32{20}, output.AsFloat32())
}

// TestConv_ChannelsAndBias tests channel mixing and per-channel bias.
func TestConv_ChannelsAndBias(t *testing.T) {
	input := fromFloat32(t, []float32{1, 2}, tensor.Shape{1, 1, 1, 2})
	filter := fromFloat32(t, []float32{
		1, 1,  // out channel 0
		2, -1, // out channel 1
	}, tensor.Shape{2, 1, 1, 2})
	bias := fromFloat32(t, []float32{0.5, -1}, tensor.Shape{2})
	output := zeros(t, tensor.Shape{1, 1, 1, 2})

	require.NoError(t, New().Conv(DefaultConvParams(), input, filter, bias, output))

	assert.Equal(t, []float32{3.5, -1}, output.AsFloat32())
}

// TestConv_Relu6Clamp tests clamping at both ReLU6 boundaries.
func TestConv_Relu6Clamp(t *testing.T) {
	input := fromFloat32(t, []float32{-3, 0, 3, 6, 9}, tensor.Shape{1, 1, 5, 1})
	filter := fromFloat32(t, []float32{1}, tensor.Shape{1, 1, 1, 1})
	output := zeros(t, tensor.Shape{1, 1, 5, 1})

	params := DefaultConvParams()
	params.ActivationMin, params.ActivationMax = ActivationRange(ActRelu6)
	require.NoError(t, New().Conv(params, input, filter, nil, output))

	assert.Equal(t, []float32{0, 0, 3, 6, 6}, output.AsFloat32())
}

// TestConv_OutputInsideClampRange checks the clamp post-condition on random data.
func TestConv_OutputInsideClampRange(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	backend := New()

	for iter := 0; iter < 20; iter++ {
		input := randomTensor(t, rng, tensor.Shape{1, 5, 5, 3})
		filter := randomTensor(t, rng, tensor.Shape{4, 3, 3, 3})
		bias := randomTensor(t, rng, tensor.Shape{4})
		output := zeros(t, tensor.Shape{1, 5, 5, 4})

		params := DefaultConvParams()
		params.Padding = PaddingValues{Height: 1, Width: 1}
		params.ActivationMin, params.ActivationMax = -0.25, 0.5
		require.NoError(t, backend.Conv(params, input, filter, bias, output))

		for i, v := range output.AsFloat32() {
			if v < params.ActivationMin || v > params.ActivationMax {
				t.Fatalf("iter %d: output[%d] = %v outside [%v, %v]", iter, i, v, params.ActivationMin, params.ActivationMax)
			}
		}
	}
}

// TestConv_PointwiseMatchesMatMul cross-checks a 1x1 convolution against a
// dense matrix product: [N*H*W, Cin] x [Cin, Cout].
func TestConv_PointwiseMatchesMatMul(t *testing.T) {
	const n, h, w, cin, cout = 2, 3, 4, 5, 3
	rng := rand.New(rand.NewSource(5))
	input := randomTensor(t, rng, tensor.Shape{n, h, w, cin})
	filter := randomTensor(t, rng, tensor.Shape{cout, 1, 1, cin})
	output := zeros(t, tensor.Shape{n, h, w, cout})

	require.NoError(t, New().Conv(DefaultConvParams(), input, filter, nil, output))

	x := mat.NewDense(n*h*w, cin, toFloat64(input.AsFloat32()))
	f := mat.NewDense(cout, cin, toFloat64(filter.AsFloat32()))
	var want mat.Dense
	want.Mul(x, f.T())

	got := output.AsFloat32()
	for r := 0; r < n*h*w; r++ {
		for c := 0; c < cout; c++ {
			assert.InDelta(t, want.At(r, c), float64(got[r*cout+c]), 1e-5, "row %d col %d", r, c)
		}
	}
}

// TestConv_BitExactAgainstReference compares against a straightforward
// reference that accumulates in the same order.
func TestConv_BitExactAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	input := randomTensor(t, rng, tensor.Shape{2, 7, 6, 3})
	filter := randomTensor(t, rng, tensor.Shape{4, 3, 2, 3})
	bias := randomTensor(t, rng, tensor.Shape{4})
	output := zeros(t, tensor.Shape{2, 4, 4, 4})

	params := DefaultConvParams()
	params.StrideHeight, params.StrideWidth = 2, 1
	params.DilationHeightFactor, params.DilationWidthFactor = 1, 2
	params.Padding = PaddingValues{Height: 1, Width: 1}
	require.NoError(t, New().Conv(params, input, filter, bias, output))

	want := referenceConv(params, input, filter, bias, output.Shape())
	assert.Equal(t, want, output.AsFloat32())
}

func referenceConv(p ConvParams, input, filter, bias *tensor.RawTensor, outShape tensor.Shape) []float32 {
	in, f := input.Shape(), filter.Shape()
	x, k, b := input.AsFloat32(), filter.AsFloat32(), bias.AsFloat32()
	out := make([]float32, outShape.NumElements())
	i := 0
	for n := 0; n < outShape[0]; n++ {
		for oy := 0; oy < outShape[1]; oy++ {
			for ox := 0; ox < outShape[2]; ox++ {
				for oc := 0; oc < outShape[3]; oc++ {
					var acc float32
					for fy := 0; fy < f[1]; fy++ {
						for fx := 0; fx < f[2]; fx++ {
							iy := oy*p.StrideHeight - p.Padding.Height + fy*p.DilationHeightFactor
							ix := ox*p.StrideWidth - p.Padding.Width + fx*p.DilationWidthFactor
							if iy < 0 || iy >= in[1] || ix < 0 || ix >= in[2] {
								continue
							}
							for ic := 0; ic < in[3]; ic++ {
								acc += float32(x[((n*in[1]+iy)*in[2]+ix)*in[3]+ic] * k[((oc*f[1]+fy)*f[2]+fx)*f[3]+ic])
							}
						}
					}
					out[i] = activationWithMinMax(acc+b[oc], p.ActivationMin, p.ActivationMax)
					i++
				}
			}
		}
	}
	return out
}

func toFloat64(data []float32) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}

func TestConv_Errors(t *testing.T) {
	backend := New()
	input := filled(t, tensor.Shape{1, 2, 2, 2}, 1)
	filter := filled(t, tensor.Shape{3, 1, 1, 2}, 1)

	tests := []struct {
		name   string
		call   func(out *tensor.RawTensor) error
		kind   error
		outDim tensor.Shape
	}{
		{
			name:   "BiasSize",
			call:   func(out *tensor.RawTensor) error { return backend.Conv(DefaultConvParams(), input, filter, filled(t, tensor.Shape{2}, 0), out) },
			kind:   tensor.ErrShapeMismatch,
			outDim: tensor.Shape{1, 2, 2, 3},
		},
		{
			name:   "OutputDepth",
			call:   func(out *tensor.RawTensor) error { return backend.Conv(DefaultConvParams(), input, filter, nil, out) },
			kind:   tensor.ErrShapeMismatch,
			outDim: tensor.Shape{1, 2, 2, 4},
		},
		{
			name:   "Batch",
			call:   func(out *tensor.RawTensor) error { return backend.Conv(DefaultConvParams(), input, filter, nil, out) },
			kind:   tensor.ErrShapeMismatch,
			outDim: tensor.Shape{2, 2, 2, 3},
		},
		{
			name: "InputDepth",
			call: func(out *tensor.RawTensor) error {
				return backend.Conv(DefaultConvParams(), input, filled(t, tensor.Shape{3, 1, 1, 1}, 1), nil, out)
			},
			kind:   tensor.ErrShapeMismatch,
			outDim: tensor.Shape{1, 2, 2, 3},
		},
		{
			name: "Rank",
			call: func(out *tensor.RawTensor) error {
				return backend.Conv(DefaultConvParams(), filled(t, tensor.Shape{2, 2, 2}, 1), filter, nil, out)
			},
			kind:   tensor.ErrUnsupportedRank,
			outDim: tensor.Shape{1, 2, 2, 3},
		},
		{
			name: "Stride",
			call: func(out *tensor.RawTensor) error {
				p := DefaultConvParams()
				p.StrideHeight = 0
				return backend.Conv(p, input, filter, nil, out)
			},
			kind:   tensor.ErrInvalidParams,
			outDim: tensor.Shape{1, 2, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filled(t, tt.outDim, -7)
			err := tt.call(out)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
			assertUntouched(t, out, -7)
		})
	}

	t.Run("Type", func(t *testing.T) {
		ints, err := tensor.NewRaw(tensor.Shape{1, 2, 2, 2}, tensor.Int32)
		require.NoError(t, err)
		err = backend.Conv(DefaultConvParams(), ints, filter, nil, zeros(t, tensor.Shape{1, 2, 2, 3}))
		assert.True(t, errors.Is(err, tensor.ErrUnsupportedType), "got %v", err)
	})
}
