package cpu

import (
	"github.com/born-ml/born-lite/internal/tensor"
)

// convDims are the extents shared by Conv and TransposeConv.
type convDims struct {
	batches      int
	inputHeight  int
	inputWidth   int
	inputDepth   int
	filterHeight int
	filterWidth  int
	outputHeight int
	outputWidth  int
	outputDepth  int
}

// checkConvOperands validates input [N,H,W,Cin], filter [Cout,FH,FW,Cin] and
// output [N,OH,OW,Cout].
func checkConvOperands(op string, input, filter, output *tensor.RawTensor) (convDims, error) {
	var d convDims
	for _, t := range []struct {
		name string
		raw  *tensor.RawTensor
	}{{"input", input}, {"filter", filter}, {"output", output}} {
		if t.raw.Rank() != 4 {
			return d, tensor.Errorf(op, tensor.ErrUnsupportedRank, "%s must be 4D NHWC, got %dD", t.name, t.raw.Rank())
		}
		if t.raw.DType() != tensor.Float32 {
			return d, tensor.Errorf(op, tensor.ErrUnsupportedType, "%s is %s, only float32 supported", t.name, t.raw.DType())
		}
	}

	in, f, out := input.Shape(), filter.Shape(), output.Shape()
	var ok bool
	if d.batches, ok = tensor.MatchingDim(in, 0, out, 0); !ok {
		return d, tensor.Errorf(op, tensor.ErrShapeMismatch, "input batch %d != output batch %d", in[0], out[0])
	}
	if d.inputDepth, ok = tensor.MatchingDim(in, 3, f, 3); !ok {
		return d, tensor.Errorf(op, tensor.ErrShapeMismatch, "input depth %d != filter depth %d", in[3], f[3])
	}
	if d.outputDepth, ok = tensor.MatchingDim(f, 0, out, 3); !ok {
		return d, tensor.Errorf(op, tensor.ErrShapeMismatch, "filter output channels %d != output depth %d", f[0], out[3])
	}
	d.inputHeight, d.inputWidth = in[1], in[2]
	d.filterHeight, d.filterWidth = f[1], f[2]
	d.outputHeight, d.outputWidth = out[1], out[2]
	return d, nil
}

// Conv performs direct 2D convolution over NHWC tensors.
//
// Input shape: [batch, in_height, in_width, in_depth]
// Filter shape: [out_depth, filter_height, filter_width, in_depth]
// Bias shape: [out_depth] (optional, may be nil)
// Output shape: [batch, out_height, out_width, out_depth]
//
// The output shape is chosen by the caller and is not resized. For every
// output element the filter window starts at out*stride - padding; a tap at
// origin + dilation*filter_offset that falls outside the input contributes
// nothing. Bias is added after accumulation and the sum is clamped to
// [ActivationMin, ActivationMax].
//
// The loop order (batch, out_y, out_x, out_channel, filter_y, filter_x,
// in_channel) fixes the float32 accumulation order, so results are
// reproducible bit for bit.
func (cpu *CPUBackend) Conv(params ConvParams, input, filter, bias, output *tensor.RawTensor) error {
	const op = "conv"

	d, err := checkConvOperands(op, input, filter, output)
	if err != nil {
		return err
	}
	if err := params.validateConv(op); err != nil {
		return err
	}

	var biasData []float32
	if bias != nil {
		if bias.DType() != tensor.Float32 {
			return tensor.Errorf(op, tensor.ErrUnsupportedType, "bias is %s, only float32 supported", bias.DType())
		}
		if bias.NumElements() != d.outputDepth {
			return tensor.Errorf(op, tensor.ErrShapeMismatch, "bias has %d elements, output depth is %d",
				bias.NumElements(), d.outputDepth)
		}
		biasData = bias.AsFloat32()
	}

	convFloat32(params, d, input.Shape(), filter.Shape(), output.Shape(),
		input.AsFloat32(), filter.AsFloat32(), biasData, output.AsFloat32())
	return nil
}

func convFloat32(p ConvParams, d convDims, inShape, fShape, outShape tensor.Shape, inputData, filterData, biasData, outputData []float32) {
	for batch := 0; batch < d.batches; batch++ {
		for outY := 0; outY < d.outputHeight; outY++ {
			inYOrigin := outY*p.StrideHeight - p.Padding.Height
			for outX := 0; outX < d.outputWidth; outX++ {
				inXOrigin := outX*p.StrideWidth - p.Padding.Width
				for outChannel := 0; outChannel < d.outputDepth; outChannel++ {
					total := float32(0)
					for filterY := 0; filterY < d.filterHeight; filterY++ {
						inY := inYOrigin + p.DilationHeightFactor*filterY
						if inY < 0 || inY >= d.inputHeight {
							continue
						}
						for filterX := 0; filterX < d.filterWidth; filterX++ {
							inX := inXOrigin + p.DilationWidthFactor*filterX
							if inX < 0 || inX >= d.inputWidth {
								continue
							}
							inOff := tensor.Offset(inShape, batch, inY, inX, 0)
							fOff := tensor.Offset(fShape, outChannel, filterY, filterX, 0)
							for inChannel := 0; inChannel < d.inputDepth; inChannel++ {
								// The conversion rounds the product and keeps the compiler from fusing it into an FMA.
								total += float32(inputData[inOff+inChannel] * filterData[fOff+inChannel])
							}
						}
					}
					biasValue := float32(0)
					if biasData != nil {
						biasValue = biasData[outChannel]
					}
					outputData[tensor.Offset(outShape, batch, outY, outX, outChannel)] =
						activationWithMinMax(total+biasValue, p.ActivationMin, p.ActivationMax)
				}
			}
		}
	}
}
