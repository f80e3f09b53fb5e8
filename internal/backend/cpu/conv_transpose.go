package cpu

import (
	"github.com/born-ml/born-lite/internal/tensor"
)

// TransposeConv performs 2D transposed convolution over NHWC tensors.
//
// Input shape: [batch, in_height, in_width, in_depth]
// Filter shape: [out_depth, filter_height, filter_width, in_depth]
// Output shape: [batch, out_height, out_width, out_depth]
//
// Algorithm: scatter. The output is zeroed, then every input element adds
// input*filter into each output position it influences,
// out = in*stride - padding + filter_offset, skipping positions outside the
// output. With non-unit strides this is the simplest correct formulation;
// expressing it as a gather over transposed weights needs stride-aware
// index inversion.
//
// No bias and no activation are applied; hosts layer those on separately.
// Dilation factors in params are ignored.
//
// Reference: "A guide to convolution arithmetic for deep learning"
// (Dumoulin & Visin, 2016).
func (cpu *CPUBackend) TransposeConv(params ConvParams, input, filter, output *tensor.RawTensor) error {
	const op = "transpose_conv"

	d, err := checkConvOperands(op, input, filter, output)
	if err != nil {
		return err
	}
	if err := params.validateStrides(op); err != nil {
		return err
	}

	transposeConvFloat32(params, d, input.Shape(), filter.Shape(), output.Shape(),
		input.AsFloat32(), filter.AsFloat32(), output.AsFloat32())
	return nil
}

func transposeConvFloat32(p ConvParams, d convDims, inShape, fShape, outShape tensor.Shape, inputData, filterData, outputData []float32) {
	clear(outputData)

	for batch := 0; batch < d.batches; batch++ {
		for inY := 0; inY < d.inputHeight; inY++ {
			outYOrigin := inY*p.StrideHeight - p.Padding.Height
			for inX := 0; inX < d.inputWidth; inX++ {
				outXOrigin := inX*p.StrideWidth - p.Padding.Width
				for inChannel := 0; inChannel < d.inputDepth; inChannel++ {
					inputValue := inputData[tensor.Offset(inShape, batch, inY, inX, inChannel)]
					for filterY := 0; filterY < d.filterHeight; filterY++ {
						outY := outYOrigin + filterY
						if outY < 0 || outY >= d.outputHeight {
							continue
						}
						for filterX := 0; filterX < d.filterWidth; filterX++ {
							outX := outXOrigin + filterX
							if outX < 0 || outX >= d.outputWidth {
								continue
							}
							for outChannel := 0; outChannel < d.outputDepth; outChannel++ {
								filterValue := filterData[tensor.Offset(fShape, outChannel, filterY, filterX, inChannel)]
								outputData[tensor.Offset(outShape, batch, outY, outX, outChannel)] +=
									float32(inputValue * filterValue)
							}
						}
					}
				}
			}
		}
	}
}
