package cpu

import (
	"github.com/born-ml/born-lite/internal/tensor"
)

// PadParams holds per-dimension padding in the kernel's 4-slot layout:
// slot 0 is batch, 1 height, 2 width, 3 depth.
type PadParams struct {
	LeftPadding  [4]int
	RightPadding [4]int
}

// PadParamsFromPairs maps (before, after) pairs given in tensor dimension
// order onto the kernel slots.
//
// Pairs are walked from the innermost tensor dimension outwards and placed
// from the depth slot backwards, so the last tensor dimension always lands in
// the depth slot and R pairs fill the last R slots. Unused leading
// slots get zero padding, matching Shape.Extend4D.
//
//	pairs [[0,0],[1,1],[0,0]] (rank 3) -> left {0,0,1,0}, right {0,0,1,0}
func PadParamsFromPairs(pairs [][2]int) (PadParams, error) {
	var p PadParams
	rank := len(pairs)
	if rank > tensor.MaxRank {
		return p, tensor.Errorf("pad", tensor.ErrUnsupportedRank, "%d padding pairs, at most %d supported", rank, tensor.MaxRank)
	}
	for i := 0; i < rank; i++ {
		src := rank - 1 - i
		slot := tensor.MaxRank - 1 - i
		before, after := pairs[src][0], pairs[src][1]
		if before < 0 || after < 0 {
			return p, tensor.Errorf("pad", tensor.ErrInvalidPadding,
				"dimension %d has padding (%d, %d), values must be >= 0", src, before, after)
		}
		p.LeftPadding[slot] = before
		p.RightPadding[slot] = after
	}
	return p, nil
}

// PaddingValues is the offset subtracted from a scaled output coordinate to
// find the origin of the corresponding input window.
type PaddingValues struct {
	Height int
	Width  int
}

// ConvParams configures Conv and TransposeConv.
// TransposeConv ignores the dilation factors and the activation range.
type ConvParams struct {
	StrideHeight         int
	StrideWidth          int
	DilationHeightFactor int
	DilationWidthFactor  int
	Padding              PaddingValues
	ActivationMin        float32
	ActivationMax        float32
}

// DefaultConvParams returns unit strides and dilations, no padding offset and
// an unbounded activation range.
func DefaultConvParams() ConvParams {
	lo, hi := ActivationRange(ActNone)
	return ConvParams{
		StrideHeight:         1,
		StrideWidth:          1,
		DilationHeightFactor: 1,
		DilationWidthFactor:  1,
		ActivationMin:        lo,
		ActivationMax:        hi,
	}
}

// validateStrides checks the parameters shared by Conv and TransposeConv.
func (p ConvParams) validateStrides(op string) error {
	if p.StrideHeight < 1 || p.StrideWidth < 1 {
		return tensor.Errorf(op, tensor.ErrInvalidParams, "strides (%d, %d) must be >= 1", p.StrideHeight, p.StrideWidth)
	}
	return nil
}

// validateConv additionally checks the dilation factors and the activation
// range, which only Conv uses.
func (p ConvParams) validateConv(op string) error {
	if err := p.validateStrides(op); err != nil {
		return err
	}
	if p.DilationHeightFactor < 1 || p.DilationWidthFactor < 1 {
		return tensor.Errorf(op, tensor.ErrInvalidParams, "dilation factors (%d, %d) must be >= 1",
			p.DilationHeightFactor, p.DilationWidthFactor)
	}
	if p.ActivationMin > p.ActivationMax {
		return tensor.Errorf(op, tensor.ErrInvalidParams, "activation range [%g, %g] is empty",
			p.ActivationMin, p.ActivationMax)
	}
	return nil
}
