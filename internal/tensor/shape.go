package tensor

import "fmt"

// MaxRank is the highest tensor rank the reference kernels handle.
const MaxRank = 4

// Shape represents the dimensions of a tensor, outermost first.
type Shape []int

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that every dimension is non-negative.
// Zero-sized dimensions are legal: padding an empty tensor is well defined.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Extend4D returns the shape left-padded with 1s to rank 4.
// The innermost dimension stays innermost, so (2, 3) becomes (1, 1, 2, 3).
func (s Shape) Extend4D() [4]int {
	ext := [4]int{1, 1, 1, 1}
	offset := MaxRank - len(s)
	for i, dim := range s {
		ext[offset+i] = dim
	}
	return ext
}

// Offset returns the flat index of (b, y, x, c) in a rank-4 NHWC shape.
func Offset(s Shape, b, y, x, c int) int {
	return ((b*s[1]+y)*s[2]+x)*s[3] + c
}

// MatchingDim returns a[i] when it equals b[j].
func MatchingDim(a Shape, i int, b Shape, j int) (int, bool) {
	if a[i] != b[j] {
		return 0, false
	}
	return a[i], true
}
