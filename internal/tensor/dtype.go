// Package tensor provides the tensor views the reference kernels read and write.
package tensor

// DataType represents runtime element type information for tensors.
type DataType int

// Supported data types for tensors.
//
// Only Float32 is computed by the kernels; Int32 and Int64 carry paddings.
// The others exist so hosts can describe graphs the kernels reject.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
	Int8
	Bool
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Uint8, Int8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Int8:
		return "int8"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// ParseDataType is the inverse of DataType.String.
func ParseDataType(name string) (DataType, bool) {
	for dt := Float32; dt <= Bool; dt++ {
		if dt.String() == name {
			return dt, true
		}
	}
	return 0, false
}
