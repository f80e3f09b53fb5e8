// Package ops binds the reference kernels to operator types.
//
// Each operator is a Kernel with two phases. Prepare runs once when the host
// has shapes and constant tensors available; it validates the node and, where
// possible, resolves output shapes. Eval runs per invocation and computes the
// outputs. A Registry maps OpType tags to kernels.
package ops

import (
	"fmt"
	"strings"
)

// OpType tags the operators the registry can dispatch.
type OpType int

// Supported operator types.
const (
	OpPad OpType = iota
	OpConv
	OpTransposeConv
)

// String returns the operator name.
func (op OpType) String() string {
	switch op {
	case OpPad:
		return "PAD"
	case OpConv:
		return "CONV_2D"
	case OpTransposeConv:
		return "TRANSPOSE_CONV"
	default:
		return fmt.Sprintf("OpType(%d)", int(op))
	}
}

// ParseOpType accepts the names produced by OpType.String, case-insensitively.
func ParseOpType(name string) (OpType, bool) {
	for op := OpPad; op <= OpTransposeConv; op++ {
		if strings.EqualFold(op.String(), name) {
			return op, true
		}
	}
	return 0, false
}

// Kernel is the capability set every operator implements.
type Kernel interface {
	// Prepare validates the node and resolves output shapes it can.
	Prepare(ctx *Context, node *Node) error
	// Eval computes the node's outputs.
	Eval(ctx *Context, node *Node) error
}
