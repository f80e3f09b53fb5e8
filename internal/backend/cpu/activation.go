package cpu

import (
	"math"
	"strings"
)

// Activation is a fused activation applied by Conv after the bias.
type Activation int

// Supported fused activations.
const (
	ActNone Activation = iota
	ActRelu
	ActReluN1To1
	ActRelu6
)

// String returns the activation name.
func (a Activation) String() string {
	switch a {
	case ActNone:
		return "NONE"
	case ActRelu:
		return "RELU"
	case ActReluN1To1:
		return "RELU_N1_TO_1"
	case ActRelu6:
		return "RELU6"
	default:
		return "UNKNOWN"
	}
}

// ParseActivation accepts the names produced by Activation.String, case-insensitively.
// The empty string means ActNone.
func ParseActivation(name string) (Activation, bool) {
	if name == "" {
		return ActNone, true
	}
	for a := ActNone; a <= ActRelu6; a++ {
		if strings.EqualFold(a.String(), name) {
			return a, true
		}
	}
	return ActNone, false
}

// ActivationRange returns the clamp range [lo, hi] that implements act.
func ActivationRange(act Activation) (lo, hi float32) {
	switch act {
	case ActRelu:
		return 0, math.MaxFloat32
	case ActReluN1To1:
		return -1, 1
	case ActRelu6:
		return 0, 6
	default:
		return -math.MaxFloat32, math.MaxFloat32
	}
}

// activationWithMinMax clamps x to [lo, hi].
// Comparisons are spelled out instead of using min/max builtins so a
// negative zero passes through unchanged.
func activationWithMinMax(x, lo, hi float32) float32 {
	if x < lo {
		x = lo
	}
	if hi < x {
		x = hi
	}
	return x
}
