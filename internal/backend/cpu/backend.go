// Package cpu implements the reference NHWC kernels: constant padding,
// direct convolution and transposed convolution over float32 tensors.
//
// The kernels are single-threaded and allocate nothing beyond rank-sized
// scratch arrays. Every operand is validated before the first write to the
// output, so a returned error leaves the caller with no partially computed
// result to mistake for a valid one.
package cpu

// CPUBackend runs the reference kernels on the calling goroutine.
// It carries no state; one value may serve any number of sequential calls.
type CPUBackend struct{}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}
