// Package casefile reads YAML documents that describe one kernel invocation:
// the operator, its operand tensors, options and, optionally, the expected
// output. It plays the host's part for the CLI and for fixture-driven tests.
//
// Example:
//
//	op: CONV_2D
//	inputs:
//	  - {shape: [1, 2, 2, 1], data: [1, 2, 3, 4]}
//	  - {shape: [1, 1, 1, 1], data: [5], constant: true}
//	output: {shape: [1, 2, 2, 1]}
//	conv: {stride: [1, 1], activation: RELU6}
//	expect: [5, 6, 6, 6]
package casefile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/born-lite/internal/backend/cpu"
	"github.com/born-ml/born-lite/internal/ops"
	"github.com/born-ml/born-lite/internal/tensor"
)

// ErrUnexpectedOutput is returned by Check when the output differs from Expect.
var ErrUnexpectedOutput = errors.New("unexpected output")

// TensorSpec describes one operand. DType defaults to float32.
type TensorSpec struct {
	Shape    []int     `yaml:"shape"`
	DType    string    `yaml:"dtype,omitempty"`
	Data     []float64 `yaml:"data"`
	Constant bool      `yaml:"constant,omitempty"`
}

// OutputSpec describes the output tensor. An empty shape leaves the output
// unresolved until the operator sizes it.
type OutputSpec struct {
	Shape []int  `yaml:"shape"`
	DType string `yaml:"dtype,omitempty"`
}

// ConvSpec holds CONV_2D and TRANSPOSE_CONV options. Each pair is [h, w];
// a single value applies to both axes.
type ConvSpec struct {
	Stride     []int  `yaml:"stride,omitempty"`
	Dilation   []int  `yaml:"dilation,omitempty"`
	Padding    []int  `yaml:"padding,omitempty"`
	Activation string `yaml:"activation,omitempty"`
}

// Case is one decoded document. A null entry in Inputs is an omitted optional input.
type Case struct {
	Name      string        `yaml:"name,omitempty"`
	Op        string        `yaml:"op"`
	Inputs    []*TensorSpec `yaml:"inputs"`
	Output    OutputSpec    `yaml:"output"`
	Conv      *ConvSpec     `yaml:"conv,omitempty"`
	Expect    []float64     `yaml:"expect,omitempty"`
	Tolerance float64       `yaml:"tolerance,omitempty"`
}

// Decode reads a single case. Unknown keys are rejected.
func Decode(r io.Reader) (*Case, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var c Case
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode case: %w", err)
	}
	return &c, nil
}

// Load reads a case from a file.
func Load(path string) (*Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open case: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if c.Name == "" {
		c.Name = path
	}
	return c, nil
}

// Build allocates the operand tensors and returns a node ready for the registry.
func (c *Case) Build() (*ops.Node, error) {
	op, ok := ops.ParseOpType(c.Op)
	if !ok {
		return nil, fmt.Errorf("case %q: %w: %q", c.Name, tensor.ErrUnsupportedOp, c.Op)
	}

	node := &ops.Node{Name: c.Name, Op: op}
	for i, spec := range c.Inputs {
		if spec == nil {
			node.Inputs = append(node.Inputs, nil)
			continue
		}
		raw, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("case %q: input %d: %w", c.Name, i, err)
		}
		node.Inputs = append(node.Inputs, raw)
	}

	out, err := c.Output.build()
	if err != nil {
		return nil, fmt.Errorf("case %q: output: %w", c.Name, err)
	}
	node.Outputs = []*tensor.RawTensor{out}

	if c.Conv != nil {
		opts, err := c.Conv.options()
		if err != nil {
			return nil, fmt.Errorf("case %q: conv: %w", c.Name, err)
		}
		node.Conv = &opts
	}
	return node, nil
}

// Check compares output values against Expect. A case without Expect always passes.
func (c *Case) Check(output []float32) error {
	if c.Expect == nil {
		return nil
	}
	if len(output) != len(c.Expect) {
		return fmt.Errorf("%w: %d values, expected %d", ErrUnexpectedOutput, len(output), len(c.Expect))
	}
	for i, want := range c.Expect {
		if !withinTolerance(float64(output[i]), want, c.Tolerance) {
			return fmt.Errorf("%w: value %d is %v, expected %v", ErrUnexpectedOutput, i, output[i], want)
		}
	}
	return nil
}

// withinTolerance reports whether got matches want. NaN only matches NaN.
func withinTolerance(got, want, tol float64) bool {
	if math.IsNaN(got) || math.IsNaN(want) {
		return math.IsNaN(got) && math.IsNaN(want)
	}
	return math.Abs(got-want) <= tol
}

func parseDType(name string) (tensor.DataType, error) {
	if name == "" {
		return tensor.Float32, nil
	}
	dt, ok := tensor.ParseDataType(name)
	if !ok {
		return 0, fmt.Errorf("unknown dtype %q", name)
	}
	return dt, nil
}

func (s *TensorSpec) build() (*tensor.RawTensor, error) {
	dt, err := parseDType(s.DType)
	if err != nil {
		return nil, err
	}

	var raw *tensor.RawTensor
	switch dt {
	case tensor.Float32:
		data := make([]float32, len(s.Data))
		for i, v := range s.Data {
			data[i] = float32(v)
		}
		raw, err = tensor.FromFloat32(data, s.Shape)
	case tensor.Int32:
		var ints []int64
		if ints, err = integral(s.Data); err == nil {
			data := make([]int32, len(ints))
			for i, v := range ints {
				if v < math.MinInt32 || v > math.MaxInt32 {
					return nil, fmt.Errorf("value %d (%d) overflows int32", i, v)
				}
				data[i] = int32(v)
			}
			raw, err = tensor.FromInt32(data, s.Shape)
		}
	case tensor.Int64:
		var ints []int64
		if ints, err = integral(s.Data); err == nil {
			raw, err = tensor.FromInt64(ints, s.Shape)
		}
	default:
		return nil, fmt.Errorf("dtype %s cannot carry case data", dt)
	}
	if err != nil {
		return nil, err
	}
	if s.Constant {
		raw.AsConstant()
	}
	return raw, nil
}

func integral(values []float64) ([]int64, error) {
	out := make([]int64, len(values))
	for i, v := range values {
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("value %d (%v) is not an integer", i, v)
		}
		// 2^63 is exactly representable as float64 but not as int64.
		if v < math.MinInt64 || v >= math.MaxInt64 {
			return nil, fmt.Errorf("value %d (%v) overflows int64", i, v)
		}
		out[i] = int64(v)
	}
	return out, nil
}

func (s OutputSpec) build() (*tensor.RawTensor, error) {
	dt, err := parseDType(s.DType)
	if err != nil {
		return nil, err
	}
	if s.Shape == nil {
		raw, err := tensor.NewRaw(tensor.Shape{0}, dt)
		if err != nil {
			return nil, err
		}
		raw.MarkDynamic()
		return raw, nil
	}
	return tensor.NewRaw(s.Shape, dt)
}

func (s *ConvSpec) options() (ops.ConvOptions, error) {
	opts := ops.DefaultConvOptions()
	var err error
	if opts.StrideH, opts.StrideW, err = pair("stride", s.Stride, 1); err != nil {
		return opts, err
	}
	if opts.DilationH, opts.DilationW, err = pair("dilation", s.Dilation, 1); err != nil {
		return opts, err
	}
	if opts.PadH, opts.PadW, err = pair("padding", s.Padding, 0); err != nil {
		return opts, err
	}
	act, ok := cpu.ParseActivation(s.Activation)
	if !ok {
		return opts, fmt.Errorf("unknown activation %q", s.Activation)
	}
	opts.Activation = act
	return opts, nil
}

func pair(name string, v []int, def int) (int, int, error) {
	switch len(v) {
	case 0:
		return def, def, nil
	case 1:
		return v[0], v[0], nil
	case 2:
		return v[0], v[1], nil
	default:
		return 0, 0, fmt.Errorf("%s takes 1 or 2 values, got %d", name, len(v))
	}
}
