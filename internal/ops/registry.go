package ops

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/born-ml/born-lite/internal/backend/cpu"
	"github.com/born-ml/born-lite/internal/tensor"
)

// Config controls how kernels are run.
type Config struct {
	Logger *slog.Logger // Destination for Debug-level tracing; nil means slog.Default()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Logger: slog.Default()}
}

// Context provides the backend and logger to kernels.
type Context struct {
	Backend *cpu.CPUBackend
	Logger  *slog.Logger
}

// NewContext creates a kernel context from cfg.
func NewContext(cfg Config) *Context {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{Backend: cpu.New(), Logger: logger}
}

// Registry maps operator types to kernels.
type Registry struct {
	kernels map[OpType]Kernel
}

// NewRegistry creates a new registry with all supported operators.
func NewRegistry() *Registry {
	r := &Registry{
		kernels: make(map[OpType]Kernel),
	}
	r.Register(OpPad, padKernel{})
	r.Register(OpConv, convKernel{})
	r.Register(OpTransposeConv, transposeConvKernel{})
	return r
}

// Register adds or replaces the kernel for an operator type.
func (r *Registry) Register(op OpType, k Kernel) {
	r.kernels[op] = k
}

// Get returns the kernel for an operator type.
func (r *Registry) Get(op OpType) (Kernel, bool) {
	k, ok := r.kernels[op]
	return k, ok
}

// SupportedOps returns the registered operator types in tag order.
func (r *Registry) SupportedOps() []OpType {
	ops := make([]OpType, 0, len(r.kernels))
	for op := range r.kernels {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

func (r *Registry) lookup(node *Node) (Kernel, error) {
	k, ok := r.kernels[node.Op]
	if !ok {
		return nil, tensor.Errorf("registry", tensor.ErrUnsupportedOp, "%s", node.Op)
	}
	return k, nil
}

// Prepare runs the node's Prepare phase.
func (r *Registry) Prepare(ctx *Context, node *Node) error {
	k, err := r.lookup(node)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("prepare", "op", node.Op.String(), "node", node.Name)
	if err := k.Prepare(ctx, node); err != nil {
		return fmt.Errorf("prepare %s: %w", node.Op, err)
	}
	return nil
}

// Eval runs the node's Eval phase. Prepare must have succeeded first.
func (r *Registry) Eval(ctx *Context, node *Node) error {
	k, err := r.lookup(node)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("eval", "op", node.Op.String(), "node", node.Name)
	if err := k.Eval(ctx, node); err != nil {
		return fmt.Errorf("eval %s: %w", node.Op, err)
	}
	return nil
}

// Invoke runs Prepare followed by Eval.
func (r *Registry) Invoke(ctx *Context, node *Node) error {
	if err := r.Prepare(ctx, node); err != nil {
		return err
	}
	return r.Eval(ctx, node)
}
