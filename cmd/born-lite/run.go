package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/born-lite/internal/casefile"
	"github.com/born-ml/born-lite/internal/ops"
	"github.com/born-ml/born-lite/internal/parallel"
)

// result is the YAML document printed for each executed case.
type result struct {
	Name  string    `yaml:"name"`
	Op    string    `yaml:"op"`
	Shape []int     `yaml:"shape,flow"`
	Data  []float32 `yaml:"data,flow"`
	Check string    `yaml:"check,omitempty"`
}

type outcome struct {
	res *result
	err error
}

func newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List supported operators",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, op := range ops.NewRegistry().SupportedOps() {
				fmt.Fprintln(cmd.OutOrStdout(), op)
			}
		},
	}
}

func newRunCmd() *cobra.Command {
	cfg := parallel.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "run <case.yaml>...",
		Short: "Execute kernels described by case files",
		Long: `Execute kernels described by case files.

Each file is loaded, prepared and evaluated on its own tensors. Files run
concurrently (see --jobs); results are printed in argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := ops.NewRegistry()
			ctx := ops.NewContext(ops.Config{Logger: slog.Default()})

			outcomes := make([]outcome, len(args))
			parallel.For(len(args), cfg, func(i int) {
				res, err := runCase(registry, ctx, args[i])
				outcomes[i] = outcome{res: res, err: err}
			})

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()

			var failed []error
			for i, o := range outcomes {
				if o.err != nil {
					slog.Error("case failed", "path", args[i], "err", o.err)
					failed = append(failed, o.err)
				}
				if o.res == nil {
					continue
				}
				if err := enc.Encode(o.res); err != nil {
					return fmt.Errorf("encode result: %w", err)
				}
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d cases failed: %w", len(failed), len(args), errors.Join(failed...))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&cfg.Workers, "jobs", "j", cfg.Workers, "case files to run concurrently")
	return cmd
}

// runCase executes one case file. A non-nil result alongside an error means
// the kernel ran but the output did not match the expectation.
func runCase(registry *ops.Registry, ctx *ops.Context, path string) (*result, error) {
	c, err := casefile.Load(path)
	if err != nil {
		return nil, err
	}
	node, err := c.Build()
	if err != nil {
		return nil, err
	}
	if err := registry.Invoke(ctx, node); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}

	out := node.Outputs[0]
	res := &result{
		Name:  c.Name,
		Op:    node.Op.String(),
		Shape: out.Shape(),
		Data:  out.AsFloat32(),
	}
	slog.Debug("case executed", "case", c.Name, "op", node.Op, "shape", out.Shape())

	if c.Expect == nil {
		return res, nil
	}
	if err := c.Check(res.Data); err != nil {
		res.Check = "fail"
		return res, fmt.Errorf("%s: %w", c.Name, err)
	}
	res.Check = "pass"
	return res, nil
}
