package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitrdm/autoinfer/internal/config"
	"github.com/gitrdm/autoinfer/internal/constraintrules"
	"github.com/gitrdm/autoinfer/internal/expr"
	"github.com/gitrdm/autoinfer/internal/pipeline"
	"github.com/gitrdm/autoinfer/internal/smt"
	"github.com/gitrdm/autoinfer/internal/store"
)

// newInferConstraintsCmd implements spec §6's "infer-constraints"
// stage (component C7): synthesize an input-validity constraint file
// for every instance's invocation database.
func newInferConstraintsCmd(flags *commonFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "infer-constraints",
		Short: "Synthesize input-validity constraint rules from each instance's invocation database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			log := newLogger()
			instances, err := loadInvocationDBs(flags.recordsDir, flags.recordsDir, flags.onlyInstance)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(flags.outDir, 0o755); err != nil {
				return err
			}
			// C7 enumerates its trees with division disabled,
			// regardless of cfg.EnableDiv.
			exprDB := expr.Build(cfg.MaxHeight, cfg.MaxArgs, false)

			pool := pipeline.New(cfg.Parallel, log)
			for _, li := range instances {
				li := li
				if err := pool.Submit(cmd.Context(), func() pipeline.Outcome {
					return runInferConstraints(cfg, exprDB, flags, li)
				}); err != nil {
					pool.Shutdown()
					return err
				}
			}
			pool.Shutdown()
			for range pool.Results() {
			}
			return nil
		},
	}
}

func runInferConstraints(cfg *config.Config, exprDB *expr.Database, flags *commonFlags, li *loadedInstance) pipeline.Outcome {
	out := pipeline.Outcome{OpName: li.Inst.Name, OpID: li.NameIndex}
	if !matchesOp(flags, li.Inst.Name) {
		return out
	}
	if err := li.DB.ValidityCheck(); err != nil {
		out.Err = err
		return out
	}
	engine := smt.NewEngine(1<<6, 8, cfg.SolverTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConstraintRuleBudget)
	defer cancel()
	result := constraintrules.Synthesize(ctx, cfg, engine, exprDB, li.DB)
	path := store.OperatorFilePath(flags.outDir, li.NameIndex, "constraintrules")
	if err := store.WriteConstraintRuleFile(path, result); err != nil {
		out.Err = err
	}
	return out
}
