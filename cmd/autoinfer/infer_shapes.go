package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gitrdm/autoinfer/internal/config"
	"github.com/gitrdm/autoinfer/internal/expr"
	"github.com/gitrdm/autoinfer/internal/pipeline"
	"github.com/gitrdm/autoinfer/internal/shaperules"
	"github.com/gitrdm/autoinfer/internal/store"
)

// newInferShapesCmd implements spec §6's "infer-shapes" stage
// (component C6): synthesize a shape-rule file for every instance's
// invocation database.
func newInferShapesCmd(flags *commonFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "infer-shapes",
		Short: "Synthesize per-output shape rules from each instance's invocation database",
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
			exprDB := expr.Build(cfg.MaxHeight, cfg.MaxArgs, cfg.EnableDiv)

			pool := pipeline.New(cfg.Parallel, log)
			for _, li := range instances {
				li := li
				if err := pool.Submit(cmd.Context(), func() pipeline.Outcome {
					return runInferShapes(cfg, exprDB, flags, li)
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

func runInferShapes(cfg *config.Config, exprDB *expr.Database, flags *commonFlags, li *loadedInstance) pipeline.Outcome {
	out := pipeline.Outcome{OpName: li.Inst.Name, OpID: li.NameIndex}
	if !matchesOp(flags, li.Inst.Name) {
		return out
	}
	if err := li.DB.ValidityCheck(); err != nil {
		out.Err = err
		return out
	}
	result := shaperules.Synthesize(cfg, exprDB, li.Inst, li.DB)
	path := store.OperatorFilePath(flags.outDir, li.NameIndex, "shaperules")
	if err := store.WriteShapeRuleFile(path, result); err != nil {
		out.Err = err
	}
	return out
}
