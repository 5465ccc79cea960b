package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gitrdm/autoinfer/internal/ingest"
	"github.com/gitrdm/autoinfer/internal/mutator"
	"github.com/gitrdm/autoinfer/internal/oi"
	"github.com/gitrdm/autoinfer/internal/pipeline"
	"github.com/gitrdm/autoinfer/internal/store"
	"github.com/gitrdm/autoinfer/pkg/oracle"
)

// newAugmentCmd implements spec §6's "augment" stage (component C5):
// load each instance's traced records, run the mutation schedule
// against an oracle, and write the resulting invocation DB file.
func newAugmentCmd(flags *commonFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "augment",
		Short: "Mutate traced invocations through an oracle to grow each instance's invocation database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			log := newLogger()
			dirs, err := ingest.Dirs(flags.recordsDir, flags.onlyInstance)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(flags.outDir, 0o755); err != nil {
				return err
			}

			pool := pipeline.New(cfg.Parallel, log)
			o := oracle.NewDialectOracle()
			m := mutator.New(cfg, o)

			for _, dir := range dirs {
				dir := dir
				if err := pool.Submit(cmd.Context(), func() pipeline.Outcome {
					return runAugment(m, flags, dir)
				}); err != nil {
					pool.Shutdown()
					return err
				}
			}
			pool.Shutdown()
			for range pool.Results() {
				// Drain; per-operator errors were already logged by
				// the pool (spec §7: per-operator failures are logged
				// but do not fail the process).
			}
			return nil
		},
	}
}

func runAugment(m *mutator.Mutator, flags *commonFlags, dir string) pipeline.Outcome {
	inst, err := ingest.LoadDir(dir, oi.IntPolicyFixDim)
	if err != nil {
		return pipeline.Outcome{OpName: filepath.Base(dir), OpID: filepath.Base(dir), Err: err}
	}
	out := pipeline.Outcome{OpName: inst.Inst.Name, OpID: inst.NameIndex}
	if !matchesOp(flags, inst.Inst.Name) || m.Skip(inst.Inst.Name) {
		return out
	}
	if err := inst.DB.ValidityCheck(); err != nil {
		out.Err = err
		return out
	}
	if err := m.MutateUntilCap(inst.Inst, inst.DB, inst.DB.Success()); err != nil {
		out.Err = err
		return out
	}
	inst.DB.Analyse()
	path := store.OperatorFilePath(flags.outDir, inst.NameIndex, "invocdb")
	if err := store.WriteInvocationDBFile(path, inst.DB); err != nil {
		out.Err = err
	}
	return out
}
