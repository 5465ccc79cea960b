package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gitrdm/autoinfer/internal/dialect"
	"github.com/gitrdm/autoinfer/internal/pipeline"
	"github.com/gitrdm/autoinfer/internal/store"
)

// newMatchDialectCmd implements spec §6's "match-dialect" stage
// (component C8): find every dialect-rule-registry class that
// explains an instance's invocation database.
func newMatchDialectCmd(flags *commonFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "match-dialect",
		Short: "Match each instance's invocation database against the dialect-rule registry",
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

			pool := pipeline.New(cfg.Parallel, log)
			for _, li := range instances {
				li := li
				if err := pool.Submit(cmd.Context(), func() pipeline.Outcome {
					return runMatchDialect(flags, li)
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

func runMatchDialect(flags *commonFlags, li *loadedInstance) pipeline.Outcome {
	out := pipeline.Outcome{OpName: li.Inst.Name, OpID: li.NameIndex}
	if !matchesOp(flags, li.Inst.Name) {
		return out
	}
	matches := dialect.Match(li.Inst, li.DB)
	path := store.OperatorFilePath(flags.outDir, li.NameIndex, "dialectmatch")
	if err := store.WriteDialectMatchFile(path, matches); err != nil {
		out.Err = err
	}
	return out
}
