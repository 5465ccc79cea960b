package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitrdm/autoinfer/internal/config"
	"github.com/gitrdm/autoinfer/internal/graphgen"
	"github.com/gitrdm/autoinfer/internal/pipeline"
	"github.com/gitrdm/autoinfer/internal/store"
)

// newGenerateCmd implements spec §6's "generate" stage (component C9):
// synthesize count independent graphs, each seeded deterministically
// off --seed, and write one graph file per graph.
func newGenerateCmd(flags *commonFlags) *cobra.Command {
	var count int
	var maxNodes int
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Synthesize tensor-operator graphs via record-matched, symbolic, and concolic insertion",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			log := newLogger()
			if err := os.MkdirAll(flags.outDir, 0o755); err != nil {
				return err
			}

			pool := pipeline.New(cfg.Parallel, log)
			for i := 0; i < count; i++ {
				i := i
				if err := pool.Submit(cmd.Context(), func() pipeline.Outcome {
					return runGenerate(cmd.Context(), cfg, flags, i, maxNodes)
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
	cmd.Flags().IntVar(&count, "count", 1, "number of graphs to generate")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", 20, "node-count termination bound per graph (spec §4.8)")
	return cmd
}

func runGenerate(ctx context.Context, cfg *config.Config, flags *commonFlags, index, maxNodes int) pipeline.Outcome {
	name := fmt.Sprintf("graph_%04d", index)
	out := pipeline.Outcome{OpName: "generate", OpID: name}

	seed := flags.seed + int64(index)
	// No inter-operator RecordFinder is wired here: C9's record-matched
	// mode needs a corpus-wide index of recorded invocations by exact
	// input/output tuple, which spans every instance rather than one
	// (see DESIGN.md). With a nil finder, hybrid generation's
	// record-matched leg performs a forward dialect insertion instead.
	gen := graphgen.New(cfg, seed, nil)
	graph, err := gen.Generate(ctx, graphgen.Hybrid, maxNodes, cfg.GenTimeout)
	if err != nil {
		out.Err = err
		return out
	}

	file := store.BuildGraphFile(graph, gen.ConcreteShape)
	path := store.OperatorFilePath(flags.outDir, name, "graph")
	if err := store.WriteGraphFile(path, file); err != nil {
		out.Err = err
	}
	return out
}
