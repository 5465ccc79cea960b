package main

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitrdm/autoinfer/internal/config"
)

// commonFlags collects the shared flag surface of spec §6 ("Common
// flags") every subcommand reads.
type commonFlags struct {
	recordsDir   string
	outDir       string
	parallel     int
	onlyOp       []string
	onlyInstance []string
	timeoutSec   int
	seed         int64
}

func newRootCmd() *cobra.Command {
	flags := &commonFlags{}
	root := &cobra.Command{
		Use:          "autoinfer",
		Short:        "Shape/constraint rule mining and graph synthesis over traced tensor operators",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.recordsDir, "records-dir", "", "directory of per-instance traced record files")
	root.PersistentFlags().StringVar(&flags.outDir, "out-dir", "", "directory to write per-operator result files into")
	root.PersistentFlags().IntVar(&flags.parallel, "parallel", 0, "worker pool size (0 = config/env default)")
	root.PersistentFlags().StringSliceVar(&flags.onlyOp, "only-op", nil, "restrict to these operator names")
	root.PersistentFlags().StringSliceVar(&flags.onlyInstance, "only-instance", nil, "restrict to these instance ids")
	root.PersistentFlags().IntVar(&flags.timeoutSec, "timeout-sec", 0, "per-operator wall-clock timeout (0 = config default)")
	root.PersistentFlags().Int64Var(&flags.seed, "seed", 1, "PRNG seed (generate only)")
	_ = root.MarkPersistentFlagRequired("records-dir")

	root.AddCommand(
		newAugmentCmd(flags),
		newInferShapesCmd(flags),
		newInferConstraintsCmd(flags),
		newMatchDialectCmd(flags),
		newGenerateCmd(flags),
	)
	return root
}

// loadConfig applies the CLI's common flags on top of config.Load's
// own DEVICE/PARALLEL environment overrides (spec §6), CLI flags
// taking precedence since they were supplied explicitly.
func loadConfig(flags *commonFlags) (*config.Config, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	if flags.parallel > 0 {
		cfg.Parallel = flags.parallel
	}
	if flags.timeoutSec > 0 {
		d := time.Duration(flags.timeoutSec) * time.Second
		cfg.ShapeRuleBudget = d
		cfg.ConstraintRuleBudget = d
		cfg.GenTimeout = d
	}
	return cfg, nil
}

// matchesOp reports whether name passes the --only-op allow-list
// (an empty list matches everything).
func matchesOp(flags *commonFlags, name string) bool {
	if len(flags.onlyOp) == 0 {
		return true
	}
	for _, n := range flags.onlyOp {
		if n == name {
			return true
		}
	}
	return false
}

func newLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}
