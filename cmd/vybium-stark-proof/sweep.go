package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/air"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/report"
)

var (
	fSweepOut       string
	fSweepExtension string
	fSweepTrace     uint64
	fSweepBlowups   []int
	fSweepMin       int
	fSweepMax       int
	fSweepStep      int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "chart security against query count for several blowup factors",
	Args:  cobra.NoArgs,
	RunE:  runSweep,
}

func init() {
	defaults := report.DefaultSweepConfig()
	flags := sweepCmd.Flags()
	flags.StringVar(&fSweepOut, "out", "security_sweep.html", "output HTML file")
	flags.StringVar(&fSweepExtension, "extension", defaults.FieldExtension.String(), "field extension: none, quadratic or cubic")
	flags.Uint64Var(&fSweepTrace, "trace-length", defaults.TraceLength, "trace length")
	flags.IntSliceVar(&fSweepBlowups, "blowups", defaults.BlowupFactors, "blowup factors to chart")
	flags.IntVar(&fSweepMin, "min-queries", defaults.MinQueries, "smallest query count")
	flags.IntVar(&fSweepMax, "max-queries", defaults.MaxQueries, "largest query count")
	flags.IntVar(&fSweepStep, "step", defaults.QueryStep, "query count step")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	ext, err := air.ParseFieldExtension(fSweepExtension)
	if err != nil {
		return err
	}
	cr, err := collisionResistance()
	if err != nil {
		return err
	}

	cfg := report.DefaultSweepConfig()
	cfg.FieldExtension = ext
	cfg.TraceLength = fSweepTrace
	cfg.BlowupFactors = fSweepBlowups
	cfg.MinQueries, cfg.MaxQueries, cfg.QueryStep = fSweepMin, fSweepMax, fSweepStep
	cfg.CollisionResistance = cr

	sweep, err := report.Run(estimator(), cfg)
	if err != nil {
		return err
	}

	f, err := os.Create(fSweepOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", fSweepOut, err)
	}
	defer f.Close()
	if err := sweep.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	log.Info().Int("points", len(sweep.Points)).Str("file", fSweepOut).Msg("Saved security sweep")
	return nil
}
