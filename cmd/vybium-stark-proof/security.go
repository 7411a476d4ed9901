package main

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/air"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/security"
)

var (
	fQueries     int
	fBlowup      int
	fGrinding    int
	fExtension   string
	fFieldBits   uint32
	fTraceLength uint64
)

var securityCmd = &cobra.Command{
	Use:   "security",
	Short: "estimate the conjectured and proven security of a parameter set",
	Args:  cobra.NoArgs,
	RunE:  runSecurity,
}

func init() {
	flags := securityCmd.Flags()
	flags.IntVar(&fQueries, "queries", 80, "number of queries")
	flags.IntVar(&fBlowup, "blowup", 8, "blowup factor")
	flags.IntVar(&fGrinding, "grinding", 20, "grinding factor in bits")
	flags.StringVar(&fExtension, "extension", "cubic", "field extension: none, quadratic or cubic")
	flags.Uint32Var(&fFieldBits, "field-bits", 64, "base field size in bits")
	flags.Uint64Var(&fTraceLength, "trace-length", 1<<18, "trace length")
	rootCmd.AddCommand(securityCmd)
}

func runSecurity(cmd *cobra.Command, args []string) error {
	ext, err := air.ParseFieldExtension(fExtension)
	if err != nil {
		return err
	}
	options, err := air.NewProofOptions(fQueries, fBlowup, fGrinding, ext, 8, 127)
	if err != nil {
		return err
	}
	if err := security.ValidateTraceLength(fTraceLength); err != nil {
		return err
	}
	cr, err := collisionResistance()
	if err != nil {
		return err
	}

	est := estimator()
	report, err := est.Breakdown(options, fFieldBits, fTraceLength, cr)
	if err != nil {
		return err
	}
	conjectured := est.Conjectured(options, fFieldBits, fTraceLength, cr)

	log.Info().
		Str("options", options.String()).
		Uint64("trace_length", fTraceLength).
		Uint32("conjectured", conjectured).
		Uint32("proven", report.Level).
		Uint64("m", report.M).
		Msg("Estimated security")

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"conjectured": conjectured,
		"proven":      report.Level,
		"breakdown":   report,
	})
}
