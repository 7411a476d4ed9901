package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/air"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/crypto"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/proof"
)

var (
	fDummyOut       string
	fDummyHex       bool
	fSynthetic      bool
	fSynthTrace     int
	fSynthMain      int
	fSynthAux       int
	fSynthQueries   int
	fSynthBlowup    int
	fSynthExtension string
	fSynthSeed      string
)

var dummyCmd = &cobra.Command{
	Use:   "dummy",
	Short: "write a minimal or synthetic proof for testing decoders",
	Args:  cobra.NoArgs,
	RunE:  runDummy,
}

func init() {
	flags := dummyCmd.Flags()
	flags.StringVar(&fDummyOut, "out", "-", "output file (- for stdout)")
	flags.BoolVar(&fDummyHex, "hex", false, "hex encode the output")
	flags.BoolVar(&fSynthetic, "synthetic", false, "build a synthetic proof with real Merkle commitments")
	flags.IntVar(&fSynthTrace, "trace-length", 64, "synthetic trace length")
	flags.IntVar(&fSynthMain, "main-width", 4, "synthetic main trace width")
	flags.IntVar(&fSynthAux, "aux-width", 0, "synthetic auxiliary trace width (0 for none)")
	flags.IntVar(&fSynthQueries, "queries", 32, "synthetic number of queries")
	flags.IntVar(&fSynthBlowup, "blowup", 8, "synthetic blowup factor")
	flags.StringVar(&fSynthExtension, "extension", "cubic", "synthetic field extension")
	flags.StringVar(&fSynthSeed, "seed", "vybium", "synthetic public coin seed")
	rootCmd.AddCommand(dummyCmd)
}

func buildSynthetic() (*proof.StarkProof, error) {
	var aux []air.AuxSegment
	if fSynthAux > 0 {
		aux = append(aux, air.AuxSegment{Width: uint8(fSynthAux), Rands: 1})
	}
	layout, err := air.NewTraceLayout(fSynthMain, aux...)
	if err != nil {
		return nil, err
	}
	info, err := air.NewTraceInfo(layout, fSynthTrace, nil)
	if err != nil {
		return nil, err
	}
	ext, err := air.ParseFieldExtension(fSynthExtension)
	if err != nil {
		return nil, err
	}
	options, err := air.NewProofOptions(fSynthQueries, fSynthBlowup, 16, ext, 4, 7)
	if err != nil {
		return nil, err
	}
	ctx, err := air.NewGoldilocksContext(info, options)
	if err != nil {
		return nil, err
	}
	hasher, err := crypto.ByName(config.HashFunction)
	if err != nil {
		return nil, err
	}
	return proof.NewSyntheticProof(ctx, hasher, []byte(fSynthSeed))
}

func runDummy(cmd *cobra.Command, args []string) error {
	p := proof.NewDummyStarkProof()
	if fSynthetic {
		var err error
		if p, err = buildSynthetic(); err != nil {
			return fmt.Errorf("failed to build synthetic proof: %w", err)
		}
	}

	data := p.ToBytes()
	if fDummyHex {
		data = []byte(hexutil.Encode(data) + "\n")
	}

	if fDummyOut == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(fDummyOut, data, 0o644); err != nil {
		return err
	}
	log.Info().Int("size", len(p.ToBytes())).Str("file", fDummyOut).Msg("Saved proof")
	return nil
}
