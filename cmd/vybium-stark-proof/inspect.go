package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/proof"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/server"
)

var fHexInput bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "decode a proof and report its parameters and security level (reads stdin without a file)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&fHexInput, "hex", false, "input is hex encoded")
	rootCmd.AddCommand(inspectCmd)
}

func readInput(args []string, hexEncoded bool) ([]byte, error) {
	var data []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, err
	}
	if hexEncoded {
		text := strings.TrimSpace(string(data))
		if !strings.HasPrefix(text, "0x") {
			text = "0x" + text
		}
		return hexutil.Decode(text)
	}
	return data, nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := readInput(args, fHexInput)
	if err != nil {
		return fmt.Errorf("failed to read proof: %w", err)
	}

	p, err := proof.FromBytes(data)
	if err != nil {
		return fmt.Errorf("failed to decode proof: %w", err)
	}
	log.Debug().Int("size", len(data)).Msg("Decoded proof")

	cr, err := collisionResistance()
	if err != nil {
		return err
	}
	summary, err := server.Summarize(p, len(data), estimator(), cr)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
