package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/crypto"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/numeric"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/security"
	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/utils"
)

var config = utils.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:               "vybium-stark-proof",
	Short:             "inspect STARK proofs and estimate their security level",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&config.HashFunction, "hash", config.HashFunction, "commitment hash function: sha3, blake2b or tip5")
	flags.StringVar(&config.NumericBackend, "backend", config.NumericBackend, "numeric backend for the estimator: host or portable")
	flags.Uint32Var(&config.CollisionResistance, "collision-resistance", config.CollisionResistance, "collision resistance in bits (0 uses the hash function's bound)")
	flags.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level: debug, info, warn or error")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := config.Validate(); err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	return nil
}

func estimator() *security.Estimator {
	backend, err := numeric.ByName(config.NumericBackend)
	if err != nil {
		// Validate already rejected unknown backends
		backend = numeric.Host
	}
	return security.NewEstimator(backend)
}

func collisionResistance() (uint32, error) {
	if config.CollisionResistance != 0 {
		return config.CollisionResistance, nil
	}
	h, err := crypto.ByName(config.HashFunction)
	if err != nil {
		return 0, err
	}
	return h.CollisionResistance(), nil
}
