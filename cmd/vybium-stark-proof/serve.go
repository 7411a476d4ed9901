package main

import (
	"github.com/spf13/cobra"

	"github.com/vybium/vybium-stark-proof/internal/vybium-stark-proof/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the HTTP scoring service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := server.New(config)
		if err != nil {
			return err
		}
		return s.Run()
	},
}

func init() {
	serveCmd.Flags().StringVar(&config.ListenAddr, "addr", config.ListenAddr, "listen address")
	rootCmd.AddCommand(serveCmd)
}
