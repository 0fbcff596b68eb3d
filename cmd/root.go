package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skillshock/skillshock-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "skillshock",
	Short: "Career trajectory analytics pipeline",
	Long:  "Ingests raw career-history records, normalizes them into a relational store, and computes population-level trajectory statistics exported as a single JSON payload.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
