package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/skillshock/skillshock-cli/internal/analytics"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute the five trajectory metrics and print them as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		engine := analytics.NewEngine(st,
			cfg.Analytics.MinSampleSize,
			cfg.Analytics.TopFirstRoles,
			cfg.Analytics.TopPaths,
		)
		metrics, err := engine.ComputeAll(ctx)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		out, err := json.MarshalIndent(metrics, "", "  ")
		if err != nil {
			return eris.Wrap(err, "analyze: marshal metrics")
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
