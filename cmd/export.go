package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skillshock/skillshock-cli/internal/analytics"
	"github.com/skillshock/skillshock-cli/internal/export"
)

var exportOutputPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Compute metrics and write the output payload",
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
			return eris.Wrap(err, "export: compute")
		}

		outputPath := exportOutputPath
		if outputPath == "" {
			outputPath = cfg.Export.OutputPath
		}

		files, err := dataFiles(cfg)
		if err != nil {
			return eris.Wrap(err, "export")
		}

		payload, err := export.Run(ctx, st, metrics, files, outputPath)
		if err != nil {
			return eris.Wrap(err, "export")
		}

		zap.L().Info("export complete",
			zap.String("path", outputPath),
			zap.Int("total_persons", payload.Metadata.TotalPersons),
			zap.Int("total_jobs", payload.Metadata.TotalJobs),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutputPath, "output", "", "output path (default from config)")
	rootCmd.AddCommand(exportCmd)
}
