package main

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skillshock/skillshock-cli/internal/analytics"
	"github.com/skillshock/skillshock-cli/internal/config"
	"github.com/skillshock/skillshock-cli/internal/export"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the full pipeline: migrate, ingest, analyze, export",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPipeline(cmd.Context(), cfg)
	},
}

// runPipeline executes the staged pipeline. The first fatal stage error
// halts the run with a stage label; records committed before the failure
// stay in the store.
func runPipeline(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// Stage 1: ingest
	zap.L().Info("pipeline: stage 1/3 ingest")
	if err := st.Migrate(ctx); err != nil {
		return eris.Wrap(err, "ingest failed")
	}
	ing, err := newIngestor(cfg, st)
	if err != nil {
		return eris.Wrap(err, "ingest failed")
	}
	sum, err := ing.IngestDir(ctx, cfg.Data.Dir, cfg.Data.Pattern)
	if err != nil {
		return eris.Wrap(err, "ingest failed")
	}

	// Stage 2: analytics
	zap.L().Info("pipeline: stage 2/3 analytics")
	engine := analytics.NewEngine(st,
		cfg.Analytics.MinSampleSize,
		cfg.Analytics.TopFirstRoles,
		cfg.Analytics.TopPaths,
	)
	metrics, err := engine.ComputeAll(ctx)
	if err != nil {
		return eris.Wrap(err, "analytics failed")
	}

	// Stage 3: export
	zap.L().Info("pipeline: stage 3/3 export")
	files := make([]string, len(sum.Files))
	copy(files, sum.Files)
	sort.Strings(files)
	payload, err := export.Run(ctx, st, metrics, files, cfg.Export.OutputPath)
	if err != nil {
		return eris.Wrap(err, "export failed")
	}

	zap.L().Info("pipeline complete",
		zap.String("output", cfg.Export.OutputPath),
		zap.Int("files", len(sum.Files)),
		zap.Int("loaded", sum.Loaded),
		zap.Int("skipped", sum.Skipped),
		zap.Int("total_persons", payload.Metadata.TotalPersons),
		zap.Int("total_jobs", payload.Metadata.TotalJobs),
	)
	return nil
}

// dataFiles lists the input files the configured glob currently matches.
func dataFiles(cfg *config.Config) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(cfg.Data.Dir, cfg.Data.Pattern))
	if err != nil {
		return nil, eris.Wrap(err, "glob data files")
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	rootCmd.AddCommand(pipelineCmd)
}
