package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skillshock/skillshock-cli/internal/config"
	"github.com/skillshock/skillshock-cli/internal/ingest"
	"github.com/skillshock/skillshock-cli/internal/model"
	"github.com/skillshock/skillshock-cli/internal/store"
)

var ingestDataDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest raw career-history files into the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "ingest: migrate")
		}

		ing, err := newIngestor(cfg, st)
		if err != nil {
			return err
		}

		dir := ingestDataDir
		if dir == "" {
			dir = cfg.Data.Dir
		}

		sum, err := ing.IngestDir(ctx, dir, cfg.Data.Pattern)
		if err != nil {
			return eris.Wrap(err, "ingest")
		}

		zap.L().Info("ingest complete",
			zap.Int("files", len(sum.Files)),
			zap.Int("loaded", sum.Loaded),
			zap.Int("skipped", sum.Skipped),
		)
		return nil
	},
}

// newIngestor builds an Ingestor with the configured level rules.
func newIngestor(cfg *config.Config, st store.Store) (*ingest.Ingestor, error) {
	rules := model.DefaultLevelRules()
	if cfg.Ingest.LevelRules != "" {
		loaded, err := model.LoadLevelRules(cfg.Ingest.LevelRules)
		if err != nil {
			return nil, err
		}
		rules = loaded
		zap.L().Info("ingest: using level rules override",
			zap.String("path", cfg.Ingest.LevelRules),
			zap.Int("rules", len(loaded)),
		)
	}
	return ingest.New(st, ingest.NewNormalizer(rules), cfg.Ingest.MaxLineBytes), nil
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDataDir, "data-dir", "", "input directory (default from config)")
	rootCmd.AddCommand(ingestCmd)
}
