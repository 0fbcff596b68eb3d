// Package export assembles the metrics and run metadata into the single
// JSON artifact every downstream consumer reads.
package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/skillshock/skillshock-cli/internal/model"
	"github.com/skillshock/skillshock-cli/internal/store"
)

// BuildPayload wraps the computed metrics with run metadata. Person and
// job totals come straight from the store, not from the metrics.
func BuildPayload(ctx context.Context, st store.Store, metrics *model.Metrics, dataFiles []string) (*model.Payload, error) {
	totalPersons, err := st.CountPersons(ctx)
	if err != nil {
		return nil, err
	}
	totalJobs, err := st.CountJobs(ctx)
	if err != nil {
		return nil, err
	}

	basenames := make([]string, 0, len(dataFiles))
	for _, f := range dataFiles {
		basenames = append(basenames, filepath.Base(f))
	}

	return &model.Payload{
		Metadata: model.Metadata{
			GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
			TotalPersons: totalPersons,
			TotalJobs:    totalJobs,
			DataFiles:    basenames,
		},
		PromotionVelocity:   metrics.PromotionVelocity,
		RoleTransitions:     metrics.RoleTransitions,
		MajorToFirstRole:    metrics.MajorToFirstRole,
		IndustryTransitions: metrics.IndustryTransitions,
		PathsToRole:         metrics.PathsToRole,
	}, nil
}

// Save writes the payload as pretty-printed UTF-8 JSON, creating parent
// directories as needed. The write goes to a temp file in the target
// directory first and is renamed into place, so a failed run never leaves
// a partial file that looks complete. Returns the byte count written.
func Save(payload *model.Payload, outputPath string) (int, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return 0, eris.Wrap(err, "export: marshal payload")
	}
	data = append(data, '\n')

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, eris.Wrapf(err, "export: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".output-*.json")
	if err != nil {
		return 0, eris.Wrap(err, "export: create temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, eris.Wrapf(err, "export: write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, eris.Wrapf(err, "export: close %s", tmpName)
	}
	if err := os.Rename(tmpName, outputPath); err != nil {
		os.Remove(tmpName)
		return 0, eris.Wrapf(err, "export: rename to %s", outputPath)
	}

	zap.L().Info("export: payload written",
		zap.String("path", outputPath),
		zap.Int("bytes", len(data)),
	)
	return len(data), nil
}

// Run builds the payload and saves it. Returns the payload.
func Run(ctx context.Context, st store.Store, metrics *model.Metrics, dataFiles []string, outputPath string) (*model.Payload, error) {
	payload, err := BuildPayload(ctx, st, metrics, dataFiles)
	if err != nil {
		return nil, err
	}
	if _, err := Save(payload, outputPath); err != nil {
		return nil, err
	}
	return payload, nil
}
