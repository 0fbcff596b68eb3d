package ingest

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/skillshock/skillshock-cli/internal/model"
	"github.com/skillshock/skillshock-cli/internal/store"
)

// FileResult reports one file's line-level outcome.
type FileResult struct {
	Loaded  int `json:"loaded"`
	Skipped int `json:"skipped"`
}

// Summary reports a whole ingest run.
type Summary struct {
	Files   []string `json:"files"`
	Loaded  int      `json:"loaded"`
	Skipped int      `json:"skipped"`
}

// Ingestor loads raw career-history files into the store, one transaction
// per file. Malformed lines are skipped and counted; a file that cannot be
// opened or decompressed is fatal for the run.
type Ingestor struct {
	store        store.Store
	norm         *Normalizer
	maxLineBytes int
}

// New creates an Ingestor.
func New(st store.Store, norm *Normalizer, maxLineBytes int) *Ingestor {
	if maxLineBytes <= 0 {
		maxLineBytes = 16 * 1024 * 1024
	}
	return &Ingestor{store: st, norm: norm, maxLineBytes: maxLineBytes}
}

// IngestDir ingests every file in dir matching pattern, in sorted order.
// No matching files is an error; the first fatal file error halts the run
// with everything committed so far left in place.
func (i *Ingestor) IngestDir(ctx context.Context, dir, pattern string) (*Summary, error) {
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: glob %s", pattern)
	}
	if len(files) == 0 {
		return nil, eris.Errorf("ingest: no files matching %s in %s", pattern, dir)
	}
	sort.Strings(files)

	sum := &Summary{Files: files}
	for _, f := range files {
		res, err := i.IngestFile(ctx, f)
		if err != nil {
			return nil, err
		}
		sum.Loaded += res.Loaded
		sum.Skipped += res.Skipped
	}
	return sum, nil
}

// IngestFile ingests a single newline-delimited JSON file (gzip-compressed
// when it ends in .gz). All inserts commit as one transaction at
// end-of-file; an audit entry is recorded after the commit.
func (i *Ingestor) IngestFile(ctx context.Context, path string) (*FileResult, error) {
	startedAt := time.Now().UTC()

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: gzip %s", path)
		}
		defer gz.Close()
		r = gz
	}

	tx, err := i.store.BeginIngest(ctx)
	if err != nil {
		return nil, err
	}
	res, err := i.scanLines(ctx, tx, r, path)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	zap.L().Info("ingest: file complete",
		zap.String("file", filepath.Base(path)),
		zap.Int("loaded", res.Loaded),
		zap.Int("skipped", res.Skipped),
	)

	entry := newIngestEntry(path, res, startedAt)
	if err := i.store.RecordIngest(ctx, entry); err != nil {
		zap.L().Warn("ingest: failed to record audit entry", zap.Error(err))
	}
	return res, nil
}

func (i *Ingestor) scanLines(ctx context.Context, tx store.IngestTx, r io.Reader, path string) (*FileResult, error) {
	res := &FileResult{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), i.maxLineBytes)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		rec, err := i.norm.Normalize(line)
		if err != nil {
			zap.L().Warn("ingest: skipping malformed line",
				zap.String("file", filepath.Base(path)),
				zap.Int("line", lineNo),
				zap.Error(err),
			)
			res.Skipped++
			continue
		}

		// Insert failures are store-level, not line-level: fatal.
		if err := tx.InsertPerson(ctx, rec.Person); err != nil {
			return nil, err
		}
		if err := tx.InsertJobs(ctx, rec.Person.ID, rec.Jobs); err != nil {
			return nil, err
		}
		if err := tx.InsertEducation(ctx, rec.Person.ID, rec.Education); err != nil {
			return nil, err
		}
		if err := tx.InsertChange(ctx, rec.Person.ID, rec.Change); err != nil {
			return nil, err
		}
		res.Loaded++
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "ingest: read %s", path)
	}
	return res, nil
}

func newIngestEntry(path string, res *FileResult, startedAt time.Time) model.IngestEntry {
	return model.IngestEntry{
		ID:         uuid.New().String(),
		File:       filepath.Base(path),
		Loaded:     res.Loaded,
		Skipped:    res.Skipped,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
	}
}
