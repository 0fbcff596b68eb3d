package ingest

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillshock/skillshock-cli/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })
	return st
}

func newTestIngestor(t *testing.T, st store.Store) *Ingestor {
	t.Helper()
	return New(st, newTestNormalizer(t), 0)
}

// writeGzipFile writes lines as a gzip-compressed newline-delimited file.
func writeGzipFile(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return path
}

func TestIngestFile_SkipsMalformedLines(t *testing.T) {
	st := newTestStore(t)
	ing := newTestIngestor(t, st)
	ctx := context.Background()

	path := writeGzipFile(t, t.TempDir(), "persons.jsonl.gz", []string{
		`{"id": "p1", "jobs": [{"title": "Engineer"}]}`,
		`{broken`,
		`{"jobs": [{"title": "No Identifier"}]}`,
		``,
		`{"id": "p2"}`,
	})

	res, err := ing.IngestFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Loaded)
	assert.Equal(t, 2, res.Skipped)

	persons, err := st.CountPersons(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, persons)
}

func TestIngestFile_PlainJSONL(t *testing.T) {
	st := newTestStore(t)
	ing := newTestIngestor(t, st)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "persons.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"id": "p1"}`+"\n"), 0o644))

	res, err := ing.IngestFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Loaded)
	assert.Equal(t, 0, res.Skipped)
}

func TestIngestFile_CorruptGzipIsFatal(t *testing.T) {
	st := newTestStore(t)
	ing := newTestIngestor(t, st)

	path := filepath.Join(t.TempDir(), "bad.jsonl.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip at all"), 0o644))

	_, err := ing.IngestFile(context.Background(), path)
	assert.Error(t, err)
}

func TestIngestFile_RecordsAuditEntry(t *testing.T) {
	st := newTestStore(t)
	ing := newTestIngestor(t, st)
	ctx := context.Background()

	path := writeGzipFile(t, t.TempDir(), "persons.jsonl.gz", []string{
		`{"id": "p1"}`,
		`{broken`,
	})

	_, err := ing.IngestFile(ctx, path)
	require.NoError(t, err)

	entries, err := st.ListIngests(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "persons.jsonl.gz", e.File)
	assert.Equal(t, 1, e.Loaded)
	assert.Equal(t, 1, e.Skipped)
	assert.False(t, e.FinishedAt.Before(e.StartedAt))
}

func TestIngestDir_SortedAndSummed(t *testing.T) {
	st := newTestStore(t)
	ing := newTestIngestor(t, st)
	ctx := context.Background()
	dir := t.TempDir()

	// Written out of lexical order on purpose.
	writeGzipFile(t, dir, "persons_2.jsonl.gz", []string{`{"id": "p2"}`, `{"id": "p3"}`})
	writeGzipFile(t, dir, "persons_1.jsonl.gz", []string{`{"id": "p1"}`, `{oops`})
	writeGzipFile(t, dir, "ignored.txt.gz", []string{`{"id": "px"}`})

	sum, err := ing.IngestDir(ctx, dir, "persons_*.jsonl.gz")
	require.NoError(t, err)

	require.Len(t, sum.Files, 2)
	assert.Equal(t, "persons_1.jsonl.gz", filepath.Base(sum.Files[0]))
	assert.Equal(t, "persons_2.jsonl.gz", filepath.Base(sum.Files[1]))
	assert.Equal(t, 3, sum.Loaded)
	assert.Equal(t, 1, sum.Skipped)

	persons, err := st.CountPersons(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, persons)
}

func TestIngestDir_DuplicatePersonAcrossFiles(t *testing.T) {
	st := newTestStore(t)
	ing := newTestIngestor(t, st)
	ctx := context.Background()
	dir := t.TempDir()

	writeGzipFile(t, dir, "persons_1.jsonl.gz", []string{
		`{"id": "p1", "jobs": [{"title": "Engineer", "started_at": "2020-01-01"}]}`,
	})
	writeGzipFile(t, dir, "persons_2.jsonl.gz", []string{
		`{"id": "p1", "jobs": [{"title": "Manager", "started_at": "2022-01-01"}]}`,
	})

	sum, err := ing.IngestDir(ctx, dir, "persons_*.jsonl.gz")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Loaded)

	// The person row is deduplicated; the job rows are append-only.
	persons, err := st.CountPersons(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, persons)

	jobs, err := st.CountJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, jobs)
}

func TestIngestDir_NoMatchesIsError(t *testing.T) {
	st := newTestStore(t)
	ing := newTestIngestor(t, st)

	_, err := ing.IngestDir(context.Background(), t.TempDir(), "*.jsonl.gz")
	assert.Error(t, err)
}
