package store

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/skillshock/skillshock-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS persons (
	id                TEXT PRIMARY KEY,
	created_at        TEXT,
	employment_status TEXT,
	connections       INTEGER,
	location_country  TEXT,
	location_city     TEXT
);

CREATE TABLE IF NOT EXISTS jobs (
	id                    INTEGER PRIMARY KEY AUTOINCREMENT,
	person_id             TEXT NOT NULL,
	title                 TEXT,
	function              TEXT,
	level                 TEXT NOT NULL DEFAULT 'Unknown',
	company_name          TEXT,
	company_industry      TEXT,
	started_at            TEXT,
	ended_at              TEXT,
	duration_months       INTEGER,
	company_tenure_months INTEGER
);

CREATE TABLE IF NOT EXISTS education (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	person_id  TEXT NOT NULL,
	school     TEXT,
	degree     TEXT,
	field      TEXT,
	started_at TEXT,
	ended_at   TEXT
);

CREATE TABLE IF NOT EXISTS changes (
	id                         INTEGER PRIMARY KEY AUTOINCREMENT,
	person_id                  TEXT NOT NULL,
	title_change_detected_at   TEXT,
	company_change_detected_at TEXT,
	info_change_detected_at    TEXT
);

CREATE TABLE IF NOT EXISTS ingest_log (
	id          TEXT PRIMARY KEY,
	file        TEXT NOT NULL,
	loaded      INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_jobs_person_id ON jobs(person_id);
CREATE INDEX IF NOT EXISTS idx_jobs_started_at ON jobs(started_at);
CREATE INDEX IF NOT EXISTS idx_education_person_id ON education(person_id);
CREATE INDEX IF NOT EXISTS idx_changes_person_id ON changes(person_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// sqliteIngestTx implements IngestTx over one database/sql transaction.
type sqliteIngestTx struct {
	tx *sql.Tx
}

func (s *SQLiteStore) BeginIngest(ctx context.Context) (IngestTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin ingest")
	}
	return &sqliteIngestTx{tx: tx}, nil
}

func (t *sqliteIngestTx) InsertPerson(ctx context.Context, p model.Person) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO persons (id, created_at, employment_status, connections, location_country, location_city)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.CreatedAt, p.EmploymentStatus, p.Connections, p.LocationCountry, p.LocationCity,
	)
	return eris.Wrapf(err, "sqlite: insert person %s", p.ID)
}

func (t *sqliteIngestTx) InsertJobs(ctx context.Context, personID string, jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	stmt, err := t.tx.PrepareContext(ctx,
		`INSERT INTO jobs (person_id, title, function, level, company_name, company_industry, started_at, ended_at, duration_months, company_tenure_months)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert job")
	}
	defer stmt.Close()

	for _, j := range jobs {
		if _, err := stmt.ExecContext(ctx,
			personID, j.Title, j.Function, string(j.Level), j.CompanyName, j.CompanyIndustry,
			j.StartedAt, j.EndedAt, j.DurationMonths, j.CompanyTenureMonths,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert job for %s", personID)
		}
	}
	return nil
}

func (t *sqliteIngestTx) InsertEducation(ctx context.Context, personID string, edu []model.Education) error {
	if len(edu) == 0 {
		return nil
	}
	stmt, err := t.tx.PrepareContext(ctx,
		`INSERT INTO education (person_id, school, degree, field, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert education")
	}
	defer stmt.Close()

	for _, e := range edu {
		if _, err := stmt.ExecContext(ctx,
			personID, e.School, e.Degree, e.Field, e.StartedAt, e.EndedAt,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert education for %s", personID)
		}
	}
	return nil
}

func (t *sqliteIngestTx) InsertChange(ctx context.Context, personID string, chg model.Change) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO changes (person_id, title_change_detected_at, company_change_detected_at, info_change_detected_at)
		 VALUES (?, ?, ?, ?)`,
		personID, chg.TitleChangeDetectedAt, chg.CompanyChangeDetectedAt, chg.InfoChangeDetectedAt,
	)
	return eris.Wrapf(err, "sqlite: insert change for %s", personID)
}

func (t *sqliteIngestTx) Commit(ctx context.Context) error {
	return eris.Wrap(t.tx.Commit(), "sqlite: commit ingest")
}

func (t *sqliteIngestTx) Rollback(ctx context.Context) error {
	return eris.Wrap(t.tx.Rollback(), "sqlite: rollback ingest")
}

func (s *SQLiteStore) RecordIngest(ctx context.Context, entry model.IngestEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingest_log (id, file, loaded, skipped, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.File, entry.Loaded, entry.Skipped, entry.StartedAt, entry.FinishedAt,
	)
	return eris.Wrapf(err, "sqlite: record ingest %s", entry.File)
}

func (s *SQLiteStore) ListIngests(ctx context.Context) ([]model.IngestEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file, loaded, skipped, started_at, finished_at
		 FROM ingest_log ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list ingests")
	}
	defer rows.Close()

	var entries []model.IngestEntry
	for rows.Next() {
		var e model.IngestEntry
		if err := rows.Scan(&e.ID, &e.File, &e.Loaded, &e.Skipped, &e.StartedAt, &e.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan ingest entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list ingests iterate")
}

// ListJobs returns the aggregation projection of every job, ordered by
// person, start timestamp, then insertion id. The trailing id key makes
// identical-start ordering deterministic (insertion order).
func (s *SQLiteStore) ListJobs(ctx context.Context) ([]model.JobRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT person_id, title, level, company_industry, started_at
		 FROM jobs ORDER BY person_id, started_at, id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list jobs")
	}
	defer rows.Close()

	var out []model.JobRow
	for rows.Next() {
		var r model.JobRow
		var level string
		if err := rows.Scan(&r.PersonID, &r.Title, &level, &r.CompanyIndustry, &r.StartedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan job row")
		}
		r.Level = model.Level(level)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list jobs iterate")
}

// ListFirstJobs returns each person's earliest job that has both a start
// timestamp and a title.
func (s *SQLiteStore) ListFirstJobs(ctx context.Context) ([]model.FirstJob, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT j.person_id, j.title
		 FROM jobs j
		 INNER JOIN (
			SELECT person_id, MIN(started_at) AS min_start
			FROM jobs
			WHERE started_at IS NOT NULL AND title IS NOT NULL
			GROUP BY person_id
		 ) earliest ON j.person_id = earliest.person_id AND j.started_at = earliest.min_start
		 WHERE j.title IS NOT NULL
		 ORDER BY j.person_id, j.id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list first jobs")
	}
	defer rows.Close()

	var out []model.FirstJob
	for rows.Next() {
		var f model.FirstJob
		if err := rows.Scan(&f.PersonID, &f.Title); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan first job")
		}
		out = append(out, f)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list first jobs iterate")
}

func (s *SQLiteStore) ListEducationFields(ctx context.Context) ([]model.EducationField, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT person_id, field FROM education WHERE field IS NOT NULL ORDER BY person_id, id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list education fields")
	}
	defer rows.Close()

	var out []model.EducationField
	for rows.Next() {
		var e model.EducationField
		if err := rows.Scan(&e.PersonID, &e.Field); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan education field")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list education fields iterate")
}

func (s *SQLiteStore) CountPersons(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM persons`)
}

func (s *SQLiteStore) CountJobs(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM jobs`)
}

func (s *SQLiteStore) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, eris.Wrapf(err, "sqlite: %s", query)
	}
	return n, nil
}
