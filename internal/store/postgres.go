package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/skillshock/skillshock-cli/internal/db"
	"github.com/skillshock/skillshock-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS persons (
	id                TEXT PRIMARY KEY,
	created_at        TEXT,
	employment_status TEXT,
	connections       INTEGER,
	location_country  TEXT,
	location_city     TEXT
);

CREATE TABLE IF NOT EXISTS jobs (
	id                    BIGSERIAL PRIMARY KEY,
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
	id         BIGSERIAL PRIMARY KEY,
	person_id  TEXT NOT NULL,
	school     TEXT,
	degree     TEXT,
	field      TEXT,
	started_at TEXT,
	ended_at   TEXT
);

CREATE TABLE IF NOT EXISTS changes (
	id                         BIGSERIAL PRIMARY KEY,
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
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_jobs_person_id ON jobs(person_id);
CREATE INDEX IF NOT EXISTS idx_jobs_started_at ON jobs(started_at);
CREATE INDEX IF NOT EXISTS idx_education_person_id ON education(person_id);
CREATE INDEX IF NOT EXISTS idx_changes_person_id ON changes(person_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// postgresIngestTx implements IngestTx over one pgx transaction. Jobs and
// education rows go through the COPY protocol.
type postgresIngestTx struct {
	tx pgx.Tx
}

func (s *PostgresStore) BeginIngest(ctx context.Context) (IngestTx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: begin ingest")
	}
	return &postgresIngestTx{tx: tx}, nil
}

func (t *postgresIngestTx) InsertPerson(ctx context.Context, p model.Person) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO persons (id, created_at, employment_status, connections, location_country, location_city)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		p.ID, p.CreatedAt, p.EmploymentStatus, p.Connections, p.LocationCountry, p.LocationCity,
	)
	return eris.Wrapf(err, "postgres: insert person %s", p.ID)
}

var jobColumns = []string{
	"person_id", "title", "function", "level", "company_name", "company_industry",
	"started_at", "ended_at", "duration_months", "company_tenure_months",
}

func (t *postgresIngestTx) InsertJobs(ctx context.Context, personID string, jobs []model.Job) error {
	rows := make([][]any, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []any{
			personID, j.Title, j.Function, string(j.Level), j.CompanyName, j.CompanyIndustry,
			j.StartedAt, j.EndedAt, j.DurationMonths, j.CompanyTenureMonths,
		})
	}
	_, err := db.CopyFrom(ctx, t.tx, "jobs", jobColumns, rows)
	return eris.Wrapf(err, "postgres: insert jobs for %s", personID)
}

var educationColumns = []string{"person_id", "school", "degree", "field", "started_at", "ended_at"}

func (t *postgresIngestTx) InsertEducation(ctx context.Context, personID string, edu []model.Education) error {
	rows := make([][]any, 0, len(edu))
	for _, e := range edu {
		rows = append(rows, []any{personID, e.School, e.Degree, e.Field, e.StartedAt, e.EndedAt})
	}
	_, err := db.CopyFrom(ctx, t.tx, "education", educationColumns, rows)
	return eris.Wrapf(err, "postgres: insert education for %s", personID)
}

func (t *postgresIngestTx) InsertChange(ctx context.Context, personID string, chg model.Change) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO changes (person_id, title_change_detected_at, company_change_detected_at, info_change_detected_at)
		 VALUES ($1, $2, $3, $4)`,
		personID, chg.TitleChangeDetectedAt, chg.CompanyChangeDetectedAt, chg.InfoChangeDetectedAt,
	)
	return eris.Wrapf(err, "postgres: insert change for %s", personID)
}

func (t *postgresIngestTx) Commit(ctx context.Context) error {
	return eris.Wrap(t.tx.Commit(ctx), "postgres: commit ingest")
}

func (t *postgresIngestTx) Rollback(ctx context.Context) error {
	return eris.Wrap(t.tx.Rollback(ctx), "postgres: rollback ingest")
}

func (s *PostgresStore) RecordIngest(ctx context.Context, entry model.IngestEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ingest_log (id, file, loaded, skipped, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.File, entry.Loaded, entry.Skipped, entry.StartedAt, entry.FinishedAt,
	)
	return eris.Wrapf(err, "postgres: record ingest %s", entry.File)
}

func (s *PostgresStore) ListIngests(ctx context.Context) ([]model.IngestEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, file, loaded, skipped, started_at, finished_at
		 FROM ingest_log ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list ingests")
	}
	defer rows.Close()

	var entries []model.IngestEntry
	for rows.Next() {
		var e model.IngestEntry
		if err := rows.Scan(&e.ID, &e.File, &e.Loaded, &e.Skipped, &e.StartedAt, &e.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan ingest entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list ingests iterate")
}

func (s *PostgresStore) ListJobs(ctx context.Context) ([]model.JobRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT person_id, title, level, company_industry, started_at
		 FROM jobs ORDER BY person_id, started_at, id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list jobs")
	}
	defer rows.Close()

	var out []model.JobRow
	for rows.Next() {
		var r model.JobRow
		var level string
		if err := rows.Scan(&r.PersonID, &r.Title, &level, &r.CompanyIndustry, &r.StartedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan job row")
		}
		r.Level = model.Level(level)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list jobs iterate")
}

func (s *PostgresStore) ListFirstJobs(ctx context.Context) ([]model.FirstJob, error) {
	rows, err := s.pool.Query(ctx,
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
		return nil, eris.Wrap(err, "postgres: list first jobs")
	}
	defer rows.Close()

	var out []model.FirstJob
	for rows.Next() {
		var f model.FirstJob
		if err := rows.Scan(&f.PersonID, &f.Title); err != nil {
			return nil, eris.Wrap(err, "postgres: scan first job")
		}
		out = append(out, f)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list first jobs iterate")
}

func (s *PostgresStore) ListEducationFields(ctx context.Context) ([]model.EducationField, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT person_id, field FROM education WHERE field IS NOT NULL ORDER BY person_id, id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list education fields")
	}
	defer rows.Close()

	var out []model.EducationField
	for rows.Next() {
		var e model.EducationField
		if err := rows.Scan(&e.PersonID, &e.Field); err != nil {
			return nil, eris.Wrap(err, "postgres: scan education field")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list education fields iterate")
}

func (s *PostgresStore) CountPersons(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM persons`)
}

func (s *PostgresStore) CountJobs(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM jobs`)
}

func (s *PostgresStore) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, eris.Wrapf(err, "postgres: %s", query)
	}
	return n, nil
}
