// Package store persists normalized career records and serves the read
// queries the aggregation engine needs. Two backends implement the same
// interface: SQLite (default) and Postgres.
package store

import (
	"context"

	"github.com/skillshock/skillshock-cli/internal/model"
)

// IngestTx scopes the inserts for one input file to a single transaction.
// Persons are insert-or-ignore keyed by identifier; everything else is
// append-only. There are no update or delete operations.
type IngestTx interface {
	InsertPerson(ctx context.Context, p model.Person) error
	InsertJobs(ctx context.Context, personID string, jobs []model.Job) error
	InsertEducation(ctx context.Context, personID string, edu []model.Education) error
	InsertChange(ctx context.Context, personID string, chg model.Change) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Store defines the persistence interface for the analytics pipeline.
type Store interface {
	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error

	// Ingestion
	BeginIngest(ctx context.Context) (IngestTx, error)
	RecordIngest(ctx context.Context, entry model.IngestEntry) error
	ListIngests(ctx context.Context) ([]model.IngestEntry, error)

	// Aggregation reads
	ListJobs(ctx context.Context) ([]model.JobRow, error)
	ListFirstJobs(ctx context.Context) ([]model.FirstJob, error)
	ListEducationFields(ctx context.Context) ([]model.EducationField, error)
	CountPersons(ctx context.Context) (int, error)
	CountJobs(ctx context.Context) (int, error)
}
