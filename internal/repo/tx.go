package repo

import (
	"context"
	"fmt"
)

// Repos bundles the repositories that share one connection or transaction.
type Repos struct {
	Trips          TripRepo
	Configurations ConfigurationRepo
	LogEntries     LogEntryRepo
	Summaries      SummaryRepo
}

// NewRepos builds every repository on the same db.
func NewRepos(db db) Repos {
	return Repos{
		Trips:          NewTripRepo(db),
		Configurations: NewConfigurationRepo(db),
		LogEntries:     NewLogEntryRepo(db),
		Summaries:      NewSummaryRepo(db),
	}
}

// Transactor runs a unit of work atomically.
type Transactor interface {
	// WithinTx calls fn with repositories bound to a new transaction. The
	// transaction commits if fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(Repos) error) error
}

type pgTransactor struct {
	db db
}

// NewTransactor constructs a Transactor that begins transactions on db.
// Passing a pgx.Tx nests each unit of work in a savepoint.
func NewTransactor(db db) Transactor {
	return &pgTransactor{db: db}
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(Repos) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.Transactor.WithinTx: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.Transactor.WithinTx: commit: %w", err)
	}
	return nil
}
