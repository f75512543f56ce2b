package repo

import (
	"context"
	"fmt"
)

// AdminRepo holds operations that act on the whole database.
type AdminRepo interface {
	// ResetAll deletes every trip and, by cascade, every configuration, log
	// entry, and daily summary.
	ResetAll(ctx context.Context) error
}

type pgAdminRepo struct {
	db db
}

// NewAdminRepo constructs an AdminRepo backed by db.
func NewAdminRepo(db db) AdminRepo {
	return &pgAdminRepo{db: db}
}

func (r *pgAdminRepo) ResetAll(ctx context.Context) error {
	const q = `TRUNCATE trips, configurations, log_entries, daily_summaries`

	if _, err := r.db.Exec(ctx, q); err != nil {
		return fmt.Errorf("repo.AdminRepo.ResetAll: %w", err)
	}
	return nil
}
