package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trucker-logbook/internal/domain"
)

// SummaryRepo defines the persistence operations for daily summaries.
// Summaries are keyed by (trip_id, date); there is at most one per trip and day.
type SummaryRepo interface {
	// Upsert inserts the summary or overwrites the totals of the existing row
	// for the same trip and date, returning the stored record.
	Upsert(ctx context.Context, s domain.DailySummary) (domain.DailySummary, error)

	// GetByTripAndDate returns the trip's summary for date.
	// Returns domain.ErrNotFound if there is none.
	GetByTripAndDate(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.DailySummary, error)

	// GetByID retrieves a summary by primary key.
	// Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.DailySummary, error)

	// ListByTripID returns the trip's summaries ordered by date ascending.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.DailySummary, error)

	// DeleteByTripExceptDates removes the trip's summaries whose date is not in
	// keep and returns how many were removed. An empty keep removes them all.
	DeleteByTripExceptDates(ctx context.Context, tripID uuid.UUID, keep []time.Time) (int64, error)
}

type pgSummaryRepo struct {
	db db
}

// NewSummaryRepo constructs a SummaryRepo backed by db.
func NewSummaryRepo(db db) SummaryRepo {
	return &pgSummaryRepo{db: db}
}

const summaryColumns = `id, trip_id, date, total_miles_driving, total_off_duty_hours,
		       total_sleeper_berth_hours, total_driving_hours, total_on_duty_hours, total_lines_3_4`

func (r *pgSummaryRepo) Upsert(ctx context.Context, s domain.DailySummary) (domain.DailySummary, error) {
	const q = `
		INSERT INTO daily_summaries (trip_id, date, total_miles_driving, total_off_duty_hours,
		                             total_sleeper_berth_hours, total_driving_hours,
		                             total_on_duty_hours, total_lines_3_4)
		VALUES (@trip_id, @date, @miles, @off_duty, @sleeper_berth, @driving, @on_duty, @lines_3_4)
		ON CONFLICT (trip_id, date) DO UPDATE
		SET total_miles_driving       = EXCLUDED.total_miles_driving,
		    total_off_duty_hours      = EXCLUDED.total_off_duty_hours,
		    total_sleeper_berth_hours = EXCLUDED.total_sleeper_berth_hours,
		    total_driving_hours       = EXCLUDED.total_driving_hours,
		    total_on_duty_hours       = EXCLUDED.total_on_duty_hours,
		    total_lines_3_4           = EXCLUDED.total_lines_3_4
		RETURNING ` + summaryColumns

	args := pgx.NamedArgs{
		"trip_id":       s.TripID,
		"date":          pgtype.Date{Time: domain.DateOf(s.Date), Valid: true},
		"miles":         s.TotalMilesDriving,
		"off_duty":      s.TotalOffDutyHours,
		"sleeper_berth": s.TotalSleeperBerthHours,
		"driving":       s.TotalDrivingHours,
		"on_duty":       s.TotalOnDutyHours,
		"lines_3_4":     s.TotalLines34,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanSummary(row)
	if err != nil {
		return domain.DailySummary{}, fmt.Errorf("repo.SummaryRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgSummaryRepo) GetByTripAndDate(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.DailySummary, error) {
	const q = `
		SELECT ` + summaryColumns + `
		FROM daily_summaries
		WHERE trip_id = @trip_id AND date = @date`

	args := pgx.NamedArgs{
		"trip_id": tripID,
		"date":    pgtype.Date{Time: domain.DateOf(date), Valid: true},
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanSummary(row)
	if err != nil {
		return domain.DailySummary{}, fmt.Errorf("repo.SummaryRepo.GetByTripAndDate: %w", err)
	}
	return result, nil
}

func (r *pgSummaryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.DailySummary, error) {
	const q = `SELECT ` + summaryColumns + ` FROM daily_summaries WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanSummary(row)
	if err != nil {
		return domain.DailySummary{}, fmt.Errorf("repo.SummaryRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgSummaryRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.DailySummary, error) {
	const q = `
		SELECT ` + summaryColumns + `
		FROM daily_summaries
		WHERE trip_id = @trip_id
		ORDER BY date ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.SummaryRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var summaries []domain.DailySummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SummaryRepo.ListByTripID: scan: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SummaryRepo.ListByTripID: rows: %w", err)
	}
	return summaries, nil
}

func (r *pgSummaryRepo) DeleteByTripExceptDates(ctx context.Context, tripID uuid.UUID, keep []time.Time) (int64, error) {
	const q = `
		DELETE FROM daily_summaries
		WHERE trip_id = @trip_id
		  AND NOT (date = ANY(@keep::date[]))`

	dates := make([]pgtype.Date, len(keep))
	for i, d := range keep {
		dates[i] = pgtype.Date{Time: domain.DateOf(d), Valid: true}
	}

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "keep": dates})
	if err != nil {
		return 0, fmt.Errorf("repo.SummaryRepo.DeleteByTripExceptDates: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanSummary(s scanner) (domain.DailySummary, error) {
	var (
		d      domain.DailySummary
		id     pgtype.UUID
		tripID pgtype.UUID
		date   pgtype.Date
	)

	err := s.Scan(&id, &tripID, &date, &d.TotalMilesDriving, &d.TotalOffDutyHours,
		&d.TotalSleeperBerthHours, &d.TotalDrivingHours, &d.TotalOnDutyHours, &d.TotalLines34)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DailySummary{}, domain.ErrNotFound
		}
		return domain.DailySummary{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	d.TripID = uuid.UUID(tripID.Bytes)
	d.Date = date.Time
	return d, nil
}
