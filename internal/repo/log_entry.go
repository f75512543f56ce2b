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

// LogEntryRepo defines the persistence operations for duty-status entries.
// Every method is scoped to a trip.
type LogEntryRepo interface {
	// ListByTripID returns the trip's entries ordered by timestamp ascending.
	// Entries sharing a timestamp keep their insertion order.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.LogEntry, error)

	// BulkInsert writes entries with COPY and returns the number of rows written.
	// IDs are generated by the database and are not reported back.
	BulkInsert(ctx context.Context, entries []domain.LogEntry) (int64, error)

	// DeleteByTripID removes every entry of the trip and returns how many were removed.
	DeleteByTripID(ctx context.Context, tripID uuid.UUID) (int64, error)

	// Create inserts a single entry and returns the persisted record.
	Create(ctx context.Context, e domain.LogEntry) (domain.LogEntry, error)

	// GetByID returns one entry of the trip.
	// Returns domain.ErrNotFound if the entry does not exist or belongs to another trip.
	GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.LogEntry, error)

	// Delete removes one entry of the trip.
	// Returns domain.ErrNotFound if the entry does not exist or belongs to another trip.
	Delete(ctx context.Context, tripID, id uuid.UUID) error
}

type pgLogEntryRepo struct {
	db db
}

// NewLogEntryRepo constructs a LogEntryRepo backed by db.
func NewLogEntryRepo(db db) LogEntryRepo {
	return &pgLogEntryRepo{db: db}
}

const logEntryColumns = `id, trip_id, timestamp, status, location, remarks, latitude, longitude`

func (r *pgLogEntryRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.LogEntry, error) {
	const q = `
		SELECT ` + logEntryColumns + `
		FROM log_entries
		WHERE trip_id = @trip_id
		ORDER BY timestamp ASC, seq ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.LogEntryRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var entries []domain.LogEntry
	for rows.Next() {
		e, err := scanLogEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.LogEntryRepo.ListByTripID: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LogEntryRepo.ListByTripID: rows: %w", err)
	}
	return entries, nil
}

func (r *pgLogEntryRepo) BulkInsert(ctx context.Context, entries []domain.LogEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	columns := []string{"trip_id", "timestamp", "status", "location", "remarks", "latitude", "longitude"}
	src := pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
		e := entries[i]
		if !e.Status.Valid() {
			return nil, fmt.Errorf("entry %d: %w: invalid duty status", i, domain.ErrValidation)
		}
		return []any{e.TripID, e.Timestamp, e.Status.String(), e.Location, e.Remarks, e.Latitude, e.Longitude}, nil
	})

	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"log_entries"}, columns, src)
	if err != nil {
		return 0, fmt.Errorf("repo.LogEntryRepo.BulkInsert: %w", err)
	}
	return n, nil
}

func (r *pgLogEntryRepo) DeleteByTripID(ctx context.Context, tripID uuid.UUID) (int64, error) {
	const q = `DELETE FROM log_entries WHERE trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return 0, fmt.Errorf("repo.LogEntryRepo.DeleteByTripID: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *pgLogEntryRepo) Create(ctx context.Context, e domain.LogEntry) (domain.LogEntry, error) {
	const q = `
		INSERT INTO log_entries (trip_id, timestamp, status, location, remarks, latitude, longitude)
		VALUES (@trip_id, @timestamp, @status, @location, @remarks, @latitude, @longitude)
		RETURNING ` + logEntryColumns

	args := pgx.NamedArgs{
		"trip_id":   e.TripID,
		"timestamp": e.Timestamp,
		"status":    e.Status.String(),
		"location":  e.Location,
		"remarks":   e.Remarks,
		"latitude":  e.Latitude, // nil becomes NULL
		"longitude": e.Longitude,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanLogEntry(row)
	if err != nil {
		return domain.LogEntry{}, fmt.Errorf("repo.LogEntryRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgLogEntryRepo) GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.LogEntry, error) {
	const q = `
		SELECT ` + logEntryColumns + `
		FROM log_entries
		WHERE id = @id AND trip_id = @trip_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "trip_id": tripID})
	result, err := scanLogEntry(row)
	if err != nil {
		return domain.LogEntry{}, fmt.Errorf("repo.LogEntryRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgLogEntryRepo) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	const q = `DELETE FROM log_entries WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.LogEntryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.LogEntryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanLogEntry maps a row into a domain.LogEntry, converting the status code
// and the nullable coordinate pair.
func scanLogEntry(s scanner) (domain.LogEntry, error) {
	var (
		e        domain.LogEntry
		id       pgtype.UUID
		tripID   pgtype.UUID
		ts       time.Time
		status   string
		lat, lon pgtype.Float8
	)

	err := s.Scan(&id, &tripID, &ts, &status, &e.Location, &e.Remarks, &lat, &lon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LogEntry{}, domain.ErrNotFound
		}
		return domain.LogEntry{}, err
	}

	e.Status, err = domain.ParseDutyStatus(status)
	if err != nil {
		return domain.LogEntry{}, err
	}
	e.ID = uuid.UUID(id.Bytes)
	e.TripID = uuid.UUID(tripID.Bytes)
	e.Timestamp = ts.UTC()
	if lat.Valid && lon.Valid {
		e.SetCoordinates(&domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64})
	}
	return e, nil
}
