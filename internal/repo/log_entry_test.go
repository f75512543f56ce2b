package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trucker-logbook/internal/domain"
	"github.com/pkordes/trucker-logbook/internal/repo"
)

func entryFixture(tripID uuid.UUID, at time.Time, status domain.DutyStatus) domain.LogEntry {
	e := domain.LogEntry{
		TripID:    tripID,
		Timestamp: at,
		Status:    status,
		Location:  "Miami, FL",
		Remarks:   "Start of day",
	}
	e.SetCoordinates(&domain.Coordinates{Lat: 25.7617, Lon: -80.1918})
	return e
}

func TestLogEntryRepo_Create(t *testing.T) {
	repos := repo.NewRepos(newTestTx(t))
	trip := createTrip(t, repos.Trips)

	input := entryFixture(trip.ID, trip.StartDate.Add(90*time.Minute), domain.Driving)
	got, err := repos.LogEntries.Create(context.Background(), input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, trip.ID, got.TripID)
	assert.True(t, got.Timestamp.Equal(input.Timestamp))
	assert.Equal(t, domain.Driving, got.Status)
	assert.Equal(t, "Miami, FL", got.Location)
	require.NotNil(t, got.Latitude)
	require.NotNil(t, got.Longitude)
	assert.InDelta(t, 25.7617, *got.Latitude, 1e-9)
	assert.InDelta(t, -80.1918, *got.Longitude, 1e-9)
}

func TestLogEntryRepo_Create_NilCoordinates(t *testing.T) {
	repos := repo.NewRepos(newTestTx(t))
	trip := createTrip(t, repos.Trips)

	input := entryFixture(trip.ID, trip.StartDate, domain.OffDuty)
	input.SetCoordinates(nil)
	got, err := repos.LogEntries.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Nil(t, got.Latitude)
	assert.Nil(t, got.Longitude)
}

func TestLogEntryRepo_BulkInsert_ListOrdered(t *testing.T) {
	repos := repo.NewRepos(newTestTx(t))
	ctx := context.Background()
	trip := createTrip(t, repos.Trips)

	day := trip.StartDate
	entries := []domain.LogEntry{
		entryFixture(trip.ID, day.Add(6*time.Hour), domain.OnDuty),
		entryFixture(trip.ID, day, domain.OffDuty),
		// Two entries at the same instant must come back in insertion order.
		entryFixture(trip.ID, day.Add(8*time.Hour), domain.OnDuty),
		entryFixture(trip.ID, day.Add(8*time.Hour), domain.SleeperBerth),
	}
	entries[1].SetCoordinates(nil)

	n, err := repos.LogEntries.BulkInsert(ctx, entries)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	got, err := repos.LogEntries.ListByTripID(ctx, trip.ID)

	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, domain.OffDuty, got[0].Status)
	assert.Nil(t, got[0].Latitude)
	assert.Equal(t, domain.OnDuty, got[1].Status)
	assert.Equal(t, domain.OnDuty, got[2].Status)
	assert.Equal(t, domain.SleeperBerth, got[3].Status)
	for _, e := range got {
		assert.NotEqual(t, uuid.Nil, e.ID)
	}
}

func TestLogEntryRepo_BulkInsert_Empty(t *testing.T) {
	r := repo.NewLogEntryRepo(newTestTx(t))

	n, err := r.BulkInsert(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLogEntryRepo_BulkInsert_InvalidStatus(t *testing.T) {
	repos := repo.NewRepos(newTestTx(t))
	trip := createTrip(t, repos.Trips)

	_, err := repos.LogEntries.BulkInsert(context.Background(), []domain.LogEntry{
		entryFixture(trip.ID, trip.StartDate, domain.DutyStatus(0)),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogEntryRepo_DeleteByTripID(t *testing.T) {
	repos := repo.NewRepos(newTestTx(t))
	ctx := context.Background()
	trip := createTrip(t, repos.Trips)
	other := createTrip(t, repos.Trips)

	_, err := repos.LogEntries.BulkInsert(ctx, []domain.LogEntry{
		entryFixture(trip.ID, trip.StartDate, domain.OffDuty),
		entryFixture(trip.ID, trip.StartDate.Add(time.Hour), domain.OnDuty),
		entryFixture(other.ID, other.StartDate, domain.OffDuty),
	})
	require.NoError(t, err)

	n, err := repos.LogEntries.DeleteByTripID(ctx, trip.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	left, err := repos.LogEntries.ListByTripID(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, left, 1, "other trips are untouched")
}

func TestLogEntryRepo_GetByID_ScopedToTrip(t *testing.T) {
	repos := repo.NewRepos(newTestTx(t))
	ctx := context.Background()
	trip := createTrip(t, repos.Trips)
	other := createTrip(t, repos.Trips)

	created, err := repos.LogEntries.Create(ctx, entryFixture(trip.ID, trip.StartDate, domain.OffDuty))
	require.NoError(t, err)

	got, err := repos.LogEntries.GetByID(ctx, trip.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repos.LogEntries.GetByID(ctx, other.ID, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogEntryRepo_Delete(t *testing.T) {
	repos := repo.NewRepos(newTestTx(t))
	ctx := context.Background()
	trip := createTrip(t, repos.Trips)

	created, err := repos.LogEntries.Create(ctx, entryFixture(trip.ID, trip.StartDate, domain.OffDuty))
	require.NoError(t, err)

	require.NoError(t, repos.LogEntries.Delete(ctx, trip.ID, created.ID))

	err = repos.LogEntries.Delete(ctx, trip.ID, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
