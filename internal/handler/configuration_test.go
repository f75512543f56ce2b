package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trucker-logbook/internal/domain"
)

type configurationBody struct {
	ID                *uuid.UUID `json:"id"`
	TripID            uuid.UUID  `json:"trip_id"`
	FuelStopFrequency float64    `json:"fuel_stop_frequency"`
	PickupDropoffTime float64    `json:"pickup_dropoff_time"`
	MinimumRestStop   float64    `json:"minimum_rest_stop"`
}

func TestGetConfiguration_200_Defaults(t *testing.T) {
	tripID := uuid.New()
	svc := &mockConfigurationServicer{
		get: func(_ context.Context, id uuid.UUID) (domain.Configuration, error) {
			return domain.DefaultConfiguration(id), nil
		},
	}

	rec := do(t, newHTTPHandler(services{configs: svc}), http.MethodGet, "/trips/"+tripID.String()+"/configuration", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[configurationBody](t, rec)
	assert.Nil(t, resp.ID, "unsaved defaults have no id")
	assert.Equal(t, tripID, resp.TripID)
	assert.InDelta(t, 1000.0, resp.FuelStopFrequency, 1e-9)
	assert.InDelta(t, 1.0, resp.PickupDropoffTime, 1e-9)
	assert.InDelta(t, 0.5, resp.MinimumRestStop, 1e-9)
}

func TestGetConfiguration_404(t *testing.T) {
	svc := &mockConfigurationServicer{
		get: func(_ context.Context, _ uuid.UUID) (domain.Configuration, error) {
			return domain.Configuration{}, domain.ErrNotFound
		},
	}

	rec := do(t, newHTTPHandler(services{configs: svc}), http.MethodGet, "/trips/"+uuid.NewString()+"/configuration", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutConfiguration_200(t *testing.T) {
	tripID := uuid.New()
	var got domain.Configuration
	svc := &mockConfigurationServicer{
		upsert: func(_ context.Context, c domain.Configuration) (domain.Configuration, error) {
			got = c
			c.ID = uuid.New()
			return c, nil
		},
	}
	body := map[string]any{"fuel_stop_frequency": 800, "pickup_dropoff_time": 1.5, "minimum_rest_stop": 0.75}

	rec := do(t, newHTTPHandler(services{configs: svc}), http.MethodPut, "/trips/"+tripID.String()+"/configuration", body)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[configurationBody](t, rec)
	require.NotNil(t, resp.ID)
	assert.InDelta(t, 0.75, resp.MinimumRestStop, 1e-9)
	assert.Equal(t, tripID, got.TripID)
	assert.InDelta(t, 800.0, got.FuelStopFrequency, 1e-9)
}

func TestPutConfiguration_422(t *testing.T) {
	svc := &mockConfigurationServicer{
		upsert: func(_ context.Context, _ domain.Configuration) (domain.Configuration, error) {
			return domain.Configuration{}, fmt.Errorf("%w: minimum_rest_stop must be in (0, 1] hours", domain.ErrValidation)
		},
	}
	body := map[string]any{"fuel_stop_frequency": 800, "pickup_dropoff_time": 1, "minimum_rest_stop": 0}

	rec := do(t, newHTTPHandler(services{configs: svc}), http.MethodPut, "/trips/"+uuid.NewString()+"/configuration", body)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "minimum_rest_stop must be in (0, 1] hours", decode[errorBody](t, rec).Error.Message)
}
