package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at srv with a millisecond backoff so retry
// tests do not sleep.
func newTestClient(srv *httptest.Server) *Client {
	c := NewClient(srv.URL+"/", "TruckerLogbookTest/1.0", 5*time.Second)
	c.retry = retryPolicy{maxAttempts: 3, backoff: time.Millisecond}
	return c
}

func TestClient_Geocode_ParsesFirstResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Chicago, IL", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "TruckerLogbookTest/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"41.8755616","lon":"-87.6244212","display_name":"Chicago"}]`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv).Geocode(context.Background(), "  Chicago, IL ")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 41.8755616, got.Lat, 1e-9)
	assert.InDelta(t, -87.6244212, got.Lon, 1e-9)
}

func TestClient_Geocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv).Geocode(context.Background(), "Nowhere, ZZ")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_Geocode_EmptyInputSkipsRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	got, err := newTestClient(srv).Geocode(context.Background(), "   ")

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, hits.Load())
}

func TestClient_Geocode_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Geocode(context.Background(), "Denver, CO")

	assert.Error(t, err)
}

func TestClient_Geocode_MalformedCoordinate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"-1"}]`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Geocode(context.Background(), "Denver, CO")

	assert.ErrorContains(t, err, "latitude")
}

func TestClient_Geocode_RetriesTransientStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"lat":"1.5","lon":"2.5"}]`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv).Geocode(context.Background(), "Boston, MA")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int32(3), hits.Load())
	assert.InDelta(t, 1.5, got.Lat, 1e-9)
}

func TestClient_Geocode_DoesNotRetryClientError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Geocode(context.Background(), "Boston, MA")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Code)
	assert.Equal(t, "blocked", se.Body)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_Geocode_GivesUpAfterMaxAttempts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Geocode(context.Background(), "Boston, MA")

	assert.Error(t, err)
	assert.Equal(t, int32(3), hits.Load())
}

func TestDisabled_Geocode(t *testing.T) {
	got, err := Disabled{}.Geocode(context.Background(), "Seattle, WA")

	require.NoError(t, err)
	assert.Nil(t, got)
}
