// Package geocode resolves free-text locations to coordinates.
//
// Client talks to a Nominatim-compatible search API. Cache wraps any Geocoder
// with an in-memory LRU so repeated labels across generation runs cost one
// upstream request.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/trucker-logbook/internal/domain"
	"github.com/pkordes/trucker-logbook/internal/metrics"
)

// Geocoder resolves a free-text location. It returns nil, nil when the
// location has no match.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*domain.Coordinates, error)
}

// searchResult is one element of the Nominatim /search JSON array.
// Nominatim encodes coordinates as strings.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Client queries a Nominatim /search endpoint.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	retry     retryPolicy
}

// NewClient returns a Client for baseURL (e.g. https://nominatim.openstreetmap.org).
// Nominatim's usage policy requires an identifying User-Agent.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
		retry:     defaultRetryPolicy,
	}
}

// Geocode returns the coordinates of the best match for location.
// Empty input and empty result sets return nil, nil.
func (c *Client) Geocode(ctx context.Context, location string) (*domain.Coordinates, error) {
	q := strings.TrimSpace(location)
	if q == "" {
		return nil, nil
	}

	start := time.Now()
	resp, err := c.retry.do(ctx, c.http, func() (*http.Request, error) {
		return c.newSearchRequest(ctx, q)
	})
	metrics.GeocodeRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("geocode.Client.Geocode %q: %w", q, err)
	}
	defer resp.Body.Close()

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("geocode.Client.Geocode %q: decode: %w", q, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode.Client.Geocode %q: latitude: %w", q, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode.Client.Geocode %q: longitude: %w", q, err)
	}
	return &domain.Coordinates{Lat: lat, Lon: lon}, nil
}

func (c *Client) newSearchRequest(ctx context.Context, q string) (*http.Request, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Disabled is a Geocoder that never resolves anything. It is used when no
// geocoding endpoint is configured.
type Disabled struct{}

// Geocode always returns nil, nil.
func (Disabled) Geocode(context.Context, string) (*domain.Coordinates, error) {
	return nil, nil
}
