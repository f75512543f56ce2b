package geocode

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pkordes/trucker-logbook/internal/domain"
	"github.com/pkordes/trucker-logbook/internal/metrics"
)

// Cache is a Geocoder that remembers upstream answers in a bounded LRU.
// Misses ("no match") are cached too; errors are not, so a failed lookup is
// retried on the next call.
type Cache struct {
	next  Geocoder
	cache *lru.Cache[string, *domain.Coordinates]
}

// NewCache wraps next with an LRU holding up to size labels.
func NewCache(next Geocoder, size int) (*Cache, error) {
	c, err := lru.New[string, *domain.Coordinates](size)
	if err != nil {
		return nil, fmt.Errorf("geocode.NewCache: %w", err)
	}
	return &Cache{next: next, cache: c}, nil
}

// Geocode returns the cached answer for location or asks the wrapped Geocoder.
// Keys are case- and whitespace-insensitive.
func (c *Cache) Geocode(ctx context.Context, location string) (*domain.Coordinates, error) {
	key := strings.ToLower(strings.Join(strings.Fields(location), " "))
	if coords, ok := c.cache.Get(key); ok {
		metrics.GeocodeLookupsTotal.WithLabelValues("hit").Inc()
		return copyCoords(coords), nil
	}

	coords, err := c.next.Geocode(ctx, location)
	if err != nil {
		metrics.GeocodeLookupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if coords == nil {
		metrics.GeocodeLookupsTotal.WithLabelValues("not_found").Inc()
	} else {
		metrics.GeocodeLookupsTotal.WithLabelValues("miss").Inc()
	}
	c.cache.Add(key, coords)
	return copyCoords(coords), nil
}

// Len reports how many labels are cached. It backs the cache size gauge.
func (c *Cache) Len() int {
	return c.cache.Len()
}

func copyCoords(c *domain.Coordinates) *domain.Coordinates {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
