package geocoding

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// MinQueryLength is the shortest forward query sent to the API.
const MinQueryLength = 3

// Service is the best-effort front of the geocoding client: results are cached
// and every failure becomes an empty result. A Service with a nil client
// always returns nothing.
type Service struct {
	client *Client
	ttl    time.Duration

	mu      sync.Mutex
	forward map[string]cached[[]Place]
	reverse map[string]cached[*Place]
	now     func() time.Time
}

type cached[T any] struct {
	value   T
	expires time.Time
}

// NewService wraps client with a cache holding results for ttl.
func NewService(client *Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		client:  client,
		ttl:     ttl,
		forward: make(map[string]cached[[]Place]),
		reverse: make(map[string]cached[*Place]),
		now:     time.Now,
	}
}

// Enabled reports whether a client is configured.
func (s *Service) Enabled() bool { return s.client != nil }

// Forward returns candidate places for query, or an empty slice.
func (s *Service) Forward(ctx context.Context, query string) []Place {
	key := strings.ToLower(strings.Join(strings.Fields(query), " "))
	if s.client == nil || len([]rune(key)) < MinQueryLength {
		return []Place{}
	}

	s.mu.Lock()
	if c, ok := s.forward[key]; ok && s.now().Before(c.expires) {
		s.mu.Unlock()
		return c.value
	}
	s.mu.Unlock()

	places, err := s.client.Forward(ctx, query)
	if err != nil {
		log.Printf("[geocoding] forward %q: %v", query, err)
		return []Place{}
	}

	s.mu.Lock()
	s.forward[key] = cached[[]Place]{value: places, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return places
}

// Reverse returns the place at a coordinate, or nil.
func (s *Service) Reverse(ctx context.Context, lat, lng float64) *Place {
	if s.client == nil {
		return nil
	}
	// ~1m resolution
	key := fmt.Sprintf("%.5f,%.5f", lat, lng)

	s.mu.Lock()
	if c, ok := s.reverse[key]; ok && s.now().Before(c.expires) {
		s.mu.Unlock()
		return c.value
	}
	s.mu.Unlock()

	place, err := s.client.Reverse(ctx, lat, lng)
	if err != nil {
		log.Printf("[geocoding] reverse %s: %v", key, err)
		return nil
	}

	s.mu.Lock()
	s.reverse[key] = cached[*Place]{value: place, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return place
}
