package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-now/internal/weather"
)

var (
	// ErrNotFound is returned when no observation matches the query.
	ErrNotFound = errors.New("no observations recorded")
)

// MemoryStore is a concurrency-safe in-memory log of settled observations,
// oldest first.
type MemoryStore struct {
	mu sync.RWMutex

	observations []weather.Observation

	// retention configuration
	maxEntries int           // max number of observations kept (0 = unlimited)
	maxAge     time.Duration // max age of observations (0 = unlimited)

	now func() time.Time
}

var _ weather.Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxEntries is <= 0, it is treated as unlimited.
func NewMemoryStore(maxEntries int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxEntries: maxEntries,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save appends an observation and enforces retention.
func (s *MemoryStore) Save(obs weather.Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observations = append(s.observations, obs)

	// Enforce retention by count.
	if s.maxEntries > 0 && len(s.observations) > s.maxEntries {
		over := len(s.observations) - s.maxEntries
		s.observations = s.observations[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.observations); i++ {
			if !s.observations[i].RecordedAt.Before(cutoff) {
				break
			}
		}
		s.observations = s.observations[i:]
	}
}

// Latest returns the most recent observation.
func (s *MemoryStore) Latest() (weather.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.observations) == 0 {
		return weather.Observation{}, ErrNotFound
	}
	return s.observations[len(s.observations)-1], nil
}

// Range returns all observations recorded between from and to (inclusive).
func (s *MemoryStore) Range(from, to time.Time) ([]weather.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []weather.Observation
	for _, obs := range s.observations {
		if !obs.RecordedAt.Before(from) && !obs.RecordedAt.After(to) {
			result = append(result, obs)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// Len reports how many observations are retained.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observations)
}

// Recorder returns a session settle listener that logs every outcome.
func (s *MemoryStore) Recorder() func(weather.State) {
	return func(st weather.State) {
		s.Save(weather.NewObservation(st, s.now()))
	}
}
