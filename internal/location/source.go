package location

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/i474232898/weather-now/internal/weather"
)

// Acquirer resolves the device coordinate. It may block.
type Acquirer interface {
	Acquire(ctx context.Context) (weather.Coordinate, error)
}

// AcquirerFunc adapts a function to the Acquirer interface.
type AcquirerFunc func(ctx context.Context) (weather.Coordinate, error)

func (f AcquirerFunc) Acquire(ctx context.Context) (weather.Coordinate, error) {
	return f(ctx)
}

var errNoAcquirer = errors.New("location: no acquirer configured")

// Source is a concurrency-safe weather.LocationSource. The coordinate is
// either set directly or resolved asynchronously through an Acquirer.
type Source struct {
	acquirer Acquirer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	coord      weather.Coordinate
	known      bool
	permission weather.Permission
	acquiring  bool
	lastErr    error
	listeners  []func(weather.Coordinate)
}

// NewSource creates a source with no coordinate and undetermined permission.
// acquirer may be nil.
func NewSource(acquirer Acquirer) *Source {
	ctx, cancel := context.WithCancel(context.Background())
	return &Source{
		acquirer:   acquirer,
		ctx:        ctx,
		cancel:     cancel,
		permission: weather.PermissionUndetermined,
	}
}

// NewStaticSource returns a source that always reports coord.
func NewStaticSource(coord weather.Coordinate) *Source {
	s := NewSource(nil)
	s.coord = coord
	s.known = true
	s.permission = weather.PermissionGrantedAlways
	return s
}

func (s *Source) CurrentCoordinate() (weather.Coordinate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coord, s.known
}

func (s *Source) PermissionState() weather.Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permission
}

// LastError returns the error of the most recent failed acquisition.
func (s *Source) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// OnAcquired registers fn to run whenever a coordinate becomes known.
func (s *Source) OnAcquired(fn func(weather.Coordinate)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Set stores coord as the current fix and grants foreground access.
func (s *Source) Set(coord weather.Coordinate) {
	s.mu.Lock()
	s.coord = coord
	s.known = true
	s.lastErr = nil
	if !s.permission.Granted() {
		s.permission = weather.PermissionGrantedForeground
	}
	listeners := append(([]func(weather.Coordinate))(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(coord)
	}
}

// Revoke forgets the coordinate and marks access as denied.
func (s *Source) Revoke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coord = weather.Coordinate{}
	s.known = false
	s.permission = weather.PermissionDenied
}

// RequestAcquisition starts resolving a coordinate in the background and
// returns immediately. Only one acquisition runs at a time; requests made
// while access is refused are ignored.
func (s *Source) RequestAcquisition() {
	s.mu.Lock()
	if s.acquiring || s.permission.Blocked() {
		s.mu.Unlock()
		return
	}
	if s.acquirer == nil {
		s.permission = weather.PermissionRestricted
		s.lastErr = errNoAcquirer
		s.mu.Unlock()
		log.Println("INFO: location: no acquirer configured; location access restricted")
		return
	}
	s.acquiring = true
	s.wg.Add(1)
	s.mu.Unlock()

	go s.acquire()
}

func (s *Source) acquire() {
	defer s.wg.Done()

	coord, err := s.acquirer.Acquire(s.ctx)

	s.mu.Lock()
	s.acquiring = false
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		log.Printf("ERROR: location: acquisition failed: %v", err)
		return
	}
	if s.permission.Blocked() {
		// revoked while acquiring
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	log.Printf("INFO: location: acquired %s", coord)
	s.Set(coord)
}

// Wait blocks until any in-flight acquisition has finished.
func (s *Source) Wait() {
	s.wg.Wait()
}

// Close cancels an in-flight acquisition and waits for it.
func (s *Source) Close() {
	s.cancel()
	s.wg.Wait()
}
