package weather

import (
	"context"
	"log"
	"sync"
)

// Session orchestrates location lookup, forecast fetching and classification,
// and owns the resulting State. Load and Refresh never block on the network;
// completion is observed through State or OnSettle listeners.
type Session struct {
	provider Provider
	location LocationSource

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	state     State
	listeners []func(State)
}

// NewSession creates an idle Session.
func NewSession(provider Provider, location LocationSource) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		provider: provider,
		location: location,
		ctx:      ctx,
		cancel:   cancel,
		state:    State{Condition: ConditionUnknown},
	}
}

// OnSettle registers fn to be called with the new state after every settle.
// Listeners run outside the session lock in registration order.
func (s *Session) OnSettle(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HasLocationPermission reports whether the location source is in a granted state.
func (s *Session) HasLocationPermission() bool {
	return s.location.PermissionState().Granted()
}

// Load fetches the forecast for the current coordinate. Without a coordinate
// it asks the location source to acquire one and changes nothing else.
// It is a no-op while a fetch is in flight.
func (s *Session) Load() {
	s.mu.Lock()
	if s.state.IsLoading {
		s.mu.Unlock()
		return
	}
	s.state.Err = nil

	if s.location.PermissionState().Blocked() {
		s.settleLocked(nil, ErrLocationDenied)
		return
	}

	coord, ok := s.location.CurrentCoordinate()
	if !ok {
		s.mu.Unlock()
		log.Println("INFO: session: no coordinate yet; requesting location acquisition")
		s.location.RequestAcquisition()
		return
	}

	s.dispatchLocked(coord)
	s.mu.Unlock()
}

// Refresh is Load without location acquisition: with no known coordinate it
// settles immediately with ErrLocationUnavailable.
func (s *Session) Refresh() {
	s.mu.Lock()
	if s.state.IsLoading {
		s.mu.Unlock()
		return
	}
	s.state.Err = nil

	if s.location.PermissionState().Blocked() {
		s.settleLocked(nil, ErrLocationDenied)
		return
	}

	coord, ok := s.location.CurrentCoordinate()
	if !ok {
		s.settleLocked(nil, ErrLocationUnavailable)
		return
	}

	s.dispatchLocked(coord)
	s.mu.Unlock()
}

// Wait blocks until every dispatched fetch has settled.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight fetches and waits for them to settle.
func (s *Session) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Session) dispatchLocked(coord Coordinate) {
	s.state.IsLoading = true
	s.wg.Add(1)
	go s.fetch(coord)
}

func (s *Session) fetch(coord Coordinate) {
	defer s.wg.Done()

	resp, err := s.provider.Fetch(s.ctx, coord)

	s.mu.Lock()
	if err != nil {
		log.Printf("ERROR: session: forecast fetch failed for %s: %v", coord, err)
		s.settleLocked(nil, err)
		return
	}
	s.settleLocked(&resp, nil)
}

// settleLocked commits the outcome, releases the lock and notifies listeners.
// A nil resp keeps the previously stored response.
func (s *Session) settleLocked(resp *ForecastResponse, err error) {
	if resp != nil {
		s.state.Response = resp
		s.state.Condition = Classify(resp.Current.WeatherCode)
	}
	s.state.Err = err
	s.state.IsLoading = false

	snapshot := s.state
	listeners := append(([]func(State))(nil), s.listeners...)
	s.mu.Unlock()

	log.Printf("DEBUG: session: settled phase=%s condition=%s", snapshot.Phase(), snapshot.Condition)
	for _, fn := range listeners {
		fn(snapshot)
	}
}
