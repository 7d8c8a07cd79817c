package weather

import (
	"context"
	"time"
)

// Provider abstracts the forecast source. Implementations perform a single
// attempt per call and report failures as *Error.
type Provider interface {
	Fetch(ctx context.Context, coord Coordinate) (ForecastResponse, error)
}

// Permission is the location subsystem's authorization state.
type Permission string

const (
	PermissionUndetermined      Permission = "undetermined"
	PermissionGrantedForeground Permission = "granted_foreground"
	PermissionGrantedAlways     Permission = "granted_always"
	PermissionDenied            Permission = "denied"
	PermissionRestricted        Permission = "restricted"
)

// Granted reports whether p is one of the two granted states.
func (p Permission) Granted() bool {
	return p == PermissionGrantedForeground || p == PermissionGrantedAlways
}

// Blocked reports whether location access has been refused.
func (p Permission) Blocked() bool {
	return p == PermissionDenied || p == PermissionRestricted
}

// LocationSource yields the device coordinate or signals that none is known.
type LocationSource interface {
	CurrentCoordinate() (Coordinate, bool)
	PermissionState() Permission
	// RequestAcquisition starts acquiring a coordinate and returns immediately.
	RequestAcquisition()
}

// Store is the contract the in-memory history store (and any future persistent store) must satisfy.
type Store interface {
	Save(obs Observation)
	Latest() (Observation, error)
	Range(from, to time.Time) ([]Observation, error)
}
