// Package inventory implements the seat inventory core: the reservation
// engine and its atomic transition contract, the zone aggregate cache
// refresh, bulk seat generation, and the expiry sweep.  It talks to
// storage through the narrow interfaces below; the production
// implementations live in internal/repository.
package inventory

import (
	"context"
	"time"

	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/model"
)

// SeatStore is the durable per-seat ledger.  Reserve, Confirm, Release and
// ExpireDue must each be a single atomic conditional transition: match on
// the stated precondition, mutate only while still matching, report
// whether a row was affected.  That primitive is the system's only
// concurrency control, so implementations must not weaken it.
type SeatStore interface {
	// Reserve transitions the seat at key from AVAILABLE to RESERVED for
	// holderID, recording the hold token and window.  Returns
	// repository.ErrSeatUnavailable when no available seat matches.
	Reserve(ctx context.Context, key model.SeatKey, holderID, holdToken string, start, expires time.Time) (*model.Seat, error)

	// Confirm transitions the seat from RESERVED to SOLD, guarded on
	// buyerID being the current holder.  Returns
	// repository.ErrNotReservedByCaller on a holder mismatch and
	// repository.ErrSeatNotFound for an unknown id.
	Confirm(ctx context.Context, seatID uint64, buyerID, orderRef string, at time.Time) (*model.Seat, error)

	// Release transitions the seat from RESERVED back to AVAILABLE,
	// guarded on holderID.  Same error contract as Confirm.
	Release(ctx context.Context, seatID uint64, holderID string) (*model.Seat, error)

	// ExpireDue releases every reserved seat whose hold expired before
	// now, in bulk, and reports the distinct zones touched plus the
	// number of seats reclaimed.
	ExpireDue(ctx context.Context, now time.Time) ([]model.ZoneKey, int64, error)

	// CountActiveForCaller counts the caller's RESERVED plus SOLD seats
	// for one event.
	CountActiveForCaller(ctx context.Context, eventID uint64, callerID string) (int, error)

	// ListByZone returns one page of seats for a zone, optionally
	// filtered by status, plus the total matching count.
	ListByZone(ctx context.Context, eventID, zoneID uint64, status string, limit, offset int) ([]model.Seat, int, error)

	// CreateBulk inserts seats in a single bulk operation.
	CreateBulk(ctx context.Context, seats []model.Seat) error

	// DeleteByZone removes every seat of a zone.
	DeleteByZone(ctx context.Context, layoutID, zoneID uint64) (int64, error)

	// AggregateZone computes a zone's counts by status straight from the
	// seat rows.
	AggregateZone(ctx context.Context, layoutID, zoneID uint64) (model.ZoneCounts, error)

	// GetByID retrieves one seat by primary key.
	GetByID(ctx context.Context, id uint64) (*model.Seat, error)
}

// ZoneStore reads zone records and writes their embedded aggregate cache.
type ZoneStore interface {
	GetByID(ctx context.Context, layoutID, zoneID uint64) (*model.Zone, error)
	UpdateCounts(ctx context.Context, layoutID, zoneID uint64, counts model.ZoneCounts, at time.Time) error
}
