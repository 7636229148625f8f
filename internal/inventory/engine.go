package inventory

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/metrics"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/model"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/queue"
)

// DefaultHoldTTL is the hold duration applied when the caller does not ask
// for one.
const DefaultHoldTTL = 15 * time.Minute

// DefaultReservationCap is the per-event soft cap on a caller's active
// (reserved plus sold) seats.
const DefaultReservationCap = 2

// ErrReservationLimitExceeded is returned by Reserve when the caller is
// already at the per-event cap.  The cap is checked before the reserve and
// is not atomic with it; under extreme concurrency a caller can exceed it
// by one.  Handlers should translate this into an HTTP 422 response so it
// stays distinguishable from a lost seat race.
var ErrReservationLimitExceeded = errors.New("reservation limit exceeded")

// SoldPublisher publishes a seat.sold event after a confirmed purchase.
// Publishing is best effort; the engine logs failures and never rolls a
// purchase back because of one.
type SoldPublisher interface {
	PublishSeatSold(ctx context.Context, ev queue.SeatSoldEvent) error
}

// Engine exposes the atomic seat state transitions.  Every successful
// transition refreshes the affected zone's aggregate cache before
// returning; a refresh failure is logged and does not undo the seat write,
// since the seat store is authoritative and the next transition or sweep
// re-synchronizes the cache.
type Engine struct {
	seats     SeatStore
	zones     ZoneStore
	events    SoldPublisher // may be nil when no broker is configured
	holdTTL   time.Duration
	maxActive int
	now       func() time.Time
}

// NewEngine constructs an Engine.  holdTTL and maxActive fall back to the
// defaults when non-positive; events may be nil.
func NewEngine(seats SeatStore, zones ZoneStore, events SoldPublisher, holdTTL time.Duration, maxActive int) *Engine {
	if seats == nil || zones == nil {
		panic("nil store passed to NewEngine")
	}
	if holdTTL <= 0 {
		holdTTL = DefaultHoldTTL
	}
	if maxActive <= 0 {
		maxActive = DefaultReservationCap
	}
	return &Engine{seats: seats, zones: zones, events: events, holdTTL: holdTTL, maxActive: maxActive, now: time.Now}
}

// Reserve grants callerID a temporary hold on the seat at the given
// position.  holdTTL overrides the engine default when positive.  Returns
// repository.ErrSeatUnavailable when the seat is taken (the dominant path
// during on-sale bursts) or ErrReservationLimitExceeded when the caller is
// at the per-event cap; in the latter case no seat is touched.
func (e *Engine) Reserve(ctx context.Context, key model.SeatKey, callerID string, holdTTL time.Duration) (*model.Seat, error) {
	active, err := e.seats.CountActiveForCaller(ctx, key.EventID, callerID)
	if err != nil {
		return nil, err
	}
	if active >= e.maxActive {
		metrics.ReserveAttempts.WithLabelValues("limit_exceeded").Inc()
		return nil, ErrReservationLimitExceeded
	}

	ttl := holdTTL
	if ttl <= 0 {
		ttl = e.holdTTL
	}
	now := e.now()
	seat, err := e.seats.Reserve(ctx, key, callerID, uuid.New().String(), now, now.Add(ttl))
	if err != nil {
		metrics.ReserveAttempts.WithLabelValues("unavailable").Inc()
		return nil, err
	}
	metrics.ReserveAttempts.WithLabelValues("ok").Inc()
	e.refreshZone(ctx, seat.LayoutID, seat.ZoneID)
	return seat, nil
}

// ConfirmPurchase finalizes a held seat into SOLD with the supplied order
// reference.  Payment capture happened upstream; this only flips the
// ledger.  Guarded on callerID being the current holder.
func (e *Engine) ConfirmPurchase(ctx context.Context, seatID uint64, callerID, orderRef string) (*model.Seat, error) {
	seat, err := e.seats.Confirm(ctx, seatID, callerID, orderRef, e.now())
	if err != nil {
		return nil, err
	}
	e.refreshZone(ctx, seat.LayoutID, seat.ZoneID)
	e.publishSold(ctx, seat)
	return seat, nil
}

// ReleaseReservation gives a held seat back to the pool.  A release of a
// seat the caller no longer holds reports ErrNotReservedByCaller and
// leaves the seat untouched.
func (e *Engine) ReleaseReservation(ctx context.Context, seatID uint64, callerID string) (*model.Seat, error) {
	seat, err := e.seats.Release(ctx, seatID, callerID)
	if err != nil {
		return nil, err
	}
	e.refreshZone(ctx, seat.LayoutID, seat.ZoneID)
	return seat, nil
}

// SeatPage is one page of a zone seat listing.
type SeatPage struct {
	Seats    []model.Seat `json:"seats"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Total    int          `json:"total"`
}

// ListSeatsByZone returns a page of a zone's seats ordered by row and seat
// number.  status filters when non-empty; page starts at 1 and pageSize is
// clamped to 1..200 with a default of 50.
func (e *Engine) ListSeatsByZone(ctx context.Context, eventID, zoneID uint64, status string, page, pageSize int) (*SeatPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}
	seats, total, err := e.seats.ListByZone(ctx, eventID, zoneID, status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &SeatPage{Seats: seats, Page: page, PageSize: pageSize, Total: total}, nil
}

// ZoneAvailability returns the zone record with its cached counts.  The
// cache may lag the seat store briefly; it is for display only and must
// never drive a seat-status write.
func (e *Engine) ZoneAvailability(ctx context.Context, layoutID, zoneID uint64) (*model.Zone, error) {
	return e.zones.GetByID(ctx, layoutID, zoneID)
}

// refreshZone recomputes the zone aggregate from the seat rows and writes
// it into the zone cache.  Errors are logged, never propagated: the seat
// transition that triggered the refresh already stands.
func (e *Engine) refreshZone(ctx context.Context, layoutID, zoneID uint64) {
	if err := RefreshZoneCounts(ctx, e.seats, e.zones, layoutID, zoneID, e.now()); err != nil {
		log.Printf("inventory: zone %d/%d cache refresh failed: %v", layoutID, zoneID, err)
	}
}

// publishSold emits the seat.sold event for a confirmed purchase.
func (e *Engine) publishSold(ctx context.Context, seat *model.Seat) {
	if e.events == nil {
		return
	}
	ev := queue.SeatSoldEvent{
		SeatID:     seat.ID,
		EventID:    seat.EventID,
		LayoutID:   seat.LayoutID,
		ZoneID:     seat.ZoneID,
		SeatLabel:  seat.Label,
		PriceCents: seat.PriceCents,
	}
	if seat.BuyerID != nil {
		ev.BuyerID = *seat.BuyerID
	}
	if seat.OrderRef != nil {
		ev.OrderRef = *seat.OrderRef
	}
	if seat.PurchasedAt != nil {
		ev.SoldAt = seat.PurchasedAt.UTC().Format(time.RFC3339)
	}
	if err := e.events.PublishSeatSold(ctx, ev); err != nil {
		log.Printf("inventory: publish seat.sold for seat %d failed: %v", seat.ID, err)
	}
}

// RefreshZoneCounts aggregates a zone's seats by status and writes the
// result plus the refresh timestamp into the zone cache.  After it returns
// the cache satisfies total == available+reserved+sold+blocked, because
// the aggregate comes straight from the authoritative seat rows.
func RefreshZoneCounts(ctx context.Context, seats SeatStore, zones ZoneStore, layoutID, zoneID uint64, at time.Time) error {
	counts, err := seats.AggregateZone(ctx, layoutID, zoneID)
	if err != nil {
		return err
	}
	counts.UpdatedAt = at.UTC()
	return zones.UpdateCounts(ctx, layoutID, zoneID, counts, at)
}
