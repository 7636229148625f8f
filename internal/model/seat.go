package model

import (
	"fmt"
	"time"
)

// Seat status values.  A seat moves AVAILABLE -> RESERVED -> SOLD, with
// RESERVED -> AVAILABLE on release or expiry.  BLOCKED is set by an
// external administrative tool and is never entered or left by the
// reservation engine; it only shows up in counts and listings.
const (
	SeatAvailable = "AVAILABLE"
	SeatReserved  = "RESERVED"
	SeatSold      = "SOLD"
	SeatBlocked   = "BLOCKED"
)

// ValidSeatStatus reports whether s is one of the four seat statuses.
func ValidSeatStatus(s string) bool {
	switch s {
	case SeatAvailable, SeatReserved, SeatSold, SeatBlocked:
		return true
	}
	return false
}

// Seat is one row per bookable physical seat for one event.  The tuple
// (EventID, ZoneID, Row, SeatNumber) is unique.  Hold fields are populated
// only while Status is RESERVED; purchase fields only while SOLD.
//
// Fields:
//  ID            – primary key identifier.
//  EventID       – event this seat is sold for.
//  LayoutID      – venue layout version the seat belongs to.
//  ZoneID        – seating zone within the layout.
//  Row           – row number within the zone (1-based).
//  SeatNumber    – seat number within the row (1-based).
//  Label         – zone-qualified human readable label, e.g. "Balcony-R2S7".
//  Status        – AVAILABLE | RESERVED | SOLD | BLOCKED.
//  PriceCents    – price in cents.
//  DiscountCents – optional discount in cents.
//  HolderID      – caller holding the seat (RESERVED only).
//  HoldToken     – opaque token returned to the client for correlation.
//  HoldStartedAt – when the hold was granted.
//  HoldExpiresAt – when the hold lapses; the sweeper reclaims past this.
//  BuyerID       – caller who bought the seat (SOLD only).
//  PurchasedAt   – purchase timestamp.
//  OrderRef      – external order/booking reference from payment capture.
//  Version       – incremented on every status-changing write (audit only).
type Seat struct {
	ID            uint64     `json:"id"`
	EventID       uint64     `json:"event_id"`
	LayoutID      uint64     `json:"layout_id"`
	ZoneID        uint64     `json:"zone_id"`
	Row           uint32     `json:"row"`
	SeatNumber    uint32     `json:"seat_number"`
	Label         string     `json:"label"`
	Status        string     `json:"status"`
	PriceCents    uint32     `json:"price_cents"`
	DiscountCents *uint32    `json:"discount_cents,omitempty"`
	HolderID      *string    `json:"holder_id,omitempty"`
	HoldToken     *string    `json:"hold_token,omitempty"`
	HoldStartedAt *time.Time `json:"hold_started_at,omitempty"`
	HoldExpiresAt *time.Time `json:"hold_expires_at,omitempty"`
	BuyerID       *string    `json:"buyer_id,omitempty"`
	PurchasedAt   *time.Time `json:"purchased_at,omitempty"`
	OrderRef      *string    `json:"order_ref,omitempty"`
	Version       uint32     `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SeatLabel builds the zone-qualified label for a seat position.
func SeatLabel(zoneName string, row, seatNumber uint32) string {
	return fmt.Sprintf("%s-R%dS%d", zoneName, row, seatNumber)
}

// SeatKey identifies a seat by its position for position-addressed
// operations such as Reserve.
type SeatKey struct {
	EventID    uint64
	ZoneID     uint64
	Row        uint32
	SeatNumber uint32
}

// ZoneKey identifies a zone within a layout.  The expiry sweep groups
// reclaimed seats by this key so the cache refresh runs once per zone.
type ZoneKey struct {
	LayoutID uint64
	ZoneID   uint64
}
