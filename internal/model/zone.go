package model

import "time"

// Zone represents a seating zone inside a venue layout.  Zone geometry is
// owned by the layout-editing subsystem; the inventory core only reads it
// (to learn rows/seats per row) and writes the embedded aggregate cache.
//
// Fields:
//  ID          – primary key identifier.
//  LayoutID    – layout this zone belongs to.
//  Name        – zone name, e.g. "Balcony Left".
//  SeatRows    – number of seating rows (nil for standing zones).
//  SeatsPerRow – number of seats per row (nil for standing zones).
//  PriceCents  – base price for seats in this zone.
//  Counts      – embedded aggregate cache (see ZoneCounts).
type Zone struct {
	ID          uint64     `json:"id"`
	LayoutID    uint64     `json:"layout_id"`
	Name        string     `json:"name"`
	SeatRows    *uint32    `json:"seat_rows,omitempty"`
	SeatsPerRow *uint32    `json:"seats_per_row,omitempty"`
	PriceCents  uint32     `json:"price_cents"`
	Counts      ZoneCounts `json:"counts"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ZoneCounts is the denormalized per-zone seat summary embedded in the zone
// row.  It is a read optimization, never a source of truth: it must always
// be derivable by aggregating seats for (LayoutID, ZoneID) by status, and it
// may lag the seat store briefly between a transition and its refresh.  No
// component other than the cache refresh routine writes it, and no writer
// may use it for admission control.
type ZoneCounts struct {
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	ReservedSeats  int       `json:"reserved_seats"`
	SoldSeats      int       `json:"sold_seats"`
	BlockedSeats   int       `json:"blocked_seats"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Consistent reports whether the total equals the sum of the per-status
// counts.  Holds after every refresh because the aggregate is computed from
// the authoritative seat rows, not maintained incrementally.
func (c ZoneCounts) Consistent() bool {
	return c.TotalSeats == c.AvailableSeats+c.ReservedSeats+c.SoldSeats+c.BlockedSeats
}
