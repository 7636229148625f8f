// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. A lost
// reserve race (ErrSeatUnavailable) is the dominant error path during
// on-sale bursts and must stay distinguishable from the per-caller
// reservation cap so clients can present "seat no longer available"
// rather than a generic failure.
package repository

import "errors"

// ErrSeatUnavailable is returned when a conditional reserve matches no
// row: the seat was taken, is blocked, or lost a race to another caller.
// Handlers should translate this into an HTTP 409 response.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrNotReservedByCaller is returned when a confirm or release targets a
// seat that is not currently reserved, or is reserved by someone else.
// Covers stale client state and expired-then-reused seats. Handlers
// should translate this into an HTTP 409 response.
var ErrNotReservedByCaller = errors.New("seat not reserved by caller")

// ErrSeatNotFound is returned when a seat lookup by id yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrZoneNotFound is returned when a zone lookup yields no rows.
var ErrZoneNotFound = errors.New("zone not found")
