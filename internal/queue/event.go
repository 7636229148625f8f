// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair that moves them.
package queue

// SeatSoldEvent is published when a seat purchase is confirmed.  It carries
// enough information for downstream consumers to log, notify, or feed
// analytics without querying the primary database.
type SeatSoldEvent struct {
	SeatID     uint64 `json:"seat_id"`
	EventID    uint64 `json:"event_id"`
	LayoutID   uint64 `json:"layout_id"`
	ZoneID     uint64 `json:"zone_id"`
	SeatLabel  string `json:"seat_label"`
	BuyerID    string `json:"buyer_id"`
	OrderRef   string `json:"order_ref"`
	PriceCents uint32 `json:"price_cents"`
	SoldAt     string `json:"sold_at"`
}
