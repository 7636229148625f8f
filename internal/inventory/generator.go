package inventory

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/model"
)

// ZoneDescriptor is the pre-validated zone geometry handed over by the
// layout-editing subsystem when a seat-bearing zone is created or resized.
type ZoneDescriptor struct {
	ZoneID      uint64 `json:"zone_id"`
	Name        string `json:"name"`
	Rows        uint32 `json:"rows"`
	SeatsPerRow uint32 `json:"seats_per_row"`
	PriceCents  uint32 `json:"price_cents"`
}

// Generator materializes seat rows for a zone and initializes its
// aggregate cache.  Regeneration deletes the zone's existing seats first:
// a reconfigured zone keeps no seat-level continuity across geometry
// changes.  Zones whose geometry did not change are simply not passed in,
// which preserves their seats and any in-flight holds.
type Generator struct {
	seats SeatStore
	zones ZoneStore
	now   func() time.Time
}

// NewGenerator constructs a Generator over the given stores.
func NewGenerator(seats SeatStore, zones ZoneStore) *Generator {
	if seats == nil || zones == nil {
		panic("nil store passed to NewGenerator")
	}
	return &Generator{seats: seats, zones: zones, now: time.Now}
}

// GenerateZone creates one AVAILABLE seat per (row, seatNumber) pair in
// 1..Rows x 1..SeatsPerRow as a single bulk insert, then writes a fresh
// aggregate cache (total = rows*seatsPerRow, all of it available).  The
// generated seats are returned in row-then-seat order.
func (g *Generator) GenerateZone(ctx context.Context, eventID, layoutID uint64, desc ZoneDescriptor) ([]model.Seat, error) {
	if desc.Rows == 0 || desc.SeatsPerRow == 0 {
		return nil, fmt.Errorf("zone %d: rows and seats_per_row must be positive", desc.ZoneID)
	}
	if _, err := g.zones.GetByID(ctx, layoutID, desc.ZoneID); err != nil {
		return nil, err
	}
	if _, err := g.seats.DeleteByZone(ctx, layoutID, desc.ZoneID); err != nil {
		return nil, fmt.Errorf("zone %d: clearing old seats: %w", desc.ZoneID, err)
	}

	seats := make([]model.Seat, 0, int(desc.Rows)*int(desc.SeatsPerRow))
	for row := uint32(1); row <= desc.Rows; row++ {
		for n := uint32(1); n <= desc.SeatsPerRow; n++ {
			seats = append(seats, model.Seat{
				EventID:    eventID,
				LayoutID:   layoutID,
				ZoneID:     desc.ZoneID,
				Row:        row,
				SeatNumber: n,
				Label:      model.SeatLabel(desc.Name, row, n),
				Status:     model.SeatAvailable,
				PriceCents: desc.PriceCents,
			})
		}
	}
	if err := g.seats.CreateBulk(ctx, seats); err != nil {
		return nil, fmt.Errorf("zone %d: bulk insert: %w", desc.ZoneID, err)
	}

	total := int(desc.Rows) * int(desc.SeatsPerRow)
	counts := model.ZoneCounts{
		TotalSeats:     total,
		AvailableSeats: total,
		UpdatedAt:      g.now().UTC(),
	}
	if err := g.zones.UpdateCounts(ctx, layoutID, desc.ZoneID, counts, g.now()); err != nil {
		// Seats exist; the cache converges on the next transition or sweep.
		log.Printf("inventory: zone %d/%d cache init failed: %v", layoutID, desc.ZoneID, err)
	}
	return seats, nil
}

// ZoneResult reports the outcome of generating one zone of a layout batch.
type ZoneResult struct {
	ZoneID    uint64 `json:"zone_id"`
	SeatCount int    `json:"seat_count"`
	Error     string `json:"error,omitempty"`
}

// GenerateZones regenerates several zones of one layout.  A failing zone
// is logged and skipped without aborting its siblings; it is left without
// seats and must be retried by re-invoking generation for that zone alone.
func (g *Generator) GenerateZones(ctx context.Context, eventID, layoutID uint64, descs []ZoneDescriptor) []ZoneResult {
	results := make([]ZoneResult, 0, len(descs))
	for _, desc := range descs {
		seats, err := g.GenerateZone(ctx, eventID, layoutID, desc)
		if err != nil {
			log.Printf("inventory: generating zone %d of layout %d failed: %v", desc.ZoneID, layoutID, err)
			results = append(results, ZoneResult{ZoneID: desc.ZoneID, Error: err.Error()})
			continue
		}
		results = append(results, ZoneResult{ZoneID: desc.ZoneID, SeatCount: len(seats)})
	}
	return results
}
