package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/model"
)

func newTestSweeper(eng *Engine, now *time.Time) *Sweeper {
	s := NewSweeper(eng.seats, eng.zones, time.Minute, 0)
	s.now = func() time.Time { return *now }
	return s
}

func TestSweepReclaimsOnlyLapsedHolds(t *testing.T) {
	eng, _, db, now := newTestRig(t, 1, 2)
	ctx := context.Background()
	sweeper := newTestSweeper(eng, now)

	seat, err := eng.Reserve(ctx, key(1, 1), "U1", 15*time.Minute)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	// Before the deadline the hold must survive a sweep.
	*now = now.Add(14 * time.Minute)
	reclaimed, err := sweeper.RunOnce(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if reclaimed != 0 {
		t.Fatalf("sweep reclaimed a live hold: %d", reclaimed)
	}
	s, _ := eng.seats.GetByID(ctx, seat.ID)
	if s.Status != model.SeatReserved {
		t.Fatalf("live hold lost: %+v", s)
	}

	// Past the deadline one sweep reclaims it.
	*now = now.Add(2 * time.Minute)
	reclaimed, err = sweeper.RunOnce(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if reclaimed != 1 {
		t.Fatalf("want 1 reclaimed, got %d", reclaimed)
	}
	s, _ = eng.seats.GetByID(ctx, seat.ID)
	if s.Status != model.SeatAvailable || s.HolderID != nil || s.HoldExpiresAt != nil || s.HoldToken != nil {
		t.Fatalf("expired hold not fully reset: %+v", s)
	}

	// The zone cache was refreshed by the sweep.
	zone := db.zones[model.ZoneKey{LayoutID: testLayout, ZoneID: testZone}]
	if zone.Counts.ReservedSeats != 0 || zone.Counts.AvailableSeats != 2 {
		t.Fatalf("cache not refreshed after sweep: %+v", zone.Counts)
	}

	// A sweep with nothing to do is a no-op.
	cacheAt := zone.Counts.UpdatedAt
	*now = now.Add(time.Hour)
	reclaimed, err = sweeper.RunOnce(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if reclaimed != 0 {
		t.Fatalf("empty sweep reclaimed %d", reclaimed)
	}
	if !zone.Counts.UpdatedAt.Equal(cacheAt) {
		t.Fatalf("empty sweep refreshed the cache")
	}
}

func TestSweepRefreshesOncePerZone(t *testing.T) {
	eng, gen, db, now := newTestRig(t, 1, 2)
	ctx := context.Background()
	sweeper := newTestSweeper(eng, now)

	// Second zone with its own seats.
	const zoneB = uint64(200)
	db.addZone(testLayout, zoneB, "Floor")
	if _, err := gen.GenerateZone(ctx, testEvent, testLayout, ZoneDescriptor{
		ZoneID: zoneB, Name: "Floor", Rows: 1, SeatsPerRow: 2, PriceCents: 4000,
	}); err != nil {
		t.Fatalf("generate zone B: %v", err)
	}

	for _, k := range []model.SeatKey{
		key(1, 1), key(1, 2),
		{EventID: testEvent, ZoneID: zoneB, Row: 1, SeatNumber: 1},
	} {
		if _, err := eng.Reserve(ctx, k, "U-"+model.SeatLabel("x", k.Row, k.SeatNumber), 5*time.Minute); err != nil {
			t.Fatalf("reserve %+v: %v", k, err)
		}
	}

	*now = now.Add(10 * time.Minute)
	reclaimed, err := sweeper.RunOnce(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if reclaimed != 3 {
		t.Fatalf("want 3 reclaimed across two zones, got %d", reclaimed)
	}

	zoneA := db.zones[model.ZoneKey{LayoutID: testLayout, ZoneID: testZone}]
	zoneBRec := db.zones[model.ZoneKey{LayoutID: testLayout, ZoneID: zoneB}]
	if zoneA.Counts.AvailableSeats != 2 || zoneA.Counts.ReservedSeats != 0 {
		t.Fatalf("zone A cache wrong after sweep: %+v", zoneA.Counts)
	}
	if zoneBRec.Counts.AvailableSeats != 2 || zoneBRec.Counts.ReservedSeats != 0 {
		t.Fatalf("zone B cache wrong after sweep: %+v", zoneBRec.Counts)
	}
}

func TestReserveAfterExpiryBelongsToNewHolder(t *testing.T) {
	eng, _, _, now := newTestRig(t, 1, 1)
	ctx := context.Background()
	sweeper := newTestSweeper(eng, now)

	seat, err := eng.Reserve(ctx, key(1, 1), "U1", 15*time.Minute)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	*now = now.Add(16 * time.Minute)
	if _, err := sweeper.RunOnce(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	// The seat is reusable, and the original holder's stale confirm fails.
	re, err := eng.Reserve(ctx, key(1, 1), "U2", 0)
	if err != nil {
		t.Fatalf("re-reserve after expiry: %v", err)
	}
	if re.ID != seat.ID {
		t.Fatalf("expected same physical seat")
	}
	if _, err := eng.ConfirmPurchase(ctx, seat.ID, "U1", "ORD-STALE"); err == nil {
		t.Fatalf("stale holder confirmed an expired-then-reused seat")
	}
}
