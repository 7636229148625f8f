package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/model"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/repository"
)

const (
	testEvent  = uint64(1)
	testLayout = uint64(10)
	testZone   = uint64(100)
)

// newTestRig builds an engine plus generator over a fresh in-memory store
// with one generated zone and a controllable clock.
func newTestRig(t *testing.T, rows, cols uint32) (*Engine, *Generator, *memDB, *time.Time) {
	t.Helper()
	db := newMemDB()
	db.addZone(testLayout, testZone, "Balcony")
	seats := &memSeats{db: db}
	zones := &memZones{db: db}

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := &clock

	gen := NewGenerator(seats, zones)
	gen.now = func() time.Time { return *now }
	if _, err := gen.GenerateZone(context.Background(), testEvent, testLayout, ZoneDescriptor{
		ZoneID: testZone, Name: "Balcony", Rows: rows, SeatsPerRow: cols, PriceCents: 2500,
	}); err != nil {
		t.Fatalf("generate zone: %v", err)
	}

	eng := NewEngine(seats, zones, nil, DefaultHoldTTL, DefaultReservationCap)
	eng.now = func() time.Time { return *now }
	return eng, gen, db, now
}

func key(row, n uint32) model.SeatKey {
	return model.SeatKey{EventID: testEvent, ZoneID: testZone, Row: row, SeatNumber: n}
}

func TestReserveSingleWinnerUnderContention(t *testing.T) {
	eng, _, _, _ := newTestRig(t, 1, 1)

	const callers = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, losses := 0, 0

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := eng.Reserve(context.Background(), key(1, 1), string(rune('A'+i%26))+"-caller", 0)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, repository.ErrSeatUnavailable):
				losses++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("want exactly 1 winner, got %d", wins)
	}
	if losses != callers-1 {
		t.Fatalf("want %d losers, got %d", callers-1, losses)
	}
}

func TestReserveConfirmScenario(t *testing.T) {
	eng, _, db, _ := newTestRig(t, 2, 2)
	ctx := context.Background()

	seat, err := eng.Reserve(ctx, key(1, 1), "U1", 0)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if seat.Status != model.SeatReserved {
		t.Fatalf("want RESERVED, got %s", seat.Status)
	}
	if seat.HolderID == nil || *seat.HolderID != "U1" {
		t.Fatalf("holder not recorded: %+v", seat)
	}
	if seat.HoldToken == nil || *seat.HoldToken == "" {
		t.Fatalf("hold token missing")
	}
	if seat.HoldExpiresAt == nil || !seat.HoldExpiresAt.Equal(seat.HoldStartedAt.Add(DefaultHoldTTL)) {
		t.Fatalf("hold window wrong: start=%v expires=%v", seat.HoldStartedAt, seat.HoldExpiresAt)
	}

	sold, err := eng.ConfirmPurchase(ctx, seat.ID, "U1", "ORD-1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if sold.Status != model.SeatSold {
		t.Fatalf("want SOLD, got %s", sold.Status)
	}
	if sold.BuyerID == nil || *sold.BuyerID != "U1" {
		t.Fatalf("buyer not recorded: %+v", sold)
	}
	if sold.OrderRef == nil || *sold.OrderRef != "ORD-1" {
		t.Fatalf("order ref not recorded: %+v", sold)
	}
	if sold.HolderID != nil || sold.HoldExpiresAt != nil || sold.HoldToken != nil {
		t.Fatalf("hold fields not cleared after purchase: %+v", sold)
	}

	// A second caller racing for the sold seat loses cleanly.
	if _, err := eng.Reserve(ctx, key(1, 1), "U2", 0); !errors.Is(err, repository.ErrSeatUnavailable) {
		t.Fatalf("want ErrSeatUnavailable, got %v", err)
	}

	// The zone cache reflects the ledger.
	zone := db.zones[model.ZoneKey{LayoutID: testLayout, ZoneID: testZone}]
	if !zone.Counts.Consistent() {
		t.Fatalf("inconsistent counts: %+v", zone.Counts)
	}
	if zone.Counts.SoldSeats != 1 || zone.Counts.AvailableSeats != 3 {
		t.Fatalf("cache counts wrong: %+v", zone.Counts)
	}
}

func TestReleaseIsNotIdempotent(t *testing.T) {
	eng, _, _, _ := newTestRig(t, 1, 2)
	ctx := context.Background()

	seat, err := eng.Reserve(ctx, key(1, 1), "U1", 0)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	released, err := eng.ReleaseReservation(ctx, seat.ID, "U1")
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if released.Status != model.SeatAvailable || released.HolderID != nil || released.HoldExpiresAt != nil {
		t.Fatalf("release did not reset seat: %+v", released)
	}
	versionAfterRelease := released.Version

	// Second release reports the failure rather than silently succeeding.
	if _, err := eng.ReleaseReservation(ctx, seat.ID, "U1"); !errors.Is(err, repository.ErrNotReservedByCaller) {
		t.Fatalf("want ErrNotReservedByCaller, got %v", err)
	}
	after, err := eng.seats.GetByID(ctx, seat.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.Status != model.SeatAvailable || after.Version != versionAfterRelease {
		t.Fatalf("second release changed state: %+v", after)
	}
}

func TestConfirmGuards(t *testing.T) {
	eng, _, _, _ := newTestRig(t, 1, 2)
	ctx := context.Background()

	seat, err := eng.Reserve(ctx, key(1, 1), "U1", 0)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := eng.ConfirmPurchase(ctx, seat.ID, "U2", "ORD-X"); !errors.Is(err, repository.ErrNotReservedByCaller) {
		t.Fatalf("wrong holder: want ErrNotReservedByCaller, got %v", err)
	}
	if _, err := eng.ConfirmPurchase(ctx, 9999, "U1", "ORD-X"); !errors.Is(err, repository.ErrSeatNotFound) {
		t.Fatalf("unknown seat: want ErrSeatNotFound, got %v", err)
	}
	// An available seat cannot be confirmed either.
	other := eng.seats.(*memSeats).db.byKey[key(1, 2)]
	if _, err := eng.ConfirmPurchase(ctx, other, "U1", "ORD-X"); !errors.Is(err, repository.ErrNotReservedByCaller) {
		t.Fatalf("available seat: want ErrNotReservedByCaller, got %v", err)
	}
}

func TestPerCallerCap(t *testing.T) {
	eng, _, _, _ := newTestRig(t, 2, 2)
	ctx := context.Background()

	if _, err := eng.Reserve(ctx, key(1, 1), "U1", 0); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	second, err := eng.Reserve(ctx, key(1, 2), "U1", 0)
	if err != nil {
		t.Fatalf("second reserve: %v", err)
	}

	// At the cap: a third reserve is refused and no seat changes.
	if _, err := eng.Reserve(ctx, key(2, 1), "U1", 0); !errors.Is(err, ErrReservationLimitExceeded) {
		t.Fatalf("want ErrReservationLimitExceeded, got %v", err)
	}
	third := eng.seats.(*memSeats).db.byKey[key(2, 1)]
	s, _ := eng.seats.GetByID(ctx, third)
	if s.Status != model.SeatAvailable {
		t.Fatalf("refused reserve touched seat: %+v", s)
	}

	// Sold seats still count toward the cap.
	if _, err := eng.ConfirmPurchase(ctx, second.ID, "U1", "ORD-2"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := eng.Reserve(ctx, key(2, 1), "U1", 0); !errors.Is(err, ErrReservationLimitExceeded) {
		t.Fatalf("sold seat not counted: got %v", err)
	}

	// Other callers are unaffected.
	if _, err := eng.Reserve(ctx, key(2, 1), "U2", 0); err != nil {
		t.Fatalf("other caller blocked: %v", err)
	}
}

func TestListSeatsByZonePagination(t *testing.T) {
	eng, _, _, _ := newTestRig(t, 3, 4)
	ctx := context.Background()

	page, err := eng.ListSeatsByZone(ctx, testEvent, testZone, "", 1, 5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 12 || len(page.Seats) != 5 {
		t.Fatalf("want total 12 page of 5, got total %d len %d", page.Total, len(page.Seats))
	}
	if page.Seats[0].Row != 1 || page.Seats[0].SeatNumber != 1 {
		t.Fatalf("ordering wrong: first seat %+v", page.Seats[0])
	}

	if _, err := eng.Reserve(ctx, key(2, 2), "U1", 0); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	reserved, err := eng.ListSeatsByZone(ctx, testEvent, testZone, model.SeatReserved, 1, 50)
	if err != nil {
		t.Fatalf("list reserved: %v", err)
	}
	if reserved.Total != 1 || len(reserved.Seats) != 1 || reserved.Seats[0].Row != 2 {
		t.Fatalf("status filter wrong: %+v", reserved)
	}
}

func TestCacheConvergesAfterTransitions(t *testing.T) {
	eng, _, db, _ := newTestRig(t, 2, 3)
	ctx := context.Background()

	a, _ := eng.Reserve(ctx, key(1, 1), "U1", 0)
	b, _ := eng.Reserve(ctx, key(1, 2), "U2", 0)
	if _, err := eng.ConfirmPurchase(ctx, a.ID, "U1", "ORD-A"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := eng.ReleaseReservation(ctx, b.ID, "U2"); err != nil {
		t.Fatalf("release: %v", err)
	}

	zone := db.zones[model.ZoneKey{LayoutID: testLayout, ZoneID: testZone}]
	counts := zone.Counts
	if !counts.Consistent() {
		t.Fatalf("inconsistent counts: %+v", counts)
	}
	direct, err := eng.seats.AggregateZone(ctx, testLayout, testZone)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if counts.TotalSeats != direct.TotalSeats ||
		counts.AvailableSeats != direct.AvailableSeats ||
		counts.ReservedSeats != direct.ReservedSeats ||
		counts.SoldSeats != direct.SoldSeats ||
		counts.BlockedSeats != direct.BlockedSeats {
		t.Fatalf("cache %+v diverges from direct aggregate %+v", counts, direct)
	}
	if counts.SoldSeats != 1 || counts.ReservedSeats != 0 || counts.AvailableSeats != 5 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
