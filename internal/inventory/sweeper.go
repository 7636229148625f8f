package inventory

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/metrics"
)

// DefaultSweepInterval is how often the expiry sweep runs when no interval
// is configured.
const DefaultSweepInterval = 60 * time.Second

// Sweeper reclaims reservations whose holder never confirmed or released
// them.  It shares no coordination primitive with the request path beyond
// the seat store itself; a hold's lifetime is bounded by the durable
// hold-expiry column, not an in-memory timer, so holds survive process
// restarts and only a sweep can reclaim them.
type Sweeper struct {
	seats    SeatStore
	zones    ZoneStore
	interval time.Duration
	jitter   time.Duration
	now      func() time.Time
}

// NewSweeper constructs a Sweeper.  interval falls back to the default
// when non-positive; jitter may be zero.
func NewSweeper(seats SeatStore, zones ZoneStore, interval, jitter time.Duration) *Sweeper {
	if seats == nil || zones == nil {
		panic("nil store passed to NewSweeper")
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if jitter < 0 {
		jitter = 0
	}
	return &Sweeper{seats: seats, zones: zones, interval: interval, jitter: jitter, now: time.Now}
}

// Start runs the sweep loop until ctx is cancelled.  Sweep failures are
// logged and the schedule keeps going; seats still past expiry are picked
// up by the next run.
func (s *Sweeper) Start(ctx context.Context) {
	log.Printf("sweeper: running every %s (jitter up to %s)", s.interval, s.jitter)
	timer := time.NewTimer(s.nextDelay())
	defer timer.Stop()
	for {
		select {
		case <-timer.C:
			if _, err := s.RunOnce(ctx); err != nil {
				log.Printf("sweeper: sweep failed: %v", err)
			}
			timer.Reset(s.nextDelay())
		case <-ctx.Done():
			log.Printf("sweeper: stopping")
			return
		}
	}
}

func (s *Sweeper) nextDelay() time.Duration {
	d := s.interval
	if s.jitter > 0 {
		d += time.Duration(rand.Int63n(int64(s.jitter)))
	}
	return d
}

// RunOnce performs a single sweep: batch-release every seat whose hold
// lapsed, then refresh the aggregate cache once per affected zone, not
// once per seat.  A sweep that finds nothing is a no-op with no refresh
// calls.  Returns the number of seats reclaimed.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	now := s.now()
	zones, reclaimed, err := s.seats.ExpireDue(ctx, now)
	if err != nil {
		return 0, err
	}
	if reclaimed == 0 {
		return 0, nil
	}
	log.Printf("sweeper: reclaimed %d expired holds across %d zones", reclaimed, len(zones))
	metrics.SweepReclaimed.Add(float64(reclaimed))
	metrics.LastSweepSize.Set(float64(reclaimed))
	for _, zk := range zones {
		if err := RefreshZoneCounts(ctx, s.seats, s.zones, zk.LayoutID, zk.ZoneID, now); err != nil {
			log.Printf("sweeper: zone %d/%d cache refresh failed: %v", zk.LayoutID, zk.ZoneID, err)
		}
	}
	return reclaimed, nil
}
