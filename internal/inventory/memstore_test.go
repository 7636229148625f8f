package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/model"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/repository"
)

// memDB is an in-memory stand-in for the MySQL seat store used by the
// engine, generator and sweeper tests.  Every transition takes the mutex
// for its whole match-and-update, which preserves the conditional-update
// atomicity the production SQL provides, so the concurrency properties
// exercised here carry over.
type memDB struct {
	mu     sync.Mutex
	nextID uint64
	seats  map[uint64]*model.Seat
	byKey  map[model.SeatKey]uint64
	zones  map[model.ZoneKey]*model.Zone
}

func newMemDB() *memDB {
	return &memDB{
		seats: make(map[uint64]*model.Seat),
		byKey: make(map[model.SeatKey]uint64),
		zones: make(map[model.ZoneKey]*model.Zone),
	}
}

func (db *memDB) addZone(layoutID, zoneID uint64, name string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.zones[model.ZoneKey{LayoutID: layoutID, ZoneID: zoneID}] = &model.Zone{
		ID: zoneID, LayoutID: layoutID, Name: name,
	}
}

func seatKey(s *model.Seat) model.SeatKey {
	return model.SeatKey{EventID: s.EventID, ZoneID: s.ZoneID, Row: s.Row, SeatNumber: s.SeatNumber}
}

func copySeat(s *model.Seat) *model.Seat {
	c := *s
	return &c
}

// memSeats implements SeatStore over a memDB.
type memSeats struct{ db *memDB }

// memZones implements ZoneStore over the same memDB.
type memZones struct{ db *memDB }

func (m *memSeats) Reserve(_ context.Context, key model.SeatKey, holderID, holdToken string, start, expires time.Time) (*model.Seat, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	id, ok := m.db.byKey[key]
	if !ok {
		return nil, repository.ErrSeatUnavailable
	}
	s := m.db.seats[id]
	if s.Status != model.SeatAvailable {
		return nil, repository.ErrSeatUnavailable
	}
	s.Status = model.SeatReserved
	s.HolderID = &holderID
	s.HoldToken = &holdToken
	st, exp := start.UTC(), expires.UTC()
	s.HoldStartedAt = &st
	s.HoldExpiresAt = &exp
	s.Version++
	return copySeat(s), nil
}

func (m *memSeats) Confirm(_ context.Context, seatID uint64, buyerID, orderRef string, at time.Time) (*model.Seat, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.seats[seatID]
	if !ok {
		return nil, repository.ErrSeatNotFound
	}
	if s.Status != model.SeatReserved || s.HolderID == nil || *s.HolderID != buyerID {
		return nil, repository.ErrNotReservedByCaller
	}
	s.Status = model.SeatSold
	s.BuyerID = &buyerID
	ts := at.UTC()
	s.PurchasedAt = &ts
	s.OrderRef = &orderRef
	s.HolderID, s.HoldToken, s.HoldStartedAt, s.HoldExpiresAt = nil, nil, nil, nil
	s.Version++
	return copySeat(s), nil
}

func (m *memSeats) Release(_ context.Context, seatID uint64, holderID string) (*model.Seat, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.seats[seatID]
	if !ok {
		return nil, repository.ErrSeatNotFound
	}
	if s.Status != model.SeatReserved || s.HolderID == nil || *s.HolderID != holderID {
		return nil, repository.ErrNotReservedByCaller
	}
	s.Status = model.SeatAvailable
	s.HolderID, s.HoldToken, s.HoldStartedAt, s.HoldExpiresAt = nil, nil, nil, nil
	s.Version++
	return copySeat(s), nil
}

func (m *memSeats) ExpireDue(_ context.Context, now time.Time) ([]model.ZoneKey, int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	zoneSet := make(map[model.ZoneKey]struct{})
	var n int64
	for _, s := range m.db.seats {
		if s.Status != model.SeatReserved || s.HoldExpiresAt == nil || !s.HoldExpiresAt.Before(now.UTC()) {
			continue
		}
		s.Status = model.SeatAvailable
		s.HolderID, s.HoldToken, s.HoldStartedAt, s.HoldExpiresAt = nil, nil, nil, nil
		s.Version++
		zoneSet[model.ZoneKey{LayoutID: s.LayoutID, ZoneID: s.ZoneID}] = struct{}{}
		n++
	}
	zones := make([]model.ZoneKey, 0, len(zoneSet))
	for zk := range zoneSet {
		zones = append(zones, zk)
	}
	return zones, n, nil
}

func (m *memSeats) CountActiveForCaller(_ context.Context, eventID uint64, callerID string) (int, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	n := 0
	for _, s := range m.db.seats {
		if s.EventID != eventID {
			continue
		}
		if s.Status == model.SeatReserved && s.HolderID != nil && *s.HolderID == callerID {
			n++
		}
		if s.Status == model.SeatSold && s.BuyerID != nil && *s.BuyerID == callerID {
			n++
		}
	}
	return n, nil
}

func (m *memSeats) ListByZone(_ context.Context, eventID, zoneID uint64, status string, limit, offset int) ([]model.Seat, int, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var all []model.Seat
	for _, s := range m.db.seats {
		if s.EventID != eventID || s.ZoneID != zoneID {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Row != all[j].Row {
			return all[i].Row < all[j].Row
		}
		return all[i].SeatNumber < all[j].SeatNumber
	})
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *memSeats) CreateBulk(_ context.Context, seats []model.Seat) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, s := range seats {
		key := seatKey(&s)
		if _, exists := m.db.byKey[key]; exists {
			return fmt.Errorf("duplicate seat %+v", key)
		}
	}
	for _, s := range seats {
		m.db.nextID++
		s.ID = m.db.nextID
		stored := s
		m.db.seats[s.ID] = &stored
		m.db.byKey[seatKey(&stored)] = s.ID
	}
	return nil
}

func (m *memSeats) DeleteByZone(_ context.Context, layoutID, zoneID uint64) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var n int64
	for id, s := range m.db.seats {
		if s.LayoutID == layoutID && s.ZoneID == zoneID {
			delete(m.db.byKey, seatKey(s))
			delete(m.db.seats, id)
			n++
		}
	}
	return n, nil
}

func (m *memSeats) AggregateZone(_ context.Context, layoutID, zoneID uint64) (model.ZoneCounts, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var counts model.ZoneCounts
	for _, s := range m.db.seats {
		if s.LayoutID != layoutID || s.ZoneID != zoneID {
			continue
		}
		switch s.Status {
		case model.SeatAvailable:
			counts.AvailableSeats++
		case model.SeatReserved:
			counts.ReservedSeats++
		case model.SeatSold:
			counts.SoldSeats++
		case model.SeatBlocked:
			counts.BlockedSeats++
		}
		counts.TotalSeats++
	}
	return counts, nil
}

func (m *memSeats) GetByID(_ context.Context, id uint64) (*model.Seat, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.seats[id]
	if !ok {
		return nil, repository.ErrSeatNotFound
	}
	return copySeat(s), nil
}

func (z *memZones) GetByID(_ context.Context, layoutID, zoneID uint64) (*model.Zone, error) {
	z.db.mu.Lock()
	defer z.db.mu.Unlock()
	zone, ok := z.db.zones[model.ZoneKey{LayoutID: layoutID, ZoneID: zoneID}]
	if !ok {
		return nil, repository.ErrZoneNotFound
	}
	c := *zone
	return &c, nil
}

func (z *memZones) UpdateCounts(_ context.Context, layoutID, zoneID uint64, counts model.ZoneCounts, at time.Time) error {
	z.db.mu.Lock()
	defer z.db.mu.Unlock()
	zone, ok := z.db.zones[model.ZoneKey{LayoutID: layoutID, ZoneID: zoneID}]
	if !ok {
		return repository.ErrZoneNotFound
	}
	counts.UpdatedAt = at.UTC()
	zone.Counts = counts
	return nil
}
