package repository // repository defines data access for layout zones

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/model"
)

// ZoneRepo provides read access to zone geometry and write access to the
// embedded aggregate cache.  Zone geometry itself is owned by the
// layout-editing subsystem; this repository never writes anything except
// the cache columns.
type ZoneRepo struct {
	db *sql.DB
}

// NewZoneRepo constructs a ZoneRepo with the given DB handle.
func NewZoneRepo(db *sql.DB) *ZoneRepo {
	return &ZoneRepo{db: db}
}

// GetByID retrieves a zone of a layout including its cached counts.
func (r *ZoneRepo) GetByID(ctx context.Context, layoutID, zoneID uint64) (*model.Zone, error) {
	const q = `SELECT id, layout_id, name, seat_rows, seats_per_row, price_cents,
	                  total_seats, available_seats, reserved_seats, sold_seats, blocked_seats,
	                  counts_updated_at, created_at, updated_at
	           FROM zones WHERE layout_id = ? AND id = ?`
	var (
		z          model.Zone
		rows       sql.NullInt64
		cols       sql.NullInt64
		countsAt   sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, layoutID, zoneID).Scan(
		&z.ID, &z.LayoutID, &z.Name, &rows, &cols, &z.PriceCents,
		&z.Counts.TotalSeats, &z.Counts.AvailableSeats, &z.Counts.ReservedSeats,
		&z.Counts.SoldSeats, &z.Counts.BlockedSeats,
		&countsAt, &z.CreatedAt, &z.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}
	if rows.Valid {
		v := uint32(rows.Int64)
		z.SeatRows = &v
	}
	if cols.Valid {
		v := uint32(cols.Int64)
		z.SeatsPerRow = &v
	}
	if countsAt.Valid {
		z.Counts.UpdatedAt = countsAt.Time
	}
	return &z, nil
}

// UpdateCounts writes a freshly computed aggregate into the zone's cache
// columns.  At is stamped as counts_updated_at so readers can judge
// staleness.  Only the cache columns are touched.
func (r *ZoneRepo) UpdateCounts(ctx context.Context, layoutID, zoneID uint64, counts model.ZoneCounts, at time.Time) error {
	const q = `UPDATE zones
	           SET total_seats = ?, available_seats = ?, reserved_seats = ?,
	               sold_seats = ?, blocked_seats = ?, counts_updated_at = ?
	           WHERE layout_id = ? AND id = ?`
	// RowsAffected is not checked here: MySQL reports zero affected rows
	// when the new counts equal the old ones, which is a legal no-op
	// refresh, not a missing zone.
	_, err := r.db.ExecContext(ctx, q,
		counts.TotalSeats, counts.AvailableSeats, counts.ReservedSeats,
		counts.SoldSeats, counts.BlockedSeats, at.UTC(),
		layoutID, zoneID,
	)
	return err
}
