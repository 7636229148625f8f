package repository // repository defines data access for the seat store

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons
	"time"         // time for hold and purchase timestamps

	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/model"
)

// seatColumns lists every seats column in scan order.  Keep in sync with
// scanSeat.
const seatColumns = `id, event_id, layout_id, zone_id, row_num, seat_number, label, status,
	price_cents, discount_cents, holder_id, hold_token, hold_started_at, hold_expires_at,
	buyer_id, purchased_at, order_ref, version, created_at, updated_at`

// SeatRepo provides methods to work with the seats table.  Every state
// transition is a single conditional UPDATE guarded on the seat's current
// status (and holder where the contract requires it); the affected-rows
// count decides success.  That guarded update is the only concurrency
// control in the system: there is no lock object and no leader election,
// so two racing transitions cannot both match.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// DB exposes the underlying handle so callers can open transactions.
func (r *SeatRepo) DB() *sql.DB { return r.db }

// scanSeat reads one seats row from any row scanner into a model.Seat,
// converting nullable columns into pointers.
func scanSeat(row interface{ Scan(...any) error }) (*model.Seat, error) {
	var (
		s        model.Seat
		discount sql.NullInt64
		holder   sql.NullString
		token    sql.NullString
		holdAt   sql.NullTime
		holdExp  sql.NullTime
		buyer    sql.NullString
		bought   sql.NullTime
		orderRef sql.NullString
	)
	err := row.Scan(
		&s.ID, &s.EventID, &s.LayoutID, &s.ZoneID, &s.Row, &s.SeatNumber, &s.Label, &s.Status,
		&s.PriceCents, &discount, &holder, &token, &holdAt, &holdExp,
		&buyer, &bought, &orderRef, &s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if discount.Valid {
		v := uint32(discount.Int64)
		s.DiscountCents = &v
	}
	if holder.Valid {
		s.HolderID = &holder.String
	}
	if token.Valid {
		s.HoldToken = &token.String
	}
	if holdAt.Valid {
		t := holdAt.Time
		s.HoldStartedAt = &t
	}
	if holdExp.Valid {
		t := holdExp.Time
		s.HoldExpiresAt = &t
	}
	if buyer.Valid {
		s.BuyerID = &buyer.String
	}
	if bought.Valid {
		t := bought.Time
		s.PurchasedAt = &t
	}
	if orderRef.Valid {
		s.OrderRef = &orderRef.String
	}
	return &s, nil
}

// GetByID retrieves a seat by its primary key.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE id = ?`
	s, err := scanSeat(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return s, nil
}

// getByKey retrieves a seat by its unique position tuple.
func (r *SeatRepo) getByKey(ctx context.Context, key model.SeatKey) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats
	           WHERE event_id = ? AND zone_id = ? AND row_num = ? AND seat_number = ?`
	s, err := scanSeat(r.db.QueryRowContext(ctx, q, key.EventID, key.ZoneID, key.Row, key.SeatNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return s, nil
}

// Reserve performs the AVAILABLE -> RESERVED transition for the seat at the
// given position.  The UPDATE matches on status = AVAILABLE; when no row is
// affected the seat was taken, blocked, missing, or lost a concurrent race,
// and ErrSeatUnavailable is returned without side effects.
func (r *SeatRepo) Reserve(ctx context.Context, key model.SeatKey, holderID, holdToken string, start, expires time.Time) (*model.Seat, error) {
	const q = `UPDATE seats
	           SET status = ?, holder_id = ?, hold_token = ?, hold_started_at = ?, hold_expires_at = ?,
	               version = version + 1
	           WHERE event_id = ? AND zone_id = ? AND row_num = ? AND seat_number = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q,
		model.SeatReserved, holderID, holdToken, start.UTC(), expires.UTC(),
		key.EventID, key.ZoneID, key.Row, key.SeatNumber, model.SeatAvailable,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrSeatUnavailable
	}
	return r.getByKey(ctx, key)
}

// Confirm performs the RESERVED -> SOLD transition for the seat with the
// given id, guarded on the caller being the current holder.  Hold fields
// are cleared and purchase fields populated in the same statement.  When
// no row matches, the error distinguishes a missing seat from a seat held
// by someone else (or not held at all).
func (r *SeatRepo) Confirm(ctx context.Context, seatID uint64, buyerID, orderRef string, at time.Time) (*model.Seat, error) {
	const q = `UPDATE seats
	           SET status = ?, buyer_id = ?, purchased_at = ?, order_ref = ?,
	               holder_id = NULL, hold_token = NULL, hold_started_at = NULL, hold_expires_at = NULL,
	               version = version + 1
	           WHERE id = ? AND status = ? AND holder_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		model.SeatSold, buyerID, at.UTC(), orderRef,
		seatID, model.SeatReserved, buyerID,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, r.holderMismatch(ctx, seatID)
	}
	return r.GetByID(ctx, seatID)
}

// Release performs the RESERVED -> AVAILABLE transition for the seat with
// the given id, guarded on the caller being the current holder.  A second
// release of the same seat reports ErrNotReservedByCaller rather than a
// silent success.
func (r *SeatRepo) Release(ctx context.Context, seatID uint64, holderID string) (*model.Seat, error) {
	const q = `UPDATE seats
	           SET status = ?, holder_id = NULL, hold_token = NULL,
	               hold_started_at = NULL, hold_expires_at = NULL,
	               version = version + 1
	           WHERE id = ? AND status = ? AND holder_id = ?`
	res, err := r.db.ExecContext(ctx, q, model.SeatAvailable, seatID, model.SeatReserved, holderID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, r.holderMismatch(ctx, seatID)
	}
	return r.GetByID(ctx, seatID)
}

// holderMismatch decides which sentinel a failed guarded update maps to:
// ErrSeatNotFound when the seat id does not exist, ErrNotReservedByCaller
// otherwise.
func (r *SeatRepo) holderMismatch(ctx context.Context, seatID uint64) error {
	if _, err := r.GetByID(ctx, seatID); err != nil {
		return err
	}
	return ErrNotReservedByCaller
}

// ExpireDue releases every seat whose hold lapsed before now back to
// AVAILABLE in one batch, and returns the distinct zones that were touched
// so the caller can refresh each zone's cache once.  The select and the
// guarded update run inside a transaction; seats that transition between
// the two statements are simply excluded by the shared predicate.  Zero
// expired seats is a no-op returning an empty slice.
func (r *SeatRepo) ExpireDue(ctx context.Context, now time.Time) ([]model.ZoneKey, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	cutoff := now.UTC()
	rows, err := tx.QueryContext(ctx,
		`SELECT DISTINCT layout_id, zone_id FROM seats WHERE status = ? AND hold_expires_at < ?`,
		model.SeatReserved, cutoff,
	)
	if err != nil {
		return nil, 0, err
	}
	var zones []model.ZoneKey
	for rows.Next() {
		var zk model.ZoneKey
		if scanErr := rows.Scan(&zk.LayoutID, &zk.ZoneID); scanErr != nil {
			rows.Close()
			return nil, 0, scanErr
		}
		zones = append(zones, zk)
	}
	if err = rows.Close(); err != nil {
		return nil, 0, err
	}
	if len(zones) == 0 {
		_ = tx.Rollback()
		return nil, 0, nil
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE seats
		 SET status = ?, holder_id = NULL, hold_token = NULL,
		     hold_started_at = NULL, hold_expires_at = NULL,
		     version = version + 1
		 WHERE status = ? AND hold_expires_at < ?`,
		model.SeatAvailable, model.SeatReserved, cutoff,
	)
	if err != nil {
		return nil, 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	committed = true
	return zones, n, nil
}

// CountActiveForCaller counts the caller's RESERVED and SOLD seats for one
// event.  Used by the engine's soft per-event reservation cap.
func (r *SeatRepo) CountActiveForCaller(ctx context.Context, eventID uint64, callerID string) (int, error) {
	const q = `SELECT COUNT(*) FROM seats
	           WHERE event_id = ?
	             AND ((status = ? AND holder_id = ?) OR (status = ? AND buyer_id = ?))`
	var n int
	err := r.db.QueryRowContext(ctx, q, eventID,
		model.SeatReserved, callerID, model.SeatSold, callerID,
	).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ListByZone returns one page of a zone's seats ordered by row then seat
// number, optionally filtered by status, together with the total count for
// the filter.
func (r *SeatRepo) ListByZone(ctx context.Context, eventID, zoneID uint64, status string, limit, offset int) ([]model.Seat, int, error) {
	countQ := `SELECT COUNT(*) FROM seats WHERE event_id = ? AND zone_id = ?`
	listQ := `SELECT ` + seatColumns + ` FROM seats WHERE event_id = ? AND zone_id = ?`
	args := []any{eventID, zoneID}
	if status != "" {
		countQ += ` AND status = ?`
		listQ += ` AND status = ?`
		args = append(args, status)
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	listQ += ` ORDER BY row_num, seat_number LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, listQ, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var seats []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, 0, err
		}
		seats = append(seats, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return seats, total, nil
}

// CreateBulk inserts multiple seats in a single statement.  Only identity,
// label, status, price and discount are inserted; timestamps default in the
// DB and version starts at zero.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (event_id, layout_id, zone_id, row_num, seat_number, label, status, price_cents, discount_cents) VALUES `
	args := make([]interface{}, 0, len(seats)*9)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?, ?)"
		var discount interface{}
		if s.DiscountCents != nil {
			discount = *s.DiscountCents
		}
		args = append(args, s.EventID, s.LayoutID, s.ZoneID, s.Row, s.SeatNumber, s.Label, s.Status, s.PriceCents, discount)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// DeleteByZone removes every seat of a zone.  Called by the generator
// before regenerating a zone whose geometry changed; reconfigured zones
// carry no seat-level continuity guarantee.
func (r *SeatRepo) DeleteByZone(ctx context.Context, layoutID, zoneID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM seats WHERE layout_id = ? AND zone_id = ?`, layoutID, zoneID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AggregateZone computes the zone's seat counts grouped by status straight
// from the seat rows.  This is the authoritative aggregate the zone cache
// is refreshed from.
func (r *SeatRepo) AggregateZone(ctx context.Context, layoutID, zoneID uint64) (model.ZoneCounts, error) {
	const q = `SELECT status, COUNT(*) FROM seats
	           WHERE layout_id = ? AND zone_id = ?
	           GROUP BY status`
	rows, err := r.db.QueryContext(ctx, q, layoutID, zoneID)
	if err != nil {
		return model.ZoneCounts{}, err
	}
	defer rows.Close()

	var counts model.ZoneCounts
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return model.ZoneCounts{}, err
		}
		switch status {
		case model.SeatAvailable:
			counts.AvailableSeats = n
		case model.SeatReserved:
			counts.ReservedSeats = n
		case model.SeatSold:
			counts.SoldSeats = n
		case model.SeatBlocked:
			counts.BlockedSeats = n
		}
		counts.TotalSeats += n
	}
	if err := rows.Err(); err != nil {
		return model.ZoneCounts{}, err
	}
	return counts, nil
}
