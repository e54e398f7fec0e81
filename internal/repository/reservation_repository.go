package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ReservationRepo persists reservations and implements the booking
// engine's store contract.  The no-overlap invariant is enforced here,
// not in the engine: Insert re-runs the overlap query with FOR UPDATE
// inside the insert transaction, so of two racing inserts for
// overlapping dates exactly one commits; the other either observes the
// committed row or loses a deadlock and retries into observing it.
// The engine's own pre-check is only a fast path.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const dateLayout = "2006-01-02"

const reservationColumns = `id, guest_name, guest_email, room_id, plan_id,
	check_in, check_out, total_price, status, payment_ref, created_at, updated_at`

// blockingIn expands model.BlockingStatuses into a placeholder list and
// the matching args for an IN clause.
func blockingIn() (string, []any) {
	ph := make([]string, len(model.BlockingStatuses))
	args := make([]any, len(model.BlockingStatuses))
	for i, s := range model.BlockingStatuses {
		ph[i] = "?"
		args[i] = s
	}
	return strings.Join(ph, ","), args
}

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var (
		res    model.Reservation
		payRef sql.NullString
	)
	err := row.Scan(
		&res.ID, &res.GuestName, &res.GuestEmail, &res.RoomID, &res.PlanID,
		&res.CheckIn, &res.CheckOut, &res.TotalPrice, &res.Status,
		&payRef, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if payRef.Valid {
		ref := payRef.String
		res.PaymentRef = &ref
	}
	return &res, nil
}

// FindOverlapping returns the ids of non-canceled reservations whose
// half-open [check_in, check_out) interval overlaps the given one.
// Read-only; used for the availability probe and the engine's
// optimistic pre-check.
func (r *ReservationRepo) FindOverlapping(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) ([]uint64, error) {
	in, args := blockingIn()
	q := `SELECT id FROM reservations
	      WHERE room_id = ? AND status IN (` + in + `) AND check_in < ? AND check_out > ?
	      ORDER BY id`
	qargs := append([]any{roomID}, args...)
	qargs = append(qargs, checkOut.Format(dateLayout), checkIn.Format(dateLayout))
	rows, err := r.db.QueryContext(ctx, q, qargs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Insert persists a new reservation after re-checking for overlap
// within one transaction.  On conflict it returns
// booking.ErrDateRangeConflict and writes nothing.  On success the
// generated id and timestamp fields are populated on res.
//
// Two racing transactions can both pass the locking read before either
// inserts: gap locks are shared, so the conflict only materializes as
// an insert-intention deadlock and InnoDB rolls one transaction back
// with error 1213.  That loser retries once; its re-check then sees the
// winner's committed row and reports the conflict sentinel.
func (r *ReservationRepo) Insert(ctx context.Context, res *model.Reservation) error {
	err := r.insertOnce(ctx, res)
	if isLockConflict(err) {
		err = r.insertOnce(ctx, res)
		if isLockConflict(err) {
			return booking.ErrDateRangeConflict
		}
	}
	return err
}

// isLockConflict reports whether err is an InnoDB deadlock (1213) or
// lock wait timeout (1205), the errors a losing racer gets on the
// reservation insert.
func isLockConflict(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1213 || me.Number == 1205
	}
	return false
}

func (r *ReservationRepo) insertOnce(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Locking re-check: once a conflicting row is committed, this read
	// blocks on its range lock and then observes it.
	in, args := blockingIn()
	lockQ := `SELECT id FROM reservations
	          WHERE room_id = ? AND status IN (` + in + `) AND check_in < ? AND check_out > ?
	          FOR UPDATE`
	lockArgs := append([]any{res.RoomID}, args...)
	lockArgs = append(lockArgs, res.CheckOut.Format(dateLayout), res.CheckIn.Format(dateLayout))
	rows, err := tx.QueryContext(ctx, lockQ, lockArgs...)
	if err != nil {
		return err
	}
	conflict := false
	for rows.Next() {
		conflict = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()
	if conflict {
		return booking.ErrDateRangeConflict
	}

	const qInsert = `INSERT INTO reservations
	                 (guest_name, guest_email, room_id, plan_id, check_in, check_out, total_price, status)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, qInsert,
		res.GuestName, res.GuestEmail, res.RoomID, res.PlanID,
		res.CheckIn.Format(dateLayout), res.CheckOut.Format(dateLayout),
		res.TotalPrice, res.Status,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	// Read the row back to populate timestamps and defaults.
	const qSelect = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	stored, err := scanReservation(tx.QueryRowContext(ctx, qSelect, res.ID))
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*res = *stored
	return nil
}

// GetByID returns a reservation or booking.ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, booking.ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// UpdateStatus moves a reservation to the target status when its
// current status is one of from, reporting whether a row changed.  A
// non-nil paymentRef is stored with the transition; existing refs are
// kept otherwise.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, from []string, to string, paymentRef *string) (bool, error) {
	ph := make([]string, len(from))
	args := make([]any, 0, 3+len(from))
	args = append(args, to, paymentRef, id)
	for i, s := range from {
		ph[i] = "?"
		args = append(args, s)
	}
	q := `UPDATE reservations
	      SET status = ?, payment_ref = COALESCE(?, payment_ref), updated_at = CURRENT_TIMESTAMP
	      WHERE id = ? AND status IN (` + strings.Join(ph, ",") + `)`
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReservationDetail is a reservation joined with its room and plan
// names.  It is returned by the admin listing and the public lookup so
// dashboards and confirmation pages need no extra catalog round trips.
type ReservationDetail struct {
	model.Reservation
	RoomName string `json:"room_name"`
	PlanName string `json:"plan_name"`
}

const detailQuery = `SELECT r.id, r.guest_name, r.guest_email, r.room_id, r.plan_id,
	       r.check_in, r.check_out, r.total_price, r.status, r.payment_ref,
	       r.created_at, r.updated_at, rm.name, p.name
	FROM reservations r
	JOIN rooms rm ON rm.id = r.room_id
	JOIN plans p ON p.id = r.plan_id`

func scanDetail(row interface{ Scan(...any) error }) (*ReservationDetail, error) {
	var (
		d      ReservationDetail
		payRef sql.NullString
	)
	err := row.Scan(
		&d.ID, &d.GuestName, &d.GuestEmail, &d.RoomID, &d.PlanID,
		&d.CheckIn, &d.CheckOut, &d.TotalPrice, &d.Status,
		&payRef, &d.CreatedAt, &d.UpdatedAt, &d.RoomName, &d.PlanName,
	)
	if err != nil {
		return nil, err
	}
	if payRef.Valid {
		ref := payRef.String
		d.PaymentRef = &ref
	}
	return &d, nil
}

// GetDetail returns one reservation with room and plan names, or
// booking.ErrReservationNotFound.
func (r *ReservationRepo) GetDetail(ctx context.Context, id uint64) (*ReservationDetail, error) {
	q := detailQuery + ` WHERE r.id = ?`
	d, err := scanDetail(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, booking.ErrReservationNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListDetails returns all reservations with room and plan names,
// newest first.  Used by the admin dashboard.
func (r *ReservationRepo) ListDetails(ctx context.Context) ([]*ReservationDetail, error) {
	q := detailQuery + ` ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*ReservationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
