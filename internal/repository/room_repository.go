package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomRepo provides CRUD operations over the rooms catalog.  Rooms are
// reference data: administrators create and edit them, and rows are
// deactivated rather than deleted so existing reservations keep a
// valid foreign key.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, name, capacity, price, is_active, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
	var r model.Room
	if err := row.Scan(&r.ID, &r.Name, &r.Capacity, &r.Price, &r.IsActive, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetByID retrieves a room regardless of its active flag.  It returns
// ErrRoomNotFound when no row exists.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	room, err := scanRoom(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// ListActive returns all rooms currently offered for booking, ordered
// by id for stable output.  Used by the public catalog endpoint.
func (r *RoomRepo) ListActive(ctx context.Context) ([]*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE is_active = 1 ORDER BY id`
	return r.list(ctx, q)
}

// ListAll returns every room including deactivated ones.  Used by the
// admin dashboard.
func (r *RoomRepo) ListAll(ctx context.Context) ([]*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms ORDER BY id`
	return r.list(ctx, q)
}

func (r *RoomRepo) list(ctx context.Context, q string) ([]*model.Room, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new room and reads the row back so timestamp and
// default fields are populated on the provided struct.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	const qInsert = `INSERT INTO rooms (name, capacity, price) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, room.Name, room.Capacity, room.Price)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)

	const qSelect = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	stored, err := scanRoom(r.db.QueryRowContext(ctx, qSelect, room.ID))
	if err != nil {
		return err
	}
	*room = *stored
	return nil
}

// Update edits a room's display fields and active flag.  Returns
// ErrRoomNotFound when the id does not exist.
func (r *RoomRepo) Update(ctx context.Context, room *model.Room) error {
	const q = `UPDATE rooms
	           SET name = ?, capacity = ?, price = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, room.Name, room.Capacity, room.Price, room.IsActive, room.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// distinguish "missing" from "unchanged"
		if _, err := r.GetByID(ctx, room.ID); err != nil {
			return err
		}
	}
	return nil
}
