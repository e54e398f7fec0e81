package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// PlanRepo provides CRUD operations over the plans catalog.  Plans
// follow the same lifecycle as rooms: administrator-managed, edited or
// deactivated but never deleted while reservations reference them.
type PlanRepo struct {
	db *sql.DB
}

// NewPlanRepo constructs a PlanRepo with the given DB handle.
func NewPlanRepo(db *sql.DB) *PlanRepo { return &PlanRepo{db: db} }

const planColumns = `id, name, description, price, is_active, created_at, updated_at`

func scanPlan(row interface{ Scan(...any) error }) (*model.Plan, error) {
	var (
		p    model.Plan
		desc sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &desc, &p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		p.Description = desc.String
	}
	return &p, nil
}

// GetByID retrieves a plan regardless of its active flag.  It returns
// ErrPlanNotFound when no row exists.
func (r *PlanRepo) GetByID(ctx context.Context, id uint64) (*model.Plan, error) {
	const q = `SELECT ` + planColumns + ` FROM plans WHERE id = ?`
	plan, err := scanPlan(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// ListActive returns all plans currently offered for booking.
func (r *PlanRepo) ListActive(ctx context.Context) ([]*model.Plan, error) {
	const q = `SELECT ` + planColumns + ` FROM plans WHERE is_active = 1 ORDER BY id`
	return r.list(ctx, q)
}

// ListAll returns every plan including deactivated ones.
func (r *PlanRepo) ListAll(ctx context.Context) ([]*model.Plan, error) {
	const q = `SELECT ` + planColumns + ` FROM plans ORDER BY id`
	return r.list(ctx, q)
}

func (r *PlanRepo) list(ctx context.Context, q string) ([]*model.Plan, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Plan, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new plan and reads the row back so timestamp and
// default fields are populated.
func (r *PlanRepo) Create(ctx context.Context, plan *model.Plan) error {
	const qInsert = `INSERT INTO plans (name, description, price) VALUES (?, ?, ?)`
	var desc any
	if plan.Description != "" {
		desc = plan.Description
	}
	res, err := r.db.ExecContext(ctx, qInsert, plan.Name, desc, plan.Price)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	plan.ID = uint64(id)

	const qSelect = `SELECT ` + planColumns + ` FROM plans WHERE id = ?`
	stored, err := scanPlan(r.db.QueryRowContext(ctx, qSelect, plan.ID))
	if err != nil {
		return err
	}
	*plan = *stored
	return nil
}

// Update edits a plan's display fields and active flag.  Returns
// ErrPlanNotFound when the id does not exist.
func (r *PlanRepo) Update(ctx context.Context, plan *model.Plan) error {
	const q = `UPDATE plans
	           SET name = ?, description = ?, price = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	var desc any
	if plan.Description != "" {
		desc = plan.Description
	}
	res, err := r.db.ExecContext(ctx, q, plan.Name, desc, plan.Price, plan.IsActive, plan.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, plan.ID); err != nil {
			return err
		}
	}
	return nil
}
