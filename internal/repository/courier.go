package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-courier/internal/apperr"
	"service-courier/internal/domain"
	"service-courier/internal/listing"
)

const courierColumns = `id, name, phone, email, level, status, registered_at, created_at, updated_at`

// CourierRepo represents courier repository.
type CourierRepo struct{ db *pgxpool.Pool }

// NewCourierRepo creates a new CourierRepo.
func NewCourierRepo(db *pgxpool.Pool) *CourierRepo { return &CourierRepo{db: db} }

func scanCourier(row pgx.Row) (*domain.Courier, error) {
	var c domain.Courier
	err := row.Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Level, &c.Status,
		&c.RegisteredAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Get - returns courier by its ID, or nil when there is none.
func (r *CourierRepo) Get(ctx context.Context, id int64) (*domain.Courier, error) {
	c, err := scanCourier(r.db.QueryRow(ctx,
		`SELECT `+courierColumns+` FROM couriers WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get courier %d: %w", id, err)
	}
	return c, nil
}

// List executes a listing plan and returns the page rows plus the total number of matches.
// Both queries go to the server in one batch.
func (r *CourierRepo) List(ctx context.Context, plan listing.Plan) ([]domain.Courier, int64, error) {
	q := buildListQuery(plan)

	batch := &pgx.Batch{}
	batch.Queue(q.countSQL, q.countArgs...)
	batch.Queue(q.pageSQL, q.pageArgs...)

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	var total int64
	if err := br.QueryRow().Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count couriers: %w", err)
	}

	rows, err := br.Query()
	if err != nil {
		return nil, 0, fmt.Errorf("list couriers: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Courier, 0, plan.PerPage)
	for rows.Next() {
		c, err := scanCourier(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan courier: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list couriers: %w", err)
	}
	return out, total, nil
}

// Create - inserts a courier and returns the stored row.
// A zero RegisteredAt lets the database default to now().
func (r *CourierRepo) Create(ctx context.Context, c *domain.Courier) (*domain.Courier, error) {
	var registeredAt *time.Time
	if !c.RegisteredAt.IsZero() {
		registeredAt = &c.RegisteredAt
	}
	created, err := scanCourier(r.db.QueryRow(ctx, `
		INSERT INTO couriers (name, phone, email, level, status, registered_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
		RETURNING `+courierColumns,
		c.Name, c.Phone, c.Email, c.Level, string(c.Status), registeredAt,
	))
	if err != nil {
		if IsDuplicate(err) {
			return nil, apperr.ErrConflict
		}
		return nil, fmt.Errorf("create courier: %w", err)
	}
	return created, nil
}

// Update applies a partial update and returns the stored row, or nil when the courier does not exist.
func (r *CourierRepo) Update(ctx context.Context, u domain.PartialCourierUpdate) (*domain.Courier, error) {
	var status *string
	if u.Status != nil {
		s := string(*u.Status)
		status = &s
	}
	updated, err := scanCourier(r.db.QueryRow(ctx, `
		UPDATE couriers
		SET
			name          = COALESCE($2, name),
			phone         = CASE WHEN $3::boolean THEN $4 ELSE phone END,
			email         = CASE WHEN $5::boolean THEN $6 ELSE email END,
			level         = COALESCE($7, level),
			status        = COALESCE($8, status),
			registered_at = COALESCE($9, registered_at),
			updated_at    = now()
		WHERE id = $1
		RETURNING `+courierColumns,
		u.ID, u.Name,
		u.Phone.Set, u.Phone.Ptr(),
		u.Email.Set, u.Email.Ptr(),
		u.Level, status, u.RegisteredAt,
	))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		if IsDuplicate(err) {
			return nil, apperr.ErrConflict
		}
		return nil, fmt.Errorf("update courier %d: %w", u.ID, err)
	}
	return updated, nil
}

// Delete removes a courier and reports whether a row was deleted.
func (r *CourierRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM couriers WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete courier %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// PhoneTaken reports whether another courier (id != exceptID) already uses the phone.
func (r *CourierRepo) PhoneTaken(ctx context.Context, phone string, exceptID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM couriers WHERE phone = $1 AND id <> $2)`,
		phone, exceptID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check phone: %w", err)
	}
	return taken, nil
}
