package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/guest-list/internal/domain"
)

// ErrNotFound is returned by Update when no guest has the given id.
var ErrNotFound = errors.New("guest not found")

// GuestRepository is the guest store: the single source of truth for the list.
type GuestRepository interface {
	// Create inserts guest and fills in the store-assigned ID and CreatedAt.
	Create(ctx context.Context, guest *domain.Guest) error
	// Update writes the non-nil patch fields of the guest with the given id.
	Update(ctx context.Context, id string, patch domain.GuestPatch) error
	// List returns every guest ordered by creation time, oldest first.
	List(ctx context.Context) ([]domain.Guest, error)
}

type guestRepository struct {
	pool *pgxpool.Pool
}

// NewGuestRepository returns a Postgres-backed implementation.
func NewGuestRepository(pool *pgxpool.Pool) GuestRepository {
	return &guestRepository{pool: pool}
}

func (r *guestRepository) Create(ctx context.Context, guest *domain.Guest) error {
	const query = `
        INSERT INTO guests (full_name, confirmed)
        VALUES ($1, $2)
        RETURNING id::text, created_at`

	return r.pool.QueryRow(ctx, query,
		guest.FullName,
		guest.Confirmed,
	).Scan(&guest.ID, &guest.CreatedAt)
}

func (r *guestRepository) Update(ctx context.Context, id string, patch domain.GuestPatch) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	const query = `
        UPDATE guests SET full_name=COALESCE($1, full_name), confirmed=COALESCE($2, confirmed), updated_at=NOW()
        WHERE id=$3::uuid`

	cmd, err := r.pool.Exec(ctx, query,
		patch.FullName,
		patch.Confirmed,
		id,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *guestRepository) List(ctx context.Context) ([]domain.Guest, error) {
	const query = `
        SELECT id::text, full_name, confirmed, created_at, updated_at
        FROM guests ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Guest{}
	for rows.Next() {
		var guest domain.Guest
		if err := rows.Scan(
			&guest.ID,
			&guest.FullName,
			&guest.Confirmed,
			&guest.CreatedAt,
			&guest.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, guest)
	}
	return result, rows.Err()
}
