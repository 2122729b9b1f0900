package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/guest-list/internal/domain"
)

type sqliteGuestRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteGuestRepository returns a repository over a migrated SQLite handle.
func NewSQLiteGuestRepository(db *sql.DB) GuestRepository {
	return &sqliteGuestRepository{db: db, now: time.Now}
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func (r *sqliteGuestRepository) Create(ctx context.Context, guest *domain.Guest) error {
	id := uuid.NewString()
	createdAt := r.now().UTC().Truncate(time.Millisecond)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO guests (id, full_name, confirmed, created_at) VALUES (?, ?, ?, ?)`,
		id,
		guest.FullName,
		guest.Confirmed,
		toMillis(createdAt),
	)
	if err != nil {
		return err
	}
	guest.ID = id
	guest.CreatedAt = createdAt
	return nil
}

func (r *sqliteGuestRepository) Update(ctx context.Context, id string, patch domain.GuestPatch) error {
	var fullName, confirmed any
	if patch.FullName != nil {
		fullName = *patch.FullName
	}
	if patch.Confirmed != nil {
		confirmed = *patch.Confirmed
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE guests SET full_name = COALESCE(?, full_name), confirmed = COALESCE(?, confirmed), updated_at = ?
		 WHERE id = ?`,
		fullName,
		confirmed,
		toMillis(r.now()),
		id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteGuestRepository) List(ctx context.Context) ([]domain.Guest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, full_name, confirmed, created_at, updated_at
		 FROM guests ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Guest{}
	for rows.Next() {
		var (
			guest     domain.Guest
			createdAt int64
			updatedAt sql.NullInt64
		)
		if err := rows.Scan(&guest.ID, &guest.FullName, &guest.Confirmed, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		guest.CreatedAt = fromMillis(createdAt)
		if updatedAt.Valid {
			t := fromMillis(updatedAt.Int64)
			guest.UpdatedAt = &t
		}
		result = append(result, guest)
	}
	return result, rows.Err()
}
