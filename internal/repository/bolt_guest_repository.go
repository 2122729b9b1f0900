package repository

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/spec-kit/guest-list/internal/domain"
)

const bucketGuests = "guests"

type boltGuestRecord struct {
	ID        string     `json:"id"`
	Seq       uint64     `json:"seq"`
	FullName  string     `json:"full_name"`
	Confirmed bool       `json:"confirmed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type boltGuestRepository struct {
	db  *bolt.DB
	now func() time.Time
}

// NewBoltGuestRepository returns a repository storing guests as JSON in a bolt bucket.
func NewBoltGuestRepository(db *bolt.DB) (GuestRepository, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketGuests))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &boltGuestRepository{db: db, now: time.Now}, nil
}

func (r *boltGuestRepository) Create(ctx context.Context, guest *domain.Guest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record := boltGuestRecord{
		ID:        uuid.NewString(),
		FullName:  guest.FullName,
		Confirmed: guest.Confirmed,
		CreatedAt: r.now().UTC(),
	}
	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketGuests))
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		record.Seq = seq
		j, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(record.ID), j)
	})
	if err != nil {
		return err
	}
	guest.ID = record.ID
	guest.CreatedAt = record.CreatedAt
	return nil
}

func (r *boltGuestRepository) Update(ctx context.Context, id string, patch domain.GuestPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketGuests))
		res := bucket.Get([]byte(id))
		if res == nil {
			return ErrNotFound
		}
		var record boltGuestRecord
		if err := json.Unmarshal(res, &record); err != nil {
			return err
		}
		if patch.FullName != nil {
			record.FullName = *patch.FullName
		}
		if patch.Confirmed != nil {
			record.Confirmed = *patch.Confirmed
		}
		now := r.now().UTC()
		record.UpdatedAt = &now

		j, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(id), j)
	})
}

func (r *boltGuestRepository) List(ctx context.Context) ([]domain.Guest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var records []boltGuestRecord
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketGuests)).ForEach(func(_, v []byte) error {
			var record boltGuestRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// Keys are ids, so bucket order is arbitrary.
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].Seq < records[j].Seq
	})

	result := make([]domain.Guest, 0, len(records))
	for _, record := range records {
		result = append(result, domain.Guest{
			ID:        record.ID,
			FullName:  record.FullName,
			Confirmed: record.Confirmed,
			CreatedAt: record.CreatedAt,
			UpdatedAt: record.UpdatedAt,
		})
	}
	return result, nil
}
