package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/spec-kit/guest-list/internal/domain"
)

// MemoryGuestRepository keeps guests in process memory. Ids are sequential.
type MemoryGuestRepository struct {
	mu     sync.RWMutex
	guests map[string]domain.Guest
	order  map[string]uint64
	seq    uint64
	now    func() time.Time
}

// NewMemoryGuestRepository returns an empty in-memory store.
func NewMemoryGuestRepository() *MemoryGuestRepository {
	return &MemoryGuestRepository{
		guests: make(map[string]domain.Guest),
		order:  make(map[string]uint64),
		now:    time.Now,
	}
}

// WithClock replaces the time source. It is meant for tests.
func (m *MemoryGuestRepository) WithClock(now func() time.Time) *MemoryGuestRepository {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	return m
}

func (m *MemoryGuestRepository) Create(ctx context.Context, guest *domain.Guest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	stored := domain.Guest{
		ID:        strconv.FormatUint(m.seq, 10),
		FullName:  guest.FullName,
		Confirmed: guest.Confirmed,
		CreatedAt: m.now().UTC(),
	}
	m.guests[stored.ID] = stored
	m.order[stored.ID] = m.seq

	guest.ID = stored.ID
	guest.CreatedAt = stored.CreatedAt
	return nil
}

func (m *MemoryGuestRepository) Update(ctx context.Context, id string, patch domain.GuestPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.guests[id]
	if !ok {
		return ErrNotFound
	}
	stored = patch.Apply(stored)
	now := m.now().UTC()
	stored.UpdatedAt = &now
	m.guests[id] = stored
	return nil
}

func (m *MemoryGuestRepository) List(ctx context.Context) ([]domain.Guest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]domain.Guest, 0, len(m.guests))
	for _, g := range m.guests {
		result = append(result, g)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return m.order[result[i].ID] < m.order[result[j].ID]
	})
	return result, nil
}

// Ping always succeeds.
func (m *MemoryGuestRepository) Ping(context.Context) error {
	return nil
}
