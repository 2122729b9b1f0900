package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spec-kit/guest-list/internal/domain"
	"github.com/spec-kit/guest-list/internal/persistence"
)

const guestsTable = "guests"

// opaqueID accepts both string and numeric identifiers from the store.
type opaqueID string

func (id *opaqueID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = opaqueID(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = opaqueID(n.String())
	return nil
}

// restTimeLayouts covers timestamptz and plain timestamp columns. Values
// without an offset are read as UTC.
var restTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
}

// restTime accepts timestamps with or without a zone offset.
type restTime time.Time

func (t *restTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = restTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range restTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = restTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

type restGuestRow struct {
	ID        opaqueID  `json:"id"`
	FullName  string    `json:"full_name"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt restTime  `json:"created_at"`
	UpdatedAt *restTime `json:"updated_at,omitempty"`
}

func (row restGuestRow) toDomain() domain.Guest {
	g := domain.Guest{
		ID:        string(row.ID),
		FullName:  row.FullName,
		Confirmed: row.Confirmed,
		CreatedAt: time.Time(row.CreatedAt),
	}
	if row.UpdatedAt != nil {
		updated := time.Time(*row.UpdatedAt)
		g.UpdatedAt = &updated
	}
	return g
}

type restGuestInsert struct {
	FullName  string `json:"full_name"`
	Confirmed bool   `json:"confirmed"`
}

type restGuestPatch struct {
	FullName  *string `json:"full_name,omitempty"`
	Confirmed *bool   `json:"confirmed,omitempty"`
}

type restGuestRepository struct {
	client *persistence.REST
}

// NewRESTGuestRepository returns a repository backed by the hosted store.
func NewRESTGuestRepository(client *persistence.REST) GuestRepository {
	return &restGuestRepository{client: client}
}

func (r *restGuestRepository) Create(ctx context.Context, guest *domain.Guest) error {
	body := []restGuestInsert{{FullName: guest.FullName, Confirmed: guest.Confirmed}}
	req, err := r.client.NewRequest(ctx, http.MethodPost, guestsTable, nil, body)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=representation")

	var rows []restGuestRow
	if err := r.client.Do(req, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return errors.New("store returned no representation for inserted guest")
	}
	created := rows[0].toDomain()
	guest.ID = created.ID
	guest.CreatedAt = created.CreatedAt
	return nil
}

func (r *restGuestRepository) Update(ctx context.Context, id string, patch domain.GuestPatch) error {
	query := url.Values{"id": {"eq." + id}}
	body := restGuestPatch{FullName: patch.FullName, Confirmed: patch.Confirmed}
	req, err := r.client.NewRequest(ctx, http.MethodPatch, guestsTable, query, body)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=representation")

	var rows []restGuestRow
	if err := r.client.Do(req, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *restGuestRepository) List(ctx context.Context) ([]domain.Guest, error) {
	query := url.Values{
		"select": {"*"},
		"order":  {"created_at.asc"},
	}
	req, err := r.client.NewRequest(ctx, http.MethodGet, guestsTable, query, nil)
	if err != nil {
		return nil, err
	}

	var rows []restGuestRow
	if err := r.client.Do(req, &rows); err != nil {
		return nil, err
	}
	result := make([]domain.Guest, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}
