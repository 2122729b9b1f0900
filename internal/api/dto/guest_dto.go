package dto

import (
	"time"

	"github.com/spec-kit/guest-list/internal/domain"
	"github.com/spec-kit/guest-list/internal/service"
)

// GuestRequest is the add and save payload, posted as JSON or as a form.
type GuestRequest struct {
	FullName  string `json:"full_name" form:"full_name"`
	Confirmed bool   `json:"confirmed" form:"confirmed"`
}

// GuestResponse represents one guest.
type GuestResponse struct {
	ID        string     `json:"id"`
	FullName  string     `json:"full_name"`
	Confirmed bool       `json:"confirmed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// GuestFormResponse mirrors the add form or the edit scratch row.
type GuestFormResponse struct {
	FullName  string `json:"full_name"`
	Confirmed bool   `json:"confirmed"`
}

// NoticeResponse is the last non-blocking message.
type NoticeResponse struct {
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ViewStateResponse exposes the controller state.
type ViewStateResponse struct {
	Guests     []GuestResponse   `json:"guests"`
	Form       GuestFormResponse `json:"form"`
	EditingID  *string           `json:"editing_id"`
	Edit       GuestFormResponse `json:"edit"`
	Loading    bool              `json:"loading"`
	Submitting bool              `json:"submitting"`
	Notice     *NoticeResponse   `json:"notice"`
}

// NewGuestResponse converts a domain guest.
func NewGuestResponse(g domain.Guest) GuestResponse {
	return GuestResponse{
		ID:        g.ID,
		FullName:  g.FullName,
		Confirmed: g.Confirmed,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// NewGuestList converts a collection, keeping order. The result is never nil.
func NewGuestList(guests []domain.Guest) []GuestResponse {
	items := make([]GuestResponse, 0, len(guests))
	for _, g := range guests {
		items = append(items, NewGuestResponse(g))
	}
	return items
}

// NewViewStateResponse converts a controller snapshot.
func NewViewStateResponse(state service.ViewState) ViewStateResponse {
	resp := ViewStateResponse{
		Guests:     NewGuestList(state.Guests),
		Form:       GuestFormResponse(state.Form),
		EditingID:  state.EditingID,
		Edit:       GuestFormResponse(state.Edit),
		Loading:    state.Loading,
		Submitting: state.Submitting,
	}
	if state.Notice != nil {
		resp.Notice = &NoticeResponse{
			Kind:    string(state.Notice.Kind),
			Code:    state.Notice.Code,
			Message: state.Notice.Message,
		}
	}
	return resp
}
