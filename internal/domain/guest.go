package domain

import (
	"strings"
	"time"
)

// Guest is one invitee on the list. ID and CreatedAt are assigned by the store.
type Guest struct {
	ID        string
	FullName  string
	Confirmed bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// GuestPatch describes an in-place update. Nil fields are left untouched.
type GuestPatch struct {
	FullName  *string
	Confirmed *bool
}

// Empty reports whether the patch writes nothing.
func (p GuestPatch) Empty() bool {
	return p.FullName == nil && p.Confirmed == nil
}

// Apply returns a copy of g with the patch fields written.
func (p GuestPatch) Apply(g Guest) Guest {
	if p.FullName != nil {
		g.FullName = *p.FullName
	}
	if p.Confirmed != nil {
		g.Confirmed = *p.Confirmed
	}
	return g
}

// IsBlankName reports whether a submitted name is empty or only whitespace.
// Non-blank names are stored as submitted.
func IsBlankName(name string) bool {
	return strings.TrimSpace(name) == ""
}
