package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/message"

	"github.com/spec-kit/guest-list/internal/domain"
	"github.com/spec-kit/guest-list/internal/events"
	"github.com/spec-kit/guest-list/internal/export"
	"github.com/spec-kit/guest-list/internal/i18n"
	"github.com/spec-kit/guest-list/internal/repository"
	apperrors "github.com/spec-kit/guest-list/pkg/util/errorutil"
)

// NoticeKind classifies a notice shown next to the guest list.
type NoticeKind string

const (
	NoticeError      NoticeKind = "error"
	NoticeValidation NoticeKind = "validation"
)

// Notice is a non-blocking message left by the last failed or rejected intent.
type Notice struct {
	Kind    NoticeKind
	Code    string
	Message string
}

// GuestForm holds the fields of the add form or the edit scratch row.
type GuestForm struct {
	FullName  string
	Confirmed bool
}

// ViewState is a snapshot of everything the guest page renders.
type ViewState struct {
	Guests     []domain.Guest
	Form       GuestForm
	EditingID  *string
	Edit       GuestForm
	Loading    bool
	Submitting bool
	Notice     *Notice
}

// GuestListDependencies wires the controller's collaborators.
type GuestListDependencies struct {
	Store      repository.GuestRepository
	Exporter   *export.CSVExporter
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Printer    *message.Printer
}

// GuestListController owns the view state of the guest page and turns user
// intents into store calls. Every successful mutation is followed by a full
// reload. The mutex guards view state only and is released around store calls.
type GuestListController struct {
	store      repository.GuestRepository
	exporter   *export.CSVExporter
	dispatcher events.Dispatcher
	logger     *zap.Logger
	printer    *message.Printer

	mu         sync.Mutex
	guests     []domain.Guest
	form       GuestForm
	editingID  string
	edit       GuestForm
	loading    int
	submitting int
	notice     *Notice

	// loadSeq is the last issued load, appliedSeq the last one whose
	// result made it into the view.
	loadSeq    uint64
	appliedSeq uint64
}

// NewGuestListController builds the controller with an empty collection.
func NewGuestListController(deps GuestListDependencies) *GuestListController {
	c := &GuestListController{
		store:      deps.Store,
		exporter:   deps.Exporter,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		printer:    deps.Printer,
		guests:     []domain.Guest{},
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.printer == nil {
		c.printer = i18n.Printer(i18n.Default)
	}
	if c.exporter == nil {
		c.exporter = export.NewCSVExporter(i18n.Default, false)
	}
	return c
}

// Load fetches the full collection. On failure the previous collection stays
// in place and an error notice is set. A result older than one already
// applied is dropped.
func (c *GuestListController) Load(ctx context.Context) ([]domain.Guest, error) {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.loading++
	c.notice = nil
	c.mu.Unlock()

	guests, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--

	if err != nil {
		c.logger.Error("load guests failed", zap.Uint64("seq", seq), zap.Error(err))
		if seq > c.appliedSeq {
			c.notice = c.errorNotice(apperrors.CodeStoreUnavailable, i18n.KeyLoadFailed)
		}
		return copyGuests(c.guests), apperrors.NewStoreUnavailable("load", err)
	}

	if seq > c.appliedSeq {
		if guests == nil {
			guests = []domain.Guest{}
		}
		c.guests = guests
		c.appliedSeq = seq
	} else {
		c.logger.Debug("dropping stale guest list", zap.Uint64("seq", seq), zap.Uint64("applied", c.appliedSeq))
	}
	return copyGuests(c.guests), nil
}

// Add inserts a guest and reloads. A blank name is rejected without a store
// call. On store failure the form keeps the submitted values.
func (c *GuestListController) Add(ctx context.Context, fullName string, confirmed bool) (*domain.Guest, error) {
	c.mu.Lock()
	c.notice = nil
	c.form = GuestForm{FullName: fullName, Confirmed: confirmed}
	if domain.IsBlankName(fullName) {
		c.notice = c.validationNotice(i18n.KeyNameRequired)
		c.mu.Unlock()
		return nil, apperrors.NewValidationError("full_name is required", map[string]any{"field": "full_name"})
	}
	c.submitting++
	c.mu.Unlock()

	guest := domain.Guest{FullName: fullName, Confirmed: confirmed}
	if err := c.store.Create(ctx, &guest); err != nil {
		c.logger.Error("add guest failed", zap.Error(err))
		c.mu.Lock()
		c.submitting--
		c.notice = c.errorNotice(apperrors.CodeStoreUnavailable, i18n.KeyAddFailed)
		c.mu.Unlock()
		return nil, apperrors.NewStoreUnavailable("add", err)
	}

	c.publish(ctx, events.New(events.EventGuestCreated, guest.ID, events.GuestCreatedPayload{
		FullName:  guest.FullName,
		Confirmed: guest.Confirmed,
	}))

	// A failed reload leaves its own notice; the insert itself succeeded.
	_, _ = c.Load(ctx)

	c.mu.Lock()
	c.submitting--
	c.form = GuestForm{}
	c.mu.Unlock()
	return &guest, nil
}

// BeginEdit copies the guest's current fields into the edit scratch row.
func (c *GuestListController) BeginEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = nil

	for _, g := range c.guests {
		if g.ID == id {
			c.editingID = id
			c.edit = GuestForm{FullName: g.FullName, Confirmed: g.Confirmed}
			return nil
		}
	}
	c.notice = c.errorNotice(apperrors.CodeNotFound, i18n.KeyGuestNotFound)
	return apperrors.NewNotFound("guest", map[string]any{"id": id})
}

// CancelEdit discards the scratch row and leaves edit mode.
func (c *GuestListController) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = nil
	c.editingID = ""
	c.edit = GuestForm{}
}

// SaveEdit writes the scratch values for id and reloads. On failure the
// controller stays in edit mode with the submitted values.
func (c *GuestListController) SaveEdit(ctx context.Context, id, fullName string, confirmed bool) error {
	c.mu.Lock()
	c.notice = nil
	c.editingID = id
	c.edit = GuestForm{FullName: fullName, Confirmed: confirmed}
	if domain.IsBlankName(fullName) {
		c.notice = c.validationNotice(i18n.KeyNameRequired)
		c.mu.Unlock()
		return apperrors.NewValidationError("full_name is required", map[string]any{"field": "full_name"})
	}
	c.submitting++
	c.mu.Unlock()

	patch := domain.GuestPatch{FullName: &fullName, Confirmed: &confirmed}
	if err := c.store.Update(ctx, id, patch); err != nil {
		c.logger.Error("save guest failed", zap.String("guest_id", id), zap.Error(err))
		c.mu.Lock()
		defer c.mu.Unlock()
		c.submitting--
		if errors.Is(err, repository.ErrNotFound) {
			// Nothing left to edit under this id.
			if c.editingID == id {
				c.editingID = ""
				c.edit = GuestForm{}
			}
			c.notice = c.errorNotice(apperrors.CodeNotFound, i18n.KeyGuestNotFound)
			return apperrors.NewNotFound("guest", map[string]any{"id": id})
		}
		c.notice = c.errorNotice(apperrors.CodeStoreUnavailable, i18n.KeySaveFailed)
		return apperrors.NewStoreUnavailable("save", err)
	}

	c.publish(ctx, events.New(events.EventGuestUpdated, id, events.GuestUpdatedPayload{
		FullName:  patch.FullName,
		Confirmed: patch.Confirmed,
	}))

	_, _ = c.Load(ctx)

	c.mu.Lock()
	c.submitting--
	// A newer BeginEdit on another guest keeps its own scratch row.
	if c.editingID == id {
		c.editingID = ""
		c.edit = GuestForm{}
	}
	c.mu.Unlock()
	return nil
}

// State returns a deep copy of the current view state.
func (c *GuestListController) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := ViewState{
		Guests:     copyGuests(c.guests),
		Form:       c.form,
		Edit:       c.edit,
		Loading:    c.loading > 0,
		Submitting: c.submitting > 0,
	}
	if c.editingID != "" {
		id := c.editingID
		state.EditingID = &id
	}
	if c.notice != nil {
		n := *c.notice
		state.Notice = &n
	}
	return state
}

// Export renders the in-memory collection as CSV without touching the store.
func (c *GuestListController) Export() string {
	c.mu.Lock()
	guests := copyGuests(c.guests)
	c.mu.Unlock()
	return c.exporter.Export(guests)
}

func (c *GuestListController) publish(ctx context.Context, event events.Event) {
	if c.dispatcher == nil {
		return
	}
	if err := c.dispatcher.Publish(ctx, event); err != nil {
		c.logger.Warn("guest event delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("guest_id", event.GuestID),
			zap.Error(err))
	}
}

func (c *GuestListController) errorNotice(code, key string) *Notice {
	return &Notice{Kind: NoticeError, Code: code, Message: c.printer.Sprintf(key)}
}

func (c *GuestListController) validationNotice(key string) *Notice {
	return &Notice{Kind: NoticeValidation, Code: apperrors.CodeValidationFailed, Message: c.printer.Sprintf(key)}
}

func copyGuests(in []domain.Guest) []domain.Guest {
	out := make([]domain.Guest, len(in))
	for i, g := range in {
		if g.UpdatedAt != nil {
			t := *g.UpdatedAt
			g.UpdatedAt = &t
		}
		out[i] = g
	}
	return out
}
