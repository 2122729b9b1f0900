package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/guest-list/internal/api/dto"
	"github.com/spec-kit/guest-list/internal/export"
	"github.com/spec-kit/guest-list/internal/service"
	apperrors "github.com/spec-kit/guest-list/pkg/util/errorutil"
)

// GuestsHandler turns HTTP requests into guest list intents.
type GuestsHandler struct {
	controller *service.GuestListController
	logger     *zap.Logger
}

// NewGuestsHandler constructs handler.
func NewGuestsHandler(controller *service.GuestListController, logger *zap.Logger) *GuestsHandler {
	return &GuestsHandler{controller: controller, logger: logger}
}

// State GET /api/state.
func (h *GuestsHandler) State(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewViewStateResponse(h.controller.State())})
}

// List GET /api/guests.
func (h *GuestsHandler) List(c *fiber.Ctx) error {
	guests, err := h.controller.Load(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGuestList(guests)})
}

// Create POST /api/guests.
func (h *GuestsHandler) Create(c *fiber.Ctx) error {
	var req dto.GuestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	guest, err := h.controller.Add(c.UserContext(), req.FullName, req.Confirmed)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewGuestResponse(*guest)})
}

// Update PUT /api/guests/:id.
func (h *GuestsHandler) Update(c *fiber.Ctx) error {
	var req dto.GuestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	id := c.Params("id")
	if err := h.controller.SaveEdit(c.UserContext(), id, req.FullName, req.Confirmed); err != nil {
		return err
	}
	for _, g := range h.controller.State().Guests {
		if g.ID == id {
			return c.JSON(fiber.Map{"data": dto.NewGuestResponse(g)})
		}
	}
	// Saved, but the reload did not bring the guest back.
	return c.SendStatus(fiber.StatusNoContent)
}

// Export GET /guests/export.
func (h *GuestsHandler) Export(c *fiber.Ctx) error {
	c.Attachment(export.FileName)
	c.Set(fiber.HeaderContentType, export.ContentType)
	return c.SendString(h.controller.Export())
}

// SubmitForm POST /guests.
func (h *GuestsHandler) SubmitForm(c *fiber.Ctx) error {
	var req dto.GuestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	_, err := h.controller.Add(c.UserContext(), req.FullName, req.Confirmed)
	return h.backToPage(c, "add", err)
}

// ReloadForm POST /guests/reload.
func (h *GuestsHandler) ReloadForm(c *fiber.Ctx) error {
	_, err := h.controller.Load(c.UserContext())
	return h.backToPage(c, "reload", err)
}

// BeginEditForm POST /guests/:id/edit.
func (h *GuestsHandler) BeginEditForm(c *fiber.Ctx) error {
	return h.backToPage(c, "begin_edit", h.controller.BeginEdit(c.Params("id")))
}

// CancelEditForm POST /guests/edit/cancel.
func (h *GuestsHandler) CancelEditForm(c *fiber.Ctx) error {
	h.controller.CancelEdit()
	return h.backToPage(c, "cancel_edit", nil)
}

// SaveEditForm POST /guests/:id.
func (h *GuestsHandler) SaveEditForm(c *fiber.Ctx) error {
	var req dto.GuestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	err := h.controller.SaveEdit(c.UserContext(), c.Params("id"), req.FullName, req.Confirmed)
	return h.backToPage(c, "save_edit", err)
}

// backToPage redirects to the page. Intent failures are already recorded as a
// notice in the view state, so they never become an error page.
func (h *GuestsHandler) backToPage(c *fiber.Ctx, intent string, err error) error {
	if err != nil {
		h.logger.Info("intent rejected",
			zap.String("intent", intent),
			zap.String("code", apperrors.ToDomainError(err).Code))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}
