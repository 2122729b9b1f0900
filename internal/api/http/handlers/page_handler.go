package handlers

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spec-kit/guest-list/internal/auth"
	"github.com/spec-kit/guest-list/internal/i18n"
	"github.com/spec-kit/guest-list/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

type pageData struct {
	Lang        string
	State       service.ViewState
	AuthEnabled bool
	CanEdit     bool
	LoginFailed bool
}

// PageHandler renders the guest management page.
type PageHandler struct {
	controller  *service.GuestListController
	tmpl        *template.Template
	lang        string
	authEnabled bool
}

// NewPageHandler parses the embedded page template for the given locale.
func NewPageHandler(controller *service.GuestListController, tag language.Tag, authEnabled bool) (*PageHandler, error) {
	printer := i18n.Printer(tag)
	tmpl, err := template.New("index.html").Funcs(pageFuncs(printer)).ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &PageHandler{
		controller:  controller,
		tmpl:        tmpl,
		lang:        tag.String(),
		authEnabled: authEnabled,
	}, nil
}

func pageFuncs(printer *message.Printer) template.FuncMap {
	return template.FuncMap{
		"t": func(key string) string { return printer.Sprintf(key) },
		"yesNo": func(v bool) string {
			if v {
				return printer.Sprintf(i18n.KeyYes)
			}
			return printer.Sprintf(i18n.KeyNo)
		},
		"isEditing": func(state service.ViewState, id string) bool {
			return state.EditingID != nil && *state.EditingID == id
		},
	}
}

// Index GET /.
func (h *PageHandler) Index(c *fiber.Ctx) error {
	_, loggedIn := auth.PrincipalFromContext(c)
	data := pageData{
		Lang:        h.lang,
		State:       h.controller.State(),
		AuthEnabled: h.authEnabled,
		CanEdit:     !h.authEnabled || loggedIn,
		LoginFailed: c.Query("login") == "failed",
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
