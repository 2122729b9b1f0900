// Package i18n registers the labels used by the guest page and CSV export
// with golang.org/x/text/message. Message keys are the English labels.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys.
const (
	KeyTitle         = "Guest Management"
	KeyFullName      = "Full Name"
	KeyConfirmed     = "Confirmed"
	KeyYes           = "Yes"
	KeyNo            = "No"
	KeyAddGuest      = "Add Guest"
	KeyExportCSV     = "Export to CSV"
	KeyLoading       = "Loading..."
	KeyEdit          = "Edit"
	KeySave          = "Save"
	KeyCancel        = "Cancel"
	KeyReload        = "Reload"
	KeyActions       = "Actions"
	KeyPassword      = "Password"
	KeyLogin         = "Sign in"
	KeyNoGuests      = "No guests yet."
	KeyLoadFailed    = "Failed to load guests!"
	KeyAddFailed     = "Failed to add guest!"
	KeySaveFailed    = "Failed to save guest!"
	KeyNameRequired  = "Full name is required."
	KeyGuestNotFound = "Guest not found."
	KeyLoginRequired = "Sign in to change the guest list."
	KeyInvalidLogin  = "Invalid password."
)

var (
	// Default is the locale the guest page ships with.
	Default = language.BrazilianPortuguese

	supported = []language.Tag{language.BrazilianPortuguese, language.English}
	matcher   = language.NewMatcher(supported)
)

var portuguese = map[string]string{
	KeyTitle:         "Gestão de Convidados",
	KeyFullName:      "Nome Completo",
	KeyConfirmed:     "Confirmado",
	KeyYes:           "Sim",
	KeyNo:            "Não",
	KeyAddGuest:      "Adicionar Convidado",
	KeyExportCSV:     "Exportar para CSV",
	KeyLoading:       "Carregando...",
	KeyEdit:          "Editar",
	KeySave:          "Salvar",
	KeyCancel:        "Cancelar",
	KeyReload:        "Recarregar",
	KeyActions:       "Ações",
	KeyPassword:      "Senha",
	KeyLogin:         "Entrar",
	KeyNoGuests:      "Nenhum convidado ainda.",
	KeyLoadFailed:    "Erro ao carregar convidados!",
	KeyAddFailed:     "Erro ao adicionar convidado!",
	KeySaveFailed:    "Erro ao salvar convidado!",
	KeyNameRequired:  "O nome completo é obrigatório.",
	KeyGuestNotFound: "Convidado não encontrado.",
	KeyLoginRequired: "Entre para alterar a lista de convidados.",
	KeyInvalidLogin:  "Senha inválida.",
}

func init() {
	for key, msg := range portuguese {
		if err := message.SetString(language.BrazilianPortuguese, key, msg); err != nil {
			panic(fmt.Sprintf("register %q: %v", key, err))
		}
		if err := message.SetString(language.Portuguese, key, msg); err != nil {
			panic(fmt.Sprintf("register %q: %v", key, err))
		}
	}
}

// Supported returns the locales with registered catalogs.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// ParseTag resolves a locale string to the closest supported tag.
func ParseTag(value string) (language.Tag, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Default, nil
	}
	tag, err := language.Parse(value)
	if err != nil {
		return Default, fmt.Errorf("parse locale %q: %w", value, err)
	}
	_, idx, _ := matcher.Match(tag)
	return supported[idx], nil
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}
