package export

import (
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/spec-kit/guest-list/internal/domain"
)

func TestExportEmptyIsHeaderOnly(t *testing.T) {
	t.Parallel()

	got := NewCSVExporter(language.BrazilianPortuguese, false).Export(nil)
	if want := "Nome Completo,Confirmado\n"; got != want {
		t.Fatalf("Export(nil) = %q, want %q", got, want)
	}
}

func TestExportSingleGuest(t *testing.T) {
	t.Parallel()

	guests := []domain.Guest{{ID: "1", FullName: "Ana Silva", Confirmed: true}}
	got := NewCSVExporter(language.BrazilianPortuguese, false).Export(guests)
	if want := "Nome Completo,Confirmado\nAna Silva,Sim"; got != want {
		t.Fatalf("Export = %q, want %q", got, want)
	}
}

func TestExportKeepsInputOrderAndIsStable(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	guests := []domain.Guest{
		{ID: "3", FullName: "Carla Dias", CreatedAt: base},
		{ID: "1", FullName: "Ana Silva", Confirmed: true, CreatedAt: base.Add(time.Minute)},
		{ID: "2", FullName: "Bruno Lima", CreatedAt: base.Add(2 * time.Minute)},
	}
	exporter := NewCSVExporter(language.BrazilianPortuguese, false)
	first := exporter.Export(guests)
	want := "Nome Completo,Confirmado\nCarla Dias,Não\nAna Silva,Sim\nBruno Lima,Não"
	if first != want {
		t.Fatalf("Export = %q, want %q", first, want)
	}
	if second := exporter.Export(guests); second != first {
		t.Fatalf("second export = %q, want %q", second, first)
	}
}

func TestExportLiteralDoesNotEscape(t *testing.T) {
	t.Parallel()

	guests := []domain.Guest{{FullName: `Silva, Ana "Aninha"`}}
	got := NewCSVExporter(language.BrazilianPortuguese, false).Export(guests)
	if want := "Nome Completo,Confirmado\nSilva, Ana \"Aninha\",Não"; got != want {
		t.Fatalf("Export = %q, want %q", got, want)
	}
}

func TestExportStrictQuotes(t *testing.T) {
	t.Parallel()

	guests := []domain.Guest{
		{FullName: `Silva, Ana "Aninha"`, Confirmed: true},
		{FullName: "Bruno Lima"},
	}
	got := NewCSVExporter(language.BrazilianPortuguese, true).Export(guests)
	want := "Nome Completo,Confirmado\n\"Silva, Ana \"\"Aninha\"\"\",Sim\nBruno Lima,Não"
	if got != want {
		t.Fatalf("Export = %q, want %q", got, want)
	}

	if empty := NewCSVExporter(language.BrazilianPortuguese, true).Export(nil); empty != "Nome Completo,Confirmado\n" {
		t.Fatalf("strict Export(nil) = %q", empty)
	}
}

func TestExportEnglish(t *testing.T) {
	t.Parallel()

	guests := []domain.Guest{{FullName: "Ana Silva", Confirmed: true}, {FullName: "Bruno Lima"}}
	got := NewCSVExporter(language.English, false).Export(guests)
	if want := "Full Name,Confirmed\nAna Silva,Yes\nBruno Lima,No"; got != want {
		t.Fatalf("Export = %q, want %q", got, want)
	}
}
