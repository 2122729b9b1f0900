// Package export renders guest collections as CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spec-kit/guest-list/internal/domain"
	"github.com/spec-kit/guest-list/internal/i18n"
)

const (
	FileName    = "lista_convidados.csv"
	ContentType = "text/csv;charset=utf-8"
)

// CSVExporter turns a guest collection into CSV text.
//
// In literal mode (the default) fields are joined with commas without any
// quoting, so a name containing a comma or quote produces a malformed row.
// Strict mode quotes fields as RFC 4180 requires. Both modes share the same
// framing: the header line always ends with "\n" and rows are joined by "\n"
// with no trailing newline.
type CSVExporter struct {
	printer *message.Printer
	strict  bool
}

// NewCSVExporter builds an exporter for the given locale.
func NewCSVExporter(tag language.Tag, strict bool) *CSVExporter {
	return &CSVExporter{printer: i18n.Printer(tag), strict: strict}
}

// Export renders guests in input order.
func (e *CSVExporter) Export(guests []domain.Guest) string {
	header := []string{e.printer.Sprintf(i18n.KeyFullName), e.printer.Sprintf(i18n.KeyConfirmed)}
	rows := make([][]string, 0, len(guests))
	for _, g := range guests {
		rows = append(rows, []string{g.FullName, e.yesNo(g.Confirmed)})
	}
	if e.strict {
		return e.strictCSV(header, rows)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, ","))
	}
	return strings.Join(header, ",") + "\n" + strings.Join(lines, "\n")
}

func (e *CSVExporter) strictCSV(header []string, rows [][]string) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	// bytes.Buffer writes cannot fail.
	_ = w.Write(header)
	_ = w.WriteAll(rows)
	out := buf.String()
	if len(rows) > 0 {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}

func (e *CSVExporter) yesNo(v bool) string {
	if v {
		return e.printer.Sprintf(i18n.KeyYes)
	}
	return e.printer.Sprintf(i18n.KeyNo)
}
