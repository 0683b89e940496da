// Package report exports a market view as a PDF note, a plain-text note or an
// XLSX workbook.
package report

import (
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/i474232898/commodity-dashboard/internal/market"
)

// Format is an export format for a note.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "txt"
)

const (
	Ministry = "Ministère du Commerce - Secrétariat Général"
	Title    = "Note de Synthèse"
)

// Note is the content of an exported synthesis note.
type Note struct {
	Commentary string
	View       market.View
	Date       time.Time
}

// NewNote builds a note, falling back to the default commentary when the
// supplied one is blank.
func NewNote(view market.View, commentary string, date time.Time) Note {
	if strings.TrimSpace(commentary) == "" {
		commentary = market.DefaultCommentary(view.Product)
	}
	return Note{Commentary: commentary, View: view, Date: date}
}

// Filename returns the download name for a note in the given format.
func Filename(f Format) string {
	return "note_synthese." + string(f)
}

// ContentType returns the MIME type for a note in the given format.
func ContentType(f Format) string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}

// Write renders the note in format f.
func Write(w io.Writer, f Format, n Note) error {
	if f == FormatPDF {
		return WritePDF(w, n)
	}
	return WriteText(w, n)
}

// WriteText writes the commentary alone, as plain UTF-8 text.
func WriteText(w io.Writer, n Note) error {
	_, err := io.WriteString(w, n.Commentary)
	return err
}

var printer = message.NewPrinter(language.English)

// formatAmount renders v with thousands separators and no decimals.
func formatAmount(v float64) string {
	return printer.Sprintf("%.0f", v)
}

func formatOptional(v *float64, unit string) string {
	if v == nil {
		return "Aucune donnée"
	}
	return formatAmount(*v) + " " + unit
}
