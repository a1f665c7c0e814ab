// Package export renders boards for printing.
package export

import (
	"fmt"
	"io"
	"time"

	"infinite-experiment/flightboard/internal/models/dtos"

	"github.com/jung-kurt/gofpdf"
)

// https://godoc.org/github.com/jung-kurt/gofpdf

type column struct {
	title string
	width float64
	value func(dtos.BoardRow) string
}

// statusRGB mirrors the board's status colours.
var statusRGB = map[string][3]int{
	"blue":   {0x1e, 0x5a, 0xc8},
	"orange": {0xe6, 0x7e, 0x22},
	"red":    {0xc0, 0x39, 0x2b},
	"green":  {0x27, 0xae, 0x60},
	"purple": {0x8e, 0x44, 0xad},
	"gray":   {0x7f, 0x8c, 0x8d},
}

func columns(b *dtos.Board) []column {
	return []column{
		{"Flight", 28, func(r dtos.BoardRow) string { return r.FlightNumber }},
		{"Airline", 55, func(r dtos.BoardRow) string { return r.Airline }},
		{b.ColumnTitle, 70, func(r dtos.BoardRow) string { return r.Airport }},
		{"Time", 20, func(r dtos.BoardRow) string { return r.Time }},
		{"Gate", 20, func(r dtos.BoardRow) string { return r.Gate }},
		{"Status", 35, func(r dtos.BoardRow) string { return r.StatusCategory }},
		{"Aircraft", 29, func(r dtos.BoardRow) string { return r.AircraftType }},
	}
}

// RenderBoardPDF writes b as a landscape A4 table headed by title.
func RenderBoardPDF(w io.Writer, title string, b *dtos.Board, generatedAt time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0x55, 0x55, 0x55)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s  |  snapshot %d  |  source %s",
		generatedAt.Format("2006-01-02 15:04 MST"), b.Generation, b.Source), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	cols := columns(b)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(0x22, 0x2b, 0x38)
	pdf.SetTextColor(0xff, 0xff, 0xff)
	for _, c := range cols {
		pdf.CellFormat(c.width, 8, tr(c.title), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(b.Rows) == 0 {
		pdf.SetTextColor(0x55, 0x55, 0x55)
		pdf.CellFormat(0, 8, "No flights", "1", 1, "C", false, 0, "")
	}
	for i, row := range b.Rows {
		fill := i%2 == 1
		pdf.SetFillColor(0xf2, 0xf4, 0xf7)
		for _, c := range cols {
			pdf.SetTextColor(0x00, 0x00, 0x00)
			if c.title == "Status" {
				if rgb, ok := statusRGB[row.StatusColor]; ok {
					pdf.SetTextColor(rgb[0], rgb[1], rgb[2])
				}
			}
			pdf.CellFormat(c.width, 7, tr(c.value(row)), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render board pdf: %w", err)
	}
	return nil
}
