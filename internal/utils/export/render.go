package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Format is an export document type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts csv, xlsx and pdf (case-insensitive).
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q (expected csv, xlsx or pdf)", raw)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Render encodes table in format f.
func Render(table Table, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return BuildCSV(table)
	case FormatXLSX:
		return BuildXLSX(table)
	case FormatPDF:
		return BuildPDF(table)
	}
	return nil, fmt.Errorf("unsupported export format %q", f)
}

// BuildCSV renders table as CSV with a header row.
func BuildCSV(table Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(table.Columns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(table.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildXLSX renders table on a single sheet named after the view.
func BuildXLSX(table Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sheetName(table.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for col, name := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheet, cell, name)
	}
	for i, row := range table.Rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildPDF renders table as a landscape A4 grid.
func BuildPDF(table Table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "B", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, tr(table.Title))
	pdf.Ln(10)

	width := 0.0
	if n := len(table.Columns); n > 0 {
		pageW, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()
		width = (pageW - left - right) / float64(n)
	}

	pdf.SetFont("Arial", "B", 8)
	for _, name := range table.Columns {
		pdf.CellFormat(width, 6, tr(name), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 8)
	for _, row := range table.Rows {
		for _, value := range row {
			pdf.CellFormat(width, 6, tr(value), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sheetName trims title to the 31 characters excel allows.
func sheetName(title string) string {
	if title == "" {
		return "view"
	}
	if len(title) > 31 {
		return title[:31]
	}
	return title
}
