package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"vitals-cloud/internal/health/application"
	health "vitals-cloud/internal/health/domain"
)

// BuildRecordsXLSX renders a range query result as a workbook with a
// summary sheet and one row per record.
func BuildRecordsXLSX(title string, result application.RangeResult) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	recordsSheet := "records"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(recordsSheet)

	_ = f.SetCellValue(summarySheet, "A1", title)
	_ = f.SetCellValue(summarySheet, "A3", "Owner")
	_ = f.SetCellValue(summarySheet, "B3", result.OwnerID)
	_ = f.SetCellValue(summarySheet, "A4", "Kind")
	_ = f.SetCellValue(summarySheet, "B4", string(result.Kind))
	_ = f.SetCellValue(summarySheet, "A5", "Period")
	_ = f.SetCellValue(summarySheet, "B5", string(result.Period))
	_ = f.SetCellValue(summarySheet, "A6", "From")
	_ = f.SetCellValue(summarySheet, "B6", result.From.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A7", "To")
	_ = f.SetCellValue(summarySheet, "B7", result.To.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A8", "Records")
	_ = f.SetCellValue(summarySheet, "B8", len(result.Records))

	_ = f.SetCellValue(recordsSheet, "A1", "Timestamp")
	_ = f.SetCellValue(recordsSheet, "B1", "Value")
	_ = f.SetCellValue(recordsSheet, "C1", "Text")
	_ = f.SetCellValue(recordsSheet, "D1", "Discriminator")
	_ = f.SetCellValue(recordsSheet, "E1", "Unit")
	for i, record := range result.Records {
		row := i + 2
		_ = f.SetCellValue(recordsSheet, fmt.Sprintf("A%d", row), record.TS.Format(time.RFC3339))
		if record.Value != nil {
			_ = f.SetCellValue(recordsSheet, fmt.Sprintf("B%d", row), *record.Value)
		}
		if record.ValueText != nil {
			_ = f.SetCellValue(recordsSheet, fmt.Sprintf("C%d", row), *record.ValueText)
		}
		_ = f.SetCellValue(recordsSheet, fmt.Sprintf("D%d", row), record.Discriminator)
		_ = f.SetCellValue(recordsSheet, fmt.Sprintf("E%d", row), record.Unit)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildRecordsPDF renders a minimal PDF report for a range query
// result.
func BuildRecordsPDF(title string, result application.RangeResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, title)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Owner: %s", result.OwnerID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Kind: %s (%s)", result.Kind, health.UnitFor(result.Kind)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s", result.Period))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Window: %s to %s", result.From.Format("2006-01-02"), result.To.Format("2006-01-02")))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Timestamp", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Value", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Discriminator", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, record := range result.Records {
		value := ""
		if record.Value != nil {
			value = fmt.Sprintf("%.2f", *record.Value)
		} else if record.ValueText != nil {
			value = *record.ValueText
		}
		pdf.CellFormat(60, 6, record.TS.Format(time.RFC3339), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, value, "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, record.Discriminator, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
