// Package report renders the current working set into exportable audit
// artifacts (XLSX and PDF).
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/pswandaru/auditguard/internal/audit"
	"github.com/pswandaru/auditguard/internal/store"
)

// BuildXLSX renders the working set into a two-sheet workbook: a summary of
// the derived dashboard views plus the full transaction table including
// assessment columns.
func BuildXLSX(sum store.Summary, txs []audit.Transaction, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	txSheet := "transactions"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(txSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Audit Transaction Report")
	_ = f.SetCellValue(summarySheet, "A2", "Generated")
	_ = f.SetCellValue(summarySheet, "B2", generatedAt.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A4", "Pending")
	_ = f.SetCellValue(summarySheet, "B4", sum.Pending)
	_ = f.SetCellValue(summarySheet, "A5", "Approved")
	_ = f.SetCellValue(summarySheet, "B5", sum.Approved)
	_ = f.SetCellValue(summarySheet, "A6", "Rejected")
	_ = f.SetCellValue(summarySheet, "B6", sum.Rejected)
	_ = f.SetCellValue(summarySheet, "A7", "High Risk Flagged")
	_ = f.SetCellValue(summarySheet, "B7", sum.HighRisk)
	_ = f.SetCellValue(summarySheet, "A8", "Total Volume (IDR)")
	_ = f.SetCellValue(summarySheet, "B8", sum.TotalAmount)

	_ = f.SetCellValue(summarySheet, "A10", "Category")
	_ = f.SetCellValue(summarySheet, "B10", "Count")
	_ = f.SetCellValue(summarySheet, "C10", "Amount (IDR)")
	for i, bd := range sum.Categories {
		row := i + 11
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), bd.Category)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), bd.Count)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), bd.Amount)
	}

	headers := []string{"ID", "ERP Reference", "Title", "Date", "Category",
		"Amount (IDR)", "Status", "Risk Score", "Risk Level", "Anomaly", "Summary"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetCellValue(txSheet, col+"1", h)
	}
	for i, t := range txs {
		row := i + 2
		_ = f.SetCellValue(txSheet, fmt.Sprintf("A%d", row), t.ID)
		_ = f.SetCellValue(txSheet, fmt.Sprintf("B%d", row), t.ExternalRef)
		_ = f.SetCellValue(txSheet, fmt.Sprintf("C%d", row), t.Title)
		_ = f.SetCellValue(txSheet, fmt.Sprintf("D%d", row), t.Date.String())
		_ = f.SetCellValue(txSheet, fmt.Sprintf("E%d", row), t.Category)
		_ = f.SetCellValue(txSheet, fmt.Sprintf("F%d", row), t.Amount)
		_ = f.SetCellValue(txSheet, fmt.Sprintf("G%d", row), string(t.Status))
		if t.Assessment != nil {
			_ = f.SetCellValue(txSheet, fmt.Sprintf("H%d", row), t.Assessment.Score)
			_ = f.SetCellValue(txSheet, fmt.Sprintf("I%d", row), string(t.Assessment.Level))
			_ = f.SetCellValue(txSheet, fmt.Sprintf("J%d", row), t.Assessment.AnomalyFlag)
			_ = f.SetCellValue(txSheet, fmt.Sprintf("K%d", row), t.Assessment.Summary)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildPDF renders a minimal PDF report: summary header and transaction
// table.
func BuildPDF(sum store.Summary, txs []audit.Transaction, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Audit Transaction Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Pending: %d   Approved: %d   Rejected: %d   High Risk: %d",
		sum.Pending, sum.Approved, sum.Rejected, sum.HighRisk))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Volume: IDR %d", sum.TotalAmount))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(22, 6, "ID", "1", 0, "C", false, 0, "")
	pdf.CellFormat(70, 6, "Title", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(38, 6, "Category", "1", 0, "C", false, 0, "")
	pdf.CellFormat(34, 6, "Amount (IDR)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 6, "Status", "1", 0, "C", false, 0, "")
	pdf.CellFormat(16, 6, "Score", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Level", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, t := range txs {
		score, level := "-", "-"
		if t.Assessment != nil {
			score = fmt.Sprintf("%.0f", t.Assessment.Score)
			level = string(t.Assessment.Level)
		}
		pdf.CellFormat(22, 6, t.ID, "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 6, t.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(24, 6, t.Date.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(38, 6, t.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(34, 6, fmt.Sprintf("%d", t.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(24, 6, string(t.Status), "1", 0, "C", false, 0, "")
		pdf.CellFormat(16, 6, score, "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, level, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
