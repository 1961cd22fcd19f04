package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/kangopak/ohisee-api/internal/domain/report"
)

// PDFGenerator renders shift reports with gofpdf.
type PDFGenerator struct {
	CompanyName string
}

func NewPDFGenerator(companyName string) *PDFGenerator {
	if companyName == "" {
		companyName = "Kangopak"
	}
	return &PDFGenerator{CompanyName: companyName}
}

// EndOfDayPDF renders the end-of-day sign-off report.
func (g *PDFGenerator) EndOfDayPDF(_ context.Context, data report.EndOfDayData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("End of Day Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, g.CompanyName+" - End of Day Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "BRCGS Packaging Materials - Shift Sign-off Record", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, value, "", "L", false)
	}

	row("Operator:", data.OperatorName)
	row("Date:", data.Date)
	row("Work orders completed:", fmt.Sprintf("%d", data.WorkOrderCount))
	pdf.Ln(2)

	section := func(title string, numbers []string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		if len(numbers) == 0 {
			pdf.CellFormat(0, 7, "None raised this shift.", "", 1, "L", false, 0, "")
		}
		for _, n := range numbers {
			pdf.CellFormat(0, 7, "- "+n, "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	section(fmt.Sprintf("Non-Conformance Advices (%d)", len(data.NCANumbers)), data.NCANumbers)
	section(fmt.Sprintf("Maintenance Job Cards (%d)", len(data.MJCNumbers)), data.MJCNumbers)

	if data.ShiftNotes != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Shift Notes", "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, data.ShiftNotes, "", "L", false)
		pdf.Ln(2)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Signed off electronically by "+data.OperatorName+" on "+data.Date+".", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering end-of-day pdf: %w", err)
	}
	return buf.Bytes(), nil
}
