package exports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/fdg312/meal-planner/internal/mealplans"
	"github.com/jung-kurt/gofpdf"
)

// Render encodes a stored plan as pdf or csv.
func Render(plan *mealplans.StoredPlan, format string) ([]byte, error) {
	switch format {
	case FormatPDF:
		return renderPDF(plan)
	case FormatCSV:
		return renderCSV(plan)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func renderCSV(plan *mealplans.StoredPlan) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"day", "breakfast", "lunch", "dinner", "snack"}); err != nil {
		return nil, err
	}
	for _, d := range plan.Days {
		row := []string{strconv.Itoa(d.Day), d.Breakfast, d.Lunch, d.Dinner, d.Snack}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderPDF uses the core Arial font, so text is transcoded to cp1252.
func renderPDF(plan *mealplans.StoredPlan) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	const fontName = "Arial"

	pdf.SetTitle("Meal plan "+plan.ID.String(), true)
	pdf.AddPage()

	pdf.SetFont(fontName, "B", 16)
	pdf.Cell(0, 10, "7-Day Meal Plan")
	pdf.Ln(10)

	pdf.SetFont(fontName, "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Created: %s   Model: %s", plan.CreatedAt.UTC().Format("2006-01-02 15:04 MST"), plan.Model))
	pdf.Ln(10)

	widths := []float64{20, 62, 62, 62, 62}
	pdf.SetFont(fontName, "B", 10)
	pdf.SetFillColor(230, 240, 230)
	for i, h := range []string{"Day", "Breakfast", "Lunch", "Dinner", "Snack"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontName, "", 9)
	for _, d := range plan.Days {
		cells := []string{strconv.Itoa(d.Day), d.Breakfast, d.Lunch, d.Dinner, d.Snack}
		for i, c := range cells {
			align := "L"
			if i == 0 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 7, tr(c), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
