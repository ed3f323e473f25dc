package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nexusedu/studygen/internal/notes"
)

const watermarkText = "STUDYGEN"

// PDF renders the record as a printable study guide: a cover page with
// title, subject and generation date, then one section per topic with its
// subtopic explanations and key concepts. Content pages carry a diagonal
// watermark and a numbered footer.
func PDF(rec notes.MasterRecord, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(rec.DocumentTitle, true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	// Cover page, before the watermark header is installed.
	pdf.AddPage()
	pdf.SetY(90)
	pdf.SetFont("Helvetica", "B", 28)
	pdf.SetTextColor(31, 78, 120)
	pdf.MultiCell(0, 12, tr(rec.DocumentTitle), "", "C", false)
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 16)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 8, tr(rec.Subject), "", "C", false)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 11)
	pdf.MultiCell(0, 6, generatedAt.Format("2 January 2006"), "", "C", false)

	// Watermark on every content page, including pages created by
	// automatic page breaks.
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 54)
		pdf.SetTextColor(238, 238, 238)
		pdf.TransformBegin()
		pdf.TransformRotate(45, 105, 148)
		pdf.Text(45, 160, watermarkText)
		pdf.TransformEnd()
		pdf.SetY(15)
	})

	pdf.AddPage()
	for _, topic := range rec.Topics {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFillColor(31, 78, 120)
		pdf.MultiCell(0, 9, tr(topic.Title), "", "L", true)
		pdf.Ln(2)

		for _, sub := range topic.Subtopics {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetTextColor(31, 78, 120)
			pdf.MultiCell(0, 6, tr(sub.Title), "", "L", false)

			if sub.Explanation != "" {
				pdf.SetFont("Helvetica", "", 10)
				pdf.SetTextColor(40, 40, 40)
				pdf.MultiCell(0, 5.5, tr(sub.Explanation), "", "J", false)
			}

			if len(sub.KeyConcepts) > 0 {
				pdf.SetFont("Helvetica", "I", 9)
				pdf.SetTextColor(110, 110, 110)
				line := "Key concepts: "
				for i, c := range sub.KeyConcepts {
					if i > 0 {
						line += ", "
					}
					line += c
				}
				pdf.MultiCell(0, 5, tr(line), "", "L", false)
			}
			pdf.Ln(3)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf write: %w", err)
	}
	return buf.Bytes(), nil
}
