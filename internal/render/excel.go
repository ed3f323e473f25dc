// Package render turns a finished master record into downloadable
// spreadsheet and document bytes.
package render

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nexusedu/studygen/internal/notes"
)

const (
	guideSheet   = "Study Guide"
	summarySheet = "Summary"

	headerFill  = "1F4E78"
	maxColWidth = 60.0
)

var guideHeaders = []string{"Topic", "Subtopic", "Explanation", "Key Concepts"}

// Excel renders the record as a styled XLSX workbook: one grid sheet with a
// row per subtopic, plus a summary sheet with document metadata. Topics
// without subtopics still get one row so nothing silently disappears.
func Excel(rec notes.MasterRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", guideSheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    boxBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    boxBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("cell style: %w", err)
	}

	widths := make([]float64, len(guideHeaders))
	setCell := func(col, row int, v string, style int) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(guideSheet, cell, v); err != nil {
			return err
		}
		if w := float64(len(v)) + 2; w > widths[col-1] {
			widths[col-1] = w
		}
		return f.SetCellStyle(guideSheet, cell, cell, style)
	}

	for i, h := range guideHeaders {
		if err := setCell(i+1, 1, h, headerStyle); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	writeRow := func(topic, sub, expl, concepts string) error {
		values := []string{topic, sub, expl, concepts}
		for col, v := range values {
			if err := setCell(col+1, row, v, cellStyle); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	for _, topic := range rec.Topics {
		if len(topic.Subtopics) == 0 {
			if err := writeRow(topic.Title, "", "", ""); err != nil {
				return nil, fmt.Errorf("write topic row: %w", err)
			}
			continue
		}
		for _, sub := range topic.Subtopics {
			concepts := strings.Join(sub.KeyConcepts, ", ")
			if err := writeRow(topic.Title, sub.Title, sub.Explanation, concepts); err != nil {
				return nil, fmt.Errorf("write subtopic row: %w", err)
			}
		}
	}

	for i, w := range widths {
		if w > maxColWidth {
			w = maxColWidth
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(guideSheet, col, col, w); err != nil {
			return nil, fmt.Errorf("set col width: %w", err)
		}
	}

	if err := writeSummarySheet(f, rec, headerStyle, cellStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, rec notes.MasterRecord, headerStyle, cellStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}

	subtopics := 0
	for _, t := range rec.Topics {
		subtopics += len(t.Subtopics)
	}

	rows := [][2]string{
		{"Document Title", rec.DocumentTitle},
		{"Subject", rec.Subject},
		{"Topics", fmt.Sprintf("%d", len(rec.Topics))},
		{"Subtopics", fmt.Sprintf("%d", subtopics)},
	}
	for i, r := range rows {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(summarySheet, keyCell, r[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, valCell, r[1]); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, keyCell, keyCell, headerStyle); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, valCell, valCell, cellStyle); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 18); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "B", "B", 50)
}

func boxBorder() []excelize.Border {
	border := make([]excelize.Border, 0, 4)
	for _, side := range []string{"left", "right", "top", "bottom"} {
		border = append(border, excelize.Border{Type: side, Color: "000000", Style: 1})
	}
	return border
}
