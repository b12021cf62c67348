package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateExcel creates an Excel workbook for one quote version and returns
// the file contents.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are capped at 31 chars.
	sheetName := data.Title
	if r := []rune(sheetName); len(r) > 31 {
		sheetName = string(r[:31])
	}
	if sheetName == "" {
		sheetName = "Presupuesto"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F"}
	lastCol := columns[len(columns)-1]
	widths := []float64{6, 48, 16, 10, 16, 16}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	lineStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create line style: %w", err)
	}
	detailStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 9, Color: "#555555"},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create detail style: %w", err)
	}
	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}
	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// Rows 1-4: title, version and date, client.
	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	meta := []string{
		fmt.Sprintf("Versión %d · %s · %s", data.Version, data.Date, data.Status),
		"Cliente: " + data.ClientName,
	}
	if data.ClientTaxID != "" {
		meta[1] += " (" + data.ClientTaxID + ")"
	}
	if data.ClientAddr != "" {
		meta = append(meta, data.ClientAddr)
	}
	row := 2
	for _, m := range meta {
		cell := fmt.Sprintf("A%d", row)
		if err := f.MergeCell(sheetName, cell, fmt.Sprintf("%s%d", lastCol, row)); err != nil {
			return nil, fmt.Errorf("merge header row %d: %w", row, err)
		}
		f.SetCellValue(sheetName, cell, sanitizeExcelCell(m))
		f.SetCellStyle(sheetName, cell, fmt.Sprintf("%s%d", lastCol, row), subtitleStyle)
		row++
	}
	row++

	headers := []string{"#", "Descripción", "Referencia", "Cantidad", "Precio", "Importe"}
	headerRow := row
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s%d", columns[i], headerRow), h)
	}
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), headerStyle)
	row++

	writeRow := func(r ExportRow) {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+rowStr, r.Index)
		if r.Level == 0 {
			f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.Description))
			f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(r.Reference))
			f.SetCellValue(sheetName, "D"+rowStr, r.Qty)
			f.SetCellValue(sheetName, "E"+rowStr, FormatEUR(r.UnitPrice))
			f.SetCellValue(sheetName, "F"+rowStr, FormatEUR(r.Amount))
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, lineStyle)
		} else {
			f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell("  "+r.Description))
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, detailStyle)
		}
		row++
	}
	for _, r := range data.Rows {
		writeRow(r)
	}

	if len(data.Options) > 0 {
		row++
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), "Opciones")
		f.SetCellStyle(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), summaryValueStyle)
		row++
		for _, r := range data.Options {
			writeRow(r)
		}
	}

	row++
	summary := []struct {
		label string
		value float64
	}{
		{"Subtotal líneas:", data.LinesTotal},
		{"Opciones:", data.OptionsTotal},
		{"Total:", data.Total},
	}
	for _, s := range summary {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "E"+rowStr, s.label)
		f.SetCellStyle(sheetName, "E"+rowStr, "E"+rowStr, summaryLabelStyle)
		f.SetCellValue(sheetName, "F"+rowStr, FormatEUR(s.value))
		f.SetCellStyle(sheetName, "F"+rowStr, "F"+rowStr, summaryValueStyle)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prefixes values Excel would read as formulas with a
// single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
