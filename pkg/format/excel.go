package format

import (
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/ajitpratap0/tabmerge/pkg/errors"
	"github.com/ajitpratap0/tabmerge/pkg/table"
)

// headerFillColor matches the styling the tool has always produced:
// white bold text on a solid blue fill.
const headerFillColor = "4472C4"

// readXLSX parses the first sheet of an OOXML workbook. The first row is
// the header; short rows are filled with Null.
func readXLSX(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "open workbook "+path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return table.New(), nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "read workbook "+path)
	}
	if len(rows) == 0 {
		return table.New(), nil
	}

	header := rows[0]
	t := table.New(header...)
	for _, cells := range rows[1:] {
		row := make(table.Row, len(header))
		for i, col := range header {
			if i < len(cells) {
				row[col] = table.Coerce(cells[i])
			}
		}
		t.Append(row)
	}
	return t, nil
}

// readXLS parses the first sheet of a legacy BIFF workbook
func readXLS(path string) (*table.Table, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "open workbook "+path)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return table.New(), nil
	}

	headerRow := sheet.Row(0)
	if headerRow == nil {
		return table.New(), nil
	}
	var header []string
	for c := headerRow.FirstCol(); c < headerRow.LastCol(); c++ {
		header = append(header, headerRow.Col(c))
	}

	t := table.New(header...)
	for i := 1; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		row := make(table.Row, len(header))
		for c := r.FirstCol(); c < r.LastCol(); c++ {
			if c >= 0 && c < len(header) {
				row[header[c]] = table.Coerce(r.Col(c))
			}
		}
		t.Append(row)
	}
	return t, nil
}

// writeExcel serializes a table to a single-sheet workbook named "Data".
// The header row is bolded on a solid fill and column widths are sized to
// the longest cell; both are presentation only.
func writeExcel(t *table.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Data"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "create sheet")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "create header style")
	}

	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "write header")
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "write header")
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "style header")
		}
		widths[i] = len(col)
	}

	for r, row := range t.Rows {
		for c, col := range t.Columns {
			v := row[col]
			if v.IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "write cell")
			}
			var cellErr error
			if num, ok := v.Float(); ok {
				cellErr = f.SetCellValue(sheet, cell, num)
			} else {
				cellErr = f.SetCellValue(sheet, cell, v.String())
			}
			if cellErr != nil {
				return errors.Wrap(cellErr, errors.ErrorTypeFile, "write cell")
			}
			if n := len(v.String()); n > widths[c] {
				widths[c] = n
			}
		}
	}

	for i := range t.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "size columns")
		}
		if err := f.SetColWidth(sheet, name, name, float64(widths[i]+2)); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "size columns")
		}
	}

	if err := f.SaveAs(path); err != nil {
		return wrapCreateErr(err, path)
	}
	return nil
}
