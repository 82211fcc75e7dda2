package importer

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSX reads company records from a spreadsheet. The first row is a
// header; recognized columns are name, code, contact_email (or email) and
// aliases (semicolon-separated). Rows with an empty name are skipped.
func ReadXLSX(path string, opts Options) ([]Record, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open xlsx")
	}

	sheet, err := getSheet(f, opts.SheetName)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	nameCol := opts.NameColumn
	if nameCol == "" {
		nameCol = "name"
	}

	cols := headerIndex(sheet.Rows[0])
	nameIdx, ok := cols[nameCol]
	if !ok {
		return nil, eris.Errorf("importer: column %q not found in header", nameCol)
	}

	var records []Record
	for _, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)

		name := strings.TrimSpace(cellAt(cells, nameIdx))
		if name == "" {
			continue
		}

		rec := Record{Name: name}
		if i, ok := cols["code"]; ok {
			rec.Code = strings.TrimSpace(cellAt(cells, i))
		}
		if i, ok := cols["contact_email"]; ok {
			rec.ContactEmail = strings.TrimSpace(cellAt(cells, i))
		} else if i, ok := cols["email"]; ok {
			rec.ContactEmail = strings.TrimSpace(cellAt(cells, i))
		}
		if i, ok := cols["aliases"]; ok {
			rec.Aliases = splitAliases(cellAt(cells, i))
		}
		records = append(records, rec)
	}

	return records, nil
}

func getSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("importer: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("importer: file has no sheets")
	}
	return f.Sheets[0], nil
}

func headerIndex(row *xlsx.Row) map[string]int {
	cols := make(map[string]int, len(row.Cells))
	for i, cell := range row.Cells {
		key := strings.ToLower(strings.TrimSpace(cell.String()))
		if key != "" {
			cols[key] = i
		}
	}
	return cols
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}
