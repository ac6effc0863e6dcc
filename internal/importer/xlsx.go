package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXParser reads the first worksheet of an Excel workbook. The first
// non-blank row is the header.
type XLSXParser struct{}

// Format returns the parser name.
func (p *XLSXParser) Format() string { return "xlsx" }

// Extensions returns the file extensions handled by the parser.
func (p *XLSXParser) Extensions() []string { return []string{".xlsx"} }

// Parse reads the first sheet into a Table.
func (p *XLSXParser) Parse(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}

	table := &Table{}
	for i, fields := range rows {
		if isBlank(fields) {
			continue
		}
		if table.Header == nil {
			table.Header = normalizeHeader(fields)
			continue
		}
		table.Rows = append(table.Rows, Row{Line: i + 1, Fields: fields})
	}
	return table, nil
}
