package importer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVParser reads comma-separated files line by line with SplitLine.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Extensions returns the file extensions handled by the parser.
func (p *CSVParser) Extensions() []string { return []string{".csv"} }

// Parse reads the whole input, drops a leading byte-order mark and blank
// lines, and tokenizes the header and every data line the same way.
func (p *CSVParser) Parse(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	table := &Table{}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := SplitLine(line)
		if table.Header == nil {
			table.Header = normalizeHeader(fields)
			continue
		}
		table.Rows = append(table.Rows, Row{Line: i + 1, Fields: fields})
	}
	return table, nil
}
