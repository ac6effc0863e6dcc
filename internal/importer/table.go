package importer

import "strings"

// Table is a parsed import file: a lower-cased header and the data rows.
type Table struct {
	Header []string
	Rows   []Row
}

// Row is one data line as tokenized from the source.
type Row struct {
	Line   int // 1-based position in the source file
	Fields []string
}

// RawRow maps lower-cased header names to the row's values.
type RawRow struct {
	Line   int
	Values map[string]string
}

// Empty reports whether there is nothing to import: no header or no rows.
func (t *Table) Empty() bool {
	if t == nil || len(t.Rows) == 0 {
		return true
	}
	for _, h := range t.Header {
		if h != "" {
			return false
		}
	}
	return true
}

// Raw zips a row against the header. Tokens past the header are ignored and
// missing trailing tokens map to "". The first column with a given name wins.
func (t *Table) Raw(row Row) RawRow {
	values := make(map[string]string, len(t.Header))
	for i, h := range t.Header {
		if h == "" {
			continue
		}
		if _, dup := values[h]; dup {
			continue
		}
		v := ""
		if i < len(row.Fields) {
			v = row.Fields[i]
		}
		values[h] = v
	}
	return RawRow{Line: row.Line, Values: values}
}

func normalizeHeader(fields []string) []string {
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = strings.ToLower(strings.TrimSpace(f))
	}
	return header
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
