package importer

import "strings"

// SplitLine splits one CSV line into fields. Commas inside a double-quoted
// span do not delimit, enclosing quotes are dropped and "" inside a quoted
// span becomes a literal quote. Unbalanced quotes never fail: an unterminated
// span simply runs to the end of the line. Fields are not trimmed.
func SplitLine(line string) []string {
	if line == "" {
		return nil
	}

	var fields []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			cur.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}
