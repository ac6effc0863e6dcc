package pipeline

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/autoshop/internal/importer"
	"github.com/cleared-dev/autoshop/internal/model"
)

// GroupFailure is a customer group that was not saved.
type GroupFailure struct {
	Customer model.CustomerKey
	Records  int
	Err      error
}

// Summary is the outcome of one import run.
type Summary struct {
	RunID string
	File  string

	Total                  int // data rows read, blank lines excluded
	Saved                  int
	SkippedInvalid         int
	SkippedDuplicateLocal  int
	SkippedDuplicateServer int
	FailedGroups           int
	FailedRecords          int

	// Degraded is set when at least one server duplicate check failed and
	// was treated as "no known duplicates".
	Degraded       bool
	DegradedGroups int
	// CacheStale is set when the local signature cache could not be saved.
	CacheStale bool

	Rejections []*importer.RowError
	Failures   []GroupFailure
}

// SkippedDuplicates is the local plus server duplicate count.
func (s Summary) SkippedDuplicates() int {
	return s.SkippedDuplicateLocal + s.SkippedDuplicateServer
}

// NothingNew reports a run that read rows but had nothing left to save and
// no failures.
func (s Summary) NothingNew() bool {
	return s.Total > 0 && s.Saved == 0 && s.FailedGroups == 0
}

// Message is the one-paragraph result shown to the user.
func (s Summary) Message() string {
	var b strings.Builder
	if s.NothingNew() {
		b.WriteString("Nothing new to import")
	} else {
		fmt.Fprintf(&b, "Imported %d %s", s.Saved, plural(s.Saved, "transaction", "transactions"))
	}
	fmt.Fprintf(&b, " (%d invalid, %d already imported, %d already on server)",
		s.SkippedInvalid, s.SkippedDuplicateLocal, s.SkippedDuplicateServer)
	if s.FailedGroups > 0 {
		fmt.Fprintf(&b, "; %d %s in %d customer %s failed",
			s.FailedRecords, plural(s.FailedRecords, "record", "records"),
			s.FailedGroups, plural(s.FailedGroups, "group", "groups"))
	}
	b.WriteString(".")
	if s.Degraded {
		b.WriteString(" Server duplicate check was partial; some duplicates may have been imported.")
	}
	if s.CacheStale {
		b.WriteString(" Local import history could not be saved.")
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
