// Package runlog keeps logs/import-log.csv, one row per import run.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one import run.
type Entry struct {
	Timestamp              time.Time
	RunID                  string
	File                   string
	Saved                  int
	SkippedInvalid         int
	SkippedDuplicateLocal  int
	SkippedDuplicateServer int
	FailedGroups           int
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,run_id,file,saved,skipped_invalid,skipped_duplicate_local,skipped_duplicate_server,failed_groups"

const (
	numFields          = 8
	logDir             = "logs"
	logFile            = "logs/import-log.csv"
	colTimestamp       = 0
	colRunID           = 1
	colFile            = 2
	colSaved           = 3
	colInvalid         = 4
	colDuplicateLocal  = 5
	colDuplicateServer = 6
	colFailedGroups    = 7
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colFile] = e.File
	row[colSaved] = strconv.Itoa(e.Saved)
	row[colInvalid] = strconv.Itoa(e.SkippedInvalid)
	row[colDuplicateLocal] = strconv.Itoa(e.SkippedDuplicateLocal)
	row[colDuplicateServer] = strconv.Itoa(e.SkippedDuplicateServer)
	row[colFailedGroups] = strconv.Itoa(e.FailedGroups)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	counts := make([]int, 0, numFields-colSaved)
	for col := colSaved; col < numFields; col++ {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing column %d %q: %w", col, record[col], err)
		}
		counts = append(counts, n)
	}

	return Entry{
		Timestamp:              ts,
		RunID:                  record[colRunID],
		File:                   record[colFile],
		Saved:                  counts[0],
		SkippedInvalid:         counts[1],
		SkippedDuplicateLocal:  counts[2],
		SkippedDuplicateServer: counts[3],
		FailedGroups:           counts[4],
	}, nil
}

// Append writes entries to <repoRoot>/logs/import-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries ...Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/import-log.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
