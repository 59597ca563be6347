// Package history keeps a bounded, newest-first log of executed queries.
package history

import (
	"time"
)

// DefaultMaxEntries bounds a History created with New(0).
const DefaultMaxEntries = 100

// Entry represents a single query history entry
type Entry struct {
	Query          string
	ConnectionName string
	DatabaseName   string
	ExecutedAt     time.Time
	Duration       time.Duration
	RowCount       int
	Success        bool
	ErrorMessage   string
}

func Success(query, connection, database string, duration time.Duration, rows int) Entry {
	return Entry{
		Query:          query,
		ConnectionName: connection,
		DatabaseName:   database,
		ExecutedAt:     time.Now(),
		Duration:       duration,
		RowCount:       rows,
		Success:        true,
	}
}

func Error(query, connection, database, message string) Entry {
	return Entry{
		Query:          query,
		ConnectionName: connection,
		DatabaseName:   database,
		ExecutedAt:     time.Now(),
		ErrorMessage:   message,
	}
}

// sameTarget reports whether e and o ran the same query on the same database.
func (e Entry) sameTarget(o Entry) bool {
	return e.Query == o.Query && e.ConnectionName == o.ConnectionName && e.DatabaseName == o.DatabaseName
}

// History is not safe for concurrent use; it lives on the UI goroutine.
type History struct {
	entries    []Entry
	maxEntries int
}

func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Add records e as the newest entry. Re-running the newest query replaces
// it in place instead of adding a duplicate.
func (h *History) Add(e Entry) {
	if len(h.entries) > 0 && h.entries[0].sameTarget(e) {
		h.entries[0] = e
		return
	}

	h.entries = append(h.entries, Entry{})
	copy(h.entries[1:], h.entries)
	h.entries[0] = e

	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[:h.maxEntries]
	}
}

// Load replaces the contents with entries ordered newest first.
func (h *History) Load(entries []Entry) {
	if len(entries) > h.maxEntries {
		entries = entries[:h.maxEntries]
	}
	h.entries = append([]Entry(nil), entries...)
}

func (h *History) Clear() {
	h.entries = nil
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) IsEmpty() bool {
	return len(h.entries) == 0
}

func (h *History) MaxEntries() int {
	return h.maxEntries
}

// Get returns the entry at i, where 0 is the newest.
func (h *History) Get(i int) (Entry, bool) {
	if i < 0 || i >= len(h.entries) {
		return Entry{}, false
	}
	return h.entries[i], true
}

// Entries returns a copy, newest first.
func (h *History) Entries() []Entry {
	return append([]Entry(nil), h.entries...)
}

func (h *History) Successful() []Entry {
	var out []Entry
	for _, e := range h.entries {
		if e.Success {
			out = append(out, e)
		}
	}
	return out
}
