// Package history keeps the ordered log of command lines entered during a
// session and resolves `!x` event references.
package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// ErrNotFound is reported when an event reference names an entry that does
// not exist.
var ErrNotFound = errors.New("event not found")

// Entry is one recorded command line. Index is the 1-based position used by
// `!x` references; indices are never reused within a session.
type Entry struct {
	Index int
	Line  string
}

// Store is an append-only log of command lines. The zero value is usable.
type Store struct {
	mu      sync.Mutex
	entries []Entry
	// next is the index assigned to the next recorded entry. Stays
	// monotonic even if entries are cleared.
	next int
}

func NewStore() *Store {
	return &Store{}
}

// Record appends a line and assigns it the next sequential index.
func (s *Store) Record(line string) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	entry := Entry{Index: s.next, Line: line}
	s.entries = append(s.entries, entry)
	return entry
}

// Len returns the number of recorded entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// List returns a copy of the recorded entries in order.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clear removes all entries. Indices keep counting from where they left
// off so previously issued references never alias new entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// IsReference reports whether line looks like a history event reference,
// i.e. starts with `!`.
func IsReference(line string) bool {
	return strings.HasPrefix(line, "!")
}

// Resolve looks up an event reference of the form "!x" where x is a
// positive 1-based index. It returns the recorded line, or ErrNotFound if
// the suffix is not a positive integer or the index is out of range.
func (s *Store) Resolve(ref string) (string, error) {
	suffix := strings.TrimPrefix(ref, "!")
	index, err := strconv.Atoi(suffix)
	if err != nil || index <= 0 {
		return "", fmt.Errorf("%s: %w", ref, ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.Index == index {
			return e.Line, nil
		}
	}
	return "", fmt.Errorf("%s: %w", ref, ErrNotFound)
}

// ReadFrom loads one entry per line from r, assigning sequential indices.
// Used to restore the previous session's history file.
func (s *Store) ReadFrom(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		s.Record(line)
	}
	return scanner.Err()
}

// WriteTo saves the newest max entries, one per line, oldest first. A max
// of zero writes everything.
func (s *Store) WriteTo(w io.Writer, max int) error {
	entries := s.List()
	if max > 0 && len(entries) > max {
		entries = entries[len(entries)-max:]
	}

	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintln(bw, e.Line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
