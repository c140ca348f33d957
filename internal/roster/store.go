// Package roster holds the in-memory family list and keeps it in sync with its data file.
package roster

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tartampluch/go-cousins/internal/config"
	"github.com/tartampluch/go-cousins/internal/engine"
	"github.com/tartampluch/go-cousins/internal/importer"
)

// Listener is notified with a snapshot after every successful replace.
type Listener func(people []engine.PersonRecord)

// Store is a concurrency-safe roster. Reads are lock-free.
type Store struct {
	people atomic.Pointer[[]engine.PersonRecord]

	// path is the backing data file; imports are persisted there when it is JSON.
	path string

	mu        sync.Mutex
	listeners []Listener
}

// NewStore creates an empty roster backed by path. path may be empty.
func NewStore(path string) *Store {
	s := &Store{path: path}
	empty := []engine.PersonRecord{}
	s.people.Store(&empty)
	return s
}

// Path returns the backing data file.
func (s *Store) Path() string {
	return s.path
}

// People returns a copy of the current roster.
func (s *Store) People() []engine.PersonRecord {
	return slices.Clone(*s.people.Load())
}

// Len returns the number of people.
func (s *Store) Len() int {
	return len(*s.people.Load())
}

// OnChange registers fn to run after each replace.
func (s *Store) OnChange(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Replace swaps the roster wholesale and notifies listeners.
func (s *Store) Replace(people []engine.PersonRecord) {
	snapshot := slices.Clone(people)
	if snapshot == nil {
		snapshot = []engine.PersonRecord{}
	}

	s.mu.Lock()
	s.people.Store(&snapshot)
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	slog.Info(config.MsgRosterReplaced,
		config.LogKeyComponent, config.CompRoster,
		config.LogKeyCount, len(snapshot))

	for _, fn := range listeners {
		fn(slices.Clone(snapshot))
	}
}

// Rows computes the display rows for today.
func (s *Store) Rows(today engine.CalendarDate) []engine.ComputedRow {
	return engine.ComputeRows(*s.people.Load(), today)
}

// Import replaces the roster with the contents of an uploaded file. On any
// error the current roster is left untouched.
func (s *Store) Import(filename string, r io.Reader) (int, error) {
	people, err := importer.Import(filename, r)
	if err != nil {
		slog.Warn(config.MsgImportFailed,
			config.LogKeyComponent, config.CompRoster,
			config.LogKeyFile, filename,
			config.LogKeyError, err)
		return 0, err
	}

	if s.persistable() {
		if err := importer.WritePeopleFile(s.path, people); err != nil {
			return 0, err
		}
	}

	s.Replace(people)
	slog.Info(config.MsgImported,
		config.LogKeyComponent, config.CompRoster,
		config.LogKeyFile, filename,
		config.LogKeyCount, len(people))
	return len(people), nil
}

// Load reads the backing data file into the store.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrPeopleRead, err)
	}
	defer func() { _ = f.Close() }()

	people, err := importer.Import(s.path, f)
	if err != nil {
		return err
	}
	s.Replace(people)
	return nil
}

func (s *Store) persistable() bool {
	return s.path != "" && strings.EqualFold(filepath.Ext(s.path), config.ExtJSON)
}
