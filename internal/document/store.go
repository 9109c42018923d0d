package document

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Snapshot represents the latest document available to the UI.
type Snapshot struct {
	Document            Document
	LastLoaded          time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive reload failures
}

// IsStale returns true when the file has been unreadable for multiple reloads.
func (s Snapshot) IsStale() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates reloads from disk with commits from the UI.
type Store struct {
	path string

	// ioMu serializes disk round trips so a reload that read the file before
	// a commit cannot publish over it.
	ioMu sync.Mutex

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStore returns a store for the document at path. Nothing is read until
// Reload is called.
func NewStore(path string) *Store {
	return &Store{
		path:     path,
		snapshot: Snapshot{Document: Document{Fields: map[string]string{}}},
	}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the document from disk. When reading fails the previous
// data is kept but the error is recorded for visibility.
func (s *Store) Reload() error {
	s.ioMu.Lock()
	defer s.ioMu.Unlock()

	doc, err := Load(s.path)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastLoaded = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return err
	}
	s.snapshot.Document = doc
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	return nil
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Document = s.snapshot.Document.Clone()
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Field returns the current value of one field.
func (s *Store) Field(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.snapshot.Document.Fields[name]
	return v, ok
}

// Names returns the current field names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Document.Names()
}

// Apply carries out one commit intent, persists the result and publishes it.
// The in-memory snapshot only changes when the write succeeded.
func (s *Store) Apply(message Message, name, value string) (Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Document{}, ErrEmptyName
	}

	s.ioMu.Lock()
	defer s.ioMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot.Document.Clone()
	_, exists := next.Fields[name]
	switch message {
	case MessageCreate:
		if exists {
			return Document{}, fmt.Errorf("%w: %s", ErrFieldExists, name)
		}
		next.Fields[name] = value
	case MessageUpdate:
		if !exists {
			return Document{}, fmt.Errorf("%w: %s", ErrFieldNotFound, name)
		}
		next.Fields[name] = value
	case MessageDelete:
		if !exists {
			return Document{}, fmt.Errorf("%w: %s", ErrFieldNotFound, name)
		}
		delete(next.Fields, name)
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownMessage, message)
	}

	next.Revision = uuid.NewString()
	next.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	if err := Save(s.path, next); err != nil {
		return Document{}, err
	}

	s.snapshot.Document = next
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	return next.Clone(), nil
}
