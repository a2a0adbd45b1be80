// Package session owns the working collection while the recap is edited.
package session

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gubarz/recapmd/internal/item"
)

// ErrItemNotFound is returned when an id does not match any item
var ErrItemNotFound = errors.New("item not found")

// Counts tallies the collection by group and tag state
type Counts struct {
	InProgress int
	New        int
	Updated    int
	Done       int
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger used for mutation events
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Session holds the ordered item collection and hands out ids for appended
// items. It is not safe for concurrent use.
type Session struct {
	id     uuid.UUID
	items  []item.Item
	nextID int
	log    *zap.Logger
}

// New starts a session over a copy of items
func New(items []item.Item, opts ...Option) *Session {
	s := &Session{
		id:    uuid.New(),
		items: item.CloneAll(items),
		log:   zap.NewNop(),
	}
	if s.items == nil {
		s.items = []item.Item{}
	}

	s.nextID = len(s.items)
	for _, it := range s.items {
		if n, err := strconv.Atoi(it.ID); err == nil && n+1 > s.nextID {
			s.nextID = n + 1
		}
	}

	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("session", s.id.String()))
	s.log.Debug("session started", zap.Int("items", len(s.items)), zap.Int("next_id", s.nextID))
	return s
}

// ID returns the session's correlation id
func (s *Session) ID() string { return s.id.String() }

// Len returns the number of items
func (s *Session) Len() int { return len(s.items) }

// Items returns a deep copy of the collection in order
func (s *Session) Items() []item.Item {
	return item.CloneAll(s.items)
}

// Get looks up an item by id
func (s *Session) Get(id string) (item.Item, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return item.Item{}, false
	}
	return s.items[idx].Clone(), true
}

// Append stores it at the end of the collection under a fresh id
func (s *Session) Append(it item.Item) item.Item {
	stored := it.Clone()
	stored.ID = strconv.Itoa(s.nextID)
	s.nextID++
	s.items = append(s.items, stored)

	s.log.Debug("item appended", zap.String("id", stored.ID), zap.Bool("new", stored.IsNew))
	return stored.Clone()
}

// Remove deletes the item with the given id. It reports whether anything
// was removed.
func (s *Session) Remove(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.log.Debug("item removed", zap.String("id", id))
	return true
}

// Replace swaps in it for the stored item with the same id
func (s *Session) Replace(it item.Item) error {
	idx := s.indexOf(it.ID)
	if idx < 0 {
		return fmt.Errorf("replace %q: %w", it.ID, ErrItemNotFound)
	}
	s.items[idx] = it.Clone()
	return nil
}

// Apply runs fn on the item with the given id and stores the result. When fn
// fails the collection is left unchanged and the error is returned as is.
func (s *Session) Apply(id string, fn func(item.Item) (item.Item, error)) (item.Item, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return item.Item{}, fmt.Errorf("apply %q: %w", id, ErrItemNotFound)
	}

	updated, err := fn(s.items[idx].Clone())
	if err != nil {
		return s.items[idx].Clone(), err
	}
	updated.ID = id
	s.items[idx] = updated.Clone()

	s.log.Debug("item updated", zap.String("id", id), zap.String("state", item.StateOf(updated).String()))
	return updated, nil
}

// Counts tallies in-progress and new items plus their tag states
func (s *Session) Counts() Counts {
	var c Counts
	for _, it := range s.items {
		if it.IsNew {
			c.New++
		} else {
			c.InProgress++
		}
		switch item.StateOf(it) {
		case item.StateUpdated:
			c.Updated++
		case item.StateDone:
			c.Done++
		}
	}
	return c
}

func (s *Session) indexOf(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
