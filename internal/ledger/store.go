// Package ledger owns the canonical, ordered list of gift-card entries.
//
// Every mutation is applied to a copy of the collection, written through the
// Persister, and only then made visible. A failed write therefore leaves both
// memory and the persisted snapshot at the previous state.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"giftledger/internal/core"
	applog "giftledger/internal/log"
)

var (
	ErrNotFound     = errors.New("entry not found")
	ErrCorruptState = errors.New("corrupt ledger state")
	ErrPersistence  = errors.New("persist ledger")
)

type ChangeOp string

const (
	OpAdded   ChangeOp = "added"
	OpToggled ChangeOp = "toggled"
	OpRemoved ChangeOp = "removed"
	OpCleared ChangeOp = "cleared"
)

// ChangeEvent describes a mutation that has been persisted.
type ChangeEvent struct {
	Op        ChangeOp
	EntryID   int64 // zero for OpCleared
	Completed bool
	Count     int // collection size after the change
}

// Notifier is told about every persisted change.
type Notifier interface {
	Notify(ctx context.Context, ev ChangeEvent) error
}

type Store struct {
	mu        sync.Mutex
	entries   []core.Entry
	persister Persister
	ids       *IDGenerator
	notifier  Notifier
	logger    *applog.Logger
}

type Option func(*Store)

func WithLogger(l *applog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithIDGenerator(g *IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// Open loads the persisted collection. A corrupt snapshot is logged and the
// store starts empty; any other load failure is returned.
func Open(ctx context.Context, p Persister, opts ...Option) (*Store, error) {
	s := &Store{persister: p}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = NewIDGenerator(nil)
	}
	if s.logger == nil {
		s.logger = applog.Default(applog.ComponentLedger)
	}

	entries, err := p.Load(ctx)
	switch {
	case errors.Is(err, ErrCorruptState):
		s.logger.WarnContext(ctx, "Discarding corrupt ledger snapshot, starting empty",
			applog.NewFields().WithOperation(applog.OpLoad).WithError(err).ToSlice()...)
		entries = []core.Entry{}
	case err != nil:
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	for _, e := range entries {
		s.ids.Observe(e.ID)
	}
	s.entries = entries
	s.logger.InfoContext(ctx, "Ledger loaded", applog.FieldCount, len(entries))
	return s, nil
}

// Entries returns a copy of the collection in insertion order.
func (s *Store) Entries() []core.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Entry(nil), s.entries...)
}

func (s *Store) Get(id int64) (core.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.entries[i], true
	}
	return core.Entry{}, false
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Add validates in, appends a new unredeemed entry and persists.
func (s *Store) Add(ctx context.Context, in core.EntryInput) (core.Entry, error) {
	if err := in.Validate(); err != nil {
		return core.Entry{}, err
	}

	s.mu.Lock()
	e := core.NewEntry(s.ids.Next(), in)
	next := make([]core.Entry, len(s.entries), len(s.entries)+1)
	copy(next, s.entries)
	next = append(next, e)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return core.Entry{}, err
	}
	count := len(next)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Entry added", applog.NewFields().
		WithOperation(applog.OpAdd).
		WithEntry(e.ID, e.Text, e.Department, e.Month, e.Card, e.Amount).
		ToSlice()...)
	s.notify(ctx, ChangeEvent{Op: OpAdded, EntryID: e.ID, Count: count})
	return e, nil
}

// Toggle flips the redemption status of id.
func (s *Store) Toggle(ctx context.Context, id int64) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("toggle %d: %w", id, ErrNotFound)
	}
	next := append([]core.Entry(nil), s.entries...)
	next[i].Completed = !next[i].Completed
	completed := next[i].Completed
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	count := len(next)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Entry toggled",
		applog.FieldOperation, applog.OpToggle, applog.FieldEntryID, id, "completed", completed)
	s.notify(ctx, ChangeEvent{Op: OpToggled, EntryID: id, Completed: completed, Count: count})
	return nil
}

// Remove deletes id, keeping the order of the remaining entries.
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("remove %d: %w", id, ErrNotFound)
	}
	next := make([]core.Entry, 0, len(s.entries)-1)
	next = append(next, s.entries[:i]...)
	next = append(next, s.entries[i+1:]...)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	count := len(next)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Entry removed", applog.FieldOperation, applog.OpRemove, applog.FieldEntryID, id)
	s.notify(ctx, ChangeEvent{Op: OpRemoved, EntryID: id, Count: count})
	return nil
}

// ClearAll empties the collection.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	removed := len(s.entries)
	if err := s.commit(ctx, []core.Entry{}); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Ledger cleared", applog.FieldOperation, applog.OpClear, applog.FieldCount, removed)
	s.notify(ctx, ChangeEvent{Op: OpCleared, Count: 0})
	return nil
}

// commit persists next and installs it. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []core.Entry) error {
	if err := s.persister.Save(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "Ledger write failed, change rolled back",
			applog.NewFields().WithOperation(applog.OpPersist).WithError(err).ToSlice()...)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.entries = next
	return nil
}

func (s *Store) notify(ctx context.Context, ev ChangeEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "Change notification failed",
			applog.NewFields().WithOperation(applog.OpNotify).WithError(err).ToSlice()...)
	}
}

func (s *Store) indexOf(id int64) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
