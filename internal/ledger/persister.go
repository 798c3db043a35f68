package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"giftledger/internal/core"
	"giftledger/internal/slot"
)

// Persister loads and saves the whole entry collection.
type Persister interface {
	// Load returns the persisted collection; an absent snapshot is an empty
	// collection, a malformed one is ErrCorruptState.
	Load(ctx context.Context) ([]core.Entry, error)
	// Save replaces the persisted collection.
	Save(ctx context.Context, entries []core.Entry) error
}

// SlotPersister stores the collection as a JSON array in one named slot.
type SlotPersister struct {
	store slot.Store
	name  string
}

func NewSlotPersister(store slot.Store, name string) *SlotPersister {
	if name == "" {
		name = slot.DefaultName
	}
	return &SlotPersister{store: store, name: name}
}

// Name is the slot the snapshot is written to.
func (p *SlotPersister) Name() string { return p.name }

// QuarantineName is where unreadable snapshots are copied before being discarded.
func (p *SlotPersister) QuarantineName() string { return p.name + ".corrupt" }

func (p *SlotPersister) Load(ctx context.Context) ([]core.Entry, error) {
	raw, found, err := p.store.Get(ctx, p.name)
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", p.name, err)
	}
	if !found {
		return []core.Entry{}, nil
	}

	entries, err := Decode(raw)
	if err != nil {
		if qerr := p.store.Put(ctx, p.QuarantineName(), raw); qerr != nil {
			return nil, fmt.Errorf("%w (quarantine failed: %v)", err, qerr)
		}
		return nil, err
	}
	return entries, nil
}

func (p *SlotPersister) Save(ctx context.Context, entries []core.Entry) error {
	raw, err := Encode(entries)
	if err != nil {
		return err
	}
	if err := p.store.Put(ctx, p.name, raw); err != nil {
		return fmt.Errorf("write slot %s: %w", p.name, err)
	}
	return nil
}

// Encode serializes entries as a JSON array; an empty collection is "[]".
func Encode(entries []core.Entry) ([]byte, error) {
	if entries == nil {
		entries = []core.Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode entries: %w", err)
	}
	return raw, nil
}

// Decode parses and checks a snapshot. Any parse failure, invalid entry or
// duplicate id yields ErrCorruptState.
func Decode(raw []byte) ([]core.Entry, error) {
	var entries []core.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if entries == nil {
		// literal null
		return []core.Entry{}, nil
	}
	seen := make(map[int64]struct{}, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrCorruptState, i, err)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrCorruptState, e.ID)
		}
		seen[e.ID] = struct{}{}
		entries[i].Month, _ = core.CanonicalMonth(e.Month)
	}
	return entries, nil
}
