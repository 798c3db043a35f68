// Package slot defines client-local key-value storage. Each key (a slot)
// holds one opaque value that is always replaced as a whole.
package slot

import (
	"context"
	"errors"
)

// DefaultName is the slot the ledger snapshot lives in.
const DefaultName = "todos"

var ErrEmptyKey = errors.New("empty slot key")

// Ports for storage adapters.
type (
	Reader interface {
		// Get returns the stored value and whether the slot exists.
		Get(ctx context.Context, key string) (value []byte, found bool, err error)
	}

	Writer interface {
		// Put overwrites the slot with value.
		Put(ctx context.Context, key string, value []byte) error
	}

	Store interface {
		Reader
		Writer
	}
)
