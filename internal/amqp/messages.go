package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"giftledger/internal/ledger"
)

// ChangeMessage announces a persisted ledger change. It carries ids only;
// consumers that need entry details must read them from the ledger.
type ChangeMessage struct {
	MessageID string    `json:"message_id"`
	Op        string    `json:"op"`
	EntryID   int64     `json:"entry_id,omitempty"`
	Completed bool      `json:"completed,omitempty"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeMessage(ev ledger.ChangeEvent) *ChangeMessage {
	return &ChangeMessage{
		MessageID: uuid.NewString(),
		Op:        string(ev.Op),
		EntryID:   ev.EntryID,
		Completed: ev.Completed,
		Count:     ev.Count,
		Timestamp: time.Now().UTC(),
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
