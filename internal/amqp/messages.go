package amqp

import (
	"encoding/json"
	"time"
)

const (
	TypeTransactionSync   = "transaction.sync"
	TypeTransactionDelete = "transaction.delete"
)

// Message is the envelope published after a local write. It carries only the
// transaction id; the worker fetches the full row from the database, so a
// stale or duplicated message is harmless.
type Message struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionSyncMessage announces that a transaction was created and
// awaits backup export.
func NewTransactionSyncMessage(id int64) *Message {
	return &Message{Type: TypeTransactionSync, ID: id, Timestamp: time.Now()}
}

// NewTransactionDeleteMessage announces that a transaction was deleted.
func NewTransactionDeleteMessage(id int64) *Message {
	return &Message{Type: TypeTransactionDelete, ID: id, Timestamp: time.Now()}
}

func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
