package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"expensetracker/internal/core"
)

// LedgerEventMessage is the wire form of a committed ledger mutation.
// ID is unique per message so consumers can spot redeliveries.
type LedgerEventMessage struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ExpenseID int       `json:"expense_id,omitempty"`
	Month     int       `json:"month,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	Total     float64   `json:"total,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEventMessage converts a domain event to its message form.
func NewLedgerEventMessage(e core.Event) *LedgerEventMessage {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return &LedgerEventMessage{
		ID:        uuid.NewString(),
		Type:      string(e.Type),
		ExpenseID: e.ExpenseID,
		Month:     e.Month,
		Amount:    e.Amount,
		Total:     e.Total,
		Timestamp: ts,
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
