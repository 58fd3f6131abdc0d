package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SavedMessage announces that the expense list was persisted.
type SavedMessage struct {
	Backend   string          `json:"backend"`
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewSavedMessage creates a message stamped with the current time.
func NewSavedMessage(backend string, count int, total decimal.Decimal) *SavedMessage {
	return &SavedMessage{
		Backend:   backend,
		Count:     count,
		Total:     total,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SavedMessageFromJSON creates a message from JSON bytes
func SavedMessageFromJSON(data []byte) (*SavedMessage, error) {
	var msg SavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
