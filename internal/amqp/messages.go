package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// LedgerChangedMessage announces that a user's ledger was saved. It carries
// no ledger data; consumers load the current state from storage.
type LedgerChangedMessage struct {
	Username  string    `json:"username"`
	Operation string    `json:"operation"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(username, operation string) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Username:  username,
		Operation: operation,
		Timestamp: time.Now().UTC(),
	}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON decodes a message; a missing username is an error.
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Username == "" {
		return nil, errors.New("ledger changed message without username")
	}
	return &msg, nil
}
