package amqp

import (
	"encoding/json"
	"time"
)

// StateChangedMessage tells the backup worker that a collection was
// mutated. It carries only the collection key and when it changed; the
// worker reads the current state from the store itself.
type StateChangedMessage struct {
	Collection string    `json:"collection"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewStateChangedMessage(collection string) *StateChangedMessage {
	return &StateChangedMessage{
		Collection: collection,
		Timestamp:  time.Now(),
	}
}

func (m *StateChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func StateChangedMessageFromJSON(data []byte) (*StateChangedMessage, error) {
	var msg StateChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
