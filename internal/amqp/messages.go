package amqp

import (
	"encoding/json"
	"time"
)

// Mirror reasons carried on the wire.
const (
	ReasonAppend = "append"
	ReasonUpdate = "update"
	ReasonDelete = "delete"
)

// MirrorMessage asks the worker to re-mirror one user's ledger into
// the spreadsheet. It carries no row data: the worker reads the
// authoritative state from storage, so redelivery is idempotent.
type MirrorMessage struct {
	UserID    string    `json:"user_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMirrorMessage(userID, reason string) *MirrorMessage {
	return &MirrorMessage{
		UserID:    userID,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *MirrorMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MirrorMessageFromJSON(data []byte) (*MirrorMessage, error) {
	var m MirrorMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
