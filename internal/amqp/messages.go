package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"ledger/internal/core"
)

// EventType names a change to a ledger entry.
type EventType string

const (
	EntryCreated EventType = "entry.created"
	EntryUpdated EventType = "entry.updated"
	EntryDeleted EventType = "entry.deleted"
)

// EntryEvent is a lightweight change notification. Consumers fetch the
// current entry from the store; the event only identifies it.
type EntryEvent struct {
	Type       EventType `json:"type"`
	OwnerID    string    `json:"owner_id"`
	EntryID    string    `json:"entry_id"`
	PurchaseID string    `json:"purchase_id,omitempty"`
	OccursOn   string    `json:"occurs_on,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewEntryEvent describes a change to e.
func NewEntryEvent(t EventType, e core.LedgerEntry) EntryEvent {
	ev := EntryEvent{
		Type:      t,
		OwnerID:   e.OwnerID,
		EntryID:   e.ID,
		OccursOn:  e.OccursOn.String(),
		Timestamp: time.Now().UTC(),
	}
	if e.Installment != nil {
		ev.PurchaseID = e.Installment.PurchaseID
	}
	return ev
}

func (m EntryEvent) Validate() error {
	switch m.Type {
	case EntryCreated, EntryUpdated, EntryDeleted:
	default:
		return fmt.Errorf("unknown event type %q", m.Type)
	}
	if m.OwnerID == "" || m.EntryID == "" {
		return fmt.Errorf("event %s is missing owner or entry id", m.Type)
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m EntryEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryEventFromJSON decodes and validates a message body.
func EntryEventFromJSON(data []byte) (*EntryEvent, error) {
	var msg EntryEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
