package core

import "github.com/google/uuid"

// Event is an append-only log entry emitted by a state-changing operation.
// Events are for subscribers only; nothing in this package reads them back
// to decide behaviour, and their absence never affects state (spec §6).
// ID is a per-event UUID so external subscribers (such as a future
// indexer) can deduplicate deliveries independent of PrimaryID, which
// several events in the same invocation may share.
type Event struct {
	ID        string   `json:"id"`
	Op        string   `json:"op"`
	PrimaryID [32]byte `json:"primary_id"`
	At        int64    `json:"at"`
}

func newEvent(op string, id [32]byte, at int64) Event {
	return Event{ID: uuid.NewString(), Op: op, PrimaryID: id, At: at}
}
