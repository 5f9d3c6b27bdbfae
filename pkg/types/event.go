package types

import "time"

// Event kinds recorded in the journal, one per successful mutation.
const (
	EventCreate   = "create"
	EventAttach   = "attach"
	EventDetach   = "detach"
	EventIncrease = "increase"
	EventDecrease = "decrease"
	EventUpgrade  = "upgrade"
	EventApprove  = "approve"
	EventTransfer = "transfer"
	EventEvolve   = "evolve"
	EventDestroy  = "destroy"
)

// Event records one mutation. Counterparty is the other asset of a
// transfer or approval and zero otherwise. Value is the attachment value
// (or level, for upgradable attributes) after the change.
type Event struct {
	EventID      string      `json:"event_id"`
	Behavior     Behavior    `json:"behavior"`
	Kind         string      `json:"kind"`
	AssetID      AssetID     `json:"asset_id"`
	AttributeID  AttributeID `json:"attribute_id"`
	Counterparty AssetID     `json:"counterparty,omitempty"`
	Value        uint64      `json:"value"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Recorder receives journal events from the modules.
type Recorder interface {
	Record(e Event)
}
