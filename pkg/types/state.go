package types

// ModuleState is the persisted form of one behavior module: its catalog,
// its attachments and, for transferable modules, pending approvals.
type ModuleState struct {
	Behavior    Behavior      `json:"behavior"`
	Definitions []*Definition `json:"definitions"`
	Attachments []*Attachment `json:"attachments"`
	Approvals   []*Approval   `json:"approvals,omitempty"`
}

// Snapshot is the persisted form of a whole engine.
type Snapshot struct {
	Modules []ModuleState `json:"modules"`
	Events  []Event       `json:"events"`
}

// Module returns the state for behavior b, or nil.
func (s *Snapshot) Module(b Behavior) *ModuleState {
	for i := range s.Modules {
		if s.Modules[i].Behavior == b {
			return &s.Modules[i]
		}
	}
	return nil
}

// State is everything a backend persists between runs.
type State struct {
	Ledger LedgerState `json:"ledger"`
	Engine Snapshot    `json:"engine"`
	Grants []Grant     `json:"grants"`
}
