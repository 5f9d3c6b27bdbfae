package types

// Ledger is the external multi-asset ledger the engine consults. The engine
// only asks whether an asset exists and subscribes to destroy
// notifications; ownership, balances and transfers stay on the ledger side.
type Ledger interface {
	// AssetExists reports whether the ledger currently recognizes the asset.
	AssetExists(id AssetID) bool

	// OnAssetDestroyed registers fn to be called after the ledger destroys
	// an asset.
	OnAssetDestroyed(fn func(id AssetID))
}

// TickSource supplies the current tick count used to anchor evolutive
// attachments.
type TickSource interface {
	Now() uint64
}

// TickFunc adapts an ordinary function to TickSource.
type TickFunc func() uint64

// Now calls f.
func (f TickFunc) Now() uint64 { return f() }

// Capability is the token a caller presents on every mutating call.
type Capability struct {
	Token string `json:"token"`
}

// Authorizer decides whether a capability grants operator rights.
// Authorize returns ErrUnauthorized (possibly wrapped) when it does not.
type Authorizer interface {
	Authorize(c Capability) error
}
