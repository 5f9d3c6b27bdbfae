package types

import "time"

// Account names a ledger holder. The ledger treats it as opaque.
type Account string

// Asset is a ledger entry. An asset exists while its supply is positive.
type Asset struct {
	AssetID   AssetID   `json:"asset_id"`
	Creator   Account   `json:"creator"`
	URI       string    `json:"uri"`
	Supply    uint64    `json:"supply"`
	CreatedAt time.Time `json:"created_at"`
}

// Balance is the amount of one asset an account holds.
type Balance struct {
	Account Account `json:"account"`
	AssetID AssetID `json:"asset_id"`
	Amount  uint64  `json:"amount"`
}

// OperatorApproval lets Operator move every asset Owner holds.
type OperatorApproval struct {
	Owner    Account `json:"owner"`
	Operator Account `json:"operator"`
}

// LedgerState is the persisted form of the ledger.
type LedgerState struct {
	Owner     Account            `json:"owner"`
	Assets    []Asset            `json:"assets"`
	Balances  []Balance          `json:"balances"`
	Operators []OperatorApproval `json:"operators"`
}

// Grant is a capability token issued to a named operator.
type Grant struct {
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}
