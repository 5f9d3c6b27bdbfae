package types

import "github.com/DRepublic-io/gNFT/internal/errors"

// Attribute operation errors. Every failing operation returns one of these,
// possibly wrapped with context; match with errors.Is.
var (
	ErrNotFound          = errors.New("attribute not defined")
	ErrAlreadyExists     = errors.New("attribute already defined")
	ErrNotAttached       = errors.New("attribute not attached to asset")
	ErrAlreadyAttached   = errors.New("attribute already attached to asset")
	ErrInvalidLevel      = errors.New("invalid level transition")
	ErrUnderflow         = errors.New("decrease exceeds current value")
	ErrOverflow          = errors.New("value overflow")
	ErrNotApproved       = errors.New("transfer not approved")
	ErrUnknownAsset      = errors.New("asset unknown to ledger")
	ErrSameAsset         = errors.New("source and destination asset are the same")
	ErrInvalidDefinition = errors.New("invalid attribute definition")
	ErrInvalidBehavior   = errors.New("unknown attribute behavior")
)

// Caller boundary errors. These are returned before any state is read.
var (
	ErrUnauthorized = errors.New("caller is not the privileged operator")
	ErrInvalidID    = errors.New("invalid asset or attribute ID")
)

// Backend lifecycle errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrBackendDetached = errors.New("backend is detached")
	ErrBackendAttached = errors.New("backend is already attached")
)

// Ledger errors.
var (
	ErrAssetExists         = errors.New("asset already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAccount      = errors.New("invalid account")
	ErrInvalidAmount       = errors.New("amount must be positive")
)
