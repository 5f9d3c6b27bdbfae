package types

import "strconv"

// AssetID identifies an asset in the external ledger. Zero is never valid.
type AssetID uint64

// AttributeID identifies an attribute definition within one module's
// catalog. Zero is never valid.
type AttributeID uint64

// Valid reports whether the id is non-zero.
func (id AssetID) Valid() bool { return id != 0 }

func (id AssetID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Valid reports whether the id is non-zero.
func (id AttributeID) Valid() bool { return id != 0 }

func (id AttributeID) String() string { return strconv.FormatUint(uint64(id), 10) }

// ParseAssetID parses a decimal asset id. Returns ErrInvalidID for zero or
// malformed input.
func ParseAssetID(s string) (AssetID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, ErrInvalidID
	}
	return AssetID(v), nil
}

// ParseAttributeID parses a decimal attribute id. Returns ErrInvalidID for
// zero or malformed input.
func ParseAttributeID(s string) (AttributeID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, ErrInvalidID
	}
	return AttributeID(v), nil
}
