package attribute

import (
	"github.com/DRepublic-io/gNFT/pkg/types"
)

// Generic is the plain counter behavior: an attached value that operators
// increase and decrease.
type Generic struct {
	module
}

// NewGeneric returns an empty Generic module.
func NewGeneric(opts Options) *Generic {
	return &Generic{module: newModule(types.BehaviorGeneric, opts)}
}

// Create defines a generic attribute.
// Returns ErrAlreadyExists if id is already defined.
func (g *Generic) Create(c types.Capability, id types.AttributeID, name, description string, decimals uint8) error {
	return g.create(c, &types.Definition{
		AttributeID: id,
		Name:        name,
		Description: description,
		Decimals:    decimals,
	})
}

// Attach binds attr to asset with an initial value.
// Returns ErrNotFound, ErrUnknownAsset or ErrAlreadyAttached.
func (g *Generic) Attach(c types.Capability, asset types.AssetID, attr types.AttributeID, initial uint64) error {
	if err := g.guard(c, assets(asset), attr); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	_, err := g.attachLocked(asset, attr, func(_ *types.Definition, a *types.Attachment) {
		a.Value = initial
	})
	return err
}

// Increase adds delta to the attached value.
// Returns ErrNotAttached, or ErrOverflow with the value unchanged.
func (g *Generic) Increase(c types.Capability, asset types.AssetID, attr types.AttributeID, delta uint64) error {
	_, err := g.mutate(c, asset, attr, types.EventIncrease, func(_ *types.Definition, a *types.Attachment) error {
		return a.Increase(delta, g.now().UTC())
	})
	return err
}

// Decrease subtracts delta from the attached value.
// Returns ErrNotAttached, or ErrUnderflow with the value unchanged.
func (g *Generic) Decrease(c types.Capability, asset types.AssetID, attr types.AttributeID, delta uint64) error {
	_, err := g.mutate(c, asset, attr, types.EventDecrease, func(_ *types.Definition, a *types.Attachment) error {
		return a.Decrease(delta, g.now().UTC())
	})
	return err
}

// AttributeValue returns the attached value.
func (g *Generic) AttributeValue(asset types.AssetID, attr types.AttributeID) (uint64, error) {
	return g.value(asset, attr)
}
