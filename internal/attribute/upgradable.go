package attribute

import (
	"github.com/DRepublic-io/gNFT/pkg/types"
)

// Upgradable is the level ladder behavior. An attachment starts at level 1
// and moves up exactly one tier per UpgradeLevel call until it reaches the
// definition's MaxLevel.
type Upgradable struct {
	module
}

// NewUpgradable returns an empty Upgradable module.
func NewUpgradable(opts Options) *Upgradable {
	return &Upgradable{module: newModule(types.BehaviorUpgradable, opts)}
}

// Create defines an upgradable attribute with maxLevel tiers. ladderParam
// is stored with the definition and not interpreted here.
// Returns ErrInvalidDefinition if maxLevel is zero.
func (u *Upgradable) Create(c types.Capability, id types.AttributeID, name, description string, maxLevel uint32, ladderParam uint64) error {
	return u.create(c, &types.Definition{
		AttributeID: id,
		Name:        name,
		Description: description,
		MaxLevel:    maxLevel,
		LadderParam: ladderParam,
	})
}

// Attach binds attr to asset at level 1.
func (u *Upgradable) Attach(c types.Capability, asset types.AssetID, attr types.AttributeID) error {
	if err := u.guard(c, assets(asset), attr); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	_, err := u.attachLocked(asset, attr, func(_ *types.Definition, a *types.Attachment) {
		a.Level = 1
	})
	return err
}

// UpgradeLevel promotes the attachment to target, which must be exactly one
// above the current level and within the ladder.
// Returns ErrNotAttached or ErrInvalidLevel.
func (u *Upgradable) UpgradeLevel(c types.Capability, asset types.AssetID, attr types.AttributeID, target uint32) error {
	a, err := u.mutate(c, asset, attr, types.EventUpgrade, func(def *types.Definition, a *types.Attachment) error {
		return a.Upgrade(def, target, u.now().UTC())
	})
	if err != nil {
		return err
	}
	u.logger.Debugw("attribute upgraded", "asset", asset, "attribute", attr, "level", a.Level)
	return nil
}

// Level returns the current level.
func (u *Upgradable) Level(asset types.AssetID, attr types.AttributeID) (uint32, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	a, err := u.liveLocked(asset, attr)
	if err != nil {
		return 0, err
	}
	return a.Level, nil
}

// MaxLevel returns the top of the attribute's ladder.
func (u *Upgradable) MaxLevel(attr types.AttributeID) (uint32, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	def, err := u.catalog.lookup(attr)
	if err != nil {
		return 0, err
	}
	return def.MaxLevel, nil
}
