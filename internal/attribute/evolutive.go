package attribute

import (
	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

// Evolutive is the time-gated stage behavior. An attachment is anchored at
// the tick count current on attach and advances through stages as the
// ticks accumulated since then meet each stage's threshold. Advancement is
// pull-based: it happens only inside Evolutive, with the tick count
// supplied by the caller.
type Evolutive struct {
	module
	ticks types.TickSource
}

// NewEvolutive returns an empty Evolutive module. opts.Ticks anchors new
// attachments; without one every attachment is anchored at tick zero.
func NewEvolutive(opts Options) *Evolutive {
	return &Evolutive{
		module: newModule(types.BehaviorEvolutive, opts),
		ticks:  opts.Ticks,
	}
}

// Create defines an evolutive attribute with stageCount stages. thresholds
// and values must each have stageCount entries and thresholds must not
// decrease. thresholds[i] is the number of ticks after attach at which
// stage i is reached.
// Returns ErrUnauthorized or ErrInvalidID first, ErrInvalidDefinition
// otherwise.
func (e *Evolutive) Create(c types.Capability, id types.AttributeID, name, description string, stageCount int, thresholds, values []uint64) error {
	if err := e.guard(c, nil, id); err != nil {
		return err
	}
	if stageCount < 1 || len(thresholds) != stageCount || len(values) != stageCount {
		return errors.Wrapf(types.ErrInvalidDefinition,
			"stage count %d with %d thresholds and %d values", stageCount, len(thresholds), len(values))
	}
	return e.create(c, &types.Definition{
		AttributeID:     id,
		Name:            name,
		Description:     description,
		StageThresholds: append([]uint64(nil), thresholds...),
		StageValues:     append([]uint64(nil), values...),
	})
}

// Attach binds attr to asset at stage 0, anchored at the current tick.
func (e *Evolutive) Attach(c types.Capability, asset types.AssetID, attr types.AttributeID) error {
	if err := e.guard(c, assets(asset), attr); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	anchor := e.currentTick()
	_, err := e.attachLocked(asset, attr, func(def *types.Definition, a *types.Attachment) {
		a.Stage = 0
		a.AnchorTick = anchor
		a.LastTick = anchor
		a.Value = def.StageValues[0]
	})
	return err
}

// Evolutive advances the attachment through every stage whose threshold
// is met by ticks accumulated since attach, and sets its value to the
// reached stage's value. At the last stage the call changes nothing.
// Returns ErrNotAttached if attr is not attached to asset.
func (e *Evolutive) Evolutive(c types.Capability, asset types.AssetID, attr types.AttributeID, ticks uint64) error {
	var advanced bool
	a, err := e.mutate(c, asset, attr, types.EventEvolve, func(def *types.Definition, a *types.Attachment) error {
		advanced = a.Evolve(def, ticks, e.now().UTC())
		return nil
	})
	if err != nil {
		return err
	}
	if advanced {
		e.logger.Debugw("attribute evolved", "asset", asset, "attribute", attr, "stage", a.Stage, "value", a.Value)
	}
	return nil
}

// Stage returns the current stage.
func (e *Evolutive) Stage(asset types.AssetID, attr types.AttributeID) (uint32, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, err := e.liveLocked(asset, attr)
	if err != nil {
		return 0, err
	}
	return a.Stage, nil
}

// AttributeValue returns the value of the current stage.
func (e *Evolutive) AttributeValue(asset types.AssetID, attr types.AttributeID) (uint64, error) {
	return e.value(asset, attr)
}

func (e *Evolutive) currentTick() uint64 {
	if e.ticks == nil {
		return 0
	}
	return e.ticks.Now()
}
