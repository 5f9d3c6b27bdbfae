// Package engine assembles the four attribute modules around one ledger,
// one authorizer and one journal.
package engine

import (
	"go.uber.org/zap"

	"github.com/DRepublic-io/gNFT/internal/attribute"
	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

// Module is the surface every attribute module shares.
type Module interface {
	Behavior() types.Behavior
	Name(attr types.AttributeID) (string, error)
	Definitions() []*types.Definition
	Attached(asset types.AssetID, attr types.AttributeID) bool
	AttachmentsOf(asset types.AssetID) []*types.Attachment
	Detach(c types.Capability, asset types.AssetID, attr types.AttributeID) error
	OnAssetDestroyed(asset types.AssetID)
	State() types.ModuleState
	Restore(st types.ModuleState) error
}

// Engine owns one module per behavior.
type Engine struct {
	Generic      *attribute.Generic
	Upgradable   *attribute.Upgradable
	Transferable *attribute.Transferable
	Evolutive    *attribute.Evolutive

	journal *Journal
	ledger  types.Ledger
	logger  *zap.SugaredLogger
}

// Holding is an attachment together with the behavior that owns it.
type Holding struct {
	Behavior types.Behavior `json:"behavior"`
	Name     string         `json:"name"`
	*types.Attachment
}

// New builds an engine and subscribes it to ledger destroy notifications.
// ticks and logger may be nil.
func New(ledger types.Ledger, ticks types.TickSource, auth types.Authorizer, logger *zap.SugaredLogger) *Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	journal := &Journal{}
	opts := attribute.Options{
		Ledger:   ledger,
		Auth:     auth,
		Ticks:    ticks,
		Recorder: journal,
		Logger:   logger,
	}
	e := &Engine{
		Generic:      attribute.NewGeneric(opts),
		Upgradable:   attribute.NewUpgradable(opts),
		Transferable: attribute.NewTransferable(opts),
		Evolutive:    attribute.NewEvolutive(opts),
		journal:      journal,
		ledger:       ledger,
		logger:       logger.With("component", "engine"),
	}
	if ledger != nil {
		ledger.OnAssetDestroyed(e.OnAssetDestroyed)
	}
	return e
}

// modules lists the modules in a fixed order. Transferable comes first so
// pending approvals on a destroyed asset settle before anything else is
// cleared.
func (e *Engine) modules() []Module {
	return []Module{e.Transferable, e.Generic, e.Upgradable, e.Evolutive}
}

// Module returns the module implementing b.
func (e *Engine) Module(b types.Behavior) (Module, error) {
	for _, m := range e.modules() {
		if m.Behavior() == b {
			return m, nil
		}
	}
	return nil, errors.Wrapf(types.ErrInvalidBehavior, "%q", b)
}

// OnAssetDestroyed clears asset from every module.
func (e *Engine) OnAssetDestroyed(asset types.AssetID) {
	for _, m := range e.modules() {
		m.OnAssetDestroyed(asset)
	}
	e.logger.Debugw("destroy notification handled", "asset", asset)
}

// Define creates def in the module for its behavior.
func (e *Engine) Define(c types.Capability, def *types.Definition) error {
	switch def.Behavior {
	case types.BehaviorGeneric:
		return e.Generic.Create(c, def.AttributeID, def.Name, def.Description, def.Decimals)
	case types.BehaviorUpgradable:
		return e.Upgradable.Create(c, def.AttributeID, def.Name, def.Description, def.MaxLevel, def.LadderParam)
	case types.BehaviorTransferable:
		return e.Transferable.Create(c, def.AttributeID, def.Name, def.Description, def.Decimals)
	case types.BehaviorEvolutive:
		return e.Evolutive.Create(c, def.AttributeID, def.Name, def.Description,
			len(def.StageThresholds), def.StageThresholds, def.StageValues)
	default:
		return errors.Wrapf(types.ErrInvalidBehavior, "%q", def.Behavior)
	}
}

// Definitions returns every definition across modules, grouped by behavior
// in the order of types.Behaviors.
func (e *Engine) Definitions() []*types.Definition {
	var out []*types.Definition
	for _, b := range types.Behaviors {
		m, _ := e.Module(b)
		out = append(out, m.Definitions()...)
	}
	return out
}

// Attachments lists everything attached to asset across modules.
func (e *Engine) Attachments(asset types.AssetID) []Holding {
	var out []Holding
	for _, b := range types.Behaviors {
		m, _ := e.Module(b)
		for _, a := range m.AttachmentsOf(asset) {
			name, _ := m.Name(a.AttributeID)
			out = append(out, Holding{Behavior: b, Name: name, Attachment: a})
		}
	}
	return out
}

// Events returns the journal.
func (e *Engine) Events() []types.Event {
	return e.journal.Events()
}

// Journal exposes the shared journal.
func (e *Engine) Journal() *Journal {
	return e.journal
}

// Snapshot captures every module and the journal.
func (e *Engine) Snapshot() types.Snapshot {
	snap := types.Snapshot{Events: e.journal.Events()}
	for _, b := range types.Behaviors {
		m, _ := e.Module(b)
		snap.Modules = append(snap.Modules, m.State())
	}
	return snap
}

// Restore replaces every module and the journal with snap. Modules missing
// from snap are emptied. If any module rejects its state, modules already
// restored are rolled back and the error is returned.
func (e *Engine) Restore(snap types.Snapshot) error {
	prev := e.Snapshot()
	if err := e.restore(snap); err != nil {
		if rerr := e.restore(prev); rerr != nil {
			return errors.AssertionFailedf("rolling back restore: %v (after %v)", rerr, err)
		}
		return err
	}
	e.logger.Infow("engine restored", "modules", len(snap.Modules), "events", len(snap.Events))
	return nil
}

func (e *Engine) restore(snap types.Snapshot) error {
	for _, st := range snap.Modules {
		if _, err := types.ParseBehavior(string(st.Behavior)); err != nil {
			return errors.Wrapf(err, "snapshot module %q", st.Behavior)
		}
	}
	for _, b := range types.Behaviors {
		m, _ := e.Module(b)
		st := types.ModuleState{Behavior: b}
		if s := snap.Module(b); s != nil {
			st = *s
		}
		if err := m.Restore(st); err != nil {
			return errors.Wrapf(err, "restoring %s module", b)
		}
	}
	e.journal.reset(snap.Events)
	return nil
}
