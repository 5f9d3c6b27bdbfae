package attribute

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

// Options carries the collaborators shared by every module.
type Options struct {
	Ledger   types.Ledger
	Auth     types.Authorizer
	Ticks    types.TickSource   // used by Evolutive only
	Recorder types.Recorder     // optional
	Logger   *zap.SugaredLogger // optional; defaults to a no-op logger
}

// module is the catalog, store and guard logic common to all behaviors.
type module struct {
	behavior types.Behavior

	mu      sync.RWMutex
	catalog *Catalog
	store   *Store

	ledger   types.Ledger
	auth     types.Authorizer
	recorder types.Recorder
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func newModule(b types.Behavior, opts Options) module {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return module{
		behavior: b,
		catalog:  NewCatalog(b),
		store:    NewStore(),
		ledger:   opts.Ledger,
		auth:     opts.Auth,
		recorder: opts.Recorder,
		logger:   logger.With("behavior", string(b)),
		now:      time.Now,
	}
}

// Behavior returns the behavior this module implements.
func (m *module) Behavior() types.Behavior {
	return m.behavior
}

// guard rejects the call unless c is authorized and every id is valid. It
// never touches module state.
func (m *module) guard(c types.Capability, assets []types.AssetID, attr types.AttributeID) error {
	if m.auth == nil {
		return types.ErrUnauthorized
	}
	if err := m.auth.Authorize(c); err != nil {
		return err
	}
	for _, a := range assets {
		if !a.Valid() {
			return types.ErrInvalidID
		}
	}
	if !attr.Valid() {
		return types.ErrInvalidID
	}
	return nil
}

func assets(ids ...types.AssetID) []types.AssetID { return ids }

// create stores def after the guard passes. Behavior is forced to the
// module's own.
func (m *module) create(c types.Capability, def *types.Definition) error {
	if err := m.guard(c, nil, def.AttributeID); err != nil {
		return err
	}
	def.Behavior = m.behavior

	m.mu.Lock()
	defer m.mu.Unlock()

	def.CreatedAt = m.now().UTC()
	if err := m.catalog.Create(def); err != nil {
		return err
	}
	m.record(types.EventCreate, 0, def.AttributeID, 0, 0)
	m.logger.Infow("attribute created", "attribute", def.AttributeID, "name", def.Name)
	return nil
}

// attach validates the pair and stores a new attachment produced by init.
// The caller must hold m.mu.
func (m *module) attachLocked(asset types.AssetID, attr types.AttributeID, init func(def *types.Definition, a *types.Attachment)) (*types.Attachment, error) {
	def, err := m.catalog.lookup(attr)
	if err != nil {
		return nil, err
	}
	if !m.assetExists(asset) {
		return nil, errors.Wrapf(types.ErrUnknownAsset, "asset %d", asset)
	}
	if m.store.Has(asset, attr) {
		return nil, errors.Wrapf(types.ErrAlreadyAttached, "asset %d attribute %d", asset, attr)
	}

	now := m.now().UTC()
	a := &types.Attachment{
		AssetID:     asset,
		AttributeID: attr,
		AttachedAt:  now,
		UpdatedAt:   now,
	}
	if init != nil {
		init(def, a)
	}
	if err := m.store.Put(a); err != nil {
		return nil, err
	}
	m.record(types.EventAttach, asset, attr, 0, m.eventValue(a))
	m.logger.Debugw("attribute attached", "asset", asset, "attribute", attr, "value", a.Value)
	return a, nil
}

// mutate runs fn against the live attachment under the write lock and
// journals the change as kind if fn changed anything. fn must leave the
// attachment unchanged when it returns an error.
func (m *module) mutate(c types.Capability, asset types.AssetID, attr types.AttributeID, kind string, fn func(def *types.Definition, a *types.Attachment) error) (*types.Attachment, error) {
	if err := m.guard(c, assets(asset), attr); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	def, err := m.catalog.lookup(attr)
	if err != nil {
		return nil, err
	}
	a, err := m.liveLocked(asset, attr)
	if err != nil {
		return nil, err
	}
	before := *a
	if err := fn(def, a); err != nil {
		return nil, errors.Wrapf(err, "asset %d attribute %d", asset, attr)
	}
	if *a != before {
		m.record(kind, asset, attr, 0, m.eventValue(a))
	}
	return a.Clone(), nil
}

// Detach removes the attachment and its index entry.
// Returns ErrNotAttached if the pair has none.
func (m *module) Detach(c types.Capability, asset types.AssetID, attr types.AttributeID) error {
	if err := m.guard(c, assets(asset), attr); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.detachLocked(asset, attr)
}

func (m *module) detachLocked(asset types.AssetID, attr types.AttributeID) error {
	a, ok := m.store.Delete(asset, attr)
	if !ok {
		return errors.Wrapf(types.ErrNotAttached, "asset %d attribute %d", asset, attr)
	}
	m.record(types.EventDetach, asset, attr, 0, m.eventValue(a))
	m.logger.Debugw("attribute detached", "asset", asset, "attribute", attr)
	return nil
}

// OnAssetDestroyed removes every attachment on asset. It is driven by the
// ledger's destroy notification and needs no capability.
func (m *module) OnAssetDestroyed(asset types.AssetID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.purgeLocked(asset)
}

func (m *module) purgeLocked(asset types.AssetID) int {
	ids := m.store.AttributesOf(asset)
	for _, attr := range ids {
		if a, ok := m.store.Delete(asset, attr); ok {
			m.record(types.EventDestroy, asset, attr, 0, m.eventValue(a))
		}
	}
	if len(ids) > 0 {
		m.logger.Infow("asset destroyed, attachments removed", "asset", asset, "count", len(ids))
	}
	return len(ids)
}

// Name returns the attribute's name.
func (m *module) Name(attr types.AttributeID) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog.Name(attr)
}

// Description returns the attribute's description.
func (m *module) Description(attr types.AttributeID) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog.Description(attr)
}

// Decimals returns the attribute's precision.
func (m *module) Decimals(attr types.AttributeID) (uint8, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog.Decimals(attr)
}

// Definition returns a copy of the attribute's definition.
func (m *module) Definition(attr types.AttributeID) (*types.Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog.Get(attr)
}

// Definitions returns every definition ordered by id.
func (m *module) Definitions() []*types.Definition {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog.List()
}

// Attached reports whether attr is attached to asset.
func (m *module) Attached(asset types.AssetID, attr types.AttributeID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Has(asset, attr)
}

// Attachment returns a copy of the attachment, or ErrNotAttached.
func (m *module) Attachment(asset types.AssetID, attr types.AttributeID) (*types.Attachment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, err := m.liveLocked(asset, attr)
	if err != nil {
		return nil, err
	}
	return a.Clone(), nil
}

// AttachmentsOf returns copies of every attachment on asset.
func (m *module) AttachmentsOf(asset types.AssetID) []*types.Attachment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.AttachmentsOf(asset)
}

// value reads Value for the pair.
func (m *module) value(asset types.AssetID, attr types.AttributeID) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, err := m.liveLocked(asset, attr)
	if err != nil {
		return 0, err
	}
	return a.Value, nil
}

func (m *module) liveLocked(asset types.AssetID, attr types.AttributeID) (*types.Attachment, error) {
	a, ok := m.store.Get(asset, attr)
	if !ok {
		return nil, errors.Wrapf(types.ErrNotAttached, "asset %d attribute %d", asset, attr)
	}
	return a, nil
}

func (m *module) assetExists(asset types.AssetID) bool {
	return m.ledger != nil && m.ledger.AssetExists(asset)
}

// State returns the module's catalog and attachments for persistence.
func (m *module) State() types.ModuleState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return types.ModuleState{
		Behavior:    m.behavior,
		Definitions: m.catalog.List(),
		Attachments: m.store.All(),
	}
}

// Restore replaces the module's catalog and attachments with st. The state
// is validated in full before anything is replaced.
func (m *module) Restore(st types.ModuleState) error {
	catalog, store, err := m.build(st)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog, m.store = catalog, store
	return nil
}

// build validates st and returns the catalog and store it describes.
func (m *module) build(st types.ModuleState) (*Catalog, *Store, error) {
	if st.Behavior != m.behavior {
		return nil, nil, errors.Wrapf(types.ErrInvalidBehavior, "restoring %s state into %s module", st.Behavior, m.behavior)
	}
	catalog := NewCatalog(m.behavior)
	for _, def := range st.Definitions {
		if err := catalog.Create(def); err != nil {
			return nil, nil, errors.Wrapf(err, "restoring definition %d", def.AttributeID)
		}
	}
	store := NewStore()
	for _, a := range st.Attachments {
		def, err := catalog.lookup(a.AttributeID)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "restoring attachment on asset %d", a.AssetID)
		}
		if err := checkAttachment(def, a); err != nil {
			return nil, nil, errors.Wrapf(err, "restoring attachment on asset %d attribute %d", a.AssetID, a.AttributeID)
		}
		if err := store.Put(a.Clone()); err != nil {
			return nil, nil, err
		}
	}
	return catalog, store, nil
}

// checkAttachment verifies that a restored attachment is within the bounds
// its definition allows.
func checkAttachment(def *types.Definition, a *types.Attachment) error {
	if !a.AssetID.Valid() {
		return types.ErrInvalidID
	}
	switch def.Behavior {
	case types.BehaviorUpgradable:
		if a.Level < 1 || a.Level > def.MaxLevel {
			return types.ErrInvalidLevel
		}
	case types.BehaviorEvolutive:
		if int(a.Stage) >= def.StageCount() {
			return types.ErrInvalidDefinition
		}
	}
	return nil
}

// record appends an event to the journal when one is configured.
func (m *module) record(kind string, asset types.AssetID, attr types.AttributeID, counterparty types.AssetID, value uint64) {
	if m.recorder == nil {
		return
	}
	m.recorder.Record(types.Event{
		EventID:      newEventID(),
		Behavior:     m.behavior,
		Kind:         kind,
		AssetID:      asset,
		AttributeID:  attr,
		Counterparty: counterparty,
		Value:        value,
		CreatedAt:    m.now().UTC(),
	})
}

// newEventID generates a UUID v7 for journal entries.
func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// eventValue is the number a journal entry reports for a: the level for
// upgradable attributes, the value otherwise.
func (m *module) eventValue(a *types.Attachment) uint64 {
	if m.behavior == types.BehaviorUpgradable {
		return uint64(a.Level)
	}
	return a.Value
}
