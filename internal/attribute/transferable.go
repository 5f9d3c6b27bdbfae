package attribute

import (
	"math"
	"sort"

	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

// Transferable is the relocatable value behavior. Value moves between
// assets in two phases: Approve fixes the destination for one (source,
// attribute) pair, and TransferFrom executes that approval and consumes it.
// The two calls may come from different contexts; the approval keeps the
// executing side from redirecting value to an arbitrary asset.
type Transferable struct {
	module

	// approvals holds at most one pending approval per source attachment.
	approvals map[recordKey]*types.Approval
}

// NewTransferable returns an empty Transferable module.
func NewTransferable(opts Options) *Transferable {
	return &Transferable{
		module:    newModule(types.BehaviorTransferable, opts),
		approvals: make(map[recordKey]*types.Approval),
	}
}

// Create defines a transferable attribute.
func (t *Transferable) Create(c types.Capability, id types.AttributeID, name, description string, decimals uint8) error {
	return t.create(c, &types.Definition{
		AttributeID: id,
		Name:        name,
		Description: description,
		Decimals:    decimals,
	})
}

// Attach binds attr to asset holding value.
func (t *Transferable) Attach(c types.Capability, asset types.AssetID, attr types.AttributeID, value uint64) error {
	if err := t.guard(c, assets(asset), attr); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	_, err := t.attachLocked(asset, attr, func(_ *types.Definition, a *types.Attachment) {
		a.Value = value
	})
	return err
}

// Approve authorizes moving the value of attr on from to to, replacing any
// earlier approval for the same source attachment.
// Returns ErrSameAsset, ErrNotFound, ErrNotAttached or ErrUnknownAsset.
func (t *Transferable) Approve(c types.Capability, from, to types.AssetID, attr types.AttributeID) error {
	if err := t.guard(c, assets(from, to), attr); err != nil {
		return err
	}
	if from == to {
		return errors.Wrapf(types.ErrSameAsset, "asset %d", from)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.catalog.lookup(attr); err != nil {
		return err
	}
	if _, err := t.liveLocked(from, attr); err != nil {
		return err
	}
	if !t.assetExists(to) {
		return errors.Wrapf(types.ErrUnknownAsset, "destination asset %d", to)
	}

	t.approvals[recordKey{from, attr}] = &types.Approval{
		FromAsset:   from,
		AttributeID: attr,
		ToAsset:     to,
		CreatedAt:   t.now().UTC(),
	}
	t.record(types.EventApprove, from, attr, to, 0)
	t.logger.Debugw("transfer approved", "from", from, "to", to, "attribute", attr)
	return nil
}

// TransferFrom moves the whole value of attr from one asset to another. An
// approval for exactly (from, attr, to) must be pending. The destination
// attachment is created if absent and summed into otherwise; the source
// attachment and the approval are removed. Nothing changes on failure.
// Returns ErrNotApproved, ErrNotAttached, ErrUnknownAsset or ErrOverflow.
func (t *Transferable) TransferFrom(c types.Capability, from, to types.AssetID, attr types.AttributeID) error {
	if err := t.guard(c, assets(from, to), attr); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.transferLocked(from, to, attr)
}

func (t *Transferable) transferLocked(from, to types.AssetID, attr types.AttributeID) error {
	k := recordKey{from, attr}
	ap, ok := t.approvals[k]
	if !ok || ap.ToAsset != to {
		return errors.Wrapf(types.ErrNotApproved, "asset %d attribute %d to asset %d", from, attr, to)
	}
	src, err := t.liveLocked(from, attr)
	if err != nil {
		return err
	}
	if !t.assetExists(to) {
		return errors.Wrapf(types.ErrUnknownAsset, "destination asset %d", to)
	}
	dst, exists := t.store.Get(to, attr)
	if exists && src.Value > math.MaxUint64-dst.Value {
		return errors.Wrapf(types.ErrOverflow, "asset %d attribute %d", to, attr)
	}

	// All checks passed; commit.
	amount := src.Value
	now := t.now().UTC()
	t.store.Delete(from, attr)
	delete(t.approvals, k)
	if exists {
		dst.Value += amount
		dst.UpdatedAt = now
	} else {
		dst = &types.Attachment{
			AssetID:     to,
			AttributeID: attr,
			Value:       amount,
			AttachedAt:  now,
			UpdatedAt:   now,
		}
		if err := t.store.Put(dst); err != nil {
			return errors.AssertionFailedf("destination appeared during transfer: %v", err)
		}
	}

	t.record(types.EventTransfer, to, attr, from, dst.Value)
	t.logger.Infow("attribute transferred", "from", from, "to", to, "attribute", attr, "amount", amount)
	return nil
}

// Approved returns the destination of the pending approval for (from,
// attr), if any.
func (t *Transferable) Approved(from types.AssetID, attr types.AttributeID) (types.AssetID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ap, ok := t.approvals[recordKey{from, attr}]
	if !ok {
		return 0, false
	}
	return ap.ToAsset, true
}

// AttributeValue returns the attached value.
func (t *Transferable) AttributeValue(asset types.AssetID, attr types.AttributeID) (uint64, error) {
	return t.value(asset, attr)
}

// Detach removes the attachment and any approval pending on it.
func (t *Transferable) Detach(c types.Capability, asset types.AssetID, attr types.AttributeID) error {
	if err := t.guard(c, assets(asset), attr); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.detachLocked(asset, attr); err != nil {
		return err
	}
	delete(t.approvals, recordKey{asset, attr})
	return nil
}

// OnAssetDestroyed settles approvals pending on the destroyed asset, moving
// their value to the approved destination while it still exists, then
// removes what is left on the asset and drops approvals naming it as
// destination.
func (t *Transferable) OnAssetDestroyed(asset types.AssetID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, attr := range t.store.AttributesOf(asset) {
		ap, ok := t.approvals[recordKey{asset, attr}]
		if !ok {
			continue
		}
		if err := t.transferLocked(asset, ap.ToAsset, attr); err != nil {
			t.logger.Warnw("pending transfer not settled on destroy",
				"asset", asset, "attribute", attr, "to", ap.ToAsset, "error", err)
		}
	}

	t.purgeLocked(asset)
	for k, ap := range t.approvals {
		if ap.FromAsset == asset || ap.ToAsset == asset {
			delete(t.approvals, k)
		}
	}
}

// State returns the catalog, attachments and pending approvals.
func (t *Transferable) State() types.ModuleState {
	st := t.module.State()

	t.mu.RLock()
	defer t.mu.RUnlock()

	st.Approvals = make([]*types.Approval, 0, len(t.approvals))
	for _, ap := range t.approvals {
		c := *ap
		st.Approvals = append(st.Approvals, &c)
	}
	sort.Slice(st.Approvals, func(i, j int) bool {
		if st.Approvals[i].FromAsset != st.Approvals[j].FromAsset {
			return st.Approvals[i].FromAsset < st.Approvals[j].FromAsset
		}
		return st.Approvals[i].AttributeID < st.Approvals[j].AttributeID
	})
	return st
}

// Restore replaces catalog, attachments and approvals with st. Every
// approval must name an attached source and a different destination.
func (t *Transferable) Restore(st types.ModuleState) error {
	catalog, store, err := t.build(st)
	if err != nil {
		return err
	}
	approvals := make(map[recordKey]*types.Approval, len(st.Approvals))
	for _, ap := range st.Approvals {
		if !ap.ToAsset.Valid() || ap.ToAsset == ap.FromAsset {
			return errors.Wrapf(types.ErrInvalidID, "restoring approval from asset %d", ap.FromAsset)
		}
		if !store.Has(ap.FromAsset, ap.AttributeID) {
			return errors.Wrapf(types.ErrNotAttached, "restoring approval from asset %d attribute %d", ap.FromAsset, ap.AttributeID)
		}
		c := *ap
		approvals[recordKey{ap.FromAsset, ap.AttributeID}] = &c
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.catalog, t.store, t.approvals = catalog, store, approvals
	return nil
}
