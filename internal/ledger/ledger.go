// Package ledger is an in-memory multi-asset ledger: accounts hold
// quantities of assets, the ledger owner mints, holders transfer and burn.
// It implements types.Ledger so the attribute engine can ask whether an
// asset exists and learn when one is destroyed.
package ledger

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

// Ledger tracks assets, balances and operator approvals.
type Ledger struct {
	mu        sync.RWMutex
	owner     types.Account
	assets    map[types.AssetID]*types.Asset
	balances  map[types.AssetID]map[types.Account]uint64
	operators map[types.Account]map[types.Account]bool

	subMu       sync.Mutex
	subscribers []func(types.AssetID)

	logger *zap.SugaredLogger
}

// New returns an empty ledger whose minting rights belong to owner.
func New(owner types.Account, logger *zap.SugaredLogger) *Ledger {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Ledger{
		owner:     owner,
		assets:    make(map[types.AssetID]*types.Asset),
		balances:  make(map[types.AssetID]map[types.Account]uint64),
		operators: make(map[types.Account]map[types.Account]bool),
		logger:    logger.With("component", "ledger"),
	}
}

// Owner returns the account allowed to create assets.
func (l *Ledger) Owner() types.Account {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.owner
}

// Create mints qty units of a new asset to account to. Only the ledger
// owner may create. uri may contain "{id}", which URI expands.
func (l *Ledger) Create(caller, to types.Account, asset types.AssetID, qty uint64, uri string) error {
	if !asset.Valid() {
		return types.ErrInvalidID
	}
	if to == "" {
		return errors.Wrap(types.ErrInvalidAccount, "recipient")
	}
	if qty == 0 {
		return types.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return errors.Wrapf(types.ErrUnauthorized, "account %q cannot create assets", caller)
	}
	if _, ok := l.assets[asset]; ok {
		return errors.Wrapf(types.ErrAssetExists, "asset %d", asset)
	}
	l.assets[asset] = &types.Asset{
		AssetID:   asset,
		Creator:   caller,
		URI:       uri,
		Supply:    qty,
		CreatedAt: time.Now().UTC(),
	}
	l.balances[asset] = map[types.Account]uint64{to: qty}
	l.logger.Infow("asset created", "asset", asset, "to", to, "qty", qty)
	return nil
}

// AssetExists reports whether asset has a positive supply.
func (l *Ledger) AssetExists(asset types.AssetID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.assets[asset]
	return ok
}

// Asset returns a copy of the asset record.
func (l *Ledger) Asset(asset types.AssetID) (types.Asset, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.assets[asset]
	if !ok {
		return types.Asset{}, errors.Wrapf(types.ErrUnknownAsset, "asset %d", asset)
	}
	return *a, nil
}

// Assets returns every existing asset ordered by id.
func (l *Ledger) Assets() []types.Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]types.Asset, 0, len(l.assets))
	for _, a := range l.assets {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssetID < out[j].AssetID })
	return out
}

// BalanceOf returns how much of asset account holds.
func (l *Ledger) BalanceOf(account types.Account, asset types.AssetID) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[asset][account]
}

// TotalSupply returns the outstanding supply of asset, zero once destroyed.
func (l *Ledger) TotalSupply(asset types.AssetID) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if a, ok := l.assets[asset]; ok {
		return a.Supply
	}
	return 0
}

// URI returns the asset's metadata URI with "{id}" replaced by the
// lowercase hex id zero-padded to 64 characters.
func (l *Ledger) URI(asset types.AssetID) (string, error) {
	a, err := l.Asset(asset)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(a.URI, "{id}", fmt.Sprintf("%064x", uint64(asset))), nil
}

// SetApprovalForAll lets operator move every asset owner holds, or
// withdraws that right.
func (l *Ledger) SetApprovalForAll(owner, operator types.Account, approved bool) error {
	if owner == "" || operator == "" {
		return types.ErrInvalidAccount
	}
	if owner == operator {
		return errors.Wrap(types.ErrInvalidAccount, "cannot approve self as operator")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if approved {
		if l.operators[owner] == nil {
			l.operators[owner] = make(map[types.Account]bool)
		}
		l.operators[owner][operator] = true
	} else if ops, ok := l.operators[owner]; ok {
		delete(ops, operator)
		if len(ops) == 0 {
			delete(l.operators, owner)
		}
	}
	l.logger.Debugw("operator approval set", "owner", owner, "operator", operator, "approved", approved)
	return nil
}

// IsApprovedForAll reports whether operator may move owner's assets.
func (l *Ledger) IsApprovedForAll(owner, operator types.Account) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.operators[owner][operator]
}

// SafeTransferFrom moves qty of asset from one account to another. caller
// must be from or an operator approved by from.
func (l *Ledger) SafeTransferFrom(caller, from, to types.Account, asset types.AssetID, qty uint64) error {
	if from == "" || to == "" {
		return types.ErrInvalidAccount
	}
	if qty == 0 {
		return types.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != from && !l.operators[from][caller] {
		return errors.Wrapf(types.ErrUnauthorized, "account %q may not move assets of %q", caller, from)
	}
	bal, ok := l.balances[asset]
	if !ok {
		return errors.Wrapf(types.ErrUnknownAsset, "asset %d", asset)
	}
	if bal[from] < qty {
		return errors.Wrapf(types.ErrInsufficientBalance, "account %q holds %d of asset %d", from, bal[from], asset)
	}
	if from != to && bal[to] > math.MaxUint64-qty {
		return errors.Wrapf(types.ErrOverflow, "account %q balance of asset %d", to, asset)
	}
	bal[from] -= qty
	bal[to] += qty
	if bal[from] == 0 {
		delete(bal, from)
	}
	l.logger.Debugw("asset transferred", "asset", asset, "from", from, "to", to, "qty", qty)
	return nil
}

// Burn destroys qty of asset held by caller. When the supply reaches zero
// the asset stops existing and destroy subscribers are notified after the
// ledger is unlocked.
func (l *Ledger) Burn(caller types.Account, asset types.AssetID, qty uint64) error {
	if qty == 0 {
		return types.ErrInvalidAmount
	}
	destroyed, err := l.burn(caller, asset, qty)
	if err != nil {
		return err
	}
	if destroyed {
		l.notifyDestroyed(asset)
	}
	return nil
}

func (l *Ledger) burn(caller types.Account, asset types.AssetID, qty uint64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.assets[asset]
	if !ok {
		return false, errors.Wrapf(types.ErrUnknownAsset, "asset %d", asset)
	}
	bal := l.balances[asset]
	if bal[caller] < qty {
		return false, errors.Wrapf(types.ErrInsufficientBalance, "account %q holds %d of asset %d", caller, bal[caller], asset)
	}
	bal[caller] -= qty
	if bal[caller] == 0 {
		delete(bal, caller)
	}
	a.Supply -= qty
	l.logger.Infow("asset burned", "asset", asset, "account", caller, "qty", qty, "supply", a.Supply)
	if a.Supply > 0 {
		return false, nil
	}
	delete(l.assets, asset)
	delete(l.balances, asset)
	return true, nil
}

// OnAssetDestroyed registers fn to run after an asset's supply reaches
// zero. Subscribers run in registration order on the burning goroutine.
func (l *Ledger) OnAssetDestroyed(fn func(types.AssetID)) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

func (l *Ledger) notifyDestroyed(asset types.AssetID) {
	l.subMu.Lock()
	subs := append([]func(types.AssetID){}, l.subscribers...)
	l.subMu.Unlock()

	l.logger.Infow("asset destroyed", "asset", asset, "subscribers", len(subs))
	for _, fn := range subs {
		fn(asset)
	}
}

// Snapshot returns the ledger's persisted form, ordered for stable output.
func (l *Ledger) Snapshot() types.LedgerState {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st := types.LedgerState{Owner: l.owner}
	for _, a := range l.assets {
		st.Assets = append(st.Assets, *a)
	}
	sort.Slice(st.Assets, func(i, j int) bool { return st.Assets[i].AssetID < st.Assets[j].AssetID })

	for asset, bal := range l.balances {
		for account, amount := range bal {
			st.Balances = append(st.Balances, types.Balance{Account: account, AssetID: asset, Amount: amount})
		}
	}
	sort.Slice(st.Balances, func(i, j int) bool {
		if st.Balances[i].AssetID != st.Balances[j].AssetID {
			return st.Balances[i].AssetID < st.Balances[j].AssetID
		}
		return st.Balances[i].Account < st.Balances[j].Account
	})

	for owner, ops := range l.operators {
		for op := range ops {
			st.Operators = append(st.Operators, types.OperatorApproval{Owner: owner, Operator: op})
		}
	}
	sort.Slice(st.Operators, func(i, j int) bool {
		if st.Operators[i].Owner != st.Operators[j].Owner {
			return st.Operators[i].Owner < st.Operators[j].Owner
		}
		return st.Operators[i].Operator < st.Operators[j].Operator
	})
	return st
}

// Restore replaces the ledger's contents with st. Balances must name
// existing assets and sum to each asset's supply. Subscribers are kept.
func (l *Ledger) Restore(st types.LedgerState) error {
	assets := make(map[types.AssetID]*types.Asset, len(st.Assets))
	balances := make(map[types.AssetID]map[types.Account]uint64, len(st.Assets))
	for _, a := range st.Assets {
		if !a.AssetID.Valid() || a.Supply == 0 {
			return errors.Wrapf(types.ErrInvalidID, "restoring asset %d", a.AssetID)
		}
		if _, dup := assets[a.AssetID]; dup {
			return errors.Wrapf(types.ErrAssetExists, "restoring asset %d", a.AssetID)
		}
		c := a
		assets[a.AssetID] = &c
		balances[a.AssetID] = make(map[types.Account]uint64)
	}

	sums := make(map[types.AssetID]uint64, len(assets))
	for _, b := range st.Balances {
		bal, ok := balances[b.AssetID]
		if !ok {
			return errors.Wrapf(types.ErrUnknownAsset, "restoring balance of %q", b.Account)
		}
		if b.Amount == 0 {
			continue
		}
		if sums[b.AssetID] > math.MaxUint64-b.Amount {
			return errors.Wrapf(types.ErrOverflow, "restoring balances of asset %d", b.AssetID)
		}
		bal[b.Account] += b.Amount
		sums[b.AssetID] += b.Amount
	}
	for id, a := range assets {
		if sums[id] != a.Supply {
			return errors.Newf("restoring asset %d: balances sum to %d, supply is %d", id, sums[id], a.Supply)
		}
	}

	operators := make(map[types.Account]map[types.Account]bool)
	for _, op := range st.Operators {
		if operators[op.Owner] == nil {
			operators[op.Owner] = make(map[types.Account]bool)
		}
		operators[op.Owner][op.Operator] = true
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.owner = st.Owner
	l.assets, l.balances, l.operators = assets, balances, operators
	return nil
}
