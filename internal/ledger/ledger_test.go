package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DRepublic-io/gNFT/pkg/types"
)

const (
	owner types.Account = "studio"
	alice types.Account = "alice"
	bob   types.Account = "bob"

	sword types.AssetID = 10002
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := New(owner, zap.NewNop().Sugar())
	require.NoError(t, l.Create(owner, alice, sword, 3, "https://game.example/items/{id}.json"))
	return l
}

func TestCreate(t *testing.T) {
	l := newTestLedger(t)

	assert.True(t, l.AssetExists(sword))
	assert.Equal(t, uint64(3), l.BalanceOf(alice, sword))
	assert.Equal(t, uint64(3), l.TotalSupply(sword))

	err := l.Create(owner, bob, sword, 1, "")
	assert.ErrorIs(t, err, types.ErrAssetExists)
	assert.Equal(t, uint64(0), l.BalanceOf(bob, sword))
}

func TestCreateErrors(t *testing.T) {
	tests := []struct {
		name    string
		caller  types.Account
		to      types.Account
		asset   types.AssetID
		qty     uint64
		wantErr error
	}{
		{name: "not owner", caller: alice, to: alice, asset: 1, qty: 1, wantErr: types.ErrUnauthorized},
		{name: "zero id", caller: owner, to: alice, asset: 0, qty: 1, wantErr: types.ErrInvalidID},
		{name: "no recipient", caller: owner, to: "", asset: 1, qty: 1, wantErr: types.ErrInvalidAccount},
		{name: "zero qty", caller: owner, to: alice, asset: 1, qty: 0, wantErr: types.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(owner, nil)
			err := l.Create(tt.caller, tt.to, tt.asset, tt.qty, "")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, l.AssetExists(tt.asset))
		})
	}
}

func TestURI(t *testing.T) {
	l := newTestLedger(t)

	uri, err := l.URI(sword)
	require.NoError(t, err)
	assert.Equal(t, "https://game.example/items/0000000000000000000000000000000000000000000000000000000000002712.json", uri)

	_, err = l.URI(99)
	assert.ErrorIs(t, err, types.ErrUnknownAsset)
}

func TestSafeTransferFrom(t *testing.T) {
	l := newTestLedger(t)

	require.NoError(t, l.SafeTransferFrom(alice, alice, bob, sword, 2))
	assert.Equal(t, uint64(1), l.BalanceOf(alice, sword))
	assert.Equal(t, uint64(2), l.BalanceOf(bob, sword))

	err := l.SafeTransferFrom(alice, alice, bob, sword, 5)
	assert.ErrorIs(t, err, types.ErrInsufficientBalance)

	err = l.SafeTransferFrom(bob, alice, bob, sword, 1)
	assert.ErrorIs(t, err, types.ErrUnauthorized)

	require.NoError(t, l.SetApprovalForAll(alice, bob, true))
	assert.True(t, l.IsApprovedForAll(alice, bob))
	require.NoError(t, l.SafeTransferFrom(bob, alice, bob, sword, 1))
	assert.Equal(t, uint64(0), l.BalanceOf(alice, sword))
	assert.Equal(t, uint64(3), l.TotalSupply(sword), "transfers conserve supply")

	require.NoError(t, l.SetApprovalForAll(alice, bob, false))
	assert.False(t, l.IsApprovedForAll(alice, bob))

	err = l.SafeTransferFrom(alice, alice, bob, 99, 1)
	assert.ErrorIs(t, err, types.ErrUnknownAsset)
}

func TestSetApprovalForAllErrors(t *testing.T) {
	l := newTestLedger(t)
	assert.ErrorIs(t, l.SetApprovalForAll(alice, alice, true), types.ErrInvalidAccount)
	assert.ErrorIs(t, l.SetApprovalForAll("", bob, true), types.ErrInvalidAccount)
}

func TestBurnDestroysAtZeroSupply(t *testing.T) {
	l := newTestLedger(t)
	var destroyed []types.AssetID
	l.OnAssetDestroyed(func(id types.AssetID) {
		// Subscribers may query the ledger without deadlocking.
		assert.False(t, l.AssetExists(id))
		destroyed = append(destroyed, id)
	})

	require.NoError(t, l.Burn(alice, sword, 2))
	assert.True(t, l.AssetExists(sword))
	assert.Empty(t, destroyed)

	assert.ErrorIs(t, l.Burn(bob, sword, 1), types.ErrInsufficientBalance)

	require.NoError(t, l.Burn(alice, sword, 1))
	assert.False(t, l.AssetExists(sword))
	assert.Equal(t, uint64(0), l.TotalSupply(sword))
	assert.Equal(t, []types.AssetID{sword}, destroyed)

	assert.ErrorIs(t, l.Burn(alice, sword, 1), types.ErrUnknownAsset)

	// A destroyed id can be minted again.
	require.NoError(t, l.Create(owner, bob, sword, 1, ""))
	assert.True(t, l.AssetExists(sword))
}

func TestSnapshotRestore(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.SafeTransferFrom(alice, alice, bob, sword, 1))
	require.NoError(t, l.SetApprovalForAll(alice, bob, true))

	st := l.Snapshot()
	assert.Equal(t, owner, st.Owner)
	require.Len(t, st.Assets, 1)
	require.Len(t, st.Balances, 2)
	require.Len(t, st.Operators, 1)

	other := New("", nil)
	require.NoError(t, other.Restore(st))
	assert.Equal(t, owner, other.Owner())
	assert.Equal(t, uint64(2), other.BalanceOf(alice, sword))
	assert.Equal(t, uint64(1), other.BalanceOf(bob, sword))
	assert.True(t, other.IsApprovedForAll(alice, bob))
	assert.Equal(t, st, other.Snapshot())
}

func TestRestoreRejectsInconsistentBalances(t *testing.T) {
	l := newTestLedger(t)
	st := l.Snapshot()
	st.Balances[0].Amount++

	other := New(owner, nil)
	assert.Error(t, other.Restore(st))
	assert.False(t, other.AssetExists(sword))
}
