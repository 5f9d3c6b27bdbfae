package attribute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DRepublic-io/gNFT/pkg/types"
)

func TestModuleStateRoundTrip(t *testing.T) {
	u := newTestUpgradable(t)
	require.NoError(t, u.Attach(operator, ironSword, prefix))
	require.NoError(t, u.UpgradeLevel(operator, ironSword, prefix, 2))

	st := u.State()
	assert.Equal(t, types.BehaviorUpgradable, st.Behavior)
	require.Len(t, st.Definitions, 1)
	require.Len(t, st.Attachments, 1)

	fresh := NewUpgradable(testOptions(newFakeLedger(ironSword), nil))
	require.NoError(t, fresh.Restore(st))

	lvl, err := fresh.Level(ironSword, prefix)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), lvl)
	require.NoError(t, fresh.UpgradeLevel(operator, ironSword, prefix, 3))
}

func TestModuleRestoreRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(st *types.ModuleState)
		wantErr error
	}{
		{
			name:    "wrong behavior",
			mutate:  func(st *types.ModuleState) { st.Behavior = types.BehaviorGeneric },
			wantErr: types.ErrInvalidBehavior,
		},
		{
			name:    "level past the top",
			mutate:  func(st *types.ModuleState) { st.Attachments[0].Level = 4 },
			wantErr: types.ErrInvalidLevel,
		},
		{
			name:    "undefined attribute",
			mutate:  func(st *types.ModuleState) { st.Attachments[0].AttributeID = attack },
			wantErr: types.ErrNotFound,
		},
		{
			name: "duplicate attachment",
			mutate: func(st *types.ModuleState) {
				st.Attachments = append(st.Attachments, st.Attachments[0].Clone())
			},
			wantErr: types.ErrAlreadyAttached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newTestUpgradable(t)
			require.NoError(t, u.Attach(operator, ironSword, prefix))

			st := u.State()
			tt.mutate(&st)
			assert.ErrorIs(t, u.Restore(st), tt.wantErr)

			lvl, err := u.Level(ironSword, prefix)
			require.NoError(t, err)
			assert.Equal(t, uint32(1), lvl)
		})
	}
}

func TestModuleStateIsDetached(t *testing.T) {
	g, _ := newTestGeneric(t, nil)
	require.NoError(t, g.Create(operator, attack, "attack", "", 0))
	require.NoError(t, g.Attach(operator, ironSword, attack, 100))

	st := g.State()
	st.Attachments[0].Value = 1
	st.Definitions[0].Name = "changed"

	v, _ := g.AttributeValue(ironSword, attack)
	assert.Equal(t, uint64(100), v)
	name, _ := g.Name(attack)
	assert.Equal(t, "attack", name)
}
