package attribute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DRepublic-io/gNFT/pkg/types"
)

func TestStorePutGetDelete(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Put(&types.Attachment{AssetID: ironSword, AttributeID: attack, Value: 100}))
	require.NoError(t, s.Put(&types.Attachment{AssetID: ironSword, AttributeID: frost, Value: 7}))
	require.NoError(t, s.Put(&types.Attachment{AssetID: ironSwordB, AttributeID: attack, Value: 1}))

	err := s.Put(&types.Attachment{AssetID: ironSword, AttributeID: attack, Value: 5})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)

	a, ok := s.Get(ironSword, attack)
	require.True(t, ok)
	assert.Equal(t, uint64(100), a.Value, "duplicate Put must not overwrite")

	assert.ElementsMatch(t, []types.AttributeID{attack, frost}, s.AttributesOf(ironSword))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.Assets())

	removed, ok := s.Delete(ironSword, attack)
	require.True(t, ok)
	assert.Equal(t, uint64(100), removed.Value)
	assert.False(t, s.Has(ironSword, attack))
	assert.Equal(t, []types.AttributeID{frost}, s.AttributesOf(ironSword))

	_, ok = s.Delete(ironSword, attack)
	assert.False(t, ok, "second delete finds nothing")
}

func TestStoreDropsEmptyIndex(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Put(&types.Attachment{AssetID: ironSword, AttributeID: attack}))

	s.Delete(ironSword, attack)

	assert.Nil(t, s.AttributesOf(ironSword))
	assert.Equal(t, 0, s.Assets())
}

func TestStoreCopiesAreDetached(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Put(&types.Attachment{AssetID: ironSword, AttributeID: attack, Value: 100}))

	list := s.AttachmentsOf(ironSword)
	require.Len(t, list, 1)
	list[0].Value = 0

	all := s.All()
	all[0].Value = 0

	a, _ := s.Get(ironSword, attack)
	assert.Equal(t, uint64(100), a.Value)
}

func TestStoreAllOrdered(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Put(&types.Attachment{AssetID: ironSwordB, AttributeID: frost}))
	require.NoError(t, s.Put(&types.Attachment{AssetID: ironSword, AttributeID: frost}))
	require.NoError(t, s.Put(&types.Attachment{AssetID: ironSword, AttributeID: attack}))

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, ironSword, all[0].AssetID)
	assert.Equal(t, frost, all[0].AttributeID)
	assert.Equal(t, ironSword, all[1].AssetID)
	assert.Equal(t, attack, all[1].AttributeID)
	assert.Equal(t, ironSwordB, all[2].AssetID)
}
