package attribute

import (
	"sort"

	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/internal/indexset"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

type recordKey struct {
	asset types.AssetID
	attr  types.AttributeID
}

// Store holds the attachments of one module: a record per (asset,
// attribute) pair plus, per asset, the set of attached attribute ids. Per
// asset scans only touch that set. Store does no locking of its own.
type Store struct {
	records map[recordKey]*types.Attachment
	index   map[types.AssetID]*indexset.Set[types.AttributeID]
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[recordKey]*types.Attachment),
		index:   make(map[types.AssetID]*indexset.Set[types.AttributeID]),
	}
}

// Get returns the stored attachment. The pointer is live; mutations through
// it change the store.
func (s *Store) Get(asset types.AssetID, attr types.AttributeID) (*types.Attachment, bool) {
	a, ok := s.records[recordKey{asset, attr}]
	return a, ok
}

// Has reports whether the pair is attached.
func (s *Store) Has(asset types.AssetID, attr types.AttributeID) bool {
	_, ok := s.records[recordKey{asset, attr}]
	return ok
}

// Put adds a new attachment and indexes it. Returns ErrAlreadyAttached if
// the pair already has one.
func (s *Store) Put(a *types.Attachment) error {
	k := recordKey{a.AssetID, a.AttributeID}
	if _, ok := s.records[k]; ok {
		return errors.Wrapf(types.ErrAlreadyAttached, "asset %d attribute %d", a.AssetID, a.AttributeID)
	}
	s.records[k] = a
	set, ok := s.index[a.AssetID]
	if !ok {
		set = &indexset.Set[types.AttributeID]{}
		s.index[a.AssetID] = set
	}
	set.Insert(a.AttributeID)
	return nil
}

// Delete removes the attachment and its index entry, returning what was
// removed. An asset whose index becomes empty is dropped from the index.
func (s *Store) Delete(asset types.AssetID, attr types.AttributeID) (*types.Attachment, bool) {
	k := recordKey{asset, attr}
	a, ok := s.records[k]
	if !ok {
		return nil, false
	}
	delete(s.records, k)
	if set, ok := s.index[asset]; ok {
		set.Remove(attr)
		if set.Len() == 0 {
			delete(s.index, asset)
		}
	}
	return a, true
}

// AttributesOf returns the attribute ids attached to asset, unordered.
func (s *Store) AttributesOf(asset types.AssetID) []types.AttributeID {
	set, ok := s.index[asset]
	if !ok {
		return nil
	}
	return set.Items()
}

// AttachmentsOf returns copies of the attachments on asset ordered by
// attribute id.
func (s *Store) AttachmentsOf(asset types.AssetID) []*types.Attachment {
	ids := s.AttributesOf(asset)
	out := make([]*types.Attachment, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.records[recordKey{asset, id}].Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttributeID < out[j].AttributeID })
	return out
}

// All returns copies of every attachment ordered by asset then attribute.
func (s *Store) All() []*types.Attachment {
	out := make([]*types.Attachment, 0, len(s.records))
	for _, a := range s.records {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AssetID != out[j].AssetID {
			return out[i].AssetID < out[j].AssetID
		}
		return out[i].AttributeID < out[j].AttributeID
	})
	return out
}

// Len returns the number of attachments.
func (s *Store) Len() int {
	return len(s.records)
}

// Assets returns the number of assets with at least one attachment.
func (s *Store) Assets() int {
	return len(s.index)
}
