package attribute

import (
	"sort"

	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

// Catalog is the registry of attribute definitions for one behavior.
// Definitions are immutable once created. Catalog does no locking of its
// own; the owning module serializes access.
type Catalog struct {
	behavior types.Behavior
	defs     map[types.AttributeID]*types.Definition
}

// NewCatalog returns an empty catalog for behavior b.
func NewCatalog(b types.Behavior) *Catalog {
	return &Catalog{
		behavior: b,
		defs:     make(map[types.AttributeID]*types.Definition),
	}
}

// Create registers def. The definition's behavior must match the catalog's
// and pass Validate. Returns ErrAlreadyExists if the id is taken; the
// existing definition is left untouched.
func (c *Catalog) Create(def *types.Definition) error {
	if def.Behavior != c.behavior {
		return errors.Wrapf(types.ErrInvalidBehavior, "%s catalog cannot hold %q", c.behavior, def.Behavior)
	}
	if err := def.Validate(); err != nil {
		return err
	}
	if _, ok := c.defs[def.AttributeID]; ok {
		return errors.Wrapf(types.ErrAlreadyExists, "attribute %d", def.AttributeID)
	}
	c.defs[def.AttributeID] = def.Clone()
	return nil
}

// Get returns a copy of the definition for id, or ErrNotFound.
func (c *Catalog) Get(id types.AttributeID) (*types.Definition, error) {
	def, err := c.lookup(id)
	if err != nil {
		return nil, err
	}
	return def.Clone(), nil
}

// Name returns the attribute's name.
func (c *Catalog) Name(id types.AttributeID) (string, error) {
	def, err := c.lookup(id)
	if err != nil {
		return "", err
	}
	return def.Name, nil
}

// Description returns the attribute's description.
func (c *Catalog) Description(id types.AttributeID) (string, error) {
	def, err := c.lookup(id)
	if err != nil {
		return "", err
	}
	return def.Description, nil
}

// Decimals returns the attribute's precision.
func (c *Catalog) Decimals(id types.AttributeID) (uint8, error) {
	def, err := c.lookup(id)
	if err != nil {
		return 0, err
	}
	return def.Decimals, nil
}

// Has reports whether id is defined.
func (c *Catalog) Has(id types.AttributeID) bool {
	_, ok := c.defs[id]
	return ok
}

// List returns copies of every definition ordered by attribute id.
func (c *Catalog) List() []*types.Definition {
	out := make([]*types.Definition, 0, len(c.defs))
	for _, def := range c.defs {
		out = append(out, def.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttributeID < out[j].AttributeID })
	return out
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// lookup returns the stored definition without copying. Callers must not
// modify it.
func (c *Catalog) lookup(id types.AttributeID) (*types.Definition, error) {
	def, ok := c.defs[id]
	if !ok {
		return nil, errors.Wrapf(types.ErrNotFound, "%s attribute %d", c.behavior, id)
	}
	return def, nil
}
