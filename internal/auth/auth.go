// Package auth issues and checks the capability tokens that mark a caller
// as the privileged operator of the attribute engine.
package auth

import (
	"crypto/subtle"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

// Authority holds the tokens currently granted. It implements
// types.Authorizer. The zero value grants nothing.
type Authority struct {
	mu     sync.RWMutex
	grants map[string]types.Grant // keyed by name
}

// New returns an authority with no grants.
func New() *Authority {
	return &Authority{grants: make(map[string]types.Grant)}
}

// Grant issues a fresh token to name, replacing any token name held.
func (a *Authority) Grant(name string) (types.Grant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Grant{}, errors.New("operator name must not be empty")
	}
	g := types.Grant{
		Name:      name,
		Token:     newToken(),
		CreatedAt: time.Now().UTC(),
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.grants == nil {
		a.grants = make(map[string]types.Grant)
	}
	a.grants[name] = g
	return g, nil
}

// Revoke withdraws name's token. It reports whether name held one.
func (a *Authority) Revoke(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.grants[name]; !ok {
		return false
	}
	delete(a.grants, name)
	return true
}

// Authorize returns nil if c carries a granted token. Every grant is
// compared in constant time.
func (a *Authority) Authorize(c types.Capability) error {
	if c.Token == "" {
		return errors.WithHint(types.ErrUnauthorized, "no operator token supplied")
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	ok := 0
	for _, g := range a.grants {
		ok |= subtle.ConstantTimeCompare([]byte(c.Token), []byte(g.Token))
	}
	if ok != 1 {
		return types.ErrUnauthorized
	}
	return nil
}

// Grants returns the current grants ordered by name.
func (a *Authority) Grants() []types.Grant {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]types.Grant, 0, len(a.grants))
	for _, g := range a.grants {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Restore replaces the grants with gs.
func (a *Authority) Restore(gs []types.Grant) error {
	grants := make(map[string]types.Grant, len(gs))
	for _, g := range gs {
		if g.Name == "" || g.Token == "" {
			return errors.Newf("restoring grant %q: name and token are required", g.Name)
		}
		grants[g.Name] = g
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.grants = grants
	return nil
}

// newToken generates a UUID v7 token.
func newToken() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
