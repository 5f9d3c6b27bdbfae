package attribute

import (
	"sync"

	"go.uber.org/zap"

	"github.com/DRepublic-io/gNFT/pkg/types"
)

const operatorToken = "operator-token"

var (
	operator = types.Capability{Token: operatorToken}
	intruder = types.Capability{Token: "stolen"}
)

// Assets and attributes from the iron sword walkthrough.
const (
	frostFlower types.AssetID = 10001
	ironSword   types.AssetID = 10002
	crystal     types.AssetID = 10003
	ironSwordB  types.AssetID = 10004

	frost  types.AttributeID = 20001
	attack types.AttributeID = 20002
	prefix types.AttributeID = 20003
	evolve types.AttributeID = 20004
)

type tokenAuth struct{ token string }

func (a tokenAuth) Authorize(c types.Capability) error {
	if c.Token != a.token {
		return types.ErrUnauthorized
	}
	return nil
}

// fakeLedger recognizes a fixed set of assets and counts lookups.
type fakeLedger struct {
	mu      sync.Mutex
	assets  map[types.AssetID]bool
	lookups int
}

func newFakeLedger(ids ...types.AssetID) *fakeLedger {
	l := &fakeLedger{assets: make(map[types.AssetID]bool)}
	for _, id := range ids {
		l.assets[id] = true
	}
	return l
}

func (l *fakeLedger) AssetExists(id types.AssetID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lookups++
	return l.assets[id]
}

func (l *fakeLedger) OnAssetDestroyed(func(types.AssetID)) {}

func (l *fakeLedger) remove(id types.AssetID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.assets, id)
}

// eventLog collects journal entries.
type eventLog struct {
	mu     sync.Mutex
	events []types.Event
}

func (r *eventLog) Record(e types.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventLog) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func testOptions(l *fakeLedger, rec *eventLog) Options {
	opts := Options{
		Ledger: l,
		Auth:   tokenAuth{token: operatorToken},
		Logger: zap.NewNop().Sugar(),
	}
	if rec != nil {
		opts.Recorder = rec
	}
	return opts
}
