package engine

import (
	"sync"

	"github.com/DRepublic-io/gNFT/pkg/types"
)

// Journal is the ordered, append-only list of mutation events shared by all
// modules of an engine. It implements types.Recorder.
type Journal struct {
	mu     sync.RWMutex
	events []types.Event
}

// Record appends e.
func (j *Journal) Record(e types.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, e)
}

// Events returns a copy of the journal in recording order.
func (j *Journal) Events() []types.Event {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]types.Event, len(j.events))
	copy(out, j.events)
	return out
}

// Since returns the events recorded after the first n.
func (j *Journal) Since(n int) []types.Event {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if n < 0 {
		n = 0
	}
	if n >= len(j.events) {
		return nil
	}
	out := make([]types.Event, len(j.events)-n)
	copy(out, j.events[n:])
	return out
}

// Len returns the number of events.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.events)
}

func (j *Journal) reset(events []types.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append([]types.Event(nil), events...)
}
