package types

import (
	"math"
	"time"
)

// Attachment binds one attribute instance to one asset. Value is the
// counter for generic and transferable attributes and the current stage
// value for evolutive ones. Level is used by upgradable attributes; Stage,
// AnchorTick and LastTick by evolutive ones.
type Attachment struct {
	AssetID     AssetID     `json:"asset_id"`
	AttributeID AttributeID `json:"attribute_id"`
	Value       uint64      `json:"value"`
	Level       uint32      `json:"level,omitempty"`
	Stage       uint32      `json:"stage,omitempty"`
	AnchorTick  uint64      `json:"anchor_tick,omitempty"`
	LastTick    uint64      `json:"last_tick,omitempty"`
	AttachedAt  time.Time   `json:"attached_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Increase adds delta to Value and stamps UpdatedAt with now.
// Returns ErrOverflow, leaving Value unchanged, if the sum does not fit.
func (a *Attachment) Increase(delta uint64, now time.Time) error {
	if delta > math.MaxUint64-a.Value {
		return ErrOverflow
	}
	a.Value += delta
	a.UpdatedAt = now
	return nil
}

// Decrease subtracts delta from Value.
// Returns ErrUnderflow, leaving Value unchanged, if delta exceeds Value.
func (a *Attachment) Decrease(delta uint64, now time.Time) error {
	if delta > a.Value {
		return ErrUnderflow
	}
	a.Value -= delta
	a.UpdatedAt = now
	return nil
}

// Upgrade moves Level forward by exactly one tier. target must equal
// Level+1 and must not exceed the definition's MaxLevel; anything else
// (skipping, repeating, downgrading, going past the top) returns
// ErrInvalidLevel and leaves Level unchanged.
func (a *Attachment) Upgrade(def *Definition, target uint32, now time.Time) error {
	if a.Level == math.MaxUint32 || target != a.Level+1 || target > def.MaxLevel {
		return ErrInvalidLevel
	}
	a.Level = target
	a.UpdatedAt = now
	return nil
}

// AtTopLevel reports whether the ladder is exhausted.
func (a *Attachment) AtTopLevel(def *Definition) bool {
	return a.Level >= def.MaxLevel
}

// Elapsed returns the ticks accumulated since the attachment was anchored.
// A tick earlier than the anchor counts as zero elapsed.
func (a *Attachment) Elapsed(ticks uint64) uint64 {
	if ticks < a.AnchorTick {
		return 0
	}
	return ticks - a.AnchorTick
}

// Evolve advances Stage while the next stage's threshold is met by the
// ticks accumulated since attach, then sets Value to the current stage's
// value. It reports whether the stage changed. At the terminal stage it is
// a no-op.
func (a *Attachment) Evolve(def *Definition, ticks uint64, now time.Time) bool {
	last := uint32(def.StageCount() - 1)
	if a.Stage >= last {
		return false
	}
	elapsed := a.Elapsed(ticks)
	start := a.Stage
	for a.Stage < last && elapsed >= def.StageThresholds[a.Stage+1] {
		a.Stage++
	}
	if ticks > a.LastTick {
		a.LastTick = ticks
	}
	a.Value = def.StageValues[a.Stage]
	a.UpdatedAt = now
	return a.Stage != start
}

// Terminal reports whether an evolutive attachment reached its last stage.
func (a *Attachment) Terminal(def *Definition) bool {
	return int(a.Stage) >= def.StageCount()-1
}

// Clone returns a copy of the attachment.
func (a *Attachment) Clone() *Attachment {
	c := *a
	return &c
}

// Approval is a pending Transferable authorization: the value of
// AttributeID on FromAsset may move to ToAsset.
type Approval struct {
	FromAsset   AssetID     `json:"from_asset"`
	AttributeID AttributeID `json:"attribute_id"`
	ToAsset     AssetID     `json:"to_asset"`
	CreatedAt   time.Time   `json:"created_at"`
}
