package types

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var stamp = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestAttachmentIncreaseDecrease(t *testing.T) {
	tests := []struct {
		name      string
		initial   uint64
		increase  uint64
		decrease  uint64
		wantErr   error
		wantValue uint64
	}{
		{name: "increase then decrease", initial: 100, increase: 10, decrease: 10, wantValue: 100},
		{name: "decrease to zero", initial: 100, decrease: 100, wantValue: 0},
		{name: "decrease past zero", initial: 110, decrease: 200, wantErr: ErrUnderflow, wantValue: 110},
		{name: "increase past max", initial: math.MaxUint64, increase: 1, wantErr: ErrOverflow, wantValue: math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Attachment{AssetID: 10002, AttributeID: 20002, Value: tt.initial}

			var err error
			if tt.increase > 0 {
				err = a.Increase(tt.increase, stamp)
			}
			if err == nil && tt.decrease > 0 {
				err = a.Decrease(tt.decrease, stamp)
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantValue, a.Value, "value after operations")
			if tt.wantErr == nil {
				assert.Equal(t, stamp, a.UpdatedAt)
			}
		})
	}
}

func TestAttachmentUpgrade(t *testing.T) {
	def := &Definition{Behavior: BehaviorUpgradable, MaxLevel: 3}

	tests := []struct {
		name      string
		level     uint32
		target    uint32
		wantErr   error
		wantLevel uint32
	}{
		{name: "one to two", level: 1, target: 2, wantLevel: 2},
		{name: "two to three", level: 2, target: 3, wantLevel: 3},
		{name: "skip a tier", level: 1, target: 3, wantErr: ErrInvalidLevel, wantLevel: 1},
		{name: "downgrade", level: 2, target: 1, wantErr: ErrInvalidLevel, wantLevel: 2},
		{name: "same level", level: 2, target: 2, wantErr: ErrInvalidLevel, wantLevel: 2},
		{name: "past top", level: 3, target: 4, wantErr: ErrInvalidLevel, wantLevel: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Attachment{Level: tt.level, UpdatedAt: stamp.Add(-time.Hour)}
			before := a.UpdatedAt

			err := a.Upgrade(def, tt.target, stamp)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, a.UpdatedAt, "UpdatedAt should not change on error")
			} else {
				assert.NoError(t, err)
				assert.Equal(t, stamp, a.UpdatedAt)
			}
			assert.Equal(t, tt.wantLevel, a.Level)
		})
	}
}

func TestAttachmentEvolve(t *testing.T) {
	def := &Definition{
		Behavior:        BehaviorEvolutive,
		StageThresholds: []uint64{0, 80, 200},
		StageValues:     []uint64{10, 20, 30},
	}

	tests := []struct {
		name        string
		anchor      uint64
		stage       uint32
		ticks       uint64
		wantStage   uint32
		wantValue   uint64
		wantChanged bool
	}{
		{name: "below first threshold", ticks: 60, wantStage: 0, wantValue: 10},
		{name: "exactly at threshold", ticks: 80, wantStage: 1, wantValue: 20, wantChanged: true},
		{name: "jumps two stages", ticks: 500, wantStage: 2, wantValue: 30, wantChanged: true},
		{name: "anchor offsets ticks", anchor: 100, ticks: 150, wantStage: 0, wantValue: 10},
		{name: "tick before anchor", anchor: 100, ticks: 20, wantStage: 0, wantValue: 10},
		{name: "anchor reached", anchor: 100, ticks: 180, wantStage: 1, wantValue: 20, wantChanged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Attachment{AnchorTick: tt.anchor, Stage: tt.stage, Value: def.StageValues[tt.stage]}

			changed := a.Evolve(def, tt.ticks, stamp)

			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantStage, a.Stage)
			assert.Equal(t, tt.wantValue, a.Value)
			assert.Equal(t, stamp, a.UpdatedAt)
		})
	}
}

func TestAttachmentEvolveTerminalIsNoop(t *testing.T) {
	def := &Definition{StageThresholds: []uint64{0, 80}, StageValues: []uint64{1, 2}}
	a := &Attachment{Stage: 1, Value: 2, LastTick: 80}
	before := *a

	assert.False(t, a.Evolve(def, 10_000, stamp))
	assert.Equal(t, before, *a)
	assert.True(t, a.Terminal(def))
}
