package types

import "time"

// Behavior names the attachment behavior a module implements.
type Behavior string

// Attachment behaviors.
const (
	BehaviorGeneric      Behavior = "generic"
	BehaviorUpgradable   Behavior = "upgradable"
	BehaviorTransferable Behavior = "transferable"
	BehaviorEvolutive    Behavior = "evolutive"
)

// Behaviors lists every behavior in a stable order for enumeration.
var Behaviors = []Behavior{
	BehaviorGeneric,
	BehaviorUpgradable,
	BehaviorTransferable,
	BehaviorEvolutive,
}

// ParseBehavior returns the Behavior named by s, or ErrInvalidBehavior.
func ParseBehavior(s string) (Behavior, error) {
	for _, b := range Behaviors {
		if string(b) == s {
			return b, nil
		}
	}
	return "", ErrInvalidBehavior
}

// Definition describes one attribute in a module's catalog. A definition is
// immutable once created; the behavior-specific fields are zero for
// behaviors that do not use them.
type Definition struct {
	AttributeID AttributeID `json:"attribute_id" yaml:"attribute_id"`
	Behavior    Behavior    `json:"behavior" yaml:"behavior"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Decimals    uint8       `json:"decimals" yaml:"decimals"`

	// Upgradable: number of tiers in the ladder and an opaque per-ladder
	// parameter carried for callers.
	MaxLevel    uint32 `json:"max_level,omitempty" yaml:"max_level,omitempty"`
	LadderParam uint64 `json:"ladder_param,omitempty" yaml:"ladder_param,omitempty"`

	// Evolutive: accumulated ticks required to reach each stage, and the
	// value the attachment holds while in that stage. Index 0 is the stage
	// entered on attach.
	StageThresholds []uint64 `json:"stage_thresholds,omitempty" yaml:"stage_thresholds,omitempty"`
	StageValues     []uint64 `json:"stage_values,omitempty" yaml:"stage_values,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"-"`
}

// StageCount returns the number of evolutive stages.
func (d *Definition) StageCount() int {
	return len(d.StageThresholds)
}

// Validate checks the definition against the rules of its behavior.
// Returns ErrInvalidID, ErrInvalidBehavior or ErrInvalidDefinition.
func (d *Definition) Validate() error {
	if !d.AttributeID.Valid() {
		return ErrInvalidID
	}
	if d.Name == "" {
		return ErrInvalidDefinition
	}
	switch d.Behavior {
	case BehaviorGeneric, BehaviorTransferable:
		return nil
	case BehaviorUpgradable:
		if d.MaxLevel < 1 {
			return ErrInvalidDefinition
		}
		return nil
	case BehaviorEvolutive:
		n := len(d.StageThresholds)
		if n < 1 || len(d.StageValues) != n {
			return ErrInvalidDefinition
		}
		for i := 1; i < n; i++ {
			if d.StageThresholds[i] < d.StageThresholds[i-1] {
				return ErrInvalidDefinition
			}
		}
		return nil
	default:
		return ErrInvalidBehavior
	}
}

// Clone returns a deep copy so callers cannot alias catalog slices.
func (d *Definition) Clone() *Definition {
	c := *d
	if d.StageThresholds != nil {
		c.StageThresholds = append([]uint64(nil), d.StageThresholds...)
	}
	if d.StageValues != nil {
		c.StageValues = append([]uint64(nil), d.StageValues...)
	}
	return &c
}
