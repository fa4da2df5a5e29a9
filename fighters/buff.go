package fighters

import (
	"fmt"

	"skirmish/dsl"
)

// MaxBuffs is the per-fighter cap on simultaneous buffs; overflow truncates.
const MaxBuffs = 4

// Buff is a named stat modifier with a finite or infinite duration.
// Duration is a plain int (not DSL-resolvable in the source content): -1
// means infinite, otherwise it is decremented at each full-turn boundary.
type Buff struct {
	Stat     string         `json:"stat"`
	Amount   dsl.Resolvable `json:"amount"`
	Duration int            `json:"duration"`
}

// StatNames lists the stat fields a Buff or MoveContext.CalcField may
// reference.
var StatNames = []string{"hp", "attack", "defense", "shield", "charge", "charge_bonus"}

// Validate checks the buff targets a known stat and has a sane duration.
func (b Buff) Validate() error {
	if err := dsl.CheckMembership("buff.stat", b.Stat, StatNames); err != nil {
		return err
	}
	if b.Duration < -1 {
		return fmt.Errorf("fighters: buff.duration must be >= -1, got %d", b.Duration)
	}
	return nil
}

// IsInfinite reports whether the buff never expires.
func (b Buff) IsInfinite() bool { return b.Duration == -1 }
