package fighters

import (
	"fmt"
	"log"

	"skirmish/dsl"
)

// MaxMoves is the per-fighter cap on referenced move ids.
const MaxMoves = 4

// StartingStatsOverride carries only the fields a fighter's content
// explicitly overrides; nil fields fall back to the base ceiling (hp,
// attack, defense, charge_bonus) or to 0 (shield, charge), matching
// spec.md §3's "missing shield/charge default to 0".
type StartingStatsOverride struct {
	HP          *dsl.Resolvable `json:"hp,omitempty"`
	Attack      *dsl.Resolvable `json:"attack,omitempty"`
	Defense     *dsl.Resolvable `json:"defense,omitempty"`
	Shield      *dsl.Resolvable `json:"shield,omitempty"`
	Charge      *dsl.Resolvable `json:"charge,omitempty"`
	ChargeBonus *dsl.Resolvable `json:"charge_bonus,omitempty"`
}

// Fighter is the base, immutable fighter record loaded from fighters.json.
type Fighter struct {
	ID            string                 `json:"id"`
	Name          dsl.Resolvable         `json:"name"`
	Description   dsl.Resolvable         `json:"description"`
	Enabled       bool                   `json:"enabled"`
	Type          string                 `json:"type"`
	Category      string                 `json:"category"`
	SpritePaths   map[string]string      `json:"sprite_paths,omitempty"`
	Animations    map[string]string      `json:"animations,omitempty"`
	Item          string                 `json:"item,omitempty"`
	Stats         FighterStats           `json:"stats"`
	Moves         []string               `json:"moves"`
	StartingStats *StartingStatsOverride `json:"starting_stats,omitempty"`
	StartingBuffs []Buff                 `json:"starting_buffs,omitempty"`
	StartingStatus []Status              `json:"starting_status,omitempty"`
}

// Validate runs every cross-field invariant spec.md §3 names.
func (f Fighter) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("fighters: fighter.id must not be empty")
	}
	if err := dsl.CheckMembership("fighter.type", f.Type, Types); err != nil {
		return err
	}
	if len(f.Moves) > MaxMoves {
		return fmt.Errorf("fighters: fighter %q references %d moves, max %d", f.ID, len(f.Moves), MaxMoves)
	}
	if err := f.Stats.Validate(); err != nil {
		return fmt.Errorf("fighters: fighter %q: %w", f.ID, err)
	}
	for _, b := range f.StartingBuffs {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("fighters: fighter %q starting_buffs: %w", f.ID, err)
		}
	}
	if len(f.StartingBuffs) > MaxBuffs {
		log.Printf("fighters: fighter %q: too many starting_buffs (warning: truncating to %d)", f.ID, MaxBuffs)
	}
	for _, s := range f.StartingStatus {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("fighters: fighter %q starting_status: %w", f.ID, err)
		}
	}
	return nil
}

// ResolveStartingStats computes the frozen starting ConcreteStats for a new
// FighterVolatile: the base ceilings, overridden by any explicit
// starting_stats fields, with shield/charge defaulting to 0 rather than to
// their ceiling when unspecified. Each resulting field must not exceed the
// matching ceiling field.
func (f Fighter) ResolveStartingStats() (ConcreteStats, error) {
	ceiling, err := f.Stats.Resolve()
	if err != nil {
		return ConcreteStats{}, fmt.Errorf("fighters: fighter %q stats: %w", f.ID, err)
	}

	start := ConcreteStats{
		HP:          ceiling.HP,
		Attack:      ceiling.Attack,
		Defense:     ceiling.Defense,
		Shield:      0,
		Charge:      0,
		ChargeBonus: ceiling.ChargeBonus,
	}

	if ov := f.StartingStats; ov != nil {
		if ov.HP != nil {
			if start.HP, err = ov.HP.Int(); err != nil {
				return ConcreteStats{}, err
			}
		}
		if ov.Attack != nil {
			if start.Attack, err = ov.Attack.Int(); err != nil {
				return ConcreteStats{}, err
			}
		}
		if ov.Defense != nil {
			if start.Defense, err = ov.Defense.Int(); err != nil {
				return ConcreteStats{}, err
			}
		}
		if ov.Shield != nil {
			if start.Shield, err = ov.Shield.Int(); err != nil {
				return ConcreteStats{}, err
			}
		}
		if ov.Charge != nil {
			if start.Charge, err = ov.Charge.Int(); err != nil {
				return ConcreteStats{}, err
			}
		}
		if ov.ChargeBonus != nil {
			if start.ChargeBonus, err = ov.ChargeBonus.Float(); err != nil {
				return ConcreteStats{}, err
			}
		}
	}

	if start.HP > ceiling.HP || start.Attack > ceiling.Attack || start.Defense > ceiling.Defense ||
		start.Shield > ceiling.Shield || start.Charge > ceiling.Charge || start.ChargeBonus > ceiling.ChargeBonus {
		return ConcreteStats{}, fmt.Errorf("fighters: fighter %q starting_stats exceed stats ceiling", f.ID)
	}
	return start, nil
}
