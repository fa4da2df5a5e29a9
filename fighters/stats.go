// Package fighters implements the fighter content schema: stats, buffs,
// statuses, the base (immutable) fighter record, and the fighter set that
// indexes them by id.
package fighters

import (
	"fmt"

	"skirmish/dsl"
)

// MaxStat is the per-field ceiling for the integer stats (hp, attack,
// defense, shield, charge).
const MaxStat = 999

// MaxChargeBonus is the ceiling for the charge_bonus float stat.
const MaxChargeBonus = 10.0

// FighterStats holds the five integer stats plus the charge_bonus float,
// each a resolvable field so content may randomize a fighter's ceilings.
type FighterStats struct {
	HP          dsl.Resolvable `json:"hp"`
	Attack      dsl.Resolvable `json:"attack"`
	Defense     dsl.Resolvable `json:"defense"`
	Shield      dsl.Resolvable `json:"shield"`
	Charge      dsl.Resolvable `json:"charge"`
	ChargeBonus dsl.Resolvable `json:"charge_bonus"`
}

// ConcreteStats is a fully-resolved, mutable projection of FighterStats:
// the type FighterVolatile actually mutates during a battle.
type ConcreteStats struct {
	HP          int
	Attack      int
	Defense     int
	Shield      int
	Charge      int
	ChargeBonus float64
}

// Resolve samples every field once, producing a frozen ConcreteStats.
func (s FighterStats) Resolve() (ConcreteStats, error) {
	hp, err := s.HP.Int()
	if err != nil {
		return ConcreteStats{}, fmt.Errorf("hp: %w", err)
	}
	atk, err := s.Attack.Int()
	if err != nil {
		return ConcreteStats{}, fmt.Errorf("attack: %w", err)
	}
	def, err := s.Defense.Int()
	if err != nil {
		return ConcreteStats{}, fmt.Errorf("defense: %w", err)
	}
	shield, err := s.Shield.Int()
	if err != nil {
		return ConcreteStats{}, fmt.Errorf("shield: %w", err)
	}
	charge, err := s.Charge.Int()
	if err != nil {
		return ConcreteStats{}, fmt.Errorf("charge: %w", err)
	}
	bonus, err := s.ChargeBonus.Float()
	if err != nil {
		return ConcreteStats{}, fmt.Errorf("charge_bonus: %w", err)
	}
	return ConcreteStats{HP: hp, Attack: atk, Defense: def, Shield: shield, Charge: charge, ChargeBonus: bonus}, nil
}

// Validate checks every field's domain is within [0, MaxStat] (or
// [0, MaxChargeBonus] for charge_bonus) and that shield <= hp holds across
// the full Cartesian product of their domains.
func (s FighterStats) Validate() error {
	fields := map[string]struct {
		dom dsl.Domain
		max float64
	}{
		"hp":           {s.HP.Domain(), MaxStat},
		"attack":       {s.Attack.Domain(), MaxStat},
		"defense":      {s.Defense.Domain(), MaxStat},
		"shield":       {s.Shield.Domain(), MaxStat},
		"charge":       {s.Charge.Domain(), MaxStat},
		"charge_bonus": {s.ChargeBonus.Domain(), MaxChargeBonus},
	}
	for name, f := range fields {
		max := f.max
		err := dsl.Check(map[string]dsl.Domain{name: f.dom}, func(v map[string]float64) bool {
			return v[name] >= 0 && v[name] <= max
		})
		if err != nil {
			return fmt.Errorf("fighters: stats.%s out of bounds: %w", name, err)
		}
	}

	err := dsl.Check(map[string]dsl.Domain{"hp": s.HP.Domain(), "shield": s.Shield.Domain()},
		func(v map[string]float64) bool { return v["shield"] <= v["hp"] })
	if err != nil {
		return fmt.Errorf("fighters: stats.shield must not exceed stats.hp: %w", err)
	}
	return nil
}
