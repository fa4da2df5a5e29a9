// Package battle implements the per-battle mutable fighter projection and
// the battle state machine: turn order, buff ticking, event draining, and
// the advantage/defense damage formula.
package battle

import (
	"fmt"
	"math"

	"skirmish/dsl"
	"skirmish/fighters"
)

// FighterVolatile is the per-battle mutable projection of a base Fighter.
// It implements moves.Target so the move engine can mutate it without this
// package's callers needing to know about moves at all.
type FighterVolatile struct {
	Base *fighters.Fighter

	name string

	current   fighters.ConcreteStats
	baseMax   fighters.ConcreteStats
	buffedMax fighters.ConcreteStats

	buffs    []fighters.Buff
	statuses []fighters.Status
}

// NewFighterVolatile builds the per-battle state for base: current stats
// start at base.ResolveStartingStats(), base_max_stats is the (resolved)
// ceiling, buffed_max_stats starts equal to base_max_stats (no buffs yet),
// and each starting buff goes through AddBuff, so the buffed-max
// computation and rebalancing run once per starting buff; starting statuses
// go through AddStatus. items, if non-nil, resolves base.Item (if set) into
// its one-time passive effect.
func NewFighterVolatile(base *fighters.Fighter, items *fighters.ItemSet) (*FighterVolatile, error) {
	start, err := base.ResolveStartingStats()
	if err != nil {
		return nil, err
	}
	baseMax, err := base.Stats.Resolve()
	if err != nil {
		return nil, err
	}
	name, err := base.Name.StringVal()
	if err != nil {
		name = base.ID
	}

	fv := &FighterVolatile{
		Base:      base,
		name:      name,
		current:   start,
		baseMax:   baseMax,
		buffedMax: baseMax,
	}
	for _, b := range base.StartingBuffs {
		fv.AddBuff(b)
	}
	for _, s := range base.StartingStatus {
		fv.AddStatus(s)
	}
	if base.Item != "" {
		if err := fv.applyItem(items); err != nil {
			return nil, err
		}
	}
	return fv, nil
}

// applyItem looks up the fighter's carried item (if any) and grants its
// one-time passive effect: restore_hp tops up current hp, boost_attack and
// boost_special grant an infinite attack/charge_bonus buff respectively.
func (fv *FighterVolatile) applyItem(items *fighters.ItemSet) error {
	item, ok := items.Get(fv.Base.Item)
	if !ok {
		return fmt.Errorf("battle: fighter %q carries unknown item %q", fv.Base.ID, fv.Base.Item)
	}
	value, err := item.Value.Float()
	if err != nil {
		return fmt.Errorf("battle: item %q value: %w", item.ID, err)
	}
	switch item.Effect {
	case fighters.EffectRestoreHP:
		fv.AddStat("hp", int(math.Round(value)))
	case fighters.EffectBoostAttack:
		fv.AddBuff(fighters.Buff{Stat: "attack", Amount: dsl.ConstFloat(value), Duration: -1})
	case fighters.EffectBoostSpecial:
		fv.AddBuff(fighters.Buff{Stat: "charge_bonus", Amount: dsl.ConstFloat(value), Duration: -1})
	}
	return nil
}

func (fv *FighterVolatile) Name() string { return fv.name }
func (fv *FighterVolatile) Type() string { return fv.Base.Type }

// Alive reports whether the fighter has not fainted (hp > 0).
func (fv *FighterVolatile) Alive() bool { return fv.current.HP > 0 }

// Stats returns the current, live stat values.
func (fv *FighterVolatile) Stats() fighters.ConcreteStats { return fv.current }

// BuffedMax returns the current buffed ceiling.
func (fv *FighterVolatile) BuffedMax() fighters.ConcreteStats { return fv.buffedMax }

// HasShield reports whether the fighter currently holds any shield value.
func (fv *FighterVolatile) HasShield() bool { return fv.current.Shield > 0 }

func (fv *FighterVolatile) Buffs() []fighters.Buff     { return fv.buffs }
func (fv *FighterVolatile) Statuses() []fighters.Status { return fv.statuses }

// TakeDamage subtracts amount from shield first, then hp, both floored at
// 0, and returns the amount actually absorbed/lost.
func (fv *FighterVolatile) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	applied := 0
	if fv.current.Shield > 0 {
		absorbed := amount
		if absorbed > fv.current.Shield {
			absorbed = fv.current.Shield
		}
		fv.current.Shield -= absorbed
		applied += absorbed
		amount -= absorbed
	}
	if amount > 0 {
		loss := amount
		if loss > fv.current.HP {
			loss = fv.current.HP
		}
		fv.current.HP -= loss
		applied += loss
	}
	return applied
}

// AddStat applies an integer delta to stat, clamped to [0, buffed_max.stat],
// returning the delta actually applied.
func (fv *FighterVolatile) AddStat(stat string, delta int) int {
	cur, max := fv.statPointer(stat)
	if cur == nil {
		return 0
	}
	before := *cur
	next := before + delta
	if next < 0 {
		next = 0
	}
	if next > max {
		next = max
	}
	*cur = next
	return next - before
}

func (fv *FighterVolatile) statPointer(stat string) (*int, int) {
	switch stat {
	case "hp":
		return &fv.current.HP, fv.buffedMax.HP
	case "attack":
		return &fv.current.Attack, fv.buffedMax.Attack
	case "defense":
		return &fv.current.Defense, fv.buffedMax.Defense
	case "shield":
		return &fv.current.Shield, fv.buffedMax.Shield
	case "charge":
		return &fv.current.Charge, fv.buffedMax.Charge
	default:
		return nil, 0
	}
}

// HasStatus reports whether id is currently active.
func (fv *FighterVolatile) HasStatus(id string) bool {
	for _, s := range fv.statuses {
		if s.ID == id {
			return true
		}
	}
	return false
}

// AddStatus adds or stacks a status onto the fighter.
func (fv *FighterVolatile) AddStatus(s fighters.Status) {
	for i, existing := range fv.statuses {
		if existing.ID == s.ID {
			fv.statuses[i].Stacks += s.Stacks
			fv.statuses[i].Duration = s.Duration
			return
		}
	}
	fv.statuses = append(fv.statuses, s)
}

// RemoveStatus removes id if present.
func (fv *FighterVolatile) RemoveStatus(id string) {
	out := fv.statuses[:0]
	for _, s := range fv.statuses {
		if s.ID != id {
			out = append(out, s)
		}
	}
	fv.statuses = out
}

// SetField implements the modify action's dot-path write. Only
// "stats.<field>" paths are supported; anything else is a content error,
// since sprite/animation/description fields are opaque per spec.md §3.
func (fv *FighterVolatile) SetField(path string, value dsl.Value) error {
	parts := splitDotPath(path)
	if len(parts) != 2 || parts[0] != "stats" {
		return fmt.Errorf("battle: modify: unsupported field path %q", path)
	}
	cur, max := fv.statPointer(parts[1])
	if cur == nil {
		return fmt.Errorf("battle: modify: unknown stat %q", parts[1])
	}
	if !value.IsNumeric() {
		return fmt.Errorf("battle: modify: %q requires a numeric value", parts[1])
	}
	v := int(value.Number())
	if v < 0 {
		v = 0
	}
	if v > max {
		v = max
	}
	*cur = v
	return nil
}

func splitDotPath(path string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			parts = append(parts, path[start:i])
			start = i + 1
		}
	}
	parts = append(parts, path[start:])
	return parts
}

// AddBuff appends b (truncating at MaxBuffs), then recomputes
// buffed_max_stats and proportionally rebalances current values - gating
// every mutation of the buff list through this one method avoids the stale
// cache the source's setter-based design warns against.
func (fv *FighterVolatile) AddBuff(b fighters.Buff) {
	if len(fv.buffs) >= fighters.MaxBuffs {
		return
	}
	fv.buffs = append(fv.buffs, b)
	fv.recomputeBuffedMax()
}

// recomputeBuffedMax rebuilds buffed_max_stats from base_max_stats plus
// every active buff's amount (clamped at 0 per field), then proportionally
// rebalances current values against the old/new cap per field.
func (fv *FighterVolatile) recomputeBuffedMax() {
	oldMax := fv.buffedMax
	newMax := fv.baseMax
	for _, b := range fv.buffs {
		amt, err := b.Amount.Float()
		if err != nil {
			continue
		}
		switch b.Stat {
		case "hp":
			newMax.HP = clampNonNeg(newMax.HP + int(math.Round(amt)))
		case "attack":
			newMax.Attack = clampNonNeg(newMax.Attack + int(math.Round(amt)))
		case "defense":
			newMax.Defense = clampNonNeg(newMax.Defense + int(math.Round(amt)))
		case "shield":
			newMax.Shield = clampNonNeg(newMax.Shield + int(math.Round(amt)))
		case "charge":
			newMax.Charge = clampNonNeg(newMax.Charge + int(math.Round(amt)))
		case "charge_bonus":
			newMax.ChargeBonus = math.Max(0, newMax.ChargeBonus+amt)
		}
	}
	fv.buffedMax = newMax

	fv.current.HP = rebalance(fv.current.HP, oldMax.HP, newMax.HP)
	fv.current.Attack = rebalance(fv.current.Attack, oldMax.Attack, newMax.Attack)
	fv.current.Defense = rebalance(fv.current.Defense, oldMax.Defense, newMax.Defense)
	fv.current.Shield = rebalance(fv.current.Shield, oldMax.Shield, newMax.Shield)
	fv.current.Charge = rebalance(fv.current.Charge, oldMax.Charge, newMax.Charge)
}

func clampNonNeg(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// rebalance implements the proportional rebalancing rule: scale current by
// new_cap/old_cap when the cap grew (or stayed level), otherwise clamp down
// to the new cap, always rounding to int and clamping to [0, new_cap].
func rebalance(cur, oldCap, newCap int) int {
	var next int
	if oldCap <= 0 {
		next = cur
	} else if newCap >= oldCap {
		next = int(math.Round(float64(cur) * float64(newCap) / float64(oldCap)))
	} else {
		next = cur
		if next > newCap {
			next = newCap
		}
	}
	if next < 0 {
		next = 0
	}
	if next > newCap {
		next = newCap
	}
	return next
}

// TickBuffs decrements every finite-duration buff, removing and logging
// those that reach 0; infinite (-1) buffs are never ticked.
func (fv *FighterVolatile) TickBuffs(log Log) {
	kept := fv.buffs[:0]
	changed := false
	for _, b := range fv.buffs {
		if b.IsInfinite() {
			kept = append(kept, b)
			continue
		}
		b.Duration--
		if b.Duration <= 0 {
			changed = true
			if log != nil {
				log.Append(fmt.Sprintf("%s's %s buff expired", fv.name, b.Stat))
			}
			continue
		}
		kept = append(kept, b)
	}
	fv.buffs = kept
	if changed {
		fv.recomputeBuffedMax()
	}
}
