// Package actions implements the ten action handlers the move engine
// dispatches to by kind. It depends on moves (for the Action union, Target,
// and MoveContext types) but moves never depends back on it - the handler
// map is wired by whoever constructs the engine (see moves.NewEngine, called
// from main.go).
package actions

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strings"

	"skirmish/dsl"
	"skirmish/fighters"
	"skirmish/moves"
)

// Handlers returns the complete action-kind -> handler map, grounded on
// original_source/systems/moves/actions/*.py one-for-one, with the shield
// action's state mutation restored (spec.md §9 open question) and
// condition evaluating its predicates for real instead of the source's
// always-log-and-run-nested stub.
func Handlers() map[string]moves.ActionHandler {
	return map[string]moves.ActionHandler{
		"damage":    Damage,
		"buff":      Buff,
		"heal":      Heal,
		"shield":    Shield,
		"modify":    Modify,
		"text":      Text,
		"status":    StatusHandler,
		"condition": ConditionHandler,
		"random":    Random,
		"repeat":    Repeat,
	}
}

func calcTargetFighter(calcTarget string, user, target moves.Target) moves.Target {
	if calcTarget == "opponent" {
		return target
	}
	return user
}

func statField(s fighters.ConcreteStats, field string) float64 {
	switch field {
	case "hp":
		return float64(s.HP)
	case "attack":
		return float64(s.Attack)
	case "defense":
		return float64(s.Defense)
	case "shield":
		return float64(s.Shield)
	case "charge":
		return float64(s.Charge)
	case "charge_bonus":
		return s.ChargeBonus
	default:
		return 0
	}
}

// effectiveAmount implements Move.get_effective_amount: the base amount
// (percent-of-stat if the resolved amount was a real-valued literal),
// scaled by the user's charge ratio, multiplied, offset, then scaled by
// STAB and type effectiveness.
func effectiveAmount(eng *moves.MoveEngine, ctx moves.ResolvedContext, user, target moves.Target, moveType string) float64 {
	base := ctx.Amount.Number()
	if ctx.AmountIsPct {
		calcFighter := calcTargetFighter(ctx.CalcTarget, user, target)
		base = ctx.Amount.Number() * statField(calcFighter.Stats(), ctx.CalcField)
	}

	chargeRatio := 0.0
	if user != nil {
		cmax := user.BuffedMax().Charge
		if cmax > 0 {
			chargeRatio = float64(user.Stats().Charge) / float64(cmax)
		}
	}

	effective := (base*(1+0.5*chargeRatio))*ctx.Mult + float64(ctx.Flat)

	stab := 1.0
	if user != nil && moveType == user.Type() {
		stab = 1.25
	}
	typeEff := 1.0
	if user != nil && target != nil {
		typeEff = eng.TypeChart.Multiplier(moveType, target.Type())
	}
	return effective * stab * typeEff
}

// adFactor implements the advantage/defense curve from spec.md §4.5.
func adFactor(a, d, ca, cd float64, cmax int) float64 {
	diff := math.Copysign(math.Pow(math.Abs(a-d), 0.9), a-d)
	cap := float64(cmax)
	if cap < 1 {
		cap = 1
	}
	delta := (ca - cd) / cap
	k := 0.004 * (1 + 0.5*delta)
	return 1.0 + 3.0*math.Tanh(k*diff)
}

func Damage(eng *moves.MoveEngine, action moves.Action, user, target moves.Target, log moves.Log, ctx moves.ResolvedContext, move *moves.Move) (bool, error) {
	da := action.(*moves.DamageAction)
	if target == nil || user == nil {
		return false, nil
	}

	piercing := 0.0
	if da.Piercing != nil {
		var err error
		if piercing, err = da.Piercing.Float(); err != nil {
			return false, fmt.Errorf("damage: piercing: %w", err)
		}
	}
	critChance := 0.0
	if da.CritChance != nil {
		var err error
		if critChance, err = da.CritChance.Float(); err != nil {
			return false, fmt.Errorf("damage: crit_chance: %w", err)
		}
	}
	critDamage := 1.5
	if da.CritDamage != nil {
		var err error
		if critDamage, err = da.CritDamage.Float(); err != nil {
			return false, fmt.Errorf("damage: crit_damage: %w", err)
		}
	}

	base := effectiveAmount(eng, ctx, user, target, move.Type)

	a := float64(user.Stats().Attack)
	d := float64(target.Stats().Defense) * (1 - piercing)
	cmax := user.BuffedMax().Charge
	factor := adFactor(a, d, float64(user.Stats().Charge), float64(target.Stats().Charge), cmax)

	amount := base * factor
	if rand.Float64() < critChance {
		amount *= critDamage
	}

	damage := int(math.Round(amount))
	if damage <= 0 {
		return false, nil
	}

	applied := target.TakeDamage(damage)
	if log != nil {
		log.Append(fmt.Sprintf("%s takes %d damage from %s", target.Name(), applied, move.Name))
	}
	return applied > 0, nil
}

func Buff(eng *moves.MoveEngine, action moves.Action, user, target moves.Target, log moves.Log, ctx moves.ResolvedContext, move *moves.Move) (bool, error) {
	ba := action.(*moves.BuffAction)
	recipient := calcTargetFighter(ctx.CalcTarget, user, target)
	if recipient == nil {
		return false, nil
	}

	amount := effectiveAmount(eng, ctx, user, target, move.Type)
	if ba.Reverse {
		amount = -amount
	}

	duration := ctx.Duration
	if duration >= 0 {
		duration++
	}

	applied := false
	for _, stat := range ba.Stats {
		recipient.AddBuff(fighters.Buff{Stat: stat, Amount: dsl.ConstFloat(amount), Duration: duration})
		applied = true
	}
	if applied && log != nil {
		log.Append(fmt.Sprintf("%s's %v changed by %.1f", recipient.Name(), ba.Stats, amount))
	}
	return applied, nil
}

func Heal(eng *moves.MoveEngine, action moves.Action, user, target moves.Target, log moves.Log, ctx moves.ResolvedContext, move *moves.Move) (bool, error) {
	recipient := calcTargetFighter(ctx.CalcTarget, user, target)
	if recipient == nil {
		return false, nil
	}
	amount := effectiveAmount(eng, ctx, user, target, move.Type)
	gain := int(math.Round(amount))
	if gain < 0 {
		gain = 0
	}
	applied := recipient.AddStat("hp", gain)
	if applied > 0 && log != nil {
		log.Append(fmt.Sprintf("%s heals %d hp", recipient.Name(), applied))
	}
	return applied > 0, nil
}

// Shield fixes the source's logged-only shield action: it now actually
// mutates shield state via AddStat, analogous to Heal, resolving spec.md
// §9's open question.
func Shield(eng *moves.MoveEngine, action moves.Action, user, target moves.Target, log moves.Log, ctx moves.ResolvedContext, move *moves.Move) (bool, error) {
	recipient := calcTargetFighter(ctx.CalcTarget, user, target)
	if recipient == nil {
		return false, nil
	}
	amount := effectiveAmount(eng, ctx, user, target, move.Type)
	gain := int(math.Round(amount))
	if gain < 0 {
		gain = 0
	}
	applied := recipient.AddStat("shield", gain)
	if applied > 0 && log != nil {
		log.Append(fmt.Sprintf("%s gains %d shield", recipient.Name(), applied))
	}
	return applied > 0, nil
}

var fieldPathPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\.[A-Za-z_][A-Za-z0-9_]*$`)

func Modify(eng *moves.MoveEngine, action moves.Action, user, target moves.Target, log moves.Log, ctx moves.ResolvedContext, move *moves.Move) (bool, error) {
	ma := action.(*moves.ModifyAction)
	if !fieldPathPattern.MatchString(ma.Field) {
		return false, fmt.Errorf("modify: field %q is not an identifier.identifier path", ma.Field)
	}
	recipient := calcTargetFighter(ctx.CalcTarget, user, target)
	if recipient == nil {
		return false, nil
	}
	val, err := ma.Value.Resolve()
	if err != nil {
		return false, fmt.Errorf("modify: value: %w", err)
	}
	if err := recipient.SetField(ma.Field, val); err != nil {
		return false, err
	}
	if log != nil {
		log.Append(fmt.Sprintf("%s's %s set to %s", recipient.Name(), ma.Field, val.String()))
	}
	return true, nil
}

var knownColors = map[string]bool{
	"white": true, "red": true, "green": true, "blue": true,
	"yellow": true, "gray": true, "black": true,
}

func parseStyleDict(style string) (map[string]string, error) {
	style = strings.TrimSpace(style)
	style = strings.Trim(style, "{}")
	out := make(map[string]string)
	if style == "" {
		return out, nil
	}
	for _, pair := range strings.Split(style, ",") {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("text: malformed style entry %q", pair)
		}
		key := strings.Trim(strings.TrimSpace(kv[0]), `"'`)
		val := strings.Trim(strings.TrimSpace(kv[1]), `"'`)
		out[key] = val
	}
	if color, ok := out["color"]; ok && !knownColors[color] {
		return nil, fmt.Errorf("text: unknown color %q", color)
	}
	for k, v := range out {
		if k == "color" {
			continue
		}
		if v != "true" && v != "false" {
			return nil, fmt.Errorf("text: style flag %q must be a boolean, got %q", k, v)
		}
	}
	return out, nil
}

func Text(eng *moves.MoveEngine, action moves.Action, user, target moves.Target, log moves.Log, ctx moves.ResolvedContext, move *moves.Move) (bool, error) {
	ta := action.(*moves.TextAction)
	text, err := ta.Text.StringVal()
	if err != nil {
		return false, err
	}
	if styleStr, err := ta.Style.StringVal(); err == nil && styleStr != "" {
		if _, err := parseStyleDict(styleStr); err != nil {
			return false, err
		}
	}
	if log != nil {
		log.Append(text)
	}
	return true, nil
}

func StatusHandler(eng *moves.MoveEngine, action moves.Action, user, target moves.Target, log moves.Log, ctx moves.ResolvedContext, move *moves.Move) (bool, error) {
	sa := action.(*moves.StatusAction)
	recipient := calcTargetFighter(ctx.CalcTarget, user, target)
	if recipient == nil {
		return false, nil
	}

	amount := effectiveAmount(eng, ctx, user, target, move.Type)
	duration := int(math.Round(amount))

	applied := false
	for _, st := range sa.Statuses {
		switch moves.StatusOp(sa.Operation) {
		case moves.StatusAdd:
			s := st
			if duration != 0 {
				s.Duration = duration
			}
			recipient.AddStatus(s)
			if log != nil {
				log.Append(fmt.Sprintf("%s gains status %s", recipient.Name(), s.ID))
			}
		case moves.StatusRemove:
			recipient.RemoveStatus(st.ID)
			if log != nil {
				log.Append(fmt.Sprintf("%s loses status %s", recipient.Name(), st.ID))
			}
		default:
			return false, fmt.Errorf("status: unknown operation %q", sa.Operation)
		}
		applied = true
	}
	return applied, nil
}

func evalCondition(c moves.Condition, user, target moves.Target) (bool, error) {
	switch c.Type {
	case moves.CondHPBelow, moves.CondHPAbove:
		threshold, err := c.Threshold.Float()
		if err != nil {
			return false, fmt.Errorf("condition: threshold: %w", err)
		}
		hp := float64(user.Stats().HP)
		if c.Type == moves.CondHPBelow {
			return hp < threshold, nil
		}
		return hp > threshold, nil
	case moves.CondHasStatus:
		return user.HasStatus(c.Status), nil
	case moves.CondLacksStatus:
		return !user.HasStatus(c.Status), nil
	default:
		return false, fmt.Errorf("condition: unknown condition type %q", c.Type)
	}
}

func ConditionHandler(eng *moves.MoveEngine, action moves.Action, user, target moves.Target, log moves.Log, ctx moves.ResolvedContext, move *moves.Move) (bool, error) {
	ca := action.(*moves.ConditionAction)
	for _, c := range ca.Conditions {
		ok, err := evalCondition(c, user, target)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return eng.ExecuteNested(ca.Actions, user, target, log, ctx.AsMoveContext(), move)
}

func Random(eng *moves.MoveEngine, action moves.Action, user, target moves.Target, log moves.Log, ctx moves.ResolvedContext, move *moves.Move) (bool, error) {
	ra := action.(*moves.RandomAction)
	total := 0.0
	for _, c := range ra.Choices {
		total += c.Weight
	}
	if total <= 0 {
		return false, nil
	}
	pick := rand.Float64() * total
	acc := 0.0
	for _, c := range ra.Choices {
		acc += c.Weight
		if pick <= acc {
			return eng.ExecuteNested(moves.ActionList{c.Action}, user, target, log, ctx.AsMoveContext(), move)
		}
	}
	return false, nil
}

func Repeat(eng *moves.MoveEngine, action moves.Action, user, target moves.Target, log moves.Log, ctx moves.ResolvedContext, move *moves.Move) (bool, error) {
	ra := action.(*moves.RepeatAction)
	count, err := ra.Count.Int()
	if err != nil {
		return false, fmt.Errorf("repeat: count: %w", err)
	}
	any := false
	for i := 0; i < count; i++ {
		ok, err := eng.ExecuteNested(ra.Actions, user, target, log, ctx.AsMoveContext(), move)
		if err != nil {
			return any, err
		}
		if ok {
			any = true
		}
	}
	return any, nil
}
