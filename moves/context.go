// Package moves implements the move/action schema and the move execution
// engine: evaluating a move's action tree while propagating a merged
// MoveContext down each branch.
package moves

import (
	"fmt"

	"skirmish/dsl"
	"skirmish/fighters"
)

// MoveContext is the evaluation context propagated during move execution.
// Every field is a pointer so JSON decoding and context merging can tell
// "not specified" (nil) apart from "explicitly set to the zero value" -
// exactly the distinction merge_context needs in the original engine.
type MoveContext struct {
	Amount     *dsl.Resolvable `json:"amount,omitempty"`
	Chance     *dsl.Resolvable `json:"chance,omitempty"`
	CalcTarget *dsl.Resolvable `json:"calc_target,omitempty"`
	CalcField  *dsl.Resolvable `json:"calc_field,omitempty"`
	Mult       *dsl.Resolvable `json:"mult,omitempty"`
	Flat       *dsl.Resolvable `json:"flat,omitempty"`
	Duration   *dsl.Resolvable `json:"duration,omitempty"`
}

// DefaultMoveContext returns the canonical defaults: amount 0 (flat),
// chance 1.0 (always), calc_target "self", calc_field "hp", mult 1.0,
// flat 0, duration -1 (infinite).
func DefaultMoveContext() MoveContext {
	return MoveContext{
		Amount:     ref(dsl.ConstInt(0)),
		Chance:     ref(dsl.ConstFloat(1.0)),
		CalcTarget: ref(dsl.ConstString("self")),
		CalcField:  ref(dsl.ConstString("hp")),
		Mult:       ref(dsl.ConstFloat(1.0)),
		Flat:       ref(dsl.ConstInt(0)),
		Duration:   ref(dsl.ConstInt(-1)),
	}
}

func ref(r dsl.Resolvable) *dsl.Resolvable { return &r }

// Merge returns a new context that is base, with every non-nil field of
// overlay taking precedence. This is the single operation both the move's
// JSON-declared MoveContext overrides and an action's own overrides (and
// an optional caller-supplied runtime_ctx) are applied through.
func (base MoveContext) Merge(overlay MoveContext) MoveContext {
	out := base
	if overlay.Amount != nil {
		out.Amount = overlay.Amount
	}
	if overlay.Chance != nil {
		out.Chance = overlay.Chance
	}
	if overlay.CalcTarget != nil {
		out.CalcTarget = overlay.CalcTarget
	}
	if overlay.CalcField != nil {
		out.CalcField = overlay.CalcField
	}
	if overlay.Mult != nil {
		out.Mult = overlay.Mult
	}
	if overlay.Flat != nil {
		out.Flat = overlay.Flat
	}
	if overlay.Duration != nil {
		out.Duration = overlay.Duration
	}
	return out
}

// Validate checks the context's declared fields against spec.md §3's
// MoveContext invariants: chance in [0,1], calc_target in {self,opponent}
// and calc_field a known stat name (for every string their domains can
// produce), mult >= 0, duration >= -1, and amount+flat >= 0 when both are
// declared.
func (c MoveContext) Validate() error {
	if c.CalcTarget != nil {
		for _, s := range c.CalcTarget.Domain().Strings {
			if err := dsl.CheckMembership("context.calc_target", s, []string{"self", "opponent"}); err != nil {
				return fmt.Errorf("moves: %w", err)
			}
		}
	}
	if c.CalcField != nil {
		for _, s := range c.CalcField.Domain().Strings {
			if err := dsl.CheckMembership("context.calc_field", s, fighters.StatNames); err != nil {
				return fmt.Errorf("moves: %w", err)
			}
		}
	}
	if c.Chance != nil {
		if err := dsl.Check(map[string]dsl.Domain{"chance": c.Chance.Domain()}, func(v map[string]float64) bool {
			return v["chance"] >= 0 && v["chance"] <= 1
		}); err != nil {
			return fmt.Errorf("moves: context.chance out of bounds: %w", err)
		}
	}
	if c.Mult != nil {
		if err := dsl.Check(map[string]dsl.Domain{"mult": c.Mult.Domain()}, func(v map[string]float64) bool {
			return v["mult"] >= 0
		}); err != nil {
			return fmt.Errorf("moves: context.mult must be >= 0: %w", err)
		}
	}
	if c.Duration != nil {
		if err := dsl.Check(map[string]dsl.Domain{"duration": c.Duration.Domain()}, func(v map[string]float64) bool {
			return v["duration"] >= -1
		}); err != nil {
			return fmt.Errorf("moves: context.duration must be >= -1: %w", err)
		}
	}
	if c.Amount != nil && c.Flat != nil {
		if err := dsl.Check(map[string]dsl.Domain{"amount": c.Amount.Domain(), "flat": c.Flat.Domain()},
			func(v map[string]float64) bool { return v["amount"]+v["flat"] >= 0 }); err != nil {
			return fmt.Errorf("moves: context.amount + flat must be >= 0: %w", err)
		}
	}
	return nil
}

// AsMoveContext freezes a resolved context back into a MoveContext whose
// fields are all eager constants, so composite action handlers
// (condition/random/repeat) can pass it down as the parent context for
// their nested action list without re-sampling it.
func (r ResolvedContext) AsMoveContext() MoveContext {
	amount := dsl.Const(r.Amount)
	return MoveContext{
		Amount:     &amount,
		Chance:     ref(dsl.ConstFloat(r.Chance)),
		CalcTarget: ref(dsl.ConstString(r.CalcTarget)),
		CalcField:  ref(dsl.ConstString(r.CalcField)),
		Mult:       ref(dsl.ConstFloat(r.Mult)),
		Flat:       ref(dsl.ConstInt(int64(r.Flat))),
		Duration:   ref(dsl.ConstInt(int64(r.Duration))),
	}
}

// ResolvedContext is a MoveContext with every field sampled, ready for a
// handler to read.
type ResolvedContext struct {
	Amount       dsl.Value
	AmountIsPct  bool
	Chance       float64
	CalcTarget   string
	CalcField    string
	Mult         float64
	Flat         int
	Duration     int
}

// Resolve samples every field of c. Per spec.md §9's is_percent open
// question, "amount is a percentage" is read off Value.Kind (KindFloat)
// rather than inferred from Go's numeric defaulting.
func (c MoveContext) Resolve() (ResolvedContext, error) {
	amountVal, err := c.Amount.Resolve()
	if err != nil {
		return ResolvedContext{}, fmt.Errorf("amount: %w", err)
	}
	chance, err := c.Chance.Float()
	if err != nil {
		return ResolvedContext{}, fmt.Errorf("chance: %w", err)
	}
	calcTarget, err := c.CalcTarget.StringVal()
	if err != nil {
		return ResolvedContext{}, fmt.Errorf("calc_target: %w", err)
	}
	calcField, err := c.CalcField.StringVal()
	if err != nil {
		return ResolvedContext{}, fmt.Errorf("calc_field: %w", err)
	}
	mult, err := c.Mult.Float()
	if err != nil {
		return ResolvedContext{}, fmt.Errorf("mult: %w", err)
	}
	flat, err := c.Flat.Int()
	if err != nil {
		return ResolvedContext{}, fmt.Errorf("flat: %w", err)
	}
	duration, err := c.Duration.Int()
	if err != nil {
		return ResolvedContext{}, fmt.Errorf("duration: %w", err)
	}
	return ResolvedContext{
		Amount:      amountVal,
		AmountIsPct: amountVal.Kind == dsl.KindFloat,
		Chance:      chance,
		CalcTarget:  calcTarget,
		CalcField:   calcField,
		Mult:        mult,
		Flat:        flat,
		Duration:    duration,
	}, nil
}
