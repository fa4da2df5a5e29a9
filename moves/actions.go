package moves

import (
	"encoding/json"
	"fmt"

	"skirmish/dsl"
	"skirmish/fighters"
)

// Action is the discriminated union over action kinds: one concrete type
// per leaf or composite action, all sharing an ActionBase.
type Action interface {
	Base() *ActionBase
}

// ActionBase holds the fields every action shares: its discriminant id and
// the MoveContext fields it may override at the action level (merged with
// the parent context before dispatch).
type ActionBase struct {
	Kind    string `json:"id"`
	Context MoveContext
}

func (b *ActionBase) Base() *ActionBase { return b }

// unmarshalContext lets an action's JSON object carry MoveContext override
// fields (amount, chance, ...) inline alongside its kind-specific fields.
func unmarshalContext(data []byte) (MoveContext, error) {
	var ctx MoveContext
	if err := json.Unmarshal(data, &ctx); err != nil {
		return MoveContext{}, err
	}
	return ctx, nil
}

type DamageAction struct {
	ActionBase
	CritChance *dsl.Resolvable `json:"crit_chance,omitempty"`
	CritDamage *dsl.Resolvable `json:"crit_damage,omitempty"`
	Piercing   *dsl.Resolvable `json:"piercing,omitempty"`
}

type BuffAction struct {
	ActionBase
	Stats   []string `json:"stats"`
	Reverse bool     `json:"reverse,omitempty"`
}

type HealAction struct {
	ActionBase
}

type ShieldAction struct {
	ActionBase
}

type ModifyAction struct {
	ActionBase
	Field string         `json:"field"`
	Value dsl.Resolvable `json:"value"`
}

type TextAction struct {
	ActionBase
	Text  dsl.Resolvable `json:"text"`
	Style dsl.Resolvable `json:"style"`
}

type StatusOp string

const (
	StatusAdd    StatusOp = "add"
	StatusRemove StatusOp = "remove"
)

type StatusAction struct {
	ActionBase
	Operation string            `json:"operation"`
	Statuses  []fighters.Status `json:"status"`
}

// ConditionKind enumerates the predicates a condition action may test.
type ConditionKind string

const (
	CondHPBelow    ConditionKind = "hp_below"
	CondHPAbove    ConditionKind = "hp_above"
	CondHasStatus  ConditionKind = "has_status"
	CondLacksStatus ConditionKind = "lacks_status"
)

type Condition struct {
	Type      ConditionKind  `json:"type"`
	Threshold dsl.Resolvable `json:"threshold,omitempty"`
	Status    string         `json:"status,omitempty"`
}

type ConditionAction struct {
	ActionBase
	Conditions []Condition `json:"conditions"`
	Actions    ActionList  `json:"actions"`
}

type WeightedAction struct {
	Action Action
	Weight float64
}

func (w *WeightedAction) UnmarshalJSON(data []byte) error {
	var raw struct {
		Weight float64         `json:"weight"`
		Action json.RawMessage `json:"action"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a, err := DecodeAction(raw.Action)
	if err != nil {
		return err
	}
	w.Action = a
	w.Weight = raw.Weight
	return nil
}

type RandomAction struct {
	ActionBase
	Choices []WeightedAction `json:"choices"`
}

type RepeatAction struct {
	ActionBase
	Count   dsl.Resolvable `json:"count"`
	Actions ActionList     `json:"actions"`
}

// ActionList is a JSON array of polymorphic actions, dispatched on each
// element's "id" field.
type ActionList []Action

func (l *ActionList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(ActionList, 0, len(raw))
	for _, r := range raw {
		a, err := DecodeAction(r)
		if err != nil {
			return err
		}
		out = append(out, a)
	}
	*l = out
	return nil
}

// DecodeAction decodes a single action object, dispatching on its "id"
// field. An unrecognized id is a content error (fatal at load, per
// spec.md §7).
func DecodeAction(data []byte) (Action, error) {
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("moves: decoding action: %w", err)
	}

	ctx, err := unmarshalContext(data)
	if err != nil {
		return nil, fmt.Errorf("moves: decoding action %q context: %w", head.ID, err)
	}

	base := ActionBase{Kind: head.ID, Context: ctx}

	switch head.ID {
	case "damage":
		var a DamageAction
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		a.ActionBase = base
		return &a, nil
	case "buff":
		var a BuffAction
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		a.ActionBase = base
		return &a, nil
	case "heal":
		var a HealAction
		a.ActionBase = base
		return &a, nil
	case "shield":
		var a ShieldAction
		a.ActionBase = base
		return &a, nil
	case "modify":
		var a ModifyAction
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		a.ActionBase = base
		return &a, nil
	case "text":
		var a TextAction
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		a.ActionBase = base
		return &a, nil
	case "status":
		var a StatusAction
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		a.ActionBase = base
		return &a, nil
	case "condition":
		var a ConditionAction
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		a.ActionBase = base
		return &a, nil
	case "random":
		var a RandomAction
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		a.ActionBase = base
		return &a, nil
	case "repeat":
		var a RepeatAction
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		a.ActionBase = base
		return &a, nil
	default:
		return nil, fmt.Errorf("moves: unknown action id %q", head.ID)
	}
}
