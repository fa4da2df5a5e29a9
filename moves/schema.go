package moves

import (
	"encoding/json"
	"fmt"
	"log"

	"skirmish/dsl"
	"skirmish/fighters"
	"skirmish/registry"
)

// Categories enumerates valid Move.Category values.
var Categories = []string{"damage", "support", "special", "none"}

// Move extends MoveContext with its own identity and action tree.
type Move struct {
	ID           string         `json:"id"`
	Name         dsl.Resolvable `json:"name"`
	Description  dsl.Resolvable `json:"description"`
	Enabled      bool           `json:"enabled"`
	Type         string         `json:"type"`
	Category     string         `json:"category"`
	ChargeUsage  dsl.Resolvable `json:"charge_usage"`
	Sound        string         `json:"sound,omitempty"`
	Context      MoveContext    `json:"-"`
	Actions      ActionList     `json:"actions"`
}

// UnmarshalJSON decodes both the move's identity fields and its inline
// MoveContext override fields (amount, chance, ... at the move's top
// level), matching the original content shape where a move "extends"
// MoveContext rather than nesting it.
func (m *Move) UnmarshalJSON(data []byte) error {
	type alias Move
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	ctx, err := unmarshalContext(data)
	if err != nil {
		return err
	}
	*m = Move(a)
	m.Context = ctx
	return nil
}

func (m Move) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("moves: move.id must not be empty")
	}
	if err := dsl.CheckMembership("move.type", m.Type, fighters.Types); err != nil {
		return err
	}
	if err := dsl.CheckMembership("move.category", m.Category, Categories); err != nil {
		return err
	}
	if err := dsl.Check(map[string]dsl.Domain{"charge_usage": m.ChargeUsage.Domain()}, func(v map[string]float64) bool {
		return v["charge_usage"] >= 0 && v["charge_usage"] <= 999
	}); err != nil {
		return fmt.Errorf("moves: move %q charge_usage out of bounds: %w", m.ID, err)
	}
	if err := m.Context.Validate(); err != nil {
		return fmt.Errorf("moves: move %q: %w", m.ID, err)
	}
	return validateActions(m.Actions)
}

func validateActions(actions ActionList) error {
	for _, a := range actions {
		base := a.Base()
		if err := base.Context.Validate(); err != nil {
			return fmt.Errorf("moves: action %q: %w", base.Kind, err)
		}
		switch v := a.(type) {
		case *BuffAction:
			for _, s := range v.Stats {
				if err := dsl.CheckMembership("buff.stats", s, fighters.StatNames); err != nil {
					return err
				}
			}
		case *ConditionAction:
			if err := validateActions(v.Actions); err != nil {
				return err
			}
		case *RandomAction:
			for _, c := range v.Choices {
				if err := validateActions(ActionList{c.Action}); err != nil {
					return err
				}
			}
		case *RepeatAction:
			if err := validateActions(v.Actions); err != nil {
				return err
			}
		}
	}
	return nil
}

// MoveSet is the indexed catalogue of every move known to the process.
type MoveSet struct {
	byID  map[string]*Move
	order []string
}

func (ms *MoveSet) Get(id string) (*Move, bool) {
	m, ok := ms.byID[id]
	return m, ok
}

func (ms *MoveSet) Has(id string) bool {
	_, ok := ms.byID[id]
	return ok
}

func (ms *MoveSet) Visit(fn func(m *Move)) {
	for _, id := range ms.order {
		fn(ms.byID[id])
	}
}

type moveFile struct {
	Moves []Move `json:"moves"`
}

// BuildMoveSet is the registry.Factory for the "moves" system.
func BuildMoveSet(raw json.RawMessage, reg *registry.Registry) (interface{}, error) {
	var file moveFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("moves: decoding content: %w", err)
	}

	ms := &MoveSet{byID: make(map[string]*Move)}
	for i := range file.Moves {
		m := file.Moves[i]
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if !m.Enabled {
			continue
		}
		if _, dup := ms.byID[m.ID]; dup {
			log.Printf("moves: duplicate move id %q, keeping last occurrence", m.ID)
		} else {
			ms.order = append(ms.order, m.ID)
		}
		cp := m
		ms.byID[m.ID] = &cp
	}
	return ms, nil
}
