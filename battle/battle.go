package battle

import (
	"encoding/json"
	"fmt"

	"skirmish/fighters"
	"skirmish/registry"
)

// DefaultMaxTurns is Battle.max_turns's default when unspecified in content.
const DefaultMaxTurns = 30

// Battle is the top-level content record describing a matchup: which
// fighters sit on which side, the turn cap, and cosmetic references the
// engine never interprets.
type Battle struct {
	ID               string   `json:"id"`
	MaxTurns         int      `json:"max_turns"`
	BackgroundSprite string   `json:"background_sprite,omitempty"`
	Music            string   `json:"music,omitempty"`
	SideA            []string `json:"side_a"`
	SideB            []string `json:"side_b"`
}

func (b *Battle) effectiveMaxTurns() int {
	if b.MaxTurns <= 0 {
		return DefaultMaxTurns
	}
	return b.MaxTurns
}

type battleFile struct {
	Battles []Battle `json:"battles"`
}

// BuildBattles is the registry.Factory for the "battle" system: a small
// indexed catalogue of battle definitions, each referencing fighter ids
// from the already-registered "fighters" system.
func BuildBattles(fighterLookup func(id string) bool) registry.Factory {
	return func(raw json.RawMessage, reg *registry.Registry) (interface{}, error) {
		var file battleFile
		if err := json.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("battle: decoding content: %w", err)
		}
		out := make(map[string]*Battle, len(file.Battles))
		for i := range file.Battles {
			b := file.Battles[i]
			for _, id := range append(append([]string{}, b.SideA...), b.SideB...) {
				if fighterLookup != nil && !fighterLookup(id) {
					return nil, fmt.Errorf("battle: battle %q references unknown fighter %q", b.ID, id)
				}
			}
			cp := b
			out[b.ID] = &cp
		}
		return out, nil
	}
}

// BuildSides resolves a battle's fighter id lists into live
// FighterVolatiles by looking them up in set. items may be nil if no
// content defines any fighter.item references.
func BuildSides(b *Battle, set *fighters.FighterSet, items *fighters.ItemSet) ([]*FighterVolatile, []*FighterVolatile, error) {
	buildSide := func(ids []string) ([]*FighterVolatile, error) {
		var side []*FighterVolatile
		for _, id := range ids {
			base, ok := set.Get(id)
			if !ok {
				return nil, fmt.Errorf("battle: unknown fighter id %q", id)
			}
			fv, err := NewFighterVolatile(base, items)
			if err != nil {
				return nil, err
			}
			side = append(side, fv)
		}
		return side, nil
	}
	sideA, err := buildSide(b.SideA)
	if err != nil {
		return nil, nil, err
	}
	sideB, err := buildSide(b.SideB)
	if err != nil {
		return nil, nil, err
	}
	return sideA, sideB, nil
}
