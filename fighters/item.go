package fighters

import (
	"encoding/json"
	"fmt"
	"log"

	"skirmish/dsl"
	"skirmish/registry"
)

// ItemEffect enumerates the passive effects an item may grant when a
// fighter carrying it enters a battle, grounded on
// original_source/config/item.py's effect/value pairing.
type ItemEffect string

const (
	EffectRestoreHP     ItemEffect = "restore_hp"
	EffectBoostAttack   ItemEffect = "boost_attack"
	EffectBoostSpecial  ItemEffect = "boost_special"
)

var itemEffects = []string{string(EffectRestoreHP), string(EffectBoostAttack), string(EffectBoostSpecial)}

// Item is a passive consumable a fighter may carry, resolved through the
// registry exactly like a move or a fighter.
type Item struct {
	ID          string         `json:"id"`
	Effect      ItemEffect     `json:"effect"`
	Value       dsl.Resolvable `json:"value"`
	Description dsl.Resolvable `json:"description,omitempty"`
}

func (it Item) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("fighters: item.id must not be empty")
	}
	return dsl.CheckMembership("item.effect", string(it.Effect), itemEffects)
}

// ItemSet is the indexed catalogue of every item known to the process.
type ItemSet struct {
	byID map[string]*Item
}

func (is *ItemSet) Get(id string) (*Item, bool) {
	if is == nil {
		return nil, false
	}
	it, ok := is.byID[id]
	return it, ok
}

type itemFile struct {
	Items []Item `json:"items"`
}

// BuildItemSet is the registry.Factory for the "items" system.
func BuildItemSet(raw json.RawMessage, reg *registry.Registry) (interface{}, error) {
	var file itemFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("fighters: decoding item content: %w", err)
	}
	is := &ItemSet{byID: make(map[string]*Item, len(file.Items))}
	for i := range file.Items {
		it := file.Items[i]
		if err := it.Validate(); err != nil {
			return nil, err
		}
		if _, dup := is.byID[it.ID]; dup {
			log.Printf("fighters: duplicate item id %q, keeping last occurrence", it.ID)
		}
		cp := it
		is.byID[it.ID] = &cp
	}
	return is, nil
}
