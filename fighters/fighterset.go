package fighters

import (
	"encoding/json"
	"fmt"
	"log"

	"skirmish/registry"
)

// FighterSet is the indexed catalogue of every fighter known to the
// process, built once by the registry and read-only thereafter. Indexing
// (insertion order + id lookup, duplicate-keeps-last, disabled-excluded)
// follows a Convert()-then-Visit() idiom: build an ordered backing slice
// once, then provide a visitor over it rather than exposing the slice for
// ad hoc mutation.
type FighterSet struct {
	byID  map[string]*Fighter
	order []string
}

// Get returns the fighter for id, or ok=false if unknown/disabled.
func (fs *FighterSet) Get(id string) (*Fighter, bool) {
	f, ok := fs.byID[id]
	return f, ok
}

// Visit calls fn once per fighter, in load order.
func (fs *FighterSet) Visit(fn func(f *Fighter)) {
	for _, id := range fs.order {
		fn(fs.byID[id])
	}
}

// Len returns the number of indexed (enabled) fighters.
func (fs *FighterSet) Len() int { return len(fs.order) }

type fighterFile struct {
	Fighters []Fighter `json:"fighters"`
}

// BuildFighterSet is the registry.Factory for the "fighters" system. It
// validates every fighter, checks move-id references against the already
// registered "moves" system, and indexes by id: duplicate ids warn and keep
// the last occurrence, disabled entries are excluded from the index.
func BuildFighterSet(moveIDLookup func(id string) bool) registry.Factory {
	return func(raw json.RawMessage, reg *registry.Registry) (interface{}, error) {
		var file fighterFile
		if err := json.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("fighters: decoding content: %w", err)
		}

		fs := &FighterSet{byID: make(map[string]*Fighter)}
		for i := range file.Fighters {
			f := file.Fighters[i]
			if err := f.Validate(); err != nil {
				return nil, err
			}
			for _, moveID := range f.Moves {
				if moveIDLookup != nil && !moveIDLookup(moveID) {
					return nil, fmt.Errorf("fighters: fighter %q references unknown move %q", f.ID, moveID)
				}
			}
			if !f.Enabled {
				continue
			}
			if _, dup := fs.byID[f.ID]; dup {
				log.Printf("fighters: duplicate fighter id %q, keeping last occurrence", f.ID)
			} else {
				fs.order = append(fs.order, f.ID)
			}
			cp := f
			fs.byID[f.ID] = &cp
		}
		return fs, nil
	}
}
