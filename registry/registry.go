// Package registry implements the lazy dependency container that wires
// named systems (moves, fighters, battle) to their JSON content files.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Factory turns a content file's raw JSON into a built system instance,
// decoding and validating it itself, with access to the registry so it can
// pull in systems it depends on (fighters depend on moves, battle depends on
// fighters).
type Factory func(config json.RawMessage, reg *Registry) (interface{}, error)

type spec struct {
	name     string
	dataFile string
	factory  Factory
}

// Registry is a process-wide, load-once-cache container. Callers thread one
// *Registry explicitly rather than relying on package-level global state;
// only the singleton (load-once, cache) behavior is normative.
type Registry struct {
	DataRoot string

	specs     map[string]spec
	instances map[string]interface{}
}

// New returns a registry rooted at dataRoot, the directory containing
// moves.json, fighters.json, battle.json, and friends.
func New(dataRoot string) *Registry {
	return &Registry{
		DataRoot:  dataRoot,
		specs:     make(map[string]spec),
		instances: make(map[string]interface{}),
	}
}

// AddSpec registers a named system. It fails if the name was already used.
func (r *Registry) AddSpec(name, dataFile string, factory Factory) error {
	if _, exists := r.specs[name]; exists {
		return fmt.Errorf("registry: spec %q already registered", name)
	}
	r.specs[name] = spec{name: name, dataFile: dataFile, factory: factory}
	return nil
}

// Build reads dataRoot/dataFile as JSON, invokes the registered factory, and
// caches the result. A load failure surfaces as an error; no partial or
// stub instance is ever cached.
func (r *Registry) Build(name string) (interface{}, error) {
	sp, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("registry: no spec registered for %q", name)
	}

	path := filepath.Join(r.DataRoot, sp.dataFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: reading %s: %w", path, err)
	}

	inst, err := sp.factory(raw, r)
	if err != nil {
		return nil, fmt.Errorf("registry: building %q: %w", name, err)
	}

	r.instances[name] = inst
	return inst, nil
}

// Get returns the cached instance for name, building it on first call.
func (r *Registry) Get(name string) (interface{}, error) {
	if inst, ok := r.instances[name]; ok {
		return inst, nil
	}
	return r.Build(name)
}
