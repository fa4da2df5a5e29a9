// Package config resolves the engine's process configuration: an optional
// engine.yaml layered under CLI flags, each layer overriding the last.
package config

import (
	"flag"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// OuterConfig is the {kind, def} envelope engine.yaml is wrapped in,
// mirroring a training config's viper+yaml.v3 round-trip so a
// settings file can be versioned/keyed the same way.
type OuterConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// EngineSettings is the inner settings payload an engine.yaml's "def" key
// unmarshals into.
type EngineSettings struct {
	DataRoot  string `yaml:"dataRoot"`
	MaxTurns  int    `yaml:"maxTurns"`
	Presenter bool   `yaml:"presenter"`
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	BattleID  string `yaml:"battleId"`
}

// Config is the fully-resolved process configuration: defaults, then
// engine.yaml (if present), then flags, each layer overriding the last.
type Config struct {
	DataRoot  string
	Seed      int64
	Debug     bool
	MaxTurns  int
	Presenter bool
	Host      string
	Port      string
	BattleID  string
}

func defaults() Config {
	return Config{
		DataRoot:  "./data",
		Seed:      0,
		Debug:     false,
		MaxTurns:  0,
		Presenter: false,
		Host:      "",
		Port:      "8080",
		BattleID:  "hero_vs_villain",
	}
}

// FromYaml reads an engine.yaml at path through the {kind, def} envelope,
// exactly as a training config's own settings loader would.
func FromYaml(path string) (*EngineSettings, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, err
	}

	outer := &OuterConfig{}
	if err := vp.Unmarshal(outer); err != nil {
		return nil, err
	}

	spec, err := yaml.Marshal(outer.Def)
	if err != nil {
		return nil, err
	}

	settings := &EngineSettings{}
	if err := yaml.Unmarshal(spec, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Flags holds the parsed CLI flag values, mirroring main.go's init()
// pattern of package-level flag pointers populated by flag.Parse().
type Flags struct {
	Data      *string
	Seed      *int64
	Debug     *bool
	MaxTurns  *int
	Presenter *bool
	Host      *string
	Port      *string
	BattleID  *string
}

// RegisterFlags declares the engine's CLI surface on fs (pass flag.CommandLine
// in production, a fresh flag.FlagSet in tests).
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Data:      fs.String("data", "./data", "content data root directory"),
		Seed:      fs.Int64("seed", 0, "random seed (0 selects a time-based seed)"),
		Debug:     fs.Bool("debug", false, "debug mode"),
		MaxTurns:  fs.Int("max-turns", 0, "override every battle's max_turns (0 = content default)"),
		Presenter: fs.Bool("presenter", false, "serve the websocket presenter bridge"),
		Host:      fs.String("host", "", "presenter bridge host"),
		Port:      fs.String("port", "8080", "presenter bridge port"),
		BattleID:  fs.String("battle", "hero_vs_villain", "content battle id to run"),
	}
}

// Resolve layers defaults, then an optional engine.yaml at yamlPath (missing
// file is not an error - the settings layer is optional), then flags. A flag
// overrides the yaml value only when it differs from the flag's default, so a
// flag explicitly set to its default value does not undo a yaml setting, and
// -presenter can turn the bridge on but not off.
func Resolve(yamlPath string, f *Flags) Config {
	cfg := defaults()

	if settings, err := FromYaml(yamlPath); err == nil && settings != nil {
		if settings.DataRoot != "" {
			cfg.DataRoot = settings.DataRoot
		}
		if settings.MaxTurns != 0 {
			cfg.MaxTurns = settings.MaxTurns
		}
		cfg.Presenter = settings.Presenter
		if settings.Host != "" {
			cfg.Host = settings.Host
		}
		if settings.Port != "" {
			cfg.Port = settings.Port
		}
		if settings.BattleID != "" {
			cfg.BattleID = settings.BattleID
		}
	}

	if f != nil {
		if f.Data != nil && *f.Data != "./data" {
			cfg.DataRoot = *f.Data
		}
		if f.Seed != nil {
			cfg.Seed = *f.Seed
		}
		if f.Debug != nil {
			cfg.Debug = *f.Debug
		}
		if f.MaxTurns != nil && *f.MaxTurns != 0 {
			cfg.MaxTurns = *f.MaxTurns
		}
		if f.Presenter != nil && *f.Presenter {
			cfg.Presenter = *f.Presenter
		}
		if f.Host != nil && *f.Host != "" {
			cfg.Host = *f.Host
		}
		if f.Port != nil && *f.Port != "8080" {
			cfg.Port = *f.Port
		}
		if f.BattleID != nil && *f.BattleID != "hero_vs_villain" {
			cfg.BattleID = *f.BattleID
		}
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg
}

// NumWorkers returns runtime.NumCPU().
func NumWorkers() int { return runtime.NumCPU() }
