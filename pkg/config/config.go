package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level shape of a chain-topology manifest.
type Config struct {
	APIVersion string       `yaml:"apiVersion"`
	Kind       string       `yaml:"kind"`
	Metadata   Metadata     `yaml:"metadata"`
	Engine     EngineConfig `yaml:"engine"`
	Log        LogConfig    `yaml:"log"`
	Events     []EventDef   `yaml:"events"`
	Chains     []ChainDef   `yaml:"chains"`

	// ReservedChainNames pre-reserves chain names that elements refer to
	// (via enable/disable/join operators) before those chains are defined
	// later in the manifest.
	ReservedChainNames []string `yaml:"reservedChainNames"`
}

// Metadata names the manifest itself, independent of the chains it defines.
type Metadata struct {
	Name string `yaml:"name"`
}

// EngineConfig carries the runtime knobs engine.Config exposes.
type EngineConfig struct {
	TickerInterval      string `yaml:"tickerInterval"`
	SystemQueueCapacity int    `yaml:"systemQueueCapacity"`
	ChainQueueCapacity  int    `yaml:"chainQueueCapacity"`
}

// TickerDuration parses TickerInterval, defaulting to 100ms when unset.
func (e EngineConfig) TickerDuration() (time.Duration, error) {
	if e.TickerInterval == "" {
		return 100 * time.Millisecond, nil
	}
	d, err := time.ParseDuration(e.TickerInterval)
	if err != nil {
		return 0, fmt.Errorf("config: invalid engine.tickerInterval %q: %w", e.TickerInterval, err)
	}
	return d, nil
}

// LogConfig carries the runtime knobs log.Config exposes.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// EventDef registers an additional event id beyond the built-in ones.
type EventDef struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
}

// ChainDef describes one chain and the elements it is built from.
type ChainDef struct {
	Name     string       `yaml:"name"`
	Auto     bool         `yaml:"auto"`
	Elements []ElementDef `yaml:"elements"`
}

// ElementDef names an operator constructor (from pkg/operators.Catalog)
// and the parameters it should be invoked with. Params is intentionally
// untyped: each operator is responsible for interpreting its own keys,
// the same way a resource's Spec is interpreted per-Kind.
type ElementDef struct {
	Name     string                 `yaml:"name"`
	Operator string                 `yaml:"operator"`
	Params   map[string]interface{} `yaml:"params"`
}

// GetString reads a string parameter, or defaultValue if absent.
func (e ElementDef) GetString(key, defaultValue string) string {
	if v, ok := e.Params[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return defaultValue
}

// GetInt reads an integer parameter, or defaultValue if absent or of the
// wrong type.
func (e ElementDef) GetInt(key string, defaultValue int) int {
	if v, ok := e.Params[key]; ok {
		switch val := v.(type) {
		case int:
			return val
		case float64:
			return int(val)
		}
	}
	return defaultValue
}

// GetDuration reads a duration parameter expressed as a Go duration
// string (e.g. "10s"), or defaultValue if absent or unparsable.
func (e ElementDef) GetDuration(key string, defaultValue time.Duration) time.Duration {
	if v, ok := e.Params[key]; ok {
		if s, ok := v.(string); ok {
			if d, err := time.ParseDuration(s); err == nil {
				return d
			}
		}
	}
	return defaultValue
}

// GetStringSlice reads a list-of-strings parameter, or nil if absent.
func (e ElementDef) GetStringSlice(key string) []string {
	v, ok := e.Params[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		out = append(out, fmt.Sprintf("%v", item))
	}
	return out
}

// Load reads and parses a chain-topology manifest from path, validating
// its shape before returning it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks structural invariants a malformed manifest could
// otherwise violate silently: chain and element names must be present
// and unique within their scope.
func (c *Config) Validate() error {
	if c.Kind != "" && c.Kind != "Topology" {
		return fmt.Errorf("config: unsupported kind %q, expected \"Topology\"", c.Kind)
	}

	seenChains := make(map[string]bool, len(c.Chains))
	for _, ch := range c.Chains {
		if ch.Name == "" {
			return fmt.Errorf("config: chain name is required")
		}
		if seenChains[ch.Name] {
			return fmt.Errorf("config: duplicate chain name %q", ch.Name)
		}
		seenChains[ch.Name] = true

		seenElements := make(map[string]bool, len(ch.Elements))
		for _, el := range ch.Elements {
			if el.Name == "" {
				return fmt.Errorf("config: chain %q has an element with no name", ch.Name)
			}
			if el.Operator == "" {
				return fmt.Errorf("config: chain %q element %q has no operator", ch.Name, el.Name)
			}
			if seenElements[el.Name] {
				return fmt.Errorf("config: chain %q has duplicate element name %q", ch.Name, el.Name)
			}
			seenElements[el.Name] = true
		}
	}
	return nil
}
