package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Duration accepts the usual Go duration syntax ("2s", "250ms") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// FieldAgentConfig describes one field agent in the fleet.
type FieldAgentConfig struct {
	Address string `yaml:"address"`
	Name    string `yaml:"name"`
}

// JitterConfig enables randomized delivery delays on the exchange. With
// a fixed seed a jittered run is reproducible.
type JitterConfig struct {
	Enabled bool     `yaml:"enabled"`
	Min     Duration `yaml:"min"`
	Max     Duration `yaml:"max"`
	Seed    uint64   `yaml:"seed"`
}

// Config is the full run configuration.
type Config struct {
	RunDuration    Duration `yaml:"run_duration"`
	ReceiveTimeout Duration `yaml:"receive_timeout"`
	IdleInterval   Duration `yaml:"idle_interval"`

	Coordinator    string             `yaml:"coordinator"`
	CoordinatorLog string             `yaml:"coordinator_log"`
	FieldAgents    []FieldAgentConfig `yaml:"field_agents"`
	FieldLog       string             `yaml:"field_log"`
	RescueAgent    string             `yaml:"rescue_agent"`

	Jitter   JitterConfig `yaml:"jitter"`
	LogLevel string       `yaml:"log_level"`
}

// Default returns the configuration of the reference scenario: one
// coordinator and two field agents running for a minute.
func Default() *Config {
	return &Config{
		RunDuration:    Duration(60 * time.Second),
		ReceiveTimeout: Duration(2 * time.Second),
		IdleInterval:   Duration(2 * time.Second),
		Coordinator:    "coordinator",
		CoordinatorLog: "coordinator_messages.log",
		FieldAgents: []FieldAgentConfig{
			{Address: "fieldagent1", Name: "FieldAgent1"},
			{Address: "fieldagent2", Name: "FieldAgent2"},
		},
		FieldLog:    "field_agent_messages.log",
		RescueAgent: "fieldagent1",
		LogLevel:    "info",
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.RunDuration <= 0 {
		return fmt.Errorf("run_duration must be positive")
	}
	if c.ReceiveTimeout <= 0 {
		return fmt.Errorf("receive_timeout must be positive")
	}
	if c.IdleInterval <= 0 {
		return fmt.Errorf("idle_interval must be positive")
	}
	if c.Coordinator == "" {
		return fmt.Errorf("coordinator address is required")
	}
	if c.CoordinatorLog == "" || c.FieldLog == "" {
		return fmt.Errorf("log file paths are required")
	}
	if len(c.FieldAgents) == 0 {
		return fmt.Errorf("at least one field agent is required")
	}

	addresses := map[string]bool{c.Coordinator: true}
	for i, fa := range c.FieldAgents {
		if fa.Address == "" || fa.Name == "" {
			return fmt.Errorf("field agent %d needs both an address and a name", i)
		}
		if addresses[fa.Address] {
			return fmt.Errorf("address %s is used twice", fa.Address)
		}
		addresses[fa.Address] = true
	}
	if !addresses[c.RescueAgent] || c.RescueAgent == c.Coordinator {
		return fmt.Errorf("rescue_agent %s is not a configured field agent", c.RescueAgent)
	}

	if c.Jitter.Enabled && (c.Jitter.Min < 0 || c.Jitter.Max <= c.Jitter.Min) {
		return fmt.Errorf("jitter bounds are invalid")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return nil
}
