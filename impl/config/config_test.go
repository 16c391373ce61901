package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
run_duration: 10s
receive_timeout: 500ms
idle_interval: 1s
coordinator: hq
coordinator_log: logs/hq.log
field_agents:
  - address: unit1
    name: Unit1
  - address: unit2
    name: Unit2
field_log: logs/field.log
rescue_agent: unit2
log_level: debug
jitter:
  enabled: true
  min: 1ms
  max: 20ms
  seed: 42
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.RunDuration.Std())
	assert.Equal(t, 500*time.Millisecond, cfg.ReceiveTimeout.Std())
	assert.Equal(t, time.Second, cfg.IdleInterval.Std())
	assert.Equal(t, "hq", cfg.Coordinator)
	assert.Equal(t, "unit2", cfg.RescueAgent)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.Len(t, cfg.FieldAgents, 2)
	assert.Equal(t, "Unit1", cfg.FieldAgents[0].Name)
	assert.True(t, cfg.Jitter.Enabled)
	assert.Equal(t, 20*time.Millisecond, cfg.Jitter.Max.Std())
	assert.Equal(t, uint64(42), cfg.Jitter.Seed)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	_, err := Load(writeConfig(t, "run_duration: soon\n"))
	assert.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no field agents", func(c *Config) { c.FieldAgents = nil }},
		{"duplicate address", func(c *Config) {
			c.FieldAgents[1].Address = c.FieldAgents[0].Address
		}},
		{"field agent named as coordinator", func(c *Config) {
			c.FieldAgents[0].Address = c.Coordinator
		}},
		{"rescue agent outside fleet", func(c *Config) { c.RescueAgent = "stranger" }},
		{"rescue agent is coordinator", func(c *Config) { c.RescueAgent = c.Coordinator }},
		{"zero idle interval", func(c *Config) { c.IdleInterval = 0 }},
		{"zero receive timeout", func(c *Config) { c.ReceiveTimeout = 0 }},
		{"missing log path", func(c *Config) { c.FieldLog = "" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
		{"inverted jitter bounds", func(c *Config) {
			c.Jitter = JitterConfig{Enabled: true, Min: Duration(time.Second), Max: Duration(time.Millisecond)}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	changed := make(chan *Config, 1)
	w, err := NewWatcher(path, func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	updated := `
run_duration: 10s
coordinator: hq
coordinator_log: logs/hq.log
field_agents:
  - address: unit1
    name: Unit1
field_log: logs/field.log
rescue_agent: unit1
log_level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case cfg := <-changed:
		assert.Equal(t, "warn", cfg.LogLevel)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not observed")
	}
}
