package bench

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/momentics/hioload-connscale/api"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "127.0.0.1:8081", cfg.Target())
	assert.Equal(t, 320_000, cfg.Connections)
	assert.Equal(t, 5000, cfg.GateCapacity)
	assert.Equal(t, 60*time.Second, cfg.Hold)
	assert.Equal(t, 5000, cfg.launcherConfig().Workers, "workers follow gate capacity")
}

func TestConfig_Validate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty host":    func(c *Config) { c.Host = "" },
		"port zero":     func(c *Config) { c.Port = 0 },
		"port too big":  func(c *Config) { c.Port = 70000 },
		"negative n":    func(c *Config) { c.Connections = -1 },
		"n over 2^32":   func(c *Config) { n := int64(math.MaxUint32) + 1; c.Connections = int(n) },
		"zero gate":     func(c *Config) { c.GateCapacity = 0 },
		"zero batch":    func(c *Config) { c.BatchSize = 0 },
		"neg pause":     func(c *Config) { c.BatchPause = -time.Second },
		"zero timeout":  func(c *Config) { c.Timeout = 0 },
		"negative hold": func(c *Config) { c.Hold = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, api.ErrInvalidArgument)
			var apiErr *api.Error
			assert.ErrorAs(t, err, &apiErr)
		})
	}
}

func TestConfig_IPv6Target(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "::1"
	assert.Equal(t, "[::1]:8081", cfg.Target())
	assert.Equal(t, "::1", cfg.clientConfig().Host)
}
