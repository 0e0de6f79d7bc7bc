package config

import (
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/antirev/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, defaultDSN, c.DatabaseDSN)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, uint(19456), c.HashMemoryKiB)
	assert.Equal(t, uint(2), c.HashIterations)
	assert.Equal(t, uint(1), c.HashParallelism)
	assert.Equal(t, 5*time.Second, c.ShutdownTimeout)
	assert.Empty(t, c.SeedUsername)
	assert.Empty(t, c.SeedPassword)
}

func TestLoadDefaults_DatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/posts")

	var c Config
	c.LoadDefaults()

	assert.Equal(t, "postgres://u:p@db:5432/posts", c.DatabaseDSN)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, defaultDSN, c.DatabaseDSN)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"database_dsn": "postgres://json/db",
		"log_level":    "warn",
	})
	os.Args = []string{"testbin", "-c", path, "-l", "debug"}

	c := LoadConfig()

	assert.Equal(t, "postgres://json/db", c.DatabaseDSN, "json beats env default")
	assert.Equal(t, "debug", c.LogLevel, "flags beat json")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty dsn", func(c *Config) { c.DatabaseDSN = "" }, "database DSN is empty"},
		{"zero memory", func(c *Config) { c.HashMemoryKiB = 0 }, "hash memory out of range"},
		{"zero iterations", func(c *Config) { c.HashIterations = 0 }, "hash iterations out of range"},
		{"parallelism too big", func(c *Config) { c.HashParallelism = 256 }, "hash parallelism out of range"},
		{"memory above limit", func(c *Config) { c.HashMemoryKiB = 4294967295 }, "hash memory out of range"},
		{"memory at limit", func(c *Config) { c.HashMemoryKiB = cryptox.MaxMemoryKiB }, ""},
		{"iterations above limit", func(c *Config) { c.HashIterations = cryptox.MaxIterations + 1 }, "hash iterations out of range"},
		{"parallelism above limit", func(c *Config) { c.HashParallelism = cryptox.MaxParallelism + 1 }, "hash parallelism out of range"},
		{"seed user only", func(c *Config) { c.SeedUsername = "goren" }, "seed username and password"},
		{"seed both", func(c *Config) { c.SeedUsername, c.SeedPassword = "goren", "password" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestHashParams(t *testing.T) {
	c := Config{HashMemoryKiB: 64, HashIterations: 3, HashParallelism: 2}

	assert.Equal(t, cryptox.Params{
		Memory:      64,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}, c.HashParams())
}
