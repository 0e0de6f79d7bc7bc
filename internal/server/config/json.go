package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/antirev/internal/flagx"
	"github.com/dmitrijs2005/antirev/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations use
// timex.Duration so both "5s" and integer nanoseconds are accepted. Fields
// left out of the file keep their current value.
type JsonConfig struct {
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc"`
	DatabaseDSN      string         `json:"database_dsn"`
	LogLevel         string         `json:"log_level"`
	HashMemoryKiB    uint           `json:"hash_memory_kib"`
	HashIterations   uint           `json:"hash_iterations"`
	HashParallelism  uint           `json:"hash_parallelism"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout"`
	SeedUsername     string         `json:"seed_username"`
	SeedPassword     string         `json:"seed_password"`
}

// parseJson overlays values from the JSON file named by -c / -config.
// Without the flag nothing is loaded. An unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)
	setUint(&config.HashMemoryKiB, c.HashMemoryKiB)
	setUint(&config.HashIterations, c.HashIterations)
	setUint(&config.HashParallelism, c.HashParallelism)
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	setString(&config.SeedUsername, c.SeedUsername)
	setString(&config.SeedPassword, c.SeedPassword)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setUint(dst *uint, v uint) {
	if v != 0 {
		*dst = v
	}
}
