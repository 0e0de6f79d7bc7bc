package config

import "time"

// Config holds runtime settings for the antirev CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the Postboard gRPC endpoint.
//   - StatePath: SQLite file that keeps the session token between runs.
//   - CallTimeout: deadline applied to every remote call.
type Config struct {
	ServerEndpointAddr string
	StatePath          string
	CallTimeout        time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.StatePath = "antirev.db"
	c.CallTimeout = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
