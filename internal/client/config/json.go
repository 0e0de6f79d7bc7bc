package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/antirev/internal/flagx"
	"github.com/dmitrijs2005/antirev/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. CallTimeout
// accepts "5s" as well as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	StatePath          string         `json:"state_path"`
	CallTimeout        timex.Duration `json:"call_timeout"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c / -config. Keys missing from the file leave the current value alone.
// Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.StatePath != "" {
		cfg.StatePath = jc.StatePath
	}
	if jc.CallTimeout.Duration != 0 {
		cfg.CallTimeout = jc.CallTimeout.Duration
	}
}
