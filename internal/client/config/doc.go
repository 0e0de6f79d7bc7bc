// Package config loads runtime configuration for the antirev CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     address:port of the Postboard gRPC endpoint
//	-s string     local state database path
//	-t duration   per-call timeout
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "state_path": "antirev.db",
//	  "call_timeout": "5s"
//	}
package config
