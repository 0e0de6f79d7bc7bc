package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/antirev/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     address and port of the server
//	-s string     path of the local state database
//	-t duration   per-call timeout (e.g., "5s")
//
// os.Args is filtered with flagx.FilterArgs first, so flags owned by other
// components do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.StatePath, "s", cfg.StatePath, "local state database path")
	fs.DurationVar(&cfg.CallTimeout, "t", cfg.CallTimeout, "remote call timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
