package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/antirev/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-l", "-m", "-i", "-p", "-w", "-su", "-sp"}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     gRPC bind address (e.g., ":50051")
//	-d string     PostgreSQL DSN
//	-l string     log level
//	-m uint       Argon2 memory, KiB
//	-i uint       Argon2 iterations
//	-p uint       Argon2 parallelism
//	-w duration   shutdown timeout (e.g., "5s")
//	-su string    seed account username
//	-sp string    seed account password
//
// os.Args is filtered with flagx.FilterArgs first, so flags owned by other
// components (such as -c) do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")
	fs.UintVar(&config.HashMemoryKiB, "m", config.HashMemoryKiB, "argon2 memory in KiB")
	fs.UintVar(&config.HashIterations, "i", config.HashIterations, "argon2 iterations")
	fs.UintVar(&config.HashParallelism, "p", config.HashParallelism, "argon2 parallelism")
	fs.DurationVar(&config.ShutdownTimeout, "w", config.ShutdownTimeout, "graceful shutdown timeout")
	fs.StringVar(&config.SeedUsername, "su", config.SeedUsername, "seed account username")
	fs.StringVar(&config.SeedPassword, "sp", config.SeedPassword, "seed account password")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
