package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"cstsite/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// A missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if warn := configureDefaultLogger(cfg.LogLevel); warn != "" {
		fmt.Fprintln(os.Stderr, warn)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
