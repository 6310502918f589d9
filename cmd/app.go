// Package cmd implements the secuofx command line application.
package cmd

import (
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/etnz/secuofx"
	"github.com/etnz/secuofx/config"
	"github.com/etnz/secuofx/httpx"
	"github.com/etnz/secuofx/logger"
	"github.com/etnz/secuofx/toushin"
	"github.com/etnz/secuofx/yahoo"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&fetchCmd{}, "quotes")
	c.Register(&classifyCmd{}, "quotes")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var envFile = flag.String("env-file", ".env", "Path to an optional file of environment variables")
var logLevel = flag.String("log-level", "", "Log level (debug, info, warn, error, off), overrides LOG_LEVEL")

// loadConfig reads the configuration, the -log-level flag wins over the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*envFile)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
}

// newResolver wires the quote sources: Yahoo Finance for everything, and the
// fund library as a fallback for mutual funds.
func newResolver(cfg *config.Config, log zerolog.Logger) *secuofx.Resolver {
	client := httpx.New(cfg.CallTimeout, log)

	primary := yahoo.New(
		yahoo.WithBaseURL(cfg.YahooBaseURL),
		yahoo.WithHTTPClient(client),
		yahoo.WithLookback(cfg.LookbackDays),
		yahoo.WithLogger(log),
	)
	fallback := toushin.New(
		toushin.WithBaseURL(cfg.ToushinBaseURL),
		toushin.WithHTTPClient(client),
		toushin.WithLookback(cfg.LookbackDays),
		toushin.WithLogger(log),
	)

	policy := secuofx.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.MaxAttempts
	policy.BaseDelay = cfg.BaseDelay
	policy.CallTimeout = cfg.CallTimeout
	policy.Log = log

	return &secuofx.Resolver{
		Chains: map[secuofx.Kind]secuofx.Chain{
			secuofx.JapaneseStock:      {primary},
			secuofx.USStock:            {primary},
			secuofx.JapaneseMutualFund: {primary, fallback},
		},
		Policy:      policy,
		Concurrency: cfg.Concurrency,
		Log:         log,
	}
}

// identifiers returns the identifiers listed in args, each argument may hold
// several separated by commas.
func identifiers(args []string) []string {
	var ids []string
	for _, arg := range args {
		ids = append(ids, secuofx.ParseIdentifiers(arg)...)
	}
	return ids
}
