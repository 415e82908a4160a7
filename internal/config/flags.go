package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/agentchat/internal/flagx"
)

// parseFlags populates Config fields from command-line flags (see package
// docs for the list). Only known flags are passed to the FlagSet, so -c and
// foreign flags do not break parsing. Durations are given as whole minutes
// (-t) or seconds (-n). Invalid values panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-s", "-t", "-o", "-m", "-i", "-b", "-r", "-e", "-n", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "HTTP API listen address")
	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "gRPC health listen address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "token signing secret")
	tokenValidity := fs.Int("t", int(cfg.TokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&cfg.OllamaHost, "o", cfg.OllamaHost, "Ollama base URL")
	fs.StringVar(&cfg.DefaultModel, "m", cfg.DefaultModel, "default model")
	fs.StringVar(&cfg.ImagesDir, "i", cfg.ImagesDir, "character image directory")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket with character images")
	fs.StringVar(&cfg.S3Region, "r", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	healthInterval := fs.Int("n", int(cfg.HealthCheckInterval.Seconds()), "health check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	cfg.HealthCheckInterval = time.Duration(*healthInterval) * time.Second
}
