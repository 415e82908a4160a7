// Package config loads runtime configuration shared by the agentchat server
// and the terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: a .env file in the working directory (if present) and
//     process variables (see parseEnv).
//  3. Optional config file selected via -c or -config; ".toml" files are
//     decoded as TOML, everything else as JSON (see parseFile).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   HTTP API listen address
//	-g string   gRPC health listen address
//	-d string   database DSN (SQLite path or postgres:// URL)
//	-s string   JWT signing secret
//	-t int      access token validity (minutes)
//	-o string   Ollama base URL
//	-m string   default model
//	-i string   local character image directory
//	-b string   S3 bucket with character images (enables the S3 catalog)
//	-r string   S3 region
//	-e string   S3 base endpoint
//	-n int      health check interval (seconds)
//	-l string   log level (debug, info, warn, error)
//
// # File schema
//
// Durations accept strings like "10s" or integer nanoseconds:
//
//	{
//	  "http_addr": ":8501",
//	  "database_dsn": "agent1.db",
//	  "ollama_host": "http://127.0.0.1:11434",
//	  "default_model": "llama2",
//	  "fallback_models": ["llama2", "mistral"],
//	  "health_check_interval": "10s"
//	}
package config
