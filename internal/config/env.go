package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// dotEnvPath is a seam for tests.
var dotEnvPath = ".env"

// parseEnv loads .env into the process environment (existing variables win)
// and overlays the variables below onto cfg. A missing .env is fine; a
// malformed one panics like a malformed config file.
//
//	DEFAULT_MODEL              default model
//	OLLAMA_HOST                Ollama base URL
//	AGENTCHAT_HTTP_ADDR        HTTP API listen address
//	AGENTCHAT_GRPC_ADDR        gRPC health listen address
//	AGENTCHAT_DATABASE_DSN     database DSN
//	AGENTCHAT_SECRET_KEY       JWT signing secret
//	AGENTCHAT_IMAGES_DIR       local character image directory
//	AGENTCHAT_S3_BUCKET        S3 bucket with character images
//	AGENTCHAT_S3_ACCESS_KEY    S3 access key id
//	AGENTCHAT_S3_SECRET_KEY    S3 secret access key
//	AGENTCHAT_LOG_LEVEL        log level
func parseEnv(cfg *Config) {
	if err := godotenv.Load(dotEnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	set := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	set("DEFAULT_MODEL", &cfg.DefaultModel)
	set("OLLAMA_HOST", &cfg.OllamaHost)
	set("AGENTCHAT_HTTP_ADDR", &cfg.HTTPAddr)
	set("AGENTCHAT_GRPC_ADDR", &cfg.GRPCAddr)
	set("AGENTCHAT_DATABASE_DSN", &cfg.DatabaseDSN)
	set("AGENTCHAT_SECRET_KEY", &cfg.SecretKey)
	set("AGENTCHAT_IMAGES_DIR", &cfg.ImagesDir)
	set("AGENTCHAT_S3_BUCKET", &cfg.S3Bucket)
	set("AGENTCHAT_S3_ACCESS_KEY", &cfg.S3AccessKey)
	set("AGENTCHAT_S3_SECRET_KEY", &cfg.S3SecretKey)
	set("AGENTCHAT_LOG_LEVEL", &cfg.LogLevel)
}
