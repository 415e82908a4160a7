package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/agentchat/internal/flagx"
	"github.com/dmitrijs2005/agentchat/internal/timex"
)

// FileConfig is the DTO decoded from JSON or TOML config files. Only
// non-zero values are copied into Config, so a file may set a subset of
// fields.
type FileConfig struct {
	HTTPAddr              string         `json:"http_addr" toml:"http_addr"`
	GRPCAddr              string         `json:"grpc_addr" toml:"grpc_addr"`
	DatabaseDSN           string         `json:"database_dsn" toml:"database_dsn"`
	SecretKey             string         `json:"secret_key" toml:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration" toml:"token_validity_duration"`
	OllamaHost            string         `json:"ollama_host" toml:"ollama_host"`
	DefaultModel          string         `json:"default_model" toml:"default_model"`
	FallbackModels        []string       `json:"fallback_models" toml:"fallback_models"`
	ImagesDir             string         `json:"images_dir" toml:"images_dir"`
	S3Bucket              string         `json:"s3_bucket" toml:"s3_bucket"`
	S3Prefix              string         `json:"s3_prefix" toml:"s3_prefix"`
	S3Region              string         `json:"s3_region" toml:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint" toml:"s3_base_endpoint"`
	S3AccessKey           string         `json:"s3_access_key" toml:"s3_access_key"`
	S3SecretKey           string         `json:"s3_secret_key" toml:"s3_secret_key"`
	HealthCheckInterval   timex.Duration `json:"health_check_interval" toml:"health_check_interval"`
	LoginRateLimit        float64        `json:"login_rate_limit" toml:"login_rate_limit"`
	LoginBurst            int            `json:"login_burst" toml:"login_burst"`
	BcryptCost            int            `json:"bcrypt_cost" toml:"bcrypt_cost"`
	LogLevel              string         `json:"log_level" toml:"log_level"`
}

// parseFile overlays cfg with the file named by -c/-config. It panics when
// the file cannot be read or decoded.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &fc)
	} else {
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	str := func(src string, dst *string) {
		if src != "" {
			*dst = src
		}
	}

	str(fc.HTTPAddr, &cfg.HTTPAddr)
	str(fc.GRPCAddr, &cfg.GRPCAddr)
	str(fc.DatabaseDSN, &cfg.DatabaseDSN)
	str(fc.SecretKey, &cfg.SecretKey)
	str(fc.OllamaHost, &cfg.OllamaHost)
	str(fc.DefaultModel, &cfg.DefaultModel)
	str(fc.ImagesDir, &cfg.ImagesDir)
	str(fc.S3Bucket, &cfg.S3Bucket)
	str(fc.S3Prefix, &cfg.S3Prefix)
	str(fc.S3Region, &cfg.S3Region)
	str(fc.S3BaseEndpoint, &cfg.S3BaseEndpoint)
	str(fc.S3AccessKey, &cfg.S3AccessKey)
	str(fc.S3SecretKey, &cfg.S3SecretKey)
	str(fc.LogLevel, &cfg.LogLevel)

	if len(fc.FallbackModels) > 0 {
		cfg.FallbackModels = fc.FallbackModels
	}
	if fc.TokenValidityDuration.Duration > 0 {
		cfg.TokenValidityDuration = fc.TokenValidityDuration.Duration
	}
	if fc.HealthCheckInterval.Duration > 0 {
		cfg.HealthCheckInterval = fc.HealthCheckInterval.Duration
	}
	if fc.LoginRateLimit > 0 {
		cfg.LoginRateLimit = fc.LoginRateLimit
	}
	if fc.LoginBurst > 0 {
		cfg.LoginBurst = fc.LoginBurst
	}
	if fc.BcryptCost > 0 {
		cfg.BcryptCost = fc.BcryptCost
	}
}
