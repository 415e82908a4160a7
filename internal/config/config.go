package config

import "time"

// Config holds runtime settings for agentchat.
//
// SecretKey signs access tokens; when left empty the server generates a
// random one at start-up, which invalidates tokens across restarts.
type Config struct {
	HTTPAddr              string
	GRPCAddr              string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration

	OllamaHost     string
	DefaultModel   string
	FallbackModels []string

	ImagesDir      string
	S3Bucket       string
	S3Prefix       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	HealthCheckInterval time.Duration
	LoginRateLimit      float64
	LoginBurst          int
	BcryptCost          int
	LogLevel            string
}

// DefaultModel is used when neither the environment nor flags pick one.
const DefaultModel = "goekdenizguelmez/JOSIEFIED-Qwen3:0.6b"

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8501"
	c.GRPCAddr = ":50051"
	c.DatabaseDSN = "agent1.db"
	c.SecretKey = ""
	c.TokenValidityDuration = 24 * time.Hour
	c.OllamaHost = "http://127.0.0.1:11434"
	c.DefaultModel = DefaultModel
	c.FallbackModels = []string{DefaultModel, "llama2", "mistral"}
	c.ImagesDir = "character_images"
	c.S3Bucket = ""
	c.S3Prefix = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.HealthCheckInterval = 10 * time.Second
	c.LoginRateLimit = 5
	c.LoginBurst = 10
	c.BcryptCost = 0
	c.LogLevel = "info"
}

// UseS3 reports whether character images come from an S3 bucket instead of
// the local directory.
func (c *Config) UseS3() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config by applying defaults, then the environment,
// then an optional config file and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
