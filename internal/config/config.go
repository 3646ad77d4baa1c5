package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"false"`

	// Auth
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer string `envconfig:"JWT_ISSUER" default:"momento-api"`

	// Face detection
	ProviderType string `envconfig:"PROVIDER_TYPE" default:"mock"`
	DeepFaceURL  string `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`

	// AWS
	AWSRegion       string `envconfig:"AWS_REGION" default:"us-east-1"`
	S3Bucket        string `envconfig:"S3_BUCKET" default:"momento-media"`
	S3PublicBaseURL string `envconfig:"S3_PUBLIC_BASE_URL"`

	// Matching
	MatchThreshold     float64 `envconfig:"MATCH_THRESHOLD" default:"0.75"`
	HTTPMatchThreshold float64 `envconfig:"HTTP_MATCH_THRESHOLD" default:"0.8"`

	// Media
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"20971520"`

	// Detection retries
	DetectionSweepInterval time.Duration `envconfig:"DETECTION_SWEEP_INTERVAL" default:"5m"`
	DetectionMaxAttempts   int           `envconfig:"DETECTION_MAX_ATTEMPTS" default:"3"`
	DetectionTimeout       time.Duration `envconfig:"DETECTION_TIMEOUT" default:"60s"`

	// Rate limiting, requests per minute per user
	RateLimitMax int `envconfig:"RATE_LIMIT_MAX" default:"120"`
}

// Load reads the configuration from the environment. Values from a .env
// file in the working directory are used when present, without
// overriding variables that are already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.ProviderType {
	case "mock", "deepface", "rekognition":
	default:
		return fmt.Errorf("PROVIDER_TYPE must be one of mock, deepface, rekognition, got %q", c.ProviderType)
	}

	if c.MatchThreshold <= 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("MATCH_THRESHOLD must be in (0,1], got %v", c.MatchThreshold)
	}
	if c.HTTPMatchThreshold <= 0 || c.HTTPMatchThreshold > 1 {
		return fmt.Errorf("HTTP_MATCH_THRESHOLD must be in (0,1], got %v", c.HTTPMatchThreshold)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.DetectionSweepInterval < time.Minute {
		return fmt.Errorf("DETECTION_SWEEP_INTERVAL must be at least 1m, got %s", c.DetectionSweepInterval)
	}
	if c.DetectionMaxAttempts < 1 {
		return fmt.Errorf("DETECTION_MAX_ATTEMPTS must be at least 1")
	}
	if c.DetectionTimeout <= 0 {
		return fmt.Errorf("DETECTION_TIMEOUT must be positive")
	}
	if c.RateLimitMax < 1 {
		return fmt.Errorf("RATE_LIMIT_MAX must be at least 1")
	}
	return nil
}

// MediaBaseURL is the public prefix for stored media objects.
func (c *Config) MediaBaseURL() string {
	if c.S3PublicBaseURL != "" {
		return c.S3PublicBaseURL
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.S3Bucket, c.AWSRegion)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
