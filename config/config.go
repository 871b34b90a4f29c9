package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// Server
	ServerPort string `yaml:"server_port"`

	// Database; empty means the in-memory store
	DatabaseURL string `yaml:"database_url"`

	// Artifact storage; S3 is used when a bucket is set
	ArtifactDir string `yaml:"artifact_dir"`
	S3Bucket    string `yaml:"s3_bucket"`
	AWSRegion   string `yaml:"aws_region"`

	// Dispatch; empty means the in-process dispatcher
	NATSURL string `yaml:"nats_url"`

	// Training
	MaxConcurrentJobs   int     `yaml:"max_concurrent_jobs"`
	JobTimeoutMinutes   int     `yaml:"job_timeout_minutes"`
	MinExamplesPerLabel int     `yaml:"min_examples_per_label"`
	MaxExamplesPerLabel int     `yaml:"max_examples_per_label"`
	TrainSeed           int64   `yaml:"train_seed"`
	ValidationSplit     float64 `yaml:"validation_split"`
}

// Load reads config.yaml (path from CONFIG_PATH, optional) and applies
// environment variable overrides on top.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:          "8080",
		ArtifactDir:         "data/models",
		AWSRegion:           "us-east-1",
		MaxConcurrentJobs:   3,
		JobTimeoutMinutes:   10,
		MinExamplesPerLabel: 2,
		MaxExamplesPerLabel: 50,
		TrainSeed:           42,
		ValidationSplit:     0.2,
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.ArtifactDir = getEnv("ARTIFACT_DIR", cfg.ArtifactDir)
	cfg.S3Bucket = getEnv("S3_BUCKET", cfg.S3Bucket)
	cfg.AWSRegion = getEnv("AWS_REGION", cfg.AWSRegion)
	cfg.NATSURL = getEnv("NATS_URL", cfg.NATSURL)
	cfg.MaxConcurrentJobs = getEnvInt("MAX_CONCURRENT_JOBS", cfg.MaxConcurrentJobs)
	cfg.JobTimeoutMinutes = getEnvInt("JOB_TIMEOUT_MINUTES", cfg.JobTimeoutMinutes)
	cfg.MinExamplesPerLabel = getEnvInt("MIN_EXAMPLES_PER_LABEL", cfg.MinExamplesPerLabel)
	cfg.MaxExamplesPerLabel = getEnvInt("MAX_EXAMPLES_PER_LABEL", cfg.MaxExamplesPerLabel)
	cfg.TrainSeed = getEnvInt64("TRAIN_SEED", cfg.TrainSeed)
	cfg.ValidationSplit = getEnvFloat("VALIDATION_SPLIT", cfg.ValidationSplit)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
