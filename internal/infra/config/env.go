// Where: internal/infra/config/env.go
// What: Environment-driven settings.
// Why: Credentials and endpoints stay out of multipub.yaml.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const defaultAWSRegion = "us-east-1"

// Env holds settings read from the process environment.
type Env struct {
	ConfigPath       string `env:"MULTIPUB_CONFIG"`
	BuildDir         string `env:"MULTIPUB_BUILD_DIR"`
	AWSRegion        string `env:"AWS_REGION"                 envDefault:"us-east-1"`
	S3AccessKey      string `env:"MULTIPUB_S3_ACCESS_KEY"`
	S3SecretKey      string `env:"MULTIPUB_S3_SECRET_KEY"`
	S3Endpoint       string `env:"MULTIPUB_S3_ENDPOINT"`
	DynamoDBEndpoint string `env:"MULTIPUB_DYNAMODB_ENDPOINT"`
	HTTPUsername     string `env:"MULTIPUB_HTTP_USERNAME"`
	HTTPPassword     string `env:"MULTIPUB_HTTP_PASSWORD"`
}

// ParseEnv loads Env from environment variables.
func ParseEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = defaultAWSRegion
	}
	return cfg, nil
}
