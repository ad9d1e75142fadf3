// Where: internal/infra/awsclient/factory.go
// What: AWS SDK configuration and client construction.
// Why: S3 repositories and the DynamoDB ledger share credentials, region and endpoint rules.
package awsclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Settings carries the inputs for loadAWSConfig.
type Settings struct {
	Region    string
	AccessKey string
	SecretKey string
}

// Factory builds AWS clients from a single Settings value.
type Factory struct {
	settings Settings
}

func NewFactory(settings Settings) *Factory {
	return &Factory{settings: settings}
}

// S3 returns a client for endpoint. An empty endpoint uses the AWS default
// resolver; a custom endpoint (MinIO, RustFS, LocalStack) implies path-style
// addressing.
func (f *Factory) S3(ctx context.Context, endpoint string) (*s3.Client, error) {
	cfg, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	endpoint = strings.TrimSpace(endpoint)
	return s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
			options.UsePathStyle = true
		}
	}), nil
}

// DynamoDB returns a client for endpoint, using the AWS default resolver
// when endpoint is empty.
func (f *Factory) DynamoDB(ctx context.Context, endpoint string) (*dynamodb.Client, error) {
	cfg, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	endpoint = strings.TrimSpace(endpoint)
	return dynamodb.NewFromConfig(cfg, func(options *dynamodb.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func (f *Factory) load(ctx context.Context) (aws.Config, error) {
	cfg, err := loadAWSConfig(ctx, f.settings)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// loadAWSConfig uses static credentials when both keys are set and the
// default credential chain otherwise.
func loadAWSConfig(ctx context.Context, settings Settings) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{}
	if settings.Region != "" {
		opts = append(opts, config.WithRegion(settings.Region))
	}
	if settings.AccessKey != "" && settings.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(settings.AccessKey, settings.SecretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}
