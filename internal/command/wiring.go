// Where: internal/command/wiring.go
// What: Default repository and ledger construction.
// Why: Keep AWS client setup out of the use case layer.
package command

import (
	"context"
	"fmt"

	"github.com/poruru/multipub/internal/infra/awsclient"
	"github.com/poruru/multipub/internal/infra/config"
	"github.com/poruru/multipub/internal/infra/ledger"
	"github.com/poruru/multipub/internal/infra/repository"
	"github.com/poruru/multipub/internal/usecase/publish"
)

func awsFactory(env config.Env) *awsclient.Factory {
	return awsclient.NewFactory(awsclient.Settings{
		Region:    env.AWSRegion,
		AccessKey: env.S3AccessKey,
		SecretKey: env.S3SecretKey,
	})
}

// NewRepositoryFactory returns a factory that builds file, HTTP and S3
// repositories for project.
func NewRepositoryFactory(project config.Project, env config.Env) publish.RepositoryFactory {
	factory := awsFactory(env)
	settings := repository.Settings{
		ResolvePath:  project.ResolvePath,
		S3Endpoint:   env.S3Endpoint,
		HTTPUsername: env.HTTPUsername,
		HTTPPassword: env.HTTPPassword,
		S3: func(ctx context.Context, endpoint string) (repository.S3API, error) {
			client, err := factory.S3(ctx, endpoint)
			if err != nil {
				return nil, err
			}
			return repository.NewS3Client(client), nil
		},
	}
	return func(ctx context.Context, cfgs []config.Repository) ([]repository.Repository, error) {
		return repository.FromConfigs(ctx, cfgs, settings)
	}
}

// NewLedger returns the DynamoDB ledger configured by project, or a no-op
// recorder when none is configured.
func NewLedger(ctx context.Context, project config.Project, env config.Env) (ledger.Recorder, error) {
	if project.Ledger == nil || project.Ledger.Table == "" {
		return ledger.Nop{}, nil
	}
	endpoint := project.Ledger.Endpoint
	if endpoint == "" {
		endpoint = env.DynamoDBEndpoint
	}
	client, err := awsFactory(env).DynamoDB(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	return ledger.NewDynamoRecorder(ledger.NewDynamoClient(client), project.Ledger.Table), nil
}
