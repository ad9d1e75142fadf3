// Where: internal/infra/repository/factory.go
// What: Build repositories from configuration.
// Why: Commands only know repository names; the factory maps them to transports.
package repository

import (
	"context"
	"fmt"

	"github.com/poruru/multipub/internal/infra/config"
)

// S3Factory returns an S3API bound to endpoint.
type S3Factory func(ctx context.Context, endpoint string) (S3API, error)

// Settings are the process-level inputs shared by every repository.
type Settings struct {
	// ResolvePath turns config-relative file repository paths absolute.
	ResolvePath  func(string) string
	S3Endpoint   string
	S3           S3Factory
	HTTPUsername string
	HTTPPassword string
	HTTPOptions  []HTTPOption
}

// FromConfig builds the repository declared by cfg.
func FromConfig(ctx context.Context, cfg config.Repository, settings Settings) (Repository, error) {
	layout, err := ParseLayout(cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("repository %s: %w", cfg.Name, err)
	}
	switch cfg.Type {
	case config.RepositoryFile:
		root := cfg.URL
		if settings.ResolvePath != nil {
			root = settings.ResolvePath(root)
		}
		return NewFileRepository(cfg.Name, root, layout, cfg.SkipGate), nil
	case config.RepositoryHTTP:
		opts := append([]HTTPOption{}, settings.HTTPOptions...)
		if settings.HTTPUsername != "" {
			opts = append(opts, WithBasicAuth(settings.HTTPUsername, settings.HTTPPassword))
		}
		return NewHTTPRepository(cfg.Name, cfg.URL, layout, cfg.SkipGate, opts...), nil
	case config.RepositoryS3:
		if settings.S3 == nil {
			return nil, fmt.Errorf("repository %s: s3 client factory is not configured", cfg.Name)
		}
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = settings.S3Endpoint
		}
		client, err := settings.S3(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("repository %s: %w", cfg.Name, err)
		}
		return NewS3Repository(cfg.Name, client, cfg.Bucket, cfg.Prefix, layout, cfg.SkipGate), nil
	default:
		return nil, fmt.Errorf("repository %s: unsupported type %q", cfg.Name, cfg.Type)
	}
}

// FromConfigs builds every repository in order.
func FromConfigs(ctx context.Context, cfgs []config.Repository, settings Settings) ([]Repository, error) {
	out := make([]Repository, 0, len(cfgs))
	for _, cfg := range cfgs {
		repo, err := FromConfig(ctx, cfg, settings)
		if err != nil {
			return nil, err
		}
		out = append(out, repo)
	}
	return out, nil
}
