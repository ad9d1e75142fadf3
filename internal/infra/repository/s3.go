// Where: internal/infra/repository/s3.go
// What: S3-backed repository and its SDK adapter.
// Why: Releases are commonly served straight from a bucket.
package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3API is the subset of S3 used by S3Repository.
type S3API interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) error
}

// S3Repository stores files under bucket/prefix.
type S3Repository struct {
	base
	client S3API
	bucket string
	prefix string
}

func NewS3Repository(name string, client S3API, bucket, prefix string, layout Layout, skipGate bool) *S3Repository {
	return &S3Repository{
		base:   base{name: name, layout: layout, skipGate: skipGate},
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (r *S3Repository) URL(p string) string {
	return fmt.Sprintf("s3://%s/%s", r.bucket, r.key(p))
}

func (r *S3Repository) Fetch(ctx context.Context, p string) ([]byte, error) {
	data, err := r.client.GetObject(ctx, r.bucket, r.key(p))
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%s: %w", r.URL(p), ErrNotFound)
		}
		return nil, fmt.Errorf("get %s: %w", r.URL(p), err)
	}
	return data, nil
}

func (r *S3Repository) Put(ctx context.Context, p string, data []byte) error {
	if err := r.client.PutObject(ctx, r.bucket, r.key(p), data, contentType(p)); err != nil {
		return fmt.Errorf("put %s: %w", r.URL(p), err)
	}
	return nil
}

func (r *S3Repository) key(p string) string {
	p = strings.TrimPrefix(p, "/")
	if r.prefix == "" {
		return p
	}
	return path.Join(r.prefix, p)
}

func contentType(p string) string {
	switch path.Ext(p) {
	case ".module":
		return "application/vnd.org.gradle.module+json"
	case ".pom", ".xml":
		return "application/xml"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

type awsS3Client struct {
	client *s3.Client
}

// NewS3Client adapts an SDK client to S3API.
func NewS3Client(client *s3.Client) S3API {
	return awsS3Client{client: client}
}

func (c awsS3Client) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	resp, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (c awsS3Client) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if c.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	return err
}

func isS3NotFound(err error) bool {
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
