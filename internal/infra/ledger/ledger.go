// Where: internal/infra/ledger/ledger.go
// What: Publish outcome ledger backed by DynamoDB.
// Why: Keep an auditable record of which coordinate reached which repository and when.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Entry is one publish outcome of a publication to a repository.
type Entry struct {
	Coordinate  string
	Publication string
	Repository  string
	Task        string
	Outcome     string
	Detail      string
	RecordedAt  time.Time
}

// Recorder persists entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error {
	return nil
}

// DynamoDBAPI is the subset of DynamoDB used by the ledger.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, table string, item map[string]types.AttributeValue) error
}

// DynamoRecorder writes entries keyed by coordinate (partition) and
// repository#timestamp (sort).
type DynamoRecorder struct {
	client DynamoDBAPI
	table  string
	now    func() time.Time
}

func NewDynamoRecorder(client DynamoDBAPI, table string) *DynamoRecorder {
	return &DynamoRecorder{client: client, table: table, now: time.Now}
}

func (r *DynamoRecorder) Record(ctx context.Context, entry Entry) error {
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = r.now().UTC()
	}
	if err := r.client.PutItem(ctx, r.table, itemFor(entry)); err != nil {
		return fmt.Errorf("record %s to %s: %w", entry.Coordinate, entry.Repository, err)
	}
	return nil
}

func itemFor(entry Entry) map[string]types.AttributeValue {
	stamp := entry.RecordedAt.UTC().Format(time.RFC3339Nano)
	item := map[string]types.AttributeValue{
		"coordinate":  &types.AttributeValueMemberS{Value: entry.Coordinate},
		"sk":          &types.AttributeValueMemberS{Value: entry.Repository + "#" + stamp},
		"publication": &types.AttributeValueMemberS{Value: entry.Publication},
		"repository":  &types.AttributeValueMemberS{Value: entry.Repository},
		"outcome":     &types.AttributeValueMemberS{Value: entry.Outcome},
		"recorded_at": &types.AttributeValueMemberS{Value: stamp},
	}
	if entry.Task != "" {
		item["task"] = &types.AttributeValueMemberS{Value: entry.Task}
	}
	if detail := strings.TrimSpace(entry.Detail); detail != "" {
		item["detail"] = &types.AttributeValueMemberS{Value: detail}
	}
	return item
}

type awsDynamoClient struct {
	client *dynamodb.Client
}

// NewDynamoClient adapts an SDK client to DynamoDBAPI.
func NewDynamoClient(client *dynamodb.Client) DynamoDBAPI {
	return awsDynamoClient{client: client}
}

func (c awsDynamoClient) PutItem(ctx context.Context, table string, item map[string]types.AttributeValue) error {
	if c.client == nil {
		return fmt.Errorf("dynamodb client is nil")
	}
	_, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	return err
}
