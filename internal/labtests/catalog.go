package labtests

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Catalog reads the available-tests collection. The booking workflow
// treats it as read-only; admins seed and edit it.
type Catalog struct {
	client    dynamoAPI
	tableName string
}

func NewCatalog(client dynamoAPI, tableName string) *Catalog {
	if client == nil {
		panic("labtests: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("labtests: catalog table name cannot be empty")
	}
	return &Catalog{client: client, tableName: tableName}
}

// Get fetches one catalog entry.
func (c *Catalog) Get(ctx context.Context, id string) (*Test, error) {
	if id == "" {
		return nil, errors.New("labtests: test id required")
	}
	out, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("labtests: failed to fetch test: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("%w: %s", ErrTestNotFound, id)
	}
	var t Test
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, fmt.Errorf("labtests: failed to decode test: %w", err)
	}
	return &t, nil
}

// List returns all catalog entries.
func (c *Catalog) List(ctx context.Context) ([]*Test, error) {
	out, err := c.client.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(c.tableName)})
	if err != nil {
		return nil, fmt.Errorf("labtests: failed to list tests: %w", err)
	}
	list := make([]*Test, 0, len(out.Items))
	for _, item := range out.Items {
		var t Test
		if err := attributevalue.UnmarshalMap(item, &t); err != nil {
			return nil, fmt.Errorf("labtests: failed to decode test: %w", err)
		}
		list = append(list, &t)
	}
	return list, nil
}

// Put upserts a catalog entry, used by admin handlers and the seeder.
func (c *Catalog) Put(ctx context.Context, t *Test) error {
	if t == nil || t.ID == "" {
		return errors.New("labtests: test with id required")
	}
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("labtests: failed to marshal test: %w", err)
	}
	if _, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("labtests: failed to persist test: %w", err)
	}
	return nil
}
