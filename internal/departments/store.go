package departments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store persists department reference records.
type Store struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

func NewStore(client dynamoAPI, tableName string, logger *logging.Logger) *Store {
	if client == nil {
		panic("departments: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("departments: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{client: client, tableName: tableName, logger: logger}
}

func (s *Store) Create(ctx context.Context, req *UpsertRequest) (*Department, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	d := &Department{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Description:   req.Description,
		FeePercentage: req.FeePercentage,
		CreatedAt:     time.Now().UTC(),
	}
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return nil, fmt.Errorf("departments: failed to marshal record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("departments: failed to persist record: %w", err)
	}
	return d, nil
}

func (s *Store) Update(ctx context.Context, id string, req *UpsertRequest) (*Department, error) {
	if id == "" {
		return nil, errors.New("departments: id required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Name = req.Name
	existing.Description = req.Description
	existing.FeePercentage = req.FeePercentage

	item, err := attributevalue.MarshalMap(existing)
	if err != nil {
		return nil, fmt.Errorf("departments: failed to marshal record: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return nil, fmt.Errorf("departments: failed to update record: %w", err)
	}
	return existing, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Department, error) {
	if id == "" {
		return nil, errors.New("departments: id required")
	}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("departments: failed to fetch record: %w", err)
	}
	if out.Item == nil {
		return nil, ErrDepartmentNotFound
	}
	var d Department
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, fmt.Errorf("departments: failed to decode record: %w", err)
	}
	return &d, nil
}

func (s *Store) List(ctx context.Context) ([]*Department, error) {
	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(s.tableName)})
	if err != nil {
		return nil, fmt.Errorf("departments: failed to list records: %w", err)
	}
	list := make([]*Department, 0, len(out.Items))
	for _, item := range out.Items {
		var d Department
		if err := attributevalue.UnmarshalMap(item, &d); err != nil {
			return nil, fmt.Errorf("departments: failed to decode record: %w", err)
		}
		list = append(list, &d)
	}
	return list, nil
}
