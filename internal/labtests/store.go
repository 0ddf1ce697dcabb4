package labtests

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store persists lab test orders.
type Store struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

func NewStore(client dynamoAPI, tableName string, logger *logging.Logger) *Store {
	if client == nil {
		panic("labtests: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("labtests: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{client: client, tableName: tableName, logger: logger}
}

// Add appends a new order.
func (s *Store) Add(ctx context.Context, o *Order) error {
	if o == nil || o.ID == "" {
		return errors.New("labtests: order with id required")
	}
	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("labtests: failed to marshal order: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("labtests: failed to persist order: %w", err)
	}
	return nil
}

// Get fetches an order by ID.
func (s *Store) Get(ctx context.Context, id string) (*Order, error) {
	if id == "" {
		return nil, errors.New("labtests: order id required")
	}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("labtests: failed to fetch order: %w", err)
	}
	if out.Item == nil {
		return nil, ErrOrderNotFound
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("labtests: failed to decode order: %w", err)
	}
	return &o, nil
}

// ListByPatient returns a patient's orders, newest first.
func (s *Store) ListByPatient(ctx context.Context, patientID string) ([]*Order, error) {
	return s.list(ctx, "patientId = :v", patientID)
}

// ListPending returns the lab operator worklist.
func (s *Store) ListPending(ctx context.Context) ([]*Order, error) {
	return s.list(ctx, "#status = :v", string(StatusPending))
}

func (s *Store) list(ctx context.Context, filter, value string) ([]*Order, error) {
	input := &dynamodb.ScanInput{
		TableName:        aws.String(s.tableName),
		FilterExpression: aws.String(filter),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
	}
	if filter == "#status = :v" {
		input.ExpressionAttributeNames = map[string]string{"#status": "status"}
	}
	out, err := s.client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("labtests: failed to list orders: %w", err)
	}
	list := make([]*Order, 0, len(out.Items))
	for _, item := range out.Items {
		var o Order
		if err := attributevalue.UnmarshalMap(item, &o); err != nil {
			return nil, fmt.Errorf("labtests: failed to decode order: %w", err)
		}
		list = append(list, &o)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date > list[j].Date
		}
		return list[i].Time > list[j].Time
	})
	return list, nil
}

// Complete transitions a pending order to completed and attaches results.
func (s *Store) Complete(ctx context.Context, id string, results *Results) (*Order, error) {
	if results == nil || results.Summary == "" {
		return nil, ErrMissingSummary
	}
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, StatusCompleted) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, StatusCompleted)
	}
	o.Status = StatusCompleted
	o.Results = results
	if err := s.put(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Cancel transitions a pending order to cancelled.
func (s *Store) Cancel(ctx context.Context, id string) (*Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, StatusCancelled)
	}
	o.Status = StatusCancelled
	if err := s.put(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Store) put(ctx context.Context, o *Order) error {
	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("labtests: failed to marshal order: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("labtests: failed to update order: %w", err)
	}
	return nil
}
