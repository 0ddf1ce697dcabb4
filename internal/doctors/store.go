package doctors

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

// Store persists doctor reference records.
type Store struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

// NewStore builds a store backed by the provided DynamoDB client.
func NewStore(client dynamoAPI, tableName string, logger *logging.Logger) *Store {
	if client == nil {
		panic("doctors: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("doctors: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{client: client, tableName: tableName, logger: logger}
}

// Create appends a new doctor record.
func (s *Store) Create(ctx context.Context, req *UpsertRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	d := &Doctor{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Email:         req.Email,
		DepartmentID:  req.DepartmentID,
		Specialty:     req.Specialty,
		FeePercentage: req.FeePercentage,
		Available:     req.Available,
		CreatedAt:     time.Now().UTC(),
	}
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return nil, fmt.Errorf("doctors: failed to marshal record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("doctors: failed to persist record: %w", err)
	}
	return d, nil
}

// Update replaces an existing doctor record.
func (s *Store) Update(ctx context.Context, id string, req *UpsertRequest) (*Doctor, error) {
	if id == "" {
		return nil, errors.New("doctors: id required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Name = req.Name
	existing.Email = req.Email
	existing.DepartmentID = req.DepartmentID
	existing.Specialty = req.Specialty
	existing.FeePercentage = req.FeePercentage
	existing.Available = req.Available

	item, err := attributevalue.MarshalMap(existing)
	if err != nil {
		return nil, fmt.Errorf("doctors: failed to marshal record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("doctors: failed to update record: %w", err)
	}
	return existing, nil
}

// Get fetches a doctor by ID.
func (s *Store) Get(ctx context.Context, id string) (*Doctor, error) {
	if id == "" {
		return nil, errors.New("doctors: id required")
	}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("doctors: failed to fetch record: %w", err)
	}
	if out.Item == nil {
		return nil, ErrDoctorNotFound
	}
	var d Doctor
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, fmt.Errorf("doctors: failed to decode record: %w", err)
	}
	return &d, nil
}

// GetByEmail resolves the doctor record for a signed-in account email.
// Doctor accounts and doctor records are both admin-created; the shared
// email is the link between them. The doctors table carries no email
// index, so this scans.
func (s *Store) GetByEmail(ctx context.Context, email string) (*Doctor, error) {
	if email == "" {
		return nil, errors.New("doctors: email required")
	}
	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(s.tableName),
		FilterExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("doctors: failed to look up record by email: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, ErrDoctorNotFound
	}
	var d Doctor
	if err := attributevalue.UnmarshalMap(out.Items[0], &d); err != nil {
		return nil, fmt.Errorf("doctors: failed to decode record: %w", err)
	}
	return &d, nil
}

// List returns all doctors, optionally filtered by department.
func (s *Store) List(ctx context.Context, departmentID string) ([]*Doctor, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(s.tableName)}
	if departmentID != "" {
		input.FilterExpression = aws.String("departmentId = :dept")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":dept": &types.AttributeValueMemberS{Value: departmentID},
		}
	}
	out, err := s.client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("doctors: failed to list records: %w", err)
	}
	list := make([]*Doctor, 0, len(out.Items))
	for _, item := range out.Items {
		var d Doctor
		if err := attributevalue.UnmarshalMap(item, &d); err != nil {
			return nil, fmt.Errorf("doctors: failed to decode record: %w", err)
		}
		list = append(list, &d)
	}
	return list, nil
}
