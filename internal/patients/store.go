package patients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

const emailIndex = "email-index"

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store persists patient profiles in the patients collection.
type Store struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

// NewStore builds a store backed by the provided DynamoDB client.
func NewStore(client dynamoAPI, tableName string, logger *logging.Logger) *Store {
	if client == nil {
		panic("patients: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("patients: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{client: client, tableName: tableName, logger: logger}
}

// Create appends a new profile document keyed by the owning account ID, so
// records keyed by the session user (appointments, lab orders,
// notifications) resolve to this profile without a join. The email must not
// already be registered; duplicates are rejected before writing.
func (s *Store) Create(ctx context.Context, userID string, req *RegisterRequest) (*Patient, error) {
	if userID == "" {
		return nil, errors.New("patients: user id required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, ErrPatientNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	p := &Patient{
		ID:          userID,
		Email:       req.Email,
		Name:        req.Name,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		BloodGroup:  req.BloodGroup,
		Address:     req.Address,
		CreatedAt:   time.Now().UTC(),
	}

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return nil, fmt.Errorf("patients: failed to marshal profile: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("patients: failed to persist profile: %w", err)
	}
	return p, nil
}

// Get fetches a profile by ID.
func (s *Store) Get(ctx context.Context, id string) (*Patient, error) {
	if id == "" {
		return nil, errors.New("patients: id required")
	}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("patients: failed to fetch profile: %w", err)
	}
	if out.Item == nil {
		return nil, ErrPatientNotFound
	}
	var p Patient
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("patients: failed to decode profile: %w", err)
	}
	return &p, nil
}

// GetByEmail resolves the single profile registered for an identity email.
// Absence is ErrPatientNotFound; booking treats it as terminal.
func (s *Store) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	if email == "" {
		return nil, errors.New("patients: email required")
	}
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String(emailIndex),
		KeyConditionExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("patients: failed to query by email: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, ErrPatientNotFound
	}
	var p Patient
	if err := attributevalue.UnmarshalMap(out.Items[0], &p); err != nil {
		return nil, fmt.Errorf("patients: failed to decode profile: %w", err)
	}
	return &p, nil
}
