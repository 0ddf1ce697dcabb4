package appointments

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
	UpdateItem(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Store persists appointment records. Records are append-and-transition
// only; there is no delete path.
type Store struct {
	client    dynamoAPI
	tableName string
	logger    *logging.Logger
}

func NewStore(client dynamoAPI, tableName string, logger *logging.Logger) *Store {
	if client == nil {
		panic("appointments: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("appointments: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{client: client, tableName: tableName, logger: logger}
}

// Add appends a new appointment record.
func (s *Store) Add(ctx context.Context, a *Appointment) error {
	if a == nil || a.ID == "" {
		return errors.New("appointments: appointment with id required")
	}
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("appointments: failed to marshal record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("appointments: failed to persist record: %w", err)
	}
	return nil
}

// Get fetches an appointment by ID.
func (s *Store) Get(ctx context.Context, id string) (*Appointment, error) {
	if id == "" {
		return nil, errors.New("appointments: id required")
	}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("appointments: failed to fetch record: %w", err)
	}
	if out.Item == nil {
		return nil, ErrAppointmentNotFound
	}
	var a Appointment
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, fmt.Errorf("appointments: failed to decode record: %w", err)
	}
	return &a, nil
}

// ListByPatient returns a patient's appointments, newest date first.
func (s *Store) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	return s.listFiltered(ctx, "patientId = :v", patientID)
}

// ListByDoctor returns a doctor's appointments, newest date first.
func (s *Store) ListByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error) {
	return s.listFiltered(ctx, "doctorId = :v", doctorID)
}

// List returns all appointments.
func (s *Store) List(ctx context.Context) ([]*Appointment, error) {
	return s.listFiltered(ctx, "", "")
}

func (s *Store) listFiltered(ctx context.Context, filter, value string) ([]*Appointment, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(s.tableName)}
	if filter != "" {
		input.FilterExpression = aws.String(filter)
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		}
	}
	out, err := s.client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("appointments: failed to list records: %w", err)
	}
	list := make([]*Appointment, 0, len(out.Items))
	for _, item := range out.Items {
		var a Appointment
		if err := attributevalue.UnmarshalMap(item, &a); err != nil {
			return nil, fmt.Errorf("appointments: failed to decode record: %w", err)
		}
		list = append(list, &a)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date > list[j].Date
		}
		return list[i].Time > list[j].Time
	})
	return list, nil
}

// UpdateStatus transitions an appointment. Invalid transitions are
// rejected before any write, and the write itself is conditioned on the
// status still being the one the transition was checked against, so racing
// updates cannot overwrite a terminal state.
func (s *Store) UpdateStatus(ctx context.Context, id string, to Status) (*Appointment, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
	}
	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:    aws.String("SET #status = :to"),
		ConditionExpression: aws.String("#status = :from"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":to":   &types.AttributeValueMemberS{Value: string(to)},
			":from": &types.AttributeValueMemberS{Value: string(current.Status)},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil, fmt.Errorf("%w: concurrent status change on %s", ErrInvalidTransition, id)
		}
		return nil, fmt.Errorf("appointments: failed to update status: %w", err)
	}
	current.Status = to
	return current, nil
}
