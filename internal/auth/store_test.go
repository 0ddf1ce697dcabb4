package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/huzaifaahmed2004/care-coord/internal/session"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

type mockDynamo struct {
	putInputs   []*dynamodb.PutItemInput
	getOutput   *dynamodb.GetItemOutput
	queryOutput *dynamodb.QueryOutput
	queryInput  *dynamodb.QueryInput
	putErr      error
	queryErr    error
}

func (m *mockDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.putInputs = append(m.putInputs, in)
	return &dynamodb.PutItemOutput{}, m.putErr
}

func (m *mockDynamo) GetItem(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getOutput != nil {
		return m.getOutput, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.queryInput = in
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if m.queryOutput != nil {
		return m.queryOutput, nil
	}
	return &dynamodb.QueryOutput{}, nil
}

func TestStore_CreateHashesPassword(t *testing.T) {
	mock := &mockDynamo{}
	store := NewStore(mock, "users", logging.Default())

	u, err := store.Create(context.Background(), "sana@example.com", "Sana Malik", "hunter2hunter2", string(session.RolePatient))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if u.PasswordHash == "" || u.PasswordHash == "hunter2hunter2" {
		t.Fatal("password must be stored hashed")
	}
	if !u.CheckPassword("hunter2hunter2") {
		t.Fatal("hash must verify the original password")
	}
	if u.CheckPassword("wrong-password") {
		t.Fatal("hash must reject a wrong password")
	}

	if len(mock.putInputs) != 1 {
		t.Fatalf("expected 1 PutItem call, got %d", len(mock.putInputs))
	}
	var stored User
	if err := attributevalue.UnmarshalMap(mock.putInputs[0].Item, &stored); err != nil {
		t.Fatal(err)
	}
	if stored.Role != "patient" || stored.Email != "sana@example.com" {
		t.Errorf("unexpected stored user: %+v", stored)
	}
}

func TestStore_CreateRejectsDuplicateEmail(t *testing.T) {
	existing, err := attributevalue.MarshalMap(&User{ID: "u-1", Email: "sana@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	mock := &mockDynamo{queryOutput: &dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{existing},
	}}
	store := NewStore(mock, "users", logging.Default())

	_, err = store.Create(context.Background(), "sana@example.com", "Sana Malik", "hunter2hunter2", string(session.RolePatient))
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(mock.putInputs) != 0 {
		t.Fatal("duplicate email must not write")
	}
}

func TestStore_CreateRejectsWeakPassword(t *testing.T) {
	mock := &mockDynamo{}
	store := NewStore(mock, "users", logging.Default())

	_, err := store.Create(context.Background(), "sana@example.com", "Sana Malik", "short", string(session.RolePatient))
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if len(mock.putInputs) != 0 {
		t.Fatal("weak password must not write")
	}
}

func TestStore_GetByEmailMissingIsNotFound(t *testing.T) {
	store := NewStore(&mockDynamo{}, "users", logging.Default())

	_, err := store.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
