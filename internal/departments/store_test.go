package departments

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

type mockDynamo struct {
	putInputs []*dynamodb.PutItemInput
	getOutput *dynamodb.GetItemOutput
	scanItems []map[string]types.AttributeValue
}

func (m *mockDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.putInputs = append(m.putInputs, in)
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getOutput != nil {
		return m.getOutput, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDynamo) Scan(_ context.Context, _ *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return &dynamodb.ScanOutput{Items: m.scanItems}, nil
}

func TestStore_CreatePersistsDepartment(t *testing.T) {
	mock := &mockDynamo{}
	store := NewStore(mock, "departments", logging.Default())

	d, err := store.Create(context.Background(), &UpsertRequest{Name: "Cardiology", FeePercentage: 5})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if d.ID == "" || d.CreatedAt.IsZero() {
		t.Fatalf("expected populated record, got %+v", d)
	}

	if len(mock.putInputs) != 1 {
		t.Fatalf("expected 1 PutItem call, got %d", len(mock.putInputs))
	}
	var stored Department
	if err := attributevalue.UnmarshalMap(mock.putInputs[0].Item, &stored); err != nil {
		t.Fatalf("failed to unmarshal stored record: %v", err)
	}
	if stored.Name != "Cardiology" || stored.FeePercentage != 5 {
		t.Errorf("unexpected stored record: %+v", stored)
	}
}

func TestStore_CreateValidates(t *testing.T) {
	store := NewStore(&mockDynamo{}, "departments", logging.Default())

	if _, err := store.Create(context.Background(), &UpsertRequest{}); !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
	if _, err := store.Create(context.Background(), &UpsertRequest{Name: "Radiology", FeePercentage: -2}); !errors.Is(err, ErrNegativeFee) {
		t.Errorf("expected ErrNegativeFee, got %v", err)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := NewStore(&mockDynamo{}, "departments", logging.Default())
	_, err := store.Get(context.Background(), "dept-missing")
	if !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	a, _ := attributevalue.MarshalMap(Department{ID: "dept-1", Name: "Cardiology", FeePercentage: 5})
	b, _ := attributevalue.MarshalMap(Department{ID: "dept-2", Name: "Neurology", FeePercentage: 8})
	store := NewStore(&mockDynamo{scanItems: []map[string]types.AttributeValue{a, b}}, "departments", logging.Default())

	list, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 departments, got %d", len(list))
	}
}
