package appointments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type mockDynamo struct {
	putInput *dynamodb.PutItemInput
	putErr   error
	pages    []*dynamodb.ScanOutput
	scans    int
	describe error
}

func (m *mockDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.putInput = in
	if m.putErr != nil {
		return nil, m.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if m.scans >= len(m.pages) {
		return &dynamodb.ScanOutput{}, nil
	}
	out := m.pages[m.scans]
	m.scans++
	return out, nil
}

func (m *mockDynamo) DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if m.describe != nil {
		return nil, m.describe
	}
	return &dynamodb.DescribeTableOutput{}, nil
}

func TestDynamoLedgerPing(t *testing.T) {
	mock := &mockDynamo{}
	ledger := NewDynamoLedger(mock, "appointments")
	if err := ledger.Ping(context.Background()); err != nil {
		t.Fatalf("expected healthy ping, got %v", err)
	}

	mock.describe = &types.ResourceNotFoundException{}
	err := ledger.Ping(context.Background())
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ResourceNotFoundException, got %v", err)
	}
}

func TestDynamoLedgerAppend(t *testing.T) {
	mock := &mockDynamo{}
	ledger := NewDynamoLedger(mock, "appointments")
	rec := testRecord("+5511987654321", 1)

	if err := ledger.Append(context.Background(), rec); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if mock.putInput == nil {
		t.Fatal("expected PutItem to be called")
	}
	if expr := mock.putInput.ConditionExpression; expr == nil || *expr != "attribute_not_exists(id)" {
		t.Fatalf("expected condition expression to prevent overwrites, got %v", expr)
	}

	var stored Record
	if err := attributevalue.UnmarshalMap(mock.putInput.Item, &stored); err != nil {
		t.Fatalf("failed to unmarshal stored record: %v", err)
	}
	if stored.ID != rec.ID || stored.Status != StatusPending || !stored.ScheduledFor.Equal(rec.ScheduledFor) {
		t.Fatalf("unexpected stored record %+v", stored)
	}
}

func TestDynamoLedgerAppendConditionFailure(t *testing.T) {
	mock := &mockDynamo{putErr: &types.ConditionalCheckFailedException{}}
	ledger := NewDynamoLedger(mock, "appointments")

	err := ledger.Append(context.Background(), testRecord("user", 1))
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	var condErr *types.ConditionalCheckFailedException
	if !errors.As(err, &condErr) {
		t.Fatalf("expected wrapped ConditionalCheckFailedException, got %T", err)
	}
}

func TestDynamoLedgerListPagesAndSorts(t *testing.T) {
	base := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
	later := Record{ID: "b", UserID: "u", Status: StatusPending, CreatedAt: base.Add(time.Minute)}
	earlier := Record{ID: "a", UserID: "u", Status: StatusPending, CreatedAt: base}

	laterItem, err := attributevalue.MarshalMap(later)
	if err != nil {
		t.Fatal(err)
	}
	earlierItem, err := attributevalue.MarshalMap(earlier)
	if err != nil {
		t.Fatal(err)
	}

	mock := &mockDynamo{pages: []*dynamodb.ScanOutput{
		{
			Items:            []map[string]types.AttributeValue{laterItem},
			LastEvaluatedKey: map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "b"}},
		},
		{Items: []map[string]types.AttributeValue{earlierItem}},
	}}
	ledger := NewDynamoLedger(mock, "appointments")

	records, err := ledger.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if mock.scans != 2 {
		t.Fatalf("expected 2 scan pages, got %d", mock.scans)
	}
	if len(records) != 2 || records[0].ID != "a" || records[1].ID != "b" {
		t.Fatalf("unexpected order %+v", records)
	}
}

func TestNewDynamoLedgerValidatesArgs(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for empty table name")
		}
	}()
	NewDynamoLedger(&mockDynamo{}, "")
}
