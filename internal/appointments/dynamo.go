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
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(context.Context, *dynamodb.DescribeTableInput, ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoLedger persists appointments to a DynamoDB table keyed by id.
type DynamoLedger struct {
	client    dynamoAPI
	tableName string
}

var _ Ledger = (*DynamoLedger)(nil)

// NewDynamoLedger builds a ledger backed by the provided DynamoDB client.
func NewDynamoLedger(client dynamoAPI, tableName string) *DynamoLedger {
	if client == nil {
		panic("appointments: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("appointments: table name cannot be empty")
	}
	return &DynamoLedger{client: client, tableName: tableName}
}

// Append writes the record, refusing to overwrite an existing id.
func (l *DynamoLedger) Append(ctx context.Context, rec *Record) error {
	if rec == nil {
		return ErrNilRecord
	}
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("appointments: failed to marshal record: %w", err)
	}

	_, err = l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(l.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("appointments: record %s already exists: %w", rec.ID, err)
		}
		return fmt.Errorf("appointments: failed to persist record: %w", err)
	}
	return nil
}

// Ping checks that the table exists and is reachable.
func (l *DynamoLedger) Ping(ctx context.Context) error {
	if _, err := l.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(l.tableName)}); err != nil {
		return fmt.Errorf("appointments: describe table %s: %w", l.tableName, err)
	}
	return nil
}

// List scans the table and orders records by creation time.
func (l *DynamoLedger) List(ctx context.Context) ([]Record, error) {
	var (
		records  []Record
		startKey map[string]types.AttributeValue
	)
	for {
		out, err := l.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(l.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		var page []Record
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("appointments: failed to decode records: %w", err)
		}
		records = append(records, page...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}
