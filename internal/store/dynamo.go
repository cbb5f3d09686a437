package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

// DynamoDB key constants for the single-table design. Each generation is
// written twice: a META item under its own partition, and an index item
// under the partition for the day it was created.
const (
	pkGeneration = "GEN#"
	pkDay        = "DAY#"
	skMeta       = "META"
	skIndex      = "GEN#"
)

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoStore implements GenerationStore using AWS DynamoDB.
type DynamoStore struct {
	client    DynamoAPI
	tableName string
	ttl       time.Duration
	now       func() time.Time
}

// Compile-time interface check.
var _ GenerationStore = (*DynamoStore)(nil)

// NewDynamoStore creates a DynamoStore for the given table. A ttl of zero
// uses RecordTTL.
func NewDynamoStore(client DynamoAPI, tableName string, ttl time.Duration) *DynamoStore {
	if ttl <= 0 {
		ttl = RecordTTL
	}
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		ttl:       ttl,
		now:       time.Now,
	}
}

// --- Internal helpers ---

func generationPK(id string) string {
	return pkGeneration + id
}

func dayPK(day string) string {
	return pkDay + day
}

// indexSK orders a day's index items by creation time.
func indexSK(rec *GenerationRecord) string {
	return fmt.Sprintf("%s%020d#%s", skIndex, rec.CreatedAt, rec.ID)
}

// expiresAt returns the Unix epoch timestamp for record expiration.
func (s *DynamoStore) expiresAt() int64 {
	return s.now().Add(s.ttl).Unix()
}

// putItem marshals a domain object and writes it to DynamoDB with PK, SK, and TTL.
// The domain object should use dynamodbav:"-" for fields derived from PK/SK.
func (s *DynamoStore) putItem(ctx context.Context, pk, sk string, data interface{}, extra map[string]types.AttributeValue) error {
	item, err := attributevalue.MarshalMap(data)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	for k, v := range extra {
		item[k] = v
	}
	// Key and TTL attributes overwrite any conflicting keys from the data.
	item["PK"] = &types.AttributeValueMemberS{Value: pk}
	item["SK"] = &types.AttributeValueMemberS{Value: sk}
	item["expiresAt"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(s.expiresAt(), 10)}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("PutItem PK=%s SK=%s: %w", pk, sk, err)
	}
	return nil
}

// getItem reads a single item from DynamoDB and unmarshals it into out.
// Returns false if the item does not exist (out is not modified).
func (s *DynamoStore) getItem(ctx context.Context, pk, sk string, out interface{}) (bool, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return false, fmt.Errorf("GetItem PK=%s SK=%s: %w", pk, sk, err)
	}
	if result.Item == nil {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return false, fmt.Errorf("unmarshal PK=%s SK=%s: %w", pk, sk, err)
	}
	return true, nil
}

// queryBySKPrefix queries all items in a partition where SK begins with the
// given prefix, newest sort key first.
func (s *DynamoStore) queryBySKPrefix(ctx context.Context, pk, skPrefix string) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:              &s.tableName,
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :skPrefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":       &types.AttributeValueMemberS{Value: pk},
			":skPrefix": &types.AttributeValueMemberS{Value: skPrefix},
		},
		ScanIndexForward: aws.Bool(false),
	}

	var allItems []map[string]types.AttributeValue

	// DynamoDB returns up to 1MB per Query call.
	for {
		result, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("Query PK=%s SK prefix=%s: %w", pk, skPrefix, err)
		}
		allItems = append(allItems, result.Items...)

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return allItems, nil
}

// --- Generation operations ---

func (s *DynamoStore) PutGeneration(ctx context.Context, rec *GenerationRecord) error {
	if rec.CreatedAt == 0 {
		rec.CreatedAt = s.now().Unix()
	}

	if err := s.putItem(ctx, generationPK(rec.ID), skMeta, rec, nil); err != nil {
		return fmt.Errorf("put generation %s: %w", rec.ID, err)
	}
	idx := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: rec.ID},
	}
	if err := s.putItem(ctx, dayPK(rec.Day()), indexSK(rec), rec, idx); err != nil {
		return fmt.Errorf("index generation %s: %w", rec.ID, err)
	}

	log.Debug().
		Str("id", rec.ID).
		Str("mode", rec.Mode).
		Str("status", rec.Status).
		Msg("Generation persisted to DynamoDB")
	return nil
}

func (s *DynamoStore) GetGeneration(ctx context.Context, id string) (*GenerationRecord, error) {
	var rec GenerationRecord
	found, err := s.getItem(ctx, generationPK(id), skMeta, &rec)
	if err != nil {
		return nil, fmt.Errorf("get generation %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}

	rec.ID = id
	return &rec, nil
}

func (s *DynamoStore) ListGenerations(ctx context.Context, day string) ([]*GenerationRecord, error) {
	if day == "" {
		day = s.now().UTC().Format(dayLayout)
	}
	items, err := s.queryBySKPrefix(ctx, dayPK(day), skIndex)
	if err != nil {
		return nil, fmt.Errorf("list generations %s: %w", day, err)
	}

	out := make([]*GenerationRecord, 0, len(items))
	for _, item := range items {
		var rec GenerationRecord
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal generation index: %w", err)
		}
		if v, ok := item["id"].(*types.AttributeValueMemberS); ok {
			rec.ID = v.Value
		}
		out = append(out, &rec)
	}
	return out, nil
}
