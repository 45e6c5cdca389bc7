package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"playtest_server/models"
)

// DynamoAPI is the subset of the DynamoDB client the store uses
type DynamoAPI interface {
	dynamodb.ScanAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoService stores demand and tickets in DynamoDB tables keyed by recordId
type DynamoService struct {
	Client   DynamoAPI
	PageSize int32
	Now      func() time.Time
}

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func (ds *DynamoService) now() time.Time {
	if ds.Now != nil {
		return ds.Now()
	}
	return time.Now().UTC()
}

// ScanAll scans a table page by page. On a page failure the items read so far
// are returned with a *RemoteFetchError.
func (ds *DynamoService) ScanAll(
	ctx context.Context,
	tableName string,
	filterExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(tableName),
	}
	if ds.PageSize > 0 {
		input.Limit = aws.Int32(ds.PageSize)
	}
	// ✅ Use filterExpression only if provided
	if filterExpression != "" {
		input.FilterExpression = aws.String(filterExpression)
		input.ExpressionAttributeValues = expressionAttributeValues
	}

	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewScanPaginator(ds.Client, input)
	for page := 1; paginator.HasMorePages(); page++ {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			log.Error().Err(err).Str("table", tableName).Int("page", page).Msg("❌ Failed to scan page")
			return items, &RemoteFetchError{Table: tableName, Page: page, Err: err}
		}
		items = append(items, output.Items...)
		log.Debug().Str("table", tableName).Int("page", page).Int("items", len(output.Items)).Msg("📄 Scanned page")
	}
	return items, nil
}

// PutItem marshals item and writes it to tableName
func (ds *DynamoService) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(tableName),
		Item:                marshaledItem,
		ConditionExpression: aws.String("attribute_not_exists(recordId)"),
	})
	if err != nil {
		return fmt.Errorf("failed to put item in table '%s': %w", tableName, err)
	}
	return nil
}

// DeleteItem removes an item from DynamoDB
func (ds *DynamoService) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(tableName),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from table '%s': %w", tableName, err)
	}
	return nil
}

// FetchEligibleDemand scans the demand table for records still needing tickets
func (ds *DynamoService) FetchEligibleDemand(ctx context.Context) ([]models.DemandRecord, error) {
	items, fetchErr := ds.ScanAll(ctx, models.DemandTable, "ticketsNeeded > :zero", map[string]types.AttributeValue{
		":zero": &types.AttributeValueMemberN{Value: "0"},
	})

	var demand []models.DemandRecord
	for _, item := range items {
		var record models.DemandRecord
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			log.Warn().Err(err).Msg("⚠️ Skipping malformed demand item")
			continue
		}
		if record.TicketsNeeded <= 0 {
			continue
		}
		if record.GameName == "" {
			record.GameName = models.UnknownValue
		}
		if record.OwnerEmail == "" {
			record.OwnerEmail = models.UnknownValue
		}
		demand = append(demand, record)
	}

	log.Info().Int("items", len(items)).Int("eligible", len(demand)).Msg("✅ Fetched demand records")
	return demand, fetchErr
}

// CreateAssignmentRecord writes a new ticket with generated record and playtest ids
func (ds *DynamoService) CreateAssignmentRecord(ctx context.Context, gameID, playerID string) (models.PlaytestTicket, error) {
	ticket := models.PlaytestTicket{
		RecordID:    uuid.NewString(),
		PlaytestID:  uuid.NewString(),
		GameID:      gameID,
		PlayerID:    playerID,
		CreatedTime: ds.now(),
	}
	if err := ds.PutItem(ctx, models.TicketsTable, ticket); err != nil {
		return models.PlaytestTicket{}, &RemoteWriteError{Op: "create", Table: models.TicketsTable, RecordID: ticket.RecordID, Err: err}
	}
	return ticket, nil
}

// DeleteRecord deletes a ticket by record id
func (ds *DynamoService) DeleteRecord(ctx context.Context, recordID string) error {
	key := map[string]types.AttributeValue{
		"recordId": &types.AttributeValueMemberS{Value: recordID},
	}
	if err := ds.DeleteItem(ctx, models.TicketsTable, key); err != nil {
		return &RemoteWriteError{Op: "delete", Table: models.TicketsTable, RecordID: recordID, Err: err}
	}
	return nil
}

// ListAllAssignmentRecords scans every ticket
func (ds *DynamoService) ListAllAssignmentRecords(ctx context.Context) ([]models.PlaytestTicket, error) {
	items, fetchErr := ds.ScanAll(ctx, models.TicketsTable, "", nil)

	tickets := make([]models.PlaytestTicket, 0, len(items))
	for _, item := range items {
		var ticket models.PlaytestTicket
		if err := attributevalue.UnmarshalMap(item, &ticket); err != nil {
			log.Warn().Err(err).Msg("⚠️ Skipping malformed ticket item")
			continue
		}
		tickets = append(tickets, ticket)
	}
	return tickets, fetchErr
}
