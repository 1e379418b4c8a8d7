package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
	pkgconfig "github.com/AhmedMohamedAllam/qoot-website-sub000/pkg/config"
)

var ErrOrderNotFound = errors.New("order not found")

// NewDynamoDBClient builds the shared DynamoDB client. A non-empty
// endpoint in config points the client at DynamoDB Local.
func NewDynamoDBClient(ctx context.Context, cfg *pkgconfig.Config) (*dynamodb.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	}), nil
}

// OrderRepository stores submitted orders in the single table, keyed
// ORDER#<number>/METADATA with a restaurant GSI for the operator dashboard.
type OrderRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewOrderRepository(client *dynamodb.Client, tableName string) *OrderRepository {
	return &OrderRepository{
		client:    client,
		tableName: tableName,
	}
}

// NextOrderNumber reserves the next ORD_YYYYMMDD_NNN number via an atomic
// counter item, one counter per day.
func (r *OrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	day := time.Now().UTC().Format("20060102")

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "COUNTER#orders"},
			"SK": &types.AttributeValueMemberS{Value: "DAY#" + day},
		},
		UpdateExpression: aws.String("ADD seq :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return "", fmt.Errorf("failed to advance order counter: %w", err)
	}

	var seq int
	if err := attributevalue.Unmarshal(out.Attributes["seq"], &seq); err != nil {
		return "", fmt.Errorf("failed to read order counter: %w", err)
	}

	return fmt.Sprintf("ORD_%s_%03d", day, seq), nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	av, err := attributevalue.MarshalMap(orderToRecord(order))
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	av["PK"] = &types.AttributeValueMemberS{Value: "ORDER#" + order.OrderNumber}
	av["SK"] = &types.AttributeValueMemberS{Value: "METADATA"}
	av["GSI1PK"] = &types.AttributeValueMemberS{Value: "RESTAURANT#" + order.RestaurantID}
	av["GSI1SK"] = &types.AttributeValueMemberS{Value: "ORDER#" + order.CreatedAt.Format(time.RFC3339)}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put order: %w", err)
	}

	return nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "ORDER#" + orderNumber},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrOrderNotFound
	}

	var rec orderRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}

	return recordToOrder(rec)
}
