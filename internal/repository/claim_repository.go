package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
)

// ClaimRepository is the shared claim ledger for bill splitting. A claim
// is a put-if-absent on (order, unit): the conditional write is the single
// point of truth that keeps two guests from paying for the same hummus.
type ClaimRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewClaimRepository(client *dynamodb.Client, tableName string) *ClaimRepository {
	return &ClaimRepository{
		client:    client,
		tableName: tableName,
	}
}

type claimRecord struct {
	PK          string    `dynamodbav:"PK"`
	SK          string    `dynamodbav:"SK"`
	OrderNumber string    `dynamodbav:"order_number"`
	UnitID      string    `dynamodbav:"unit_id"`
	ClaimantID  string    `dynamodbav:"claimant_id"`
	ClaimedAt   time.Time `dynamodbav:"claimed_at"`
}

// ClaimUnit records that a claimant takes a unit. Returns
// domain.ErrUnitAlreadyClaimed when someone else got there first.
func (r *ClaimRepository) ClaimUnit(ctx context.Context, orderNumber, unitID, claimantID string) error {
	av, err := attributevalue.MarshalMap(claimRecord{
		PK:          "CLAIM#" + orderNumber,
		SK:          "UNIT#" + unitID,
		OrderNumber: orderNumber,
		UnitID:      unitID,
		ClaimantID:  claimantID,
		ClaimedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal claim: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	})
	if err != nil {
		var conflict *types.ConditionalCheckFailedException
		if errors.As(err, &conflict) {
			return domain.ErrUnitAlreadyClaimed
		}
		return fmt.Errorf("failed to put claim: %w", err)
	}

	return nil
}

// ReleaseUnit gives a unit back, but only if the caller holds it.
func (r *ClaimRepository) ReleaseUnit(ctx context.Context, orderNumber, unitID, claimantID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "CLAIM#" + orderNumber},
			"SK": &types.AttributeValueMemberS{Value: "UNIT#" + unitID},
		},
		ConditionExpression: aws.String("claimant_id = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: claimantID},
		},
	})
	if err != nil {
		var conflict *types.ConditionalCheckFailedException
		if errors.As(err, &conflict) {
			// already released, or never ours; releasing is idempotent
			return nil
		}
		return fmt.Errorf("failed to delete claim: %w", err)
	}
	return nil
}

// ListClaims returns every claim taken against an order.
func (r *ClaimRepository) ListClaims(ctx context.Context, orderNumber string) ([]domain.Claim, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: "CLAIM#" + orderNumber},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query claims: %w", err)
	}

	claims := make([]domain.Claim, 0, len(out.Items))
	for _, item := range out.Items {
		var rec claimRecord
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal claim: %w", err)
		}
		claims = append(claims, domain.Claim{
			OrderNumber: rec.OrderNumber,
			UnitID:      rec.UnitID,
			ClaimantID:  rec.ClaimantID,
			ClaimedAt:   rec.ClaimedAt,
		})
	}

	return claims, nil
}
