package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
)

// DraftRepository keeps one draft record per session under
// DRAFT#<sessionID>/DRAFT. Every save is a full overwrite; the single
// writer per session makes last-write-wins sufficient.
type DraftRepository struct {
	client    *dynamodb.Client
	tableName string

	// persistInstructions controls whether special instructions survive a
	// restart. The product treats them as session-only today; the flag
	// exists because that asymmetry is unconfirmed.
	persistInstructions bool

	logger *zap.Logger
}

func NewDraftRepository(client *dynamodb.Client, tableName string, persistInstructions bool, logger *zap.Logger) *DraftRepository {
	return &DraftRepository{
		client:              client,
		tableName:           tableName,
		persistInstructions: persistInstructions,
		logger:              logger,
	}
}

func draftKey(sessionID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "DRAFT#" + sessionID},
		"SK": &types.AttributeValueMemberS{Value: "DRAFT"},
	}
}

// Load returns the stored draft, or an empty default when the record is
// missing or unreadable. A corrupt draft is logged and dropped, never
// surfaced; losing a draft beats losing the session.
func (r *DraftRepository) Load(ctx context.Context, sessionID string) (domain.CartDraft, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       draftKey(sessionID),
	})
	if err != nil {
		return domain.CartDraft{}, fmt.Errorf("failed to get draft: %w", err)
	}
	if len(out.Item) == 0 {
		return domain.EmptyDraft(), nil
	}

	var rec draftRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		r.logger.Warn("stored draft unreadable, starting empty",
			zap.String("session_id", sessionID), zap.Error(err))
		return domain.EmptyDraft(), nil
	}

	draft, err := recordToDraft(rec)
	if err != nil {
		r.logger.Warn("stored draft corrupt, starting empty",
			zap.String("session_id", sessionID), zap.Error(err))
		return domain.EmptyDraft(), nil
	}

	return draft, nil
}

// Save overwrites the whole draft record.
func (r *DraftRepository) Save(ctx context.Context, sessionID string, draft domain.CartDraft) error {
	av, err := attributevalue.MarshalMap(draftToRecord(draft, r.persistInstructions, time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	for k, v := range draftKey(sessionID) {
		av[k] = v
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put draft: %w", err)
	}

	return nil
}

// Purge removes the stored draft entirely.
func (r *DraftRepository) Purge(ctx context.Context, sessionID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       draftKey(sessionID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
