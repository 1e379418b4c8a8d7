package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/pricing"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")
)

// CatalogRepository reads the restaurant and menu records the dashboard
// app maintains. The cart only consults it at add time; prices are
// captured into the draft and never re-read.
type CatalogRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewCatalogRepository(client *dynamodb.Client, tableName string) *CatalogRepository {
	return &CatalogRepository{
		client:    client,
		tableName: tableName,
	}
}

type restaurantRecord struct {
	RestaurantID string `dynamodbav:"restaurant_id"`
	Name         string `dynamodbav:"name"`
	TaxRate      string `dynamodbav:"tax_rate,omitempty"`
}

type menuItemRecord struct {
	MenuItemID    string `dynamodbav:"menu_item_id"`
	DisplayName   string `dynamodbav:"display_name"`
	NameLocalized string `dynamodbav:"name_localized,omitempty"`
	UnitPrice     string `dynamodbav:"unit_price"`
	ImageRef      string `dynamodbav:"image_ref,omitempty"`
	Available     bool   `dynamodbav:"available"`
}

func (r *CatalogRepository) GetRestaurant(ctx context.Context, restaurantID string) (domain.Restaurant, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "RESTAURANT#" + restaurantID},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return domain.Restaurant{}, fmt.Errorf("failed to get restaurant: %w", err)
	}
	if len(out.Item) == 0 {
		return domain.Restaurant{}, ErrRestaurantNotFound
	}

	var rec restaurantRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return domain.Restaurant{}, fmt.Errorf("failed to unmarshal restaurant: %w", err)
	}

	taxRate := pricing.DefaultTaxRate
	if rec.TaxRate != "" {
		taxRate, err = decimal.NewFromString(rec.TaxRate)
		if err != nil {
			return domain.Restaurant{}, fmt.Errorf("tax rate %q is not a decimal: %w", rec.TaxRate, err)
		}
	}

	return domain.Restaurant{
		RestaurantID: rec.RestaurantID,
		Name:         rec.Name,
		TaxRate:      taxRate,
	}, nil
}

func (r *CatalogRepository) GetMenuItem(ctx context.Context, restaurantID, menuItemID string) (domain.MenuItem, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "RESTAURANT#" + restaurantID},
			"SK": &types.AttributeValueMemberS{Value: "MENU#" + menuItemID},
		},
	})
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("failed to get menu item: %w", err)
	}
	if len(out.Item) == 0 {
		return domain.MenuItem{}, ErrMenuItemNotFound
	}

	var rec menuItemRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return domain.MenuItem{}, fmt.Errorf("failed to unmarshal menu item: %w", err)
	}

	price, err := decimal.NewFromString(rec.UnitPrice)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("unit price %q is not a decimal: %w", rec.UnitPrice, err)
	}

	return domain.MenuItem{
		MenuItemID:    rec.MenuItemID,
		DisplayName:   rec.DisplayName,
		NameLocalized: rec.NameLocalized,
		UnitPrice:     price,
		ImageRef:      rec.ImageRef,
		Available:     rec.Available,
	}, nil
}
