package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/example/shopmart/internal/domain/cart"
	"github.com/example/shopmart/internal/domain/order"
	"github.com/example/shopmart/internal/domain/wishlist"
)

const emailIndexName = "email-index"
const ordersByUserIndexName = "user-index"

// DynamoStore stores carts, wishlists, users and orders as whole documents
// in DynamoDB, one table per collection. Cart and wishlist writes are
// last-write-wins by contract.
type DynamoStore struct {
	client         *dynamodb.Client
	cartsTable     string
	wishlistsTable string
	usersTable     string
	ordersTable    string
}

type Tables struct {
	Carts     string
	Wishlists string
	Users     string
	Orders    string
}

func NewDynamoStore(client *dynamodb.Client, tables Tables) *DynamoStore {
	return &DynamoStore{
		client:         client,
		cartsTable:     tables.Carts,
		wishlistsTable: tables.Wishlists,
		usersTable:     tables.Users,
		ordersTable:    tables.Orders,
	}
}

type cartDocument struct {
	UserID    string      `dynamodbav:"user_id"`
	Lines     []cart.Line `dynamodbav:"lines"`
	UpdatedAt string      `dynamodbav:"updated_at"`
}

type wishlistDocument struct {
	UserID    string           `dynamodbav:"user_id"`
	Entries   []wishlist.Entry `dynamodbav:"entries"`
	UpdatedAt string           `dynamodbav:"updated_at"`
}

type userDocument struct {
	ID           string `dynamodbav:"id"`
	Email        string `dynamodbav:"email"`
	DisplayName  string `dynamodbav:"display_name"`
	PasswordHash string `dynamodbav:"password_hash"`
	PhotoURL     string `dynamodbav:"photo_url"`
	CreatedAt    string `dynamodbav:"created_at"`
}

type orderDocument struct {
	ID              string                `dynamodbav:"id"`
	UserID          string                `dynamodbav:"user_id"`
	Lines           []cart.Line           `dynamodbav:"lines"`
	ShippingAddress order.Address         `dynamodbav:"shipping_address"`
	PaymentMethod   string                `dynamodbav:"payment_method"`
	Subtotal        int                   `dynamodbav:"subtotal"`
	Tax             int                   `dynamodbav:"tax"`
	Shipping        int                   `dynamodbav:"shipping"`
	Total           int                   `dynamodbav:"total"`
	Status          string                `dynamodbav:"status"`
	PaymentStatus   string                `dynamodbav:"payment_status"`
	Timeline        []order.TimelineEntry `dynamodbav:"timeline"`
	CreatedAt       string                `dynamodbav:"created_at"`
	UpdatedAt       string                `dynamodbav:"updated_at"`
}

func (s *DynamoStore) GetCart(ctx context.Context, userID string) (cart.Cart, error) {
	item, err := s.getItem(ctx, s.cartsTable, "user_id", userID)
	if err != nil {
		return cart.Empty(), err
	}

	var doc cartDocument
	if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
		return cart.Empty(), fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	// Totals are recomputed from the lines; persisted aggregates are not
	// trusted.
	return cart.Merge(cart.Empty(), doc.Lines), nil
}

func (s *DynamoStore) PutCart(ctx context.Context, userID string, c cart.Cart) error {
	return s.putItem(ctx, s.cartsTable, cartDocument{
		UserID:    userID,
		Lines:     c.Lines,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *DynamoStore) GetWishlist(ctx context.Context, userID string) ([]wishlist.Entry, error) {
	item, err := s.getItem(ctx, s.wishlistsTable, "user_id", userID)
	if err != nil {
		return nil, err
	}

	var doc wishlistDocument
	if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wishlist: %w", err)
	}
	return doc.Entries, nil
}

func (s *DynamoStore) PutWishlist(ctx context.Context, userID string, entries []wishlist.Entry) error {
	return s.putItem(ctx, s.wishlistsTable, wishlistDocument{
		UserID:    userID,
		Entries:   entries,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *DynamoStore) GetUser(ctx context.Context, userID string) (*User, error) {
	item, err := s.getItem(ctx, s.usersTable, "id", userID)
	if err != nil {
		return nil, err
	}
	return unmarshalUser(item)
}

func (s *DynamoStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.usersTable),
		IndexName:              aws.String(emailIndexName),
		KeyConditionExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query users by email: %v", ErrUnavailable, err)
	}
	if len(result.Items) == 0 {
		return nil, ErrNotFound
	}
	return unmarshalUser(result.Items[0])
}

func (s *DynamoStore) PutUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	return s.putItem(ctx, s.usersTable, userDocument{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PasswordHash: u.PasswordHash,
		PhotoURL:     u.PhotoURL,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339Nano),
	})
}

func (s *DynamoStore) CreateOrder(ctx context.Context, o *order.Order) (string, error) {
	id := uuid.New().String()
	doc := orderDocumentFrom(o)
	doc.ID = id

	av, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal order: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.ordersTable),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put order: %v", ErrUnavailable, err)
	}
	return id, nil
}

func (s *DynamoStore) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	item, err := s.getItem(ctx, s.ordersTable, "id", orderID)
	if err != nil {
		return nil, err
	}
	return unmarshalOrder(item)
}

func (s *DynamoStore) GetOrdersForUser(ctx context.Context, userID string) ([]order.Order, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.ordersTable),
		IndexName:              aws.String(ordersByUserIndexName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query orders: %v", ErrUnavailable, err)
	}

	orders := make([]order.Order, 0, len(result.Items))
	for _, item := range result.Items {
		o, err := unmarshalOrder(item)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	// Newest first, matching the storefront's order history view.
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *DynamoStore) UpdateOrderStatus(ctx context.Context, orderID string, target order.Status, description string) error {
	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if err := o.TransitionTo(target, description, time.Now().UTC()); err != nil {
		return err
	}

	doc := orderDocumentFrom(o)
	doc.ID = o.ID
	return s.putItem(ctx, s.ordersTable, doc)
}

func (s *DynamoStore) getItem(ctx context.Context, table, keyName, keyValue string) (map[string]types.AttributeValue, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			keyName: &types.AttributeValueMemberS{Value: keyValue},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get item from %s: %v", ErrUnavailable, table, err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}
	return result.Item, nil
}

func (s *DynamoStore) putItem(ctx context.Context, table string, doc any) error {
	av, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("%w: put item to %s: %v", ErrUnavailable, table, err)
	}
	return nil
}

func orderDocumentFrom(o *order.Order) orderDocument {
	return orderDocument{
		UserID:          o.UserID,
		Lines:           o.Lines,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   string(o.PaymentMethod),
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		Shipping:        o.Shipping,
		Total:           o.Total,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		Timeline:        o.Timeline,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:       o.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func unmarshalUser(item map[string]types.AttributeValue) (*User, error) {
	var doc userDocument
	if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, doc.CreatedAt)
	return &User{
		ID:           doc.ID,
		Email:        doc.Email,
		DisplayName:  doc.DisplayName,
		PasswordHash: doc.PasswordHash,
		PhotoURL:     doc.PhotoURL,
		CreatedAt:    createdAt,
	}, nil
}

func unmarshalOrder(item map[string]types.AttributeValue) (*order.Order, error) {
	var doc orderDocument
	if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, doc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order updated_at: %w", err)
	}
	return &order.Order{
		ID:              doc.ID,
		UserID:          doc.UserID,
		Lines:           doc.Lines,
		ShippingAddress: doc.ShippingAddress,
		PaymentMethod:   order.PaymentMethod(doc.PaymentMethod),
		Subtotal:        doc.Subtotal,
		Tax:             doc.Tax,
		Shipping:        doc.Shipping,
		Total:           doc.Total,
		Status:          order.Status(doc.Status),
		PaymentStatus:   order.PaymentStatus(doc.PaymentStatus),
		Timeline:        doc.Timeline,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}, nil
}
