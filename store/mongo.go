package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-storefront/apperr"
	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongo builds the stores on top of a MongoDB database
func NewMongo(db *mongo.Database) *Store {
	return &Store{
		Users:    &mongoUsers{coll: db.Collection("users")},
		Products: &mongoProducts{coll: db.Collection("products")},
		Orders:   &mongoOrders{coll: db.Collection("orders")},
	}
}

// EnsureIndexes creates the indexes the stores rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users.email index: %w", err)
	}
	_, err = db.Collection("orders").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create orders.user index: %w", err)
	}
	return nil
}

func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	defer cursor.Close(ctx)
	out := []T{}
	for cursor.Next(ctx) {
		var v T
		if err := cursor.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type mongoUsers struct {
	coll *mongo.Collection
}

func (s *mongoUsers) Create(ctx context.Context, user *models.User) error {
	user.Email = NormalizeEmail(user.Email)
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &apperr.Error{Kind: apperr.KindConflict, Message: "Email already registered", Err: err}
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *mongoUsers) InsertMany(ctx context.Context, users []models.User) ([]models.User, error) {
	docs := make([]interface{}, len(users))
	for i := range users {
		users[i].Email = NormalizeEmail(users[i].Email)
		if users[i].ID.IsZero() {
			users[i].ID = primitive.NewObjectID()
		}
		docs[i] = users[i]
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &apperr.Error{Kind: apperr.KindConflict, Message: "Users already seeded", Err: err}
		}
		return nil, fmt.Errorf("insert users: %w", err)
	}
	return users, nil
}

func (s *mongoUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("User Not Found")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": NormalizeEmail(email)})
}

func (s *mongoUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *mongoUsers) Update(ctx context.Context, user *models.User) error {
	user.Email = NormalizeEmail(user.Email)
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"name":     user.Name,
			"email":    user.Email,
			"password": user.Password,
			"isAdmin":  user.IsAdmin,
		},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &apperr.Error{Kind: apperr.KindConflict, Message: "Email already registered", Err: err}
		}
		return fmt.Errorf("update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("User Not Found")
	}
	return nil
}

func (s *mongoUsers) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

type mongoProducts struct {
	coll *mongo.Collection
}

func (s *mongoProducts) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	products, err := decodeAll[models.Product](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	return products, nil
}

func (s *mongoProducts) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Product Not Found")
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

func (s *mongoProducts) Create(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *mongoProducts) Update(ctx context.Context, product *models.Product) error {
	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("Product Not Found")
	}
	return nil
}

func (s *mongoProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("Product Not Found")
	}
	return nil
}

func (s *mongoProducts) InsertMany(ctx context.Context, products []models.Product) ([]models.Product, error) {
	docs := make([]interface{}, len(products))
	for i := range products {
		if products[i].ID.IsZero() {
			products[i].ID = primitive.NewObjectID()
		}
		docs[i] = products[i]
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert products: %w", err)
	}
	return products, nil
}

func (s *mongoProducts) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

type mongoOrders struct {
	coll *mongo.Collection
}

func (s *mongoOrders) Create(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *mongoOrders) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Order Not Found")
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

func (s *mongoOrders) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	orders, err := decodeAll[models.Order](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}
	return orders, nil
}

func (s *mongoOrders) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.find(ctx, bson.M{"user": userID})
}

func (s *mongoOrders) List(ctx context.Context) ([]models.Order, error) {
	return s.find(ctx, bson.M{})
}

// transition applies a status change guarded on the current status. When the
// guard fails the order is reloaded to tell a missing order from a bad state.
func (s *mongoOrders) transition(ctx context.Context, id primitive.ObjectID, from models.OrderStatus, set bson.M) (*models.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
		opts,
	).Decode(&order)
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	current, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, guardError(current.Status, from)
}

func (s *mongoOrders) MarkPaid(ctx context.Context, id primitive.ObjectID, result models.PaymentResult, at time.Time) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderStatusCreated, bson.M{
		"status":        models.OrderStatusPaid,
		"isPaid":        true,
		"paidAt":        at,
		"paymentResult": result,
		"updatedAt":     at,
	})
}

func (s *mongoOrders) MarkDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderStatusPaid, bson.M{
		"status":      models.OrderStatusDelivered,
		"isDelivered": true,
		"deliveredAt": at,
		"updatedAt":   at,
	})
}

// guardError explains why an order in status current could not leave status want
func guardError(current, want models.OrderStatus) error {
	switch {
	case want == models.OrderStatusCreated:
		return apperr.Wrap(apperr.KindConflict, models.ErrAlreadyPaid)
	case current == models.OrderStatusCreated:
		return apperr.Wrap(apperr.KindConflict, models.ErrNotPaid)
	default:
		return apperr.Wrap(apperr.KindConflict, models.ErrAlreadyDelivered)
	}
}
