// Package store persists users, products and orders.
package store

import (
	"context"
	"strings"
	"time"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NormalizeEmail is the stored and compared form of an email address.
// Emails match case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserStore persists users. Emails are unique after NormalizeEmail and are
// stored normalised.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	InsertMany(ctx context.Context, users []models.User) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
}

// ProductStore persists the catalogue
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	InsertMany(ctx context.Context, products []models.Product) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
}

// OrderStore persists orders. MarkPaid and MarkDelivered are the only
// mutations; each is a single guarded write so a lost race yields a
// conflict rather than a second transition.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	MarkPaid(ctx context.Context, id primitive.ObjectID, result models.PaymentResult, at time.Time) (*models.Order, error)
	MarkDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Order, error)
}

// Store bundles the three stores
type Store struct {
	Users    UserStore
	Products ProductStore
	Orders   OrderStore
}
