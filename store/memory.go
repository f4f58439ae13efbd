package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-storefront/apperr"
	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory keeps everything in process. It backs STORE_DRIVER=memory and the
// handler tests, with the same error behaviour as the Mongo stores.
type Memory struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]models.User
	products map[primitive.ObjectID]models.Product
	orders   map[primitive.ObjectID]models.Order
}

// NewMemory returns an empty in-memory store
func NewMemory() *Store {
	m := &Memory{
		users:    make(map[primitive.ObjectID]models.User),
		products: make(map[primitive.ObjectID]models.Product),
		orders:   make(map[primitive.ObjectID]models.Order),
	}
	return &Store{
		Users:    memoryUsers{m},
		Products: memoryProducts{m},
		Orders:   memoryOrders{m},
	}
}

type memoryUsers struct{ m *Memory }

func (s memoryUsers) emailTaken(email string, except primitive.ObjectID) bool {
	for id, u := range s.m.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (s memoryUsers) Create(_ context.Context, user *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	user.Email = NormalizeEmail(user.Email)
	if s.emailTaken(user.Email, primitive.NilObjectID) {
		return apperr.Conflict("Email already registered")
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.m.users[user.ID] = *user
	return nil
}

func (s memoryUsers) InsertMany(_ context.Context, users []models.User) ([]models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for i := range users {
		users[i].Email = NormalizeEmail(users[i].Email)
		if s.emailTaken(users[i].Email, primitive.NilObjectID) {
			return nil, apperr.Conflict("Users already seeded")
		}
	}
	for i := range users {
		if users[i].ID.IsZero() {
			users[i].ID = primitive.NewObjectID()
		}
		s.m.users[users[i].ID] = users[i]
	}
	return users, nil
}

func (s memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	email = NormalizeEmail(email)
	for _, u := range s.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("User Not Found")
}

func (s memoryUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	u, ok := s.m.users[id]
	if !ok {
		return nil, apperr.NotFound("User Not Found")
	}
	return &u, nil
}

func (s memoryUsers) Update(_ context.Context, user *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.users[user.ID]; !ok {
		return apperr.NotFound("User Not Found")
	}
	user.Email = NormalizeEmail(user.Email)
	if s.emailTaken(user.Email, user.ID) {
		return apperr.Conflict("Email already registered")
	}
	s.m.users[user.ID] = *user
	return nil
}

func (s memoryUsers) Count(context.Context) (int64, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	return int64(len(s.m.users)), nil
}

type memoryProducts struct{ m *Memory }

func (s memoryProducts) List(context.Context) ([]models.Product, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	products := make([]models.Product, 0, len(s.m.products))
	for _, p := range s.m.products {
		products = append(products, p)
	}
	// ObjectIDs start with their creation second, so this is insertion order
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID.Hex() < products[j].ID.Hex()
	})
	return products, nil
}

func (s memoryProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	p, ok := s.m.products[id]
	if !ok {
		return nil, apperr.NotFound("Product Not Found")
	}
	return &p, nil
}

func (s memoryProducts) Create(_ context.Context, product *models.Product) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	s.m.products[product.ID] = *product
	return nil
}

func (s memoryProducts) Update(_ context.Context, product *models.Product) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.products[product.ID]; !ok {
		return apperr.NotFound("Product Not Found")
	}
	s.m.products[product.ID] = *product
	return nil
}

func (s memoryProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.products[id]; !ok {
		return apperr.NotFound("Product Not Found")
	}
	delete(s.m.products, id)
	return nil
}

func (s memoryProducts) InsertMany(_ context.Context, products []models.Product) ([]models.Product, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for i := range products {
		if products[i].ID.IsZero() {
			products[i].ID = primitive.NewObjectID()
		}
		s.m.products[products[i].ID] = products[i]
	}
	return products, nil
}

func (s memoryProducts) Count(context.Context) (int64, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	return int64(len(s.m.products)), nil
}

type memoryOrders struct{ m *Memory }

// clone detaches an order from the map so callers cannot mutate stored state
func clone(o models.Order) models.Order {
	o.OrderItems = append([]models.OrderItem(nil), o.OrderItems...)
	if o.PaymentResult != nil {
		r := *o.PaymentResult
		o.PaymentResult = &r
	}
	if o.PaidAt != nil {
		t := *o.PaidAt
		o.PaidAt = &t
	}
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		o.DeliveredAt = &t
	}
	return o
}

func (s memoryOrders) Create(_ context.Context, order *models.Order) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	s.m.orders[order.ID] = clone(*order)
	return nil
}

func (s memoryOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	o, ok := s.m.orders[id]
	if !ok {
		return nil, apperr.NotFound("Order Not Found")
	}
	o = clone(o)
	return &o, nil
}

func (s memoryOrders) filter(keep func(models.Order) bool) []models.Order {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	orders := []models.Order{}
	for _, o := range s.m.orders {
		if keep(o) {
			orders = append(orders, clone(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

func (s memoryOrders) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.filter(func(o models.Order) bool { return o.User == userID }), nil
}

func (s memoryOrders) List(context.Context) ([]models.Order, error) {
	return s.filter(func(models.Order) bool { return true }), nil
}

func (s memoryOrders) update(id primitive.ObjectID, apply func(*models.Order) error) (*models.Order, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	o, ok := s.m.orders[id]
	if !ok {
		return nil, apperr.NotFound("Order Not Found")
	}
	o = clone(o)
	if err := apply(&o); err != nil {
		return nil, apperr.Wrap(apperr.KindConflict, err)
	}
	s.m.orders[id] = o
	o = clone(o)
	return &o, nil
}

func (s memoryOrders) MarkPaid(_ context.Context, id primitive.ObjectID, result models.PaymentResult, at time.Time) (*models.Order, error) {
	return s.update(id, func(o *models.Order) error { return o.MarkPaid(result, at) })
}

func (s memoryOrders) MarkDelivered(_ context.Context, id primitive.ObjectID, at time.Time) (*models.Order, error) {
	return s.update(id, func(o *models.Order) error { return o.MarkDelivered(at) })
}
