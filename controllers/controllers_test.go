package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go-storefront/controllers"
	"go-storefront/events"
	"go-storefront/models"
	"go-storefront/paypal"
	"go-storefront/routes"
	"go-storefront/store"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) Send(to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, e.Type)
	return nil
}

type stubVerifier struct{ err error }

func (v stubVerifier) Verify(context.Context, string, float64) error { return v.err }

type testEnv struct {
	router    *mux.Router
	store     *store.Store
	mailer    *recordingMailer
	publisher *recordingPublisher
	orders    *controllers.OrderController
	admin     *models.UserInfo
	user      *models.UserInfo
	other     *models.UserInfo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := store.NewMemory()
	env := &testEnv{store: s, mailer: &recordingMailer{}, publisher: &recordingPublisher{}}
	env.orders = controllers.NewOrderController(s.Orders, s.Users, utils.NewEmailService(env.mailer), env.publisher, nil)
	env.orders.Now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	env.router = routes.NewRouter(routes.Controllers{
		Users:    controllers.NewUserController(s.Users),
		Products: controllers.NewProductController(s.Products),
		Orders:   env.orders,
		Config:   &controllers.ConfigController{PaypalClientID: "sb"},
	})

	env.admin = env.createUser(t, "Root", "root@example.com", true)
	env.user = env.createUser(t, "John", "john@example.com", false)
	env.other = env.createUser(t, "Jane", "jane@example.com", false)
	return env
}

func (e *testEnv) createUser(t *testing.T, name, email string, admin bool) *models.UserInfo {
	t.Helper()
	hashed, err := utils.HashPassword("1234")
	require.NoError(t, err)
	u := &models.User{Name: name, Email: email, Password: hashed, IsAdmin: admin}
	require.NoError(t, e.store.Users.Create(context.Background(), u))
	info, err := utils.UserInfo(u)
	require.NoError(t, err)
	return info
}

func (e *testEnv) do(t *testing.T, method, path string, as *models.UserInfo, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+as.Token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rr.Body).Decode(v))
}

func messageOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	var body struct {
		Message string `json:"message"`
	}
	decode(t, rr, &body)
	return body.Message
}

type orderResponse struct {
	Message string       `json:"message"`
	Order   models.Order `json:"order"`
}

func cartBody(items ...models.OrderItem) map[string]interface{} {
	return map[string]interface{}{
		"orderItems": items,
		"shippingAddress": models.ShippingAddress{
			FullName: "John Doe", Address: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US",
		},
		"paymentMethod": models.PaymentMethodPayPal,
	}
}

func (e *testEnv) placeOrder(t *testing.T, as *models.UserInfo, items ...models.OrderItem) models.Order {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/orders", as, cartBody(items...))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var res orderResponse
	decode(t, rr, &res)
	return res.Order
}

func item(name string, qty int, price float64) models.OrderItem {
	return models.OrderItem{Name: name, Qty: qty, Price: price}
}

func TestSigninAndRegister(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/users/signin", nil, map[string]string{"email": "john@example.com", "password": "1234"})
	require.Equal(t, http.StatusOK, rr.Code)
	var info models.UserInfo
	decode(t, rr, &info)
	assert.Equal(t, "John", info.Name)
	assert.False(t, info.IsAdmin)
	assert.NotEmpty(t, info.Token)

	rr = env.do(t, http.MethodPost, "/api/users/signin", nil, map[string]string{"email": "john@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid email or password", messageOf(t, rr))

	rr = env.do(t, http.MethodPost, "/api/users/signin", nil, map[string]string{"email": "ghost@example.com", "password": "1234"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/users/register", nil, map[string]string{"name": "Ann", "email": "ann@example.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, rr.Code)
	decode(t, rr, &info)
	assert.Equal(t, "ann@example.com", info.Email)
	claims, err := utils.ParseJWT(info.Token)
	require.NoError(t, err)
	assert.Equal(t, info.ID, claims.ID)

	rr = env.do(t, http.MethodPost, "/api/users/register", nil, map[string]string{"name": "Ann", "email": "ann@example.com", "password": "pw"})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestGetUserHidesPassword(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/users/"+env.user.ID, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password")

	rr = env.do(t, http.MethodGet, "/api/users/not-an-id", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPut, "/api/users/profile", env.user, map[string]string{"name": "Johnny", "password": "5678"})
	require.Equal(t, http.StatusOK, rr.Code)
	var info models.UserInfo
	decode(t, rr, &info)
	assert.Equal(t, "Johnny", info.Name)
	assert.Equal(t, "john@example.com", info.Email)

	rr = env.do(t, http.MethodPost, "/api/users/signin", nil, map[string]string{"email": "john@example.com", "password": "5678"})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodPut, "/api/users/profile", env.user, map[string]string{"email": "jane@example.com"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(t, http.MethodPut, "/api/users/profile", nil, map[string]string{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSeedEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/products/seed", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var seeded struct {
		CreatedProducts []models.Product `json:"createdProducts"`
	}
	decode(t, rr, &seeded)
	assert.Len(t, seeded.CreatedProducts, 6)

	rr = env.do(t, http.MethodGet, "/api/products/seed", nil, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/products", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var products []models.Product
	decode(t, rr, &products)
	assert.Len(t, products, 6)

	rr = env.do(t, http.MethodGet, "/api/users/seed", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = env.do(t, http.MethodGet, "/api/users/seed", nil, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestProductAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	body := models.Product{Name: "Puma Cap", Price: 25, CountInStock: 3}

	rr := env.do(t, http.MethodPost, "/api/products", env.user, body)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = env.do(t, http.MethodPost, "/api/products", nil, body)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/products", env.admin, body)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created struct {
		Product models.Product `json:"product"`
	}
	decode(t, rr, &created)
	id := created.Product.ID.Hex()

	body.Price = 30
	rr = env.do(t, http.MethodPut, "/api/products/"+id, env.admin, body)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/products/"+id, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got models.Product
	decode(t, rr, &got)
	assert.Equal(t, 30.0, got.Price)

	rr = env.do(t, http.MethodPost, "/api/products", env.admin, models.Product{Price: 1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodDelete, "/api/products/"+id, env.admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = env.do(t, http.MethodGet, "/api/products/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateOrderRecomputesPrices(t *testing.T) {
	env := newTestEnv(t)

	body := cartBody(item("Nike Slim Pant", 1, 80))
	body["itemsPrice"] = 1
	body["totalPrice"] = 1
	rr := env.do(t, http.MethodPost, "/api/orders", env.user, body)
	require.Equal(t, http.StatusCreated, rr.Code)

	var res orderResponse
	decode(t, rr, &res)
	assert.Equal(t, "New Order Created", res.Message)
	o := res.Order
	assert.Equal(t, 80.0, o.ItemsPrice)
	assert.Equal(t, 10.0, o.ShippingPrice)
	assert.Equal(t, 12.0, o.TaxPrice)
	assert.Equal(t, 102.0, o.TotalPrice)
	assert.Equal(t, models.OrderStatusCreated, o.Status)
	assert.False(t, o.IsPaid)
	assert.Nil(t, o.PaidAt)
	assert.Equal(t, env.user.ID, o.User.Hex())

	big := env.placeOrder(t, env.user, item("Adidas Fit Shirt", 1, 150))
	assert.Equal(t, 0.0, big.ShippingPrice)
	assert.Equal(t, 22.5, big.TaxPrice)
	assert.Equal(t, 172.5, big.TotalPrice)

	assert.Equal(t, []string{events.OrderCreated, events.OrderCreated}, env.publisher.types)
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/orders", env.user, cartBody())
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Cart is empty", messageOf(t, rr))

	rr = env.do(t, http.MethodPost, "/api/orders", nil, cartBody(item("x", 1, 1)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestOrderVisibility(t *testing.T) {
	env := newTestEnv(t)
	o := env.placeOrder(t, env.user, item("Shirt", 2, 20))
	path := "/api/orders/" + o.ID.Hex()

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, path, env.user, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, path, env.admin, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, path, env.other, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, path, nil, nil).Code)

	rr := env.do(t, http.MethodGet, "/api/orders/"+models.Order{}.ID.Hex(), env.user, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = env.do(t, http.MethodGet, "/api/orders/garbage", env.user, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListOrders(t *testing.T) {
	env := newTestEnv(t)
	env.placeOrder(t, env.user, item("Shirt", 1, 20))
	env.placeOrder(t, env.user, item("Pant", 1, 30))
	env.placeOrder(t, env.other, item("Cap", 1, 10))

	rr := env.do(t, http.MethodGet, "/api/orders/mine", env.user, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var mine []models.Order
	decode(t, rr, &mine)
	assert.Len(t, mine, 2)

	rr = env.do(t, http.MethodGet, "/api/orders/mine", env.admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/orders", env.user, nil).Code)
	rr = env.do(t, http.MethodGet, "/api/orders", env.admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var all []models.Order
	decode(t, rr, &all)
	assert.Len(t, all, 3)
}

func TestPayOrderOnce(t *testing.T) {
	env := newTestEnv(t)
	o := env.placeOrder(t, env.user, item("Shirt", 1, 80))
	path := fmt.Sprintf("/api/orders/%s/pay", o.ID.Hex())
	result := models.PaymentResult{ID: "PAY-1", Status: "COMPLETED", UpdateTime: "2024-03-01T12:00:00Z", EmailAddress: "john@example.com"}

	rr := env.do(t, http.MethodPut, path, env.other, result)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodPut, path, env.user, result)
	require.Equal(t, http.StatusOK, rr.Code)
	var res orderResponse
	decode(t, rr, &res)
	assert.Equal(t, "Order Paid", res.Message)
	assert.True(t, res.Order.IsPaid)
	require.NotNil(t, res.Order.PaidAt)
	assert.Equal(t, "PAY-1", res.Order.PaymentResult.ID)

	rr = env.do(t, http.MethodPut, path, env.user, models.PaymentResult{ID: "PAY-2"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	stored, err := env.store.Orders.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "PAY-1", stored.PaymentResult.ID)

	assert.Equal(t, []string{"john@example.com|New order " + o.ID.Hex()}, env.mailer.sent)
	assert.Equal(t, []string{events.OrderCreated, events.OrderPaid}, env.publisher.types)
}

func TestPayOrderVerification(t *testing.T) {
	env := newTestEnv(t)
	o := env.placeOrder(t, env.user, item("Shirt", 1, 80))
	path := fmt.Sprintf("/api/orders/%s/pay", o.ID.Hex())

	env.orders.Verifier = stubVerifier{err: fmt.Errorf("%w: status APPROVED", paypal.ErrNotCompleted)}
	rr := env.do(t, http.MethodPut, path, env.user, models.PaymentResult{ID: "PAY-1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Payment could not be verified", messageOf(t, rr))

	env.orders.Verifier = stubVerifier{}
	rr = env.do(t, http.MethodPut, path, env.user, models.PaymentResult{ID: "PAY-1"})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestDeliverOrder(t *testing.T) {
	env := newTestEnv(t)
	o := env.placeOrder(t, env.user, item("Shirt", 1, 80))
	deliver := fmt.Sprintf("/api/orders/%s/deliver", o.ID.Hex())

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPut, deliver, env.user, nil).Code)

	rr := env.do(t, http.MethodPut, deliver, env.admin, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(t, http.MethodPut, fmt.Sprintf("/api/orders/%s/pay", o.ID.Hex()), env.user, models.PaymentResult{ID: "PAY-1"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodPut, deliver, env.admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var res orderResponse
	decode(t, rr, &res)
	assert.Equal(t, "Order Delivered", res.Message)
	assert.True(t, res.Order.IsDelivered)
	assert.True(t, res.Order.IsPaid)
	require.NotNil(t, res.Order.DeliveredAt)

	rr = env.do(t, http.MethodPut, deliver, env.admin, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestConfigAndHealth(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/config/paypal", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "sb", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")

	rr = env.do(t, http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
