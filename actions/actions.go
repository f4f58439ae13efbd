// Package actions runs the client's asynchronous operations: each dispatches
// a request action, calls the API and dispatches the success or failure
// action. Errors end up in state, never in a return value.
package actions

import (
	"context"
	"fmt"
	"log"

	"go-storefront/apiclient"
	"go-storefront/config"
	"go-storefront/models"
	"go-storefront/pricing"
	"go-storefront/state"
	"go-storefront/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Creators binds the API client, the state store and durable storage
type Creators struct {
	API     *apiclient.Client
	Store   *state.Store
	Storage storage.LocalStorage
}

func (c *Creators) token() string {
	if info := c.Store.State().UserSignin.UserInfo; info != nil {
		return info.Token
	}
	return ""
}

func (c *Creators) persist(key string, v interface{}) {
	if err := storage.SetJSON(c.Storage, key, v); err != nil {
		log.Printf("Failed to save %s: %v", key, err)
	}
}

func (c *Creators) forget(key string) {
	if err := c.Storage.RemoveItem(key); err != nil {
		log.Printf("Failed to remove %s: %v", key, err)
	}
}

func (c *Creators) Signin(ctx context.Context, email, password string) {
	c.Store.Dispatch(state.UserSigninRequest{Email: email})
	info, err := c.API.Signin(ctx, email, password)
	if err != nil {
		c.Store.Dispatch(state.UserSigninFail{Error: apiclient.Message(err)})
		return
	}
	c.Store.Dispatch(state.UserSigninSuccess{UserInfo: info})
	c.persist(storage.KeyUserInfo, info)
}

// Register creates the account and signs it in
func (c *Creators) Register(ctx context.Context, name, email, password string) {
	c.Store.Dispatch(state.UserRegisterRequest{Email: email})
	info, err := c.API.Register(ctx, name, email, password)
	if err != nil {
		c.Store.Dispatch(state.UserRegisterFail{Error: apiclient.Message(err)})
		return
	}
	c.Store.Dispatch(state.UserRegisterSuccess{UserInfo: info})
	c.Store.Dispatch(state.UserSigninSuccess{UserInfo: info})
	c.persist(storage.KeyUserInfo, info)
}

func (c *Creators) Signout() {
	c.forget(storage.KeyUserInfo)
	c.Store.Dispatch(state.UserSignout{})
}

// AddToCart looks the product up and puts qty of it in the cart
func (c *Creators) AddToCart(ctx context.Context, productID string, qty int) {
	product, err := c.API.GetProduct(ctx, productID)
	if err != nil {
		c.Store.Dispatch(state.CartAddItemFail{ProductID: productID, Error: apiclient.Message(err)})
		return
	}
	c.Store.Dispatch(state.CartAddItem{Item: models.CartItem{
		Product:      product.ID.Hex(),
		Name:         product.Name,
		Image:        product.Image,
		Price:        product.Price,
		CountInStock: product.CountInStock,
		Qty:          qty,
	}})
	c.persist(storage.KeyCartItems, c.Store.State().Cart.CartItems)
}

func (c *Creators) RemoveFromCart(productID string) {
	c.Store.Dispatch(state.CartRemoveItem{ProductID: productID})
	c.persist(storage.KeyCartItems, c.Store.State().Cart.CartItems)
}

func (c *Creators) SaveShippingAddress(addr models.ShippingAddress) {
	c.Store.Dispatch(state.CartSaveShippingAddress{Address: addr})
	c.persist(storage.KeyShippingAddress, addr)
}

func (c *Creators) SavePaymentMethod(method string) {
	c.Store.Dispatch(state.CartSavePaymentMethod{Method: method})
	c.persist(storage.KeyPaymentMethod, method)
}

// OrderRequest turns the cart into the body of an order request. A cart line
// without a valid product id fails the whole request.
func OrderRequest(cart state.Cart) (apiclient.OrderRequest, error) {
	items := make([]models.OrderItem, 0, len(cart.CartItems))
	for _, it := range cart.CartItems {
		id, err := primitive.ObjectIDFromHex(it.Product)
		if err != nil {
			return apiclient.OrderRequest{}, fmt.Errorf("Invalid product %q in cart", it.Product)
		}
		items = append(items, models.OrderItem{
			Name:    it.Name,
			Qty:     it.Qty,
			Image:   it.Image,
			Price:   it.Price,
			Product: id,
		})
	}
	return apiclient.OrderRequest{
		OrderItems:      items,
		ShippingAddress: cart.ShippingAddress,
		PaymentMethod:   cart.PaymentMethod,
		Prices:          pricing.Compute(pricing.FromCart(cart.CartItems)),
	}, nil
}

// CreateOrder places the current cart. On success the cart is emptied.
func (c *Creators) CreateOrder(ctx context.Context) {
	c.Store.Dispatch(state.OrderCreateRequest{})
	req, err := OrderRequest(c.Store.State().Cart)
	if err != nil {
		c.Store.Dispatch(state.OrderCreateFail{Error: err.Error()})
		return
	}
	order, err := c.API.CreateOrder(ctx, c.token(), req)
	if err != nil {
		c.Store.Dispatch(state.OrderCreateFail{Error: apiclient.Message(err)})
		return
	}
	c.Store.Dispatch(state.OrderCreateSuccess{Order: order})
	c.Store.Dispatch(state.CartEmpty{})
	c.forget(storage.KeyCartItems)
}

func (c *Creators) DetailsOrder(ctx context.Context, orderID string) {
	c.Store.Dispatch(state.OrderDetailsRequest{ID: orderID})
	order, err := c.API.GetOrder(ctx, c.token(), orderID)
	if err != nil {
		c.Store.Dispatch(state.OrderDetailsFail{ID: orderID, Error: apiclient.Message(err)})
		return
	}
	c.Store.Dispatch(state.OrderDetailsSuccess{ID: orderID, Order: order})
}

// PayOrder reports the payment widget's result for order
func (c *Creators) PayOrder(ctx context.Context, order *models.Order, result models.PaymentResult) {
	c.Store.Dispatch(state.OrderPayRequest{OrderID: order.ID.Hex()})
	paid, err := c.API.PayOrder(ctx, c.token(), order.ID.Hex(), result)
	if err != nil {
		c.Store.Dispatch(state.OrderPayFail{Error: apiclient.Message(err)})
		return
	}
	c.Store.Dispatch(state.OrderPaySuccess{Order: paid})
}

// ResetPay clears the payment slice before the order is fetched again
func (c *Creators) ResetPay() {
	c.Store.Dispatch(state.OrderPayReset{})
}

func (c *Creators) ResetCreate() {
	c.Store.Dispatch(state.OrderCreateReset{})
}

func (c *Creators) ListMyOrders(ctx context.Context) {
	c.Store.Dispatch(state.OrderMineListRequest{})
	orders, err := c.API.ListMyOrders(ctx, c.token())
	if err != nil {
		c.Store.Dispatch(state.OrderMineListFail{Error: apiclient.Message(err)})
		return
	}
	c.Store.Dispatch(state.OrderMineListSuccess{Orders: orders})
}

// PayPalClientID fetches the payment widget's client id. The sandbox id is
// used when the server cannot be asked.
func (c *Creators) PayPalClientID(ctx context.Context) string {
	id, err := c.API.PayPalClientID(ctx)
	if err != nil {
		log.Printf("Failed to fetch PayPal client id: %s", apiclient.Message(err))
		return config.SandboxClientID
	}
	return id
}
