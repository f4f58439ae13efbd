// Package state is the storefront client's application state: one tree of
// independent slices, changed only by reducing actions.
package state

import (
	"fmt"

	"go-storefront/models"
	"go-storefront/storage"
)

type UserSignin struct {
	Loading  bool
	UserInfo *models.UserInfo
	Error    string
}

type UserRegister struct {
	Loading  bool
	UserInfo *models.UserInfo
	Error    string
}

type Cart struct {
	CartItems       []models.CartItem
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	Error           string
}

type OrderCreate struct {
	Loading bool
	Success bool
	Order   *models.Order
	Error   string
}

// OrderDetails holds the order being viewed. RequestedID is the id of the
// latest fetch; results for any other id are dropped.
type OrderDetails struct {
	Loading     bool
	Order       *models.Order
	Error       string
	RequestedID string
}

type OrderPay struct {
	Loading bool
	Success bool
	Error   string
}

type OrderMineList struct {
	Loading bool
	Orders  []models.Order
	Error   string
}

// State is the whole client state
type State struct {
	UserSignin    UserSignin
	UserRegister  UserRegister
	Cart          Cart
	OrderCreate   OrderCreate
	OrderDetails  OrderDetails
	OrderPay      OrderPay
	OrderMineList OrderMineList
}

// Initial returns the state before anything is loaded or dispatched
func Initial() State {
	return State{
		Cart: Cart{
			CartItems:     []models.CartItem{},
			PaymentMethod: models.PaymentMethodPayPal,
		},
		OrderDetails:  OrderDetails{Loading: true},
		OrderMineList: OrderMineList{Orders: []models.Order{}},
	}
}

// Load builds the initial state, seeding the signed-in user, cart items,
// shipping address and payment method from durable storage. Entries that cannot be read are
// skipped and reported in the returned error; the state is usable either way.
func Load(ls storage.LocalStorage) (State, error) {
	s := Initial()
	var firstErr error
	note := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	var info models.UserInfo
	ok, err := storage.GetJSON(ls, storage.KeyUserInfo, &info)
	note(err)
	if ok {
		s.UserSignin.UserInfo = &info
	}

	var items []models.CartItem
	ok, err = storage.GetJSON(ls, storage.KeyCartItems, &items)
	note(err)
	if ok && items != nil {
		s.Cart.CartItems = items
	}

	var addr models.ShippingAddress
	ok, err = storage.GetJSON(ls, storage.KeyShippingAddress, &addr)
	note(err)
	if ok {
		s.Cart.ShippingAddress = addr
	}

	var method string
	ok, err = storage.GetJSON(ls, storage.KeyPaymentMethod, &method)
	note(err)
	if ok && method != "" {
		s.Cart.PaymentMethod = method
	}

	if firstErr != nil {
		return s, fmt.Errorf("load client state: %w", firstErr)
	}
	return s, nil
}
