// Package checkout holds the decisions the storefront screens make: where
// the checkout wizard sends the user, what the order summary shows, when the
// order screen refetches and how order history rows read.
package checkout

import (
	"go-storefront/models"
	"go-storefront/pricing"
	"go-storefront/state"
)

// Step is a checkout wizard step
type Step int

const (
	StepSignin Step = iota + 1
	StepShipping
	StepPayment
	StepPlaceOrder
)

func (s Step) String() string {
	switch s {
	case StepSignin:
		return "signin"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepPlaceOrder:
		return "placeorder"
	default:
		return "unknown"
	}
}

// Steps lists the wizard in order
var Steps = []Step{StepSignin, StepShipping, StepPayment, StepPlaceOrder}

// Guard returns the step the user may actually see when asking for want:
// shipping needs a signed-in user, payment needs an address and placing the
// order needs a payment method.
func Guard(s state.State, want Step) Step {
	if want >= StepShipping && s.UserSignin.UserInfo == nil {
		return StepSignin
	}
	if want >= StepPayment && s.Cart.ShippingAddress.IsZero() {
		return StepShipping
	}
	if want >= StepPlaceOrder && s.Cart.PaymentMethod == "" {
		return StepPayment
	}
	return want
}

// Summary is what the place-order screen shows
type Summary struct {
	Items           []models.CartItem
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	pricing.Prices
	// CanPlace is false for an empty cart
	CanPlace bool
}

func PlaceOrder(cart state.Cart) Summary {
	return Summary{
		Items:           cart.CartItems,
		ShippingAddress: cart.ShippingAddress,
		PaymentMethod:   cart.PaymentMethod,
		Prices:          pricing.Compute(pricing.FromCart(cart.CartItems)),
		CanPlace:        len(cart.CartItems) > 0,
	}
}

// CreatedOrderID reports the order to navigate to once placing succeeded.
// The caller resets the orderCreate slice after navigating.
func CreatedOrderID(s state.State) (string, bool) {
	if !s.OrderCreate.Success || s.OrderCreate.Order == nil {
		return "", false
	}
	return s.OrderCreate.Order.ID.Hex(), true
}
