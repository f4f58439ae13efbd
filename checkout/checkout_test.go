package checkout

import (
	"testing"
	"time"

	"go-storefront/models"
	"go-storefront/state"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGuard(t *testing.T) {
	s := state.Initial()
	assert.Equal(t, StepSignin, Guard(s, StepSignin))
	assert.Equal(t, StepSignin, Guard(s, StepPlaceOrder))

	s.UserSignin.UserInfo = &models.UserInfo{Name: "John"}
	assert.Equal(t, StepShipping, Guard(s, StepShipping))
	assert.Equal(t, StepShipping, Guard(s, StepPayment))

	s.Cart.ShippingAddress = models.ShippingAddress{Address: "1 Main St"}
	assert.Equal(t, StepPayment, Guard(s, StepPayment))
	assert.Equal(t, StepPlaceOrder, Guard(s, StepPlaceOrder))

	s.Cart.PaymentMethod = ""
	assert.Equal(t, StepPayment, Guard(s, StepPlaceOrder))
}

func TestPlaceOrderSummary(t *testing.T) {
	cart := state.Initial().Cart
	sum := PlaceOrder(cart)
	assert.False(t, sum.CanPlace)
	assert.Equal(t, 10.0, sum.ShippingPrice)

	cart.CartItems = []models.CartItem{{Product: "p1", Qty: 2, Price: 40}}
	sum = PlaceOrder(cart)
	assert.True(t, sum.CanPlace)
	assert.Equal(t, 80.0, sum.ItemsPrice)
	assert.Equal(t, 10.0, sum.ShippingPrice)
	assert.Equal(t, 12.0, sum.TaxPrice)
	assert.Equal(t, 102.0, sum.TotalPrice)
	assert.Equal(t, "PayPal", sum.PaymentMethod)

	cart.CartItems = []models.CartItem{{Product: "p1", Qty: 1, Price: 150}}
	sum = PlaceOrder(cart)
	assert.Equal(t, 0.0, sum.ShippingPrice)
	assert.Equal(t, 22.5, sum.TaxPrice)
	assert.Equal(t, 172.5, sum.TotalPrice)
}

func TestCreatedOrderID(t *testing.T) {
	s := state.Initial()
	_, ok := CreatedOrderID(s)
	assert.False(t, ok)

	order := &models.Order{ID: primitive.NewObjectID()}
	s = state.Reduce(s, state.OrderCreateSuccess{Order: order})
	id, ok := CreatedOrderID(s)
	assert.True(t, ok)
	assert.Equal(t, order.ID.Hex(), id)
}

func TestPlanOrderScreen(t *testing.T) {
	order := &models.Order{ID: primitive.NewObjectID()}
	id := order.ID.Hex()

	s := state.Initial()
	assert.Equal(t, EffectFetch, PlanOrderScreen(s, id, false))

	s = state.Reduce(s, state.OrderDetailsRequest{ID: id})
	s = state.Reduce(s, state.OrderDetailsSuccess{ID: id, Order: order})
	assert.Equal(t, EffectLoadSDK, PlanOrderScreen(s, id, false))
	assert.Equal(t, EffectShowButton, PlanOrderScreen(s, id, true))
	assert.Equal(t, EffectFetch, PlanOrderScreen(s, primitive.NewObjectID().Hex(), true))

	s = state.Reduce(s, state.OrderPaySuccess{})
	assert.Equal(t, EffectFetch, PlanOrderScreen(s, id, true))

	paid := *order
	paid.IsPaid = true
	s = state.Reduce(s, state.OrderPayReset{})
	s = state.Reduce(s, state.OrderDetailsSuccess{ID: id, Order: &paid})
	assert.Equal(t, EffectNone, PlanOrderScreen(s, id, false))
}

func TestSDKURL(t *testing.T) {
	assert.Equal(t, "https://www.paypal.com/sdk/js?client-id=sb", SDKURL("sb"))
	assert.Equal(t, "https://www.paypal.com/sdk/js?client-id=a%26b", SDKURL("a&b"))
}

func TestHistoryRows(t *testing.T) {
	created := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
	paidAt := created.Add(2 * time.Hour)
	orders := []models.Order{
		{ID: primitive.NewObjectID(), CreatedAt: created, TotalPrice: 102},
		{ID: primitive.NewObjectID(), CreatedAt: created, TotalPrice: 172.5, IsPaid: true, PaidAt: &paidAt},
	}

	rows := HistoryRows(orders)
	assert.Equal(t, HistoryRow{ID: orders[0].ID.Hex(), Date: "2024-03-01", Total: "102.00", Paid: "No", Delivered: "No"}, rows[0])
	assert.Equal(t, "2024-03-02", rows[1].Paid)
	assert.Equal(t, "172.50", rows[1].Total)
	assert.Equal(t, "No", rows[1].Delivered)
	assert.Empty(t, HistoryRows(nil))
}
