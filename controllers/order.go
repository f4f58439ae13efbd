package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"go-storefront/apperr"
	"go-storefront/events"
	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/paypal"
	"go-storefront/pricing"
	"go-storefront/store"
	"go-storefront/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentVerifier confirms with the payment provider that paymentID settled total
type PaymentVerifier interface {
	Verify(ctx context.Context, paymentID string, total float64) error
}

// OrderController handles order-related requests
type OrderController struct {
	Orders       store.OrderStore
	Users        store.UserStore
	EmailService *utils.EmailService
	Events       events.Publisher
	// Verifier is nil when payments are taken on the client's word
	Verifier PaymentVerifier
	Now      func() time.Time
}

// NewOrderController creates a new OrderController
func NewOrderController(orders store.OrderStore, users store.UserStore, emailService *utils.EmailService, publisher events.Publisher, verifier PaymentVerifier) *OrderController {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderController{
		Orders:       orders,
		Users:        users,
		EmailService: emailService,
		Events:       publisher,
		Verifier:     verifier,
		Now:          time.Now,
	}
}

func callerID(r *http.Request) (*utils.Claims, primitive.ObjectID, error) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		return nil, primitive.NilObjectID, apperr.Auth("No Token")
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, primitive.NilObjectID, apperr.Auth("Invalid Token")
	}
	return claims, id, nil
}

func (oc *OrderController) publish(ctx context.Context, eventType string, order *models.Order) {
	if err := oc.Events.Publish(ctx, events.NewOrderEvent(eventType, order)); err != nil {
		log.Printf("Failed to publish %s for order %s: %v", eventType, order.ID.Hex(), err)
	}
}

// CreateOrder places an order from the cart snapshot in the body. Prices are
// recomputed here; the ones the client shows are not trusted.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	_, userID, err := callerID(r)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	var input struct {
		OrderItems      []models.OrderItem     `json:"orderItems"`
		ShippingAddress models.ShippingAddress `json:"shippingAddress"`
		PaymentMethod   string                 `json:"paymentMethod"`
	}
	if err := decodeBody(r, &input); err != nil {
		apperr.Write(w, err)
		return
	}
	if len(input.OrderItems) == 0 {
		apperr.Write(w, apperr.Validation("Cart is empty"))
		return
	}
	for _, item := range input.OrderItems {
		if item.Qty <= 0 || item.Price < 0 {
			apperr.Write(w, apperr.Validation("Invalid order item %q", item.Name))
			return
		}
	}

	prices := pricing.Compute(pricing.FromOrder(input.OrderItems))
	now := oc.Now()
	order := &models.Order{
		User:            userID,
		OrderItems:      input.OrderItems,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      prices.ItemsPrice,
		ShippingPrice:   prices.ShippingPrice,
		TaxPrice:        prices.TaxPrice,
		TotalPrice:      prices.TotalPrice,
		Status:          models.OrderStatusCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := oc.Orders.Create(ctx, order); err != nil {
		apperr.Write(w, err)
		return
	}
	oc.publish(ctx, events.OrderCreated, order)

	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "New Order Created", "order": order})
}

// GetMyOrders lists the caller's orders
func (oc *OrderController) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	_, userID, err := callerID(r)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	orders, err := oc.Orders.ListByUser(ctx, userID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrders lists every order (Admin only)
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	orders, err := oc.Orders.List(ctx)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// loadOwnOrder fetches the {id} order if the caller placed it or is an admin
func (oc *OrderController) loadOwnOrder(ctx context.Context, r *http.Request) (*models.Order, error) {
	claims, userID, err := callerID(r)
	if err != nil {
		return nil, err
	}
	id, err := pathID(r, "Order")
	if err != nil {
		return nil, err
	}
	order, err := oc.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(userID) && !claims.IsAdmin {
		return nil, apperr.Forbidden("Not your order")
	}
	return order, nil
}

// GetOrderByID returns one order to its owner or an admin
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	order, err := oc.loadOwnOrder(ctx, r)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// PayOrder records the payment reported by the client. An order is paid at
// most once; a second attempt gets 409.
func (oc *OrderController) PayOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	order, err := oc.loadOwnOrder(ctx, r)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	var result models.PaymentResult
	if err := decodeBody(r, &result); err != nil {
		apperr.Write(w, err)
		return
	}
	if order.IsPaid {
		apperr.Write(w, apperr.Wrap(apperr.KindConflict, models.ErrAlreadyPaid))
		return
	}

	if oc.Verifier != nil {
		if err := oc.Verifier.Verify(ctx, result.ID, order.TotalPrice); err != nil {
			if errors.Is(err, paypal.ErrNotCompleted) || errors.Is(err, paypal.ErrAmountMismatch) {
				apperr.Write(w, &apperr.Error{Kind: apperr.KindValidation, Message: "Payment could not be verified", Err: err})
				return
			}
			apperr.Write(w, err)
			return
		}
	}

	paid, err := oc.Orders.MarkPaid(ctx, order.ID, result, oc.Now())
	if err != nil {
		apperr.Write(w, err)
		return
	}

	oc.notifyPaid(ctx, paid)
	oc.publish(ctx, events.OrderPaid, paid)

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Order Paid", "order": paid})
}

func (oc *OrderController) notifyPaid(ctx context.Context, order *models.Order) {
	if oc.EmailService == nil {
		return
	}
	user, err := oc.Users.FindByID(ctx, order.User)
	if err != nil {
		log.Printf("Failed to load buyer of order %s: %v", order.ID.Hex(), err)
		return
	}
	if err := oc.EmailService.SendOrderPaidEmail(user, order); err != nil {
		log.Printf("Failed to send email to %s: %v", user.Email, err)
	}
}

// DeliverOrder marks a paid order delivered (Admin only)
func (oc *OrderController) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Order")
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	order, err := oc.Orders.MarkDelivered(ctx, id, oc.Now())
	if err != nil {
		apperr.Write(w, err)
		return
	}
	oc.publish(ctx, events.OrderDelivered, order)

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Order Delivered", "order": order})
}
