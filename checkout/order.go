package checkout

import (
	"net/url"

	"go-storefront/models"
	"go-storefront/pricing"
	"go-storefront/state"
)

// Effect is what the order screen has to do next
type Effect int

const (
	// EffectNone: the order is shown and nothing is pending
	EffectNone Effect = iota
	// EffectFetch: reset orderPay, then fetch the order
	EffectFetch
	// EffectLoadSDK: fetch the PayPal client id and load the SDK
	EffectLoadSDK
	// EffectShowButton: the SDK is loaded; show the pay button
	EffectShowButton
)

func (e Effect) String() string {
	switch e {
	case EffectFetch:
		return "fetch"
	case EffectLoadSDK:
		return "load-sdk"
	case EffectShowButton:
		return "show-button"
	default:
		return "none"
	}
}

// PlanOrderScreen decides the order screen's next effect for orderID. The
// order is refetched when none is loaded, a different one is loaded, or a
// payment just succeeded; otherwise an unpaid order needs the SDK.
func PlanOrderScreen(s state.State, orderID string, sdkLoaded bool) Effect {
	order := s.OrderDetails.Order
	if order == nil || order.ID.Hex() != orderID || s.OrderPay.Success {
		return EffectFetch
	}
	if order.IsPaid {
		return EffectNone
	}
	if !sdkLoaded {
		return EffectLoadSDK
	}
	return EffectShowButton
}

// SDKURL is the PayPal SDK script address for clientID
func SDKURL(clientID string) string {
	return "https://www.paypal.com/sdk/js?client-id=" + url.QueryEscape(clientID)
}

// HistoryRow is one line of the order history table
type HistoryRow struct {
	ID        string
	Date      string
	Total     string
	Paid      string
	Delivered string
}

// HistoryRows formats orders for the history table: the date is the
// creation day, and paid/delivered show the day of the transition or "No".
func HistoryRows(orders []models.Order) []HistoryRow {
	rows := make([]HistoryRow, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		row := HistoryRow{
			ID:        o.ID.Hex(),
			Date:      o.CreatedAt.UTC().Format("2006-01-02"),
			Total:     pricing.Format(o.TotalPrice),
			Paid:      "No",
			Delivered: "No",
		}
		if o.IsPaid && o.PaidAt != nil {
			row.Paid = o.PaidAt.UTC().Format("2006-01-02")
		}
		if o.IsDelivered && o.DeliveredAt != nil {
			row.Delivered = o.DeliveredAt.UTC().Format("2006-01-02")
		}
		rows = append(rows, row)
	}
	return rows
}
