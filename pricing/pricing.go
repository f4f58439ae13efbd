// Package pricing derives the order summary shown at checkout: items,
// shipping, tax and total. The numbers must match what the browser storefront
// has always displayed, down to the last cent, so rounding follows
// Number.prototype.toFixed(2) exactly and each component is rounded on its own
// before the total is summed.
package pricing

import (
	"math"
	"math/big"

	"go-storefront/models"

	"github.com/shopspring/decimal"
)

const (
	// FreeShippingThreshold is the items price above which shipping is free
	FreeShippingThreshold = 100
	// ShippingFee is the flat fee below the threshold
	ShippingFee = 10
	// TaxRate is applied to the items price
	TaxRate = 0.15
)

// Line is the part of a cart or order line that pricing needs
type Line struct {
	Qty   int
	Price float64
}

// Prices is the derived order summary
type Prices struct {
	ItemsPrice    float64 `json:"itemsPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TaxPrice      float64 `json:"taxPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

// FromCart adapts cart lines
func FromCart(items []models.CartItem) []Line {
	lines := make([]Line, len(items))
	for i, it := range items {
		lines[i] = Line{Qty: it.Qty, Price: it.Price}
	}
	return lines
}

// FromOrder adapts order lines
func FromOrder(items []models.OrderItem) []Line {
	lines := make([]Line, len(items))
	for i, it := range items {
		lines[i] = Line{Qty: it.Qty, Price: it.Price}
	}
	return lines
}

// Compute applies the storefront pricing rules
func Compute(lines []Line) Prices {
	var sum float64
	for _, l := range lines {
		// the conversion forces rounding of the product; without it the
		// compiler may fuse the multiply-add and drift from the browser's sum
		sum += float64(float64(l.Qty) * l.Price)
	}

	var p Prices
	p.ItemsPrice = ToPrice(sum)
	if p.ItemsPrice > FreeShippingThreshold {
		p.ShippingPrice = ToPrice(0)
	} else {
		p.ShippingPrice = ToPrice(ShippingFee)
	}
	p.TaxPrice = ToPrice(TaxRate * p.ItemsPrice)
	p.TotalPrice = p.ItemsPrice + p.ShippingPrice + p.TaxPrice
	return p
}

// Round rounds x to cents like toFixed(2): the exact binary value of x is
// rounded to the nearest cent, ties away from zero.
func Round(x float64) decimal.Decimal {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return decimal.Zero
	}
	r := new(big.Rat).SetFloat64(x)
	neg := r.Sign() < 0
	if neg {
		r.Neg(r)
	}
	r.Mul(r, big.NewRat(100, 1))
	r.Add(r, big.NewRat(1, 2))
	cents := new(big.Int).Quo(r.Num(), r.Denom())
	if neg {
		cents.Neg(cents)
	}
	return decimal.NewFromBigInt(cents, -2)
}

// ToPrice is Number(x.toFixed(2))
func ToPrice(x float64) float64 {
	f, _ := Round(x).Float64()
	return f
}

// Format renders x with two decimals, as the order summary does
func Format(x float64) string {
	return Round(x).StringFixed(2)
}
