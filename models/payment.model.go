package models

// Payment methods offered by the payment step
const (
	PaymentMethodPayPal = "PayPal"
	PaymentMethodStripe = "Stripe"
)

// PaymentResult is the payload the payment widget reports on success
type PaymentResult struct {
	ID           string `bson:"id" json:"id"`
	Status       string `bson:"status" json:"status"`
	UpdateTime   string `bson:"update_time" json:"update_time"`
	EmailAddress string `bson:"email_address" json:"email_address"`
}
