// utils/email.go
package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"log"

	"go-storefront/models"
	"go-storefront/pricing"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers a single email
type Mailer interface {
	Send(toEmail, subject, htmlContent string) error
}

// PostmarkMailer sends emails using Postmark
type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

// NewPostmarkMailer creates a Postmark backed mailer
func NewPostmarkMailer(serverToken, from string) *PostmarkMailer {
	return &PostmarkMailer{
		client: postmark.NewClient(serverToken, ""),
		from:   from,
	}
}

func (m *PostmarkMailer) Send(toEmail, subject, htmlContent string) error {
	_, err := m.client.SendEmail(postmark.Email{
		From:     m.from,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendgridMailer sends emails using SendGrid
type SendgridMailer struct {
	client *sendgrid.Client
	from   string
}

// NewSendgridMailer creates a SendGrid backed mailer
func NewSendgridMailer(apiKey, from string) *SendgridMailer {
	return &SendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
	}
}

func (m *SendgridMailer) Send(toEmail, subject, htmlContent string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail("Amazona", m.from),
		subject,
		mail.NewEmail("", toEmail),
		htmlContent,
		htmlContent,
	)
	resp, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("failed to send email: sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer only logs; used when no email provider is configured
type LogMailer struct{}

func (LogMailer) Send(toEmail, subject, _ string) error {
	log.Printf("email to %s skipped (no provider): %s", toEmail, subject)
	return nil
}

// EmailService renders the storefront's notifications
type EmailService struct {
	mailer Mailer
}

// NewEmailService wraps a mailer
func NewEmailService(mailer Mailer) *EmailService {
	return &EmailService{mailer: mailer}
}

var orderPaidTemplate = template.Must(template.New("orderPaid").Funcs(template.FuncMap{
	"price": pricing.Format,
}).Parse(`<h1>Thanks for shopping with us</h1>
<p>Hi {{.User.Name}},</p><p>We have finished processing your order.</p>
<h2>[Order {{.Order.ID.Hex}}] ({{.Order.CreatedAt.Format "2006-01-02"}})</h2>
<table>
<thead><tr><td><strong>Product</strong></td><td><strong>Quantity</strong></td><td align="right"><strong>Price</strong></td></tr></thead>
<tbody>{{range .Order.OrderItems}}
<tr><td>{{.Name}}</td><td align="center">{{.Qty}}</td><td align="right">{{price .Price}}</td></tr>{{end}}
</tbody>
<tfoot>
<tr><td colspan="2">Items Price:</td><td align="right">{{price .Order.ItemsPrice}}</td></tr>
<tr><td colspan="2">Tax Price:</td><td align="right">{{price .Order.TaxPrice}}</td></tr>
<tr><td colspan="2">Shipping Price:</td><td align="right">{{price .Order.ShippingPrice}}</td></tr>
<tr><td colspan="2"><strong>Total Price:</strong></td><td align="right"><strong>{{price .Order.TotalPrice}}</strong></td></tr>
<tr><td colspan="2">Payment Method:</td><td align="right">{{.Order.PaymentMethod}}</td></tr>
</tfoot>
</table>
{{with .Order.ShippingAddress}}<h2>Shipping address</h2>
<p>{{.FullName}},<br/>{{.Address}},<br/>{{.City}},<br/>{{.Country}},<br/>{{.PostalCode}}</p>{{end}}
`))

// SendOrderPaidEmail confirms a payment to the buyer
func (es *EmailService) SendOrderPaidEmail(user *models.User, order *models.Order) error {
	subject := fmt.Sprintf("New order %s", order.ID.Hex())
	var body bytes.Buffer
	err := orderPaidTemplate.Execute(&body, struct {
		User  *models.User
		Order *models.Order
	}{user, order})
	if err != nil {
		return fmt.Errorf("render order email: %w", err)
	}
	return es.mailer.Send(user.Email, subject, body.String())
}
