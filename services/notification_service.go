package services

import (
	"fmt"
	"log"
	"net/smtp"
	"net/url"

	appConfig "github.com/kalakriti-studio/kalakriti-api/config"
	"github.com/kalakriti-studio/kalakriti-api/models"
)

// Notifier defines the outbound notification contract. Implementations
// are best-effort; callers dispatch through NotifyAsync and never block
// a request on delivery.
type Notifier interface {
	OrderPlaced(order *models.Order)
	OrderStatusChanged(order *models.Order)
	PaymentConfirmed(order *models.Order)
	CustomOrderReceived(customOrder *models.CustomOrder)
}

var notifierInstance Notifier

// InitNotifier initializes the email/WhatsApp notifier from configuration
func InitNotifier() Notifier {
	notifierInstance = &EmailWhatsAppNotifier{cfg: appConfig.GetConfig()}
	return notifierInstance
}

// GetNotifier returns the initialized notifier instance
func GetNotifier() Notifier {
	return notifierInstance
}

// SetNotifier sets the notifier instance (primarily for testing)
func SetNotifier(n Notifier) {
	notifierInstance = n
}

// NotifyAsync runs a notification on its own goroutine. Panics and
// failures inside the notifier are logged and never reach the caller.
func NotifyAsync(notify func(Notifier)) {
	n := notifierInstance
	if n == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("notification dispatch panicked: %v", r)
			}
		}()
		notify(n)
	}()
}

// EmailWhatsAppNotifier sends order emails over SMTP and logs a WhatsApp
// deep link the admin can open to follow up with the customer
type EmailWhatsAppNotifier struct {
	cfg *appConfig.Config
}

// OrderPlaced notifies the customer that their order was received
func (n *EmailWhatsAppNotifier) OrderPlaced(order *models.Order) {
	subject := fmt.Sprintf("Order %s received (%s)", order.OrderNumber, order.InvoiceNumber())
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nThank you for your order %s. We will confirm it shortly.\r\nOrder total: %.2f\r\nTrack your order: %s/track?orderNumber=%s\r\n",
		order.ShippingAddress.Name, order.OrderNumber, order.Total, n.cfg.StoreBaseURL, order.OrderNumber)

	n.sendEmail(order.ShippingAddress.Email, subject, body)
	n.logWhatsAppLink(order, fmt.Sprintf("Your order %s has been received.", order.OrderNumber))
}

// OrderStatusChanged notifies the customer about a status transition
func (n *EmailWhatsAppNotifier) OrderStatusChanged(order *models.Order) {
	subject := fmt.Sprintf("Order %s update: %s", order.OrderNumber, order.Status)
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour order %s is now %s.\r\nTrack your order: %s/track?orderNumber=%s\r\n",
		order.ShippingAddress.Name, order.OrderNumber, order.Status, n.cfg.StoreBaseURL, order.OrderNumber)

	n.sendEmail(order.ShippingAddress.Email, subject, body)
	n.logWhatsAppLink(order, fmt.Sprintf("Your order %s is now %s.", order.OrderNumber, order.Status))
}

// PaymentConfirmed notifies the customer that their payment went through
func (n *EmailWhatsAppNotifier) PaymentConfirmed(order *models.Order) {
	subject := fmt.Sprintf("Payment received for order %s (%s)", order.OrderNumber, order.InvoiceNumber())
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nWe received your payment of %.2f for order %s. Your order is confirmed.\r\n",
		order.ShippingAddress.Name, order.Total, order.OrderNumber)

	n.sendEmail(order.ShippingAddress.Email, subject, body)
	n.logWhatsAppLink(order, fmt.Sprintf("Payment received for order %s. It is confirmed!", order.OrderNumber))
}

// CustomOrderReceived notifies the requester that their custom order
// request was received
func (n *EmailWhatsAppNotifier) CustomOrderReceived(customOrder *models.CustomOrder) {
	subject := "We received your custom order request"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nThanks for your custom order request. We will review it and get back to you with a quote.\r\n",
		customOrder.Name)

	n.sendEmail(customOrder.Email, subject, body)
}

// sendEmail delivers a plain-text email over SMTP. Failures are logged
// only; notifications are best-effort by contract.
func (n *EmailWhatsAppNotifier) sendEmail(to, subject, body string) {
	if n.cfg.SMTPHost == "" || to == "" || to == models.AnonymizedValue {
		log.Printf("email notification skipped (smtp not configured or no recipient): %s", subject)
		return
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.cfg.SMTPFrom, to, subject, body))

	addr := n.cfg.SMTPHost + ":" + n.cfg.SMTPPort
	auth := smtp.PlainAuth("", n.cfg.SMTPUser, n.cfg.SMTPPassword, n.cfg.SMTPHost)
	if err := smtp.SendMail(addr, auth, n.cfg.SMTPFrom, []string{to}, msg); err != nil {
		log.Printf("failed to send email %q to %s: %v", subject, to, err)
		return
	}

	log.Printf("sent email %q to %s", subject, to)
}

// logWhatsAppLink builds a wa.me deep link for the order's phone number
// and logs it for the admin dashboard feed
func (n *EmailWhatsAppNotifier) logWhatsAppLink(order *models.Order, message string) {
	phone := order.ShippingAddress.Phone
	if phone == "" || phone == models.AnonymizedValue {
		return
	}

	link := WhatsAppLink(phone, message)
	log.Printf("whatsapp notification for order %s: %s", order.OrderNumber, link)
}

// WhatsAppLink builds a wa.me link that opens a chat with the given phone
// number and a prefilled message
func WhatsAppLink(phone, message string) string {
	digits := ""
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits += string(r)
		}
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(message))
}
