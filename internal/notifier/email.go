package notifier

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/auroragems/go-jewel-orders/internal/orders"
)

type Sender interface {
	SendOrderConfirmation(ctx context.Context, to string, p orders.OrderConfirmedPayload) error
}

type SMTPSender struct {
	Host string
	Port string
	User string
	Pass string
	From string
	Log  *zap.Logger
}

func (s *SMTPSender) SendOrderConfirmation(_ context.Context, to string, p orders.OrderConfirmedPayload) error {
	subject := fmt.Sprintf("Subject: Order %s confirmed\n", p.OrderNumber)
	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	body := fmt.Sprintf(`
		<h1>Thank you for your order!</h1>
		<p>We received your payment of $%d.%02d for order <b>%s</b>.</p>
		<p>We'll let you know as soon as it ships.</p>
	`, p.TotalCents/100, p.TotalCents%100, p.OrderNumber)

	msg := []byte(subject + mime + body)
	addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}
	if err := smtp.SendMail(addr, auth, s.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
