package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// EmailSender delivers a single email message.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, text, html string) error
}

// SmsSender delivers a single SMS message.
type SmsSender interface {
	SendSms(ctx context.Context, to, body string) error
}

// OrderStatusEvent describes an order status change to notify a customer about.
type OrderStatusEvent struct {
	OrderID  uint   `json:"order_id"`
	Status   string `json:"status"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Dispatcher fans an order status change out to the configured channels.
// Delivery is best-effort: failures are logged and swallowed so the order
// update flow never blocks or fails on a provider outage. Clients are
// injected; a nil client means the channel is not configured.
type Dispatcher struct {
	email EmailSender
	sms   SmsSender
	log   *zap.Logger
}

func NewDispatcher(email EmailSender, sms SmsSender, log *zap.Logger) *Dispatcher {
	return &Dispatcher{email: email, sms: sms, log: log}
}

// NotifyOrderStatus sends the customer-facing email and SMS for an order
// status change.
func (d *Dispatcher) NotifyOrderStatus(ctx context.Context, evt OrderStatusEvent) {
	subject := fmt.Sprintf("Tu pedido #%d cambió a %s", evt.OrderID, evt.Status)
	text := fmt.Sprintf("Hola %s,\n\nEl estado de tu pedido #%d ha sido actualizado a: %s.\n\nGracias.",
		evt.Username, evt.OrderID, evt.Status)
	html := fmt.Sprintf("<p>Hola %s,</p><p>El estado de tu pedido <strong>#%d</strong> ha sido actualizado a: <strong>%s</strong>.</p><p>Gracias.</p>",
		evt.Username, evt.OrderID, evt.Status)

	if evt.Email != "" {
		if d.email == nil {
			d.log.Info("smtp not configured, skipping email", zap.String("to", evt.Email))
		} else if err := d.email.SendEmail(ctx, evt.Email, subject, text, html); err != nil {
			d.log.Error("email notification failed",
				zap.Uint("order_id", evt.OrderID), zap.Error(err))
		} else {
			d.log.Info("email notification sent",
				zap.Uint("order_id", evt.OrderID), zap.String("to", evt.Email))
		}
	}

	if evt.Phone != "" {
		body := fmt.Sprintf("Pedido #%d — estado: %s", evt.OrderID, evt.Status)
		if d.sms == nil {
			d.log.Info("sms not configured, skipping sms", zap.String("to", evt.Phone))
		} else if err := d.sms.SendSms(ctx, evt.Phone, body); err != nil {
			d.log.Error("sms notification failed",
				zap.Uint("order_id", evt.OrderID), zap.Error(err))
		} else {
			d.log.Info("sms notification sent",
				zap.Uint("order_id", evt.OrderID), zap.String("to", evt.Phone))
		}
	}
}
