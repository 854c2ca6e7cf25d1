package queue

import (
	"context"
	"encoding/json"
	"errors"

	"storefront/internal/notify"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Notification queue topology. Events that cannot be decoded are
// dead-lettered for inspection.
const (
	NotificationsExchange = "storefront.notifications"
	NotificationsQueue    = "storefront.notifications.send"
	NotificationsDLQ      = "storefront.notifications.dlq"
	NotificationsRK       = "send"
	NotificationsDeadRK   = "dead"
)

// EnsureNotificationTopology declares the notification exchange, work queue
// and dead-letter queue.
func EnsureNotificationTopology(c *Client) error {
	if c == nil {
		return nil
	}

	if err := c.EnsureExchange(NotificationsExchange, "direct"); err != nil {
		return err
	}

	if _, err := c.EnsureQueue(NotificationsDLQ, nil); err != nil {
		return err
	}
	if err := c.BindQueue(NotificationsDLQ, NotificationsExchange, NotificationsDeadRK); err != nil {
		return err
	}

	_, err := c.EnsureQueue(NotificationsQueue, amqp.Table{
		"x-dead-letter-exchange":    NotificationsExchange,
		"x-dead-letter-routing-key": NotificationsDeadRK,
	})
	if err != nil {
		return err
	}
	return c.BindQueue(NotificationsQueue, NotificationsExchange, NotificationsRK)
}

// PublishOrderStatusEvent enqueues an order status change for async delivery.
func (c *Client) PublishOrderStatusEvent(ctx context.Context, evt notify.OrderStatusEvent) error {
	return c.PublishJSON(ctx, NotificationsExchange, NotificationsRK, evt)
}

// RunNotificationWorker consumes order status events and dispatches email/SMS
// until the channel closes. Messages failing repeatedly are dead-lettered.
func RunNotificationWorker(c *Client, dispatcher *notify.Dispatcher, log *zap.Logger) error {
	msgs, err := c.ch.Consume(NotificationsQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for msg := range msgs {
		var evt notify.OrderStatusEvent
		if err := json.Unmarshal(msg.Body, &evt); err != nil {
			log.Warn("discarding malformed notification event", zap.Error(err))
			_ = msg.Nack(false, false)
			continue
		}

		// Dispatch swallows provider errors itself, so the message is
		// always acked once decoded.
		dispatcher.NotifyOrderStatus(context.Background(), evt)
		_ = msg.Ack(false)
	}

	return errors.New("notification consumer closed")
}
