// Package notify publishes order events to RabbitMQ for downstream
// consumers (kitchen printers, analytics). Publishing is best effort: a
// broker failure is logged and never fails the originating request.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gopizza-pos/api/internal/order"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchange         = "orders_topic"
	keyOrderCreated  = "order.created"
	keyStatusChanged = "order.status_changed"
	publishTimeout   = 5 * time.Second
)

// Publisher wraps an AMQP connection. A nil *Publisher is valid and
// publishes nothing (event publishing disabled).
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to the broker and declares the orders exchange.
func Dial(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch}, nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

type orderCreatedMessage struct {
	OrderID     string `json:"order_id"`
	Pizza       string `json:"pizza"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	Amount      string `json:"amount"`
	TableNumber string `json:"table_number"`
	Status      string `json:"status"`
	WaiterID    string `json:"waiter_id"`
}

type statusChangedMessage struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// OrderCreated publishes an order.created event.
func (p *Publisher) OrderCreated(ctx context.Context, o order.Order) {
	p.publish(ctx, keyOrderCreated, orderCreatedMessage{
		OrderID:     o.ID.String(),
		Pizza:       o.Pizza,
		Size:        string(o.Size),
		Quantity:    o.Quantity,
		Amount:      o.Amount.StringFixed(2),
		TableNumber: o.TableNumber,
		Status:      o.Status,
		WaiterID:    o.WaiterID.String(),
	})
}

// StatusChanged publishes an order.status_changed event.
func (p *Publisher) StatusChanged(ctx context.Context, o order.Order) {
	p.publish(ctx, keyStatusChanged, statusChangedMessage{
		OrderID: o.ID.String(),
		Status:  o.Status,
	})
}

func (p *Publisher) publish(ctx context.Context, key string, v any) {
	if p == nil {
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("ERROR: marshal %s event: %v", key, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		log.Printf("ERROR: publish %s event: %v", key, err)
	}
}
