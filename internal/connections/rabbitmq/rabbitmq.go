package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"stall-system/internal/config"
)

// ChangeExchange is the fanout exchange carrying payload-free
// "order log changed" signals from the notifier to remote observers.
const ChangeExchange = "orders.changed"

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	acks <-chan amqp.Confirmation
	mu   sync.Mutex // serializes Publish while waiting for confirms
}

func Dial(cfg config.RabbitMQ) (*Client, error) {
	vhost := cfg.VHost
	if vhost == "" {
		vhost = "/"
	}
	url := fmt.Sprintf("amqp://%s:%s@%s:%d/%s", cfg.User, cfg.Password, cfg.Host, cfg.Port, vhost)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &Client{conn: conn, ch: ch, acks: acks}, nil
}

func (c *Client) Channel() *amqp.Channel { return c.ch }

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Client) Ping() error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// DeclareChangeExchange declares the fanout exchange. Idempotent.
func (c *Client) DeclareChangeExchange() error {
	return c.ch.ExchangeDeclare(ChangeExchange, "fanout", true, false, false, false, nil)
}

// PublishChange publishes a change signal to the fanout exchange and waits
// for the broker's ack so a lost signal surfaces as an error.
func (c *Client) PublishChange(ctx context.Context, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ch.PublishWithContext(ctx, ChangeExchange, "", false, false, amqp.Publishing{
		DeliveryMode: amqp.Transient, // signals are cues to refetch, not data
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}); err != nil {
		return err
	}

	select {
	case conf := <-c.acks:
		if conf.Ack {
			return nil
		}
		return errors.New("publish NACK from broker")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ConsumeChanges binds a fresh exclusive queue to the fanout exchange and
// returns its delivery stream. The queue dies with the connection, so a
// stopped observer leaves nothing behind.
func (c *Client) ConsumeChanges(consumer string) (<-chan amqp.Delivery, error) {
	if err := c.DeclareChangeExchange(); err != nil {
		return nil, err
	}
	q, err := c.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, err
	}
	if err := c.ch.QueueBind(q.Name, "", ChangeExchange, false, nil); err != nil {
		return nil, err
	}
	return c.ch.Consume(q.Name, consumer, true, true, false, false, nil)
}
