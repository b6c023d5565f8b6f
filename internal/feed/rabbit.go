package feed

import (
	"stall-system/internal/common/logger"
	"stall-system/internal/connections/rabbitmq"
)

// RabbitFeed subscribes to the notifier's fanout exchange. Observers that
// cannot hold a database connection get the same signal contract over AMQP.
type RabbitFeed struct {
	*Hub
	client *rabbitmq.Client
}

func NewRabbitFeed(client *rabbitmq.Client, consumer string, lg *logger.Logger) (*RabbitFeed, error) {
	deliveries, err := client.ConsumeChanges(consumer)
	if err != nil {
		return nil, err
	}
	f := &RabbitFeed{Hub: NewHub(), client: client}
	go func() {
		for range deliveries {
			f.Notify()
		}
		lg.Info("change_feed_closed", nil)
	}()
	return f, nil
}

func (f *RabbitFeed) Close() {
	f.client.Close() // ends the delivery stream; the exclusive queue dies with it
	f.Hub.Close()
}
