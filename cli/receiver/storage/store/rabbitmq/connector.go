package rabbitmq

/*
Settings that must appear in the storage config section:

host = "localhost"
port = "5672"
user = "guest"
password = "guest"
exchange = "locations"
routing_key = "location.stored"
*/

import (
	"fmt"

	"github.com/streadway/amqp"
)

type Connector struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	config     map[string]string
}

func (c *Connector) Init(cfg map[string]string) error {
	var (
		err error
	)
	if cfg == nil {
		return fmt.Errorf("invalid config reference")
	}
	c.config = cfg

	connStr := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.config["user"], c.config["password"], c.config["host"], c.config["port"])
	if c.connection, err = amqp.Dial(connStr); err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}

	if c.channel, err = c.connection.Channel(); err != nil {
		return fmt.Errorf("failed to open a channel: %v", err)
	}

	err = c.channel.ExchangeDeclare(
		c.config["exchange"],
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %v", err)
	}
	return nil
}

func (c *Connector) Save(msg interface{ ToBytes() ([]byte, error) }) error {
	if msg == nil {
		return fmt.Errorf("invalid record reference")
	}

	innerRec, err := msg.ToBytes()
	if err != nil {
		return fmt.Errorf("failed to serialize record: %v", err)
	}

	err = c.channel.Publish(
		c.config["exchange"],
		c.config["routing_key"],
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        innerRec,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish record: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	if err := c.channel.Close(); err != nil {
		return err
	}
	return c.connection.Close()
}
