package nats

/*
Settings that may (not must) appear in the storage config section:

address = "nats://localhost:4222"
host = "localhost"
port = "4222"
topic = "locations"

When address is set it wins over host/port.
*/

import (
	"fmt"

	natsio "github.com/nats-io/nats.go"
)

type Connector struct {
	connection *natsio.Conn
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

	address := c.config["address"]
	if address == "" {
		address = fmt.Sprintf("nats://%s:%s", c.config["host"], c.config["port"])
	}

	if c.connection, err = natsio.Connect(address); err != nil {
		return fmt.Errorf("failed to connect to NATS: %v", err)
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

	topic := c.config["topic"]
	if topic == "" {
		topic = "locations"
	}

	if err = c.connection.Publish(topic, innerRec); err != nil {
		return fmt.Errorf("failed to publish record: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	c.connection.Close()
	return nil
}
