package tarantool_queue

/*
Plugin for the Tarantool queue sink.

Settings that must appear in the storage config section:

host = "localhost"
port = "3301"
user = "user"
password = "pass"
max_recons = 5
timeout = 1
reconnect = 1
queue = "locations"
*/

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tarantool/go-tarantool"
	"github.com/tarantool/go-tarantool/queue"
)

type Connector struct {
	connection *tarantool.Connection
	queue      queue.Queue
	config     map[string]string
}

func (c *Connector) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("invalid config reference")
	}

	c.config = cfg
	conStr := fmt.Sprintf("%s:%s", c.config["host"], c.config["port"])

	maxRecons, err := strconv.Atoi(c.config["max_recons"])
	if err != nil {
		return fmt.Errorf("failed to read max_recons: %v", err)
	}
	timeout, err := strconv.Atoi(c.config["timeout"])
	if err != nil {
		return fmt.Errorf("failed to read timeout: %v", err)
	}
	reconnect, err := strconv.Atoi(c.config["reconnect"])
	if err != nil {
		return fmt.Errorf("failed to read reconnect: %v", err)
	}
	opts := tarantool.Opts{
		Timeout:       time.Duration(timeout) * time.Second,
		Reconnect:     time.Duration(reconnect) * time.Second,
		MaxReconnects: uint(maxRecons),
		User:          c.config["user"],
		Pass:          c.config["password"],
	}

	c.connection, err = tarantool.Connect(conStr, opts)
	if err != nil {
		return fmt.Errorf("failed to connect to Tarantool: %v", err)
	}
	c.queue = queue.New(c.connection, c.config["queue"])

	return err
}

func (c *Connector) Save(msg interface{ ToBytes() ([]byte, error) }) error {
	if msg == nil {
		return fmt.Errorf("invalid record reference")
	}

	innerRec, err := msg.ToBytes()
	if err != nil {
		return fmt.Errorf("failed to serialize record: %v", err)
	}

	_, err = c.queue.Put(innerRec)
	if err != nil {
		return fmt.Errorf("failed to enqueue record: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	return c.connection.Close()
}
