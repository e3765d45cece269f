package redis

/*
Settings that may (not must) appear in the storage config section:

host = "localhost"
port = "6379"
password = ""
db = "0"
channel = "locations"
*/

import (
	"context"
	"fmt"
	"strconv"

	redisdb "github.com/go-redis/redis/v8"
)

type Connector struct {
	client *redisdb.Client
	config map[string]string
}

func (c *Connector) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("invalid config reference")
	}
	c.config = cfg

	db := 0
	if c.config["db"] != "" {
		parsed, err := strconv.Atoi(c.config["db"])
		if err != nil {
			return fmt.Errorf("failed to read db: %v", err)
		}
		db = parsed
	}

	c.client = redisdb.NewClient(&redisdb.Options{
		Addr:     fmt.Sprintf("%s:%s", c.config["host"], c.config["port"]),
		Password: c.config["password"],
		DB:       db,
	})

	if err := c.client.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("Redis is unreachable: %v", err)
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

	channel := c.config["channel"]
	if channel == "" {
		channel = "locations"
	}

	if err = c.client.Publish(context.Background(), channel, innerRec).Err(); err != nil {
		return fmt.Errorf("failed to publish record: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	return c.client.Close()
}
