package postgresql

/*
Settings that may (not must) appear in the storage config section:

host = "localhost"
port = "5432"
user = "postgres"
password = "postgres"
database = "receiver"
table = "location"
sslmode = "disable"
record_field = "record_data"
*/

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

type Connector struct {
	connection *sql.DB
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
	connStr := fmt.Sprintf("dbname=%s host=%s port=%s user=%s password=%s sslmode=%s",
		c.config["database"], c.config["host"], c.config["port"], c.config["user"], c.config["password"], c.config["sslmode"])
	if c.connection, err = sql.Open("postgres", connStr); err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %v", err)
	}

	if err = c.connection.Ping(); err != nil {
		return fmt.Errorf("PostgreSQL is unreachable: %v", err)
	}
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

	recordFieldName := c.config["record_field"]
	if recordFieldName == "" {
		log.Warnf("Key 'record_field' is missing from the storage config. Falling back to 'record_data'.")
		recordFieldName = "record_data"
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1)", c.config["table"], recordFieldName)
	if _, err = c.connection.Exec(insertQuery, innerRec); err != nil {
		return fmt.Errorf("failed to insert record: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	return c.connection.Close()
}
