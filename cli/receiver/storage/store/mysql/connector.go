package mysql

/*
Settings that may (not must) appear in the storage config section:

host = "localhost"
port = "3306"
user = "root"
password = "root"
database = "receiver"
table = "location"
record_field = "record_data"
*/

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
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
	connStr := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s",
		c.config["user"], c.config["password"], c.config["host"], c.config["port"], c.config["database"])
	if c.connection, err = sql.Open("mysql", connStr); err != nil {
		return fmt.Errorf("failed to connect to MySQL: %v", err)
	}

	if err = c.connection.Ping(); err != nil {
		return fmt.Errorf("MySQL is unreachable: %v", err)
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
		recordFieldName = "record_data"
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?)", c.config["table"], recordFieldName)
	if _, err = c.connection.Exec(insertQuery, innerRec); err != nil {
		return fmt.Errorf("failed to insert record: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	return c.connection.Close()
}
