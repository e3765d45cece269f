package storage

import (
	"errors"

	"github.com/daniil11ru/geotracker/cli/receiver/storage/store/mysql"
	"github.com/daniil11ru/geotracker/cli/receiver/storage/store/nats"
	"github.com/daniil11ru/geotracker/cli/receiver/storage/store/postgresql"
	"github.com/daniil11ru/geotracker/cli/receiver/storage/store/rabbitmq"
	"github.com/daniil11ru/geotracker/cli/receiver/storage/store/redis"
	"github.com/daniil11ru/geotracker/cli/receiver/storage/store/tarantool_queue"
)

var ErrInvalidStorage = errors.New("storage not found")
var ErrUnknownStorage = errors.New("storage isn't supported yet")

type Store interface {
	Connector
	Saver
}

// Saver is an export sink for stored location records.
type Saver interface {
	// Save publishes one record to the sink.
	Save(interface{ ToBytes() ([]byte, error) }) error
}

// Connector is the lifecycle of an external sink.
type Connector interface {
	// Init opens the connection with the sink-specific settings.
	Init(map[string]string) error

	// Close shuts the connection down.
	Close() error
}

// Repository fans every record out to all configured sinks.
type Repository struct {
	storages []Saver
}

// AddStore registers one sink.
func (r *Repository) AddStore(s Saver) {
	r.storages = append(r.storages, s)
}

// Save publishes the record to every sink, stopping at the first
// failure.
func (r *Repository) Save(m interface{ ToBytes() ([]byte, error) }) error {
	for _, store := range r.storages {
		if err := store.Save(m); err != nil {
			return err
		}
	}
	return nil
}

// LoadStorages builds the sinks named in the config section.
func (r *Repository) LoadStorages(storages map[string]map[string]string) error {
	if len(storages) == 0 {
		return ErrInvalidStorage
	}

	var db Store
	for store, params := range storages {
		switch store {
		case "rabbitmq":
			db = &rabbitmq.Connector{}
		case "postgresql":
			db = &postgresql.Connector{}
		case "nats":
			db = &nats.Connector{}
		case "tarantool_queue":
			db = &tarantool_queue.Connector{}
		case "redis":
			db = &redis.Connector{}
		case "mysql":
			db = &mysql.Connector{}
		default:
			return ErrUnknownStorage
		}

		if err := db.Init(params); err != nil {
			return err
		}

		r.AddStore(db)
	}
	return nil
}

// NewRepository creates an empty fan-out.
func NewRepository() *Repository {
	return &Repository{}
}
