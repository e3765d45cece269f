package repository

import (
	"errors"

	apimodel "github.com/daniil11ru/geotracker/cli/receiver/api/model"
	"github.com/daniil11ru/geotracker/cli/receiver/model"
)

var ErrDeviceNotFound = errors.New("device not found")

// BusinessData answers read-only queries against the location store.
type BusinessData interface {
	// GetRecentLocations returns the last limit records in arrival
	// order across all devices. limit <= 0 means everything.
	GetRecentLocations(limit int) []model.LocationRecord

	// GetAllLocations returns the full history in arrival order.
	GetAllLocations() []model.LocationRecord

	// GetLatestLocations returns the latest record per device,
	// last-write-wins, sorted by device id. limit <= 0 means all
	// devices.
	GetLatestLocations(limit int) []apimodel.Vehicle

	// GetLatestLocationByDevice returns the latest record for one
	// device, or ErrDeviceNotFound.
	GetLatestLocationByDevice(deviceID string) (apimodel.Vehicle, error)

	// GetLatestLocation returns the single most recently appended
	// record regardless of device.
	GetLatestLocation() (model.LocationRecord, bool)
}
