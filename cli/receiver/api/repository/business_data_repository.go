package repository

import (
	"sort"
	"strconv"

	apimodel "github.com/daniil11ru/geotracker/cli/receiver/api/model"
	"github.com/daniil11ru/geotracker/cli/receiver/model"
	"github.com/daniil11ru/geotracker/cli/receiver/source"
)

type BusinessDataDefault struct {
	Source source.Primary
}

func NewBusinessDataDefault(source source.Primary) *BusinessDataDefault {
	return &BusinessDataDefault{Source: source}
}

func (r *BusinessDataDefault) GetRecentLocations(limit int) []model.LocationRecord {
	records := r.Source.ReadAll()
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	if records == nil {
		records = []model.LocationRecord{}
	}
	return records
}

func (r *BusinessDataDefault) GetAllLocations() []model.LocationRecord {
	records := r.Source.ReadAll()
	if records == nil {
		records = []model.LocationRecord{}
	}
	return records
}

func (r *BusinessDataDefault) GetLatestLocations(limit int) []apimodel.Vehicle {
	vehicles := r.reduceLatest()
	if limit > 0 && len(vehicles) > limit {
		vehicles = vehicles[:limit]
	}
	return vehicles
}

func (r *BusinessDataDefault) GetLatestLocationByDevice(deviceID string) (apimodel.Vehicle, error) {
	for _, v := range r.reduceLatest() {
		if v.DeviceID == deviceID {
			return v, nil
		}
	}
	return apimodel.Vehicle{}, ErrDeviceNotFound
}

func (r *BusinessDataDefault) GetLatestLocation() (model.LocationRecord, bool) {
	return r.Source.Last()
}

// reduceLatest derives the current position of every device with a
// single forward pass over the full history: the last record in
// arrival order wins, regardless of the embedded client timestamps.
func (r *BusinessDataDefault) reduceLatest() []apimodel.Vehicle {
	latest := map[string]model.LocationRecord{}
	for _, record := range r.Source.ReadAll() {
		deviceID := record.DeviceID
		if deviceID == "" {
			deviceID = "unknown"
		}
		latest[deviceID] = record
	}

	ids := make([]string, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	// Map iteration order is unstable; sort for deterministic responses.
	sort.Strings(ids)

	vehicles := make([]apimodel.Vehicle, 0, len(ids))
	for _, id := range ids {
		vehicles = append(vehicles, toVehicle(id, latest[id]))
	}
	return vehicles
}

func toVehicle(deviceID string, record model.LocationRecord) apimodel.Vehicle {
	v := apimodel.Vehicle{
		DeviceID:     deviceID,
		Accuracy:     record.Accuracy,
		Provider:     record.Provider,
		TimestampISO: record.TimestampISO,
		TimestampRaw: record.TimestampRaw,
		ReceivedAt:   record.ReceivedAt,
		RawJSON:      record.RawJSON,
	}

	lat, latErr := strconv.ParseFloat(record.Latitude, 64)
	lon, lonErr := strconv.ParseFloat(record.Longitude, 64)
	if latErr == nil && lonErr == nil {
		v.Latitude = &lat
		v.Longitude = &lon
	}
	// Unparseable coordinates stay nil: unknown position, the device
	// itself is still reported.

	return v
}
