package model

import (
	"encoding/json"
)

// Columns is the fixed schema of the append-only location store, in
// storage order.
var Columns = []string{
	"device_id", "latitude", "longitude", "accuracy",
	"provider", "timestamp_iso", "timestamp_raw",
	"received_at", "raw_json",
}

// LocationRecord is one ingested location report. Records are
// immutable once appended; every field is stored as text, coordinates
// are coerced back to numbers when the latest positions are served.
type LocationRecord struct {
	DeviceID     string `json:"device_id"`
	Latitude     string `json:"latitude"`
	Longitude    string `json:"longitude"`
	Accuracy     string `json:"accuracy"`
	Provider     string `json:"provider"`
	TimestampISO string `json:"timestamp_iso"`
	TimestampRaw string `json:"timestamp_raw"`
	ReceivedAt   string `json:"received_at"`
	RawJSON      string `json:"raw_json"`
}

// Row returns the record as a store row, aligned with Columns.
func (r *LocationRecord) Row() []string {
	return []string{
		r.DeviceID, r.Latitude, r.Longitude, r.Accuracy,
		r.Provider, r.TimestampISO, r.TimestampRaw,
		r.ReceivedAt, r.RawJSON,
	}
}

// FromRow rebuilds a record from a store row. The row must be aligned
// with Columns.
func FromRow(row []string) (LocationRecord, bool) {
	if len(row) != len(Columns) {
		return LocationRecord{}, false
	}
	return LocationRecord{
		DeviceID:     row[0],
		Latitude:     row[1],
		Longitude:    row[2],
		Accuracy:     row[3],
		Provider:     row[4],
		TimestampISO: row[5],
		TimestampRaw: row[6],
		ReceivedAt:   row[7],
		RawJSON:      row[8],
	}, true
}

func (r *LocationRecord) ToBytes() ([]byte, error) {
	return json.Marshal(r)
}
