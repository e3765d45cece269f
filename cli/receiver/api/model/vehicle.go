package model

// Vehicle is the latest known position of one device. Coordinates are
// coerced back to numbers; nil means the stored values could not be
// parsed and the position is unknown.
type Vehicle struct {
	DeviceID     string   `json:"device_id"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Accuracy     string   `json:"accuracy"`
	Provider     string   `json:"provider"`
	TimestampISO string   `json:"timestamp_iso"`
	TimestampRaw string   `json:"timestamp_raw"`
	ReceivedAt   string   `json:"received_at"`
	RawJSON      string   `json:"raw_json"`
}
