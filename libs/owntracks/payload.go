package owntracks

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Kind classifies a decoded payload.
type Kind int

const (
	// KindMalformed is a body that is not valid JSON.
	KindMalformed Kind = iota
	// KindStatus is a status/heartbeat message, not a position report.
	KindStatus
	// KindReport is a position report candidate.
	KindReport
)

// Fallback chains for every logical field, first non-null wins.
var (
	deviceIDFields  = []string{"device_id", "tid", "topic"}
	latitudeFields  = []string{"lat", "latitude"}
	longitudeFields = []string{"lon", "longitude"}
	accuracyFields  = []string{"accuracy", "acc"}
	providerFields  = []string{"provider", "t", "source"}
)

// Payload is a decoded client body. Decoding never fails: a body that
// is not valid JSON is classified KindMalformed, a valid JSON value
// that is not an object yields a report with no extractable fields.
type Payload struct {
	kind   Kind
	fields map[string]interface{}
	raw    []byte
}

// Decode parses an arbitrary client body.
func Decode(body []byte) Payload {
	p := Payload{raw: body, fields: map[string]interface{}{}}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		p.kind = KindMalformed
		return p
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		p.kind = KindReport
		return p
	}
	p.fields = obj

	if t, ok := obj["_type"].(string); ok && t == "status" {
		p.kind = KindStatus
		return p
	}

	p.kind = KindReport
	return p
}

// Kind returns the payload classification.
func (p Payload) Kind() Kind {
	return p.kind
}

// Raw returns the original body verbatim.
func (p Payload) Raw() []byte {
	return p.raw
}

// DeviceID resolves the device identifier, falling back to "unknown".
func (p Payload) DeviceID() string {
	if s, ok := p.firstString(deviceIDFields); ok {
		return s
	}
	return "unknown"
}

// Latitude resolves the latitude; ok is false when the field is
// missing or does not parse to a finite number.
func (p Payload) Latitude() (float64, bool) {
	return p.firstNumber(latitudeFields)
}

// Longitude resolves the longitude, same contract as Latitude.
func (p Payload) Longitude() (float64, bool) {
	return p.firstNumber(longitudeFields)
}

// Accuracy resolves the accuracy tag. Informational, no validation.
func (p Payload) Accuracy() string {
	if s, ok := p.firstString(accuracyFields); ok {
		return s
	}
	return ""
}

// Provider resolves the source/technology tag.
func (p Payload) Provider() string {
	if s, ok := p.firstString(providerFields); ok {
		return s
	}
	return ""
}

// Timestamp resolves the event time: a string "timestamp" field is
// used verbatim, a numeric "tst" Unix timestamp is converted to
// ISO-8601 UTC, otherwise now() is used and raw is empty.
func (p Payload) Timestamp(now func() time.Time) (iso string, raw string) {
	if s, ok := p.fields["timestamp"].(string); ok {
		return s, s
	}

	if tst, ok := p.fields["tst"].(float64); ok {
		sec := int64(tst)
		nsec := int64((tst - float64(sec)) * float64(time.Second))
		iso = time.Unix(sec, nsec).UTC().Format(time.RFC3339)
		return iso, strconv.FormatFloat(tst, 'f', -1, 64)
	}

	return now().UTC().Format(time.RFC3339Nano), ""
}

func (p Payload) firstString(keys []string) (string, bool) {
	for _, key := range keys {
		switch v := p.fields[key].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		}
	}
	return "", false
}

func (p Payload) firstNumber(keys []string) (float64, bool) {
	for _, key := range keys {
		switch v := p.fields[key].(type) {
		case float64:
			return v, true
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return 0, false
			}
			return f, true
		}
	}
	return 0, false
}
