package domain

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/daniil11ru/geotracker/cli/receiver/model"
	"github.com/daniil11ru/geotracker/cli/receiver/source"
	"github.com/daniil11ru/geotracker/libs/owntracks"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrMissingJSON is a body that is absent or not valid JSON.
	ErrMissingJSON = errors.New("missing json")
	// ErrBadCoordinates is a report whose latitude or longitude is
	// absent or not parseable as a finite number.
	ErrBadCoordinates = errors.New("bad lat/lon")
)

// Result classifies a successful ingestion call.
type Result int

const (
	// ResultStored means a record was appended to the store.
	ResultStored Result = iota
	// ResultIgnored means the payload was a status/heartbeat message.
	ResultIgnored
)

// Sink receives a copy of every stored record, typically the
// asynchronous export fan-out.
type Sink interface {
	Save(m interface{ ToBytes() ([]byte, error) }) error
}

var now = time.Now // For mocking time.Now() in tests

// SaveLocation ingests one client payload: normalize, validate,
// stamp the server receipt time, append, publish to the sinks.
type SaveLocation struct {
	Primary source.Primary
	Sink    Sink
}

// Run processes a raw request body. The returned error is one of
// ErrMissingJSON, ErrBadCoordinates or a wrapped store failure; in
// every error case nothing is persisted.
func (s *SaveLocation) Run(body []byte) (Result, error) {
	payload := owntracks.Decode(body)

	switch payload.Kind() {
	case owntracks.KindMalformed:
		return 0, ErrMissingJSON
	case owntracks.KindStatus:
		log.Debug("Ignoring status message")
		return ResultIgnored, nil
	}

	lat, latOK := payload.Latitude()
	lon, lonOK := payload.Longitude()
	if !latOK || !lonOK {
		log.Debugf("Rejecting payload with bad coordinates: %s", payload.Raw())
		return 0, ErrBadCoordinates
	}

	timestampISO, timestampRaw := payload.Timestamp(now)

	record := &model.LocationRecord{
		DeviceID:     payload.DeviceID(),
		Latitude:     strconv.FormatFloat(lat, 'f', -1, 64),
		Longitude:    strconv.FormatFloat(lon, 'f', -1, 64),
		Accuracy:     payload.Accuracy(),
		Provider:     payload.Provider(),
		TimestampISO: timestampISO,
		TimestampRaw: timestampRaw,
		ReceivedAt:   now().UTC().Format(time.RFC3339Nano),
		RawJSON:      string(payload.Raw()),
	}

	if err := s.Primary.Append(record); err != nil {
		return 0, fmt.Errorf("failed to store location: %w", err)
	}

	if s.Sink != nil {
		if err := s.Sink.Save(record); err != nil {
			// Export is best effort, the record is already durable.
			log.Warnf("Failed to publish record to export sinks: %v", err)
		}
	}

	log.Infof("Stored location for %s lat=%s lon=%s", record.DeviceID, record.Latitude, record.Longitude)
	return ResultStored, nil
}
