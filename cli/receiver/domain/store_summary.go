package domain

import (
	"github.com/daniil11ru/geotracker/cli/receiver/source"
	log "github.com/sirupsen/logrus"
)

// StoreSummary logs the store size once a day, scheduled from main.
type StoreSummary struct {
	Primary source.Primary
}

func (s *StoreSummary) Run() (int, int) {
	records := s.Primary.ReadAll()

	devices := map[string]struct{}{}
	for _, record := range records {
		devices[record.DeviceID] = struct{}{}
	}

	log.Infof("Store summary: %d records across %d devices", len(records), len(devices))
	return len(records), len(devices)
}
