package source

import (
	"github.com/daniil11ru/geotracker/cli/receiver/model"
)

// Primary is the append-only location store. Records are stored in
// arrival order; that order is the only ordering guarantee.
type Primary interface {
	// Append adds one record to the end of the store. All-or-nothing
	// per record.
	Append(record *model.LocationRecord) error

	// ReadAll scans the full history in arrival order. A missing or
	// corrupt store yields an empty slice, never an error: a cold
	// start is normal, not exceptional.
	ReadAll() []model.LocationRecord

	// Last returns the most recently appended record, if any.
	Last() (model.LocationRecord, bool)
}
