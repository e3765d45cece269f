package source

import (
	"github.com/daniil11ru/geotracker/cli/receiver/source/csvlog"
)

// NewDefaultPrimary opens the default CSV-backed store.
func NewDefaultPrimary(path string) (Primary, error) {
	return csvlog.New(path)
}
