package repository

import (
	apimodel "github.com/daniil11ru/geotracker/cli/receiver/api/model"
)

// AdditionalData serves the externally managed route and stop
// documents. Both are best-effort passthroughs: a missing or
// unreadable document is an empty result, never an error.
type AdditionalData interface {
	GetRoutes() interface{}
	GetStops() []apimodel.Stop
}
