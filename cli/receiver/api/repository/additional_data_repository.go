package repository

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	apimodel "github.com/daniil11ru/geotracker/cli/receiver/api/model"
	log "github.com/sirupsen/logrus"
)

type AdditionalDataDefault struct {
	RoutesPath string
	StopsPath  string
}

func NewAdditionalDataDefault(routesPath, stopsPath string) *AdditionalDataDefault {
	return &AdditionalDataDefault{RoutesPath: routesPath, StopsPath: stopsPath}
}

// GetRoutes returns the route definitions document as parsed JSON.
func (r *AdditionalDataDefault) GetRoutes() interface{} {
	empty := []interface{}{}

	data, err := os.ReadFile(r.RoutesPath)
	if err != nil {
		return empty
	}

	var routes interface{}
	if err := json.Unmarshal(data, &routes); err != nil {
		log.Warnf("Routes document %s is not valid JSON: %v", r.RoutesPath, err)
		return empty
	}
	return routes
}

// GetStops converts the stops table to JSON rows. Latitude and
// longitude must parse to numbers or the row is skipped; the
// "approximate" column is parsed from the truthy markers "1", "true"
// and "True".
func (r *AdditionalDataDefault) GetStops() []apimodel.Stop {
	stops := []apimodel.Stop{}

	f, err := os.Open(r.StopsPath)
	if err != nil {
		return stops
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return stops
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warnf("Skipping malformed stop row: %v", err)
			continue
		}

		stop := apimodel.Stop{}
		for i, name := range header {
			if i < len(row) {
				stop[name] = row[i]
			}
		}

		lat, latErr := parseColumnFloat(stop, "lat")
		lon, lonErr := parseColumnFloat(stop, "lon")
		if latErr != nil || lonErr != nil {
			log.Warnf("Skipping stop row with invalid lat/lon: %v", row)
			continue
		}
		stop["lat"] = lat
		stop["lon"] = lon

		approximate, _ := stop["approximate"].(string)
		stop["approximate"] = approximate == "1" || approximate == "true" || approximate == "True"

		stops = append(stops, stop)
	}

	return stops
}

func parseColumnFloat(stop apimodel.Stop, name string) (float64, error) {
	s, _ := stop[name].(string)
	return strconv.ParseFloat(s, 64)
}
