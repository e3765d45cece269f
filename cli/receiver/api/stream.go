package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/daniil11ru/geotracker/cli/receiver/types"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// StreamLocations is the change-notification stream: a long-lived SSE
// connection that re-runs the latest-per-device reduction on every
// poll interval and emits one event with the full list of devices
// whose coordinates changed since the last poll. Intervals with no
// change emit nothing. Every connection keeps its own lastSent state.
func (h *Handler) StreamLocations(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.StreamPollInterval)
	defer ticker.Stop()

	lastSent := map[string]types.Position2D{}
	ctx := c.Request.Context()

	for {
		changed := h.collectChanged(lastSent)
		if len(changed) > 0 {
			payload, err := json.Marshal(changed)
			if err != nil {
				log.WithField("err", err).Error("Failed to encode stream event")
			} else {
				if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", payload); err != nil {
					return
				}
				c.Writer.Flush()
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *Handler) collectChanged(lastSent map[string]types.Position2D) []interface{} {
	var changed []interface{}

	for _, vehicle := range h.BusinessData.GetLatestLocations(0) {
		position := types.Position2D{Latitude: vehicle.Latitude, Longitude: vehicle.Longitude}
		last, seen := lastSent[vehicle.DeviceID]
		if seen && last.EqualsTo(position) {
			continue
		}
		lastSent[vehicle.DeviceID] = position
		changed = append(changed, vehicle)
	}

	return changed
}
