package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/daniil11ru/geotracker/cli/receiver/api/repository"
	"github.com/daniil11ru/geotracker/cli/receiver/domain"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// DefaultRecentLimit caps /locations/recent when the client does not
// ask for a specific window.
const DefaultRecentLimit = 100

type Handler struct {
	SaveLocation   *domain.SaveLocation
	BusinessData   repository.BusinessData
	AdditionalData repository.AdditionalData

	// StreamPollInterval is how often every stream connection re-runs
	// the latest-per-device reduction.
	StreamPollInterval time.Duration
}

func NewHandler(saveLocation *domain.SaveLocation, businessData repository.BusinessData, additionalData repository.AdditionalData, streamPollInterval time.Duration) *Handler {
	if streamPollInterval <= 0 {
		streamPollInterval = time.Second
	}
	return &Handler{
		SaveLocation:       saveLocation,
		BusinessData:       businessData,
		AdditionalData:     additionalData,
		StreamPollInterval: streamPollInterval,
	}
}

func (h *Handler) PostLocation(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing json"})
		return
	}

	result, err := h.SaveLocation.Run(body)
	switch {
	case errors.Is(err, domain.ErrMissingJSON):
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing json"})
	case errors.Is(err, domain.ErrBadCoordinates):
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad lat/lon"})
	case err != nil:
		log.WithField("err", err).Error("Failed to store location")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
	case result == domain.ResultIgnored:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	default:
		c.JSON(http.StatusCreated, gin.H{"status": "ok"})
	}
}

func (h *Handler) GetRecentLocations(c *gin.Context) {
	limit := DefaultRecentLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil {
			limit = v
		}
	}

	c.JSON(http.StatusOK, h.BusinessData.GetRecentLocations(limit))
}

func (h *Handler) GetVehicles(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil {
			limit = v
		}
	}

	c.JSON(http.StatusOK, h.BusinessData.GetLatestLocations(limit))
}

func (h *Handler) GetVehicle(c *gin.Context) {
	vehicle, err := h.BusinessData.GetLatestLocationByDevice(c.Param("device_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func (h *Handler) GetRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, h.AdditionalData.GetRoutes())
}

func (h *Handler) GetStops(c *gin.Context) {
	c.JSON(http.StatusOK, h.AdditionalData.GetStops())
}

func (h *Handler) GetAllLocations(c *gin.Context) {
	c.JSON(http.StatusOK, h.BusinessData.GetAllLocations())
}

func (h *Handler) GetLatestLocation(c *gin.Context) {
	record, ok := h.BusinessData.GetLatestLocation()
	if !ok {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusOK, record)
}
