package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nliven/airsync/internal/logger"
	"github.com/nliven/airsync/internal/repository"
)

// AirportController serves the persisted airport collection. It reads
// whatever the most recent successful sync left in the store; it never
// touches the remote source.
type AirportController struct {
	store repository.Reader
}

func NewAirportController(store repository.Reader) *AirportController {
	return &AirportController{store: store}
}

// ListAirports handles GET /airports - returns the current collection.
func (ac *AirportController) ListAirports(c *gin.Context) {
	logger.WithComponent("airport-controller").Debugf("GET /airports handler called")

	airports, err := ac.store.All(c.Request.Context())
	if err != nil {
		logger.WithComponent("airport-controller").Errorf("list airports: store error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read airport collection"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(airports),
		"airports": airports,
	})
}

// GetAirport handles GET /airport/:code - looks up one record by code.
func (ac *AirportController) GetAirport(c *gin.Context) {
	code := c.Param("code")
	logger.WithComponent("airport-controller").Debugf("GET /airport/%s handler called", code)

	a, err := ac.store.Get(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "airport not found"})
			return
		}
		logger.WithComponent("airport-controller").Errorf("get airport %s: store error: %v", code, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read airport"})
		return
	}

	c.JSON(http.StatusOK, a)
}
