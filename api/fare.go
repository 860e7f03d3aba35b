package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/poolkaro/poolkaro-backend/fare"
	"github.com/poolkaro/poolkaro-backend/internal/middleware"
)

type pricesRequest struct {
	Destination string `json:"destination"`
}

type pricesResponse struct {
	Destination string        `json:"destination"`
	Options     []fare.Option `json:"options"`
}

func (a *API) pricesHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req pricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": "MISSING_DESTINATION", "message": "Destination is required"})
		return
	}

	prices := a.feed.Prices(c.Request.Context())
	logger.Info("serving fare options", "destination", destination)

	c.JSON(http.StatusOK, pricesResponse{
		Destination: destination,
		Options:     fare.Estimate(prices),
	})
}
