package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/poolkaro/poolkaro-backend/internal/middleware"
	"github.com/poolkaro/poolkaro-backend/ride"
)

type joinRequest struct {
	Destination string `json:"destination"`
	Mode        string `json:"mode"`
	Username    string `json:"username"`
}

type rideResponse struct {
	RideID       int64    `json:"rideId"`
	RoomKey      string   `json:"roomKey"`
	Destination  string   `json:"destination"`
	Mode         string   `json:"mode"`
	Username     string   `json:"username,omitempty"`
	Participants []string `json:"participants"`
	MaxSeats     int      `json:"maxSeats"`
	Status       string   `json:"status"`
	ChatEnabled  bool     `json:"chatEnabled"`
}

func (a *API) joinHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	if strings.TrimSpace(req.Destination) == "" || strings.TrimSpace(req.Mode) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Destination and mode are required"})
		return
	}

	res, err := a.dir.JoinOrCreate(c.Request.Context(), req.Destination, req.Mode, req.Username)
	if err != nil {
		if errors.Is(err, ride.ErrNoDestination) {
			c.JSON(http.StatusBadRequest, gin.H{"code": "MISSING_DESTINATION", "message": "Destination is required"})
			return
		}
		logger.ErrorContext(c, "failed to join ride", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	joinsTotal.WithLabelValues(res.Mode).Inc()
	if res.Created {
		ridesCreatedTotal.WithLabelValues(res.Mode).Inc()
	}
	if res.Status == ride.StatusFull {
		ridesFullTotal.WithLabelValues(res.Mode).Inc()
	}
	logger.Info("rider joined",
		"rideId", res.RideID,
		"destination", res.Destination,
		"mode", res.Mode,
		"seats", len(res.Participants),
		"status", string(res.Status),
	)

	c.JSON(http.StatusOK, rideResponse{
		RideID:       res.RideID,
		RoomKey:      res.RoomKey,
		Destination:  res.Destination,
		Mode:         res.Mode,
		Username:     res.Username,
		Participants: res.Participants,
		MaxSeats:     res.Capacity,
		Status:       string(res.Status),
		ChatEnabled:  ride.ChatEnabled(res.Mode),
	})
}

func (a *API) getRideHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid ride id"})
		return
	}

	r, err := a.dir.Ride(c.Request.Context(), id)
	if errors.Is(err, ride.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"code": "RIDE_NOT_FOUND", "message": "Ride not found"})
		return
	}
	if err != nil {
		logger.ErrorContext(c, "failed to get ride", "rideId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	roster, err := a.dir.Roster(c.Request.Context(), id)
	if err != nil {
		logger.ErrorContext(c, "failed to get roster", "rideId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, rideResponse{
		RideID:       r.ID,
		RoomKey:      ride.RoomKey(r.ID),
		Destination:  r.Destination,
		Mode:         r.Mode,
		Participants: roster,
		MaxSeats:     r.Capacity,
		Status:       string(r.Status),
		ChatEnabled:  ride.ChatEnabled(r.Mode),
	})
}
