package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poolkaro/poolkaro-backend/internal/middleware"
	"github.com/poolkaro/poolkaro-backend/internal/o11y"
	"github.com/poolkaro/poolkaro-backend/pricefeed"
	"github.com/poolkaro/poolkaro-backend/ride"
	"github.com/poolkaro/poolkaro-backend/room"
)

type API struct {
	r     *gin.Engine
	dir   *ride.Directory
	rooms *room.Broadcaster
	feed  pricefeed.Source
	obs   *o11y.Observability
}

func New(dir *ride.Directory, rooms *room.Broadcaster, feed pricefeed.Source, obs *o11y.Observability, metricsUsername, metricsPassword string) *API {
	a := &API{
		r:     gin.New(),
		dir:   dir,
		rooms: rooms,
		feed:  feed,
		obs:   obs,
	}

	registerRideMetrics(obs.Registry, rooms)

	a.r.Use(gin.Recovery())
	a.r.Use(middleware.Tracing())
	a.r.Use(middleware.Logging(obs.Logger))
	a.r.Use(middleware.Metrics(obs.Registry))

	a.r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	a.r.POST("/prices", a.pricesHandler)
	a.r.POST("/join", a.joinHandler)
	a.r.GET("/rides/:id", a.getRideHandler)
	a.r.GET("/ws", a.wsHandler)

	metrics := a.r.Group("/")
	if metricsUsername != "" {
		metrics.Use(gin.BasicAuth(gin.Accounts{metricsUsername: metricsPassword}))
	}
	metrics.GET("/metrics", gin.WrapH(promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{})))

	return a
}

func (a *API) Router() *gin.Engine {
	return a.r
}
