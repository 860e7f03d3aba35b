package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/poolkaro/poolkaro-backend/room"
)

var (
	joinsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_joins_total",
			Help: "Total number of successful ride joins",
		},
		[]string{"mode"},
	)

	ridesCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_rides_created_total",
			Help: "Total number of rides formed",
		},
		[]string{"mode"},
	)

	ridesFullTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_rides_full_total",
			Help: "Total number of rides that reached capacity",
		},
		[]string{"mode"},
	)

	roomSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_room_sessions",
			Help: "Currently connected chat sessions across all rooms",
		},
	)
)

func registerRideMetrics(reg *prometheus.Registry, rooms *room.Broadcaster) {
	reg.MustRegister(joinsTotal, ridesCreatedTotal, ridesFullTotal, roomSessions)
	reg.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "pool_room_dropped_events_total",
			Help: "Total chat events dropped because a subscriber lagged",
		},
		func() float64 { return float64(rooms.DroppedEvents()) },
	))
}
