package ws

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	wsClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "taskboard_ws_clients",
		Help: "Connected websocket clients",
	})
	wsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "taskboard_ws_dropped_total",
		Help: "Websocket clients dropped because their send buffer was full",
	})
)

func init() {
	prometheus.MustRegister(wsClients)
	prometheus.MustRegister(wsDropped)
}
