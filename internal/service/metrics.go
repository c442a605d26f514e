package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_commands_total",
			Help: "Task store commands dispatched, by command and whether they changed state",
		},
		[]string{"command", "applied"},
	)
	tasksGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "taskboard_tasks",
			Help: "Current number of tasks by state",
		},
		[]string{"state"},
	)
)

func init() {
	prometheus.MustRegister(commandsTotal)
	prometheus.MustRegister(tasksGauge)
}
