package progress

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yuio",
		Subsystem: "coordinator",
		Name:      "commands_total",
		Help:      "Commands executed by the output coordinator.",
	}, []string{"command"})
	metricFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yuio",
		Subsystem: "coordinator",
		Name:      "failures_total",
		Help:      "Coordinator commands that failed, by error code.",
	}, []string{"code"})
)
