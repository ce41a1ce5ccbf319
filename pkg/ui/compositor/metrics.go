package compositor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRenders = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "yuio",
		Subsystem: "render",
		Name:      "frames_total",
		Help:      "Number of frames sent to the terminal.",
	})
	metricRenderBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "yuio",
		Subsystem: "render",
		Name:      "bytes_total",
		Help:      "Bytes of output produced by the renderer.",
	})
)

func recordRender(bytes int) {
	metricRenders.Inc()
	if bytes > 0 {
		metricRenderBytes.Add(float64(bytes))
	}
}
