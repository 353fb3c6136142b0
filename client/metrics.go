package client

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dineguide_client",
			Name:      "requests_total",
			Help:      "SDK calls by operation and response status; code 0 means no response.",
		},
		[]string{"op", "code"},
	)
)

func observe(op string, status int) {
	requestsTotal.WithLabelValues(op, strconv.Itoa(status)).Inc()
}
