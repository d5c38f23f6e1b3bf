package chat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "repnote_chat_requests_total",
		Help: "Chat requests by outcome.",
	}, []string{"outcome"})

	requestSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "repnote_chat_request_seconds",
		Help:    "End-to-end chat request duration.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	agentTurns = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "repnote_chat_turns",
		Help:    "Model turns consumed per chat request.",
		Buckets: prometheus.LinearBuckets(1, 1, 10),
	})
)

const (
	outcomeOK           = "ok"
	outcomeTurnCap      = "turn_cap"
	outcomeBadRequest   = "bad_request"
	outcomeGatewayError = "gateway_error"
)
