package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	messagesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_producer_messages_published_total",
			Help: "Events written to Kafka.",
		},
		[]string{"topic"},
	)
	publishErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_producer_errors_total",
			Help: "Events that could not be written to Kafka.",
		},
		[]string{"topic"},
	)
)

// Collectors returns the producer metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{messagesPublished, publishErrors}
}
