package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_http_requests_total",
			Help: "Total number of HTTP requests processed by the service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campus_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	messagesSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campus_messages_sent_total",
			Help: "Total number of messages stored.",
		},
	)
	messagesMarkedReadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campus_messages_marked_read_total",
			Help: "Total number of messages flipped to read by conversation views.",
		},
	)
	conversationsDerivedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campus_conversations_derived_total",
			Help: "Total number of conversation list derivations.",
		},
	)
	conversationDeriveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "campus_conversation_derive_duration_seconds",
			Help:    "Conversation derivation latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campus_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		messagesSentTotal,
		messagesMarkedReadTotal,
		conversationsDerivedTotal,
		conversationDeriveDuration,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncMessageSent() {
	messagesSentTotal.Inc()
}

func AddMessagesMarkedRead(count int64) {
	if count > 0 {
		messagesMarkedReadTotal.Add(float64(count))
	}
}

func ObserveConversationDerive(d time.Duration) {
	conversationsDerivedTotal.Inc()
	conversationDeriveDuration.Observe(d.Seconds())
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
