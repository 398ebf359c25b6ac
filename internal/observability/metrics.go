package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	usersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "users",
		Name:      "created_total",
		Help:      "Number of users registered.",
	})
	exercisesLogged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "exercises",
		Name:      "logged_total",
		Help:      "Number of exercise entries appended.",
	})
	eventPublishFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Domain events that could not be published.",
	}, []string{"type"})
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern and status code.",
	}, []string{"method", "route", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "exercise_tracker",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(usersCreated, exercisesLogged, eventPublishFailures, httpRequests, httpDuration)
}

// RecordUserCreated counts a successful registration.
func RecordUserCreated() { usersCreated.Inc() }

// RecordExerciseLogged counts a successful append.
func RecordExerciseLogged() { exercisesLogged.Inc() }

// RecordPublishFailure counts an event that was dropped.
func RecordPublishFailure(eventType string) {
	eventPublishFailures.WithLabelValues(eventType).Inc()
}

// RecordHTTPRequest observes one served request. route is the matched mux
// pattern so ids in the path do not explode label cardinality.
func RecordHTTPRequest(method, route string, status int, dur time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(dur.Seconds())
}
