package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bowling"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	gamesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "games",
			Name:      "created_total",
			Help:      "Total number of games created.",
		},
	)

	gamesFinished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "games",
			Name:      "finished_total",
			Help:      "Total number of games finished and archived.",
		},
	)

	activeGames = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "games",
			Name:      "active",
			Help:      "Current number of games held in memory.",
		},
	)

	rollsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rolls",
			Name:      "recorded_total",
			Help:      "Total number of rolls recorded.",
		},
	)

	scoreRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "score",
			Name:      "requests_total",
			Help:      "Score computations by outcome.",
		},
		[]string{"outcome"},
	)

	finalScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "games",
			Name:      "final_score",
			Help:      "Distribution of final game scores.",
			Buckets:   prometheus.LinearBuckets(0, 30, 11), // 0 to 300
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"method", "path"},
	)
)

func init() {
	Registry.MustRegister(
		gamesCreated,
		gamesFinished,
		activeGames,
		rollsRecorded,
		scoreRequests,
		finalScores,
		httpRequests,
		httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GameCreated records a new game and bumps the active gauge.
func GameCreated() {
	gamesCreated.Inc()
	activeGames.Inc()
}

// GameRemoved drops a game from the active gauge.
func GameRemoved() {
	activeGames.Dec()
}

// GameFinished records an archived game and its final score.
func GameFinished(score int) {
	gamesFinished.Inc()
	finalScores.Observe(float64(score))
}

func RollRecorded() {
	rollsRecorded.Inc()
}

// ScoreComputed records whether a score request resolved every frame.
func ScoreComputed(complete bool) {
	outcome := "complete"
	if !complete {
		outcome = "incomplete"
	}
	scoreRequests.WithLabelValues(outcome).Inc()
}

// ObserveHTTP records a handled request. path should be a route pattern, not a raw URL.
func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
