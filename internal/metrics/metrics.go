package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CycleRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wicketwire_cycle_runs_total",
		Help: "Total decision cycle runs",
	})
	CycleErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wicketwire_cycle_errors_total",
		Help: "Total decision cycle errors",
	})
	CycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wicketwire_cycle_duration_seconds",
		Help:    "Decision cycle duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	PostsPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wicketwire_posts_published_total",
		Help: "Total posts published",
	})
	DuplicatesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wicketwire_duplicates_skipped_total",
		Help: "Total posts skipped as near-duplicates",
	})
	FeedbackUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wicketwire_feedback_updates_total",
		Help: "Total posts backfilled with actual engagement",
	})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wicketwire_command_runs_total",
		Help: "Total command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wicketwire_command_errors_total",
		Help: "Total command errors",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(CycleRuns, CycleErrors, CycleDuration, PostsPublished, DuplicatesSkipped, FeedbackUpdates, CommandRuns, CommandErrors)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, nil) }()
}

// ObserveCycleDuration records a decision cycle duration.
func ObserveCycleDuration(start time.Time) {
	CycleDuration.Observe(time.Since(start).Seconds())
}

// IncCommandRun increments the run counter for a command.
func IncCommandRun(cmd string) { CommandRuns.WithLabelValues(cmd).Inc() }

// IncCommandError increments the error counter for a command.
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
