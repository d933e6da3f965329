// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchesTotal counts successful matches.
	MatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bean_thinking_matches_total",
		Help: "Questionnaires that produced a ranking",
	})

	// ValidationFailuresTotal counts rejected questionnaires by form.
	ValidationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bean_thinking_validation_failures_total",
		Help: "Submissions rejected for missing or invalid answers",
	}, []string{"form"})

	// TopScore records the best score of each match.
	TopScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bean_thinking_top_score",
		Help:    "Flavour overlap of the best-ranked venue",
		Buckets: []float64{0, 1, 2, 3},
	})

	// FeedbackTotal counts feedback submissions by outcome (ok, failed).
	FeedbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bean_thinking_feedback_submissions_total",
		Help: "Feedback forwarded to the form service",
	}, []string{"outcome"})
)
