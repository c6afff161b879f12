// Package metrics owns the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics groups the application collectors. Each instance has its own registry.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ExpensesSubmitted   *prometheus.CounterVec
	ExpenseDecisions    *prometheus.CounterVec
	DecisionConflicts   prometheus.Counter
	LoginAttempts       *prometheus.CounterVec
}

// New creates and registers every collector, plus Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expense",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "expense",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		ExpensesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expense",
			Name:      "expenses_submitted_total",
			Help:      "Expenses submitted, by whether an approver was assigned.",
		}, []string{"has_approver"}),
		ExpenseDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expense",
			Name:      "decisions_total",
			Help:      "Approval decisions recorded, by decision.",
		}, []string{"decision"}),
		DecisionConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "expense",
			Name:      "decision_conflicts_total",
			Help:      "Decisions refused because the expense was already decided or changed concurrently.",
		}),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expense",
			Name:      "login_attempts_total",
			Help:      "Login attempts by method and outcome.",
		}, []string{"method", "outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.ExpensesSubmitted,
		m.ExpenseDecisions,
		m.DecisionConflicts,
		m.LoginAttempts,
	)
	return m
}
