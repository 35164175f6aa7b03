package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chemsolver_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chemsolver_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	solveRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chemsolver_solve_requests_total",
		Help: "Photo solve requests by outcome",
	}, []string{"outcome"}) // outcome=success|fallback|error|cached|rate_limited

	solveCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chemsolver_solve_cache_total",
		Help: "Solve cache lookups by result",
	}, []string{"result"}) // result=hit|miss

	challengeSessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chemsolver_challenge_sessions_total",
		Help: "Challenge games started by mode",
	}, []string{"mode"})

	xpAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chemsolver_xp_awarded_total",
		Help: "Total XP awarded to users",
	})
)

// ObserveHTTP 記錄一次 HTTP 請求
func ObserveHTTP(route, status string, seconds float64) {
	httpRequests.WithLabelValues(route, status).Inc()
	httpLatency.WithLabelValues(route).Observe(seconds)
}

// IncSolve records the outcome of a solve request.
func IncSolve(outcome string) {
	solveRequests.WithLabelValues(outcome).Inc()
}

// IncSolveCache 記錄快取命中或未命中
func IncSolveCache(hit bool) {
	if hit {
		solveCache.WithLabelValues("hit").Inc()
		return
	}
	solveCache.WithLabelValues("miss").Inc()
}

func IncChallenge(mode string) {
	challengeSessions.WithLabelValues(mode).Inc()
}

// AddXP 累加發出的 XP (非正數忽略)
func AddXP(amount int) {
	if amount > 0 {
		xpAwarded.Add(float64(amount))
	}
}
