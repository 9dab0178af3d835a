// Package metrics provides optional Prometheus instrumentation for the
// decision engine.
//
// A nil *AuthMetrics disables collection with zero overhead: every observe
// method is safe on a nil receiver. Hosts that embed the engine in a
// long-lived process construct one against their registry; one-shot
// invocations pass nil.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AuthMetrics counts authentication decisions and cache outcomes.
type AuthMetrics struct {
	decisions    *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	remoteLogins *prometheus.CounterVec
}

// NewAuthMetrics registers the dirgate collectors with reg. Passing
// prometheus.DefaultRegisterer is the common case.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	return &AuthMetrics{
		decisions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dirgate_decisions_total",
				Help: "Authentication decisions by outcome",
			},
			[]string{"outcome"}, // success, rejected, ignored, service_error
		),
		cacheLookups: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dirgate_cache_lookups_total",
				Help: "Credential cache lookups by result",
			},
			[]string{"result"}, // match, mismatch, not-present, error
		),
		remoteLogins: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dirgate_remote_logins_total",
				Help: "Remote directory verification attempts by result",
			},
			[]string{"result"}, // success, bad_credential, challenge, error
		),
	}
}

// ObserveDecision records the terminal outcome of one attempt.
func (m *AuthMetrics) ObserveDecision(outcome string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(outcome).Inc()
}

// ObserveCacheLookup records a credential cache lookup result.
func (m *AuthMetrics) ObserveCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveRemoteLogin records a remote verification result.
func (m *AuthMetrics) ObserveRemoteLogin(result string) {
	if m == nil {
		return
	}
	m.remoteLogins.WithLabelValues(result).Inc()
}
