// Package metrics holds the Prometheus instruments for link issuance and
// validation. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "linkgate"

// Revocation causes.
const (
	RevokeExplicit    = "explicit"
	RevokeRegenerated = "regenerated"
	RevokeResource    = "resource_deleted"
)

type Metrics struct {
	registry *prometheus.Registry

	issued      *prometheus.CounterVec
	validations *prometheus.CounterVec
	revoked     *prometheus.CounterVec
	redemptions *prometheus.CounterVec
	live        *prometheus.GaugeVec
	mailSent    *prometheus.CounterVec
	lastSweep   prometheus.Gauge
}

// New builds a private registry with the Go and process collectors plus the
// linkgate instruments.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		issued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokens",
			Name:      "issued_total",
			Help:      "Link tokens issued, by purpose.",
		}, []string{"purpose"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokens",
			Name:      "validations_total",
			Help:      "Token validations, by purpose, outcome and internal reason.",
		}, []string{"purpose", "status", "reason"}),
		revoked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokens",
			Name:      "revoked_total",
			Help:      "Bindings revoked, by cause.",
		}, []string{"cause"}),
		redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokens",
			Name:      "redemptions_total",
			Help:      "Single-use redemption attempts, by purpose and whether the attempt won.",
		}, []string{"purpose", "won"}),
		live: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tokens",
			Name:      "live",
			Help:      "Bindings that are neither revoked, used nor expired, by purpose.",
		}, []string{"purpose"}),
		mailSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mail",
			Name:      "sent_total",
			Help:      "Invite emails handed to the mail server, by result.",
		}, []string{"result"}),
		lastSweep: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sweeper",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed sweep.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.issued, m.validations, m.revoked, m.redemptions, m.live, m.mailSent, m.lastSweep,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Issued(purpose string) {
	if m == nil {
		return
	}
	m.issued.WithLabelValues(purpose).Inc()
}

func (m *Metrics) Validated(purpose, status, reason string) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(purpose, status, reason).Inc()
}

func (m *Metrics) Revoked(cause string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.revoked.WithLabelValues(cause).Add(float64(n))
}

func (m *Metrics) Redeemed(purpose string, won bool) {
	if m == nil {
		return
	}
	m.redemptions.WithLabelValues(purpose, strconv.FormatBool(won)).Inc()
}

func (m *Metrics) MailSent(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.mailSent.WithLabelValues(result).Inc()
}

// SetLive replaces the live gauge values.
func (m *Metrics) SetLive(counts map[string]int) {
	if m == nil {
		return
	}
	for purpose, n := range counts {
		m.live.WithLabelValues(purpose).Set(float64(n))
	}
}

func (m *Metrics) SweepCompleted(unix int64) {
	if m == nil {
		return
	}
	m.lastSweep.Set(float64(unix))
}
