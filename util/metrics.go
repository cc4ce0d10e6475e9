package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	lobbiesCreatedCounter   prometheus.Counter
	lobbiesExpiredCounter   prometheus.Counter
	handsDealtCounter       prometheus.Counter
	actionTimeoutCounter    prometheus.Counter
	activeSessionsGauge     prometheus.Gauge
	sessionsTornDownCounter prometheus.Counter
}

func (m *metrics) LobbyCreated() {
	m.lobbiesCreatedCounter.Inc()
}

func (m *metrics) LobbyExpired() {
	m.lobbiesExpiredCounter.Inc()
}

func (m *metrics) HandDealt() {
	m.handsDealtCounter.Inc()
}

func (m *metrics) ActionTimedOut() {
	m.actionTimeoutCounter.Inc()
}

func (m *metrics) SessionTornDown() {
	m.sessionsTornDownCounter.Inc()
}

func (m *metrics) SetActiveSessionCount(count int) {
	m.activeSessionsGauge.Set(float64(count))
}

var Metrics = &metrics{
	lobbiesCreatedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "lobbies_created_total",
		Help: "Total number of lobbies created",
	}),
	lobbiesExpiredCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "lobbies_expired_total",
		Help: "Total number of lobbies discarded on expiry",
	}),
	handsDealtCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hands_dealt_total",
		Help: "Total number of hands dealt",
	}),
	actionTimeoutCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "action_timeouts_total",
		Help: "Total number of per-turn timeouts that forfeited an action",
	}),
	sessionsTornDownCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_torn_down_total",
		Help: "Total number of game sessions torn down",
	}),
	activeSessionsGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_sessions_count",
		Help: "Count of the entries in the session registry",
	}),
}
