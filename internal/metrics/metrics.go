package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reward reasons used as the "reason" label.
const (
	ReasonJoin     = "join"
	ReasonReferral = "referral"
	ReasonAds      = "ads"
)

type Metrics struct {
	registry          *prometheus.Registry
	coinsCredited     *prometheus.CounterVec
	adWatches         prometheus.Counter
	boostsActivated   prometheus.Counter
	referralsCredited prometheus.Counter
	usersCreated      prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		coinsCredited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xreward_coins_credited_total",
			Help: "Coins credited to users by reward reason.",
		}, []string{"reason"}),
		adWatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xreward_ad_watches_total",
			Help: "Recorded ad watch events.",
		}),
		boostsActivated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xreward_boosts_activated_total",
			Help: "Boost activations, including restarts of an active boost.",
		}),
		referralsCredited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xreward_referrals_credited_total",
			Help: "Referrals that credited their referrer.",
		}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xreward_users_created_total",
			Help: "Users created on first contact.",
		}),
	}
	m.registry.MustRegister(
		m.coinsCredited,
		m.adWatches,
		m.boostsActivated,
		m.referralsCredited,
		m.usersCreated,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// All recorders are no-ops on a nil receiver so services can run without metrics.

func (m *Metrics) CoinsCredited(reason string, amount int) {
	if m == nil {
		return
	}
	m.coinsCredited.WithLabelValues(reason).Add(float64(amount))
}

func (m *Metrics) AdWatched() {
	if m == nil {
		return
	}
	m.adWatches.Inc()
}

func (m *Metrics) BoostActivated() {
	if m == nil {
		return
	}
	m.boostsActivated.Inc()
}

func (m *Metrics) ReferralCredited() {
	if m == nil {
		return
	}
	m.referralsCredited.Inc()
}

func (m *Metrics) UserCreated() {
	if m == nil {
		return
	}
	m.usersCreated.Inc()
}
