package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry module.
type Metrics struct {
	AuthoritiesRegistered prometheus.Counter
	ShipOwnersRegistered  prometheus.Counter
	VesselsRegistered     prometheus.Counter
	RegistrationsRejected *prometheus.CounterVec
}

// New creates a Metrics instance with all registry module metrics registered.
func New() *Metrics {
	return &Metrics{
		AuthoritiesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shipcertify_authorities_registered_total",
			Help: "Total number of authorities registered",
		}),
		ShipOwnersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shipcertify_shipowners_registered_total",
			Help: "Total number of ship owners registered",
		}),
		VesselsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shipcertify_vessels_registered_total",
			Help: "Total number of vessels registered",
		}),
		RegistrationsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shipcertify_registrations_rejected_total",
			Help: "Registrations rejected, partitioned by error code",
		}, []string{"code"}),
	}
}

func (m *Metrics) IncrementAuthorities() {
	if m != nil {
		m.AuthoritiesRegistered.Inc()
	}
}

func (m *Metrics) IncrementShipOwners() {
	if m != nil {
		m.ShipOwnersRegistered.Inc()
	}
}

func (m *Metrics) IncrementVessels() {
	if m != nil {
		m.VesselsRegistered.Inc()
	}
}

func (m *Metrics) IncrementRejected(code string) {
	if m != nil {
		m.RegistrationsRejected.WithLabelValues(code).Inc()
	}
}
