// Package metrics exposes the certificate issuance counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CertificatesIssued   prometheus.Counter
	IssuanceBlocked      prometheus.Counter
	VerificationsValid   prometheus.Counter
	VerificationsExpired prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		CertificatesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shipcertify_certificates_issued_total",
			Help: "Certificates successfully issued",
		}),
		IssuanceBlocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shipcertify_certificate_issuance_blocked_total",
			Help: "Issuance attempts blocked by unverified findings",
		}),
		VerificationsValid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shipcertify_certificate_verifications_valid_total",
			Help: "Certificate verifications that returned valid",
		}),
		VerificationsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shipcertify_certificate_verifications_invalid_total",
			Help: "Certificate verifications that returned invalid or expired",
		}),
	}
}

func (m *Metrics) IncrementIssued() {
	if m == nil {
		return
	}
	m.CertificatesIssued.Inc()
}

func (m *Metrics) IncrementBlocked() {
	if m == nil {
		return
	}
	m.IssuanceBlocked.Inc()
}

func (m *Metrics) IncrementVerification(valid bool) {
	if m == nil {
		return
	}
	if valid {
		m.VerificationsValid.Inc()
		return
	}
	m.VerificationsExpired.Inc()
}
