// Package metrics holds the report delivery collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Email kinds.
const (
	KindRecord = "record"
	KindDaily  = "daily"
)

// Reports counts rendered PDFs and sent emails. A nil *Reports records nothing.
type Reports struct {
	rendered *prometheus.CounterVec
	emails   *prometheus.CounterVec
}

// NewReports creates the collectors and registers them on reg.
func NewReports(reg prometheus.Registerer) (*Reports, error) {
	r := &Reports{
		rendered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_rendered_total",
				Help: "Total number of report PDFs rendered.",
			},
			[]string{"result"},
		),
		emails: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_emails_total",
				Help: "Total number of report emails handed to the SMTP relay.",
			},
			[]string{"kind", "result"},
		),
	}
	for _, c := range []prometheus.Collector{r.rendered, r.emails} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Rendered records one render attempt.
func (r *Reports) Rendered(err error) {
	if r == nil {
		return
	}
	r.rendered.WithLabelValues(result(err)).Inc()
}

// Emailed records one delivery attempt of the given kind.
func (r *Reports) Emailed(kind string, err error) {
	if r == nil {
		return
	}
	r.emails.WithLabelValues(kind, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
