// Package metrics counts generated documents and failed renderings. The CLI
// is short-lived, so counters are exported through the node-exporter
// textfile collector rather than an HTTP endpoint.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ginjaninja78/salesdocs/internal/types"
)

// Metrics holds the application's collectors on a private registry.
type Metrics struct {
	reg              *prometheus.Registry
	documentsCreated *prometheus.CounterVec
	amountWon        *prometheus.CounterVec
	exportFailures   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		documentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salesdocs_documents_created_total",
			Help: "Documents generated, by document type.",
		}, []string{"type"}),
		amountWon: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salesdocs_document_amount_won_total",
			Help: "Sum of document totals in won, by document type.",
		}, []string{"type"}),
		exportFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salesdocs_export_failures_total",
			Help: "Renderings that failed, by output format.",
		}, []string{"format"}),
	}
	m.reg.MustRegister(m.documentsCreated, m.amountWon, m.exportFailures)
	return m
}

// Registry exposes the registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// DocumentCreated records one generated document and its total.
func (m *Metrics) DocumentCreated(t types.DocumentType, totalWon int64) {
	m.documentsCreated.WithLabelValues(string(t)).Inc()
	m.amountWon.WithLabelValues(string(t)).Add(float64(totalWon))
}

// ExportFailed records a failed rendering.
func (m *Metrics) ExportFailed(format string) {
	m.exportFailures.WithLabelValues(format).Inc()
}

// WriteTextfile writes all metrics to path atomically. An empty path is a
// no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
