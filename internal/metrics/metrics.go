// Package metrics provides Prometheus collectors for the ledger service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the interface the service layer records through, so tests
// can run without a Prometheus registry.
type Recorder interface {
	RecordMessage()
	RecordIntent(kind string)
	RecordIntentError(category string)
	RecordStoreError()
	SetEditSessions(n int)
}

// Collector implements Recorder on top of Prometheus metrics.
type Collector struct {
	messages     prometheus.Counter
	intents      *prometheus.CounterVec
	intentErrors *prometheus.CounterVec
	storeErrors  prometheus.Counter
	editSessions prometheus.Gauge
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "workledger_messages_total",
			Help: "Total inbound messages dispatched.",
		}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workledger_intents_total",
			Help: "Parsed intents by kind.",
		}, []string{"kind"}),
		intentErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workledger_intent_errors_total",
			Help: "Failed intents by error category.",
		}, []string{"category"}),
		storeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "workledger_store_errors_total",
			Help: "Storage operations that failed.",
		}),
		editSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workledger_edit_sessions",
			Help: "Edit dialogues currently live.",
		}),
	}

	reg.MustRegister(
		c.messages,
		c.intents,
		c.intentErrors,
		c.storeErrors,
		c.editSessions,
	)
	return c
}

// RecordMessage counts one inbound message.
func (c *Collector) RecordMessage() {
	c.messages.Inc()
}

// RecordIntent counts one parsed intent by kind.
func (c *Collector) RecordIntent(kind string) {
	c.intents.WithLabelValues(kind).Inc()
}

// RecordIntentError counts one failed intent by error category.
func (c *Collector) RecordIntentError(category string) {
	c.intentErrors.WithLabelValues(category).Inc()
}

// RecordStoreError counts one storage failure.
func (c *Collector) RecordStoreError() {
	c.storeErrors.Inc()
}

// SetEditSessions reports the number of live edit dialogues.
func (c *Collector) SetEditSessions(n int) {
	c.editSessions.Set(float64(n))
}

// Nop is a Recorder that discards everything. Useful in tests.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) RecordMessage()           {}
func (Nop) RecordIntent(string)      {}
func (Nop) RecordIntentError(string) {}
func (Nop) RecordStoreError()        {}
func (Nop) SetEditSessions(int)      {}
