package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records assignment events in Prometheus metrics.
type PromSink struct {
	events *prometheus.CounterVec
}

// NewPromSink registers assignment metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the collector
// is already registered, the existing one is reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "duty_assignment_events_total",
		Help: "Total number of duty assignment events",
	}, []string{"role_id", "manual"})

	if err := reg.Register(events); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			events = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	return &PromSink{events: events}, nil
}

// RecordAssignments increments the counter for each assignment.
func (s *PromSink) RecordAssignments(recs []AssignmentRecord) error {
	for _, r := range recs {
		s.events.WithLabelValues(r.RoleID, strconv.FormatBool(r.Manual)).Inc()
	}
	return nil
}
