package roster

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	occurrencesScheduled prometheus.Counter
	dutiesAssigned       *prometheus.CounterVec
	rolesUnfilled        *prometheus.CounterVec
	generationRuns       prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, *prometheus.CounterVec, *prometheus.CounterVec, prometheus.Counter) {
	occ := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roster_occurrences_scheduled_total",
		Help: "Number of meeting occurrences produced by generation runs",
	})
	duties := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_duties_assigned_total",
		Help: "Number of duties filled by the assignment engine",
	}, []string{"role_id"})
	unfilled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_roles_unfilled_total",
		Help: "Number of role slots left unfilled with a conflict",
	}, []string{"role_id"})
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roster_generation_runs_total",
		Help: "Number of schedule generation runs",
	})
	return occ, duties, unfilled, runs
}

func init() {
	occurrencesScheduled, dutiesAssigned, rolesUnfilled, generationRuns = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers roster metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(occurrencesScheduled, dutiesAssigned, rolesUnfilled, generationRuns)
}

// ResetMetrics reinitializes the collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	occurrencesScheduled, dutiesAssigned, rolesUnfilled, generationRuns = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
