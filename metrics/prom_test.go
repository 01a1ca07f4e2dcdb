package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	require.NoError(t, err)

	recs := []AssignmentRecord{
		{RunID: "r1", Date: "2025-03-05", RoleID: "audio", PersonID: "a", Time: time.Now()},
		{RunID: "r1", Date: "2025-03-05", RoleID: "audio", PersonID: "b", Manual: true, Time: time.Now()},
	}
	require.NoError(t, sink.RecordAssignments(recs))

	auto := testutil.ToFloat64(sink.events.WithLabelValues("audio", "false"))
	manual := testutil.ToFloat64(sink.events.WithLabelValues("audio", "true"))
	require.Equal(t, 1.0, auto)
	require.Equal(t, 1.0, manual)
}

func TestPromSinkReusesRegisteredCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSink(reg)
	require.NoError(t, err)
	b, err := NewPromSink(reg)
	require.NoError(t, err)

	require.NoError(t, a.RecordAssignments([]AssignmentRecord{{RoleID: "audio"}}))
	require.NoError(t, b.RecordAssignments([]AssignmentRecord{{RoleID: "audio"}}))
	require.Equal(t, 2.0, testutil.ToFloat64(b.events.WithLabelValues("audio", "false")))
}
