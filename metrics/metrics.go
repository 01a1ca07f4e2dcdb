package metrics

import "time"

// AssignmentRecord represents one filled duty to be recorded.
type AssignmentRecord struct {
	RunID    string
	Date     string
	RoleID   string
	PersonID string
	Manual   bool
	Time     time.Time
}

// Sink records assignment results for observability purposes.
type Sink interface {
	RecordAssignments(recs []AssignmentRecord) error
}

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9090"
	}
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordAssignments([]AssignmentRecord) error { return nil }
