package logging

import (
	"context"
	"time"

	"github.com/dutymgr/dutymgr/core/model"
)

// RunRecord captures one schedule generation run and its outcome.
type RunRecord struct {
	RunID       string           `json:"run_id"`
	Timestamp   time.Time        `json:"timestamp"`
	Start       string           `json:"start"`
	Weeks       int              `json:"weeks"`
	Extended    bool             `json:"extended"`
	Meetings    int              `json:"meetings"`
	Conflicts   []model.Conflict `json:"conflicts"`
	Assignments map[string]int   `json:"assignments"`
}

// RunQuery defines filters for retrieving records.
type RunQuery struct {
	Start    time.Time
	End      time.Time
	RunID    string
	PersonID string
}

// RunStore persists RunRecords and supports querying.
type RunStore interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}

// matches applies the non-time filters of q to r.
func matches(r RunRecord, q RunQuery) bool {
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if q.PersonID != "" {
		if _, ok := r.Assignments[q.PersonID]; !ok {
			return false
		}
	}
	return true
}
