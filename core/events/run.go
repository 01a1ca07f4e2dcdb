package events

import (
	"time"

	"github.com/dutymgr/dutymgr/core/model"
)

// RunStartedEvent is published when a generation run begins.
type RunStartedEvent struct {
	RunID string
	Start model.Date
	Weeks int
}

// ConflictEvent is published for every role the engine could not fill.
type ConflictEvent struct {
	RunID    string
	Conflict model.Conflict
}

// RunCompletedEvent is published when a generation run finishes.
type RunCompletedEvent struct {
	RunID     string
	Meetings  int
	Conflicts int
	Elapsed   time.Duration
}
