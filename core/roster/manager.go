package roster

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dutymgr/dutymgr/core/events"
	"github.com/dutymgr/dutymgr/core/logger"
	"github.com/dutymgr/dutymgr/core/model"
	"github.com/dutymgr/dutymgr/core/roster/logging"
	"github.com/dutymgr/dutymgr/internal/eventbus"
	"github.com/dutymgr/dutymgr/metrics"
)

// DefaultLookbackMeetings bounds how many trailing prior meetings feed the
// rebuilt fairness counters when extending a schedule: two meetings a week
// over eight weeks, roughly one full rotation cycle.
const DefaultLookbackMeetings = 16

// Config defines engine parameters loaded from configuration.
type Config struct {
	LookbackMeetings int     `json:"lookback_meetings"`
	TieTolerance     float64 `json:"tie_tolerance"`
	Seed             int64   `json:"seed"`
	Weights          Weights `json:"weights"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.LookbackMeetings <= 0 {
		c.LookbackMeetings = DefaultLookbackMeetings
	}
	if c.TieTolerance <= 0 {
		c.TieTolerance = DefaultTieTolerance
	}
	if (c.Weights == Weights{}) {
		c.Weights = DefaultWeights()
	}
}

// GenerateRequest carries everything one generation run needs. When Prior is
// set the run extends that schedule: fairness counters are rebuilt from its
// trailing lookback window before the new window is filled.
type GenerateRequest struct {
	Start    model.Date          `json:"start"`
	Weeks    int                 `json:"weeks"`
	Days     MeetingDays         `json:"meetingDays"`
	People   []model.Person      `json:"people"`
	Roles    []model.Role        `json:"roles"`
	Omitted  []model.Date        `json:"omittedDates,omitempty"`
	Specials []SpecialOccurrence `json:"specialOccurrences,omitempty"`
	Prior    *model.Schedule     `json:"prior,omitempty"`
}

// ScheduleManager wires calendar generation, eligibility, scoring and the
// assignment engine together, and reports each run to the configured sinks.
// A manager is safe for sequential use only: callers must not run two
// generations concurrently against the same underlying store.
type ScheduleManager struct {
	engine   *Engine
	lookback int
	logger   logger.Logger
	metrics  metrics.Sink
	bus      eventbus.EventBus
	store    logging.RunStore
	mu       sync.Mutex
}

// NewScheduleManager creates a manager from the configuration. The metrics
// sink, event bus and run store may be nil.
func NewScheduleManager(cfg Config, log logger.Logger, sink metrics.Sink, bus eventbus.EventBus, store logging.RunStore) (*ScheduleManager, error) {
	if log == nil {
		return nil, fmt.Errorf("roster: nil logger provided to NewScheduleManager")
	}
	cfg.SetDefaults()
	var tie TieBreaker
	if cfg.Seed != 0 {
		tie = NewRandTieBreaker(cfg.Seed)
	} else {
		tie = NewRandTieBreaker(time.Now().UnixNano())
	}
	return &ScheduleManager{
		engine:   NewEngine(Scorer{Weights: cfg.Weights}, tie, cfg.TieTolerance),
		lookback: cfg.LookbackMeetings,
		logger:   log,
		metrics:  sink,
		bus:      bus,
		store:    store,
	}, nil
}

// SetTieBreaker replaces the tie breaker, letting tests make assignment
// deterministic.
func (m *ScheduleManager) SetTieBreaker(tie TieBreaker) {
	m.mu.Lock()
	m.engine.tie = tie
	m.mu.Unlock()
}

// SetRunStore configures the store used to persist generation runs.
func (m *ScheduleManager) SetRunStore(store logging.RunStore) {
	m.mu.Lock()
	m.store = store
	m.mu.Unlock()
}

// Close releases resources held by the manager.
func (m *ScheduleManager) Close() error {
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}

// Generate runs one full generation pass and returns the schedule. The
// request is validated structurally before any work happens; an invalid
// request is rejected without partial mutation. Unfillable roles never fail
// the run: they are reported on the schedule's conflict list.
func (m *ScheduleManager) Generate(req GenerateRequest) (*model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	began := time.Now()

	seq, err := GenerateDates(req.Start, req.Weeks, req.Days, req.Omitted, req.Specials)
	if err != nil {
		return nil, err
	}

	st := NewRotationState(req.People)
	if req.Prior != nil {
		st.RebuildFromHistory(req.Prior, m.lookback)
	}

	if m.bus != nil {
		m.bus.Publish(events.RunStartedEvent{RunID: runID, Start: req.Start, Weeks: req.Weeks})
	}
	m.logger.Infof("run %s: scheduling %d occurrences for %d roles", runID, len(seq), len(req.Roles))

	conflicts := m.engine.Assign(seq, req.Roles, st, req.Days)
	generationRuns.Inc()
	occurrencesScheduled.Add(float64(len(seq)))

	first, last := Window(req.Start, req.Weeks, req.Days)
	sched := &model.Schedule{
		Start:     first,
		End:       last,
		Meetings:  seq,
		Conflicts: conflicts,
	}

	for _, c := range conflicts {
		m.logger.Warnf("run %s: unfilled %s on %s (%d unavailable, %d double-booked)",
			runID, c.RoleID, c.Date, c.Unavailable, c.DoubleBooked)
		if m.bus != nil {
			m.bus.Publish(events.ConflictEvent{RunID: runID, Conflict: c})
		}
	}

	m.record(runID, req, sched)

	if m.bus != nil {
		m.bus.Publish(events.RunCompletedEvent{
			RunID:     runID,
			Meetings:  len(sched.Meetings),
			Conflicts: len(conflicts),
			Elapsed:   time.Since(began),
		})
	}
	m.logger.Infof("run %s: %d meetings, %d conflicts in %s",
		runID, len(sched.Meetings), len(conflicts), time.Since(began))
	return sched, nil
}

// record reports the run to the metrics sink and the run store.
func (m *ScheduleManager) record(runID string, req GenerateRequest, sched *model.Schedule) {
	perPerson := make(map[string]int)
	var recs []metrics.AssignmentRecord
	for _, occ := range sched.Meetings {
		for roleID, duty := range occ.Duties {
			if duty.PersonID == nil {
				continue
			}
			perPerson[*duty.PersonID]++
			recs = append(recs, metrics.AssignmentRecord{
				RunID:    runID,
				Date:     occ.Date.String(),
				RoleID:   roleID,
				PersonID: *duty.PersonID,
				Manual:   duty.ManuallyAssigned,
				Time:     time.Now(),
			})
		}
	}
	if m.metrics != nil {
		if err := m.metrics.RecordAssignments(recs); err != nil {
			m.logger.Errorf("metrics error: %v", err)
		}
	}
	if m.store != nil {
		_ = m.store.Append(context.Background(), logging.RunRecord{
			RunID:       runID,
			Timestamp:   time.Now(),
			Start:       req.Start.String(),
			Weeks:       req.Weeks,
			Extended:    req.Prior != nil,
			Meetings:    len(sched.Meetings),
			Conflicts:   sched.Conflicts,
			Assignments: perPerson,
		})
	}
}

// validateRequest rejects structurally broken input before any state is
// touched.
func validateRequest(req GenerateRequest) error {
	if req.Start.IsZero() {
		return ErrMissingStart
	}
	if req.Weeks <= 0 {
		return ErrInvalidWeeks
	}
	if err := req.Days.Validate(); err != nil {
		return err
	}
	roleIDs := make(map[string]struct{}, len(req.Roles))
	for _, r := range req.Roles {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := roleIDs[r.ID]; dup {
			return fmt.Errorf("roster: duplicate role id %q", r.ID)
		}
		roleIDs[r.ID] = struct{}{}
	}
	personIDs := make(map[string]struct{}, len(req.People))
	for _, p := range req.People {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := personIDs[p.ID]; dup {
			return fmt.Errorf("roster: duplicate person id %q", p.ID)
		}
		personIDs[p.ID] = struct{}{}
	}
	return nil
}
