package roster

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dutymgr/dutymgr/core/model"
)

// Engine performs the single greedy forward pass that fills duties. It never
// fails on an unfillable role; every gap becomes a Conflict on the returned
// slice. There is no retry or backtracking: best-effort output with explicit
// conflicts is the contract.
type Engine struct {
	scorer    Scorer
	tie       TieBreaker
	tolerance float64
}

// NewEngine builds an engine. A nil tie breaker falls back to a time-seeded
// random one; a non-positive tolerance falls back to DefaultTieTolerance.
func NewEngine(scorer Scorer, tie TieBreaker, tolerance float64) *Engine {
	if tie == nil {
		tie = NewRandTieBreaker(time.Now().UnixNano())
	}
	if tolerance <= 0 {
		tolerance = DefaultTieTolerance
	}
	return &Engine{scorer: scorer, tie: tie, tolerance: tolerance}
}

// Assign fills the duties of every occurrence in place and returns the
// conflicts encountered. Roles are processed most-constrained first within
// each occurrence. Pre-seeded duties are left alone but still feed the
// rotation counters so fairness accounts for them.
func (e *Engine) Assign(seq []model.Occurrence, roles []model.Role, st *RotationState, days MeetingDays) []model.Conflict {
	ordered := orderByConstraint(roles)
	groupPrefs := make(map[string]string)
	var conflicts []model.Conflict

	for i := range seq {
		occ := &seq[i]
		if occ.Duties == nil {
			occ.Duties = make(map[string]model.Duty)
		}
		for roleID, duty := range occ.Duties {
			if duty.PersonID != nil {
				st.RecordAssignment(*duty.PersonID, roleID, occ.Date)
			}
		}
		for _, role := range ordered {
			if _, seeded := occ.Duties[role.ID]; seeded {
				continue
			}
			conflicts = e.assignRole(seq, i, occ, role, st, groupPrefs, days, conflicts)
		}
	}
	return conflicts
}

func (e *Engine) assignRole(seq []model.Occurrence, idx int, occ *model.Occurrence, role model.Role, st *RotationState, groupPrefs map[string]string, days MeetingDays, conflicts []model.Conflict) []model.Conflict {
	eligible, bd := eligibleCandidates(role, *occ, st)
	if len(eligible) == 0 {
		occ.Duties[role.ID] = model.Duty{HasConflict: true}
		rolesUnfilled.WithLabelValues(role.ID).Inc()
		return append(conflicts, model.Conflict{
			Kind:   model.ConflictUnfilled,
			Date:   occ.Date,
			RoleID: role.ID,
			Message: fmt.Sprintf("no candidate for %s on %s: %d qualified unavailable, %d already serving that meeting",
				role.Name, occ.Date, bd.unavailable, bd.doubleBooked),
			Unavailable:  bd.unavailable,
			DoubleBooked: bd.doubleBooked,
		})
	}

	ctx := &scoreContext{
		seq:        seq,
		idx:        idx,
		roleMean:   meanRoleCount(eligible, role.ID),
		globalMean: meanTotal(st.People()),
		groupPrefs: groupPrefs,
	}

	best := math.Inf(-1)
	scores := make([]float64, len(eligible))
	for i, p := range eligible {
		scores[i] = e.scorer.Score(p, role, ctx)
		if scores[i] > best {
			best = scores[i]
		}
	}
	var tied []*model.Person
	for i, p := range eligible {
		if best-scores[i] <= e.tolerance {
			tied = append(tied, p)
		}
	}
	chosen := tied[e.tie.Pick(len(tied))]

	id := chosen.ID
	occ.Duties[role.ID] = model.Duty{PersonID: &id}
	st.RecordAssignment(id, role.ID, occ.Date)
	dutiesAssigned.WithLabelValues(role.ID).Inc()
	if role.Grouped && occ.Date.Weekday() == days.Midweek {
		groupPrefs[groupKey(occ.Date, role.ID)] = id
	}
	return conflicts
}

// orderByConstraint sorts roles by ascending qualified-pool size, breaking
// ties by identifier so runs are reproducible.
func orderByConstraint(roles []model.Role) []model.Role {
	out := append([]model.Role(nil), roles...)
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].Qualified) != len(out[j].Qualified) {
			return len(out[i].Qualified) < len(out[j].Qualified)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
