package roster

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/dutymgr/dutymgr/core/model"
)

// Weights holds the named scoring constants. The relative ordering
// grouping > anti-repeat > global load > per-role load > diversity > recency
// is the behavioural contract; the magnitudes themselves are tunable through
// configuration.
type Weights struct {
	// Base is the starting score for every candidate.
	Base float64 `json:"base"`
	// GroupingBonus rewards keeping the same person on a grouped role for
	// both meetings of one calendar week. It dominates every other term.
	GroupingBonus float64 `json:"grouping_bonus"`
	// AntiRepeatPenalty discourages the same person holding a grouped role
	// on consecutive grouping cycles across different weeks.
	AntiRepeatPenalty float64 `json:"anti_repeat_penalty"`
	// RoleLoadWeight scales the penalty for being above the eligible pool's
	// average count for this role.
	RoleLoadWeight float64 `json:"role_load_weight"`
	// GlobalLoadWeight scales the penalty for being above the roster-wide
	// average total count. Larger than RoleLoadWeight: overall fairness
	// outranks per-role fairness.
	GlobalLoadWeight float64 `json:"global_load_weight"`
	// DiversityWeight rewards multi-role people whose share of this role is
	// below their expected per-qualified-role share.
	DiversityWeight float64 `json:"diversity_weight"`
	// NeverHeldBonus is a flat bonus for multi-role people with meaningful
	// history elsewhere who have never held this role.
	NeverHeldBonus float64 `json:"never_held_bonus"`
	// FirstTimeBonus is a flat bonus for people never assigned to the role.
	FirstTimeBonus float64 `json:"first_time_bonus"`
	// RecencyPenalty is the maximum penalty for a very recent assignment to
	// the role; it decays toward zero as the gap grows.
	RecencyPenalty float64 `json:"recency_penalty"`
	// RecencyDecayDays is the e-folding time of the recency penalty.
	RecencyDecayDays float64 `json:"recency_decay_days"`
}

// DefaultWeights returns the production constants.
func DefaultWeights() Weights {
	return Weights{
		Base:              100,
		GroupingBonus:     1000,
		AntiRepeatPenalty: 750,
		RoleLoadWeight:    15,
		GlobalLoadWeight:  40,
		DiversityWeight:   10,
		NeverHeldBonus:    12,
		FirstTimeBonus:    8,
		RecencyPenalty:    6,
		RecencyDecayDays:  28,
	}
}

// minTotalForNeverHeld guards the never-held bonus against firing on people
// with barely any history.
const minTotalForNeverHeld = 3

// Scorer computes the fitness of a (person, role, meeting) triple.
type Scorer struct {
	Weights Weights
}

// NewScorer returns a scorer with the default weights.
func NewScorer() Scorer { return Scorer{Weights: DefaultWeights()} }

// scoreContext carries the per-decision inputs shared by all candidates of
// one role at one occurrence.
type scoreContext struct {
	seq        []model.Occurrence
	idx        int
	roleMean   float64           // mean per-role count across eligible candidates
	globalMean float64           // mean total count across all tracked people
	groupPrefs map[string]string // "date|roleID" -> personID, recorded on midweek days
}

// Score combines the additive terms documented on the Weights fields.
func (s Scorer) Score(p *model.Person, role model.Role, ctx *scoreContext) float64 {
	w := s.Weights
	score := w.Base
	occ := ctx.seq[ctx.idx]

	if role.Grouped && ctx.idx > 0 {
		prev := ctx.seq[ctx.idx-1]
		if prev.Date.SameISOWeek(occ.Date) && s.heldPreceding(prev, role.ID, p.ID, ctx) {
			score += w.GroupingBonus
		}
		if ctx.idx > 1 {
			twoBack := ctx.seq[ctx.idx-2]
			if !twoBack.Date.SameISOWeek(occ.Date) && heldRole(twoBack, role.ID, p.ID) {
				score -= w.AntiRepeatPenalty
			}
		}
	}

	roleCount := float64(p.Counts[role.ID])
	score -= w.RoleLoadWeight * (roleCount - ctx.roleMean)

	total := float64(p.TotalAssignments())
	score -= w.GlobalLoadWeight * (total - ctx.globalMean)

	if p.QualifiedForMultipleRoles() && total > 0 {
		expected := total / float64(len(p.Roles))
		if roleCount < expected {
			score += w.DiversityWeight * (expected - roleCount)
		}
		if p.Counts[role.ID] == 0 && total >= minTotalForNeverHeld {
			score += w.NeverHeldBonus
		}
	}

	if last, ok := p.LastAssigned[role.ID]; !ok || last.IsZero() {
		score += w.FirstTimeBonus
	} else {
		days := float64(occ.Date.DaysSince(last))
		if days < 0 {
			days = 0
		}
		score -= w.RecencyPenalty * math.Exp(-days/w.RecencyDecayDays)
	}

	return score
}

// heldPreceding checks both the recorded midweek grouping preference and the
// preceding occurrence's duty, so continuity also holds when the previous
// duty was pre-seeded.
func (s Scorer) heldPreceding(prev model.Occurrence, roleID, personID string, ctx *scoreContext) bool {
	if ctx.groupPrefs[groupKey(prev.Date, roleID)] == personID {
		return true
	}
	return heldRole(prev, roleID, personID)
}

func heldRole(o model.Occurrence, roleID, personID string) bool {
	d, ok := o.Duties[roleID]
	return ok && d.PersonID != nil && *d.PersonID == personID
}

func groupKey(d model.Date, roleID string) string {
	return d.String() + "|" + roleID
}

// meanRoleCount returns the average assignment count for the role across the
// eligible candidates.
func meanRoleCount(eligible []*model.Person, roleID string) float64 {
	if len(eligible) == 0 {
		return 0
	}
	counts := make([]float64, len(eligible))
	for i, p := range eligible {
		counts[i] = float64(p.Counts[roleID])
	}
	return stat.Mean(counts, nil)
}

// meanTotal returns the average total assignment count across all tracked
// people.
func meanTotal(people []*model.Person) float64 {
	if len(people) == 0 {
		return 0
	}
	totals := make([]float64, len(people))
	for i, p := range people {
		totals[i] = float64(p.TotalAssignments())
	}
	return stat.Mean(totals, nil)
}
