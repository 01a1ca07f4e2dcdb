package roster

import (
	"math"
	"testing"
	"time"

	"github.com/dutymgr/dutymgr/core/model"
)

func singleMeetingCtx(d model.Date) *scoreContext {
	return &scoreContext{
		seq: []model.Occurrence{{
			Date:   d,
			Duties: map[string]model.Duty{},
		}},
		groupPrefs: map[string]string{},
	}
}

func TestScoreFreshCandidate(t *testing.T) {
	s := NewScorer()
	p := &model.Person{ID: "p1", Roles: []string{"audio"}}
	role := model.Role{ID: "audio", Qualified: []string{"p1"}}
	got := s.Score(p, role, singleMeetingCtx(model.NewDate(2025, time.March, 5)))
	want := s.Weights.Base + s.Weights.FirstTimeBonus
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestScoreGroupingContinuity(t *testing.T) {
	s := NewScorer()
	wed := model.NewDate(2025, time.March, 5)
	sun := model.NewDate(2025, time.March, 9)
	ctx := &scoreContext{
		seq: []model.Occurrence{
			{Date: wed, Duties: map[string]model.Duty{}},
			{Date: sun, Duties: map[string]model.Duty{}},
		},
		idx:        1,
		groupPrefs: map[string]string{groupKey(wed, "audio"): "p1"},
	}
	role := model.Role{ID: "audio", Grouped: true, Qualified: []string{"p1", "p2"}}
	p1 := &model.Person{ID: "p1", Roles: []string{"audio"}}
	p2 := &model.Person{ID: "p2", Roles: []string{"audio"}}

	diff := s.Score(p1, role, ctx) - s.Score(p2, role, ctx)
	if math.Abs(diff-s.Weights.GroupingBonus) > 1e-9 {
		t.Fatalf("expected grouping bonus %v, got diff %v", s.Weights.GroupingBonus, diff)
	}
}

func TestScoreGroupingFromSeededDuty(t *testing.T) {
	s := NewScorer()
	wed := model.NewDate(2025, time.March, 5)
	sun := model.NewDate(2025, time.March, 9)
	id := "p1"
	ctx := &scoreContext{
		seq: []model.Occurrence{
			{Date: wed, Duties: map[string]model.Duty{"audio": {PersonID: &id, ManuallyAssigned: true}}},
			{Date: sun, Duties: map[string]model.Duty{}},
		},
		idx:        1,
		groupPrefs: map[string]string{},
	}
	role := model.Role{ID: "audio", Grouped: true, Qualified: []string{"p1", "p2"}}
	p1 := &model.Person{ID: "p1", Roles: []string{"audio"}}
	p2 := &model.Person{ID: "p2", Roles: []string{"audio"}}

	if s.Score(p1, role, ctx) <= s.Score(p2, role, ctx) {
		t.Fatal("manually seeded midweek duty must still drive continuity")
	}
}

func TestScoreAntiRepeat(t *testing.T) {
	s := NewScorer()
	id := "p1"
	prevSun := model.NewDate(2025, time.March, 9)
	wed := model.NewDate(2025, time.March, 12)
	sun := model.NewDate(2025, time.March, 16)
	ctx := &scoreContext{
		seq: []model.Occurrence{
			{Date: prevSun, Duties: map[string]model.Duty{"audio": {PersonID: &id}}},
			{Date: wed, Duties: map[string]model.Duty{}},
			{Date: sun, Duties: map[string]model.Duty{}},
		},
		idx:        2,
		groupPrefs: map[string]string{},
	}
	role := model.Role{ID: "audio", Grouped: true, Qualified: []string{"p1", "p2"}}
	p1 := &model.Person{ID: "p1", Roles: []string{"audio"}}
	p2 := &model.Person{ID: "p2", Roles: []string{"audio"}}

	diff := s.Score(p2, role, ctx) - s.Score(p1, role, ctx)
	if math.Abs(diff-s.Weights.AntiRepeatPenalty) > 1e-9 {
		t.Fatalf("expected anti-repeat penalty %v, got diff %v", s.Weights.AntiRepeatPenalty, diff)
	}
}

func TestScoreLoadPenalties(t *testing.T) {
	s := NewScorer()
	ctx := singleMeetingCtx(model.NewDate(2025, time.March, 5))
	ctx.roleMean = 1.5
	ctx.globalMean = 1.5
	role := model.Role{ID: "audio", Qualified: []string{"busy", "idle"}}
	busy := &model.Person{ID: "busy", Roles: []string{"audio"}, Counts: map[string]int{"audio": 3}}
	idle := &model.Person{ID: "idle", Roles: []string{"audio"}}

	sb := s.Score(busy, role, ctx)
	si := s.Score(idle, role, ctx)
	if sb >= si {
		t.Fatalf("busier person must score lower: busy=%v idle=%v", sb, si)
	}
	// busy also loses the first-time bonus since history implies assignment,
	// but here LastAssigned is unset for both, so only the load terms differ.
	want := 3 * (s.Weights.RoleLoadWeight + s.Weights.GlobalLoadWeight)
	if math.Abs((si-sb)-want) > 1e-9 {
		t.Fatalf("expected load gap %v, got %v", want, si-sb)
	}
}

func TestScoreDiversity(t *testing.T) {
	s := NewScorer()
	ctx := singleMeetingCtx(model.NewDate(2025, time.March, 5))
	ctx.globalMean = 4
	role := model.Role{ID: "audio", Qualified: []string{"multi", "single"}}
	multi := &model.Person{ID: "multi", Roles: []string{"audio", "stage"}, Counts: map[string]int{"stage": 4}}
	single := &model.Person{ID: "single", Roles: []string{"stage"}, Counts: map[string]int{"stage": 4}}

	diff := s.Score(multi, role, ctx) - s.Score(single, role, ctx)
	// Half of multi's four duties were expected on audio, plus the flat
	// never-held bonus for meaningful history elsewhere.
	want := s.Weights.DiversityWeight*2 + s.Weights.NeverHeldBonus
	if math.Abs(diff-want) > 1e-9 {
		t.Fatalf("expected diversity gap %v, got %v", want, diff)
	}
}

func TestScoreRecencyDecay(t *testing.T) {
	s := NewScorer()
	d := model.NewDate(2025, time.March, 5)
	ctx := singleMeetingCtx(d)
	role := model.Role{ID: "audio", Qualified: []string{"recent", "stale"}}
	recent := &model.Person{ID: "recent", Roles: []string{"audio"},
		LastAssigned: map[string]model.Date{"audio": d.AddDays(-3)}}
	stale := &model.Person{ID: "stale", Roles: []string{"audio"},
		LastAssigned: map[string]model.Date{"audio": d.AddDays(-300)}}

	sr := s.Score(recent, role, ctx)
	ss := s.Score(stale, role, ctx)
	if sr >= ss {
		t.Fatalf("recent assignee must score lower: recent=%v stale=%v", sr, ss)
	}
	if ss-sr > s.Weights.RecencyPenalty {
		t.Fatalf("recency gap %v exceeds the maximum penalty", ss-sr)
	}
}

func TestDefaultWeightOrdering(t *testing.T) {
	w := DefaultWeights()
	if w.GroupingBonus <= w.AntiRepeatPenalty {
		t.Fatal("grouping must dominate anti-repeat")
	}
	if w.AntiRepeatPenalty <= w.GlobalLoadWeight {
		t.Fatal("anti-repeat must dominate the load terms")
	}
	if w.GlobalLoadWeight <= w.RoleLoadWeight {
		t.Fatal("overall fairness must outrank per-role fairness")
	}
	if w.RoleLoadWeight <= w.DiversityWeight {
		t.Fatal("load must dominate diversity")
	}
	if w.DiversityWeight <= w.RecencyPenalty {
		t.Fatal("diversity must dominate recency")
	}
}
