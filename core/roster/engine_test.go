package roster

import (
	"testing"
	"time"

	"github.com/dutymgr/dutymgr/core/model"
)

func newTestEngine() *Engine {
	return NewEngine(NewScorer(), FirstTieBreaker{}, DefaultTieTolerance)
}

func testPeople(ids ...string) []model.Person {
	out := make([]model.Person, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Person{ID: id, Name: id, Roles: []string{"audio"}})
	}
	return out
}

func generateSeq(t *testing.T, weeks int) []model.Occurrence {
	t.Helper()
	seq, err := GenerateDates(model.NewDate(2025, time.March, 3), weeks, testDays, nil, nil)
	if err != nil {
		t.Fatalf("generate dates: %v", err)
	}
	return seq
}

func TestAssignFillsEveryDuty(t *testing.T) {
	seq := generateSeq(t, 4)
	roles := []model.Role{{ID: "audio", Name: "Audio", Qualified: []string{"a", "b", "c"}}}
	st := NewRotationState(testPeople("a", "b", "c"))

	conflicts := newTestEngine().Assign(seq, roles, st, testDays)
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %+v", conflicts)
	}
	for _, occ := range seq {
		duty, ok := occ.Duties["audio"]
		if !ok || duty.PersonID == nil {
			t.Fatalf("unfilled duty on %s", occ.Date)
		}
	}
}

func TestAssignNeverDoubleBooks(t *testing.T) {
	seq := generateSeq(t, 4)
	roles := []model.Role{
		{ID: "audio", Name: "Audio", Qualified: []string{"a", "b"}},
		{ID: "stage", Name: "Stage", Qualified: []string{"a", "b"}},
	}
	st := NewRotationState(testPeople("a", "b"))

	conflicts := newTestEngine().Assign(seq, roles, st, testDays)
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %+v", conflicts)
	}
	for _, occ := range seq {
		audio := occ.Duties["audio"]
		stage := occ.Duties["stage"]
		if audio.PersonID == nil || stage.PersonID == nil {
			t.Fatalf("unfilled duty on %s", occ.Date)
		}
		if *audio.PersonID == *stage.PersonID {
			t.Fatalf("%s double-booked on %s", *audio.PersonID, occ.Date)
		}
	}
}

func TestAssignRespectsQualification(t *testing.T) {
	seq := generateSeq(t, 4)
	roles := []model.Role{{ID: "audio", Name: "Audio", Qualified: []string{"a"}}}
	st := NewRotationState(testPeople("a", "b", "c"))

	newTestEngine().Assign(seq, roles, st, testDays)
	for _, occ := range seq {
		duty := occ.Duties["audio"]
		if duty.PersonID == nil || *duty.PersonID != "a" {
			t.Fatalf("unqualified assignment on %s: %+v", occ.Date, duty)
		}
	}
}

func TestAssignRespectsUnavailability(t *testing.T) {
	seq := generateSeq(t, 4)
	people := []model.Person{
		{ID: "a", Name: "a", Roles: []string{"audio"}, Unavailability: []model.UnavailabilityPeriod{
			{Start: model.NewDate(2025, time.March, 5), End: model.NewDate(2025, time.March, 16)},
		}},
		{ID: "b", Name: "b", Roles: []string{"audio"}},
	}
	roles := []model.Role{{ID: "audio", Name: "Audio", Qualified: []string{"a", "b"}}}
	st := NewRotationState(people)

	conflicts := newTestEngine().Assign(seq, roles, st, testDays)
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %+v", conflicts)
	}
	for _, occ := range seq[:4] {
		duty := occ.Duties["audio"]
		if *duty.PersonID != "b" {
			t.Fatalf("unavailable person assigned on %s", occ.Date)
		}
	}
}

func TestAssignBalancesAfterUnavailability(t *testing.T) {
	seq := generateSeq(t, 4) // 8 meetings
	people := []model.Person{
		{ID: "a", Name: "a", Roles: []string{"audio"}, Unavailability: []model.UnavailabilityPeriod{
			{Start: model.NewDate(2025, time.March, 5), End: model.NewDate(2025, time.March, 12)},
		}},
		{ID: "b", Name: "b", Roles: []string{"audio"}},
	}
	roles := []model.Role{{ID: "audio", Name: "Audio", Qualified: []string{"a", "b"}}}
	st := NewRotationState(people)

	conflicts := newTestEngine().Assign(seq, roles, st, testDays)
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %+v", conflicts)
	}
	counts := map[string]int{}
	for i, occ := range seq {
		holder := *occ.Duties["audio"].PersonID
		if i < 3 && holder != "b" {
			t.Fatalf("meeting %d must go to the only available person, got %s", i, holder)
		}
		counts[holder]++
	}
	if counts["a"]+counts["b"] != 8 {
		t.Fatalf("expected 8 assignments, got %+v", counts)
	}
	// The load penalties must pull the remaining meetings toward "a".
	if counts["a"] < 2 {
		t.Fatalf("fairness failed to catch up: %+v", counts)
	}
}

func TestAssignZeroQualifiedRole(t *testing.T) {
	seq := generateSeq(t, 4)
	roles := []model.Role{{ID: "video", Name: "Video", Qualified: nil}}
	st := NewRotationState(testPeople("a", "b"))

	conflicts := newTestEngine().Assign(seq, roles, st, testDays)
	if len(conflicts) != len(seq) {
		t.Fatalf("expected one conflict per occurrence, got %d of %d", len(conflicts), len(seq))
	}
	for _, c := range conflicts {
		if c.Kind != model.ConflictUnfilled || c.RoleID != "video" {
			t.Fatalf("unexpected conflict: %+v", c)
		}
	}
	for _, occ := range seq {
		duty := occ.Duties["video"]
		if duty.PersonID != nil || !duty.HasConflict {
			t.Fatalf("unfilled duty not flagged on %s: %+v", occ.Date, duty)
		}
	}
}

func TestAssignConflictBreakdown(t *testing.T) {
	seq := generateSeq(t, 1)
	people := []model.Person{
		{ID: "a", Name: "a", Roles: []string{"audio"}, Unavailability: []model.UnavailabilityPeriod{
			{Start: model.NewDate(2025, time.March, 1), End: model.NewDate(2025, time.March, 31)},
		}},
	}
	roles := []model.Role{{ID: "audio", Name: "Audio", Qualified: []string{"a"}}}
	st := NewRotationState(people)

	conflicts := newTestEngine().Assign(seq, roles, st, testDays)
	if len(conflicts) != 2 {
		t.Fatalf("expected 2 conflicts, got %d", len(conflicts))
	}
	if conflicts[0].Unavailable != 1 || conflicts[0].DoubleBooked != 0 {
		t.Fatalf("wrong breakdown: %+v", conflicts[0])
	}
}

func TestAssignFairness(t *testing.T) {
	seq := generateSeq(t, 6) // 12 meetings
	roles := []model.Role{{ID: "audio", Name: "Audio", Qualified: []string{"a", "b", "c"}}}
	st := NewRotationState(testPeople("a", "b", "c"))

	newTestEngine().Assign(seq, roles, st, testDays)
	counts := map[string]int{}
	for _, occ := range seq {
		counts[*occ.Duties["audio"].PersonID]++
	}
	min, max := len(seq), 0
	for _, id := range []string{"a", "b", "c"} {
		if counts[id] < min {
			min = counts[id]
		}
		if counts[id] > max {
			max = counts[id]
		}
	}
	if max-min > 2 {
		t.Fatalf("load spread too wide: %+v", counts)
	}
}

func TestAssignGroupedRoleWeeklyContinuity(t *testing.T) {
	seq := generateSeq(t, 6)
	roles := []model.Role{{ID: "audio", Name: "Audio", Grouped: true, Qualified: []string{"a", "b", "c"}}}
	st := NewRotationState(testPeople("a", "b", "c"))

	newTestEngine().Assign(seq, roles, st, testDays)
	for i := 0; i+1 < len(seq); i += 2 {
		wed, sun := seq[i], seq[i+1]
		if !wed.Date.SameISOWeek(sun.Date) {
			continue
		}
		a, b := wed.Duties["audio"], sun.Duties["audio"]
		if *a.PersonID != *b.PersonID {
			t.Fatalf("week of %s split between %s and %s", wed.Date, *a.PersonID, *b.PersonID)
		}
	}
}

func TestAssignKeepsSeededDuties(t *testing.T) {
	seq := generateSeq(t, 2)
	id := "c"
	seq[0].Duties["audio"] = model.Duty{PersonID: &id, ManuallyAssigned: true}
	roles := []model.Role{{ID: "audio", Name: "Audio", Qualified: []string{"a", "b", "c"}}}
	st := NewRotationState(testPeople("a", "b", "c"))

	newTestEngine().Assign(seq, roles, st, testDays)
	duty := seq[0].Duties["audio"]
	if *duty.PersonID != "c" || !duty.ManuallyAssigned {
		t.Fatalf("seeded duty overwritten: %+v", duty)
	}
	p, _ := st.Person("c")
	if p.Counts["audio"] == 0 {
		t.Fatal("seeded duty must feed the rotation counters")
	}
}

func TestOrderByConstraint(t *testing.T) {
	roles := []model.Role{
		{ID: "audio", Qualified: []string{"a", "b", "c"}},
		{ID: "stage", Qualified: []string{"a"}},
		{ID: "video", Qualified: []string{"a", "b"}},
	}
	ordered := orderByConstraint(roles)
	got := []string{ordered[0].ID, ordered[1].ID, ordered[2].ID}
	want := []string{"stage", "video", "audio"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
	if roles[0].ID != "audio" {
		t.Fatal("input slice must stay untouched")
	}
}
