package roster

import (
	"testing"
	"time"

	"github.com/dutymgr/dutymgr/core/model"
)

func TestRecordAssignment(t *testing.T) {
	st := NewRotationState(testPeople("a"))
	d := model.NewDate(2025, time.March, 5)
	st.RecordAssignment("a", "audio", d)
	st.RecordAssignment("a", "audio", d.AddDays(7))

	p, ok := st.Person("a")
	if !ok {
		t.Fatal("person missing from state")
	}
	if p.Counts["audio"] != 2 {
		t.Fatalf("expected count 2, got %d", p.Counts["audio"])
	}
	if !p.LastAssigned["audio"].Equal(d.AddDays(7)) {
		t.Fatalf("expected last assigned %s, got %s", d.AddDays(7), p.LastAssigned["audio"])
	}
}

func TestRecordAssignmentKeepsNewestDate(t *testing.T) {
	st := NewRotationState(testPeople("a"))
	d := model.NewDate(2025, time.March, 12)
	st.RecordAssignment("a", "audio", d)
	st.RecordAssignment("a", "audio", d.AddDays(-7))

	p, _ := st.Person("a")
	if !p.LastAssigned["audio"].Equal(d) {
		t.Fatalf("older date overwrote newer: %s", p.LastAssigned["audio"])
	}
}

func TestRecordAssignmentUnknownPerson(t *testing.T) {
	st := NewRotationState(testPeople("a"))
	st.RecordAssignment("ghost", "audio", model.NewDate(2025, time.March, 5))
	if _, ok := st.Person("ghost"); ok {
		t.Fatal("unknown person must not be created")
	}
}

func TestStateDoesNotMutateInput(t *testing.T) {
	people := testPeople("a")
	st := NewRotationState(people)
	st.RecordAssignment("a", "audio", model.NewDate(2025, time.March, 5))
	if people[0].Counts["audio"] != 0 {
		t.Fatal("input records must stay untouched")
	}
}

func priorSchedule(t *testing.T, weeks int, holders []string) *model.Schedule {
	t.Helper()
	seq := generateSeq(t, weeks)
	for i := range seq {
		id := holders[i%len(holders)]
		seq[i].Duties = map[string]model.Duty{"audio": {PersonID: &id}}
	}
	return &model.Schedule{Meetings: seq}
}

func TestRebuildFromHistoryBoundedCounts(t *testing.T) {
	// 16 meetings, all held by "a".
	prior := priorSchedule(t, 8, []string{"a"})
	st := NewRotationState(testPeople("a", "b"))
	st.RebuildFromHistory(prior, 4)

	p, _ := st.Person("a")
	if p.Counts["audio"] != 4 {
		t.Fatalf("expected only the trailing 4 meetings counted, got %d", p.Counts["audio"])
	}
}

func TestRebuildFromHistoryUnboundedRecency(t *testing.T) {
	// "b" only held the very first meeting, far outside the lookback window.
	prior := priorSchedule(t, 8, []string{"a"})
	first := prior.Meetings[0].Date
	id := "b"
	prior.Meetings[0].Duties["audio"] = model.Duty{PersonID: &id}

	st := NewRotationState(testPeople("a", "b"))
	st.RebuildFromHistory(prior, 4)

	p, _ := st.Person("b")
	if p.Counts["audio"] != 0 {
		t.Fatalf("pre-lookback meeting leaked into counts: %d", p.Counts["audio"])
	}
	if !p.LastAssigned["audio"].Equal(first) {
		t.Fatalf("last assigned must span the whole history, got %s", p.LastAssigned["audio"])
	}
}

func TestRebuildFromHistoryResetsStaleCounts(t *testing.T) {
	people := testPeople("a")
	people[0].Counts = map[string]int{"audio": 99}
	st := NewRotationState(people)
	st.RebuildFromHistory(&model.Schedule{}, 4)

	p, _ := st.Person("a")
	if p.Counts["audio"] != 0 {
		t.Fatalf("stale counts survived the rebuild: %d", p.Counts["audio"])
	}
}

func TestRebuildFromHistorySkipsDepartedPeople(t *testing.T) {
	prior := priorSchedule(t, 2, []string{"gone"})
	st := NewRotationState(testPeople("a"))
	st.RebuildFromHistory(prior, 16)
	if _, ok := st.Person("gone"); ok {
		t.Fatal("departed person must not be resurrected")
	}
}
