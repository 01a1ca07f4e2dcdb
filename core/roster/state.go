package roster

import "github.com/dutymgr/dutymgr/core/model"

// RotationState indexes working copies of person records by identifier. The
// engine mutates only these copies; the caller's records stay untouched until
// it commits the generated schedule, so an aborted run leaves no trace.
type RotationState struct {
	people map[string]*model.Person
	ids    []string
}

// NewRotationState deep-copies the given people into a fresh working state.
func NewRotationState(people []model.Person) *RotationState {
	st := &RotationState{
		people: make(map[string]*model.Person, len(people)),
		ids:    make([]string, 0, len(people)),
	}
	for _, p := range people {
		cp := p.Clone()
		st.people[cp.ID] = &cp
		st.ids = append(st.ids, cp.ID)
	}
	return st
}

// Person returns the working copy for the identifier.
func (st *RotationState) Person(id string) (*model.Person, bool) {
	p, ok := st.people[id]
	return p, ok
}

// People returns the working copies in roster order.
func (st *RotationState) People() []*model.Person {
	out := make([]*model.Person, 0, len(st.ids))
	for _, id := range st.ids {
		out = append(out, st.people[id])
	}
	return out
}

// RecordAssignment updates the rotation counters for one filled duty.
func (st *RotationState) RecordAssignment(personID, roleID string, d model.Date) {
	p, ok := st.people[personID]
	if !ok {
		return
	}
	if p.Counts == nil {
		p.Counts = make(map[string]int)
	}
	p.Counts[roleID]++
	if p.LastAssigned == nil {
		p.LastAssigned = make(map[string]model.Date)
	}
	if last, ok := p.LastAssigned[roleID]; !ok || d.After(last) {
		p.LastAssigned[roleID] = d
	}
}

// RebuildFromHistory prepares the state for extending an existing schedule.
//
// Per-role counts are reset and re-accumulated from only the trailing lookback
// meetings, keeping fairness responsive to recent history. Last-assigned dates
// are merged from the entire prior schedule instead, so a recency bonus never
// fires for someone whose last duty merely predates the lookback boundary.
// Duties naming a person no longer on the roster are skipped.
func (st *RotationState) RebuildFromHistory(prior *model.Schedule, lookback int) {
	if prior == nil {
		return
	}
	for _, p := range st.people {
		p.Counts = make(map[string]int)
	}
	countFrom := len(prior.Meetings) - lookback
	if countFrom < 0 {
		countFrom = 0
	}
	for i, m := range prior.Meetings {
		for roleID, duty := range m.Duties {
			if duty.PersonID == nil {
				continue
			}
			p, ok := st.people[*duty.PersonID]
			if !ok {
				continue
			}
			if p.LastAssigned == nil {
				p.LastAssigned = make(map[string]model.Date)
			}
			if last, ok := p.LastAssigned[roleID]; !ok || m.Date.After(last) {
				p.LastAssigned[roleID] = m.Date
			}
			if i >= countFrom {
				if p.Counts == nil {
					p.Counts = make(map[string]int)
				}
				p.Counts[roleID]++
			}
		}
	}
}
