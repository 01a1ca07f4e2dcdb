package roster

import "github.com/dutymgr/dutymgr/core/model"

// IsAvailable reports whether no unavailability period of the person contains
// the day. Comparison is at day resolution, endpoints inclusive.
func IsAvailable(p model.Person, d model.Date) bool {
	return p.AvailableOn(d)
}

// IsQualified reports whether the person appears in the role's qualified set.
func IsQualified(r model.Role, personID string) bool {
	return r.IsQualified(personID)
}

// AlreadyAssigned reports whether any duty of the meeting already holds the
// person.
func AlreadyAssigned(o model.Occurrence, personID string) bool {
	return o.HasPerson(personID)
}

// eligibilityBreakdown counts why qualified people dropped out of the
// candidate pool, for conflict reporting.
type eligibilityBreakdown struct {
	unavailable  int
	doubleBooked int
}

// eligibleCandidates filters the role's qualified pool down to people that
// are available on the date and not already serving in the meeting. Unknown
// identifiers in the qualified list are skipped and counted in neither
// breakdown bucket.
func eligibleCandidates(role model.Role, occ model.Occurrence, st *RotationState) ([]*model.Person, eligibilityBreakdown) {
	var list []*model.Person
	var bd eligibilityBreakdown
	for _, id := range role.Qualified {
		p, ok := st.Person(id)
		if !ok {
			continue
		}
		if !IsAvailable(*p, occ.Date) {
			bd.unavailable++
			continue
		}
		if AlreadyAssigned(occ, id) {
			bd.doubleBooked++
			continue
		}
		list = append(list, p)
	}
	return list, bd
}
