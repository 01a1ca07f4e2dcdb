package model

// OccurrenceKind classifies a meeting occurrence.
type OccurrenceKind string

const (
	// KindRegular is a meeting on one of the two configured weekdays.
	KindRegular OccurrenceKind = "regular"
	// KindSpecial is an out-of-rotation event such as a commemoration.
	KindSpecial OccurrenceKind = "special"
	// KindOmitted marks a meeting cancelled after generation by manual
	// editing. The generator itself never emits it: omitted dates are
	// skipped entirely.
	KindOmitted OccurrenceKind = "omitted"
)

// Duty records the assignment, or non-assignment, of one role at one meeting.
// A nil PersonID means the slot is unfilled.
type Duty struct {
	PersonID         *string `json:"personId"`
	ManuallyAssigned bool    `json:"manuallyAssigned"`
	HasConflict      bool    `json:"hasConflict"`
	NeedsReview      bool    `json:"needsReview,omitempty"`
}

// Assigned reports whether the duty holds a person.
func (d Duty) Assigned() bool { return d.PersonID != nil }

// Occurrence is one meeting on a calendar date. Weekday carries the name of
// the actual weekday, which for special occurrences may be outside the two
// configured meeting days.
type Occurrence struct {
	Date    Date            `json:"date"`
	Weekday string          `json:"weekday"`
	Kind    OccurrenceKind  `json:"kind"`
	Comment string          `json:"comment,omitempty"`
	Duties  map[string]Duty `json:"duties"`
}

// HasPerson reports whether any duty of the meeting already holds personID.
func (o Occurrence) HasPerson(personID string) bool {
	for _, d := range o.Duties {
		if d.PersonID != nil && *d.PersonID == personID {
			return true
		}
	}
	return false
}

// ConflictUnfilled is the only conflict kind the engine emits.
const ConflictUnfilled = "unfilled"

// Conflict describes a role the engine could not fill for a meeting, with a
// breakdown of why the qualified pool yielded no candidate.
type Conflict struct {
	Kind         string `json:"kind"`
	Date         Date   `json:"date"`
	RoleID       string `json:"roleId"`
	Message      string `json:"message"`
	Unavailable  int    `json:"unavailableCount"`
	DoubleBooked int    `json:"doubleBookedCount"`
}

// Schedule is the output of one generation run: the ordered meetings of the
// window plus every conflict encountered while filling them.
type Schedule struct {
	Start     Date         `json:"start"`
	End       Date         `json:"end"`
	Meetings  []Occurrence `json:"meetings"`
	Conflicts []Conflict   `json:"conflicts"`
}
