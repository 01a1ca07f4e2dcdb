package roster

import (
	"errors"
	"sort"
	"time"

	"github.com/dutymgr/dutymgr/core/model"
)

// MeetingDays holds the two configured meeting weekdays.
type MeetingDays struct {
	Midweek time.Weekday `json:"midweek"`
	Weekend time.Weekday `json:"weekend"`
}

// Validate checks the two weekdays are distinct.
func (d MeetingDays) Validate() error {
	if d.Midweek == d.Weekend {
		return ErrSameMeetingDays
	}
	return nil
}

// SpecialOccurrence is a one-off event: a commemoration, an assembly day, or
// any meeting carrying pre-seeded duties that the engine must not overwrite.
type SpecialOccurrence struct {
	Date    model.Date            `json:"date"`
	Comment string                `json:"comment,omitempty"`
	Duties  map[string]model.Duty `json:"duties,omitempty"`
}

var (
	// ErrInvalidWeeks indicates a non-positive window length.
	ErrInvalidWeeks = errors.New("roster: weeks must be positive")
	// ErrSameMeetingDays indicates the two meeting weekdays coincide.
	ErrSameMeetingDays = errors.New("roster: meeting days must be distinct")
	// ErrMissingStart indicates the window has no start date.
	ErrMissingStart = errors.New("roster: start date is required")
)

// Window returns the inclusive bounds of the generation window: the first
// occurrence of the midweek weekday on or after start, and the last day of the
// weeks*7-day walk from it.
func Window(start model.Date, weeks int, days MeetingDays) (model.Date, model.Date) {
	first := start
	for first.Weekday() != days.Midweek {
		first = first.AddDays(1)
	}
	return first, first.AddDays(weeks*7 - 1)
}

// GenerateDates produces the ordered meeting occurrences for a window.
//
// Starting from the first midweek weekday on or after start, the walk visits
// every day for weeks*7 days. Days matching either configured weekday become
// regular occurrences. Omitted dates are skipped entirely and always win over
// a coinciding special occurrence, which is dropped. A special record matching
// a walked day is emitted in place of the regular occurrence, consuming the
// record; records left over whose dates fall inside the window on off-pattern
// weekdays are emitted afterwards, tagged with their actual weekday. The
// result is sorted by date ascending and is stable across calls.
func GenerateDates(start model.Date, weeks int, days MeetingDays, omitted []model.Date, specials []SpecialOccurrence) ([]model.Occurrence, error) {
	if start.IsZero() {
		return nil, ErrMissingStart
	}
	if weeks <= 0 {
		return nil, ErrInvalidWeeks
	}
	if err := days.Validate(); err != nil {
		return nil, err
	}

	omittedSet := make(map[string]struct{}, len(omitted))
	for _, d := range omitted {
		omittedSet[d.String()] = struct{}{}
	}
	pending := make(map[string]SpecialOccurrence, len(specials))
	for _, s := range specials {
		pending[s.Date.String()] = s
	}

	first, last := Window(start, weeks, days)
	out := make([]model.Occurrence, 0, weeks*2)

	for cur := first; !cur.After(last); cur = cur.AddDays(1) {
		wd := cur.Weekday()
		if wd != days.Midweek && wd != days.Weekend {
			continue
		}
		key := cur.String()
		if _, skip := omittedSet[key]; skip {
			delete(pending, key)
			continue
		}
		occ := model.Occurrence{
			Date:    cur,
			Weekday: wd.String(),
			Kind:    model.KindRegular,
			Duties:  map[string]model.Duty{},
		}
		if sp, ok := pending[key]; ok {
			occ.Kind = model.KindSpecial
			occ.Comment = sp.Comment
			occ.Duties = seedDuties(sp.Duties)
			delete(pending, key)
		}
		out = append(out, occ)
	}

	// Leftover specials on off-pattern weekdays, e.g. a midweek
	// commemorative date.
	for _, sp := range pending {
		if sp.Date.Before(first) || sp.Date.After(last) {
			continue
		}
		if _, skip := omittedSet[sp.Date.String()]; skip {
			continue
		}
		out = append(out, model.Occurrence{
			Date:    sp.Date,
			Weekday: sp.Date.Weekday().String(),
			Kind:    model.KindSpecial,
			Comment: sp.Comment,
			Duties:  seedDuties(sp.Duties),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// seedDuties copies pre-seeded duties, marking each as manually assigned so
// the engine leaves them alone.
func seedDuties(in map[string]model.Duty) map[string]model.Duty {
	out := make(map[string]model.Duty, len(in))
	for roleID, duty := range in {
		if duty.PersonID != nil {
			id := *duty.PersonID
			duty.PersonID = &id
		}
		duty.ManuallyAssigned = true
		out[roleID] = duty
	}
	return out
}
