package model

import "fmt"

// UnavailabilityPeriod marks a date range during which a person cannot serve.
// Both endpoints are inclusive.
type UnavailabilityPeriod struct {
	Start  Date   `json:"start"`
	End    Date   `json:"end"`
	Reason string `json:"reason,omitempty"`
}

// Contains reports whether the day falls inside the period.
func (u UnavailabilityPeriod) Contains(d Date) bool {
	return !d.Before(u.Start) && !d.After(u.End)
}

// Person is a roster participant. The rotation bookkeeping fields are mutated
// only by the engine, and only on working copies held in a RotationState; the
// caller's records stay untouched until it commits the generated schedule.
type Person struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Roles          []string               `json:"roles"`
	Unavailability []UnavailabilityPeriod `json:"unavailability,omitempty"`

	LastAssigned map[string]Date `json:"lastAssigned,omitempty"`
	Counts       map[string]int  `json:"assignmentCounts,omitempty"`
}

// Validate checks that the person record is structurally sound.
func (p Person) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("person %q: empty id", p.Name)
	}
	for _, u := range p.Unavailability {
		if u.Start.IsZero() || u.End.IsZero() {
			return fmt.Errorf("person %s: unavailability period missing a bound", p.ID)
		}
		if u.End.Before(u.Start) {
			return fmt.Errorf("person %s: unavailability period ends before it starts", p.ID)
		}
	}
	return nil
}

// AvailableOn reports whether no unavailability period contains the day.
func (p Person) AvailableOn(d Date) bool {
	for _, u := range p.Unavailability {
		if u.Contains(d) {
			return false
		}
	}
	return true
}

// TotalAssignments sums the assignment counts across all roles.
func (p Person) TotalAssignments() int {
	total := 0
	for _, c := range p.Counts {
		total += c
	}
	return total
}

// QualifiedForMultipleRoles reports whether the person can serve in two or
// more roles, the precondition for the diversity scoring terms.
func (p Person) QualifiedForMultipleRoles() bool {
	return len(p.Roles) >= 2
}

// Clone returns a deep copy safe to mutate independently.
func (p Person) Clone() Person {
	cp := p
	cp.Roles = append([]string(nil), p.Roles...)
	cp.Unavailability = append([]UnavailabilityPeriod(nil), p.Unavailability...)
	if p.LastAssigned != nil {
		cp.LastAssigned = make(map[string]Date, len(p.LastAssigned))
		for k, v := range p.LastAssigned {
			cp.LastAssigned[k] = v
		}
	}
	if p.Counts != nil {
		cp.Counts = make(map[string]int, len(p.Counts))
		for k, v := range p.Counts {
			cp.Counts[k] = v
		}
	}
	return cp
}
