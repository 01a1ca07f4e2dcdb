package model

import "fmt"

// Role is a duty slot to fill at each meeting. Grouped ties the weekend duty
// to the same person as the midweek duty within one calendar week. Roles are
// immutable during a generation run; the smaller the qualified pool, the
// earlier the engine fills the role.
type Role struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Grouped   bool     `json:"grouped"`
	Qualified []string `json:"qualified"`
}

// Validate checks that the role record is structurally sound.
func (r Role) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("role %q: empty id", r.Name)
	}
	return nil
}

// IsQualified reports whether personID appears in the role's qualified set.
func (r Role) IsQualified(personID string) bool {
	for _, id := range r.Qualified {
		if id == personID {
			return true
		}
	}
	return false
}
