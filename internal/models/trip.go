package models

// Participant identifies someone who can pay or owe money.
// Participants are immutable once created and are referenced by ID.
type Participant struct {
	// ID is the stable unique identifier of the participant.
	ID string

	// Name is an optional display name.
	Name string
}

// Trip represents a group of participants sharing costs.
// Each trip has its own expense log and balance sheet.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Name is the display name of the trip (e.g., "Rome 2026").
	Name string

	// Members is the trip roster in the order participants joined.
	Members []Participant

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}

// MemberIDs returns the participant IDs of the roster in join order.
func (t *Trip) MemberIDs() []string {
	ids := make([]string, len(t.Members))
	for i, m := range t.Members {
		ids[i] = m.ID
	}
	return ids
}

// HasMember reports whether the participant is on the roster.
func (t *Trip) HasMember(id string) bool {
	for _, m := range t.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}
