package domain

// EventRegistration is a denormalized per-participant record written once at
// registration time. It feeds dashboard statistics independently of the
// Event.Applications array.
type EventRegistration struct {
	Record
	EventID string `json:"event_id"`
	TeamID  string `json:"team_id,omitempty"`

	// RegistrantID is the account that performed the registration. For team
	// registrations this is the leader; participants may differ.
	RegistrantID string `json:"registrant_id"`

	// Participant identity, denormalized for statistics.
	ParticipantUserID string `json:"participant_user_id,omitempty"`
	Name              string `json:"name"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Gender            string `json:"gender,omitempty"`
	Degree            string `json:"degree,omitempty"`
	Year              int    `json:"year,omitempty"`
	College           string `json:"college,omitempty"`
}
