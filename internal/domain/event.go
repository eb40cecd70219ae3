package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// EventType distinguishes individual from team competitions.
type EventType string

const (
	// EventTypeSolo is registered to by one individual, no team involved.
	EventTypeSolo EventType = "solo"
	// EventTypeGroup requires a team with a leader and members within bounds.
	EventTypeGroup EventType = "group"
)

// ApplicationStatus tracks the review state of an application.
type ApplicationStatus string

const (
	// ApplicationPending is the initial state of every application.
	ApplicationPending ApplicationStatus = "pending"
	// ApplicationApproved marks an application accepted by staff.
	ApplicationApproved ApplicationStatus = "approved"
	// ApplicationRejected marks an application denied by staff.
	ApplicationRejected ApplicationStatus = "rejected"
)

// Application is an owned sub-document of Event recording one participant.
// Group registrations carry the TeamID of the registering team.
type Application struct {
	UserID    string            `json:"user_id"`
	TeamID    string            `json:"team_id,omitempty"`
	AppliedAt time.Time         `json:"applied_at"`
	Status    ApplicationStatus `json:"status"`
}

// Event represents a competition or activity of the fest.
type Event struct {
	Record
	Slug        string    `json:"slug"` // Unique URL identifier derived from the name
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        EventType `json:"type"`
	Club        string    `json:"club,omitempty"`
	Venue       string    `json:"venue,omitempty"`

	MinTeamSize int `json:"min_team_size,omitempty"`
	MaxTeamSize int `json:"max_team_size,omitempty"`

	// MaxApplications caps solo applications, or registered teams for group
	// events. Zero means unlimited.
	MaxApplications int `json:"max_applications,omitempty"`

	RegistrationAmount   int64      `json:"registration_amount,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	StartsAt             *time.Time `json:"starts_at,omitempty"`
	EndsAt               *time.Time `json:"ends_at,omitempty"`

	// Gender-based team quotas, applied only when HasGenderBasedTeams is set.
	HasGenderBasedTeams bool `json:"has_gender_based_teams,omitempty"`
	MaxBoyTeams         int  `json:"max_boy_teams,omitempty"`
	MaxGirlTeams        int  `json:"max_girl_teams,omitempty"`

	StaffInchargeIDs []string `json:"staff_incharge_ids,omitempty"`

	// Applications is an owned child collection; all mutation goes through
	// AddApplication so capacity and uniqueness stay in one place.
	Applications []Application `json:"applications"`
}

// IsGroup reports whether the event requires team registration.
func (e *Event) IsGroup() bool {
	return e.Type == EventTypeGroup
}

// DeadlinePassed reports whether the registration deadline is behind now.
// Events without a deadline never close.
func (e *Event) DeadlinePassed(now time.Time) bool {
	return e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline)
}

// HasApplicant reports whether the user already appears in Applications.
func (e *Event) HasApplicant(userID string) bool {
	for _, a := range e.Applications {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the solo application cap has been reached.
// Group events count registered teams, not raw applications; that check
// lives with the team registration flow.
func (e *Event) IsFull() bool {
	return e.MaxApplications > 0 && len(e.Applications) >= e.MaxApplications
}

// AddApplication appends an application after checking capacity and
// per-user uniqueness. teamID is empty for solo applications.
func (e *Event) AddApplication(userID, teamID string, now time.Time) error {
	if e.HasApplicant(userID) {
		return ErrAlreadyApplied
	}
	if !e.IsGroup() && e.IsFull() {
		return ErrEventFull
	}
	e.Applications = append(e.Applications, Application{
		UserID:    userID,
		TeamID:    teamID,
		AppliedAt: now,
		Status:    ApplicationPending,
	})
	e.Touch()
	return nil
}

// ValidateTeamBounds checks the team size configuration for group events.
func (e *Event) ValidateTeamBounds() error {
	if !e.IsGroup() {
		return nil
	}
	if e.MinTeamSize < 2 {
		return ErrGroupMinSize
	}
	if e.MaxTeamSize < e.MinTeamSize {
		return ErrTeamBoundsInverted
	}
	return nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe identifier from an event name.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugWithSuffix appends a numeric de-duplication suffix (n >= 2).
func SlugWithSuffix(slug string, n int) string {
	return slug + "-" + strconv.Itoa(n)
}
