package domain

// TeamGender classifies a team for gender-based quotas.
type TeamGender string

const (
	// TeamGenderMale restricts membership to male participants.
	TeamGenderMale TeamGender = "Male"
	// TeamGenderFemale restricts membership to female participants.
	TeamGenderFemale TeamGender = "Female"
	// TeamGenderMixed places no gender restriction on members.
	TeamGenderMixed TeamGender = "Mixed"
)

// TeamMember is an owned sub-document of Team. A member is either a platform
// user (UserID set) or a direct participant supplied inline at registration.
type TeamMember struct {
	UserID string `json:"user_id,omitempty"`

	// Direct-participant fields, used when UserID is empty.
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`

	Gender   string `json:"gender,omitempty"`
	IsLeader bool   `json:"is_leader"`
}

// Team is the registration unit for group events.
type Team struct {
	Record
	EventID  string       `json:"event_id"`
	Name     string       `json:"name,omitempty"`
	LeaderID string       `json:"leader_id"`
	Members  []TeamMember `json:"members"`

	// IsRegistered marks terminal registration success.
	IsRegistered bool `json:"is_registered"`
	// IsInvalidated soft-denies further registration because a member
	// committed to another team for the same event.
	IsInvalidated bool `json:"is_invalidated"`

	TeamGender TeamGender `json:"team_gender,omitempty"`
}

// DeriveTeamGender classifies a new team from its leader's gender.
// Only meaningful for events with gender-based teams.
func DeriveTeamGender(leaderGender string) TeamGender {
	switch leaderGender {
	case GenderMale:
		return TeamGenderMale
	case GenderFemale:
		return TeamGenderFemale
	default:
		return TeamGenderMixed
	}
}

// HasMember reports whether the user already belongs to the team.
func (t *Team) HasMember(userID string) bool {
	if userID == "" {
		return false
	}
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// Size returns the current member count, leader included.
func (t *Team) Size() int {
	return len(t.Members)
}

// IsActive reports whether the team can still accept members or register.
func (t *Team) IsActive() bool {
	return !t.IsRegistered && !t.IsInvalidated && !t.IsDeleted()
}

// AllowsGender reports whether a member of the given gender may join.
// Binary team genders restrict membership; mixed teams do not.
func (t *Team) AllowsGender(gender string) bool {
	switch t.TeamGender {
	case TeamGenderMale:
		return gender == GenderMale
	case TeamGenderFemale:
		return gender == GenderFemale
	default:
		return true
	}
}

// AddMember appends a member after checking capacity, duplicate membership
// and the team gender restriction. maxMembers of zero means unbounded.
func (t *Team) AddMember(member TeamMember, maxMembers int, genderRestricted bool) error {
	if member.UserID != "" && t.HasMember(member.UserID) {
		return ErrDuplicateMember
	}
	if maxMembers > 0 && t.Size() >= maxMembers {
		return ErrTeamFull
	}
	if genderRestricted && !t.AllowsGender(member.Gender) {
		return ErrGenderMismatch
	}
	t.Members = append(t.Members, member)
	t.Touch()
	return nil
}

// RemoveMember drops the member with the given user ID.
// Returns false when the user is not a member.
func (t *Team) RemoveMember(userID string) bool {
	for i, m := range t.Members {
		if m.UserID == userID {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			t.Touch()
			return true
		}
	}
	return false
}

// MemberUserIDs returns the user IDs of platform-user members.
func (t *Team) MemberUserIDs() []string {
	ids := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		if m.UserID != "" {
			ids = append(ids, m.UserID)
		}
	}
	return ids
}
