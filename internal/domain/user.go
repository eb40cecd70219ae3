package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleUser grants standard participant access.
	RoleUser Role = "user"
	// RoleAdmin grants event-scoped administrative access.
	RoleAdmin Role = "admin"
)

// Gender values accepted for participants. Teams derive their gender
// classification from these.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// User represents a participant, coordinator or admin account.
type User struct {
	Record
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"` // Stored hashed, filtered from API responses
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	IsSuperAdmin bool   `json:"is_super_admin"`

	// Admin-only fields.
	Club            string `json:"club,omitempty"`
	AssignedEventID string `json:"assigned_event_id,omitempty"`

	// Participant fields.
	Phone   string `json:"phone,omitempty"`
	Gender  string `json:"gender,omitempty"`
	Degree  string `json:"degree,omitempty"`
	Year    int    `json:"year,omitempty"`
	College string `json:"college,omitempty"`

	// Verification state. Raw tokens are emailed; only digests are stored.
	IsVerified        bool       `json:"is_verified"`
	VerifyTokenHash   string     `json:"verify_token_hash,omitempty"`
	VerifyTokenExpiry *time.Time `json:"verify_token_expiry,omitempty"`
	OTPHash           string     `json:"otp_hash,omitempty"`
	OTPExpiry         *time.Time `json:"otp_expiry,omitempty"`
	ResetTokenHash    string     `json:"reset_token_hash,omitempty"`
	ResetTokenExpiry  *time.Time `json:"reset_token_expiry,omitempty"`

	LastLoginAt time.Time `json:"last_login_at,omitzero"`
}

// IsAdmin returns true if the user has administrative privileges.
// Super-admins are admins regardless of their role field.
func (u *User) IsAdmin() bool {
	return u.IsSuperAdmin || u.Role == RoleAdmin
}

// CanAdministerEvent reports whether the user may manage the given event.
// Admins are restricted to their assigned event; super-admins are not.
func (u *User) CanAdministerEvent(eventID string) bool {
	if u.IsSuperAdmin {
		return true
	}
	return u.Role == RoleAdmin && u.AssignedEventID == eventID
}

// Sanitize strips secrets before the user is written to an API response.
// Services call this on every user they return, so handlers never need to.
func (u *User) Sanitize() *User {
	clean := *u
	clean.PasswordHash = ""
	clean.VerifyTokenHash = ""
	clean.OTPHash = ""
	clean.ResetTokenHash = ""
	return &clean
}

// NewParticipant constructs a regular user account.
// Participant accounts require contact and demographic fields; defaulting
// lives here rather than in schema callbacks so it is testable in isolation.
func NewParticipant(id, email, passwordHash, name, phone, gender, degree, college string, year int) *User {
	u := &User{
		Record:       Record{ID: id},
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         RoleUser,
		Phone:        phone,
		Gender:       gender,
		Degree:       degree,
		Year:         year,
		College:      college,
	}
	u.InitTimestamps()
	return u
}

// NewAdmin constructs an admin account bound to a club and event.
// Admin accounts default Year to 0 and carry no demographic fields.
func NewAdmin(id, email, passwordHash, name, club, assignedEventID string) *User {
	u := &User{
		Record:          Record{ID: id},
		Email:           email,
		PasswordHash:    passwordHash,
		Name:            name,
		Role:            RoleAdmin,
		Club:            club,
		AssignedEventID: assignedEventID,
		IsVerified:      true, // Admins onboard through a verified invite
	}
	u.InitTimestamps()
	return u
}

// ValidateRoleFields checks the conditional per-role requirements.
func (u *User) ValidateRoleFields() error {
	if u.Role == RoleAdmin {
		if u.Club == "" {
			return ErrAdminClubRequired
		}
		if !u.IsSuperAdmin && u.AssignedEventID == "" {
			return ErrAdminEventRequired
		}
		return nil
	}
	if u.Phone == "" || u.Gender == "" || u.Degree == "" {
		return ErrParticipantFieldsRequired
	}
	return nil
}
