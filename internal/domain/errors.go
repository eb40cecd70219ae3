package domain

import "errors"

// Invariant violations surfaced by entity helpers. Services translate these
// into coded API errors with user-facing messages.
var (
	ErrAdminClubRequired         = errors.New("admin accounts require a club")
	ErrAdminEventRequired        = errors.New("admin accounts require an assigned event")
	ErrParticipantFieldsRequired = errors.New("phone, gender and degree are required")

	ErrEventFull      = errors.New("event is full")
	ErrAlreadyApplied = errors.New("already applied to this event")
	ErrDeadlinePassed = errors.New("registration deadline has passed")

	ErrTeamFull        = errors.New("team is full")
	ErrDuplicateMember = errors.New("user is already a team member")
	ErrGenderMismatch  = errors.New("member gender does not match team gender")

	ErrInviteNotPending = errors.New("invite is not pending")

	ErrGroupMinSize       = errors.New("group events need a minimum team size of at least 2")
	ErrTeamBoundsInverted = errors.New("maximum team size is below the minimum")
)
