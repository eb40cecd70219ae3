package domain

// InviteStatus tracks the lifecycle of a team invite.
// pending is the only non-terminal state.
type InviteStatus string

const (
	// InvitePending awaits the invitee's response.
	InvitePending InviteStatus = "pending"
	// InviteAccepted is terminal; the invitee joined the team.
	InviteAccepted InviteStatus = "accepted"
	// InviteDeclined is terminal; the invitee refused.
	InviteDeclined InviteStatus = "declined"
)

// Invite is a proposal for a user to join a specific team.
// At most one pending invite may exist per (team, invitee) pair.
type Invite struct {
	Record
	EventID   string       `json:"event_id"`
	TeamID    string       `json:"team_id"`
	InviterID string       `json:"inviter_id"`
	InviteeID string       `json:"invitee_id"`
	Status    InviteStatus `json:"status"`
}

// IsPending reports whether the invite still awaits a response.
func (i *Invite) IsPending() bool {
	return i.Status == InvitePending
}

// Accept transitions pending → accepted. Responding to a resolved invite
// is a conflict.
func (i *Invite) Accept() error {
	if !i.IsPending() {
		return ErrInviteNotPending
	}
	i.Status = InviteAccepted
	i.Touch()
	return nil
}

// Decline transitions pending → declined.
func (i *Invite) Decline() error {
	if !i.IsPending() {
		return ErrInviteNotPending
	}
	i.Status = InviteDeclined
	i.Touch()
	return nil
}
