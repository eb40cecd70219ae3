package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
	domainerrors "github.com/sandosh-prabu-2005/Legacy25-Backend/internal/errors"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/id"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/store"
)

// TeamService manages team formation: creation, invites, membership and
// final registration for group events.
type TeamService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewTeamService creates a new team service.
func NewTeamService(st *store.Store, logger *slog.Logger) *TeamService {
	return &TeamService{store: st, logger: logger}
}

// CreateTeamRequest contains the fields of a new team.
type CreateTeamRequest struct {
	EventID string `json:"event_id" validate:"required"`
	Name    string `json:"name" validate:"max=120"`
}

// Create starts a new team for a group event with the caller as leader.
func (s *TeamService) Create(ctx context.Context, leaderID string, req CreateTeamRequest) (*domain.Team, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	leader, err := s.store.Users.Get(ctx, leaderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if leader.IsAdmin() {
		return nil, domainerrors.Forbidden("admin accounts cannot form teams")
	}

	event, err := s.store.Events.Get(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("event not found")
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsGroup() {
		return nil, domainerrors.Validation("this event does not take team registrations")
	}
	if event.DeadlinePassed(time.Now()) {
		return nil, domainerrors.Conflict("registration deadline has passed")
	}
	if event.HasApplicant(leaderID) {
		return nil, domainerrors.Conflict("you have already registered for this event")
	}

	if existing, err := s.store.FindMembershipForEvent(ctx, event.ID, leaderID); err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	} else if existing != nil {
		return nil, domainerrors.Conflict("you already belong to a team for this event")
	}

	teamID, err := id.Generate("team")
	if err != nil {
		return nil, fmt.Errorf("generate team ID: %w", err)
	}

	team := &domain.Team{
		Record:   domain.Record{ID: teamID},
		EventID:  event.ID,
		Name:     req.Name,
		LeaderID: leaderID,
		Members: []domain.TeamMember{{
			UserID:   leaderID,
			Gender:   leader.Gender,
			IsLeader: true,
		}},
	}
	if event.HasGenderBasedTeams {
		team.TeamGender = domain.DeriveTeamGender(leader.Gender)
	}
	team.InitTimestamps()

	if err := s.store.Teams.Create(ctx, teamID, team); err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Team created", "team_id", teamID, "event_id", event.ID, "leader_id", leaderID)
	}
	return team, nil
}

// BulkInviteRequest lists the emails to invite to a team.
type BulkInviteRequest struct {
	Emails []string `json:"emails" validate:"required,min=1,dive,email"`
}

// InviteFailure explains why one invitee of a bulk request was skipped.
type InviteFailure struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// BulkInviteResult is the partial-failure response of a bulk invite.
type BulkInviteResult struct {
	Sent   []string        `json:"sent"`
	Errors []InviteFailure `json:"errors"`
}

// Invite sends team invites to a batch of users. Each invitee is checked
// independently; the response reports successes and failures side by side.
func (s *TeamService) Invite(ctx context.Context, inviterID, teamID string, req BulkInviteRequest) (*BulkInviteResult, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	team, event, err := s.activeTeamForLeader(ctx, inviterID, teamID)
	if err != nil {
		return nil, err
	}

	pending, err := s.store.CountPendingInvitesByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("count pending invites: %w", err)
	}
	headroom := 0
	if event.MaxTeamSize > 0 {
		headroom = event.MaxTeamSize - team.Size() - pending
	}

	result := &BulkInviteResult{Sent: []string{}, Errors: []InviteFailure{}}
	for _, email := range req.Emails {
		reason := s.checkInvitee(ctx, team, event, inviterID, email, &headroom)
		if reason != "" {
			result.Errors = append(result.Errors, InviteFailure{Email: email, Reason: reason})
			continue
		}
		result.Sent = append(result.Sent, email)
	}

	if s.logger != nil {
		s.logger.Info("Bulk invite processed",
			"team_id", teamID,
			"sent", len(result.Sent),
			"failed", len(result.Errors),
		)
	}
	return result, nil
}

// checkInvitee validates one invitee and creates the invite when eligible.
// Returns a failure reason, or "" on success. headroom is decremented for
// each invite sent when the event bounds team size.
func (s *TeamService) checkInvitee(ctx context.Context, team *domain.Team, event *domain.Event, inviterID, email string, headroom *int) string {
	invitee, err := s.store.Users.GetByIndex(ctx, "email", email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "no account with this email"
		}
		return "lookup failed"
	}

	switch {
	case invitee.ID == inviterID:
		return "you cannot invite yourself"
	case invitee.IsAdmin():
		return "admin accounts cannot join teams"
	case !invitee.IsVerified:
		return "account is not verified"
	case team.HasMember(invitee.ID):
		return "already a member of this team"
	case event.HasApplicant(invitee.ID):
		return "already registered for this event"
	case event.HasGenderBasedTeams && !team.AllowsGender(invitee.Gender):
		return "gender does not match this team"
	}

	if other, err := s.store.FindMembershipForEvent(ctx, event.ID, invitee.ID); err != nil {
		return "lookup failed"
	} else if other != nil && other.IsRegistered {
		return "already registered with another team"
	}

	if existing, err := s.store.FindPendingInvite(ctx, team.ID, invitee.ID); err != nil {
		return "lookup failed"
	} else if existing != nil {
		return "invite already pending"
	}

	if event.MaxTeamSize > 0 {
		if *headroom <= 0 {
			return "no slots left counting pending invites"
		}
	}

	inviteID, err := id.Generate("invite")
	if err != nil {
		return "could not create invite"
	}
	invite := &domain.Invite{
		Record:    domain.Record{ID: inviteID},
		EventID:   event.ID,
		TeamID:    team.ID,
		InviterID: inviterID,
		InviteeID: invitee.ID,
		Status:    domain.InvitePending,
	}
	invite.InitTimestamps()
	if err := s.store.Invites.Create(ctx, inviteID, invite); err != nil {
		return "could not create invite"
	}

	if event.MaxTeamSize > 0 {
		*headroom--
	}
	return ""
}

// RespondRequest carries the invitee's decision.
type RespondRequest struct {
	Accept bool `json:"accept"`
}

// Respond resolves a pending invite. Accepting re-validates eligibility
// and joins the team; either outcome is terminal, and responding to a
// resolved invite is a conflict.
func (s *TeamService) Respond(ctx context.Context, inviteeID, inviteID string, req RespondRequest) (*domain.Invite, error) {
	invite, err := s.store.Invites.Get(ctx, inviteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("invite not found")
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	if invite.InviteeID != inviteeID {
		return nil, domainerrors.Forbidden("this invite is not addressed to you")
	}
	if !invite.IsPending() {
		return nil, domainerrors.Conflict("invite has already been responded to")
	}

	if !req.Accept {
		resolved, err := s.store.Invites.Mutate(ctx, inviteID, func(i *domain.Invite) error {
			return i.Decline()
		})
		if err != nil {
			if errors.Is(err, domain.ErrInviteNotPending) {
				return nil, domainerrors.Conflict("invite has already been responded to")
			}
			return nil, fmt.Errorf("decline invite: %w", err)
		}
		return resolved, nil
	}

	// Accept path: the team and event may have moved on since the invite
	// was sent, so every eligibility check runs again.
	team, err := s.store.Teams.Get(ctx, invite.TeamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Conflict("team no longer exists")
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	if !team.IsActive() {
		return nil, domainerrors.Conflict("team is no longer accepting members")
	}

	event, err := s.store.Events.Get(ctx, invite.EventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Conflict("event no longer exists")
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.DeadlinePassed(time.Now()) {
		return nil, domainerrors.Conflict("registration deadline has passed")
	}
	if event.HasApplicant(inviteeID) {
		return nil, domainerrors.Conflict("you have already registered for this event")
	}

	invitee, err := s.store.Users.Get(ctx, inviteeID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if other, err := s.store.FindMembershipForEvent(ctx, event.ID, inviteeID); err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	} else if other != nil && other.IsRegistered {
		return nil, domainerrors.Conflict("you are already registered with another team")
	}

	member := domain.TeamMember{UserID: inviteeID, Gender: invitee.Gender}
	if _, err := s.store.Teams.Mutate(ctx, team.ID, func(t *domain.Team) error {
		if !t.IsActive() {
			return domainerrors.Conflict("team is no longer accepting members")
		}
		return t.AddMember(member, event.MaxTeamSize, event.HasGenderBasedTeams)
	}); err != nil {
		switch {
		case errors.Is(err, domain.ErrTeamFull):
			return nil, domainerrors.Conflict("team is full")
		case errors.Is(err, domain.ErrDuplicateMember):
			return nil, domainerrors.Conflict("you are already a member of this team")
		case errors.Is(err, domain.ErrGenderMismatch):
			return nil, domainerrors.Conflict("your gender does not match this team")
		default:
			return nil, err
		}
	}

	resolved, err := s.store.Invites.Mutate(ctx, inviteID, func(i *domain.Invite) error {
		return i.Accept()
	})
	if err != nil {
		if errors.Is(err, domain.ErrInviteNotPending) {
			return nil, domainerrors.Conflict("invite has already been responded to")
		}
		return nil, fmt.Errorf("accept invite: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Invite accepted", "invite_id", inviteID, "team_id", team.ID, "user_id", inviteeID)
	}
	return resolved, nil
}

// CancelInvite withdraws a pending invite. Leader only; the invite is
// removed outright rather than moved to a terminal state.
func (s *TeamService) CancelInvite(ctx context.Context, callerID, inviteID string) error {
	invite, err := s.store.Invites.Get(ctx, inviteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("invite not found")
		}
		return fmt.Errorf("get invite: %w", err)
	}

	team, err := s.store.Teams.Get(ctx, invite.TeamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("team not found")
		}
		return fmt.Errorf("get team: %w", err)
	}
	if team.LeaderID != callerID {
		return domainerrors.Forbidden("only the team leader can cancel invites")
	}
	if !invite.IsPending() {
		return domainerrors.Conflict("only pending invites can be cancelled")
	}

	if err := s.store.Invites.Delete(ctx, inviteID); err != nil {
		return fmt.Errorf("delete invite: %w", err)
	}
	return nil
}

// InviteNotification is a pending invite enriched for display.
type InviteNotification struct {
	InviteID    string    `json:"invite_id"`
	EventID     string    `json:"event_id"`
	EventName   string    `json:"event_name"`
	TeamID      string    `json:"team_id"`
	TeamName    string    `json:"team_name,omitempty"`
	InviterName string    `json:"inviter_name"`
	SentAt      time.Time `json:"sent_at"`
}

// Notifications returns the caller's pending invites.
func (s *TeamService) Notifications(ctx context.Context, userID string) ([]InviteNotification, error) {
	invites, err := s.store.ListPendingInvitesByInvitee(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending invites: %w", err)
	}

	notifications := make([]InviteNotification, 0, len(invites))
	for _, invite := range invites {
		n := InviteNotification{
			InviteID: invite.ID,
			EventID:  invite.EventID,
			TeamID:   invite.TeamID,
			SentAt:   invite.CreatedAt,
		}
		if event, err := s.store.Events.Get(ctx, invite.EventID); err == nil {
			n.EventName = event.Name
		}
		if team, err := s.store.Teams.Get(ctx, invite.TeamID); err == nil {
			n.TeamName = team.Name
		}
		if inviter, err := s.store.Users.Get(ctx, invite.InviterID); err == nil {
			n.InviterName = inviter.Name
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// Register finalizes a team's registration: size bounds, gender quota and
// event capacity are checked, the team is locked, one application per
// member is appended to the event, and every other unregistered team of a
// member is invalidated.
func (s *TeamService) Register(ctx context.Context, callerID, teamID string) (*domain.Team, error) {
	team, event, err := s.activeTeamForLeader(ctx, callerID, teamID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if event.DeadlinePassed(now) {
		return nil, domainerrors.Conflict("registration deadline has passed")
	}
	if team.Size() < event.MinTeamSize {
		return nil, domainerrors.Conflictf("team needs at least %d members", event.MinTeamSize)
	}
	if event.MaxTeamSize > 0 && team.Size() > event.MaxTeamSize {
		return nil, domainerrors.Conflictf("team exceeds the maximum of %d members", event.MaxTeamSize)
	}

	if event.HasGenderBasedTeams {
		if quota := quotaForGender(event, team.TeamGender); quota >= 0 {
			count, err := s.store.CountRegisteredTeams(ctx, event.ID, team.TeamGender)
			if err != nil {
				return nil, fmt.Errorf("count registered teams: %w", err)
			}
			if count >= quota {
				return nil, domainerrors.Conflictf("no %s team slots remain for this event", team.TeamGender)
			}
		}
	}

	registered, err := s.store.CountRegisteredTeams(ctx, event.ID, "")
	if err != nil {
		return nil, fmt.Errorf("count registered teams: %w", err)
	}
	if event.MaxApplications > 0 && registered >= event.MaxApplications {
		return nil, domainerrors.Conflict("Event is full")
	}

	memberIDs := team.MemberUserIDs()

	// Applications for all members are appended in one event transaction,
	// so a member sneaking into another registration fails the whole team.
	if _, err := s.store.Events.Mutate(ctx, event.ID, func(e *domain.Event) error {
		if e.DeadlinePassed(now) {
			return domain.ErrDeadlinePassed
		}
		for _, memberID := range memberIDs {
			if err := e.AddApplication(memberID, teamID, now); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, translateRegistrationErr(err)
	}

	locked, err := s.store.Teams.Mutate(ctx, teamID, func(t *domain.Team) error {
		if !t.IsActive() {
			return domainerrors.Conflict("team can no longer register")
		}
		t.IsRegistered = true
		t.Touch()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.writeTeamRegistrations(ctx, event.ID, locked)
	s.invalidateRivalTeams(ctx, event.ID, teamID, memberIDs)

	if s.logger != nil {
		s.logger.Info("Team registered", "team_id", teamID, "event_id", event.ID, "size", locked.Size())
	}
	return locked, nil
}

// writeTeamRegistrations appends the statistics trail for each member.
// Best-effort; the registration itself already stands.
func (s *TeamService) writeTeamRegistrations(ctx context.Context, eventID string, team *domain.Team) {
	for _, m := range team.Members {
		reg := &domain.EventRegistration{
			EventID:      eventID,
			TeamID:       team.ID,
			RegistrantID: team.LeaderID,
			Name:         m.Name,
			Email:        m.Email,
			Phone:        m.Phone,
			Gender:       m.Gender,
		}
		if m.UserID != "" {
			if user, err := s.store.Users.Get(ctx, m.UserID); err == nil {
				reg.ParticipantUserID = user.ID
				reg.Name = user.Name
				reg.Email = user.Email
				reg.Phone = user.Phone
				reg.Gender = user.Gender
				reg.Degree = user.Degree
				reg.Year = user.Year
				reg.College = user.College
			}
		}

		regID, err := id.Generate("reg")
		if err != nil {
			continue
		}
		reg.ID = regID
		reg.InitTimestamps()
		if err := s.store.Registrations.Create(ctx, regID, reg); err != nil && s.logger != nil {
			s.logger.Error("Failed to write registration record", "team_id", team.ID, "error", err)
		}
	}
}

// invalidateRivalTeams soft-invalidates every other unregistered team for
// the event that contains any of the newly committed members.
func (s *TeamService) invalidateRivalTeams(ctx context.Context, eventID, registeredTeamID string, memberIDs []string) {
	for _, memberID := range memberIDs {
		teams, err := s.store.ListActiveTeamsByMember(ctx, memberID)
		if err != nil {
			if s.logger != nil {
				s.logger.Error("Failed to list rival teams", "user_id", memberID, "error", err)
			}
			continue
		}
		for _, rival := range teams {
			if rival.ID == registeredTeamID || rival.EventID != eventID {
				continue
			}
			if _, err := s.store.Teams.Mutate(ctx, rival.ID, func(t *domain.Team) error {
				t.IsInvalidated = true
				t.Touch()
				return nil
			}); err != nil && s.logger != nil {
				s.logger.Error("Failed to invalidate team", "team_id", rival.ID, "error", err)
			}
		}
	}
}

// AddMembersRequest lists direct participants the leader adds by hand.
type AddMembersRequest struct {
	Members []DirectParticipant `json:"members" validate:"required,min=1,dive"`
}

// AddMembers lets the leader add direct participants before registration.
func (s *TeamService) AddMembers(ctx context.Context, callerID, teamID string, req AddMembersRequest) (*domain.Team, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	_, event, err := s.activeTeamForLeader(ctx, callerID, teamID)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Teams.Mutate(ctx, teamID, func(t *domain.Team) error {
		if !t.IsActive() {
			return domainerrors.Conflict("team can no longer be changed")
		}
		for _, p := range req.Members {
			member := domain.TeamMember{Name: p.Name, Email: p.Email, Phone: p.Phone, Gender: p.Gender}
			if err := t.AddMember(member, event.MaxTeamSize, event.HasGenderBasedTeams); err != nil {
				return domainerrors.Validation(err.Error())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Leave removes the caller from an unregistered team. The leader cannot
// leave; they delete the team instead.
func (s *TeamService) Leave(ctx context.Context, userID, teamID string) error {
	team, err := s.store.Teams.Get(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("team not found")
		}
		return fmt.Errorf("get team: %w", err)
	}
	if team.IsRegistered {
		return domainerrors.Conflict("cannot leave a registered team")
	}
	if team.LeaderID == userID {
		return domainerrors.Conflict("the leader cannot leave; delete the team instead")
	}
	if !team.HasMember(userID) {
		return domainerrors.Forbidden("you are not a member of this team")
	}

	if _, err := s.store.Teams.Mutate(ctx, teamID, func(t *domain.Team) error {
		if t.IsRegistered {
			return domainerrors.Conflict("cannot leave a registered team")
		}
		t.RemoveMember(userID)
		return nil
	}); err != nil {
		return err
	}
	return nil
}

// Delete removes an unregistered team and its pending invites.
func (s *TeamService) Delete(ctx context.Context, callerID, teamID string) error {
	team, err := s.store.Teams.Get(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("team not found")
		}
		return fmt.Errorf("get team: %w", err)
	}
	if team.LeaderID != callerID {
		return domainerrors.Forbidden("only the team leader can delete the team")
	}
	if team.IsRegistered {
		return domainerrors.Conflict("registered teams cannot be deleted")
	}

	if err := s.store.DeletePendingInvitesByTeam(ctx, teamID); err != nil {
		return fmt.Errorf("delete pending invites: %w", err)
	}
	if err := s.store.Teams.Delete(ctx, teamID); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Team deleted", "team_id", teamID)
	}
	return nil
}

// Get returns a team the caller belongs to.
func (s *TeamService) Get(ctx context.Context, callerID, teamID string) (*domain.Team, error) {
	team, err := s.store.Teams.Get(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("team not found")
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	if !team.HasMember(callerID) {
		return nil, domainerrors.Forbidden("you are not a member of this team")
	}
	return team, nil
}

// activeTeamForLeader loads the team and its event, checking that the
// caller leads the team and that it can still change.
func (s *TeamService) activeTeamForLeader(ctx context.Context, callerID, teamID string) (*domain.Team, *domain.Event, error) {
	team, err := s.store.Teams.Get(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.NotFound("team not found")
		}
		return nil, nil, fmt.Errorf("get team: %w", err)
	}
	if team.LeaderID != callerID {
		return nil, nil, domainerrors.Forbidden("only the team leader can do this")
	}
	if !team.IsActive() {
		return nil, nil, domainerrors.Conflict("team is already registered or invalidated")
	}

	event, err := s.store.Events.Get(ctx, team.EventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.NotFound("event not found")
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	return team, event, nil
}
