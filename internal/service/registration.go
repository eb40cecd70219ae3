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

// RegistrationService handles solo and direct registrations and the
// registration-facing statistics endpoints.
type RegistrationService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewRegistrationService creates a new registration service.
func NewRegistrationService(st *store.Store, logger *slog.Logger) *RegistrationService {
	return &RegistrationService{store: st, logger: logger}
}

// SoloRegistrationRequest identifies the event to register for.
type SoloRegistrationRequest struct {
	EventID string `json:"event_id" validate:"required"`
}

// RegisterSolo registers the caller for a solo event. Capacity, deadline
// and duplicate checks run inside one store transaction on the event
// document, so two racing registrations cannot both take the last slot.
func (s *RegistrationService) RegisterSolo(ctx context.Context, userID string, req SoloRegistrationRequest) (*domain.Event, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.IsAdmin() {
		return nil, domainerrors.Forbidden("admin accounts cannot register for events")
	}

	now := time.Now()
	event, err := s.store.Events.Mutate(ctx, req.EventID, func(e *domain.Event) error {
		if e.IsGroup() {
			return domainerrors.Validation("this event requires team registration")
		}
		if e.DeadlinePassed(now) {
			return domain.ErrDeadlinePassed
		}
		return e.AddApplication(userID, "", now)
	})
	if err != nil {
		return nil, translateRegistrationErr(err)
	}

	if err := s.writeRegistrationRecord(ctx, event.ID, "", userID, user); err != nil {
		// The application stands; the statistics record is best-effort.
		if s.logger != nil {
			s.logger.Error("Failed to write registration record", "event_id", event.ID, "user_id", userID, "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("Solo registration", "event_id", event.ID, "user_id", userID)
	}
	return event, nil
}

// DirectParticipant is an inline participant of a direct team registration.
type DirectParticipant struct {
	Name   string `json:"name" validate:"required,max=120"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone" validate:"omitempty,min=7,max=15"`
	Gender string `json:"gender" validate:"required,oneof=Male Female Other"`
}

// DirectRegistrationRequest registers a full team in one call, with the
// members supplied inline rather than recruited through invites.
type DirectRegistrationRequest struct {
	EventID      string              `json:"event_id" validate:"required"`
	TeamName     string              `json:"team_name" validate:"max=120"`
	Participants []DirectParticipant `json:"participants" validate:"required,min=1,dive"`
}

// RegisterDirect creates a registered team for a group event in a single
// call. The caller leads the team; participants need no platform accounts.
func (s *RegistrationService) RegisterDirect(ctx context.Context, leaderID string, req DirectRegistrationRequest) (*domain.Team, error) {
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
		return nil, domainerrors.Forbidden("admin accounts cannot register for events")
	}

	event, err := s.store.Events.Get(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("event not found")
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsGroup() {
		return nil, domainerrors.Validation("direct registration applies to group events only")
	}

	now := time.Now()
	if event.DeadlinePassed(now) {
		return nil, domainerrors.Conflict("registration deadline has passed")
	}

	size := len(req.Participants) + 1 // Leader included
	if size < event.MinTeamSize || (event.MaxTeamSize > 0 && size > event.MaxTeamSize) {
		return nil, domainerrors.Validationf("team size must be between %d and %d", event.MinTeamSize, event.MaxTeamSize)
	}

	if existing, err := s.store.FindMembershipForEvent(ctx, event.ID, leaderID); err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	} else if existing != nil {
		return nil, domainerrors.Conflict("you already belong to a team for this event")
	}

	registered, err := s.store.CountRegisteredTeams(ctx, event.ID, "")
	if err != nil {
		return nil, fmt.Errorf("count registered teams: %w", err)
	}
	if event.MaxApplications > 0 && registered >= event.MaxApplications {
		return nil, domainerrors.Conflict("Event is full")
	}

	team := &domain.Team{
		EventID:      event.ID,
		Name:         req.TeamName,
		LeaderID:     leaderID,
		IsRegistered: true,
		Members: []domain.TeamMember{{
			UserID:   leaderID,
			Gender:   leader.Gender,
			IsLeader: true,
		}},
	}
	if event.HasGenderBasedTeams {
		team.TeamGender = domain.DeriveTeamGender(leader.Gender)
		if g := quotaForGender(event, team.TeamGender); g >= 0 {
			count, err := s.store.CountRegisteredTeams(ctx, event.ID, team.TeamGender)
			if err != nil {
				return nil, fmt.Errorf("count registered teams: %w", err)
			}
			if count >= g {
				return nil, domainerrors.Conflictf("no %s team slots remain for this event", team.TeamGender)
			}
		}
	}
	for _, p := range req.Participants {
		member := domain.TeamMember{Name: p.Name, Email: p.Email, Phone: p.Phone, Gender: p.Gender}
		if err := team.AddMember(member, event.MaxTeamSize, event.HasGenderBasedTeams); err != nil {
			return nil, domainerrors.Validation(err.Error())
		}
	}

	teamID, err := id.Generate("team")
	if err != nil {
		return nil, fmt.Errorf("generate team ID: %w", err)
	}
	team.ID = teamID
	team.InitTimestamps()

	// Record the leader's application atomically against the event.
	if _, err := s.store.Events.Mutate(ctx, event.ID, func(e *domain.Event) error {
		if e.DeadlinePassed(now) {
			return domain.ErrDeadlinePassed
		}
		return e.AddApplication(leaderID, teamID, now)
	}); err != nil {
		return nil, translateRegistrationErr(err)
	}

	if err := s.store.Teams.Create(ctx, teamID, team); err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}

	// Statistics trail: one record per participant, leader included.
	if err := s.writeRegistrationRecord(ctx, event.ID, teamID, leaderID, leader); err != nil && s.logger != nil {
		s.logger.Error("Failed to write registration record", "team_id", teamID, "error", err)
	}
	for _, p := range req.Participants {
		reg := &domain.EventRegistration{
			EventID:      event.ID,
			TeamID:       teamID,
			RegistrantID: leaderID,
			Name:         p.Name,
			Email:        p.Email,
			Phone:        p.Phone,
			Gender:       p.Gender,
		}
		if err := s.createRegistration(ctx, reg); err != nil && s.logger != nil {
			s.logger.Error("Failed to write registration record", "team_id", teamID, "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("Direct team registration", "event_id", event.ID, "team_id", teamID, "size", team.Size())
	}
	return team, nil
}

// RegistrationCheck describes how the caller is registered for an event.
type RegistrationCheck struct {
	Registered bool   `json:"registered"`
	Mode       string `json:"mode,omitempty"` // "solo" or "team"
	TeamID     string `json:"team_id,omitempty"`
}

// Check reports whether the user already holds a registration for the event.
func (s *RegistrationService) Check(ctx context.Context, userID, eventID string) (*RegistrationCheck, error) {
	event, err := s.store.Events.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("event not found")
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	for _, a := range event.Applications {
		if a.UserID == userID {
			check := &RegistrationCheck{Registered: true, Mode: "solo", TeamID: a.TeamID}
			if a.TeamID != "" {
				check.Mode = "team"
			}
			return check, nil
		}
	}

	team, err := s.store.FindMembershipForEvent(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if team != nil && team.IsRegistered {
		return &RegistrationCheck{Registered: true, Mode: "team", TeamID: team.ID}, nil
	}
	return &RegistrationCheck{Registered: false}, nil
}

// CollegeStats returns per-college registration counts.
func (s *RegistrationService) CollegeStats(ctx context.Context) (map[string]int, error) {
	counts, err := s.store.CountRegistrationsByCollege(ctx)
	if err != nil {
		return nil, fmt.Errorf("count registrations by college: %w", err)
	}
	return counts, nil
}

func (s *RegistrationService) writeRegistrationRecord(ctx context.Context, eventID, teamID, registrantID string, user *domain.User) error {
	reg := &domain.EventRegistration{
		EventID:           eventID,
		TeamID:            teamID,
		RegistrantID:      registrantID,
		ParticipantUserID: user.ID,
		Name:              user.Name,
		Email:             user.Email,
		Phone:             user.Phone,
		Gender:            user.Gender,
		Degree:            user.Degree,
		Year:              user.Year,
		College:           user.College,
	}
	return s.createRegistration(ctx, reg)
}

func (s *RegistrationService) createRegistration(ctx context.Context, reg *domain.EventRegistration) error {
	regID, err := id.Generate("reg")
	if err != nil {
		return fmt.Errorf("generate registration ID: %w", err)
	}
	reg.ID = regID
	reg.InitTimestamps()
	if err := s.store.Registrations.Create(ctx, regID, reg); err != nil {
		return fmt.Errorf("create registration record: %w", err)
	}
	return nil
}

// quotaForGender returns the registered-team quota for a gender-classified
// team, or -1 when no quota applies.
func quotaForGender(event *domain.Event, gender domain.TeamGender) int {
	switch gender {
	case domain.TeamGenderMale:
		if event.MaxBoyTeams > 0 {
			return event.MaxBoyTeams
		}
	case domain.TeamGenderFemale:
		if event.MaxGirlTeams > 0 {
			return event.MaxGirlTeams
		}
	}
	return -1
}

// translateRegistrationErr maps invariant violations from the domain layer
// to user-facing API errors.
func translateRegistrationErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("event not found")
	case errors.Is(err, domain.ErrAlreadyApplied):
		return domainerrors.Conflict("you have already registered for this event")
	case errors.Is(err, domain.ErrEventFull):
		return domainerrors.Conflict("Event is full")
	case errors.Is(err, domain.ErrDeadlinePassed):
		return domainerrors.Conflict("registration deadline has passed")
	default:
		return err
	}
}
