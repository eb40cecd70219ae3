package store

import (
	"context"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
)

// ListTeamsByEvent returns all non-deleted teams for an event.
func (s *Store) ListTeamsByEvent(ctx context.Context, eventID string) ([]*domain.Team, error) {
	var teams []*domain.Team
	for team, err := range s.Teams.List(ctx) {
		if err != nil {
			return nil, err
		}
		if team.EventID == eventID && !team.IsDeleted() {
			teams = append(teams, team)
		}
	}
	return teams, nil
}

// CountRegisteredTeams counts registered teams for an event, optionally
// restricted to one gender classification. Pass "" for all genders.
func (s *Store) CountRegisteredTeams(ctx context.Context, eventID string, gender domain.TeamGender) (int, error) {
	teams, err := s.ListTeamsByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, team := range teams {
		if !team.IsRegistered {
			continue
		}
		if gender != "" && team.TeamGender != gender {
			continue
		}
		count++
	}
	return count, nil
}

// ListActiveTeamsByMember returns teams the user currently belongs to that
// are neither registered, invalidated nor deleted.
func (s *Store) ListActiveTeamsByMember(ctx context.Context, userID string) ([]*domain.Team, error) {
	var teams []*domain.Team
	for team, err := range s.Teams.List(ctx) {
		if err != nil {
			return nil, err
		}
		if team.IsActive() && team.HasMember(userID) {
			teams = append(teams, team)
		}
	}
	return teams, nil
}

// FindMembershipForEvent returns the team through which the user is attached
// to the event (registered or still forming), or nil.
func (s *Store) FindMembershipForEvent(ctx context.Context, eventID, userID string) (*domain.Team, error) {
	for team, err := range s.Teams.List(ctx) {
		if err != nil {
			return nil, err
		}
		if team.EventID != eventID || team.IsDeleted() || team.IsInvalidated {
			continue
		}
		if team.HasMember(userID) {
			return team, nil
		}
	}
	return nil, nil
}
