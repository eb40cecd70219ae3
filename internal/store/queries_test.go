package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
)

func newTestTeam(id, eventID, leaderID string) *domain.Team {
	team := &domain.Team{
		Record:   domain.Record{ID: id},
		EventID:  eventID,
		LeaderID: leaderID,
		Members:  []domain.TeamMember{{UserID: leaderID, IsLeader: true}},
	}
	team.InitTimestamps()
	return team
}

func TestStore_CountRegisteredTeams(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	registered := newTestTeam("team-1", "event-1", "user-a")
	registered.IsRegistered = true
	registered.TeamGender = domain.TeamGenderFemale
	require.NoError(t, s.Teams.Create(ctx, registered.ID, registered))

	forming := newTestTeam("team-2", "event-1", "user-b")
	require.NoError(t, s.Teams.Create(ctx, forming.ID, forming))

	otherEvent := newTestTeam("team-3", "event-2", "user-c")
	otherEvent.IsRegistered = true
	require.NoError(t, s.Teams.Create(ctx, otherEvent.ID, otherEvent))

	count, err := s.CountRegisteredTeams(ctx, "event-1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = s.CountRegisteredTeams(ctx, "event-1", domain.TeamGenderFemale)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = s.CountRegisteredTeams(ctx, "event-1", domain.TeamGenderMale)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStore_FindMembershipForEvent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	team := newTestTeam("team-1", "event-1", "user-a")
	require.NoError(t, team.AddMember(domain.TeamMember{UserID: "user-b"}, 4, false))
	require.NoError(t, s.Teams.Create(ctx, team.ID, team))

	got, err := s.FindMembershipForEvent(ctx, "event-1", "user-b")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "team-1", got.ID)

	got, err = s.FindMembershipForEvent(ctx, "event-1", "user-z")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Invalidated teams do not bind members.
	invalidated := newTestTeam("team-2", "event-2", "user-b")
	invalidated.IsInvalidated = true
	require.NoError(t, s.Teams.Create(ctx, invalidated.ID, invalidated))

	got, err = s.FindMembershipForEvent(ctx, "event-2", "user-b")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_PendingInviteQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pending := &domain.Invite{
		Record:    domain.Record{ID: "invite-1"},
		EventID:   "event-1",
		TeamID:    "team-1",
		InviterID: "user-a",
		InviteeID: "user-b",
		Status:    domain.InvitePending,
	}
	pending.InitTimestamps()
	require.NoError(t, s.Invites.Create(ctx, pending.ID, pending))

	resolved := &domain.Invite{
		Record:    domain.Record{ID: "invite-2"},
		EventID:   "event-1",
		TeamID:    "team-1",
		InviterID: "user-a",
		InviteeID: "user-c",
		Status:    domain.InviteDeclined,
	}
	resolved.InitTimestamps()
	require.NoError(t, s.Invites.Create(ctx, resolved.ID, resolved))

	got, err := s.FindPendingInvite(ctx, "team-1", "user-b")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "invite-1", got.ID)

	got, err = s.FindPendingInvite(ctx, "team-1", "user-c")
	require.NoError(t, err)
	assert.Nil(t, got, "resolved invites are not pending")

	count, err := s.CountPendingInvitesByTeam(ctx, "team-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	mine, err := s.ListPendingInvitesByInvitee(ctx, "user-b")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, s.DeletePendingInvitesByTeam(ctx, "team-1"))
	count, err = s.CountPendingInvitesByTeam(ctx, "team-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStore_CountRegistrationsByCollege(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	regs := []*domain.EventRegistration{
		{Record: domain.Record{ID: "reg-1"}, EventID: "event-1", Name: "A", College: "NIT Trichy", Gender: domain.GenderFemale},
		{Record: domain.Record{ID: "reg-2"}, EventID: "event-1", Name: "B", College: "NIT Trichy", Gender: domain.GenderMale},
		{Record: domain.Record{ID: "reg-3"}, EventID: "event-2", Name: "C", Gender: domain.GenderMale},
	}
	for _, r := range regs {
		r.InitTimestamps()
		require.NoError(t, s.Registrations.Create(ctx, r.ID, r))
	}

	byCollege, err := s.CountRegistrationsByCollege(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, byCollege["NIT Trichy"])
	assert.Equal(t, 1, byCollege["Unknown"])

	byGender, err := s.CountRegistrationsByGender(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, byGender[domain.GenderMale])
	assert.Equal(t, 1, byGender[domain.GenderFemale])
}
