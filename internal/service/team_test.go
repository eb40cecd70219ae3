package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
	domainerrors "github.com/sandosh-prabu-2005/Legacy25-Backend/internal/errors"
)

func TestGroupRegistrationHappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedSuperAdmin(t)
	leader := env.signupVerified(t, "leader@example.com", domain.GenderMale)
	mate := env.signupVerified(t, "mate@example.com", domain.GenderFemale)
	event := env.createGroupEvent(t, "Treasure Hunt", 2, 4, 0)

	team, err := env.teams.Create(ctx, leader.ID, CreateTeamRequest{EventID: event.ID, Name: "Finders"})
	require.NoError(t, err)
	assert.Equal(t, 1, team.Size())
	assert.True(t, team.Members[0].IsLeader)

	result, err := env.teams.Invite(ctx, leader.ID, team.ID, BulkInviteRequest{Emails: []string{"mate@example.com"}})
	require.NoError(t, err)
	require.Len(t, result.Sent, 1)
	assert.Empty(t, result.Errors)

	notifications, err := env.teams.Notifications(ctx, mate.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Treasure Hunt", notifications[0].EventName)

	_, err = env.teams.Respond(ctx, mate.ID, notifications[0].InviteID, RespondRequest{Accept: true})
	require.NoError(t, err)

	registered, err := env.teams.Register(ctx, leader.ID, team.ID)
	require.NoError(t, err)
	assert.True(t, registered.IsRegistered)

	// Every member got an application carrying the team ID.
	updated, err := env.events.Get(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, updated.Applications, 2)
	for _, a := range updated.Applications {
		assert.Equal(t, team.ID, a.TeamID)
	}

	regs, err := env.store.ListRegistrationsByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, regs, 2)
}

func TestInviteChecks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedSuperAdmin(t)
	leader := env.signupVerified(t, "leader@example.com", domain.GenderMale)
	env.signupVerified(t, "mate@example.com", domain.GenderMale)
	event := env.createGroupEvent(t, "Relay", 2, 2, 0)

	team, err := env.teams.Create(ctx, leader.ID, CreateTeamRequest{EventID: event.ID})
	require.NoError(t, err)

	result, err := env.teams.Invite(ctx, leader.ID, team.ID, BulkInviteRequest{
		Emails: []string{
			"mate@example.com",    // ok
			"leader@example.com",  // self
			"ghost@example.com",   // unknown
			admin.Email,           // admin
			"another@example.com", // unknown; slots exhausted anyway
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mate@example.com"}, result.Sent)
	require.Len(t, result.Errors, 4)

	reasons := map[string]string{}
	for _, f := range result.Errors {
		reasons[f.Email] = f.Reason
	}
	assert.Equal(t, "you cannot invite yourself", reasons["leader@example.com"])
	assert.Equal(t, "no account with this email", reasons["ghost@example.com"])
	assert.Equal(t, "admin accounts cannot join teams", reasons[admin.Email])

	// Re-inviting while an invite is pending fails.
	again, err := env.teams.Invite(ctx, leader.ID, team.ID, BulkInviteRequest{Emails: []string{"mate@example.com"}})
	require.NoError(t, err)
	assert.Empty(t, again.Sent)
	require.Len(t, again.Errors, 1)
	assert.Equal(t, "invite already pending", again.Errors[0].Reason)
}

func TestInviteHeadroomCountsPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedSuperAdmin(t)
	leader := env.signupVerified(t, "leader@example.com", domain.GenderMale)
	env.signupVerified(t, "one@example.com", domain.GenderMale)
	env.signupVerified(t, "two@example.com", domain.GenderMale)
	event := env.createGroupEvent(t, "Duo", 2, 2, 0) // room for one beyond the leader

	team, err := env.teams.Create(ctx, leader.ID, CreateTeamRequest{EventID: event.ID})
	require.NoError(t, err)

	result, err := env.teams.Invite(ctx, leader.ID, team.ID, BulkInviteRequest{
		Emails: []string{"one@example.com", "two@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"one@example.com"}, result.Sent)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "no slots left counting pending invites", result.Errors[0].Reason)
}

func TestRespondTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedSuperAdmin(t)
	leader := env.signupVerified(t, "leader@example.com", domain.GenderMale)
	mate := env.signupVerified(t, "mate@example.com", domain.GenderMale)
	event := env.createGroupEvent(t, "Relay", 2, 4, 0)

	team, err := env.teams.Create(ctx, leader.ID, CreateTeamRequest{EventID: event.ID})
	require.NoError(t, err)
	_, err = env.teams.Invite(ctx, leader.ID, team.ID, BulkInviteRequest{Emails: []string{"mate@example.com"}})
	require.NoError(t, err)

	notifications, err := env.teams.Notifications(ctx, mate.ID)
	require.NoError(t, err)
	inviteID := notifications[0].InviteID

	resolved, err := env.teams.Respond(ctx, mate.ID, inviteID, RespondRequest{Accept: false})
	require.NoError(t, err)
	assert.Equal(t, domain.InviteDeclined, resolved.Status)

	_, err = env.teams.Respond(ctx, mate.ID, inviteID, RespondRequest{Accept: true})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestRespondForbiddenForStranger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedSuperAdmin(t)
	leader := env.signupVerified(t, "leader@example.com", domain.GenderMale)
	env.signupVerified(t, "mate@example.com", domain.GenderMale)
	stranger := env.signupVerified(t, "stranger@example.com", domain.GenderMale)
	event := env.createGroupEvent(t, "Relay", 2, 4, 0)

	team, err := env.teams.Create(ctx, leader.ID, CreateTeamRequest{EventID: event.ID})
	require.NoError(t, err)
	_, err = env.teams.Invite(ctx, leader.ID, team.ID, BulkInviteRequest{Emails: []string{"mate@example.com"}})
	require.NoError(t, err)

	invites, err := env.store.ListPendingInvitesByInvitee(ctx, stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, invites)

	mate, err := env.store.Users.GetByIndex(ctx, "email", "mate@example.com")
	require.NoError(t, err)
	pending, err := env.store.ListPendingInvitesByInvitee(ctx, mate.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	_, err = env.teams.Respond(ctx, stranger.ID, pending[0].ID, RespondRequest{Accept: true})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))
}

func TestCancelInvite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedSuperAdmin(t)
	leader := env.signupVerified(t, "leader@example.com", domain.GenderMale)
	mate := env.signupVerified(t, "mate@example.com", domain.GenderMale)
	event := env.createGroupEvent(t, "Relay", 2, 4, 0)

	team, err := env.teams.Create(ctx, leader.ID, CreateTeamRequest{EventID: event.ID})
	require.NoError(t, err)
	_, err = env.teams.Invite(ctx, leader.ID, team.ID, BulkInviteRequest{Emails: []string{"mate@example.com"}})
	require.NoError(t, err)

	pending, err := env.store.ListPendingInvitesByInvitee(ctx, mate.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// Only the leader may cancel.
	err = env.teams.CancelInvite(ctx, mate.ID, pending[0].ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))

	require.NoError(t, env.teams.CancelInvite(ctx, leader.ID, pending[0].ID))

	pending, err = env.store.ListPendingInvitesByInvitee(ctx, mate.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRegisterInvalidatesRivalTeams(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedSuperAdmin(t)
	leaderA := env.signupVerified(t, "leader-a@example.com", domain.GenderMale)
	leaderB := env.signupVerified(t, "leader-b@example.com", domain.GenderMale)
	shared := env.signupVerified(t, "shared@example.com", domain.GenderMale)
	event := env.createGroupEvent(t, "Relay", 2, 4, 0)

	teamA, err := env.teams.Create(ctx, leaderA.ID, CreateTeamRequest{EventID: event.ID})
	require.NoError(t, err)
	teamB, err := env.teams.Create(ctx, leaderB.ID, CreateTeamRequest{EventID: event.ID})
	require.NoError(t, err)

	// The shared member accepts invites from both teams.
	for _, team := range []*domain.Team{teamA, teamB} {
		leaderID := leaderA.ID
		if team.ID == teamB.ID {
			leaderID = leaderB.ID
		}
		_, err = env.teams.Invite(ctx, leaderID, team.ID, BulkInviteRequest{Emails: []string{"shared@example.com"}})
		require.NoError(t, err)
		invite, err := env.store.FindPendingInvite(ctx, team.ID, shared.ID)
		require.NoError(t, err)
		_, err = env.teams.Respond(ctx, shared.ID, invite.ID, RespondRequest{Accept: true})
		require.NoError(t, err)
	}

	_, err = env.teams.Register(ctx, leaderA.ID, teamA.ID)
	require.NoError(t, err)

	// Team B lost its shared member's availability and is invalidated.
	rival, err := env.store.Teams.Get(ctx, teamB.ID)
	require.NoError(t, err)
	assert.True(t, rival.IsInvalidated)

	_, err = env.teams.Register(ctx, leaderB.ID, teamB.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestRegisterTeamCapacity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedSuperAdmin(t)
	leaderA := env.signupVerified(t, "leader-a@example.com", domain.GenderMale)
	mateA := env.signupVerified(t, "mate-a@example.com", domain.GenderMale)
	leaderB := env.signupVerified(t, "leader-b@example.com", domain.GenderMale)
	mateB := env.signupVerified(t, "mate-b@example.com", domain.GenderMale)
	event := env.createGroupEvent(t, "Relay", 2, 4, 1) // one registered team max

	register := func(leaderID, mateID, mateEmail string) (*domain.Team, error) {
		team, err := env.teams.Create(ctx, leaderID, CreateTeamRequest{EventID: event.ID})
		require.NoError(t, err)
		_, err = env.teams.Invite(ctx, leaderID, team.ID, BulkInviteRequest{Emails: []string{mateEmail}})
		require.NoError(t, err)
		invite, err := env.store.FindPendingInvite(ctx, team.ID, mateID)
		require.NoError(t, err)
		_, err = env.teams.Respond(ctx, mateID, invite.ID, RespondRequest{Accept: true})
		require.NoError(t, err)
		return env.teams.Register(ctx, leaderID, team.ID)
	}

	_, err := register(leaderA.ID, mateA.ID, "mate-a@example.com")
	require.NoError(t, err)

	_, err = register(leaderB.ID, mateB.ID, "mate-b@example.com")
	require.Error(t, err)
	var domainErr *domainerrors.Error
	require.True(t, domainerrors.As(err, &domainErr))
	assert.Equal(t, "Event is full", domainErr.Message)
}

func TestGenderQuotas(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedSuperAdmin(t)
	leaderA := env.signupVerified(t, "boy-a@example.com", domain.GenderMale)
	mateA := env.signupVerified(t, "boy-b@example.com", domain.GenderMale)
	leaderB := env.signupVerified(t, "boy-c@example.com", domain.GenderMale)
	mateB := env.signupVerified(t, "boy-d@example.com", domain.GenderMale)

	event, err := env.events.Create(ctx, CreateEventRequest{
		Name:                "Throwball",
		Type:                "group",
		MinTeamSize:         2,
		MaxTeamSize:         4,
		HasGenderBasedTeams: true,
		MaxBoyTeams:         1,
		MaxGirlTeams:        1,
	})
	require.NoError(t, err)

	register := func(leaderID, mateID, mateEmail string) (*domain.Team, error) {
		team, err := env.teams.Create(ctx, leaderID, CreateTeamRequest{EventID: event.ID})
		require.NoError(t, err)
		assert.Equal(t, domain.TeamGenderMale, team.TeamGender)
		_, err = env.teams.Invite(ctx, leaderID, team.ID, BulkInviteRequest{Emails: []string{mateEmail}})
		require.NoError(t, err)
		invite, err := env.store.FindPendingInvite(ctx, team.ID, mateID)
		require.NoError(t, err)
		_, err = env.teams.Respond(ctx, mateID, invite.ID, RespondRequest{Accept: true})
		require.NoError(t, err)
		return env.teams.Register(ctx, leaderID, team.ID)
	}

	_, err = register(leaderA.ID, mateA.ID, "boy-b@example.com")
	require.NoError(t, err)

	// The single boys' slot is taken.
	_, err = register(leaderB.ID, mateB.ID, "boy-d@example.com")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestGenderRestrictedInvites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedSuperAdmin(t)
	leader := env.signupVerified(t, "captain@example.com", domain.GenderFemale)
	env.signupVerified(t, "boy@example.com", domain.GenderMale)
	env.signupVerified(t, "girl@example.com", domain.GenderFemale)

	event, err := env.events.Create(ctx, CreateEventRequest{
		Name:                "Throwball",
		Type:                "group",
		MinTeamSize:         2,
		MaxTeamSize:         4,
		HasGenderBasedTeams: true,
	})
	require.NoError(t, err)

	team, err := env.teams.Create(ctx, leader.ID, CreateTeamRequest{EventID: event.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.TeamGenderFemale, team.TeamGender)

	result, err := env.teams.Invite(ctx, leader.ID, team.ID, BulkInviteRequest{
		Emails: []string{"boy@example.com", "girl@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"girl@example.com"}, result.Sent)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "gender does not match this team", result.Errors[0].Reason)
}

func TestLeaveAndDeleteTeam(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedSuperAdmin(t)
	leader := env.signupVerified(t, "leader@example.com", domain.GenderMale)
	mate := env.signupVerified(t, "mate@example.com", domain.GenderMale)
	env.signupVerified(t, "pending@example.com", domain.GenderMale)
	event := env.createGroupEvent(t, "Relay", 2, 4, 0)

	team, err := env.teams.Create(ctx, leader.ID, CreateTeamRequest{EventID: event.ID})
	require.NoError(t, err)
	_, err = env.teams.Invite(ctx, leader.ID, team.ID, BulkInviteRequest{Emails: []string{"mate@example.com", "pending@example.com"}})
	require.NoError(t, err)

	invite, err := env.store.FindPendingInvite(ctx, team.ID, mate.ID)
	require.NoError(t, err)
	_, err = env.teams.Respond(ctx, mate.ID, invite.ID, RespondRequest{Accept: true})
	require.NoError(t, err)

	// The leader cannot leave.
	err = env.teams.Leave(ctx, leader.ID, team.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))

	require.NoError(t, env.teams.Leave(ctx, mate.ID, team.ID))
	current, err := env.store.Teams.Get(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, current.Size())

	// Delete cascades the remaining pending invite.
	require.NoError(t, env.teams.Delete(ctx, leader.ID, team.ID))
	pendingUser, err := env.store.Users.GetByIndex(ctx, "email", "pending@example.com")
	require.NoError(t, err)
	invites, err := env.store.ListPendingInvitesByInvitee(ctx, pendingUser.ID)
	require.NoError(t, err)
	assert.Empty(t, invites)
}
