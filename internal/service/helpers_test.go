package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/auth"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/mail"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/store"
)

const testTokenKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// testEnv wires every service against a real store in a temp directory.
type testEnv struct {
	store        *store.Store
	users        *UserService
	events       *EventService
	registration *RegistrationService
	teams        *TeamService
	admin        *AdminService
	adminInvites *AdminInviteService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := auth.NewTokenService(testTokenKey, time.Hour)
	require.NoError(t, err)

	mailer := mail.Noop{}
	const frontend = "http://localhost:3000"

	return &testEnv{
		store:        st,
		users:        NewUserService(st, tokens, mailer, frontend, nil),
		events:       NewEventService(st, nil),
		registration: NewRegistrationService(st, nil),
		teams:        NewTeamService(st, nil),
		admin:        NewAdminService(st, nil),
		adminInvites: NewAdminInviteService(st, mailer, frontend, nil),
	}
}

// seedSuperAdmin burns the first-user slot so later signups are plain
// participants.
func (env *testEnv) seedSuperAdmin(t *testing.T) *domain.User {
	t.Helper()
	return env.signupVerified(t, "root@example.com", domain.GenderMale)
}

// signupVerified creates a verified participant and returns the account.
func (env *testEnv) signupVerified(t *testing.T, email, gender string) *domain.User {
	t.Helper()
	ctx := context.Background()

	resp, err := env.users.Signup(ctx, SignupRequest{
		Name:     "Student " + email,
		Email:    email,
		Password: "password123",
		Phone:    "9876543210",
		Gender:   gender,
		Degree:   "B.Tech",
		Year:     2,
		College:  "Test College",
	})
	require.NoError(t, err)

	_, err = env.store.Users.Mutate(ctx, resp.UserID, func(u *domain.User) error {
		u.IsVerified = true
		return nil
	})
	require.NoError(t, err)

	user, err := env.store.Users.Get(ctx, resp.UserID)
	require.NoError(t, err)
	return user
}

// createSoloEvent creates a solo event with the given application cap.
func (env *testEnv) createSoloEvent(t *testing.T, name string, maxApplications int) *domain.Event {
	t.Helper()
	event, err := env.events.Create(context.Background(), CreateEventRequest{
		Name:            name,
		Type:            "solo",
		MaxApplications: maxApplications,
	})
	require.NoError(t, err)
	return event
}

// createGroupEvent creates a group event with size bounds.
func (env *testEnv) createGroupEvent(t *testing.T, name string, minSize, maxSize, maxApplications int) *domain.Event {
	t.Helper()
	event, err := env.events.Create(context.Background(), CreateEventRequest{
		Name:            name,
		Type:            "group",
		MinTeamSize:     minSize,
		MaxTeamSize:     maxSize,
		MaxApplications: maxApplications,
	})
	require.NoError(t, err)
	return event
}
