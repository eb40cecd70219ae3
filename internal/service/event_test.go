package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/sandosh-prabu-2005/Legacy25-Backend/internal/errors"
)

func TestCreateEventSlugDedup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.events.Create(ctx, CreateEventRequest{Name: "Robo Wars", Type: "solo"})
	require.NoError(t, err)
	assert.Equal(t, "robo-wars", first.Slug)

	// Distinct name, colliding slug: gets a numeric suffix.
	second, err := env.events.Create(ctx, CreateEventRequest{Name: "Robo  Wars!", Type: "solo"})
	require.NoError(t, err)
	assert.Equal(t, "robo-wars-2", second.Slug)

	third, err := env.events.Create(ctx, CreateEventRequest{Name: "ROBO wars?", Type: "solo"})
	require.NoError(t, err)
	assert.Equal(t, "robo-wars-3", third.Slug)
}

func TestCreateEventDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.events.Create(ctx, CreateEventRequest{Name: "Hackathon", Type: "solo"})
	require.NoError(t, err)

	_, err = env.events.Create(ctx, CreateEventRequest{Name: "Hackathon", Type: "group", MinTeamSize: 2, MaxTeamSize: 4})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestCreateGroupEventBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.events.Create(ctx, CreateEventRequest{Name: "Relay", Type: "group", MinTeamSize: 1, MaxTeamSize: 4})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "group min below 2 must fail")

	_, err = env.events.Create(ctx, CreateEventRequest{Name: "Relay", Type: "group", MinTeamSize: 4, MaxTeamSize: 2})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "max below min must fail")

	event, err := env.events.Create(ctx, CreateEventRequest{Name: "Relay", Type: "group", MinTeamSize: 2, MaxTeamSize: 4})
	require.NoError(t, err)
	assert.Equal(t, "relay", event.Slug)
}

func TestUpdateEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event := env.createSoloEvent(t, "Quiz", 100)

	name := "Mega Quiz"
	maxApps := 50
	updated, err := env.events.Update(ctx, event.ID, UpdateEventRequest{Name: &name, MaxApplications: &maxApps})
	require.NoError(t, err)
	assert.Equal(t, "Mega Quiz", updated.Name)
	assert.Equal(t, 50, updated.MaxApplications)
	assert.Equal(t, "quiz", updated.Slug, "slug is stable across renames")

	_, err = env.events.Update(ctx, "event-missing", UpdateEventRequest{Name: &name})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestDeleteEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event := env.createSoloEvent(t, "Ephemeral", 0)

	require.NoError(t, env.events.Delete(ctx, event.ID))

	_, err := env.events.Get(ctx, event.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	// The slug is released for reuse.
	again, err := env.events.Create(ctx, CreateEventRequest{Name: "Ephemeral", Type: "solo"})
	require.NoError(t, err)
	assert.Equal(t, "ephemeral", again.Slug)
}

func TestGetEventBySlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event := env.createSoloEvent(t, "Treasure Hunt", 0)

	found, err := env.events.GetBySlug(ctx, "treasure-hunt")
	require.NoError(t, err)
	assert.Equal(t, event.ID, found.ID)

	_, err = env.events.GetBySlug(ctx, "no-such-slug")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}
