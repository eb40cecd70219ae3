package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
)

// newTestStore opens a store over a temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func testUser(id, email string) *domain.User {
	u := domain.NewParticipant(id, email, "hash", "Test User", "9999999999", domain.GenderFemale, "B.Tech", "Test College", 2)
	return u
}

func TestEntity_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := testUser("user-1", "a@example.com")
	require.NoError(t, s.Users.Create(ctx, user.ID, user))

	got, err := s.Users.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)
}

func TestEntity_Get_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Users.Get(context.Background(), "user-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntity_Create_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, "user-1", testUser("user-1", "a@example.com")))
	err := s.Users.Create(ctx, "user-1", testUser("user-1", "b@example.com"))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestEntity_UniqueIndex_RejectsDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, "user-1", testUser("user-1", "a@example.com")))

	// Same email, different case: still a conflict.
	err := s.Users.Create(ctx, "user-2", testUser("user-2", "A@Example.com"))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestEntity_GetByIndex_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, "user-1", testUser("user-1", "a@example.com")))

	got, err := s.Users.GetByIndex(ctx, "email", "A@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
}

func TestEntity_Update_RefreshesIndexes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := testUser("user-1", "old@example.com")
	require.NoError(t, s.Users.Create(ctx, user.ID, user))

	user.Email = "new@example.com"
	require.NoError(t, s.Users.Update(ctx, user.ID, user))

	_, err := s.Users.GetByIndex(ctx, "email", "old@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.Users.GetByIndex(ctx, "email", "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
}

func TestEntity_Mutate_AppliesAtomically(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	event := &domain.Event{
		Record:          domain.Record{ID: "event-1"},
		Slug:            "quiz",
		Name:            "Quiz",
		Type:            domain.EventTypeSolo,
		MaxApplications: 1,
	}
	event.InitTimestamps()
	require.NoError(t, s.Events.Create(ctx, event.ID, event))

	mutated, err := s.Events.Mutate(ctx, "event-1", func(e *domain.Event) error {
		return e.AddApplication("user-1", "", e.CreatedAt)
	})
	require.NoError(t, err)
	assert.Len(t, mutated.Applications, 1)

	// Second application exceeds capacity; the document stays unchanged.
	_, err = s.Events.Mutate(ctx, "event-1", func(e *domain.Event) error {
		return e.AddApplication("user-2", "", e.CreatedAt)
	})
	assert.ErrorIs(t, err, domain.ErrEventFull)

	got, err := s.Events.Get(ctx, "event-1")
	require.NoError(t, err)
	assert.Len(t, got.Applications, 1)
}

func TestEntity_Delete_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, "user-1", testUser("user-1", "a@example.com")))
	require.NoError(t, s.Users.Delete(ctx, "user-1"))
	require.NoError(t, s.Users.Delete(ctx, "user-1"))

	// Index entry released; email can be reused.
	require.NoError(t, s.Users.Create(ctx, "user-2", testUser("user-2", "a@example.com")))
}

func TestEntity_List_SkipsIndexKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Create(ctx, "user-1", testUser("user-1", "a@example.com")))
	require.NoError(t, s.Users.Create(ctx, "user-2", testUser("user-2", "b@example.com")))

	count, err := s.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
