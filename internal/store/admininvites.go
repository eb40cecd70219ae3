package store

import (
	"context"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
)

// FindLiveAdminInviteForEvent returns the unexpired, unused invite bound to
// an event, or nil. At most one may be live per event.
func (s *Store) FindLiveAdminInviteForEvent(ctx context.Context, eventID string) (*domain.AdminInvite, error) {
	for invite, err := range s.AdminInvites.List(ctx) {
		if err != nil {
			return nil, err
		}
		if invite.EventID == eventID && invite.IsLive() {
			return invite, nil
		}
	}
	return nil, nil
}

// FindLiveAdminInviteByEmail returns the live invite addressed to an email,
// or nil. Admins administer a single event, so one live invite per email.
func (s *Store) FindLiveAdminInviteByEmail(ctx context.Context, email string) (*domain.AdminInvite, error) {
	for invite, err := range s.AdminInvites.List(ctx) {
		if err != nil {
			return nil, err
		}
		if invite.Email == email && invite.IsLive() {
			return invite, nil
		}
	}
	return nil, nil
}
