package store

import (
	"context"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
)

// FindPendingInvite returns the pending invite for a (team, invitee) pair,
// or nil. At most one can exist at a time.
func (s *Store) FindPendingInvite(ctx context.Context, teamID, inviteeID string) (*domain.Invite, error) {
	for invite, err := range s.Invites.List(ctx) {
		if err != nil {
			return nil, err
		}
		if invite.TeamID == teamID && invite.InviteeID == inviteeID && invite.IsPending() {
			return invite, nil
		}
	}
	return nil, nil
}

// CountPendingInvitesByTeam counts unresolved invites for a team. Used for
// headroom checks when creating new invites.
func (s *Store) CountPendingInvitesByTeam(ctx context.Context, teamID string) (int, error) {
	count := 0
	for invite, err := range s.Invites.List(ctx) {
		if err != nil {
			return 0, err
		}
		if invite.TeamID == teamID && invite.IsPending() {
			count++
		}
	}
	return count, nil
}

// ListPendingInvitesByInvitee returns the caller's open invites, newest first
// ordering is left to the caller.
func (s *Store) ListPendingInvitesByInvitee(ctx context.Context, inviteeID string) ([]*domain.Invite, error) {
	var invites []*domain.Invite
	for invite, err := range s.Invites.List(ctx) {
		if err != nil {
			return nil, err
		}
		if invite.InviteeID == inviteeID && invite.IsPending() {
			invites = append(invites, invite)
		}
	}
	return invites, nil
}

// DeletePendingInvitesByTeam removes all unresolved invites of a team.
// Called when a team is deleted or registered.
func (s *Store) DeletePendingInvitesByTeam(ctx context.Context, teamID string) error {
	var ids []string
	for invite, err := range s.Invites.List(ctx) {
		if err != nil {
			return err
		}
		if invite.TeamID == teamID && invite.IsPending() {
			ids = append(ids, invite.ID)
		}
	}
	for _, id := range ids {
		if err := s.Invites.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
