package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/auth"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
	domainerrors "github.com/sandosh-prabu-2005/Legacy25-Backend/internal/errors"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/id"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/mail"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/store"
)

// adminInviteTTL bounds how long an onboarding link stays claimable.
const adminInviteTTL = 7 * 24 * time.Hour

// invalidInviteMessage is deliberately identical for unknown, expired and
// used tokens.
const invalidInviteMessage = "Invalid or expired invitation token"

// AdminInviteService onboards event admins through single-use email links.
type AdminInviteService struct {
	store       *store.Store
	mailer      mail.Mailer
	frontendURL string
	logger      *slog.Logger
}

// NewAdminInviteService creates a new admin invite service.
func NewAdminInviteService(st *store.Store, mailer mail.Mailer, frontendURL string, logger *slog.Logger) *AdminInviteService {
	return &AdminInviteService{
		store:       st,
		mailer:      mailer,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// CreateAdminInviteRequest binds an invite to one email, event and club.
type CreateAdminInviteRequest struct {
	Email    string `json:"email" validate:"required,email"`
	EventID  string `json:"event_id" validate:"required"`
	ClubName string `json:"club_name" validate:"required,max=200"`
}

// Create issues an admin invite: random token emailed raw, SHA-256 digest
// stored, seven-day expiry. One admin per event; one live invite per event
// and per email.
func (s *AdminInviteService) Create(ctx context.Context, req CreateAdminInviteRequest) (*domain.AdminInvite, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	event, err := s.store.Events.Get(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("event not found")
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if len(event.StaffInchargeIDs) > 0 {
		return nil, domainerrors.Conflict("this event already has an admin")
	}

	if existing, err := s.store.Users.GetByIndex(ctx, "email", req.Email); err == nil && existing != nil {
		return nil, domainerrors.AlreadyExists("an account with this email already exists")
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if live, err := s.store.FindLiveAdminInviteForEvent(ctx, req.EventID); err != nil {
		return nil, fmt.Errorf("check live invites: %w", err)
	} else if live != nil {
		return nil, domainerrors.Conflict("a live invite already exists for this event")
	}

	if live, err := s.store.FindLiveAdminInviteByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("check live invites: %w", err)
	} else if live != nil {
		return nil, domainerrors.Conflict("this email already has a pending invitation")
	}

	token, err := auth.GenerateLinkToken()
	if err != nil {
		return nil, fmt.Errorf("generate invite token: %w", err)
	}

	inviteID, err := id.Generate("admininvite")
	if err != nil {
		return nil, fmt.Errorf("generate invite ID: %w", err)
	}

	invite := &domain.AdminInvite{
		Record:    domain.Record{ID: inviteID},
		Email:     req.Email,
		EventID:   req.EventID,
		ClubName:  req.ClubName,
		TokenHash: auth.HashToken(token),
		ExpiresAt: time.Now().Add(adminInviteTTL),
	}
	invite.InitTimestamps()

	if err := s.store.AdminInvites.Create(ctx, inviteID, invite); err != nil {
		return nil, fmt.Errorf("create admin invite: %w", err)
	}

	link := s.frontendURL + "/admin/claim/" + token
	if err := s.mailer.SendAdminInviteEmail(req.Email, req.ClubName, event.Name, link); err != nil && s.logger != nil {
		s.logger.Error("Failed to send admin invite email", "invite_id", inviteID, "error", err)
	}

	if s.logger != nil {
		s.logger.Info("Admin invite created", "invite_id", inviteID, "event_id", req.EventID)
	}

	clean := *invite
	clean.TokenHash = ""
	return &clean, nil
}

// ClaimAdminInviteRequest completes admin onboarding from a raw token.
type ClaimAdminInviteRequest struct {
	Token    string `json:"token" validate:"required"`
	Name     string `json:"name" validate:"required,max=120"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// Claim redeems an invite: the presented token is re-hashed and matched
// against the stored digest, the admin account is created pre-verified,
// and the event gains its staff in-charge.
func (s *AdminInviteService) Claim(ctx context.Context, req ClaimAdminInviteRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	invite, err := s.store.AdminInvites.GetByIndex(ctx, "token", auth.HashToken(req.Token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized(invalidInviteMessage)
		}
		return nil, fmt.Errorf("lookup invite: %w", err)
	}
	if !invite.IsLive() {
		return nil, domainerrors.Unauthorized(invalidInviteMessage)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	admin := domain.NewAdmin(userID, invite.Email, passwordHash, req.Name, invite.ClubName, invite.EventID)
	if err := s.store.Users.Create(ctx, userID, admin); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("an account with this email already exists")
		}
		return nil, fmt.Errorf("create admin user: %w", err)
	}

	if _, err := s.store.Events.Mutate(ctx, invite.EventID, func(e *domain.Event) error {
		for _, staffID := range e.StaffInchargeIDs {
			if staffID == userID {
				return nil
			}
		}
		e.StaffInchargeIDs = append(e.StaffInchargeIDs, userID)
		e.Touch()
		return nil
	}); err != nil && s.logger != nil {
		s.logger.Error("Failed to attach admin to event", "event_id", invite.EventID, "error", err)
	}

	if _, err := s.store.AdminInvites.Mutate(ctx, invite.ID, func(a *domain.AdminInvite) error {
		a.IsUsed = true
		a.Touch()
		return nil
	}); err != nil && s.logger != nil {
		s.logger.Error("Failed to mark invite used", "invite_id", invite.ID, "error", err)
	}

	if s.logger != nil {
		s.logger.Info("Admin invite claimed", "invite_id", invite.ID, "user_id", userID)
	}
	return admin.Sanitize(), nil
}

// List returns all invites with digests stripped.
func (s *AdminInviteService) List(ctx context.Context) ([]*domain.AdminInvite, error) {
	var invites []*domain.AdminInvite
	for invite, err := range s.store.AdminInvites.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list admin invites: %w", err)
		}
		clean := *invite
		clean.TokenHash = ""
		invites = append(invites, &clean)
	}
	return invites, nil
}

// Delete revokes an invite.
func (s *AdminInviteService) Delete(ctx context.Context, inviteID string) error {
	if _, err := s.store.AdminInvites.Get(ctx, inviteID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("invite not found")
		}
		return fmt.Errorf("get invite: %w", err)
	}
	if err := s.store.AdminInvites.Delete(ctx, inviteID); err != nil {
		return fmt.Errorf("delete invite: %w", err)
	}
	return nil
}
