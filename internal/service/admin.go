package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
	domainerrors "github.com/sandosh-prabu-2005/Legacy25-Backend/internal/errors"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/store"
)

// AdminService serves the dashboard and account management endpoints.
type AdminService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(st *store.Store, logger *slog.Logger) *AdminService {
	return &AdminService{store: st, logger: logger}
}

// EventStats summarizes registration activity for one event.
type EventStats struct {
	EventID         string `json:"event_id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Type            string `json:"type"`
	Applications    int    `json:"applications"`
	RegisteredTeams int    `json:"registered_teams,omitempty"`
}

// DashboardStats is the super-admin landing view.
type DashboardStats struct {
	TotalUsers         int            `json:"total_users"`
	TotalEvents        int            `json:"total_events"`
	TotalRegistrations int            `json:"total_registrations"`
	TotalTeams         int            `json:"total_teams"`
	Events             []EventStats   `json:"events"`
	ByCollege          map[string]int `json:"by_college"`
	ByGender           map[string]int `json:"by_gender"`
}

// Dashboard aggregates platform-wide statistics. The dataset is a single
// fest; everything is computed with full scans.
func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{Events: []EventStats{}}

	var err error
	if stats.TotalUsers, err = s.store.Users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.TotalRegistrations, err = s.store.Registrations.Count(ctx); err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if stats.TotalTeams, err = s.store.Teams.Count(ctx); err != nil {
		return nil, fmt.Errorf("count teams: %w", err)
	}

	for event, err := range s.store.Events.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		stats.TotalEvents++

		es := EventStats{
			EventID:      event.ID,
			Name:         event.Name,
			Slug:         event.Slug,
			Type:         string(event.Type),
			Applications: len(event.Applications),
		}
		if event.IsGroup() {
			count, err := s.store.CountRegisteredTeams(ctx, event.ID, "")
			if err != nil {
				return nil, fmt.Errorf("count registered teams: %w", err)
			}
			es.RegisteredTeams = count
		}
		stats.Events = append(stats.Events, es)
	}

	if stats.ByCollege, err = s.store.CountRegistrationsByCollege(ctx); err != nil {
		return nil, fmt.Errorf("count by college: %w", err)
	}
	if stats.ByGender, err = s.store.CountRegistrationsByGender(ctx); err != nil {
		return nil, fmt.Errorf("count by gender: %w", err)
	}

	return stats, nil
}

// EventRegistrations returns the participant roster for one event.
// Admins see only their assigned event; super-admins see any.
func (s *AdminService) EventRegistrations(ctx context.Context, caller *domain.User, eventID string) ([]*domain.EventRegistration, error) {
	if !caller.CanAdministerEvent(eventID) {
		return nil, domainerrors.Forbidden("you do not manage this event")
	}

	if _, err := s.store.Events.Get(ctx, eventID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("event not found")
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	regs, err := s.store.ListRegistrationsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

// ListUsers returns every account, secrets stripped.
func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	for user, err := range s.store.Users.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, user.Sanitize())
	}
	return users, nil
}

// AdminUpdateUserRequest contains the fields super-admins may edit.
type AdminUpdateUserRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=120"`
	Phone   *string `json:"phone" validate:"omitempty,min=7,max=15"`
	Degree  *string `json:"degree" validate:"omitempty,max=120"`
	Year    *int    `json:"year" validate:"omitempty,gte=1,lte=6"`
	College *string `json:"college" validate:"omitempty,max=200"`
	Club    *string `json:"club" validate:"omitempty,max=200"`
}

// UpdateUser applies a partial account update.
func (s *AdminService) UpdateUser(ctx context.Context, userID string, req AdminUpdateUserRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	updated, err := s.store.Users.Mutate(ctx, userID, func(u *domain.User) error {
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Phone != nil {
			u.Phone = *req.Phone
		}
		if req.Degree != nil {
			u.Degree = *req.Degree
		}
		if req.Year != nil {
			u.Year = *req.Year
		}
		if req.College != nil {
			u.College = *req.College
		}
		if req.Club != nil {
			u.Club = *req.Club
		}
		u.Touch()
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("User updated by admin", "user_id", userID)
	}
	return updated.Sanitize(), nil
}

// DeleteUser removes an account. The super-admin cannot be deleted.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("get user: %w", err)
	}
	if user.IsSuperAdmin {
		return domainerrors.Forbidden("the super-admin account cannot be deleted")
	}

	if err := s.store.Users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User deleted by admin", "user_id", userID)
	}
	return nil
}
