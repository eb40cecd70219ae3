package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
	domainerrors "github.com/sandosh-prabu-2005/Legacy25-Backend/internal/errors"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/id"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/store"
)

// slugRetryLimit bounds the numeric-suffix search for a free slug.
const slugRetryLimit = 50

// EventService manages the event catalogue.
type EventService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewEventService creates a new event service.
func NewEventService(st *store.Store, logger *slog.Logger) *EventService {
	return &EventService{store: st, logger: logger}
}

// CreateEventRequest contains the fields of a new event.
type CreateEventRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Type        string `json:"type" validate:"required,oneof=solo group"`
	Club        string `json:"club" validate:"max=200"`
	Venue       string `json:"venue" validate:"max=200"`

	MinTeamSize     int `json:"min_team_size" validate:"gte=0"`
	MaxTeamSize     int `json:"max_team_size" validate:"gte=0"`
	MaxApplications int `json:"max_applications" validate:"gte=0"`

	RegistrationAmount   int64      `json:"registration_amount" validate:"gte=0"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	StartsAt             *time.Time `json:"starts_at"`
	EndsAt               *time.Time `json:"ends_at"`

	HasGenderBasedTeams bool `json:"has_gender_based_teams"`
	MaxBoyTeams         int  `json:"max_boy_teams" validate:"gte=0"`
	MaxGirlTeams        int  `json:"max_girl_teams" validate:"gte=0"`
}

// Create adds a new event. The slug is derived from the name; collisions
// get a numeric suffix (robotics, robotics-2, ...). Event names are unique.
func (s *EventService) Create(ctx context.Context, req CreateEventRequest) (*domain.Event, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.Events.GetByIndex(ctx, "name", req.Name); err == nil {
		return nil, domainerrors.AlreadyExists("an event with this name already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check event name: %w", err)
	}

	eventID, err := id.Generate("event")
	if err != nil {
		return nil, fmt.Errorf("generate event ID: %w", err)
	}

	event := &domain.Event{
		Record:               domain.Record{ID: eventID},
		Name:                 req.Name,
		Description:          req.Description,
		Type:                 domain.EventType(req.Type),
		Club:                 req.Club,
		Venue:                req.Venue,
		MinTeamSize:          req.MinTeamSize,
		MaxTeamSize:          req.MaxTeamSize,
		MaxApplications:      req.MaxApplications,
		RegistrationAmount:   req.RegistrationAmount,
		RegistrationDeadline: req.RegistrationDeadline,
		StartsAt:             req.StartsAt,
		EndsAt:               req.EndsAt,
		HasGenderBasedTeams:  req.HasGenderBasedTeams,
		MaxBoyTeams:          req.MaxBoyTeams,
		MaxGirlTeams:         req.MaxGirlTeams,
		Applications:         []domain.Application{},
	}
	event.InitTimestamps()

	if err := event.ValidateTeamBounds(); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	base := domain.Slugify(req.Name)
	if base == "" {
		return nil, domainerrors.Validation("event name must contain letters or digits")
	}

	// Index conflicts on the slug drive the suffix search; the Create
	// itself is the authoritative uniqueness check.
	event.Slug = base
	for n := 2; ; n++ {
		err := s.store.Events.Create(ctx, eventID, event)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return nil, fmt.Errorf("create event: %w", err)
		}
		if n > slugRetryLimit {
			return nil, domainerrors.Conflict("could not allocate a unique slug for this event")
		}
		event.Slug = domain.SlugWithSuffix(base, n)
	}

	if s.logger != nil {
		s.logger.Info("Event created", "event_id", eventID, "slug", event.Slug)
	}
	return event, nil
}

// UpdateEventRequest contains the mutable fields of an event.
// The slug is stable after creation; renames do not move URLs.
type UpdateEventRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Club        *string `json:"club" validate:"omitempty,max=200"`
	Venue       *string `json:"venue" validate:"omitempty,max=200"`

	MinTeamSize     *int `json:"min_team_size" validate:"omitempty,gte=0"`
	MaxTeamSize     *int `json:"max_team_size" validate:"omitempty,gte=0"`
	MaxApplications *int `json:"max_applications" validate:"omitempty,gte=0"`

	RegistrationAmount   *int64     `json:"registration_amount" validate:"omitempty,gte=0"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	StartsAt             *time.Time `json:"starts_at"`
	EndsAt               *time.Time `json:"ends_at"`

	HasGenderBasedTeams *bool `json:"has_gender_based_teams"`
	MaxBoyTeams         *int  `json:"max_boy_teams" validate:"omitempty,gte=0"`
	MaxGirlTeams        *int  `json:"max_girl_teams" validate:"omitempty,gte=0"`
}

// Update applies a partial update to an event.
func (s *EventService) Update(ctx context.Context, eventID string, req UpdateEventRequest) (*domain.Event, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	updated, err := s.store.Events.Mutate(ctx, eventID, func(e *domain.Event) error {
		if req.Name != nil {
			e.Name = *req.Name
		}
		if req.Description != nil {
			e.Description = *req.Description
		}
		if req.Club != nil {
			e.Club = *req.Club
		}
		if req.Venue != nil {
			e.Venue = *req.Venue
		}
		if req.MinTeamSize != nil {
			e.MinTeamSize = *req.MinTeamSize
		}
		if req.MaxTeamSize != nil {
			e.MaxTeamSize = *req.MaxTeamSize
		}
		if req.MaxApplications != nil {
			e.MaxApplications = *req.MaxApplications
		}
		if req.RegistrationAmount != nil {
			e.RegistrationAmount = *req.RegistrationAmount
		}
		if req.RegistrationDeadline != nil {
			e.RegistrationDeadline = req.RegistrationDeadline
		}
		if req.StartsAt != nil {
			e.StartsAt = req.StartsAt
		}
		if req.EndsAt != nil {
			e.EndsAt = req.EndsAt
		}
		if req.HasGenderBasedTeams != nil {
			e.HasGenderBasedTeams = *req.HasGenderBasedTeams
		}
		if req.MaxBoyTeams != nil {
			e.MaxBoyTeams = *req.MaxBoyTeams
		}
		if req.MaxGirlTeams != nil {
			e.MaxGirlTeams = *req.MaxGirlTeams
		}
		if err := e.ValidateTeamBounds(); err != nil {
			return domainerrors.Validation(err.Error())
		}
		e.Touch()
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("event not found")
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("an event with this name already exists")
		}
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Event updated", "event_id", eventID)
	}
	return updated, nil
}

// Delete removes an event. Teams and registrations referencing it are
// left in place for the statistics trail.
func (s *EventService) Delete(ctx context.Context, eventID string) error {
	if _, err := s.store.Events.Get(ctx, eventID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("event not found")
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := s.store.Events.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("Event deleted", "event_id", eventID)
	}
	return nil
}

// Get returns an event by ID.
func (s *EventService) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.store.Events.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("event not found")
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// GetBySlug returns an event by its URL slug.
func (s *EventService) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	event, err := s.store.Events.GetByIndex(ctx, "slug", slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("event not found")
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	return event, nil
}

// List returns the full event catalogue.
func (s *EventService) List(ctx context.Context) ([]*domain.Event, error) {
	var events []*domain.Event
	for event, err := range s.store.Events.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		if event.IsDeleted() {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}
