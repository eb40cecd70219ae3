package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/http/response"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/service"
)

// handleListEvents returns all live events.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.eventService.List(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, events, s.logger)
}

// handleGetEvent returns a single event by ID.
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Event ID is required", s.logger)
		return
	}

	event, err := s.eventService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, event, s.logger)
}

// handleGetEventBySlug returns a single event by its URL slug.
func (s *Server) handleGetEventBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		response.BadRequest(w, "Event slug is required", s.logger)
		return
	}

	event, err := s.eventService.GetBySlug(r.Context(), slug)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, event, s.logger)
}

// handleCreateEvent creates a new event. Admin only.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req service.CreateEventRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	event, err := s.eventService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, event, s.logger)
}

// handleUpdateEvent applies a partial update to an event. Admin only.
func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Event ID is required", s.logger)
		return
	}

	var req service.UpdateEventRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	event, err := s.eventService.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, event, s.logger)
}

// handleDeleteEvent removes an event and releases its slug. Admin only.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Event ID is required", s.logger)
		return
	}

	if err := s.eventService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
