package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/http/response"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/service"
)

// handleRegisterSolo registers the authenticated user for a solo event.
func (s *Server) handleRegisterSolo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.SoloRegistrationRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	event, err := s.regService.RegisterSolo(ctx, getUserID(ctx), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, event, s.logger)
}

// handleRegisterDirect registers a pre-formed team in one call, with the
// authenticated user as leader.
func (s *Server) handleRegisterDirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.DirectRegistrationRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	team, err := s.regService.RegisterDirect(ctx, getUserID(ctx), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, team, s.logger)
}

// handleCheckRegistration reports whether the authenticated user is
// registered for an event, and how.
func (s *Server) handleCheckRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		response.BadRequest(w, "Event ID is required", s.logger)
		return
	}

	check, err := s.regService.Check(ctx, getUserID(ctx), eventID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, check, s.logger)
}

// handleCollegeStats returns registration counts grouped by college.
func (s *Server) handleCollegeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.regService.CollegeStats(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, stats, s.logger)
}
