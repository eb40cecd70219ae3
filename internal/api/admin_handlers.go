package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/http/response"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/service"
)

// handleDashboard returns fest-wide registration statistics.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.adminService.Dashboard(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, stats, s.logger)
}

// handleEventRegistrations returns the registration roster for an event.
// Event admins see only their assigned event; the super admin sees any.
func (s *Server) handleEventRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		response.BadRequest(w, "Event ID is required", s.logger)
		return
	}

	caller, err := s.userService.GetUser(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	registrations, err := s.adminService.EventRegistrations(ctx, caller, eventID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, registrations, s.logger)
}

// handleListUsers returns all user accounts, sanitized. Super admin only.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.adminService.ListUsers(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, users, s.logger)
}

// handleUpdateUser applies a partial profile update to a user account.
// Super admin only.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		response.BadRequest(w, "User ID is required", s.logger)
		return
	}

	var req service.AdminUpdateUserRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	user, err := s.adminService.UpdateUser(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleDeleteUser removes a user account. The super admin account itself
// cannot be deleted.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		response.BadRequest(w, "User ID is required", s.logger)
		return
	}

	if err := s.adminService.DeleteUser(r.Context(), userID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleCreateAdminInvite issues an admin invitation for an event.
// Super admin only.
func (s *Server) handleCreateAdminInvite(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAdminInviteRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	invite, err := s.adminInviteService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, invite, s.logger)
}

// handleClaimAdminInvite redeems an invitation token and creates the admin
// account. Public; the token itself is the credential.
func (s *Server) handleClaimAdminInvite(w http.ResponseWriter, r *http.Request) {
	var req service.ClaimAdminInviteRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	user, err := s.adminInviteService.Claim(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, user, s.logger)
}

// handleListAdminInvites returns all admin invitations with token hashes
// stripped. Super admin only.
func (s *Server) handleListAdminInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := s.adminInviteService.List(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, invites, s.logger)
}

// handleDeleteAdminInvite revokes an admin invitation. Super admin only.
func (s *Server) handleDeleteAdminInvite(w http.ResponseWriter, r *http.Request) {
	inviteID := chi.URLParam(r, "id")
	if inviteID == "" {
		response.BadRequest(w, "Invite ID is required", s.logger)
		return
	}

	if err := s.adminInviteService.Delete(r.Context(), inviteID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
