package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/http/response"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/service"
)

// handleCreateTeam creates a new team for a group event with the
// authenticated user as leader.
func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CreateTeamRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	team, err := s.teamService.Create(ctx, getUserID(ctx), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, team, s.logger)
}

// handleGetTeam returns a team the authenticated user belongs to.
func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	teamID := chi.URLParam(r, "id")
	if teamID == "" {
		response.BadRequest(w, "Team ID is required", s.logger)
		return
	}

	team, err := s.teamService.Get(ctx, getUserID(ctx), teamID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, team, s.logger)
}

// handleSendInvites sends invites to a batch of email addresses. Each address
// succeeds or fails independently.
func (s *Server) handleSendInvites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	teamID := chi.URLParam(r, "id")
	if teamID == "" {
		response.BadRequest(w, "Team ID is required", s.logger)
		return
	}

	var req service.BulkInviteRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.teamService.Invite(ctx, getUserID(ctx), teamID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleRespondToInvite accepts or declines a pending invite.
func (s *Server) handleRespondToInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inviteID := chi.URLParam(r, "inviteId")
	if inviteID == "" {
		response.BadRequest(w, "Invite ID is required", s.logger)
		return
	}

	var req service.RespondRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	invite, err := s.teamService.Respond(ctx, getUserID(ctx), inviteID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, invite, s.logger)
}

// handleCancelInvite withdraws a pending invite. Leader only.
func (s *Server) handleCancelInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inviteID := chi.URLParam(r, "inviteId")
	if inviteID == "" {
		response.BadRequest(w, "Invite ID is required", s.logger)
		return
	}

	if err := s.teamService.CancelInvite(ctx, getUserID(ctx), inviteID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleInviteNotifications returns the authenticated user's pending invites
// enriched with event and inviter details.
func (s *Server) handleInviteNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	notifications, err := s.teamService.Notifications(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, notifications, s.logger)
}

// handleAddTeamMembers adds members directly to an unregistered team.
// Leader only.
func (s *Server) handleAddTeamMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	teamID := chi.URLParam(r, "id")
	if teamID == "" {
		response.BadRequest(w, "Team ID is required", s.logger)
		return
	}

	var req service.AddMembersRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	team, err := s.teamService.AddMembers(ctx, getUserID(ctx), teamID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, team, s.logger)
}

// handleRegisterTeam locks in the team for its event. Leader only.
func (s *Server) handleRegisterTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	teamID := chi.URLParam(r, "id")
	if teamID == "" {
		response.BadRequest(w, "Team ID is required", s.logger)
		return
	}

	team, err := s.teamService.Register(ctx, getUserID(ctx), teamID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, team, s.logger)
}

// handleLeaveTeam removes the authenticated user from an unregistered team.
func (s *Server) handleLeaveTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	teamID := chi.URLParam(r, "id")
	if teamID == "" {
		response.BadRequest(w, "Team ID is required", s.logger)
		return
	}

	if err := s.teamService.Leave(ctx, getUserID(ctx), teamID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleDeleteTeam disbands an unregistered team and cancels its pending
// invites. Leader only.
func (s *Server) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	teamID := chi.URLParam(r, "id")
	if teamID == "" {
		response.BadRequest(w, "Team ID is required", s.logger)
		return
	}

	if err := s.teamService.Delete(ctx, getUserID(ctx), teamID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
