package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/http/response"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/service"
)

// handleSignup registers a new participant account and sends verification mail.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.userService.Signup(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, result, s.logger)
}

// handleVerifyEmail confirms an account via the emailed verification link.
func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		response.BadRequest(w, "Verification token is required", s.logger)
		return
	}

	user, err := s.userService.VerifyEmail(r.Context(), token)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleVerifyOTP confirms an account via the emailed one-time password.
func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req service.VerifyOTPRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	user, err := s.userService.VerifyOTP(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleResendOTP issues a fresh OTP for an unverified account.
func (s *Server) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req service.ResendOTPRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.userService.ResendOTP(r.Context(), req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{"message": "verification code sent"}, s.logger)
}

// handleSignin authenticates a verified user and sets the auth cookie.
func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req service.SigninRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.userService.Signin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.setAuthCookie(w, result.AccessToken, int(result.ExpiresIn))
	response.Success(w, result, s.logger)
}

// handleSignout clears the auth cookie. Access tokens are stateless, so there
// is nothing to revoke server-side.
func (s *Server) handleSignout(w http.ResponseWriter, _ *http.Request) {
	s.clearAuthCookie(w)
	response.Success(w, map[string]string{"message": "signed out"}, s.logger)
}

// handleForgotPassword sends a password reset link. Unknown emails are
// accepted silently so the endpoint cannot be used to probe accounts.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req service.ForgotPasswordRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.userService.ForgotPassword(r.Context(), req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{
		"message": "if an account exists for that email, a reset link has been sent",
	}, s.logger)
}

// handleResetPassword sets a new password using a reset token.
func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		response.BadRequest(w, "Reset token is required", s.logger)
		return
	}

	var req service.ResetPasswordRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.userService.ResetPassword(r.Context(), token, req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{"message": "password updated"}, s.logger)
}

// handleGetCurrentUser returns the authenticated user's profile.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := s.userService.GetUser(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// setAuthCookie stores the access token in an httpOnly cookie for browser
// clients. API clients can keep using the Authorization header instead.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookie expires the auth cookie.
func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
