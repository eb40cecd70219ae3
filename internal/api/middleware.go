package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyUserID       contextKey = "user_id"
	contextKeyRole         contextKey = "role"
	contextKeyIsSuperAdmin contextKey = "is_super_admin"
)

// requireAuth validates access tokens and attaches user context. The token is
// read from the Authorization header or, failing that, the auth cookie.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r, s.cookieName)
		if tokenString == "" {
			response.Unauthorized(w, "Authentication required", s.logger)
			return
		}

		claims, err := s.tokenService.VerifyAccessToken(tokenString)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token", s.logger)
			return
		}

		// Claims are trusted as-is until the token expires; role changes
		// and deletions take effect on the next signin, not mid-session.
		ctx := context.WithValue(r.Context(), contextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, contextKeyRole, claims.Role)
		ctx = context.WithValue(ctx, contextKeyIsSuperAdmin, claims.IsSuperAdmin)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin ensures the authenticated user holds the admin role or is the
// super admin. Must be used after requireAuth.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if !isSuperAdmin(ctx) && getRole(ctx) != string(domain.RoleAdmin) {
			response.Forbidden(w, "Admin access required", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requireSuperAdmin ensures the authenticated user is the super admin.
// Must be used after requireAuth.
func (s *Server) requireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isSuperAdmin(r.Context()) {
			response.Forbidden(w, "Super admin access required", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractToken pulls the access token from the Authorization header, falling
// back to the named cookie for browser clients.
func extractToken(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil {
			return c.Value
		}
	}
	return ""
}

// getUserID extracts the authenticated user ID from request context.
// Returns empty string if not authenticated.
func getUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(contextKeyUserID).(string); ok {
		return userID
	}
	return ""
}

// getRole extracts the authenticated user's role from request context.
func getRole(ctx context.Context) string {
	if role, ok := ctx.Value(contextKeyRole).(string); ok {
		return role
	}
	return ""
}

// isSuperAdmin checks if the authenticated user is the super admin.
func isSuperAdmin(ctx context.Context) bool {
	if v, ok := ctx.Value(contextKeyIsSuperAdmin).(bool); ok {
		return v
	}
	return false
}
