// Package api provides the HTTP API server and handlers for the Legacy25 backend.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/auth"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/config"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/http/response"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/ratelimit"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/service"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store              *store.Store
	tokenService       *auth.TokenService
	userService        *service.UserService
	eventService       *service.EventService
	regService         *service.RegistrationService
	teamService        *service.TeamService
	adminService       *service.AdminService
	adminInviteService *service.AdminInviteService
	paymentService     *service.PaymentService
	authLimiter        *ratelimit.KeyedRateLimiter
	cookieName         string
	cookieSecure       bool
	frontendURL        string
	router             *chi.Mux
	logger             *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg *config.Config,
	st *store.Store,
	tokenService *auth.TokenService,
	userService *service.UserService,
	eventService *service.EventService,
	regService *service.RegistrationService,
	teamService *service.TeamService,
	adminService *service.AdminService,
	adminInviteService *service.AdminInviteService,
	paymentService *service.PaymentService,
	logger *slog.Logger,
) *Server {
	s := &Server{
		store:              st,
		tokenService:       tokenService,
		userService:        userService,
		eventService:       eventService,
		regService:         regService,
		teamService:        teamService,
		adminService:       adminService,
		adminInviteService: adminInviteService,
		paymentService:     paymentService,
		// 20 auth attempts per minute per IP.
		authLimiter:  ratelimit.New(20.0/60.0, 5),
		cookieName:   cfg.Auth.CookieName,
		cookieSecure: cfg.Auth.CookieSecure,
		frontendURL:  cfg.Frontend.BaseURL,
		router:       chi.NewRouter(),
		logger:       logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	authLimit := RateLimitMiddleware(s.authLimiter, s.logger)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// User account endpoints (mostly public).
		r.Route("/user", func(r chi.Router) {
			r.With(authLimit).Post("/signup", s.handleSignup)
			r.Get("/verify/{token}", s.handleVerifyEmail)
			r.Post("/verify-otp", s.handleVerifyOTP)
			r.With(authLimit).Post("/resend-otp", s.handleResendOTP)
			r.With(authLimit).Post("/signin", s.handleSignin)
			r.Post("/signout", s.handleSignout)
			r.Post("/password/forgot", s.handleForgotPassword)
			r.Post("/password/reset/{token}", s.handleResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/me", s.handleGetCurrentUser)
			})
		})

		// Events: listing is public, mutation is admin-only.
		r.Route("/events", func(r chi.Router) {
			r.Get("/", s.handleListEvents)
			r.Get("/{id}", s.handleGetEvent)
			r.Get("/slug/{slug}", s.handleGetEventBySlug)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/register", s.handleRegisterSolo)
			})

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth, s.requireAdmin)
				r.Put("/{id}", s.handleUpdateEvent)
				r.Patch("/{id}", s.handleUpdateEvent)
			})

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth, s.requireSuperAdmin)
				r.Post("/", s.handleCreateEvent)
				r.Delete("/{id}", s.handleDeleteEvent)
			})
		})

		// Event registration (participants).
		r.Route("/registration", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/solo", s.handleRegisterSolo)
			r.Post("/group", s.handleCreateTeam)
			r.Post("/direct", s.handleRegisterDirect)
			r.Get("/check/{eventId}", s.handleCheckRegistration)
			r.Get("/college", s.handleCollegeStats)
		})

		// Team formation and invites.
		r.Route("/teams", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateTeam)
			r.Get("/notifications", s.handleInviteNotifications)
			r.Post("/invites/{inviteId}/respond", s.handleRespondToInvite)
			r.Delete("/invites/{inviteId}", s.handleCancelInvite)
			r.Get("/{id}", s.handleGetTeam)
			r.Post("/{id}/invites", s.handleSendInvites)
			r.Post("/{id}/members", s.handleAddTeamMembers)
			r.Post("/{id}/register", s.handleRegisterTeam)
			r.Post("/{id}/leave", s.handleLeaveTeam)
			r.Delete("/{id}", s.handleDeleteTeam)
		})

		// Admin surface.
		r.Route("/admin", func(r chi.Router) {
			// Claiming an invite is public; the token is the credential.
			r.Post("/invites/claim", s.handleClaimAdminInvite)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth, s.requireAdmin)
				r.Get("/dashboard", s.handleDashboard)
				r.Get("/events/{id}/registrations", s.handleEventRegistrations)
			})

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth, s.requireSuperAdmin)
				r.Get("/users", s.handleListUsers)
				r.Put("/users/{id}", s.handleUpdateUser)
				r.Patch("/users/{id}", s.handleUpdateUser)
				r.Delete("/users/{id}", s.handleDeleteUser)
				r.Post("/invites", s.handleCreateAdminInvite)
				r.Get("/invites", s.handleListAdminInvites)
				r.Delete("/invites/{id}", s.handleDeleteAdminInvite)
			})
		})

		// Payment-gated signup.
		r.Route("/payment", func(r chi.Router) {
			r.Post("/create-order", s.handleCreateOrder)
			r.With(authLimit).Post("/verify-and-register", s.handleVerifyAndRegister)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/transaction/{orderId}", s.handleGetTransaction)
			})
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}, s.logger)
}
