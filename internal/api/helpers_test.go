package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/auth"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/config"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/mail"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/payment"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/service"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/store"
)

const testTokenKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// stubProvider verifies against a fixed secret without a network hop.
type stubProvider struct {
	secret string
}

func (p *stubProvider) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*payment.Order, error) {
	return &payment.Order{ID: "order_stub", Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

func (p *stubProvider) VerifySignature(orderID, paymentID, signature string) bool {
	return payment.VerifySignature(orderID, paymentID, signature, p.secret)
}

func (p *stubProvider) SignupAmount() int64 { return 25000 }
func (p *stubProvider) Currency() string    { return "INR" }
func (p *stubProvider) KeyID() string       { return "key_stub" }

// setupTestServer builds a fully wired server against a temp-dir store.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		App:      config.AppConfig{Environment: "development"},
		Auth:     config.AuthConfig{CookieName: "legacy_token"},
		Frontend: config.FrontendConfig{BaseURL: "http://localhost:3000"},
	}

	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := auth.NewTokenService(testTokenKey, time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	mailer := mail.Noop{}
	frontend := cfg.Frontend.BaseURL

	userService := service.NewUserService(st, tokens, mailer, frontend, logger)

	return NewServer(
		cfg,
		st,
		tokens,
		userService,
		service.NewEventService(st, logger),
		service.NewRegistrationService(st, logger),
		service.NewTeamService(st, logger),
		service.NewAdminService(st, logger),
		service.NewAdminInviteService(st, mailer, frontend, logger),
		service.NewPaymentService(st, &stubProvider{secret: "S"}, userService, logger),
		logger,
	)
}

// signupUser creates a verified participant through the service layer and
// returns the account.
func signupUser(t *testing.T, server *Server, email, gender string) *domain.User {
	t.Helper()
	ctx := context.Background()

	resp, err := server.userService.Signup(ctx, service.SignupRequest{
		Name:     "Test User",
		Email:    email,
		Password: "correct-horse",
		Phone:    "9876543210",
		Gender:   gender,
		Degree:   "B.Tech",
		Year:     2,
		College:  "Legacy Institute",
	})
	require.NoError(t, err)

	user, err := server.store.Users.Mutate(ctx, resp.UserID, func(u *domain.User) error {
		u.IsVerified = true
		return nil
	})
	require.NoError(t, err)
	return user
}

// seedSuperAdmin burns the first-user slot; the returned account is the
// super admin.
func seedSuperAdmin(t *testing.T, server *Server) *domain.User {
	t.Helper()
	return signupUser(t, server, "root@example.com", domain.GenderMale)
}

// tokenFor issues an access token for the user.
func tokenFor(t *testing.T, server *Server, user *domain.User) string {
	t.Helper()
	token, err := server.tokenService.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, server *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}
