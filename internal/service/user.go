package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/auth"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
	domainerrors "github.com/sandosh-prabu-2005/Legacy25-Backend/internal/errors"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/id"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/mail"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/store"
)

const (
	verifyTokenTTL = 24 * time.Hour
	otpTTL         = 10 * time.Minute
	resetTokenTTL  = time.Hour
)

// UserService handles signup, verification, sign-in and password recovery.
type UserService struct {
	store        *store.Store
	tokenService *auth.TokenService
	mailer       mail.Mailer
	frontendURL  string
	logger       *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	st *store.Store,
	tokenService *auth.TokenService,
	mailer mail.Mailer,
	frontendURL string,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		store:        st,
		tokenService: tokenService,
		mailer:       mailer,
		frontendURL:  frontendURL,
		logger:       logger,
	}
}

// SignupRequest contains participant registration data.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
	Phone    string `json:"phone" validate:"required,min=7,max=15"`
	Gender   string `json:"gender" validate:"required,oneof=Male Female Other"`
	Degree   string `json:"degree" validate:"required,max=120"`
	Year     int    `json:"year" validate:"required,gte=1,lte=6"`
	College  string `json:"college" validate:"required,max=200"`
}

// SignupResponse contains the result of a signup request.
type SignupResponse struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// AuthResponse contains the access token and the signed-in user.
type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"` // Seconds
}

// Signup creates a verification-pending participant account.
//
// A prior unverified account with the same email is replaced; a verified
// one rejects the signup. The very first account on the platform is
// promoted to super-admin.
func (s *UserService) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.store.Users.GetByIndex(ctx, "email", req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	if existing != nil {
		if existing.IsVerified {
			return nil, domainerrors.AlreadyExists("an account with this email already exists")
		}
		// Unverified leftover from an abandoned signup; replace it.
		if err := s.store.Users.Delete(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("replace unverified user: %w", err)
		}
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := domain.NewParticipant(userID, req.Email, passwordHash, req.Name,
		req.Phone, req.Gender, req.Degree, req.College, req.Year)

	// The first account ever created owns the platform.
	count, err := s.store.Users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if count == 0 {
		user.IsSuperAdmin = true
	}

	linkToken, err := auth.GenerateLinkToken()
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}
	otp, err := auth.GenerateOTP()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}

	now := time.Now()
	linkExpiry := now.Add(verifyTokenTTL)
	otpExpiry := now.Add(otpTTL)
	user.VerifyTokenHash = auth.HashToken(linkToken)
	user.VerifyTokenExpiry = &linkExpiry
	user.OTPHash = auth.HashToken(otp)
	user.OTPExpiry = &otpExpiry

	if err := s.store.Users.Create(ctx, userID, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("an account with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Mail failures never roll back the account; the user can resend.
	link := s.frontendURL + "/verify/" + linkToken
	if err := s.mailer.SendVerificationEmail(user.Email, user.Name, link); err != nil && s.logger != nil {
		s.logger.Error("Failed to send verification email", "user_id", userID, "error", err)
	}
	if err := s.mailer.SendOTPEmail(user.Email, user.Name, otp); err != nil && s.logger != nil {
		s.logger.Error("Failed to send otp email", "user_id", userID, "error", err)
	}

	if s.logger != nil {
		s.logger.Info("User signed up", "user_id", userID, "email", user.Email, "super_admin", user.IsSuperAdmin)
	}

	return &SignupResponse{
		UserID:  userID,
		Message: "Account created. Check your email to verify your account.",
	}, nil
}

// VerifyEmail marks the account matching the raw link token as verified.
func (s *UserService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domainerrors.Validation("verification token is required")
	}

	user, err := s.findByTokenHash(ctx, token, func(u *domain.User) (string, *time.Time) {
		return u.VerifyTokenHash, u.VerifyTokenExpiry
	})
	if err != nil {
		return nil, err
	}

	verified, err := s.store.Users.Mutate(ctx, user.ID, func(u *domain.User) error {
		u.IsVerified = true
		u.VerifyTokenHash = ""
		u.VerifyTokenExpiry = nil
		u.OTPHash = ""
		u.OTPExpiry = nil
		u.Touch()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mark user verified: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User verified via link", "user_id", user.ID)
	}
	return verified.Sanitize(), nil
}

// VerifyOTPRequest identifies the account and the numeric code.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

// VerifyOTP marks the account verified when the OTP matches and is current.
func (s *UserService) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByIndex(ctx, "email", req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("account not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user.IsVerified {
		return user.Sanitize(), nil
	}
	if user.OTPHash == "" || !auth.TokenMatches(req.OTP, user.OTPHash) {
		return nil, domainerrors.Unauthorized("invalid verification code")
	}
	if user.OTPExpiry == nil || time.Now().After(*user.OTPExpiry) {
		return nil, domainerrors.TokenExpired("verification code has expired")
	}

	verified, err := s.store.Users.Mutate(ctx, user.ID, func(u *domain.User) error {
		u.IsVerified = true
		u.VerifyTokenHash = ""
		u.VerifyTokenExpiry = nil
		u.OTPHash = ""
		u.OTPExpiry = nil
		u.Touch()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mark user verified: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User verified via otp", "user_id", user.ID)
	}
	return verified.Sanitize(), nil
}

// ResendOTPRequest identifies the account to refresh the code for.
type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendOTP issues a fresh OTP for an unverified account.
func (s *UserService) ResendOTP(ctx context.Context, req ResendOTPRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	user, err := s.store.Users.GetByIndex(ctx, "email", req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("account not found")
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	if user.IsVerified {
		return domainerrors.Conflict("account is already verified")
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	expiry := time.Now().Add(otpTTL)

	if _, err := s.store.Users.Mutate(ctx, user.ID, func(u *domain.User) error {
		u.OTPHash = auth.HashToken(otp)
		u.OTPExpiry = &expiry
		u.Touch()
		return nil
	}); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if err := s.mailer.SendOTPEmail(user.Email, user.Name, otp); err != nil && s.logger != nil {
		s.logger.Error("Failed to send otp email", "user_id", user.ID, "error", err)
	}
	return nil
}

// SigninRequest contains user credentials.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signin verifies credentials and issues an access token.
func (s *UserService) Signin(ctx context.Context, req SigninRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByIndex(ctx, "email", req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}
	if !user.IsVerified {
		return nil, domainerrors.Unauthorized("verify your email before signing in")
	}

	// Best-effort login bookkeeping.
	if _, err := s.store.Users.Mutate(ctx, user.ID, func(u *domain.User) error {
		u.LastLoginAt = time.Now()
		return nil
	}); err != nil && s.logger != nil {
		s.logger.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User signed in", "user_id", user.ID)
	}

	return &AuthResponse{
		User:        user.Sanitize(),
		AccessToken: token,
		ExpiresIn:   int64(s.tokenService.AccessTokenDuration().Seconds()),
	}, nil
}

// ForgotPasswordRequest identifies the account to recover.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword sends a reset link. The response never reveals whether
// the email exists.
func (s *UserService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	user, err := s.store.Users.GetByIndex(ctx, "email", req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	token, err := auth.GenerateLinkToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	expiry := time.Now().Add(resetTokenTTL)

	if _, err := s.store.Users.Mutate(ctx, user.ID, func(u *domain.User) error {
		u.ResetTokenHash = auth.HashToken(token)
		u.ResetTokenExpiry = &expiry
		u.Touch()
		return nil
	}); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := s.frontendURL + "/reset-password/" + token
	if err := s.mailer.SendPasswordResetEmail(user.Email, user.Name, link); err != nil && s.logger != nil {
		s.logger.Error("Failed to send reset email", "user_id", user.ID, "error", err)
	}
	return nil
}

// ResetPasswordRequest carries the new password for a reset link.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// ResetPassword sets a new password for the account matching the raw token.
func (s *UserService) ResetPassword(ctx context.Context, token string, req ResetPasswordRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}
	if token == "" {
		return domainerrors.Validation("reset token is required")
	}

	user, err := s.findByTokenHash(ctx, token, func(u *domain.User) (string, *time.Time) {
		return u.ResetTokenHash, u.ResetTokenExpiry
	})
	if err != nil {
		return err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.store.Users.Mutate(ctx, user.ID, func(u *domain.User) error {
		u.PasswordHash = passwordHash
		u.ResetTokenHash = ""
		u.ResetTokenExpiry = nil
		u.Touch()
		return nil
	}); err != nil {
		return fmt.Errorf("store new password: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Password reset", "user_id", user.ID)
	}
	return nil
}

// GetUser returns the sanitized account for the given ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user.Sanitize(), nil
}

// findByTokenHash scans for the user whose stored digest matches the raw
// token. Token collections are not indexed; the scan is bounded by the
// user population of a single fest.
func (s *UserService) findByTokenHash(ctx context.Context, token string, field func(*domain.User) (string, *time.Time)) (*domain.User, error) {
	for user, err := range s.store.Users.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("scan users: %w", err)
		}
		hash, expiry := field(user)
		if hash == "" || !auth.TokenMatches(token, hash) {
			continue
		}
		if expiry == nil || time.Now().After(*expiry) {
			return nil, domainerrors.TokenExpired("token has expired")
		}
		return user, nil
	}
	return nil, domainerrors.Unauthorized("invalid or expired token")
}
