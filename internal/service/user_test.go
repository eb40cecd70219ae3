package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/auth"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
	domainerrors "github.com/sandosh-prabu-2005/Legacy25-Backend/internal/errors"
)

func validSignup(email string) SignupRequest {
	return SignupRequest{
		Name:     "Asha",
		Email:    email,
		Password: "password123",
		Phone:    "9876543210",
		Gender:   domain.GenderFemale,
		Degree:   "B.Tech",
		Year:     3,
		College:  "Test College",
	}
}

func TestSignupFirstUserIsSuperAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.users.Signup(ctx, validSignup("first@example.com"))
	require.NoError(t, err)

	user, err := env.store.Users.Get(ctx, first.UserID)
	require.NoError(t, err)
	assert.True(t, user.IsSuperAdmin)
	assert.False(t, user.IsVerified)

	second, err := env.users.Signup(ctx, validSignup("second@example.com"))
	require.NoError(t, err)

	user, err = env.store.Users.Get(ctx, second.UserID)
	require.NoError(t, err)
	assert.False(t, user.IsSuperAdmin)
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.signupVerified(t, "taken@example.com", domain.GenderMale)

	_, err := env.users.Signup(ctx, validSignup("taken@example.com"))
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))

	// Case-insensitive.
	_, err = env.users.Signup(ctx, validSignup("TAKEN@example.com"))
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestSignupReplacesUnverifiedAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.users.Signup(ctx, validSignup("pending@example.com"))
	require.NoError(t, err)

	second, err := env.users.Signup(ctx, validSignup("pending@example.com"))
	require.NoError(t, err)
	assert.NotEqual(t, first.UserID, second.UserID)

	_, err = env.store.Users.Get(ctx, first.UserID)
	assert.Error(t, err, "abandoned unverified account should be gone")

	user, err := env.store.Users.Get(ctx, second.UserID)
	require.NoError(t, err)
	assert.Equal(t, "pending@example.com", user.Email)
}

func TestVerifyOTP(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.users.Signup(ctx, validSignup("otp@example.com"))
	require.NoError(t, err)

	// The raw OTP is only emailed; plant a known one for the test.
	expiry := time.Now().Add(10 * time.Minute)
	_, err = env.store.Users.Mutate(ctx, resp.UserID, func(u *domain.User) error {
		u.OTPHash = auth.HashToken("123456")
		u.OTPExpiry = &expiry
		return nil
	})
	require.NoError(t, err)

	_, err = env.users.VerifyOTP(ctx, VerifyOTPRequest{Email: "otp@example.com", OTP: "654321"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))

	user, err := env.users.VerifyOTP(ctx, VerifyOTPRequest{Email: "otp@example.com", OTP: "123456"})
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.Empty(t, user.OTPHash)
}

func TestVerifyOTPExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.users.Signup(ctx, validSignup("stale@example.com"))
	require.NoError(t, err)

	expiry := time.Now().Add(-time.Minute)
	_, err = env.store.Users.Mutate(ctx, resp.UserID, func(u *domain.User) error {
		u.OTPHash = auth.HashToken("123456")
		u.OTPExpiry = &expiry
		return nil
	})
	require.NoError(t, err)

	_, err = env.users.VerifyOTP(ctx, VerifyOTPRequest{Email: "stale@example.com", OTP: "123456"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrTokenExpired))
}

func TestVerifyEmailLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.users.Signup(ctx, validSignup("link@example.com"))
	require.NoError(t, err)

	expiry := time.Now().Add(24 * time.Hour)
	_, err = env.store.Users.Mutate(ctx, resp.UserID, func(u *domain.User) error {
		u.VerifyTokenHash = auth.HashToken("known-raw-token")
		u.VerifyTokenExpiry = &expiry
		return nil
	})
	require.NoError(t, err)

	_, err = env.users.VerifyEmail(ctx, "wrong-token")
	assert.Error(t, err)

	user, err := env.users.VerifyEmail(ctx, "known-raw-token")
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
}

func TestSigninRequiresVerification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Signup(ctx, validSignup("unverified@example.com"))
	require.NoError(t, err)

	_, err = env.users.Signin(ctx, SigninRequest{Email: "unverified@example.com", Password: "password123"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))
}

func TestSignin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.signupVerified(t, "login@example.com", domain.GenderMale)

	resp, err := env.users.Signin(ctx, SigninRequest{Email: "login@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Empty(t, resp.User.PasswordHash, "password hash must not leak")

	_, err = env.users.Signin(ctx, SigninRequest{Email: "login@example.com", Password: "wrong-password"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = env.users.Signin(ctx, SigninRequest{Email: "nobody@example.com", Password: "password123"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestPasswordReset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.signupVerified(t, "reset@example.com", domain.GenderMale)

	require.NoError(t, env.users.ForgotPassword(ctx, ForgotPasswordRequest{Email: "reset@example.com"}))

	// Unknown emails do not leak existence.
	require.NoError(t, env.users.ForgotPassword(ctx, ForgotPasswordRequest{Email: "ghost@example.com"}))

	expiry := time.Now().Add(time.Hour)
	_, err := env.store.Users.Mutate(ctx, user.ID, func(u *domain.User) error {
		u.ResetTokenHash = auth.HashToken("reset-raw-token")
		u.ResetTokenExpiry = &expiry
		return nil
	})
	require.NoError(t, err)

	err = env.users.ResetPassword(ctx, "reset-raw-token", ResetPasswordRequest{Password: "newpassword1"})
	require.NoError(t, err)

	_, err = env.users.Signin(ctx, SigninRequest{Email: "reset@example.com", Password: "newpassword1"})
	require.NoError(t, err)

	// The token is single-use.
	err = env.users.ResetPassword(ctx, "reset-raw-token", ResetPasswordRequest{Password: "another-pass1"})
	assert.Error(t, err)
}
