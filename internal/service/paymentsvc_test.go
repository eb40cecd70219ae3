package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
	domainerrors "github.com/sandosh-prabu-2005/Legacy25-Backend/internal/errors"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/payment"
)

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

func newPaymentService(env *testEnv) *PaymentService {
	return NewPaymentService(env.store, &stubProvider{secret: "S"}, env.users, nil)
}

// HMAC-SHA256("order_1|pay_1", "S"), hex.
const validSignatureVector = "5a96f87c4443aa4ecc2f636377f33a4edc62292cd3559382bf6ec4464377ecb3"

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)
	payments := newPaymentService(env)

	order, err := payments.CreateOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "order_stub", order.OrderID)
	assert.Equal(t, int64(25000), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "key_stub", order.KeyID)
}

func TestVerifyAndRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	payments := newPaymentService(env)

	resp, err := payments.VerifyAndRegister(ctx, VerifyAndRegisterRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: validSignatureVector,
		Signup:    validSignup("paid@example.com"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.UserID)

	user, err := env.store.Users.Get(ctx, resp.UserID)
	require.NoError(t, err)
	assert.False(t, user.IsVerified, "paid signup still requires email verification")

	txn, err := env.store.Transactions.GetByIndex(ctx, "order", "order_1")
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, txn.UserID)
	assert.Equal(t, domain.TransactionVerified, txn.Status)
	assert.Equal(t, int64(25000), txn.Amount)
}

func TestVerifyAndRegisterRejectsBadSignature(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	payments := newPaymentService(env)

	_, err := payments.VerifyAndRegister(ctx, VerifyAndRegisterRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: "forged",
		Signup:    validSignup("paid@example.com"),
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrPaymentRejected))
	var domainErr *domainerrors.Error
	require.True(t, domainerrors.As(err, &domainErr))
	assert.Equal(t, 400, domainErr.HTTPStatus())

	// Nothing was persisted.
	count, err := env.store.Users.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	count, err = env.store.Transactions.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestVerifyAndRegisterDuplicateOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	payments := newPaymentService(env)

	_, err := payments.VerifyAndRegister(ctx, VerifyAndRegisterRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: validSignatureVector,
		Signup:    validSignup("first@example.com"),
	})
	require.NoError(t, err)

	_, err = payments.VerifyAndRegister(ctx, VerifyAndRegisterRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: validSignatureVector,
		Signup:    validSignup("second@example.com"),
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestGetTransaction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	payments := newPaymentService(env)

	resp, err := payments.VerifyAndRegister(ctx, VerifyAndRegisterRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: validSignatureVector,
		Signup:    validSignup("owner@example.com"),
	})
	require.NoError(t, err)

	owner, err := env.store.Users.Get(ctx, resp.UserID)
	require.NoError(t, err)

	txn, err := payments.GetTransaction(ctx, owner, "order_1")
	require.NoError(t, err)
	assert.Equal(t, "pay_1", txn.PaymentID)

	stranger := env.signupVerified(t, "stranger@example.com", domain.GenderMale)
	if stranger.IsSuperAdmin {
		t.Fatal("test setup: stranger must not be super-admin")
	}
	_, err = payments.GetTransaction(ctx, stranger, "order_1")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))
}
