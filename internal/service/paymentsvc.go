package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
	domainerrors "github.com/sandosh-prabu-2005/Legacy25-Backend/internal/errors"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/id"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/payment"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/store"
)

// PaymentService gates signup behind a verified payment.
type PaymentService struct {
	store       *store.Store
	provider    payment.Provider
	userService *UserService
	logger      *slog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(st *store.Store, provider payment.Provider, userService *UserService, logger *slog.Logger) *PaymentService {
	return &PaymentService{
		store:       st,
		provider:    provider,
		userService: userService,
		logger:      logger,
	}
}

// OrderResponse gives the checkout widget everything it needs.
type OrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// CreateOrder opens a provider order for the fixed signup fee.
func (s *PaymentService) CreateOrder(ctx context.Context) (*OrderResponse, error) {
	receipt, err := id.Generate("rcpt")
	if err != nil {
		return nil, fmt.Errorf("generate receipt: %w", err)
	}

	order, err := s.provider.CreateOrder(ctx, s.provider.SignupAmount(), s.provider.Currency(), receipt)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Payment order created", "order_id", order.ID, "amount", order.Amount)
	}

	return &OrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.provider.KeyID(),
	}, nil
}

// VerifyAndRegisterRequest carries the checkout result and the signup.
type VerifyAndRegisterRequest struct {
	OrderID   string        `json:"order_id" validate:"required"`
	PaymentID string        `json:"payment_id" validate:"required"`
	Signature string        `json:"signature" validate:"required"`
	Signup    SignupRequest `json:"signup" validate:"required"`
}

// VerifyAndRegister recomputes the provider signature and, only on a
// constant-time match, creates the verification-pending account and the
// transaction record. A mismatch persists nothing.
func (s *PaymentService) VerifyAndRegister(ctx context.Context, req VerifyAndRegisterRequest) (*SignupResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if !s.provider.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		if s.logger != nil {
			s.logger.Warn("Payment signature rejected", "order_id", req.OrderID)
		}
		return nil, domainerrors.PaymentRejected("payment verification failed")
	}

	resp, err := s.userService.Signup(ctx, req.Signup)
	if err != nil {
		return nil, err
	}

	txnID, err := id.Generate("txn")
	if err != nil {
		return nil, fmt.Errorf("generate transaction ID: %w", err)
	}

	txn := &domain.Transaction{
		Record:    domain.Record{ID: txnID},
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		Amount:    s.provider.SignupAmount(),
		Currency:  s.provider.Currency(),
		UserID:    resp.UserID,
		Status:    domain.TransactionVerified,
	}
	txn.InitTimestamps()

	if err := s.store.Transactions.Create(ctx, txnID, txn); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("this payment has already been recorded")
		}
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Paid signup verified", "order_id", req.OrderID, "user_id", resp.UserID)
	}
	return resp, nil
}

// GetTransaction returns a transaction by order ID. Callers see only their
// own transactions unless they are admins.
func (s *PaymentService) GetTransaction(ctx context.Context, caller *domain.User, orderID string) (*domain.Transaction, error) {
	txn, err := s.store.Transactions.GetByIndex(ctx, "order", orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("transaction not found")
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if txn.UserID != caller.ID && !caller.IsAdmin() {
		return nil, domainerrors.Forbidden("this transaction does not belong to you")
	}
	return txn, nil
}
