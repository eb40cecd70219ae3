package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/http/response"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/service"
)

// handleCreateOrder creates a payment order for the signup fee.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.paymentService.CreateOrder(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, order, s.logger)
}

// handleVerifyAndRegister verifies a payment signature and, only on success,
// creates the account and records the transaction.
func (s *Server) handleVerifyAndRegister(w http.ResponseWriter, r *http.Request) {
	var req service.VerifyAndRegisterRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.paymentService.VerifyAndRegister(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, result, s.logger)
}

// handleGetTransaction returns a recorded transaction. Owners see their own;
// admins see any.
func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		response.BadRequest(w, "Order ID is required", s.logger)
		return
	}

	caller, err := s.userService.GetUser(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	txn, err := s.paymentService.GetTransaction(ctx, caller, orderID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, txn, s.logger)
}
