// Package service implements the business operations of the platform:
// accounts, events, registrations, teams, admin onboarding and payments.
// Services validate requests, enforce invariants through the domain and
// store layers, and return coded errors for the API layer to translate.
package service

import (
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/validation"
)

// validate is the shared request validator for all services.
var validate = validation.New()
