// Package store persists the platform's document collections in Badger.
// Each collection is an Entity with unique secondary indexes enforcing the
// uniqueness invariants (email, event slug and name, order ID, invite token).
package store

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/domain"
)

// Store wraps a Badger database instance and exposes typed collections.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	Users         *Entity[domain.User]
	Events        *Entity[domain.Event]
	Teams         *Entity[domain.Team]
	Invites       *Entity[domain.Invite]
	Registrations *Entity[domain.EventRegistration]
	Transactions  *Entity[domain.Transaction]
	AdminInvites  *Entity[domain.AdminInvite]
}

// New opens the database at path and initializes all collections.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Sync writes to disk to survive crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}
	store.initCollections()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// NewWithRetry opens the database, retrying a bounded number of times with a
// fixed delay. Applied once at process start, never per request.
func NewWithRetry(path string, logger *slog.Logger, attempts int, delay time.Duration) (*Store, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := range attempts {
		store, err := New(path, logger)
		if err == nil {
			return store, nil
		}
		lastErr = err
		if logger != nil {
			logger.Warn("Failed to open database, retrying",
				"attempt", i+1,
				"attempts", attempts,
				"error", err,
			)
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return nil, fmt.Errorf("open database after %d attempts: %w", attempts, lastErr)
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// initCollections wires every collection with its unique indexes.
func (s *Store) initCollections() {
	// Email uniqueness is case-insensitive.
	s.Users = NewEntity[domain.User](s, "user:").
		WithIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail,
		)

	s.Events = NewEntity[domain.Event](s, "event:").
		WithIndex("slug", func(e *domain.Event) []string {
			return []string{e.Slug}
		}).
		WithIndexTransform("name",
			func(e *domain.Event) []string {
				return []string{strings.ToLower(strings.TrimSpace(e.Name))}
			},
			func(v string) string { return strings.ToLower(strings.TrimSpace(v)) },
		)

	s.Teams = NewEntity[domain.Team](s, "team:")
	s.Invites = NewEntity[domain.Invite](s, "invite:")
	s.Registrations = NewEntity[domain.EventRegistration](s, "reg:")

	s.Transactions = NewEntity[domain.Transaction](s, "txn:").
		WithIndex("order", func(t *domain.Transaction) []string {
			return []string{t.OrderID}
		})

	s.AdminInvites = NewEntity[domain.AdminInvite](s, "admininvite:").
		WithIndex("token", func(a *domain.AdminInvite) []string {
			return []string{a.TokenHash}
		})
}

// normalizeEmail lowercases and trims an email for index storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
