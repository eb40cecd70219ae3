package domain

import "time"

// AdminInvite is a single-use, time-boxed invitation to onboard an event
// admin. The raw token is emailed; only its SHA-256 digest is stored.
type AdminInvite struct {
	Record
	Email     string    `json:"email"`
	EventID   string    `json:"event_id"`
	ClubName  string    `json:"club_name"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `json:"is_used"`
}

// IsExpired reports whether the invite passed its expiry.
// Expiry is checked at lookup time; nothing reaps invites in the background.
func (a *AdminInvite) IsExpired() bool {
	return time.Now().After(a.ExpiresAt)
}

// IsLive reports whether the invite still blocks new invites for its event
// and (email, event) pair.
func (a *AdminInvite) IsLive() bool {
	return !a.IsUsed && !a.IsExpired() && !a.IsDeleted()
}
