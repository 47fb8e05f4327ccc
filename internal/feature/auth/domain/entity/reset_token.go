package entity

import "time"

// ResetToken is a single-use credential that authorizes one password change
// for the account bound to Email.
type ResetToken struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExpiredAt reports whether the token is no longer usable at now.
func (t *ResetToken) ExpiredAt(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
