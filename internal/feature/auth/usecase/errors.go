// Package usecase implements the business logic for the auth feature.
package usecase

import "storefront_backend/internal/shared/apperr"

var (
	// ErrDuplicateEmail is returned when registering an email that already has an account.
	ErrDuplicateEmail = apperr.New("DuplicateEmail", "email already registered")

	// ErrWeakPassword is returned when a password is shorter than minPasswordLength.
	ErrWeakPassword = apperr.New("WeakPassword", "password must be at least 6 characters")

	// ErrUnknownEmail is returned when no user matches the given email.
	ErrUnknownEmail = apperr.New("UnknownEmail", "email not found")

	// ErrInvalidPassword is returned when the password does not match the stored hash.
	ErrInvalidPassword = apperr.New("InvalidPassword", "invalid password")

	// ErrInvalidToken is returned when a reset token is unknown or was already used.
	ErrInvalidToken = apperr.New("InvalidToken", "invalid reset token")

	// ErrExpiredToken is returned when a reset token is past its expiry.
	ErrExpiredToken = apperr.New("ExpiredToken", "reset token expired")

	// ErrUserNotFound is returned by UserRepository lookups that match nothing.
	ErrUserNotFound = apperr.New("UserNotFound", "user not found")

	// ErrResetTokenNotFound is returned by ResetTokenRepository when the token does not exist.
	ErrResetTokenNotFound = apperr.New("InvalidToken", "reset token not found")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = apperr.New("SessionNotFound", "session not found")

	// ErrSessionRevoked is returned when attempting to use a revoked session.
	ErrSessionRevoked = apperr.New("SessionRevoked", "session has been revoked")

	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = apperr.New("SessionExpired", "session has expired")

	// ErrInvalidSessionToken is returned when a session token is malformed, forged
	// or does not match its session.
	ErrInvalidSessionToken = apperr.New("InvalidSession", "invalid session token")
)
