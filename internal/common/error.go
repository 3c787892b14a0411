// Package common defines shared constants and sentinel errors used across
// client and server layers of SkillSwap. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Input that failed a boundary constructor or DTO validation.
	ErrValidation = errors.New("validation error")

	// Caller is not a participant, account is blocked, or self-booking.
	ErrForbidden = errors.New("forbidden")

	// Ledger errors.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// Session lifecycle errors.
	ErrSkillNotOffered = errors.New("skill not offered")
	ErrInvalidOTP      = errors.New("invalid otp")
	ErrConflict        = errors.New("conflict")

	// Review errors.
	ErrDuplicateReview = errors.New("duplicate review")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Sentinels lists every error a client may receive by name. Transport layers
// use it to translate a status message back into the matching sentinel.
var Sentinels = []error{
	ErrorNotFound,
	ErrorInternal,
	ErrorUnauthorized,
	ErrValidation,
	ErrForbidden,
	ErrInsufficientBalance,
	ErrSkillNotOffered,
	ErrInvalidOTP,
	ErrConflict,
	ErrDuplicateReview,
	ErrInvalidToken,
	ErrTokenExpired,
}

// Lookup returns the sentinel whose text equals msg or prefixes it as
// "<sentinel>: detail", or nil.
func Lookup(msg string) error {
	for _, e := range Sentinels {
		if msg == e.Error() || strings.HasPrefix(msg, e.Error()+": ") {
			return e
		}
	}
	return nil
}
