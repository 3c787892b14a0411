package models

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/common"
)

type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Terminal reports whether no transition may leave st.
func (st SessionStatus) Terminal() bool {
	return st == SessionCompleted || st == SessionCancelled
}

// CanTransition encodes the session state machine: pending is the only
// source state.
func (st SessionStatus) CanTransition(to SessionStatus) bool {
	return st == SessionPending && to.Terminal()
}

func ParseSessionStatus(s string) (SessionStatus, error) {
	switch st := SessionStatus(s); st {
	case SessionPending, SessionCompleted, SessionCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown session status %q", common.ErrValidation, s)
}

// OTPLength is the fixed width of the shared confirmation code.
const OTPLength = 6

// OTP is a fixed-width numeric confirmation code.
type OTP string

// NewOTP draws a uniformly random code in 000000..999999.
func NewOTP() (OTP, error) {
	s, err := common.RandomDigits(OTPLength)
	if err != nil {
		return "", err
	}
	return OTP(s), nil
}

// ParseOTP accepts exactly six ASCII digits.
func ParseOTP(s string) (OTP, error) {
	if len(s) != OTPLength {
		return "", fmt.Errorf("%w: otp must be %d digits", common.ErrValidation, OTPLength)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", fmt.Errorf("%w: otp must be %d digits", common.ErrValidation, OTPLength)
		}
	}
	return OTP(s), nil
}

// Matches compares in constant time.
func (o OTP) Matches(candidate OTP) bool {
	return subtle.ConstantTimeCompare([]byte(o), []byte(candidate)) == 1
}

// Session is one teaching interaction between a mentor and a learner.
type Session struct {
	ID               string
	MentorID         string
	LearnerID        string
	Skill            Skill
	Status           SessionStatus
	OTP              OTP
	MentorConfirmed  bool
	LearnerConfirmed bool
	CreatedAt        time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
}

// Role returns the caller's role in the session, or "" for outsiders.
func (s *Session) Role(userID string) ParticipantRole {
	switch id := CanonicalID(userID); id {
	case CanonicalID(s.MentorID):
		return RoleMentor
	case CanonicalID(s.LearnerID):
		return RoleLearner
	}
	return ""
}

// Confirm sets the flag that belongs to role and reports whether both
// participants have now confirmed.
func (s *Session) Confirm(role ParticipantRole) bool {
	switch role {
	case RoleMentor:
		s.MentorConfirmed = true
	case RoleLearner:
		s.LearnerConfirmed = true
	}
	return s.MentorConfirmed && s.LearnerConfirmed
}

// ParticipantRole is the side a user takes in a session.
type ParticipantRole string

const (
	RoleAny     ParticipantRole = ""
	RoleMentor  ParticipantRole = "mentor"
	RoleLearner ParticipantRole = "learner"
)

func ParseParticipantRole(s string) (ParticipantRole, error) {
	switch r := ParticipantRole(s); r {
	case RoleAny, RoleMentor, RoleLearner:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", common.ErrValidation, s)
}

// SessionFilter narrows ListSessions.
type SessionFilter struct {
	UserID string
	Role   ParticipantRole
	Status SessionStatus
	Limit  int
}
