package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/skillswap/internal/common"
)

// MaxCommentLength bounds review comments, in characters.
const MaxCommentLength = 500

type Review struct {
	ID        string
	SessionID string
	MentorID  string
	LearnerID string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

func ParseRating(n int) (int, error) {
	if n < 1 || n > 5 {
		return 0, fmt.Errorf("%w: rating must be between 1 and 5", common.ErrValidation)
	}
	return n, nil
}

// ParseComment trims the comment and enforces MaxCommentLength.
func ParseComment(s string) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > MaxCommentLength {
		return "", fmt.Errorf("%w: comment longer than %d characters", common.ErrValidation, MaxCommentLength)
	}
	return s, nil
}
